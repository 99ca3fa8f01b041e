package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/centavo/internal/auth"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/user"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

// MeRoutes are the session routes mounted behind the auth middleware.
func (h *Handler) MeRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

type credentialsRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingEmail), errors.Is(err, auth.ErrWeakPassword):
			render.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailTaken):
			render.Error(w, http.StatusConflict, err.Error())
		default:
			render.Error(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	render.JSON(w, http.StatusCreated, sessionResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			render.Error(w, http.StatusUnauthorized, err.Error())
			return
		}

		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, sessionResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.UserByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			render.Error(w, http.StatusNotFound, "user not found")
			return
		}

		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toUserResponse(u))
}
