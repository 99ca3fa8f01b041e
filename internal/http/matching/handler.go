package matching

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string `json:"raw_description"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rawDesc := r.URL.Query().Get("raw_description")
	if rawDesc == "" {
		render.Error(w, http.StatusBadRequest, "raw_description query parameter is required")
		return
	}

	suggestion, err := h.svc.Suggest(r.Context(), middleware.UserID(r.Context()), rawDesc)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, http.StatusOK, suggestResponse{
		RawDescription: rawDesc,
		Description:    suggestion.Description,
		Category:       suggestion.Category,
	})
}

type learnRequest struct {
	RawPattern  string `json:"raw_pattern"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.RawPattern == "" || (req.Description == "" && req.Category == "") {
		render.Error(w, http.StatusBadRequest, "raw_pattern and a description or category are required")
		return
	}

	err := h.svc.Learn(r.Context(), middleware.UserID(r.Context()), req.RawPattern, matching.Suggestion{
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusCreated)
}
