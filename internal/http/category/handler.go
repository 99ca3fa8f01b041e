package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/category"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Put("/order", h.reorder)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Type          transaction.Type `json:"type"`
	SortIndex     int              `json:"sort_index"`
	MonthlyBudget *int64           `json:"monthly_budget,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Type:          c.Type,
		SortIndex:     c.SortIndex,
		MonthlyBudget: c.MonthlyBudget,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type createCategoryRequest struct {
	Name          string           `json:"name"`
	Type          transaction.Type `json:"type"`
	MonthlyBudget *int64           `json:"monthly_budget,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Create(r.Context(), category.CreateParams{
		UserID:        middleware.UserID(r.Context()),
		Name:          req.Name,
		Type:          req.Type,
		MonthlyBudget: req.MonthlyBudget,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, c := range cats {
		resp[i] = toResponse(c)
	}

	render.JSON(w, http.StatusOK, resp)
}

type updateCategoryRequest struct {
	Name          *string           `json:"name,omitempty"`
	Type          *transaction.Type `json:"type,omitempty"`
	MonthlyBudget *int64            `json:"monthly_budget,omitempty"`
	ClearBudget   bool              `json:"clear_budget,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), id, category.UpdateParams{
		Name:          req.Name,
		Type:          req.Type,
		MonthlyBudget: req.MonthlyBudget,
		ClearBudget:   req.ClearBudget,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (h *Handler) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Reorder(r.Context(), middleware.UserID(r.Context()), req.IDs); err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, category.ErrNotFound):
		render.Error(w, http.StatusNotFound, "category not found")
	case errors.Is(err, category.ErrNameTaken):
		render.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, category.ErrMissingName), errors.Is(err, category.ErrInvalidType):
		render.Error(w, http.StatusBadRequest, err.Error())
	default:
		render.Error(w, http.StatusInternalServerError, "internal error")
	}
}
