package export

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/centavo/internal/export"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/report"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

type Handler struct {
	resolver *report.Resolver
	svc      *export.Service
}

func NewHandler(resolver *report.Resolver, svc *export.Service) *Handler {
	return &Handler{resolver: resolver, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.csv)
}

// csv streams the resolved window's transactions as a CSV download. Window
// selection follows the same plan rules as the dashboard.
func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	q := r.URL.Query()

	presetDays := 30

	var custom *report.DateRange

	if start, end := q.Get("start"), q.Get("end"); start != "" || end != "" {
		startDate, err := time.Parse(time.DateOnly, start)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid start date")
			return
		}

		endDate, err := time.Parse(time.DateOnly, end)
		if err != nil {
			render.Error(w, http.StatusBadRequest, "invalid end date")
			return
		}

		custom = &report.DateRange{Start: startDate, End: endDate}
	} else if s := q.Get("preset_days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			render.Error(w, http.StatusBadRequest, "invalid preset_days")
			return
		}

		presetDays = n
	}

	period, err := h.resolver.Resolve(r.Context(), userID, presetDays, custom, time.Now().UTC())
	if err != nil {
		if errors.Is(err, report.ErrPresetNotAllowed) || errors.Is(err, report.ErrCustomRangeNotAllowed) {
			render.UpgradeRequired(w, err.Error())
			return
		}

		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	filter := transaction.ListFilter{StartDate: &period.Start, EndDate: &period.End}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(filter)+`"`)

	if err := h.svc.Export(r.Context(), userID, filter, w); err != nil {
		slog.Error("csv export failed", "error", err)
	}
}
