package report

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/category"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/report"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

const topCategoryCount = 3

type Handler struct {
	resolver     *report.Resolver
	transactions *transaction.Service
	categories   *category.Service
}

func NewHandler(resolver *report.Resolver, transactions *transaction.Service, categories *category.Service) *Handler {
	return &Handler{
		resolver:     resolver,
		transactions: transactions,
		categories:   categories,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

type periodResponse struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	Days       int    `json:"days"`
	PresetDays int    `json:"preset_days,omitempty"`
	Custom     bool   `json:"custom"`
	Label      string `json:"label"`
}

type budgetResponse struct {
	Category string              `json:"category"`
	Budget   int64               `json:"budget"`
	Spent    int64               `json:"spent"`
	Status   report.BudgetStatus `json:"status"`
	Pct      int64               `json:"pct"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Spent    int64  `json:"spent"`
}

type summaryResponse struct {
	Period        periodResponse          `json:"period"`
	Income        int64                   `json:"income"`
	Expenses      int64                   `json:"expenses"`
	Net           int64                   `json:"net"`
	SavingsRate   *int64                  `json:"savings_rate"`
	TopCategories []categoryTotalResponse `json:"top_categories"`
	Budgets       []budgetResponse        `json:"budgets"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	today := time.Now().UTC()

	presetDays, custom, err := windowParams(r)
	if err != nil {
		render.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	period, err := h.resolver.Resolve(r.Context(), userID, presetDays, custom, today)
	if err != nil {
		if errors.Is(err, report.ErrPresetNotAllowed) || errors.Is(err, report.ErrCustomRangeNotAllowed) {
			render.UpgradeRequired(w, err.Error())
			return
		}

		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	txs, err := h.transactions.List(r.Context(), userID, transaction.ListFilter{
		StartDate: &period.Start,
		EndDate:   &period.End,
	})
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	summary := report.Summarize(txs)
	byCategory := report.ByCategory(txs)

	budgets, err := h.budgetUsage(r, userID, byCategory)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	top := report.TopCategories(byCategory, topCategoryCount)

	resp := summaryResponse{
		Period: periodResponse{
			Start:      period.Start.Format(time.DateOnly),
			End:        period.End.Format(time.DateOnly),
			Days:       period.Days(),
			PresetDays: period.PresetDays,
			Custom:     period.Custom,
			Label:      period.Label,
		},
		Income:        summary.Income,
		Expenses:      summary.Expenses,
		Net:           summary.Net,
		SavingsRate:   report.SavingsRate(summary.Income, summary.Net),
		TopCategories: make([]categoryTotalResponse, len(top)),
		Budgets:       budgets,
	}

	for i, ct := range top {
		resp.TopCategories[i] = categoryTotalResponse{Category: ct.Category, Spent: ct.Spent}
	}

	render.JSON(w, http.StatusOK, resp)
}

// budgetUsage reports period spending against each budgeted expense category.
func (h *Handler) budgetUsage(r *http.Request, userID uuid.UUID, byCategory map[string]int64) ([]budgetResponse, error) {
	cats, err := h.categories.List(r.Context(), userID)
	if err != nil {
		return nil, err
	}

	budgets := make([]budgetResponse, 0)

	for _, c := range cats {
		if c.MonthlyBudget == nil || c.Type != transaction.TypeExpense {
			continue
		}

		spent := byCategory[c.Name]
		usage := report.BudgetUsageFor(spent, *c.MonthlyBudget)

		budgets = append(budgets, budgetResponse{
			Category: c.Name,
			Budget:   *c.MonthlyBudget,
			Spent:    spent,
			Status:   usage.Status,
			Pct:      usage.Pct,
		})
	}

	return budgets, nil
}

// windowParams reads either preset_days or a start/end pair off the query.
func windowParams(r *http.Request) (int, *report.DateRange, error) {
	q := r.URL.Query()

	start := q.Get("start")
	end := q.Get("end")

	if start != "" || end != "" {
		startDate, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return 0, nil, errors.New("invalid start date")
		}

		endDate, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return 0, nil, errors.New("invalid end date")
		}

		return 0, &report.DateRange{Start: startDate, End: endDate}, nil
	}

	presetDays := 30
	if s := q.Get("preset_days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, nil, errors.New("invalid preset_days")
		}

		presetDays = n
	}

	return presetDays, nil, nil
}
