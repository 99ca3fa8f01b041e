package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

// Summary holds the headline totals for a period, in cents. Sums stay in
// integer cents end to end, so no float drift can reach the display layer.
type Summary struct {
	Income   int64
	Expenses int64
	Net      int64
}

// Summarize totals a transaction list into income, expenses and net.
func Summarize(txs []*transaction.Transaction) Summary {
	var s Summary

	for _, tx := range txs {
		switch tx.Type {
		case transaction.TypeIncome:
			s.Income += tx.Amount
		case transaction.TypeExpense:
			s.Expenses += tx.Amount
		}
	}

	s.Net = s.Income - s.Expenses

	return s
}

// ByCategory totals expense amounts per category name. Income rows are not
// categorized spending and are skipped.
func ByCategory(txs []*transaction.Transaction) map[string]int64 {
	totals := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		totals[tx.Category] += tx.Amount
	}

	return totals
}

// CategoryTotal is one entry of the top-spending list.
type CategoryTotal struct {
	Category string
	Spent    int64
}

// TopCategories returns the n highest-spending categories, ordered by spent
// descending with ties broken by name ascending for determinism.
func TopCategories(byCategory map[string]int64, n int) []CategoryTotal {
	totals := make([]CategoryTotal, 0, len(byCategory))
	for name, spent := range byCategory {
		totals = append(totals, CategoryTotal{Category: name, Spent: spent})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Spent != totals[j].Spent {
			return totals[i].Spent > totals[j].Spent
		}

		return totals[i].Category < totals[j].Category
	})

	if n >= 0 && len(totals) > n {
		totals = totals[:n]
	}

	return totals
}

// SavingsRate returns round(net/income*100), or nil when income is zero or
// negative: a rate over nonpositive income is "unavailable", not a garbage
// percentage.
func SavingsRate(income, net int64) *int64 {
	if income <= 0 {
		return nil
	}

	rate := decimal.NewFromInt(net).
		Div(decimal.NewFromInt(income)).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()

	return &rate
}

// BudgetStatus classifies budget consumption.
type BudgetStatus string

const (
	BudgetNone BudgetStatus = "none"
	BudgetOK   BudgetStatus = "ok"
	BudgetNear BudgetStatus = "near"
	BudgetOver BudgetStatus = "over"
)

// nearThreshold is the consumed fraction at which a budget counts as nearly
// spent.
var nearThreshold = decimal.RequireFromString("0.8")

// BudgetUsage reports how much of a budget a period consumed. Pct is clamped
// to [0,100] for display; Ratio keeps the raw fraction that drives the status
// classification, so 105% used still reports over even though the bar caps.
type BudgetUsage struct {
	Status BudgetStatus
	Pct    int64
	Ratio  decimal.Decimal
}

// BudgetUsageFor classifies spentCents against a budget in cents. A zero or
// negative budget means none is set.
func BudgetUsageFor(spentCents, budgetCents int64) BudgetUsage {
	if budgetCents <= 0 {
		return BudgetUsage{Status: BudgetNone}
	}

	ratio := decimal.NewFromInt(spentCents).Div(decimal.NewFromInt(budgetCents))

	status := BudgetOK

	switch {
	case ratio.GreaterThan(decimal.NewFromInt(1)):
		status = BudgetOver
	case ratio.GreaterThanOrEqual(nearThreshold):
		status = BudgetNear
	}

	pct := ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		pct = 100
	}

	if pct < 0 {
		pct = 0
	}

	return BudgetUsage{Status: status, Pct: pct, Ratio: ratio}
}
