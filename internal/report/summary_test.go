package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centavo/internal/report"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

func tx(typ transaction.Type, category string, amount int64) *transaction.Transaction {
	return &transaction.Transaction{Type: typ, Category: category, Amount: amount}
}

func TestSummarize(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, "Salary", 100000),
		tx(transaction.TypeExpense, "Groceries", 25000),
		tx(transaction.TypeExpense, "Rent", 15000),
	}

	s := report.Summarize(txs)

	assert.Equal(t, int64(100000), s.Income)
	assert.Equal(t, int64(40000), s.Expenses)
	assert.Equal(t, int64(60000), s.Net)
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(nil)

	assert.Equal(t, report.Summary{}, s)
}

func TestSummarize_NegativeNet(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, "Salary", 50000),
		tx(transaction.TypeExpense, "Rent", 80000),
	}

	s := report.Summarize(txs)

	assert.Equal(t, int64(-30000), s.Net)
}

func TestByCategory_SkipsIncome(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(transaction.TypeIncome, "Salary", 100000),
		tx(transaction.TypeExpense, "Groceries", 10000),
		tx(transaction.TypeExpense, "Groceries", 5000),
		tx(transaction.TypeExpense, "Rent", 80000),
	}

	byCat := report.ByCategory(txs)

	assert.Equal(t, map[string]int64{
		"Groceries": 15000,
		"Rent":      80000,
	}, byCat)
}

func TestTopCategories(t *testing.T) {
	byCat := map[string]int64{
		"Rent":      80000,
		"Groceries": 15000,
		"Transport": 15000,
		"Coffee":    3000,
	}

	top := report.TopCategories(byCat, 3)

	require.Len(t, top, 3)
	assert.Equal(t, report.CategoryTotal{Category: "Rent", Spent: 80000}, top[0])
	// Equal totals fall back to name order.
	assert.Equal(t, report.CategoryTotal{Category: "Groceries", Spent: 15000}, top[1])
	assert.Equal(t, report.CategoryTotal{Category: "Transport", Spent: 15000}, top[2])
}

func TestTopCategories_FewerThanLimit(t *testing.T) {
	top := report.TopCategories(map[string]int64{"Rent": 80000}, 3)

	require.Len(t, top, 1)
	assert.Equal(t, "Rent", top[0].Category)
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name   string
		income int64
		net    int64
		want   *int64
	}{
		{name: "sixty percent", income: 100000, net: 60000, want: ptr(int64(60))},
		{name: "rounds to nearest", income: 30000, net: 10000, want: ptr(int64(33))},
		{name: "negative net", income: 50000, net: -30000, want: ptr(int64(-60))},
		{name: "zero income", income: 0, net: 0, want: nil},
		{name: "negative income", income: -100, net: 50, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.SavingsRate(tt.income, tt.net)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestBudgetUsageFor(t *testing.T) {
	tests := []struct {
		name       string
		spent      int64
		budget     int64
		wantStatus report.BudgetStatus
		wantPct    int64
	}{
		{name: "no budget", spent: 5000, budget: 0, wantStatus: report.BudgetNone},
		{name: "well under", spent: 20000, budget: 100000, wantStatus: report.BudgetOK, wantPct: 20},
		{name: "near at 85 percent", spent: 85000, budget: 100000, wantStatus: report.BudgetNear, wantPct: 85},
		{name: "near at exactly 80 percent", spent: 80000, budget: 100000, wantStatus: report.BudgetNear, wantPct: 80},
		{name: "ok just below 80 percent", spent: 79999, budget: 100000, wantStatus: report.BudgetOK, wantPct: 80},
		{name: "exactly spent", spent: 100000, budget: 100000, wantStatus: report.BudgetNear, wantPct: 100},
		{name: "over caps pct at 100", spent: 120000, budget: 100000, wantStatus: report.BudgetOver, wantPct: 100},
		{name: "nothing spent", spent: 0, budget: 100000, wantStatus: report.BudgetOK, wantPct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := report.BudgetUsageFor(tt.spent, tt.budget)

			assert.Equal(t, tt.wantStatus, u.Status)
			assert.Equal(t, tt.wantPct, u.Pct)
		})
	}
}

func TestBudgetUsageFor_RatioKeepsOverspend(t *testing.T) {
	u := report.BudgetUsageFor(120000, 100000)

	assert.Equal(t, report.BudgetOver, u.Status)
	assert.Equal(t, int64(100), u.Pct)
	assert.Equal(t, "1.2", u.Ratio.String())
}

func ptr[T any](v T) *T {
	return &v
}
