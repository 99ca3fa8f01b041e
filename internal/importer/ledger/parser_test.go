package ledger_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/centavo/internal/importer/ledger"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser(t *testing.T) {
	csv := `Date,Category,Description,Type,Amount
2025-05-30,Groceries,Supermarket run,Expense,58.74
2025-05-28,Salary,May payroll,Income,"3,250.00"
2025-05-27,,Coffee,Expense,3.20
`

	p := ledger.New()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, date(2025, 5, 30), txs[0].Date)
	assert.Equal(t, "Groceries", txs[0].Category)
	assert.Equal(t, "Supermarket run", txs[0].Description)
	assert.Equal(t, "Supermarket run", txs[0].RawDescription)
	assert.Equal(t, int64(5874), txs[0].Amount)
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)

	assert.Equal(t, int64(325000), txs[1].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)

	assert.Empty(t, txs[2].Category)
	assert.Equal(t, int64(320), txs[2].Amount)
}

func TestParser_EuropeanAmounts(t *testing.T) {
	csv := `Date,Category,Description,Type,Amount
2025-05-30,Rent,Monthly rent,Expense,"1.234,56"
`

	p := ledger.New()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, int64(123456), txs[0].Amount)
}

func TestParser_InfersTypeFromSign(t *testing.T) {
	csv := `Date,Description,Amount
30-05-2025,Card payment,-58.74
28-05-2025,Transfer in,100.00
`

	p := ledger.New()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
	assert.Equal(t, int64(5874), txs[0].Amount)
	assert.Equal(t, transaction.TypeIncome, txs[1].Type)
	assert.Equal(t, int64(10000), txs[1].Amount)
}

func TestParser_SkipsPreambleAndFooter(t *testing.T) {
	csv := `Account statement
Exported 2025-06-01

Date,Description,Type,Amount
2025-05-30,Supermarket,Expense,58.74

Total,,,58.74
`

	p := ledger.New()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Supermarket", txs[0].Description)
}

func TestParser_SkipsZeroAmounts(t *testing.T) {
	csv := `Date,Description,Type,Amount
2025-05-30,Zero line,Expense,0.00
2025-05-29,Real line,Expense,1.00
`

	p := ledger.New()
	txs, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Real line", txs[0].Description)
}

func TestParser_BadType(t *testing.T) {
	csv := `Date,Description,Type,Amount
2025-05-30,Mystery,transfer,58.74
`

	p := ledger.New()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParser_NoHeader(t *testing.T) {
	csv := `just,some,cells
more,random,cells
`

	p := ledger.New()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParser_Latin1Input(t *testing.T) {
	utf8CSV := `Date,Description,Type,Amount
2025-05-30,Café São Bento,Expense,3.20
`

	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := ledger.New()
	txs, err := p.Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Café São Bento", txs[0].Description)
}
