package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

// header is the ledger CSV layout. It matches what the importer accepts, so
// an exported file can be imported back unchanged.
var header = []string{"Date", "Category", "Description", "Type", "Amount"}

type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service writes a user's transactions as a CSV file.
type Service struct {
	transactions TransactionLister
}

func NewService(transactions TransactionLister) *Service {
	return &Service{transactions: transactions}
}

// Export streams transactions matching the filter to w as CSV. Lines end in
// CRLF and amounts carry exactly two decimals.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter, w io.Writer) error {
	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			tx.Date.Format("2006-01-02"),
			tx.Category,
			tx.Description,
			typeLabel(tx.Type),
			decimal.NewFromInt(tx.Amount).Div(decimal.NewFromInt(100)).StringFixed(2),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// Filename names the download after the filter's date range when one is set.
func Filename(filter transaction.ListFilter) string {
	var parts []string

	if filter.StartDate != nil {
		parts = append(parts, filter.StartDate.Format("2006-01-02"))
	}

	if filter.EndDate != nil {
		parts = append(parts, filter.EndDate.Format("2006-01-02"))
	}

	if len(parts) == 0 {
		return "transactions.csv"
	}

	return "transactions_" + strings.Join(parts, "_") + ".csv"
}

func typeLabel(t transaction.Type) string {
	switch t {
	case transaction.TypeIncome:
		return "Income"
	case transaction.TypeExpense:
		return "Expense"
	}

	return string(t)
}
