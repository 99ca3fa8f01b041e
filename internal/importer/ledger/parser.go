package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/centavo/internal/encoding"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

// Parser reads ledger CSV files: a header row naming at least Date and
// Amount, with optional Type, Category and Description columns. Export files
// match this layout exactly, so an export can be imported back.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
}

type colIndex map[string]int

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	cols, headerIdx, ok := detectHeader(rows)
	if !ok {
		return nil, fmt.Errorf("no header row found: need at least Date and Amount columns")
	}

	return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
}

// detectHeader scans for the first row carrying both a date and an amount
// column. Column names are matched case-insensitively.
func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		_, hasDate := cols["date"]
		_, hasAmount := cols["amount"]

		if hasDate && hasAmount {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := cols["date"]
	amountIdx := cols["amount"]
	typeIdx, hasType := cols["type"]
	categoryIdx, hasCategory := cols["category"]
	descIdx, hasDesc := cols["description"]

	var params []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Footer and summary rows have no parseable date.
			continue
		}

		cents, err := parseAmount(cellValue(row, amountIdx))
		if err != nil || cents == 0 {
			continue
		}

		txType, ok := rowType(row, typeIdx, hasType, cents)
		if !ok {
			return nil, fmt.Errorf("row %d: unrecognized type %q", rowNum, cellValue(row, typeIdx))
		}

		if cents < 0 {
			cents = -cents
		}

		desc := ""
		if hasDesc {
			desc = cellValue(row, descIdx)
		}

		category := ""
		if hasCategory {
			category = cellValue(row, categoryIdx)
		}

		params = append(params, transaction.CreateParams{
			Amount:         cents,
			Type:           txType,
			Category:       category,
			Description:    desc,
			RawDescription: desc,
			Date:           date,
		})
	}

	return params, nil
}

// rowType reads the type column when present, otherwise infers it from the
// amount's sign.
func rowType(row []string, typeIdx int, hasType bool, cents int64) (transaction.Type, bool) {
	if !hasType || cellValue(row, typeIdx) == "" {
		if cents < 0 {
			return transaction.TypeExpense, true
		}

		return transaction.TypeIncome, true
	}

	t := transaction.Type(strings.ToLower(cellValue(row, typeIdx)))
	if !t.Valid() {
		return "", false
	}

	return t, true
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
