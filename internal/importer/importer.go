package importer

import (
	"io"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

// Format identifies a supported CSV layout.
type Format string

const (
	// FormatLedger is the app's own CSV layout, also produced by the export
	// endpoint, so exported files round-trip through import.
	FormatLedger Format = "ledger"
)

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
