package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/centavo/internal/importer/ledger"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

type Service struct {
	ledgerImporter Importer
}

func NewService() *Service {
	return &Service{
		ledgerImporter: ledger.New(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	var imp Importer

	switch format {
	case FormatLedger:
		imp = s.ledgerImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return imp.Parse(r)
}
