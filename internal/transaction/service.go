package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/date"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// WindowSource reports the date span a user may currently record
// transactions in, given their plan tier.
type WindowSource interface {
	EditableWindow(ctx context.Context, userID uuid.UUID, today time.Time) (start, end time.Time, err error)
}

type Service struct {
	repo    Repository
	windows WindowSource
	now     func() time.Time
}

func NewService(repo Repository, windows WindowSource) *Service {
	return &Service{
		repo:    repo,
		windows: windows,
		now:     time.Now,
	}
}

type CreateParams struct {
	UserID         uuid.UUID
	Amount         int64
	Type           Type
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
}

type ListFilter struct {
	Type      *Type
	Category  *string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := s.validate(ctx, params.UserID, params.Amount, params.Type, params.Date); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:         params.UserID,
		Amount:         params.Amount,
		Type:           params.Type,
		Category:       params.Category,
		Description:    params.Description,
		RawDescription: params.RawDescription,
		Date:           date.Day(params.Date),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if err := s.validate(ctx, tx.UserID, tx.Amount, tx.Type, tx.Date); err != nil {
		return err
	}

	tx.Date = date.Day(tx.Date)

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

// validate enforces the domain rules shared by create, edit and import: a
// positive amount, a known type, and a date inside the window the user's plan
// currently allows.
func (s *Service) validate(ctx context.Context, userID uuid.UUID, amount int64, txType Type, day time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if !txType.Valid() {
		return ErrInvalidType
	}

	if day.IsZero() {
		return ErrMissingDate
	}

	start, end, err := s.windows.EditableWindow(ctx, userID, date.Day(s.now()))
	if err != nil {
		return fmt.Errorf("resolving editable window: %w", err)
	}

	d := date.Day(day)
	if d.Before(start) || d.After(end) {
		return fmt.Errorf("%w: %s is not between %s and %s", ErrDateOutsideWindow,
			d.Format(time.DateOnly), start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	return nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// ImportBatch inserts a parsed statement for one user, detecting rows that
// already exist. When any duplicates are found nothing is written and the
// caller gets the split back to confirm.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		params[i].UserID = userID
		params[i].Date = date.Day(params[i].Date)

		if err := s.validate(ctx, userID, params[i].Amount, params[i].Type, params[i].Date); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	type dupKey struct {
		Date           string
		Amount         int64
		Type           Type
		RawDescription string
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))

	for _, d := range duplicates {
		k := dupKey{
			Date:           d.Date.Format(time.DateOnly),
			Amount:         d.Amount,
			Type:           d.Type,
			RawDescription: d.RawDescription,
		}
		lookup[k] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		k := dupKey{
			Date:           p.Date.Format(time.DateOnly),
			Amount:         p.Amount,
			Type:           p.Type,
			RawDescription: p.RawDescription,
		}

		existing, found := lookup[k]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch inserts rows the user already confirmed, skipping duplicate
// detection.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		params[i].UserID = userID
		params[i].Date = date.Day(params[i].Date)

		if err := s.validate(ctx, userID, params[i].Amount, params[i].Type, params[i].Date); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			UserID:         p.UserID,
			Amount:         p.Amount,
			Type:           p.Type,
			Category:       p.Category,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Date:           p.Date,
		}
	}

	return txs
}
