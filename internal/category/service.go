package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category

type Repository interface {
	CreateCategory(ctx context.Context, c *Category) error
	GetCategory(ctx context.Context, userID, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
	ReorderCategories(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID        uuid.UUID
	Name          string
	Type          transaction.Type
	MonthlyBudget *int64
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Category, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrMissingName
	}
	if !p.Type.Valid() {
		return nil, ErrInvalidType
	}

	c := &Category{
		ID:            uuid.New(),
		UserID:        p.UserID,
		Name:          name,
		Type:          p.Type,
		MonthlyBudget: p.MonthlyBudget,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

type UpdateParams struct {
	Name          *string
	Type          *transaction.Type
	MonthlyBudget *int64
	ClearBudget   bool
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, p UpdateParams) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, ErrMissingName
		}
		c.Name = name
	}
	if p.Type != nil {
		if !p.Type.Valid() {
			return nil, ErrInvalidType
		}
		c.Type = *p.Type
	}
	if p.ClearBudget {
		c.MonthlyBudget = nil
	} else if p.MonthlyBudget != nil {
		c.MonthlyBudget = p.MonthlyBudget
	}

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the category row only. Transactions keep the category name
// they were created with.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, userID, id)
}

// Reorder persists the given display order. IDs not listed keep their
// previous sort index.
func (s *Service) Reorder(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return s.repo.ReorderCategories(ctx, userID, ids)
}
