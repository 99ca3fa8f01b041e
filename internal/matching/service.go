package matching

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Suggestion is what a learned mapping proposes for a raw statement
// description: a clean display description and optionally a category name.
type Suggestion struct {
	Description string
	Category    string
}

type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (Suggestion, error)
	CreateMapping(ctx context.Context, userID uuid.UUID, rawPattern string, s Suggestion) error
}

// Service learns per-user mappings from raw bank statement descriptions to
// clean descriptions and categories, and applies them to imported rows.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up the mapping whose pattern matches the raw description.
// A zero Suggestion means nothing matched.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, rawDescription string) (Suggestion, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return Suggestion{}, nil
	}

	return s.repo.FindMatch(ctx, userID, raw)
}

// Learn remembers a mapping from a raw pattern to a suggestion. Called when
// the user renames or recategorizes an imported transaction.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, rawPattern string, suggestion Suggestion) error {
	pattern := strings.TrimSpace(rawPattern)
	if pattern == "" || (suggestion.Description == "" && suggestion.Category == "") {
		return nil
	}

	return s.repo.CreateMapping(ctx, userID, pattern, suggestion)
}
