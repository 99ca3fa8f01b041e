package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch prefers the longest matching pattern so "AMZN MKTP DE" beats
// "AMZN" when both apply.
func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, rawDescription string) (matching.Suggestion, error) {
	query := `
		SELECT description, category
		FROM description_mappings
		WHERE user_id = $1 AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		suggestion matching.Suggestion
		category   sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query, userID, rawDescription).Scan(&suggestion.Description, &category)
	if err != nil {
		if err == sql.ErrNoRows {
			return matching.Suggestion{}, nil
		}

		return matching.Suggestion{}, fmt.Errorf("finding match: %w", err)
	}

	suggestion.Category = category.String

	return suggestion, nil
}

func (s *Store) CreateMapping(ctx context.Context, userID uuid.UUID, rawPattern string, suggestion matching.Suggestion) error {
	query := `
		INSERT INTO description_mappings (user_id, raw_pattern, description, category, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, raw_pattern)
		DO UPDATE SET description = EXCLUDED.description, category = EXCLUDED.category, created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, userID, rawPattern, suggestion.Description, nullString(suggestion.Category))
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
