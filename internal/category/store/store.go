package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/centavo/internal/category"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category

	var typeStr string

	var budget sql.NullInt64

	var updatedAt sql.NullTime

	if err := s.Scan(
		&c.ID, &c.UserID, &c.Name, &typeStr, &c.SortIndex, &budget, &c.CreatedAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	c.Type = transaction.Type(typeStr)

	if budget.Valid {
		c.MonthlyBudget = &budget.Int64
	}

	if updatedAt.Valid {
		c.UpdatedAt = &updatedAt.Time
	}

	return &c, nil
}

const selectCategoryColumns = `
	c.id, c.user_id, c.name, c.type, c.sort_index, c.monthly_budget, c.created_at, c.updated_at
`

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, type, sort_index, monthly_budget, created_at)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(sort_index), -1) + 1 FROM categories WHERE user_id = $2),
			$5, NOW())
		RETURNING sort_index, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		c.ID,
		c.UserID,
		c.Name,
		c.Type,
		nullInt64(c.MonthlyBudget),
	).Scan(&c.SortIndex, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameTaken
		}

		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id uuid.UUID) (*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories c
		WHERE c.id = $1 AND c.user_id = $2`

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, category.ErrNotFound
		}

		return nil, fmt.Errorf("getting category: %w", err)
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `SELECT ` + selectCategoryColumns + `
		FROM categories c
		WHERE c.user_id = $1
		ORDER BY c.sort_index ASC, c.name ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var cats []*category.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		cats = append(cats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return cats, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2, monthly_budget = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
	`

	res, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Type,
		nullInt64(c.MonthlyBudget),
		c.ID,
		c.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameTaken
		}

		return fmt.Errorf("updating category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}

	if affected == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if affected == 0 {
		return category.ErrNotFound
	}

	return nil
}

func (s *Store) ReorderCategories(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reorder tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE categories SET sort_index = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, query, i, id, userID); err != nil {
			return fmt.Errorf("reordering category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}
