package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRecord(ctx context.Context, userID uuid.UUID) (*billing.Record, error) {
	query := `
		SELECT user_id, plan, stripe_customer_id, stripe_subscription_id,
		       subscription_status, grace_until, updated_at
		FROM billing_records
		WHERE user_id = $1
	`

	var (
		rec        billing.Record
		customerID sql.NullString
		subID      sql.NullString
		status     sql.NullString
		graceUntil sql.NullTime
	)

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&rec.UserID, &rec.Plan, &customerID, &subID, &status, &graceUntil, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, billing.ErrNotFound
		}

		return nil, fmt.Errorf("getting billing record: %w", err)
	}

	rec.StripeCustomerID = customerID.String
	rec.StripeSubscriptionID = subID.String
	rec.Status = billing.SubscriptionStatus(status.String)

	if graceUntil.Valid {
		rec.GraceUntil = &graceUntil.Time
	}

	return &rec, nil
}

func (s *Store) UpsertRecord(ctx context.Context, rec *billing.Record) error {
	query := `
		INSERT INTO billing_records
			(user_id, plan, stripe_customer_id, stripe_subscription_id,
			 subscription_status, grace_until, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			stripe_customer_id = EXCLUDED.stripe_customer_id,
			stripe_subscription_id = EXCLUDED.stripe_subscription_id,
			subscription_status = EXCLUDED.subscription_status,
			grace_until = EXCLUDED.grace_until,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		rec.UserID,
		rec.Plan,
		nullString(rec.StripeCustomerID),
		nullString(rec.StripeSubscriptionID),
		nullString(string(rec.Status)),
		rec.GraceUntil,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting billing record: %w", err)
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
