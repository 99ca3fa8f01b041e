package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=billing
type Repository interface {
	GetRecord(ctx context.Context, userID uuid.UUID) (*Record, error)
	UpsertRecord(ctx context.Context, rec *Record) error
}

// SubscriptionResolver maps a provider subscription to the owning user via
// the subscription's own metadata. It returns uuid.Nil (and no error) when
// the subscription exists but is not addressed to a known user.
type SubscriptionResolver interface {
	SubscriptionUserID(ctx context.Context, subscriptionID string) (uuid.UUID, error)
}

type CheckoutParams struct {
	UserID     uuid.UUID
	Email      string
	CustomerID string
}

// CheckoutClient starts a hosted checkout session and returns its URL.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (string, error)
}

// Outcome reports what a webhook event did to stored state.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
)

type Service struct {
	repo     Repository
	subs     SubscriptionResolver
	checkout CheckoutClient
	grace    time.Duration
}

func NewService(repo Repository, subs SubscriptionResolver, checkout CheckoutClient, grace time.Duration) *Service {
	return &Service{
		repo:     repo,
		subs:     subs,
		checkout: checkout,
		grace:    grace,
	}
}

// Record returns the user's billing record, creating and persisting the Free
// defaults on first load.
func (s *Service) Record(ctx context.Context, userID uuid.UUID) (*Record, error) {
	rec, err := s.repo.GetRecord(ctx, userID)
	if err == nil {
		return rec, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("loading billing record: %w", err)
	}

	fresh := NewRecord(userID)
	if err := s.repo.UpsertRecord(ctx, &fresh); err != nil {
		return nil, fmt.Errorf("creating billing record: %w", err)
	}

	return &fresh, nil
}

func (s *Service) PlanFor(ctx context.Context, userID uuid.UUID, now time.Time) (Plan, error) {
	rec, err := s.Record(ctx, userID)
	if err != nil {
		return "", err
	}

	if IsEntitled(*rec, now) {
		return PlanPro, nil
	}

	return PlanFree, nil
}

func (s *Service) Entitled(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	rec, err := s.Record(ctx, userID)
	if err != nil {
		return false, err
	}

	return IsEntitled(*rec, now), nil
}

// StartCheckout opens a hosted checkout session for the user's upgrade,
// reusing their provider customer id when one is already stored.
func (s *Service) StartCheckout(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	rec, err := s.Record(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.checkout.CreateCheckoutSession(ctx, CheckoutParams{
		UserID:     userID,
		Email:      email,
		CustomerID: rec.StripeCustomerID,
	})
	if err != nil {
		return "", fmt.Errorf("creating checkout session: %w", err)
	}

	return url, nil
}

// HandleEvent applies one provider lifecycle event to stored billing state.
// Events that cannot be mapped to a user are acknowledged as no-ops so the
// provider does not retry them; persistence failures are returned so the
// provider does retry, which is safe because Apply is idempotent.
func (s *Service) HandleEvent(ctx context.Context, ev Event, now time.Time) (Outcome, error) {
	if ev.Kind == EventUnhandled {
		return OutcomeSkipped, nil
	}

	userID := ev.UserID

	if userID == uuid.Nil && ev.SubscriptionID != "" {
		resolved, err := s.subs.SubscriptionUserID(ctx, ev.SubscriptionID)
		if err != nil {
			return "", fmt.Errorf("resolving subscription %s: %w", ev.SubscriptionID, err)
		}

		userID = resolved
	}

	if userID == uuid.Nil {
		slog.Warn("billing event without user mapping, acknowledging as no-op",
			"kind", ev.Kind, "subscription_id", ev.SubscriptionID)

		return OutcomeSkipped, nil
	}

	rec, err := s.repo.GetRecord(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("loading billing record: %w", err)
		}

		fresh := NewRecord(userID)
		rec = &fresh
	}

	updated := Apply(*rec, ev, now, s.grace)
	updated.UserID = userID

	if err := s.repo.UpsertRecord(ctx, &updated); err != nil {
		return "", fmt.Errorf("persisting billing record: %w", err)
	}

	return OutcomeApplied, nil
}
