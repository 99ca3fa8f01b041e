package billing

import (
	"time"

	"github.com/google/uuid"
)

// Plan is the subscription tier a user is on.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// SubscriptionStatus mirrors the provider's subscription lifecycle status.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// Record is the per-user billing state, updated by provider lifecycle events.
type Record struct {
	UserID               uuid.UUID
	Plan                 Plan
	StripeCustomerID     string
	StripeSubscriptionID string
	// Status is empty on records written before subscription status tracking
	// existed. IsEntitled treats an empty status with no grace deadline as
	// entitled so those legacy Pro records keep working.
	Status     SubscriptionStatus
	GraceUntil *time.Time
	UpdatedAt  time.Time
}

// NewRecord returns the Free-plan defaults written on first profile load.
func NewRecord(userID uuid.UUID) Record {
	return Record{UserID: userID, Plan: PlanFree}
}

// EventKind tags the closed set of provider lifecycle events this system
// reacts to. Anything else parses to EventUnhandled.
type EventKind string

const (
	EventCheckoutCompleted   EventKind = "checkout_completed"
	EventSubscriptionCreated EventKind = "subscription_created"
	EventPaymentFailed       EventKind = "payment_failed"
	EventPaymentSucceeded    EventKind = "payment_succeeded"
	EventSubscriptionDeleted EventKind = "subscription_deleted"
	EventUnhandled           EventKind = "unhandled"
)

// Event is a provider lifecycle event normalized at the webhook boundary.
// UserID is uuid.Nil when the provider event did not carry a user mapping;
// payment events identify the user indirectly via SubscriptionID.
type Event struct {
	Kind           EventKind
	UserID         uuid.UUID
	CustomerID     string
	SubscriptionID string
	Status         SubscriptionStatus
}

// Apply reduces a billing record with one event. It is a pure function of its
// inputs: replaying the same event with the same now yields the same record,
// which is what makes at-least-once webhook delivery safe without dedup
// bookkeeping.
func Apply(rec Record, ev Event, now time.Time, grace time.Duration) Record {
	switch ev.Kind {
	case EventCheckoutCompleted:
		rec.Plan = PlanPro
		rec.Status = StatusActive
		rec.GraceUntil = nil

		if ev.CustomerID != "" {
			rec.StripeCustomerID = ev.CustomerID
		}

		if ev.SubscriptionID != "" {
			rec.StripeSubscriptionID = ev.SubscriptionID
		}

	case EventSubscriptionCreated:
		rec.Plan = PlanPro
		rec.GraceUntil = nil

		rec.Status = StatusActive
		if ev.Status == StatusTrialing {
			rec.Status = StatusTrialing
		}

		if ev.SubscriptionID != "" {
			rec.StripeSubscriptionID = ev.SubscriptionID
		}

		if ev.CustomerID != "" {
			rec.StripeCustomerID = ev.CustomerID
		}

	case EventPaymentFailed:
		// Plan stays as-is: the grace window is what keeps Pro usable while
		// the provider retries the charge.
		rec.Status = StatusPastDue
		deadline := now.Add(grace)
		rec.GraceUntil = &deadline

	case EventPaymentSucceeded:
		rec.Plan = PlanPro
		rec.GraceUntil = nil

		rec.Status = StatusActive
		if ev.Status == StatusTrialing {
			rec.Status = StatusTrialing
		}

		if ev.SubscriptionID != "" {
			rec.StripeSubscriptionID = ev.SubscriptionID
		}

	case EventSubscriptionDeleted:
		rec.Plan = PlanFree
		rec.Status = StatusCanceled
		rec.StripeSubscriptionID = ""
		rec.GraceUntil = nil
	}

	return rec
}

// IsEntitled reports whether the record currently grants Pro features.
func IsEntitled(rec Record, now time.Time) bool {
	if rec.Plan != PlanPro {
		return false
	}

	if rec.Status == StatusActive || rec.Status == StatusTrialing {
		return true
	}

	if rec.GraceUntil != nil && now.Before(*rec.GraceUntil) {
		return true
	}

	// Legacy shim: Pro records written before status/grace tracking carry
	// neither field and stay entitled.
	return rec.Status == "" && rec.GraceUntil == nil
}
