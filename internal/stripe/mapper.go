package stripe

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
)

// ParseEvent decodes a verified webhook payload into a normalized billing
// event. Event types outside the handled set map to EventUnhandled so the
// caller can acknowledge them without acting.
func ParseEvent(payload []byte) (billing.Event, error) {
	var ev webhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return billing.Event{}, fmt.Errorf("decoding webhook event: %w", err)
	}

	switch ev.Type {
	case "checkout.session.completed":
		var session checkoutSession
		if err := json.Unmarshal(ev.Data.Object, &session); err != nil {
			return billing.Event{}, fmt.Errorf("decoding checkout session: %w", err)
		}

		return billing.Event{
			Kind:           billing.EventCheckoutCompleted,
			UserID:         sessionUserID(session),
			CustomerID:     session.Customer,
			SubscriptionID: session.Subscription,
		}, nil

	case "customer.subscription.created", "customer.subscription.updated":
		var sub subscription
		if err := json.Unmarshal(ev.Data.Object, &sub); err != nil {
			return billing.Event{}, fmt.Errorf("decoding subscription: %w", err)
		}

		return billing.Event{
			Kind:           billing.EventSubscriptionCreated,
			UserID:         metadataUserID(sub.Metadata),
			CustomerID:     sub.Customer,
			SubscriptionID: sub.ID,
			Status:         billing.SubscriptionStatus(sub.Status),
		}, nil

	case "customer.subscription.deleted":
		var sub subscription
		if err := json.Unmarshal(ev.Data.Object, &sub); err != nil {
			return billing.Event{}, fmt.Errorf("decoding subscription: %w", err)
		}

		return billing.Event{
			Kind:           billing.EventSubscriptionDeleted,
			UserID:         metadataUserID(sub.Metadata),
			CustomerID:     sub.Customer,
			SubscriptionID: sub.ID,
			Status:         billing.StatusCanceled,
		}, nil

	case "invoice.payment_failed":
		var inv invoice
		if err := json.Unmarshal(ev.Data.Object, &inv); err != nil {
			return billing.Event{}, fmt.Errorf("decoding invoice: %w", err)
		}

		return billing.Event{
			Kind:           billing.EventPaymentFailed,
			CustomerID:     inv.Customer,
			SubscriptionID: inv.Subscription,
		}, nil

	case "invoice.payment_succeeded", "invoice.paid":
		var inv invoice
		if err := json.Unmarshal(ev.Data.Object, &inv); err != nil {
			return billing.Event{}, fmt.Errorf("decoding invoice: %w", err)
		}

		return billing.Event{
			Kind:           billing.EventPaymentSucceeded,
			CustomerID:     inv.Customer,
			SubscriptionID: inv.Subscription,
		}, nil
	}

	return billing.Event{Kind: billing.EventUnhandled}, nil
}

// sessionUserID prefers the metadata user id and falls back to the client
// reference id, which checkout also carries.
func sessionUserID(session checkoutSession) uuid.UUID {
	if id := metadataUserID(session.Metadata); id != uuid.Nil {
		return id
	}

	if userID, err := uuid.Parse(session.ClientReferenceID); err == nil {
		return userID
	}

	return uuid.Nil
}

func metadataUserID(metadata map[string]string) uuid.UUID {
	raw, ok := metadata[metadataUserKey]
	if !ok {
		return uuid.Nil
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}

	return userID
}
