package stripe_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
	"github.com/MrJamesThe3rd/centavo/internal/stripe"
)

const secret = "whsec_test"

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sign(t *testing.T, payload []byte, signedAt time.Time) string {
	t.Helper()

	ts := fmt.Sprintf("%d", signedAt.Unix())

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", ts, payload)

	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	err := stripe.VerifySignature(payload, sign(t, payload, now), secret, now)
	assert.NoError(t, err)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	header := sign(t, []byte(`{"id":"evt_1"}`), now)

	err := stripe.VerifySignature([]byte(`{"id":"evt_2"}`), header, secret, now)
	assert.ErrorIs(t, err, stripe.ErrBadSignature)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := sign(t, payload, now)

	err := stripe.VerifySignature(payload, header, "whsec_other", now)
	assert.ErrorIs(t, err, stripe.ErrBadSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	header := sign(t, payload, now.Add(-10*time.Minute))

	err := stripe.VerifySignature(payload, header, secret, now)
	assert.ErrorIs(t, err, stripe.ErrBadSignature)
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "empty", header: ""},
		{name: "no digest", header: "t=1748779200"},
		{name: "no timestamp", header: "v1=deadbeef"},
		{name: "garbage", header: "not a signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stripe.VerifySignature([]byte("{}"), tt.header, secret, now)
			assert.ErrorIs(t, err, stripe.ErrBadSignature)
		})
	}
}

func TestVerifySignature_AcceptsAnyValidDigest(t *testing.T) {
	// Secret rotation sends two v1 entries; one valid digest is enough.
	payload := []byte(`{"id":"evt_1"}`)
	rotated := sign(t, payload, now) + ",v1=" + hex.EncodeToString(make([]byte, 32))

	err := stripe.VerifySignature(payload, rotated, secret, now)
	assert.NoError(t, err)
}

func TestParseEvent_CheckoutCompleted(t *testing.T) {
	userID := uuid.New()
	payload := fmt.Sprintf(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"customer": "cus_123",
			"subscription": "sub_123",
			"metadata": {"user_id": %q}
		}}
	}`, userID)

	ev, err := stripe.ParseEvent([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, billing.EventCheckoutCompleted, ev.Kind)
	assert.Equal(t, userID, ev.UserID)
	assert.Equal(t, "cus_123", ev.CustomerID)
	assert.Equal(t, "sub_123", ev.SubscriptionID)
}

func TestParseEvent_CheckoutFallsBackToClientReference(t *testing.T) {
	userID := uuid.New()
	payload := fmt.Sprintf(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"customer": "cus_123",
			"subscription": "sub_123",
			"client_reference_id": %q
		}}
	}`, userID)

	ev, err := stripe.ParseEvent([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, userID, ev.UserID)
}

func TestParseEvent_SubscriptionLifecycle(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		eventType  string
		wantKind   billing.EventKind
		wantStatus billing.SubscriptionStatus
	}{
		{eventType: "customer.subscription.created", wantKind: billing.EventSubscriptionCreated, wantStatus: billing.StatusTrialing},
		{eventType: "customer.subscription.updated", wantKind: billing.EventSubscriptionCreated, wantStatus: billing.StatusTrialing},
		{eventType: "customer.subscription.deleted", wantKind: billing.EventSubscriptionDeleted, wantStatus: billing.StatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			payload := fmt.Sprintf(`{
				"type": %q,
				"data": {"object": {
					"id": "sub_123",
					"customer": "cus_123",
					"status": "trialing",
					"metadata": {"user_id": %q}
				}}
			}`, tt.eventType, userID)

			ev, err := stripe.ParseEvent([]byte(payload))
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, userID, ev.UserID)
			assert.Equal(t, "sub_123", ev.SubscriptionID)
			assert.Equal(t, tt.wantStatus, ev.Status)
		})
	}
}

func TestParseEvent_InvoiceEventsCarryNoUser(t *testing.T) {
	tests := []struct {
		eventType string
		wantKind  billing.EventKind
	}{
		{eventType: "invoice.payment_failed", wantKind: billing.EventPaymentFailed},
		{eventType: "invoice.payment_succeeded", wantKind: billing.EventPaymentSucceeded},
		{eventType: "invoice.paid", wantKind: billing.EventPaymentSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			payload := fmt.Sprintf(`{
				"type": %q,
				"data": {"object": {"customer": "cus_123", "subscription": "sub_123"}}
			}`, tt.eventType)

			ev, err := stripe.ParseEvent([]byte(payload))
			require.NoError(t, err)

			assert.Equal(t, tt.wantKind, ev.Kind)
			assert.Equal(t, uuid.Nil, ev.UserID)
			assert.Equal(t, "sub_123", ev.SubscriptionID)
		})
	}
}

func TestParseEvent_UnknownTypeIsUnhandled(t *testing.T) {
	payload := `{"type": "customer.created", "data": {"object": {}}}`

	ev, err := stripe.ParseEvent([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, billing.EventUnhandled, ev.Kind)
}

func TestParseEvent_MalformedJSON(t *testing.T) {
	_, err := stripe.ParseEvent([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestParseEvent_MissingMetadataLeavesUserNil(t *testing.T) {
	payload := `{
		"type": "customer.subscription.created",
		"data": {"object": {"id": "sub_123", "customer": "cus_123", "status": "active"}}
	}`

	ev, err := stripe.ParseEvent([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, ev.UserID)
}
