package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
	"github.com/MrJamesThe3rd/centavo/internal/stripe"
)

func newClient(baseURL string) *stripe.Client {
	return stripe.NewClient(stripe.Config{
		SecretKey:  "sk_test",
		ProPriceID: "price_pro",
		SuccessURL: "https://app.example.com/billing/success",
		CancelURL:  "https://app.example.com/billing/cancel",
		BaseURL:    baseURL,
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "price_pro", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, userID.String(), r.PostForm.Get("metadata[user_id]"))
		assert.Equal(t, userID.String(), r.PostForm.Get("subscription_data[metadata][user_id]"))
		assert.Equal(t, "person@example.com", r.PostForm.Get("customer_email"))
		assert.Empty(t, r.PostForm.Get("customer"))

		w.Write([]byte(`{"id": "cs_123", "url": "https://checkout.stripe.com/c/pay/cs_123"}`))
	}))
	defer srv.Close()

	url, err := newClient(srv.URL).CreateCheckoutSession(context.Background(), billing.CheckoutParams{
		UserID: userID,
		Email:  "person@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_123", url)
}

func TestCreateCheckoutSession_ReusesCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_123", r.PostForm.Get("customer"))
		assert.Empty(t, r.PostForm.Get("customer_email"))

		w.Write([]byte(`{"id": "cs_123", "url": "https://checkout.stripe.com/c/pay/cs_123"}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).CreateCheckoutSession(context.Background(), billing.CheckoutParams{
		UserID:     uuid.New(),
		Email:      "person@example.com",
		CustomerID: "cus_123",
	})
	require.NoError(t, err)
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such price"}}`))
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).CreateCheckoutSession(context.Background(), billing.CheckoutParams{UserID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such price")
}

func TestSubscriptionUserID(t *testing.T) {
	userID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/subscriptions/sub_123", r.URL.Path)

		w.Write([]byte(`{"id": "sub_123", "metadata": {"user_id": "` + userID.String() + `"}}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).SubscriptionUserID(context.Background(), "sub_123")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSubscriptionUserID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such subscription"}}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).SubscriptionUserID(context.Background(), "sub_missing")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
}

func TestSubscriptionUserID_NoMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "sub_123", "metadata": {}}`))
	}))
	defer srv.Close()

	got, err := newClient(srv.URL).SubscriptionUserID(context.Background(), "sub_123")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
}

func TestSubscriptionUserID_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).SubscriptionUserID(context.Background(), "sub_123")
	assert.Error(t, err)
}
