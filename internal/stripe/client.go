// Package stripe talks to the Stripe REST API directly over HTTP and
// normalizes webhook payloads into billing events. Only the handful of
// endpoints the billing flow needs are implemented.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
)

const defaultBaseURL = "https://api.stripe.com"

// metadataUserKey is the metadata field carrying our user id on both the
// checkout session and the subscription it creates.
const metadataUserKey = "user_id"

type Config struct {
	SecretKey  string
	ProPriceID string
	SuccessURL string
	CancelURL  string

	// BaseURL overrides the API host, used by tests and stripe-mock.
	BaseURL string
}

type Client struct {
	http *http.Client
	cfg  Config
	base string
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	return &Client{
		http: &http.Client{Timeout: 15 * time.Second},
		cfg:  cfg,
		base: strings.TrimRight(base, "/"),
	}
}

// apiError is the error envelope Stripe wraps non-2xx responses in.
type apiError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) (int, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, fmt.Errorf("building stripe request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling stripe: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading stripe response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error apiError `json:"error"`
		}

		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
			return resp.StatusCode, fmt.Errorf("stripe %s %s: %s (%s)", method, path, envelope.Error.Message, envelope.Error.Type)
		}

		return resp.StatusCode, fmt.Errorf("stripe %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding stripe response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// CreateCheckoutSession opens a hosted subscription checkout for the Pro
// price and returns the redirect URL. The user id travels in metadata on both
// the session and the subscription so webhooks can find their way back.
func (c *Client) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", c.cfg.ProPriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.cfg.SuccessURL)
	form.Set("cancel_url", c.cfg.CancelURL)
	form.Set("client_reference_id", params.UserID.String())
	form.Set("metadata["+metadataUserKey+"]", params.UserID.String())
	form.Set("subscription_data[metadata]["+metadataUserKey+"]", params.UserID.String())

	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	} else if params.Email != "" {
		form.Set("customer_email", params.Email)
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}

	if _, err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return "", err
	}

	if session.URL == "" {
		return "", fmt.Errorf("stripe checkout session %s has no url", session.ID)
	}

	return session.URL, nil
}

// SubscriptionUserID fetches a subscription and reads the user id from its
// metadata. A missing subscription or absent metadata returns uuid.Nil with
// no error; only transport and server failures are errors, so callers can
// retry those and drop the rest.
func (c *Client) SubscriptionUserID(ctx context.Context, subscriptionID string) (uuid.UUID, error) {
	var sub struct {
		ID       string            `json:"id"`
		Metadata map[string]string `json:"metadata"`
	}

	status, err := c.do(ctx, http.MethodGet, "/v1/subscriptions/"+url.PathEscape(subscriptionID), nil, &sub)
	if err != nil {
		if status == http.StatusNotFound {
			return uuid.Nil, nil
		}

		return uuid.Nil, err
	}

	raw, ok := sub.Metadata[metadataUserKey]
	if !ok {
		return uuid.Nil, nil
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil
	}

	return userID, nil
}

// unixTime decodes Stripe's integer epoch timestamps.
type unixTime struct {
	time.Time
}

func (u *unixTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}

	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parsing unix timestamp %q: %w", s, err)
	}

	u.Time = time.Unix(secs, 0).UTC()

	return nil
}
