package billing

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/centavo/internal/billing"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	"github.com/MrJamesThe3rd/centavo/internal/http/render"
	"github.com/MrJamesThe3rd/centavo/internal/metrics"
	"github.com/MrJamesThe3rd/centavo/internal/stripe"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20

type Handler struct {
	svc           *billing.Service
	webhookSecret string
	metrics       *metrics.Metrics
}

func NewHandler(svc *billing.Service, webhookSecret string, m *metrics.Metrics) *Handler {
	return &Handler{
		svc:           svc,
		webhookSecret: webhookSecret,
		metrics:       m,
	}
}

// Routes are the authenticated billing endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.checkout)
	r.Get("/status", h.status)
}

// WebhookRoutes is mounted outside the auth middleware: Stripe authenticates
// with its signature, not a session.
func (h *Handler) WebhookRoutes(r chi.Router) {
	r.Post("/webhook", h.webhook)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	url, err := h.svc.StartCheckout(ctx, middleware.UserID(ctx), middleware.Email(ctx))
	if err != nil {
		h.metrics.CheckoutSession("error")
		slog.Error("starting checkout failed", "error", err)
		render.Error(w, http.StatusBadGateway, "could not start checkout")

		return
	}

	h.metrics.CheckoutSession("started")

	render.JSON(w, http.StatusOK, map[string]string{"url": url})
}

type statusResponse struct {
	Plan       billing.Plan               `json:"plan"`
	Status     billing.SubscriptionStatus `json:"status,omitempty"`
	GraceUntil *time.Time                 `json:"grace_until,omitempty"`
	Entitled   bool                       `json:"entitled"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Record(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	render.JSON(w, http.StatusOK, statusResponse{
		Plan:       rec.Plan,
		Status:     rec.Status,
		GraceUntil: rec.GraceUntil,
		Entitled:   billing.IsEntitled(*rec, time.Now()),
	})
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "could not read body")
		return
	}

	now := time.Now()

	if err := stripe.VerifySignature(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret, now); err != nil {
		h.metrics.WebhookRejected()
		slog.Warn("webhook signature rejected", "error", err)
		render.Error(w, http.StatusBadRequest, "invalid signature")

		return
	}

	ev, err := stripe.ParseEvent(payload)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "malformed event")
		return
	}

	outcome, err := h.svc.HandleEvent(r.Context(), ev, now)
	if err != nil {
		// Non-2xx makes the provider redeliver; the reducer is idempotent so
		// the retry is safe.
		h.metrics.WebhookEvent(string(ev.Kind), "error")
		slog.Error("applying billing event failed", "kind", ev.Kind, "error", err)
		render.Error(w, http.StatusInternalServerError, "could not apply event")

		return
	}

	h.metrics.WebhookEvent(string(ev.Kind), string(outcome))

	render.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
