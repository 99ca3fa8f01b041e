package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/centavo/internal/auth"
	authv1 "github.com/MrJamesThe3rd/centavo/internal/http/auth"
	billingv1 "github.com/MrJamesThe3rd/centavo/internal/http/billing"
	categoryv1 "github.com/MrJamesThe3rd/centavo/internal/http/category"
	exportv1 "github.com/MrJamesThe3rd/centavo/internal/http/export"
	importv1 "github.com/MrJamesThe3rd/centavo/internal/http/importcsv"
	matchingv1 "github.com/MrJamesThe3rd/centavo/internal/http/matching"
	"github.com/MrJamesThe3rd/centavo/internal/http/middleware"
	reportv1 "github.com/MrJamesThe3rd/centavo/internal/http/report"
	transactionv1 "github.com/MrJamesThe3rd/centavo/internal/http/transaction"
)

type RouterParams struct {
	Tokens         *auth.TokenManager
	AllowedOrigins []string
	Registry       *prometheus.Registry

	AuthV1         *authv1.Handler
	TransactionsV1 *transactionv1.Handler
	CategoriesV1   *categoryv1.Handler
	ReportsV1      *reportv1.Handler
	BillingV1      *billingv1.Handler
	ImportV1       *importv1.Handler
	MatchingV1     *matchingv1.Handler
	ExportV1       *exportv1.Handler
}

func New(p RouterParams) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   p.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			p.AuthV1.Routes(r)
		})

		// The webhook authenticates with its signature, not a session, and
		// must see the raw body.
		r.Route("/billing", func(r chi.Router) {
			p.BillingV1.WebhookRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(p.Tokens))
				p.BillingV1.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(p.Tokens))

			p.AuthV1.MeRoutes(r)

			r.Route("/transactions", func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				p.TransactionsV1.Routes(r)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				p.CategoriesV1.Routes(r)
			})

			r.Route("/reports", p.ReportsV1.Routes)

			r.Route("/import", p.ImportV1.Routes)

			r.Route("/matching", p.MatchingV1.Routes)

			r.Route("/export", p.ExportV1.Routes)
		})
	})

	return router
}
