package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MrJamesThe3rd/centavo/internal/auth"
	"github.com/MrJamesThe3rd/centavo/internal/billing"
	billingStore "github.com/MrJamesThe3rd/centavo/internal/billing/store"
	"github.com/MrJamesThe3rd/centavo/internal/category"
	categoryStore "github.com/MrJamesThe3rd/centavo/internal/category/store"
	"github.com/MrJamesThe3rd/centavo/internal/config"
	"github.com/MrJamesThe3rd/centavo/internal/database"
	"github.com/MrJamesThe3rd/centavo/internal/export"
	centavoHttp "github.com/MrJamesThe3rd/centavo/internal/http"
	authHandler "github.com/MrJamesThe3rd/centavo/internal/http/auth"
	billingHandler "github.com/MrJamesThe3rd/centavo/internal/http/billing"
	categoryHandler "github.com/MrJamesThe3rd/centavo/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/centavo/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/centavo/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/centavo/internal/http/matching"
	reportHandler "github.com/MrJamesThe3rd/centavo/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/centavo/internal/http/transaction"
	"github.com/MrJamesThe3rd/centavo/internal/importer"
	"github.com/MrJamesThe3rd/centavo/internal/logging"
	"github.com/MrJamesThe3rd/centavo/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/centavo/internal/matching/store"
	"github.com/MrJamesThe3rd/centavo/internal/metrics"
	"github.com/MrJamesThe3rd/centavo/internal/report"
	"github.com/MrJamesThe3rd/centavo/internal/stripe"
	"github.com/MrJamesThe3rd/centavo/internal/transaction"
	txStore "github.com/MrJamesThe3rd/centavo/internal/transaction/store"
	userStore "github.com/MrJamesThe3rd/centavo/internal/user/store"
)

func main() {
	godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := metrics.New(registry)

	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey:  cfg.Stripe.SecretKey,
		ProPriceID: cfg.Stripe.ProPriceID,
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	})

	planConfig := report.PlanConfig{
		billing.PlanFree: {Presets: cfg.Plans.FreePresets, MaxDays: cfg.Plans.FreeMaxDays},
		billing.PlanPro:  {Presets: cfg.Plans.ProPresets, MaxDays: cfg.Plans.ProMaxDays},
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		billingService = billing.NewService(billingStore.New(db), stripeClient, stripeClient, cfg.Plans.GracePeriod)
		resolver       = report.NewResolver(planConfig, billingService)

		authService        = auth.NewService(userStore.New(db), tokens)
		transactionService = transaction.NewService(txStore.New(db), resolver)
		categoryService    = category.NewService(categoryStore.New(db))
		matchingService    = matching.NewService(matchingStore.New(db))
		importService      = importer.NewService()
		exportService      = export.NewService(transactionService)
	)

	router := centavoHttp.New(centavoHttp.RouterParams{
		Tokens:         tokens,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Registry:       registry,

		AuthV1:         authHandler.NewHandler(authService),
		TransactionsV1: txHandler.NewHandler(transactionService),
		CategoriesV1:   categoryHandler.NewHandler(categoryService),
		ReportsV1:      reportHandler.NewHandler(resolver, transactionService, categoryService),
		BillingV1:      billingHandler.NewHandler(billingService, cfg.Stripe.WebhookSecret, m),
		ImportV1:       importHandler.NewHandler(importService, transactionService, matchingService, m),
		MatchingV1:     matchingHandler.NewHandler(matchingService),
		ExportV1:       exportHandler.NewHandler(resolver, exportService),
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
