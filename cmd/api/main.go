package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wiryasaputra/gerai-backend/api/routes"
	"github.com/wiryasaputra/gerai-backend/internal/customers"
	"github.com/wiryasaputra/gerai-backend/internal/inventory"
	"github.com/wiryasaputra/gerai-backend/internal/invoices"
	"github.com/wiryasaputra/gerai-backend/internal/orders"
	"github.com/wiryasaputra/gerai-backend/internal/payments"
	"github.com/wiryasaputra/gerai-backend/internal/products"
	"github.com/wiryasaputra/gerai-backend/internal/reports"
	"github.com/wiryasaputra/gerai-backend/internal/sequence"
	"github.com/wiryasaputra/gerai-backend/internal/settings"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/logger"
	"github.com/wiryasaputra/gerai-backend/pkg/metrics"
	"github.com/wiryasaputra/gerai-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	conn := dbClient.DB()
	ledger := inventory.NewLedger()
	generator := sequence.NewGenerator(map[string]sequence.Source{
		cfg.Sequence.OrderPrefix:   {Table: "orders", Column: "order_number"},
		cfg.Sequence.InvoicePrefix: {Table: "invoices", Column: "invoice_number"},
	})

	customerSvc, err := customers.NewService(customers.ServiceParams{
		Repo: customers.NewRepository(conn),
	})
	requireService(logg, "customers", err)

	productSvc, err := products.NewService(products.ServiceParams{
		Client:    dbClient,
		Repo:      products.NewRepository(conn),
		Inventory: ledger,
	})
	requireService(logg, "products", err)

	paymentSvc, err := payments.NewService(payments.ServiceParams{
		Repo: payments.NewRepository(conn),
	})
	requireService(logg, "payments", err)

	orderSvc, err := orders.NewService(orders.ServiceParams{
		Client:      dbClient,
		Repo:        orders.NewRepository(conn),
		Customers:   customers.NewRepository(conn),
		Products:    products.NewRepository(conn),
		Payments:    payments.NewRepository(conn),
		Inventory:   ledger,
		Sequence:    generator,
		Metrics:     m,
		Log:         logg,
		OrderPrefix: cfg.Sequence.OrderPrefix,
	})
	requireService(logg, "orders", err)

	invoiceSvc, err := invoices.NewService(invoices.ServiceParams{
		Client:        dbClient,
		Repo:          invoices.NewRepository(conn),
		Orders:        orders.NewRepository(conn),
		Sequence:      generator,
		InvoicePrefix: cfg.Sequence.InvoicePrefix,
		TaxPercent:    cfg.Company.TaxPercent,
	})
	requireService(logg, "invoices", err)

	reportSvc, err := reports.NewService(reports.ServiceParams{
		Repo: reports.NewRepository(conn),
	})
	requireService(logg, "reports", err)

	settingSvc, err := settings.NewService(settings.ServiceParams{
		Repo: settings.NewRepository(conn),
	})
	requireService(logg, "settings", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, m, registry, routes.Services{
			Customers: customerSvc,
			Products:  productSvc,
			Orders:    orderSvc,
			Ledger:    paymentSvc,
			Invoices:  invoiceSvc,
			Reports:   reportSvc,
			Settings:  settingSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
