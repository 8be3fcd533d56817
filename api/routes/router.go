package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wiryasaputra/gerai-backend/api/controllers"
	"github.com/wiryasaputra/gerai-backend/api/middleware"
	customersvc "github.com/wiryasaputra/gerai-backend/internal/customers"
	invoicesvc "github.com/wiryasaputra/gerai-backend/internal/invoices"
	ordersvc "github.com/wiryasaputra/gerai-backend/internal/orders"
	paymentsvc "github.com/wiryasaputra/gerai-backend/internal/payments"
	productsvc "github.com/wiryasaputra/gerai-backend/internal/products"
	reportsvc "github.com/wiryasaputra/gerai-backend/internal/reports"
	settingsvc "github.com/wiryasaputra/gerai-backend/internal/settings"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/logger"
	"github.com/wiryasaputra/gerai-backend/pkg/metrics"
)

// Services groups everything the router exposes.
type Services struct {
	Customers *customersvc.Service
	Products  *productsvc.Service
	Orders    *ordersvc.Service
	Ledger    *paymentsvc.Service
	Invoices  *invoicesvc.Service
	Reports   *reportsvc.Service
	Settings  *settingsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pinger db.Pinger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, pinger, logg))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
			r.Put("/{id}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.Delete("/{id}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/low-stock", controllers.ListLowStockProducts(svcs.Products, logg))
			r.Get("/categories", controllers.ListProductCategories(svcs.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
			r.Post("/{id}/restock", controllers.RestockProduct(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.Delete("/{id}", controllers.DeleteOrder(svcs.Orders, logg))
			r.Post("/{id}/lines", controllers.AddOrderLine(svcs.Orders, logg))
			r.Delete("/{id}/lines/{lineID}", controllers.RemoveOrderLine(svcs.Orders, logg))
			r.Post("/{id}/payments", controllers.AddOrderPayment(svcs.Orders, logg))
			r.Post("/{id}/invoice", controllers.IssueInvoice(svcs.Invoices, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.ListInvoices(svcs.Invoices, logg))
			r.Get("/{id}", controllers.GetInvoice(svcs.Invoices, logg))
			r.Post("/{id}/void", controllers.VoidInvoice(svcs.Invoices, logg))
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Post("/entries", controllers.PostLedgerEntry(svcs.Ledger, logg))
			r.Get("/entries", controllers.ListLedgerEntries(svcs.Ledger, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/financial", controllers.FinancialReport(svcs.Reports, logg))
			r.Get("/receivables", controllers.ReceivablesReport(svcs.Reports, logg))
			r.Get("/sales", controllers.SalesReport(svcs.Reports, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.ListSettings(svcs.Settings, logg))
			r.Put("/{key}", controllers.UpdateSetting(svcs.Settings, logg))
		})
	})

	return r
}
