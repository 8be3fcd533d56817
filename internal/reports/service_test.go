package reports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
)

type fixture struct {
	svc    *Service
	client *db.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:rep_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(
		&models.Customer{}, &models.Product{}, &models.Order{},
		&models.OrderLine{}, &models.PaymentRecord{},
	); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(client.DB())})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &fixture{svc: svc, client: client}
}

func day(d int) time.Time {
	return time.Date(2026, 6, d, 12, 0, 0, 0, time.UTC)
}

func (f *fixture) postEntry(t *testing.T, entryType enums.EntryType, category string, amount int64, at time.Time) {
	t.Helper()
	record := models.PaymentRecord{
		Type: entryType, Category: category, Amount: amount,
		Date: at, PaymentMethod: enums.PaymentMethodCash,
	}
	if err := f.client.DB().Create(&record).Error; err != nil {
		t.Fatalf("seeding ledger entry: %v", err)
	}
}

func TestFinancialSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.postEntry(t, enums.EntryTypeIncome, "order_payment", 900000, day(3))
	f.postEntry(t, enums.EntryTypeIncome, "order_payment", 100000, day(5))
	f.postEntry(t, enums.EntryTypeIncome, "order_refund", -50000, day(6))
	f.postEntry(t, enums.EntryTypeExpense, "sewa", 400000, day(4))
	f.postEntry(t, enums.EntryTypeExpense, "sewa", 9999999, day(28)) // outside window

	summary, err := f.svc.Financial(ctx, day(1), day(10))
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}

	if summary.Income != 950000 {
		t.Fatalf("income = %d, want 950000", summary.Income)
	}
	if summary.Expense != 400000 {
		t.Fatalf("expense = %d, want 400000", summary.Expense)
	}
	if summary.Net != 550000 {
		t.Fatalf("net = %d, want 550000", summary.Net)
	}
	if len(summary.ByCategory) != 3 {
		t.Fatalf("categories = %+v", summary.ByCategory)
	}
}

func TestFinancialWindowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Financial(ctx, day(10), day(1)); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("inverted window: expected validation error, got %v", err)
	}
	if _, err := f.svc.Financial(ctx, time.Time{}, day(1)); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("zero start: expected validation error, got %v", err)
	}
}

func TestReceivables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := models.Customer{Name: "Toko Hutang"}
	if err := f.client.DB().Create(&customer).Error; err != nil {
		t.Fatalf("seeding customer: %v", err)
	}
	seedOrder := func(number string, status enums.OrderStatus, total, paid int64) {
		order := models.Order{
			OrderNumber: number, CustomerID: customer.ID, OrderDate: day(1),
			Status: status, TotalAmount: total, PaidAmount: paid,
		}
		if err := f.client.DB().Create(&order).Error; err != nil {
			t.Fatalf("seeding order %s: %v", number, err)
		}
	}
	seedOrder("ORD202606010001", enums.OrderStatusUnpaid, 500000, 0)
	seedOrder("ORD202606010002", enums.OrderStatusPartial, 800000, 300000)
	seedOrder("ORD202606010003", enums.OrderStatusPaid, 200000, 200000)

	report, err := f.svc.Receivables(ctx)
	if err != nil {
		t.Fatalf("reporting: %v", err)
	}

	if report.TotalOutstanding != 1000000 {
		t.Fatalf("outstanding = %d, want 1000000", report.TotalOutstanding)
	}
	if len(report.Orders) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Orders))
	}
	for _, item := range report.Orders {
		if item.CustomerName != "Toko Hutang" {
			t.Fatalf("customer name missing: %+v", item)
		}
		if item.RemainingAmount != item.TotalAmount-item.PaidAmount {
			t.Fatalf("remaining mismatch: %+v", item)
		}
	}
}

func TestSalesReportWithMargins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := models.Customer{Name: "Pembeli"}
	if err := f.client.DB().Create(&customer).Error; err != nil {
		t.Fatalf("seeding customer: %v", err)
	}
	product := models.Product{Name: "Sepatu Lokal", Price: 300000, Cost: 200000, Stock: 50, Unit: "psg"}
	if err := f.client.DB().Create(&product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	order := models.Order{
		OrderNumber: "ORD202606020001", CustomerID: customer.ID, OrderDate: day(2),
		Status: enums.OrderStatusUnpaid, TotalAmount: 900000,
	}
	if err := f.client.DB().Create(&order).Error; err != nil {
		t.Fatalf("seeding order: %v", err)
	}
	line := models.OrderLine{OrderID: order.ID, ProductID: product.ID, Quantity: 3, Price: 300000, Total: 900000}
	if err := f.client.DB().Create(&line).Error; err != nil {
		t.Fatalf("seeding line: %v", err)
	}

	report, err := f.svc.Sales(ctx, day(1), day(10))
	if err != nil {
		t.Fatalf("reporting: %v", err)
	}

	if report.Revenue != 900000 {
		t.Fatalf("revenue = %d, want 900000", report.Revenue)
	}
	if len(report.Items) != 1 {
		t.Fatalf("items = %+v", report.Items)
	}
	item := report.Items[0]
	if item.QuantitySold != 3 || item.Cost != 600000 || item.Margin != 300000 {
		t.Fatalf("item = %+v", item)
	}
	if item.MarginPercent != "33.33" {
		t.Fatalf("margin percent = %q, want 33.33", item.MarginPercent)
	}
}

func TestMarginPercentZeroRevenue(t *testing.T) {
	if got := marginPercent(0, 0); got != "0.00" {
		t.Fatalf("marginPercent(0, 0) = %q", got)
	}
}
