package invoices

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wiryasaputra/gerai-backend/internal/orders"
	"github.com/wiryasaputra/gerai-backend/internal/sequence"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
)

type fixture struct {
	svc    *Service
	client *db.Client
	seq    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:invc_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(
		&models.Customer{}, &models.Order{}, &models.OrderLine{},
		&models.Invoice{}, &models.SequenceCounter{},
	); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Client:     client,
		Repo:       NewRepository(client.DB()),
		Orders:     orders.NewRepository(client.DB()),
		Sequence:   sequence.NewGenerator(nil),
		TaxPercent: 10,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &fixture{svc: svc, client: client}
}

func (f *fixture) seedOrder(t *testing.T, total, paid int64) models.Order {
	t.Helper()

	customer := models.Customer{Name: "PT Maju Bersama"}
	if err := f.client.DB().Create(&customer).Error; err != nil {
		t.Fatalf("seeding customer: %v", err)
	}

	f.seq++
	order := models.Order{
		OrderNumber: fmt.Sprintf("ORD20260502%04d", f.seq),
		CustomerID:  customer.ID,
		OrderDate:   time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Status:      enums.OrderStatusUnpaid,
		TotalAmount: total,
		PaidAmount:  paid,
	}
	if err := f.client.DB().Create(&order).Error; err != nil {
		t.Fatalf("seeding order: %v", err)
	}
	return order
}

func TestIssueSnapshotsTotals(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(t, 1000000, 0)

	invoice, err := f.svc.Issue(context.Background(), IssueInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("issuing: %v", err)
	}

	if !strings.HasPrefix(invoice.InvoiceNumber, "INV") {
		t.Fatalf("invoice number = %q", invoice.InvoiceNumber)
	}
	if invoice.Subtotal != 1000000 || invoice.TaxAmount != 100000 || invoice.TotalAmount != 1100000 {
		t.Fatalf("amounts = %d/%d/%d", invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount)
	}
	if invoice.Status != enums.InvoiceStatusUnpaid {
		t.Fatalf("status = %s, want unpaid", invoice.Status)
	}
}

func TestIssueStatusReflectsCollectedMoney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	partial := f.seedOrder(t, 1000000, 400000)
	invoice, err := f.svc.Issue(ctx, IssueInput{OrderID: partial.ID})
	if err != nil {
		t.Fatalf("issuing partial: %v", err)
	}
	if invoice.Status != enums.InvoiceStatusPartial {
		t.Fatalf("status = %s, want partial", invoice.Status)
	}

	zero := 0.0
	settled := f.seedOrder(t, 500000, 500000)
	invoice, err = f.svc.Issue(ctx, IssueInput{OrderID: settled.ID, TaxPercent: &zero})
	if err != nil {
		t.Fatalf("issuing settled: %v", err)
	}
	if invoice.Status != enums.InvoiceStatusPaid {
		t.Fatalf("status = %s, want paid", invoice.Status)
	}
	if invoice.TaxAmount != 0 || invoice.TotalAmount != 500000 {
		t.Fatalf("zero-tax amounts = %d/%d", invoice.TaxAmount, invoice.TotalAmount)
	}
}

func TestTaxRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		percent  float64
		want     int64
	}{
		{1005, 10, 101},  // 100.5 rounds up
		{1004, 10, 100},  // 100.4 rounds down
		{999, 11, 110},   // 109.89
		{0, 10, 0},
	}
	for _, tc := range cases {
		if got := taxAmount(tc.subtotal, tc.percent); got != tc.want {
			t.Fatalf("taxAmount(%d, %v) = %d, want %d", tc.subtotal, tc.percent, got, tc.want)
		}
	}
}

func TestIssueRefusedWhileActiveInvoiceExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.seedOrder(t, 750000, 0)

	first, err := f.svc.Issue(ctx, IssueInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("issuing first: %v", err)
	}

	_, err = f.svc.Issue(ctx, IssueInput{OrderID: order.ID})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	// Voiding the first frees the order for reissue.
	if _, err := f.svc.Void(ctx, first.ID); err != nil {
		t.Fatalf("voiding: %v", err)
	}
	second, err := f.svc.Issue(ctx, IssueInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("reissuing: %v", err)
	}
	if second.InvoiceNumber == first.InvoiceNumber {
		t.Fatalf("reissued invoice reused number %q", first.InvoiceNumber)
	}
}

func TestVoidTwiceRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.seedOrder(t, 200000, 0)

	invoice, err := f.svc.Issue(ctx, IssueInput{OrderID: order.ID})
	if err != nil {
		t.Fatalf("issuing: %v", err)
	}
	if _, err := f.svc.Void(ctx, invoice.ID); err != nil {
		t.Fatalf("voiding: %v", err)
	}

	_, err = f.svc.Void(ctx, invoice.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict on double void, got %v", err)
	}
}

func TestIssueUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Issue(context.Background(), IssueInput{OrderID: 4242})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
