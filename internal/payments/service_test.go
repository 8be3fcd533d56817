package payments

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

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:pay_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.PaymentRecord{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(client.DB())})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, client
}

func TestPostDefaultsMethodAndDate(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Post(context.Background(), PostInput{
		Type: enums.EntryTypeExpense, Category: "sewa", Amount: 1500000,
	})
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	if record.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("method = %s, want cash", record.PaymentMethod)
	}
	if record.Date.IsZero() {
		t.Fatal("date should default to now")
	}
}

func TestPostValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []PostInput{
		{Type: "transfer", Category: "x", Amount: 100},
		{Type: enums.EntryTypeIncome, Category: "  ", Amount: 100},
		{Type: enums.EntryTypeIncome, Category: "x", Amount: 0},
		{Type: enums.EntryTypeIncome, Category: "x", Amount: -50},
		{Type: enums.EntryTypeIncome, Category: "x", Amount: 100, PaymentMethod: "cek"},
	}
	for i, input := range cases {
		if _, err := svc.Post(ctx, input); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	day := func(d int) *time.Time {
		ts := time.Date(2026, 4, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}
	seeds := []PostInput{
		{Type: enums.EntryTypeIncome, Category: "penjualan", Amount: 500000, Date: day(1)},
		{Type: enums.EntryTypeExpense, Category: "listrik", Amount: 350000, Date: day(2)},
		{Type: enums.EntryTypeExpense, Category: "sewa", Amount: 1500000, Date: day(20)},
	}
	for _, input := range seeds {
		if _, err := svc.Post(ctx, input); err != nil {
			t.Fatalf("seeding %s: %v", input.Category, err)
		}
	}

	expense := enums.EntryTypeExpense
	list, err := svc.List(ctx, ListQuery{Type: &expense})
	if err != nil {
		t.Fatalf("listing by type: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d expenses, want 2", len(list))
	}

	list, err = svc.List(ctx, ListQuery{From: day(2), To: day(10)})
	if err != nil {
		t.Fatalf("listing by window: %v", err)
	}
	if len(list) != 1 || list[0].Category != "listrik" {
		t.Fatalf("window filter returned %+v", list)
	}
}

func TestLedgerSurfaceIsAppendOnly(t *testing.T) {
	// Compile-time shape check: Repository must not grow mutation methods.
	var _ Repository = (*repository)(nil)

	svc, client := newTestService(t)
	ctx := context.Background()

	record, err := svc.Post(ctx, PostInput{Type: enums.EntryTypeIncome, Category: "penjualan", Amount: 100000})
	if err != nil {
		t.Fatalf("posting: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.PaymentRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 1 {
		t.Fatalf("ledger rows = %d, want 1", count)
	}

	got, err := svc.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("getting entry: %v", err)
	}
	if got.Amount != 100000 {
		t.Fatalf("amount = %d", got.Amount)
	}
}
