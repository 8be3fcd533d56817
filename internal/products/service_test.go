package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/wiryasaputra/gerai-backend/internal/inventory"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:prod_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Product{}, &models.OrderLine{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Client:    client,
		Repo:      NewRepository(client.DB()),
		Inventory: inventory.NewLedger(),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, client
}

func strPtr(s string) *string { return &s }

func TestCreateDefaultsUnit(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), CreateInput{
		Name: "Gula Pasir 1kg", Price: 16000, Cost: 13500, InitialStock: 20,
	})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}
	if product.Unit != "pcs" {
		t.Fatalf("unit = %q, want pcs", product.Unit)
	}
	if product.Stock != 20 {
		t.Fatalf("stock = %d, want 20", product.Stock)
	}
}

func TestCreateRejectsNegativeValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateInput{
		{Name: "X", Price: -1},
		{Name: "X", Cost: -1},
		{Name: "X", InitialStock: -1},
		{Name: "  "},
	}
	for i, input := range cases {
		if _, err := svc.Create(ctx, input); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateNeverTouchesStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateInput{Name: "Minyak Goreng 2L", Price: 38000, InitialStock: 12})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}

	updated, err := svc.Update(ctx, product.ID, UpdateInput{
		Name: "Minyak Goreng 2L Premium", Price: 42000, Cost: 35000, Unit: "btl",
	})
	if err != nil {
		t.Fatalf("updating product: %v", err)
	}
	if updated.Price != 42000 || updated.Unit != "btl" {
		t.Fatalf("catalog fields not applied: %+v", updated)
	}
	if updated.Stock != 12 {
		t.Fatalf("stock changed through catalog update: %d", updated.Stock)
	}
}

func TestListLowStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seeds := map[string]int{"Hampir Habis": 2, "Pas Ambang": 10, "Masih Banyak": 40}
	for name, stock := range seeds {
		if _, err := svc.Create(ctx, CreateInput{Name: name, Price: 1000, InitialStock: stock}); err != nil {
			t.Fatalf("seeding %s: %v", name, err)
		}
	}

	low, err := svc.ListLowStock(ctx, 0)
	if err != nil {
		t.Fatalf("listing low stock: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("got %d low stock products, want 2", len(low))
	}
	if low[0].Name != "Hampir Habis" {
		t.Fatalf("expected lowest stock first, got %q", low[0].Name)
	}
}

func TestListCategories(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inputs := []CreateInput{
		{Name: "Kopi", Price: 1000, Category: strPtr("minuman")},
		{Name: "Teh", Price: 1000, Category: strPtr("minuman")},
		{Name: "Roti", Price: 1000, Category: strPtr("makanan")},
		{Name: "Tanpa Kategori", Price: 1000},
	}
	for _, input := range inputs {
		if _, err := svc.Create(ctx, input); err != nil {
			t.Fatalf("seeding %s: %v", input.Name, err)
		}
	}

	categories, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("listing categories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "makanan" || categories[1] != "minuman" {
		t.Fatalf("categories = %v", categories)
	}
}

func TestRestockMovesStockThroughLedger(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateInput{Name: "Telur 1kg", Price: 28000, InitialStock: 4})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}

	got, err := svc.Restock(ctx, product.ID, 20)
	if err != nil {
		t.Fatalf("restocking: %v", err)
	}
	if got.Stock != 24 {
		t.Fatalf("stock = %d, want 24", got.Stock)
	}

	// Negative deltas record shrinkage but can never cross zero.
	if _, err := svc.Restock(ctx, product.ID, -30); !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := svc.Restock(ctx, product.ID, 0); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRefusedWhenReferenced(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateInput{Name: "Beras 5kg", Price: 70000, InitialStock: 8})
	if err != nil {
		t.Fatalf("creating product: %v", err)
	}

	line := models.OrderLine{OrderID: 1, ProductID: product.ID, Quantity: 2, Price: 70000, Total: 140000}
	if err := client.DB().Create(&line).Error; err != nil {
		t.Fatalf("seeding order line: %v", err)
	}

	err = svc.Delete(ctx, product.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
