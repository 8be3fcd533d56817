package customers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wiryasaputra/gerai-backend/pkg/config"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	pkgerrors "github.com/wiryasaputra/gerai-backend/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *db.Client) {
	t.Helper()

	dsn := fmt.Sprintf("file:cust_%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&models.Customer{}, &models.Order{}, &models.OrderLine{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}

	svc, err := NewService(ServiceParams{Repo: NewRepository(client.DB())})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, client
}

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "  Warung Bu Sari ", Phone: strPtr("0812000111")})
	if err != nil {
		t.Fatalf("creating customer: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if created.Name != "Warung Bu Sari" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("getting customer: %v", err)
	}
	if got.Phone == nil || *got.Phone != "0812000111" {
		t.Fatalf("phone = %v", got.Phone)
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), 404)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListFiltersBySearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Toko Makmur", "Warung Sederhana", "Toko Berkah"} {
		if _, err := svc.Create(ctx, CreateInput{Name: name}); err != nil {
			t.Fatalf("seeding %s: %v", name, err)
		}
	}

	list, err := svc.List(ctx, ListQuery{Search: "Toko"})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d customers, want 2", len(list))
	}
	if list[0].Name != "Toko Berkah" {
		t.Fatalf("expected name ordering, got %q first", list[0].Name)
	}
}

func TestDeleteRefusedWhenOrdersExist(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateInput{Name: "Pelanggan Setia"})
	if err != nil {
		t.Fatalf("creating customer: %v", err)
	}

	order := models.Order{OrderNumber: "ORD202603140001", CustomerID: customer.ID, OrderDate: time.Now()}
	if err := client.DB().Create(&order).Error; err != nil {
		t.Fatalf("seeding order: %v", err)
	}

	err = svc.Delete(ctx, customer.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}

	if _, err := svc.Get(ctx, customer.ID); err != nil {
		t.Fatalf("customer should survive refused delete: %v", err)
	}
}

func TestDeleteWithoutOrders(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Create(ctx, CreateInput{Name: "Sekali Mampir"})
	if err != nil {
		t.Fatalf("creating customer: %v", err)
	}
	if err := svc.Delete(ctx, customer.ID); err != nil {
		t.Fatalf("deleting: %v", err)
	}

	_, err = svc.Get(ctx, customer.ID)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
