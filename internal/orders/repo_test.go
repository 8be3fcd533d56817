package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
)

func setupOrdersRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_repo_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderLine{},
		&models.Invoice{},
	))
	return conn
}

func seedRepoOrder(t *testing.T, conn *gorm.DB, number string, status enums.OrderStatus, orderDate time.Time) *models.Order {
	t.Helper()

	customer := models.Customer{Name: "Toko " + number}
	require.NoError(t, conn.Create(&customer).Error)

	order := models.Order{
		OrderNumber: number,
		CustomerID:  customer.ID,
		OrderDate:   orderDate,
		Status:      status,
	}
	require.NoError(t, conn.Create(&order).Error)
	return &order
}

func TestSaveOnlyTouchesMutableColumns(t *testing.T) {
	conn := setupOrdersRepoDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := seedRepoOrder(t, conn, "ORD202601100001", enums.OrderStatusPending, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC))

	order.OrderNumber = "TAMPERED"
	order.TotalAmount = 250000
	order.PaidAmount = 100000
	order.Status = enums.OrderStatusPartial
	require.NoError(t, repo.Save(ctx, order))

	var stored models.Order
	require.NoError(t, conn.First(&stored, order.ID).Error)
	assert.Equal(t, "ORD202601100001", stored.OrderNumber)
	assert.Equal(t, int64(250000), stored.TotalAmount)
	assert.Equal(t, int64(100000), stored.PaidAmount)
	assert.Equal(t, enums.OrderStatusPartial, stored.Status)
}

func TestListFiltersOrders(t *testing.T) {
	conn := setupOrdersRepoDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	jan := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	seedRepoOrder(t, conn, "ORD202601050001", enums.OrderStatusPaid, jan)
	seedRepoOrder(t, conn, "ORD202602050001", enums.OrderStatusUnpaid, feb)
	seedRepoOrder(t, conn, "ORD202602050002", enums.OrderStatusUnpaid, feb)

	unpaid := enums.OrderStatusUnpaid
	list, err := repo.List(ctx, ListQuery{Status: &unpaid})
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first, id breaks ties
	assert.Equal(t, "ORD202602050002", list[0].OrderNumber)

	list, err = repo.List(ctx, ListQuery{Number: "202601"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD202601050001", list[0].OrderNumber)

	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	list, err = repo.List(ctx, ListQuery{From: &cutoff, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD202602050002", list[0].OrderNumber)
}

func TestSumLineTotalsEmptyOrder(t *testing.T) {
	conn := setupOrdersRepoDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	order := seedRepoOrder(t, conn, "ORD202603010001", enums.OrderStatusPending, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	total, err := repo.SumLineTotals(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	require.NoError(t, repo.CreateLine(ctx, &models.OrderLine{
		OrderID: order.ID, ProductID: 1, Quantity: 2, Price: 15000, Total: 30000,
	}))
	require.NoError(t, repo.CreateLine(ctx, &models.OrderLine{
		OrderID: order.ID, ProductID: 2, Quantity: 1, Price: 5000, Total: 5000,
	}))

	total, err = repo.SumLineTotals(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), total)
}

func TestFindLineScopedToOrder(t *testing.T) {
	conn := setupOrdersRepoDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	first := seedRepoOrder(t, conn, "ORD202603020001", enums.OrderStatusPending, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	second := seedRepoOrder(t, conn, "ORD202603020002", enums.OrderStatusPending, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	line := models.OrderLine{OrderID: first.ID, ProductID: 1, Quantity: 1, Price: 1000, Total: 1000}
	require.NoError(t, repo.CreateLine(ctx, &line))

	found, err := repo.FindLine(ctx, first.ID, line.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, line.ID, found.ID)

	found, err = repo.FindLine(ctx, second.ID, line.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
