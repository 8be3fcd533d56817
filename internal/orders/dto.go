package orders

import (
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db/models"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
)

// LineView is a read-only projection of one order line.
type LineView struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	LineTotal   int64  `json:"line_total"`
}

// PaymentView is a read-only projection of one ledger posting on an order.
type PaymentView struct {
	ID        uint                `json:"id"`
	Amount    int64               `json:"amount"`
	Method    enums.PaymentMethod `json:"method"`
	Timestamp time.Time           `json:"timestamp"`
}

// OrderView is the only order shape handed to presentation code. Callers
// read it; they never write stock or totals through it.
type OrderView struct {
	ID              uint              `json:"id"`
	OrderNumber     string            `json:"order_number"`
	CustomerID      uint              `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	OrderDate       time.Time         `json:"order_date"`
	DueDate         *time.Time        `json:"due_date,omitempty"`
	Status          enums.OrderStatus `json:"status"`
	TotalAmount     int64             `json:"total_amount"`
	PaidAmount      int64             `json:"paid_amount"`
	RemainingAmount int64             `json:"remaining_amount"`
	Notes           *string           `json:"notes,omitempty"`
	Lines           []LineView        `json:"lines"`
	Payments        []PaymentView     `json:"payments"`
}

// PaymentResult reports what a payment did to the order. Applied is the
// portion credited against the balance; Overpayment is the remainder of
// the tendered amount, returned to the payer rather than banked silently.
type PaymentResult struct {
	Record      *models.PaymentRecord `json:"record"`
	Applied     int64                 `json:"applied"`
	Overpayment int64                 `json:"overpayment"`
	Order       *OrderView            `json:"order"`
}

func buildView(order *models.Order, customerName string, productNames map[uint]string, payments []models.PaymentRecord) *OrderView {
	view := &OrderView{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		CustomerName:    customerName,
		OrderDate:       order.OrderDate,
		DueDate:         order.DueDate,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		PaidAmount:      order.PaidAmount,
		RemainingAmount: order.RemainingAmount(),
		Notes:           order.Notes,
		Lines:           make([]LineView, 0, len(order.Lines)),
		Payments:        make([]PaymentView, 0, len(payments)),
	}

	for _, line := range order.Lines {
		view.Lines = append(view.Lines, LineView{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: productNames[line.ProductID],
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
			LineTotal:   line.Total,
		})
	}
	for _, payment := range payments {
		view.Payments = append(view.Payments, PaymentView{
			ID:        payment.ID,
			Amount:    payment.Amount,
			Method:    payment.PaymentMethod,
			Timestamp: payment.Date,
		})
	}
	return view
}
