package reports

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/enums"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
)

// ServiceParams groups dependencies for the reporting service.
type ServiceParams struct {
	Repo Repository
}

// Service produces read-only summaries from committed data. Nothing here
// writes; a report is always a view over the ledger and the orders.
type Service struct {
	repo Repository
}

// NewService builds a reporting service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, stdErrors.New("repo is required")
	}
	return &Service{repo: params.Repo}, nil
}

// FinancialSummary totals the ledger inside a window.
type FinancialSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Income     int64           `json:"income"`
	Expense    int64           `json:"expense"`
	Net        int64           `json:"net"`
	ByCategory []CategoryTotal `json:"by_category"`
}

// ReceivablesReport lists balances still owed by customers.
type ReceivablesReport struct {
	TotalOutstanding int64            `json:"total_outstanding"`
	Orders           []ReceivableItem `json:"orders"`
}

// ReceivableItem is one outstanding order with its remaining balance.
type ReceivableItem struct {
	ReceivableRow
	RemainingAmount int64 `json:"remaining_amount"`
}

// SalesReport breaks committed sales down per product.
type SalesReport struct {
	From    time.Time   `json:"from"`
	To      time.Time   `json:"to"`
	Revenue int64       `json:"revenue"`
	Items   []SalesItem `json:"items"`
}

// SalesItem is one product's sales with its margin.
type SalesItem struct {
	SalesRow
	Margin        int64  `json:"margin"`
	MarginPercent string `json:"margin_percent"`
}

func validateWindow(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return errors.New(errors.CodeValidation, "report window is required")
	}
	if to.Before(from) {
		return errors.New(errors.CodeValidation, "report window end precedes start")
	}
	return nil
}

func (s *Service) Financial(ctx context.Context, from, to time.Time) (*FinancialSummary, error) {
	if err := validateWindow(from, to); err != nil {
		return nil, err
	}

	income, err := s.repo.SumLedger(ctx, enums.EntryTypeIncome, from, to)
	if err != nil {
		return nil, db.WrapPersistence(err, "summing income")
	}
	expense, err := s.repo.SumLedger(ctx, enums.EntryTypeExpense, from, to)
	if err != nil {
		return nil, db.WrapPersistence(err, "summing expense")
	}
	byCategory, err := s.repo.LedgerByCategory(ctx, from, to)
	if err != nil {
		return nil, db.WrapPersistence(err, "grouping ledger categories")
	}

	return &FinancialSummary{
		From:       from,
		To:         to,
		Income:     income,
		Expense:    expense,
		Net:        income - expense,
		ByCategory: byCategory,
	}, nil
}

func (s *Service) Receivables(ctx context.Context) (*ReceivablesReport, error) {
	rows, err := s.repo.OutstandingOrders(ctx)
	if err != nil {
		return nil, db.WrapPersistence(err, "listing outstanding orders")
	}

	report := &ReceivablesReport{Orders: make([]ReceivableItem, 0, len(rows))}
	for _, row := range rows {
		remaining := row.TotalAmount - row.PaidAmount
		report.TotalOutstanding += remaining
		report.Orders = append(report.Orders, ReceivableItem{
			ReceivableRow:   row,
			RemainingAmount: remaining,
		})
	}
	return report, nil
}

func (s *Service) Sales(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if err := validateWindow(from, to); err != nil {
		return nil, err
	}

	rows, err := s.repo.SalesByProduct(ctx, from, to)
	if err != nil {
		return nil, db.WrapPersistence(err, "aggregating sales")
	}

	report := &SalesReport{From: from, To: to, Items: make([]SalesItem, 0, len(rows))}
	for _, row := range rows {
		margin := row.Revenue - row.Cost
		report.Revenue += row.Revenue
		report.Items = append(report.Items, SalesItem{
			SalesRow:      row,
			Margin:        margin,
			MarginPercent: marginPercent(margin, row.Revenue),
		})
	}
	return report, nil
}

// marginPercent renders margin/revenue as a fixed two-decimal percentage.
// Integer division would truncate thin retail margins to zero.
func marginPercent(margin, revenue int64) string {
	if revenue == 0 {
		return "0.00"
	}
	return decimal.NewFromInt(margin).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(revenue)).
		StringFixed(2)
}
