package inventory

import (
	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"github.com/wiryasaputra/gerai-backend/pkg/errors"
	"gorm.io/gorm"
)

// Ledger applies stock movements to products. It is the only writer of the
// stock column; every adjustment runs inside the caller's transaction so a
// rolled-back order leaves stock untouched.
type Ledger struct{}

// NewLedger constructs a Ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Adjust moves productID's stock by delta (negative consumes, positive
// restores) and returns the resulting level. The guard and the write are a
// single statement, so two concurrent consumers can never drive stock
// below zero between a check and an update.
func (l *Ledger) Adjust(tx *gorm.DB, productID uint, delta int) (int, error) {
	res := tx.Exec(
		`UPDATE products
		    SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		  WHERE id = ? AND stock + ? >= 0`,
		delta, productID, delta,
	)
	if res.Error != nil {
		return 0, db.WrapPersistence(res.Error, "adjusting stock")
	}

	if res.RowsAffected == 0 {
		return 0, l.classifyRejection(tx, productID, delta)
	}

	var stock int
	if err := tx.Raw(`SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock).Error; err != nil {
		return 0, db.WrapPersistence(err, "reading stock")
	}
	return stock, nil
}

// classifyRejection distinguishes a missing product from a shortfall.
func (l *Ledger) classifyRejection(tx *gorm.DB, productID uint, delta int) error {
	var row struct {
		Stock int
	}
	res := tx.Raw(`SELECT stock FROM products WHERE id = ?`, productID).Scan(&row)
	if res.Error != nil {
		return db.WrapPersistence(res.Error, "reading stock")
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID})
	}
	return errors.New(errors.CodeInsufficientStock, "stock would go negative").
		WithDetails(map[string]any{
			"product_id": productID,
			"stock":      row.Stock,
			"requested":  -delta,
		})
}
