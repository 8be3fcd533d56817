package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wiryasaputra/gerai-backend/pkg/db"
	"gorm.io/gorm"
)

const scopeLayout = "20060102"

// Source names the table/column already holding issued numbers for a
// prefix. It is only consulted once per (prefix, day), to seed the counter
// from data created before the counter table existed. Table and Column are
// spliced into the seeding query as-is, so they must be trusted schema
// identifiers wired at startup, never user input.
type Source struct {
	Table  string
	Column string
}

// Generator issues document numbers of the form {prefix}{YYYYMMDD}{seq},
// where seq is zero-padded to four digits and restarts at 1 each day.
// Allocation happens inside the caller's transaction so an aborted write
// never burns a number that a later document would then skip.
type Generator struct {
	sources map[string]Source
}

// NewGenerator constructs a Generator. sources may be nil when no legacy
// data predates the counter table.
func NewGenerator(sources map[string]Source) *Generator {
	return &Generator{sources: sources}
}

// Next allocates the next number for prefix within tx. Two transactions
// allocating the same (prefix, day) serialize on the counter row, so the
// numbers they receive are distinct.
func (g *Generator) Next(tx *gorm.DB, prefix string, at time.Time) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("sequence: nil transaction")
	}
	if prefix == "" {
		return "", fmt.Errorf("sequence: empty prefix")
	}

	scopeDate := at.Format(scopeLayout)

	res := tx.Exec(
		`UPDATE sequence_counters
		    SET seq = seq + 1, updated_at = CURRENT_TIMESTAMP
		  WHERE prefix = ? AND scope_date = ?`,
		prefix, scopeDate,
	)
	if res.Error != nil {
		return "", db.WrapPersistence(res.Error, "incrementing sequence counter")
	}

	if res.RowsAffected == 0 {
		base, err := g.bootstrapBase(tx, prefix, scopeDate)
		if err != nil {
			return "", err
		}
		// A concurrent allocator may have inserted the row between the
		// UPDATE and here; the conflict clause folds both paths together.
		res = tx.Exec(
			`INSERT INTO sequence_counters (prefix, scope_date, seq)
			 VALUES (?, ?, ?)
			 ON CONFLICT (prefix, scope_date)
			 DO UPDATE SET seq = sequence_counters.seq + 1, updated_at = CURRENT_TIMESTAMP`,
			prefix, scopeDate, base+1,
		)
		if res.Error != nil {
			return "", db.WrapPersistence(res.Error, "seeding sequence counter")
		}
	}

	var seq int
	if err := tx.Raw(
		`SELECT seq FROM sequence_counters WHERE prefix = ? AND scope_date = ?`,
		prefix, scopeDate,
	).Scan(&seq).Error; err != nil {
		return "", db.WrapPersistence(err, "reading sequence counter")
	}

	return Format(prefix, scopeDate, seq), nil
}

// bootstrapBase scans the configured source table for the highest sequence
// already issued under (prefix, scopeDate). Rows whose suffix does not
// parse are ignored rather than failing the allocation.
func (g *Generator) bootstrapBase(tx *gorm.DB, prefix, scopeDate string) (int, error) {
	source, ok := g.sources[prefix]
	if !ok {
		return 0, nil
	}

	var numbers []string
	query := fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s LIKE ?`,
		source.Column, source.Table, source.Column,
	)
	if err := tx.Raw(query, prefix+scopeDate+"%").Scan(&numbers).Error; err != nil {
		return 0, db.WrapPersistence(err, "scanning issued numbers")
	}

	max := 0
	head := prefix + scopeDate
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, head)
		if suffix == number {
			continue
		}
		seq, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

// Format renders a document number from its parts.
func Format(prefix, scopeDate string, seq int) string {
	return fmt.Sprintf("%s%s%04d", prefix, scopeDate, seq)
}
