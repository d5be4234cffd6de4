// Package invoice is the structured store client: parameterized reads
// over the relational invoice tables, plus inserts for ingestion.
package invoice

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sarthakj1997/business-assistant/internal/domain"
)

// Repo executes queries against the relational store. Each call acquires
// and releases its own connection; no transaction is held across the
// sequential steps of answering a question.
type Repo struct {
	db     *sql.DB
	logger *zap.Logger
}

// New creates an invoice repository.
func New(db *sql.DB, logger *zap.Logger) *Repo {
	return &Repo{db: db, logger: logger}
}

// Select runs a read query and returns its rows. Failures never escape
// this boundary: a failing query yields a single {"error": message} row
// so answer composition can continue best-effort.
func (r *Repo) Select(ctx context.Context, q domain.Query) []domain.StructuredRow {
	rows, err := r.db.QueryContext(ctx, q.Text, q.Args...)
	if err != nil {
		r.logger.Warn("structured query failed", zap.String("query", q.Text), zap.Error(err))
		return []domain.StructuredRow{domain.ErrorRow(err.Error())}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return []domain.StructuredRow{domain.ErrorRow(err.Error())}
	}

	var out []domain.StructuredRow
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return []domain.StructuredRow{domain.ErrorRow(err.Error())}
		}

		row := domain.NewStructuredRow(columns)
		for i, col := range columns {
			row.Set(col, normalizeValue(values[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return []domain.StructuredRow{domain.ErrorRow(err.Error())}
	}

	return out
}

// Insert persists an invoice and its line items in one transaction,
// returning the invoice primary key.
func (r *Repo) Insert(ctx context.Context, inv *domain.Invoice) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var invoiceID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO invoices (user_id, order_id, contact_name, invoice_date, total_price, city, country)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		inv.UserID, inv.OrderID, nullString(inv.ContactName), nullTime(inv.InvoiceDate),
		inv.TotalPrice, nullString(inv.City), nullString(inv.Country),
	).Scan(&invoiceID)
	if err != nil {
		return 0, fmt.Errorf("insert invoice %s: %w", inv.OrderID, err)
	}

	for i, item := range inv.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO line_items (invoice_id, product_name, quantity, unit_price, line_total)
			 VALUES ($1, $2, $3, $4, $5)`,
			invoiceID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal,
		)
		if err != nil {
			return 0, fmt.Errorf("insert line item %d of %s: %w", i, inv.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit invoice %s: %w", inv.OrderID, err)
	}
	return invoiceID, nil
}

// normalizeValue converts driver types into JSON-friendly values.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return v
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
