package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/dateutils"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

// Filter narrows ListTransactions. Zero periods leave that bound open; an
// empty Sucursal matches every branch.
type Filter struct {
	UserID   string
	Sucursal string
	From     models.Period
	To       models.Period
}

// InsertTransactions stores txs for userID in one database transaction.
func (r *Repository) InsertTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	if userID == "" {
		return fmt.Errorf("insert transactions: empty user id")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, user_id, import_id, rut, razon_social, cuenta, clasificacion,
			monto_neto, monto_iva, monto_total, fecha_docto, sucursal
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx,
			t.ID, userID, t.ImportID, t.RUT, t.RazonSocial, t.Cuenta, t.Clasificacion,
			t.MontoNeto.String(), t.MontoIVA.String(), t.MontoTotal.String(),
			dateutils.ToISODate(t.FechaDocto), t.Sucursal,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	r.logger.Info("Transactions stored",
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}

// ListTransactions returns the transactions matching f, oldest first.
func (r *Repository) ListTransactions(ctx context.Context, f Filter) ([]models.Transaction, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{f.UserID}
	if f.Sucursal != "" {
		where = append(where, "sucursal = ?")
		args = append(args, f.Sucursal)
	}
	if !f.From.IsZero() {
		where = append(where, "fecha_docto >= ?")
		args = append(args, dateutils.ToISODate(f.From.Start()))
	}
	if !f.To.IsZero() {
		where = append(where, "fecha_docto < ?")
		args = append(args, dateutils.ToISODate(f.To.Next().Start()))
	}

	query := `
		SELECT id, import_id, rut, razon_social, cuenta, clasificacion,
		       monto_neto, monto_iva, monto_total, fecha_docto, sucursal
		FROM transactions
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY fecha_docto, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Transaction
	for rows.Next() {
		var (
			t                models.Transaction
			neto, iva, total string
			fecha            string
		)
		if err := rows.Scan(&t.ID, &t.ImportID, &t.RUT, &t.RazonSocial, &t.Cuenta, &t.Clasificacion,
			&neto, &iva, &total, &fecha, &t.Sucursal); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if t.MontoNeto, err = decimal.NewFromString(neto); err != nil {
			return nil, fmt.Errorf("transaction %s: invalid monto_neto %q: %w", t.ID, neto, err)
		}
		if t.MontoIVA, err = decimal.NewFromString(iva); err != nil {
			return nil, fmt.Errorf("transaction %s: invalid monto_iva %q: %w", t.ID, iva, err)
		}
		if t.MontoTotal, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("transaction %s: invalid monto_total %q: %w", t.ID, total, err)
		}
		if t.FechaDocto, err = time.Parse(dateutils.DateLayoutISO, fecha); err != nil {
			return nil, fmt.Errorf("transaction %s: invalid fecha_docto %q: %w", t.ID, fecha, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteImport removes every transaction of one import and returns how many
// were deleted.
func (r *Repository) DeleteImport(ctx context.Context, userID, importID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND import_id = ?`, userID, importID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete import %s: %w", importID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	r.logger.Info("Import deleted",
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: "import_id", Value: importID},
		logging.Field{Key: logging.FieldCount, Value: n})
	return n, nil
}

// Branches lists the branch names a user has data for, sorted.
func (r *Repository) Branches(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sucursal FROM transactions WHERE user_id = ? AND sucursal <> ''
		UNION
		SELECT sucursal FROM manual_values WHERE user_id = ? AND sucursal <> ''
		ORDER BY sucursal`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query branches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
