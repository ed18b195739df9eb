package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// ManualValue is an amount entered by hand for one account and month. It
// replaces the ledger sum of that account when the statement is built.
type ManualValue struct {
	UserID   string          `json:"-"`
	Sucursal string          `json:"sucursal"`
	Period   models.Period   `json:"period"`
	Cuenta   string          `json:"cuenta"`
	Monto    decimal.Decimal `json:"monto"`
}

// SetManualValue inserts or replaces v. Accounts are keyed on their folded
// name, so "Arriendo" and "ARRIENDO" are the same entry.
func (r *Repository) SetManualValue(ctx context.Context, v ManualValue) error {
	if v.UserID == "" || v.Period.IsZero() || textnorm.Fold(v.Cuenta) == "" {
		return fmt.Errorf("set manual value: user, period and cuenta are required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO manual_values (user_id, sucursal, period, cuenta, cuenta_key, monto)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, sucursal, period, cuenta_key)
		DO UPDATE SET cuenta = excluded.cuenta, monto = excluded.monto, updated_at = CURRENT_TIMESTAMP
	`, v.UserID, v.Sucursal, v.Period.String(), v.Cuenta, textnorm.Fold(v.Cuenta), v.Monto.String())
	if err != nil {
		return fmt.Errorf("failed to store manual value: %w", err)
	}

	r.logger.Debug("Manual value stored",
		logging.Field{Key: logging.FieldUser, Value: v.UserID},
		logging.Field{Key: logging.FieldPeriod, Value: v.Period.String()},
		logging.Field{Key: logging.FieldAccount, Value: v.Cuenta})
	return nil
}

// ManualValues loads the manual values of one branch for the given periods.
// No periods means every period.
func (r *Repository) ManualValues(ctx context.Context, userID, sucursal string, periods []models.Period) (models.ManualValues, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT period, cuenta, monto FROM manual_values
		WHERE user_id = ? AND sucursal = ?
		ORDER BY period, cuenta_key`, userID, sucursal)
	if err != nil {
		return nil, fmt.Errorf("failed to query manual values: %w", err)
	}
	defer func() { _ = rows.Close() }()

	wanted := make(map[models.Period]bool, len(periods))
	for _, p := range periods {
		wanted[p] = true
	}

	out := make(models.ManualValues)
	for rows.Next() {
		var periodText, cuenta, monto string
		if err := rows.Scan(&periodText, &cuenta, &monto); err != nil {
			return nil, fmt.Errorf("failed to scan manual value: %w", err)
		}
		p, err := models.ParsePeriod(periodText)
		if err != nil {
			return nil, err
		}
		if len(wanted) > 0 && !wanted[p] {
			continue
		}
		amount, err := decimal.NewFromString(monto)
		if err != nil {
			return nil, fmt.Errorf("manual value %s/%s: invalid monto %q: %w", periodText, cuenta, monto, err)
		}
		out.Set(p, cuenta, amount)
	}
	return out, rows.Err()
}

// DeleteManualValue removes one manual value; it is not an error when none exists.
func (r *Repository) DeleteManualValue(ctx context.Context, v ManualValue) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM manual_values
		WHERE user_id = ? AND sucursal = ? AND period = ? AND cuenta_key = ?`,
		v.UserID, v.Sucursal, v.Period.String(), textnorm.Fold(v.Cuenta))
	if err != nil {
		return fmt.Errorf("failed to delete manual value: %w", err)
	}
	return nil
}
