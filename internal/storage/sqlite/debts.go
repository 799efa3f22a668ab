package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/internal/storage"
)

const debtColumns = `id, account_id, type, person, person_key, original_amount, remaining_amount,
	currency, status, purpose, created_at, associated_transaction_id, version`

// GetDebt retrieves a debt by ID, including its repayments.
func (s *SQLiteStore) GetDebt(ctx context.Context, accountID, debtID string) (*models.Debt, error) {
	return getDebt(ctx, s.db, accountID, debtID)
}

// ListDebts returns the debts matching filter, oldest first.
func (s *SQLiteStore) ListDebts(ctx context.Context, filter storage.DebtFilter) ([]*models.Debt, error) {
	return listDebts(ctx, s.db, filter)
}

func (t *sqliteTx) GetDebt(ctx context.Context, accountID, debtID string) (*models.Debt, error) {
	return getDebt(ctx, t.q, accountID, debtID)
}

func (t *sqliteTx) ListDebts(ctx context.Context, filter storage.DebtFilter) ([]*models.Debt, error) {
	return listDebts(ctx, t.q, filter)
}

// CreateDebt persists a new debt together with any repayments it already carries.
func (t *sqliteTx) CreateDebt(ctx context.Context, debt *models.Debt) error {
	// Generate ID if not set
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = time.Now()
	}
	if debt.Version == 0 {
		debt.Version = 1
	}

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.ID, debt.AccountID, string(debt.Type), debt.Person, debt.PersonKey,
		debt.OriginalAmount, debt.RemainingAmount, string(debt.Currency), string(debt.Status),
		debt.Purpose, debt.CreatedAt.UnixNano(), debt.AssociatedTransactionID, debt.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}

	for _, r := range debt.Repayments {
		if err := t.AppendRepayment(ctx, debt.ID, r); err != nil {
			return err
		}
	}

	return nil
}

// UpdateDebt writes the mutable fields of a debt using compare-and-swap on version.
func (t *sqliteTx) UpdateDebt(ctx context.Context, debt *models.Debt) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE debts
		 SET person = ?, person_key = ?, purpose = ?, remaining_amount = ?, status = ?, version = version + 1
		 WHERE id = ? AND account_id = ? AND version = ?`,
		debt.Person, debt.PersonKey, debt.Purpose, debt.RemainingAmount, string(debt.Status),
		debt.ID, debt.AccountID, debt.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		// Either the row is gone or someone else bumped the version first.
		var exists int
		err := t.q.QueryRowContext(ctx,
			"SELECT 1 FROM debts WHERE id = ? AND account_id = ?", debt.ID, debt.AccountID,
		).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: debt %s", models.ErrNotFound, debt.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to check debt existence: %w", err)
		}
		return fmt.Errorf("%w: debt %s version %d", models.ErrConcurrencyConflict, debt.ID, debt.Version)
	}

	debt.Version++
	return nil
}

// AppendRepayment adds a repayment row. Repayments are never updated or deleted.
func (t *sqliteTx) AppendRepayment(ctx context.Context, debtID string, repayment models.Repayment) error {
	_, err := t.q.ExecContext(ctx,
		"INSERT INTO repayments (debt_id, amount, paid_at) VALUES (?, ?, ?)",
		debtID, repayment.Amount, repayment.Date.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert repayment: %w", err)
	}
	return nil
}

func getDebt(ctx context.Context, q queryer, accountID, debtID string) (*models.Debt, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ? AND account_id = ?`,
		debtID, accountID,
	)
	debt, err := scanDebt(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: debt %s", models.ErrNotFound, debtID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}

	if err := loadRepayments(ctx, q, []*models.Debt{debt}); err != nil {
		return nil, err
	}
	return debt, nil
}

func listDebts(ctx context.Context, q queryer, filter storage.DebtFilter) ([]*models.Debt, error) {
	if filter.AccountID == "" {
		return nil, fmt.Errorf("%w: account id required", models.ErrValidation)
	}

	conds := []string{"account_id = ?"}
	args := []any{filter.AccountID}
	if filter.Person != "" {
		conds = append(conds, "person_key = ?")
		args = append(args, models.PersonKey(filter.Person))
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Currency != "" {
		conds = append(conds, "currency = ?")
		args = append(args, string(filter.Currency))
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}

	rows, err := q.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE `+strings.Join(conds, " AND ")+` ORDER BY created_at ASC, rowid ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}

	var debts []*models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}

	if err := loadRepayments(ctx, q, debts); err != nil {
		return nil, err
	}
	return debts, nil
}

// loadRepayments fills in Repayments for every debt with a single IN query.
func loadRepayments(ctx context.Context, q queryer, debts []*models.Debt) error {
	if len(debts) == 0 {
		return nil
	}

	byID := make(map[string]*models.Debt, len(debts))
	args := make([]any, len(debts))
	for i, d := range debts {
		byID[d.ID] = d
		args[i] = d.ID
	}

	rows, err := q.QueryContext(ctx,
		`SELECT debt_id, amount, paid_at FROM repayments
		 WHERE debt_id IN (?`+repeatPlaceholder(len(debts)-1)+`)
		 ORDER BY id ASC`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get repayments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			debtID string
			amount decimal.Decimal
			paidAt int64
		)
		if err := rows.Scan(&debtID, &amount, &paidAt); err != nil {
			return fmt.Errorf("failed to scan repayment: %w", err)
		}
		if d, ok := byID[debtID]; ok {
			d.Repayments = append(d.Repayments, models.Repayment{Amount: amount, Date: time.Unix(0, paidAt)})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate repayments: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDebt(r rowScanner) (*models.Debt, error) {
	var (
		debt                  models.Debt
		typ, currency, status string
		createdAt             int64
	)
	err := r.Scan(
		&debt.ID,
		&debt.AccountID,
		&typ,
		&debt.Person,
		&debt.PersonKey,
		&debt.OriginalAmount,
		&debt.RemainingAmount,
		&currency,
		&status,
		&debt.Purpose,
		&createdAt,
		&debt.AssociatedTransactionID,
		&debt.Version,
	)
	if err != nil {
		return nil, err
	}
	debt.Type = models.DebtType(typ)
	debt.Currency = models.Currency(currency)
	debt.Status = models.DebtStatus(status)
	debt.CreatedAt = time.Unix(0, createdAt)
	return &debt, nil
}

// repeatPlaceholder returns a string of ", ?" repeated n times.
// Used for building IN clauses with multiple placeholders.
func repeatPlaceholder(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(", ?", n)
}
