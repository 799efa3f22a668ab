package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/debtbook/internal/models"
)

// AppendTransaction persists a new ledger transaction and returns its ID.
func (t *sqliteTx) AppendTransaction(ctx context.Context, txn *models.Transaction) (string, error) {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.Timestamp.IsZero() {
		txn.Timestamp = time.Now()
	}

	var rate decimal.NullDecimal
	if txn.ExchangeRateAtTime != nil {
		rate = decimal.NewNullDecimal(*txn.ExchangeRateAtTime)
	}

	_, err := t.q.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, type, amount, currency, category, account_name, description, exchange_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.AccountID, string(txn.Type), txn.Amount, string(txn.Currency),
		txn.Category, txn.AccountName, txn.Description, rate, txn.Timestamp.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction: %w", err)
	}

	return txn.ID, nil
}

const transactionColumns = `id, account_id, type, amount, currency, category, account_name, description, exchange_rate, created_at`

// GetTransaction retrieves a ledger transaction by ID.
func (t *sqliteTx) GetTransaction(ctx context.Context, accountID, txnID string) (*models.Transaction, error) {
	row := t.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND account_id = ?`,
		txnID, accountID,
	)
	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %s", models.ErrNotFound, txnID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns the account's ledger transactions oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ? ORDER BY created_at ASC, rowid ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(r rowScanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var (
		typ, currency string
		rate          decimal.NullDecimal
		createdAt     int64
	)
	err := r.Scan(&txn.ID, &txn.AccountID, &typ, &txn.Amount, &currency,
		&txn.Category, &txn.AccountName, &txn.Description, &rate, &createdAt)
	if err != nil {
		return nil, err
	}

	txn.Type = models.TransactionType(typ)
	txn.Currency = models.Currency(currency)
	txn.Timestamp = time.Unix(0, createdAt)
	if rate.Valid {
		v := rate.Decimal
		txn.ExchangeRateAtTime = &v
	}
	return txn, nil
}
