package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/debtbook/internal/models"
)

// GetAccountSettings retrieves an account's rate preference.
func (s *SQLiteStore) GetAccountSettings(ctx context.Context, accountID string) (*models.AccountSettings, error) {
	query := `
		SELECT account_id, rate_mode, fixed_rate
		FROM account_settings
		WHERE account_id = ?
	`

	settings := &models.AccountSettings{}
	var mode string
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&settings.AccountID,
		&mode,
		&settings.FixedRate,
	)

	if err == sql.ErrNoRows {
		return nil, nil // No preference stored
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account settings: %w", err)
	}

	settings.RateMode = models.RateMode(mode)
	return settings, nil
}

// PutAccountSettings inserts or replaces an account's rate preference.
func (s *SQLiteStore) PutAccountSettings(ctx context.Context, settings *models.AccountSettings) error {
	query := `
		INSERT INTO account_settings (account_id, rate_mode, fixed_rate, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			rate_mode = excluded.rate_mode,
			fixed_rate = excluded.fixed_rate,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		settings.AccountID,
		string(settings.RateMode),
		settings.FixedRate,
		time.Now().UnixNano(),
	)

	if err != nil {
		return fmt.Errorf("failed to save account settings: %w", err)
	}

	return nil
}
