package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/apperrors"
)

// SettingsRepository stores the single app settings document. There is one
// row; writes replace it wholesale (upsert).
type SettingsRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ settings.Repository = (*SettingsRepository)(nil)

func NewSettingsRepository(db DBPool, logger *slog.Logger) *SettingsRepository {
	if db == nil {
		panic("DBPool cannot be nil for SettingsRepository")
	}
	return &SettingsRepository{
		db:     db,
		logger: logger.With("component", "SettingsRepository"),
	}
}

func (r *SettingsRepository) Load(ctx context.Context) (settings.AppSettings, error) {
	query := `SELECT payment_link FROM app_settings WHERE id = 1`

	var s settings.AppSettings
	err := r.db.QueryRow(ctx, query).Scan(&s.PaymentLink)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Never configured yet; defaults apply.
			return settings.AppSettings{}, nil
		}
		r.logger.ErrorContext(ctx, "Failed to load app settings", slog.Any("error", err))
		return settings.AppSettings{}, fmt.Errorf("%w: failed to load app settings: %w", apperrors.ErrDatabase, err)
	}
	return s, nil
}

func (r *SettingsRepository) Store(ctx context.Context, s settings.AppSettings) error {
	query := `
        INSERT INTO app_settings (id, payment_link)
        VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET payment_link = EXCLUDED.payment_link`

	if _, err := r.db.Exec(ctx, query, s.PaymentLink); err != nil {
		r.logger.ErrorContext(ctx, "Failed to store app settings", slog.Any("error", err))
		return fmt.Errorf("%w: failed to store app settings: %w", apperrors.ErrDatabase, err)
	}
	r.logger.InfoContext(ctx, "App settings stored")
	return nil
}
