package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"rotrack/internal/domain/settings"
	"rotrack/internal/pkg/apperrors"
)

func setupSettingsRepo(t *testing.T) (context.Context, *SettingsRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewSettingsRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestLoadSettingsWhenConfigured(t *testing.T) {
	ctx, repo, mockPool := setupSettingsRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT payment_link FROM app_settings WHERE id = 1`)).
		WillReturnRows(pgxmock.NewRows([]string{"payment_link"}).AddRow("https://pay.example.com/ro"))

	s, err := repo.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/ro", s.PaymentLink)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoadSettingsWhenNeverConfigured(t *testing.T) {
	ctx, repo, mockPool := setupSettingsRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT payment_link").WillReturnError(pgx.ErrNoRows)

	s, err := repo.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, settings.AppSettings{}, s)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoadSettingsWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupSettingsRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT payment_link").WillReturnError(errors.New("connection refused"))

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestStoreSettingsUpserts(t *testing.T) {
	ctx, repo, mockPool := setupSettingsRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec("INSERT INTO app_settings").
		WithArgs("https://pay.example.com/updated").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Store(ctx, settings.AppSettings{PaymentLink: "https://pay.example.com/updated"})
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestStoreSettingsWhenExecFails(t *testing.T) {
	ctx, repo, mockPool := setupSettingsRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec("INSERT INTO app_settings").
		WithArgs("https://pay.example.com/updated").
		WillReturnError(errors.New("connection refused"))

	err := repo.Store(ctx, settings.AppSettings{PaymentLink: "https://pay.example.com/updated"})
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
