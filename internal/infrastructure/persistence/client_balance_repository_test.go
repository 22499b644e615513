package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dentallab/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormClientBalanceRepository_GetForUpdate(t *testing.T) {
	t.Run("locks existing row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientBalanceRepository(gormDB)

		clientID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "client_id", "amount", "currency", "active", "version", "created_at", "updated_at"}).
			AddRow(uuid.New(), clientID, decimal.RequireFromString("42.50"), "EUR", true, 1, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT \* FROM "client_balances" WHERE client_id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		balance, err := repo.GetForUpdate(context.Background(), clientID)
		require.NoError(t, err)
		assert.Equal(t, clientID, balance.ClientID)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("42.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates and locks missing row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientBalanceRepository(gormDB)

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "client_balances" .* FOR UPDATE`).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectExec(`INSERT INTO "client_balances"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows := sqlmock.NewRows([]string{"id", "client_id", "amount", "currency", "active", "version", "created_at", "updated_at"}).
			AddRow(uuid.New(), clientID, decimal.Zero, "EUR", true, 1, time.Now(), time.Now())
		mock.ExpectQuery(`SELECT \* FROM "client_balances" .* FOR UPDATE`).
			WillReturnRows(rows)

		balance, err := repo.GetForUpdate(context.Background(), clientID)
		require.NoError(t, err)
		assert.True(t, balance.Amount.IsZero())
		assert.True(t, balance.Active)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientBalanceRepository_Get(t *testing.T) {
	t.Run("returns ErrNotFound when client never had a movement", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormClientBalanceRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "client_balances"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBalanceMovementRepository_SumByClient(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormBalanceMovementRepository(gormDB)

	clientID := uuid.New()
	rows := sqlmock.NewRows([]string{"total"}).AddRow(decimal.RequireFromString("-12.25"))

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_change\), 0\) AS total FROM "balance_movements" WHERE client_id = \$1`).
		WithArgs(clientID).
		WillReturnRows(rows)

	total, err := repo.SumByClient(context.Background(), clientID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("-12.25")))
}

func TestGormBalanceMovementRepository_SumDebitsByWorkID(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormBalanceMovementRepository(gormDB)

	workID := uuid.New()
	// Debits store negative changes; the repository flips the sign.
	rows := sqlmock.NewRows([]string{"total"}).AddRow(decimal.RequireFromString("-30.00"))

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount_change\), 0\) AS total FROM "balance_movements" WHERE work_id = \$1 AND type = \$2`).
		WithArgs(workID, "DEBIT").
		WillReturnRows(rows)

	total, err := repo.SumDebitsByWorkID(context.Background(), workID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("30.00")))
}
