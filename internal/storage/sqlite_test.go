package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

var (
	testDate = time.Date(2024, 5, 9, 13, 30, 0, 0, model.ReferenceLocation)
	testUser = model.User{ID: "u-1", Platform: model.PlatformTelegram, TelegramID: "123456"}
)

func TestSQLiteInsertEveryAction(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	actions := []model.FinancialAction{
		&model.Transaction{Date: testDate, Kind: model.KindExpense, Amount: decimal.RequireFromString("500.50"), Currency: "ARS", Category: "comida", Description: "Almuerzo"},
		&model.Transfer{Date: testDate, WalletFrom: "Banco", WalletTo: "Mercado Pago", InitialAmount: decimal.NewFromInt(1000), FinalAmount: decimal.NewFromInt(990), Currency: "ARS"},
		&model.Forex{Date: testDate, CurrencyFrom: "USD", CurrencyTo: "ARS", Amount: decimal.NewFromInt(100), Price: decimal.RequireFromString("12.5")},
		&model.Investment{Date: testDate, Action: model.InvestmentBuy, Platform: "IOL", Amount: decimal.NewFromInt(10), Price: decimal.NewFromInt(1500), Currency: "ARS"},
	}

	for _, a := range actions {
		t.Run(a.Table(), func(t *testing.T) {
			require.NoError(t, store.Insert(ctx, a.Table(), a.StorageRecord(testUser)))

			var (
				id, userID string
				telegramID sql.NullString
				whatsapp   sql.NullString
			)
			err := store.db.QueryRowContext(ctx,
				"SELECT id, user_id, telegram_id, whatsapp_number FROM "+a.Table()).
				Scan(&id, &userID, &telegramID, &whatsapp)
			require.NoError(t, err)

			assert.NotEmpty(t, id)
			assert.Equal(t, "u-1", userID)
			assert.Equal(t, "123456", telegramID.String)
			assert.False(t, whatsapp.Valid)
		})
	}
}

func TestSQLiteInsertPreservesValues(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	tx := &model.Transaction{Date: testDate, Kind: model.KindIncome, Amount: decimal.RequireFromString("1250.75"), Currency: "ARS", Category: "sueldo"}
	require.NoError(t, store.Insert(ctx, tx.Table(), tx.StorageRecord(testUser)))

	var (
		amount decimal.Decimal
		date   time.Time
		kind   string
	)
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT amount, date, kind FROM transactions").Scan(&amount, &date, &kind))
	assert.True(t, amount.Equal(decimal.RequireFromString("1250.75")), amount.String())
	assert.True(t, date.Equal(testDate))
	assert.Equal(t, "income", kind)
}

func TestSQLiteInsertRejects(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		table   string
		record  map[string]any
		wantErr error
	}{
		{name: "unknown table", table: "users", record: map[string]any{"user_id": "u"}, wantErr: common.ErrUnknownTable},
		{name: "injection in table name", table: "transactions; DROP TABLE forex", record: map[string]any{"user_id": "u"}, wantErr: common.ErrUnknownTable},
		{name: "unknown column", table: "forex", record: map[string]any{"user_id": "u", "password": "x"}, wantErr: ErrUnknownColumn},
		{name: "column from another table", table: "forex", record: map[string]any{"user_id": "u", "wallet_from": "x"}, wantErr: ErrUnknownColumn},
		{name: "empty record", table: "forex", record: map[string]any{}, wantErr: ErrEmptyRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Insert(ctx, tt.table, tt.record)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	for _, table := range Tables() {
		var n int
		err := store.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", "idx_"+table+"_user_date").Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "index for %s", table)
	}
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "plata.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewSQLiteStoreEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestBuildInsert(t *testing.T) {
	query, args, err := buildInsert("forex", map[string]any{
		"user_id":     "u-1",
		"price":       decimal.NewFromInt(12),
		"amount":      decimal.NewFromInt(100),
		"currency_to": "ARS",
	}, postgresPlaceholder)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO forex (id, amount, currency_to, price, user_id) VALUES ($1, $2, $3, $4, $5)", query)
	require.Len(t, args, 5)
	assert.NotEmpty(t, args[0])
	assert.Equal(t, "ARS", args[2])
	assert.Equal(t, "u-1", args[4])
}

func TestCreateTableDialects(t *testing.T) {
	sqlite := createTable("transfers", dialectSQLite)
	postgres := createTable("transfers", dialectPostgres)

	assert.Contains(t, sqlite, "initial_amount NUMERIC NOT NULL")
	assert.Contains(t, sqlite, "created_at DATETIME DEFAULT CURRENT_TIMESTAMP")
	assert.Contains(t, postgres, "initial_amount NUMERIC(24, 8) NOT NULL")
	assert.Contains(t, postgres, "date TIMESTAMPTZ NOT NULL")
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), Config{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
