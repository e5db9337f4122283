package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
)

// setupTestDB starts a PostgreSQL container and returns a migrated store.
func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("launchpad"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := NewStorage(dsn, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.RunMigrations(ctx))
	return store
}

func TestReceiptRoundTrip(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	r := &models.Receipt{
		Flow:        models.FlowToken,
		Status:      models.StatusConfirmed,
		Payer:       "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Signatures:  []string{"sig-1"},
		Address:     "So11111111111111111111111111111111111111112",
		MetadataURI: "https://arweave.net/meta",
	}
	require.NoError(t, store.SaveReceipt(ctx, r))
	require.NotEqual(t, uuid.Nil, r.ID)

	got, err := store.GetReceipt(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Signatures, got.Signatures)
	assert.Equal(t, r.MetadataURI, got.MetadataURI)

	_, err = store.GetReceipt(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListReceipts(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	for _, flow := range []string{models.FlowToken, models.FlowMarket, models.FlowToken} {
		require.NoError(t, store.SaveReceipt(ctx, &models.Receipt{Flow: flow, Status: models.StatusFailed, Payer: "p"}))
	}

	tokens, err := store.ListReceipts(ctx, models.FlowToken, 0)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	all, err := store.ListReceipts(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	store := setupTestDB(t)
	assert.NoError(t, store.RunMigrations(context.Background()))
}
