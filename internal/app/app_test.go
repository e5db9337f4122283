package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/storage/memory"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
)

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	dir := t.TempDir()
	content := fmt.Sprintf(`
network: devnet
rpc_list:
  - https://api.devnet.solana.com
wallet:
  private_key: %s
log:
  file: %s
%s`, key.String(), filepath.Join(dir, "launchpad.log"), extra)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewWiresInMemoryLaunchpad(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, Options{ConfigPath: writeConfig(t, ""), Mode: ModeTUI})
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close(ctx)) }()

	assert.IsType(t, &memory.Storage{}, a.Receipts)
	assert.NotNil(t, a.Launch)
	assert.NotNil(t, a.Bus)
	assert.False(t, a.Wallet.PublicKey().IsZero())
	assert.False(t, a.Launch.InFlight("token"))
}

func TestNewRejectsUnknownPriority(t *testing.T) {
	_, err := New(context.Background(), Options{
		ConfigPath: writeConfig(t, ""),
		Mode:       ModeTUI,
		Priority:   transaction.PriorityLevel("turbo"),
	})
	assert.ErrorContains(t, err, "unknown priority level")
}

func TestNewRequiresWallet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
rpc_list: [https://api.devnet.solana.com]
log:
  file: %s
`, filepath.Join(dir, "launchpad.log"))), 0o600))

	_, err := New(context.Background(), Options{ConfigPath: path, Mode: ModeTUI})
	assert.ErrorContains(t, err, "load wallet")
}

func TestShutdownReverseOrderAndErrors(t *testing.T) {
	sh := NewShutdownHandler(zaptest.NewLogger(t), time.Second)
	var order []string
	record := func(name string, err error) CloseFunc {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}
	sh.Add("logger", record("logger", nil))
	sh.Add("postgres", record("postgres", errors.New("connection reset")))
	sh.Add("event_bus", record("event_bus", nil))

	err := sh.Shutdown(context.Background())
	assert.Equal(t, []string{"event_bus", "postgres", "logger"}, order)
	assert.ErrorContains(t, err, "postgres: connection reset")

	// Second call has nothing left to close
	assert.NoError(t, sh.Shutdown(context.Background()))
	assert.Len(t, order, 3)
}

func TestShutdownTimeout(t *testing.T) {
	sh := NewShutdownHandler(zaptest.NewLogger(t), 20*time.Millisecond)
	sh.Add("stuck", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})
	sh.Add("quick", func(context.Context) error { return nil })

	start := time.Now()
	err := sh.Shutdown(context.Background())
	assert.ErrorContains(t, err, "stuck: shutdown timeout")
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
