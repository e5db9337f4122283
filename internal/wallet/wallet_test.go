package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
)

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key
}

func TestNewWallet(t *testing.T) {
	key := newKey(t)
	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey())

	_, err = NewWallet("not-base58-0OIl")
	assert.Error(t, err)

	_, err = NewWallet("3yZe7d")
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestLoadWallets(t *testing.T) {
	a, b := newKey(t), newKey(t)
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	content := "wallets:\n" +
		"  - name: main\n    private_key: " + a.String() + "\n" +
		"  - name: spare\n    private_key: " + b.String() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, a.PublicKey(), wallets["main"].Address)
	assert.Equal(t, "spare", wallets["spare"].Name)

	dup := "wallets:\n  - name: x\n    private_key: " + a.String() + "\n  - name: x\n    private_key: " + b.String() + "\n"
	require.NoError(t, os.WriteFile(path, []byte(dup), 0o600))
	_, err = LoadWallets(path)
	assert.ErrorContains(t, err, "duplicate")
}

func TestFromConfig(t *testing.T) {
	key := newKey(t)

	t.Run("private key", func(t *testing.T) {
		w, err := FromConfig(config.WalletConfig{PrivateKey: key.String()})
		require.NoError(t, err)
		assert.Equal(t, key.PublicKey(), w.Address)
	})

	t.Run("keypair file", func(t *testing.T) {
		ints := make([]int, len(key))
		for i, b := range key {
			ints[i] = int(b)
		}
		raw, err := json.Marshal(ints)
		require.NoError(t, err)
		path := filepath.Join(t.TempDir(), "id.json")
		require.NoError(t, os.WriteFile(path, raw, 0o600))

		w, err := FromConfig(config.WalletConfig{KeypairPath: path})
		require.NoError(t, err)
		assert.Equal(t, key.PublicKey(), w.Address)
	})

	t.Run("named wallet missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallets.yaml")
		require.NoError(t, os.WriteFile(path, []byte("wallets:\n  - name: main\n    private_key: "+key.String()+"\n"), 0o600))
		_, err := FromConfig(config.WalletConfig{WalletsFile: path, Name: "other"})
		assert.ErrorContains(t, err, "not found")

		w, err := FromConfig(config.WalletConfig{WalletsFile: path})
		require.NoError(t, err)
		assert.Equal(t, "main", w.Name)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := FromConfig(config.WalletConfig{})
		assert.ErrorIs(t, err, ErrNoWallet)
	})
}

func TestSignTransactionWithCoSigner(t *testing.T) {
	w := fromKey(newKey(t))
	mint := newKey(t)

	ix := solana.NewInstruction(solana.SystemProgramID, []*solana.AccountMeta{
		{PublicKey: w.Address, IsSigner: true, IsWritable: true},
		{PublicKey: mint.PublicKey(), IsSigner: true, IsWritable: true},
	}, []byte{0})
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{}, solana.TransactionPayer(w.Address))
	require.NoError(t, err)

	require.NoError(t, w.SignTransaction(tx, mint))
	require.Len(t, tx.Signatures, 2)
	assert.NoError(t, tx.VerifySignatures())

	tx.Signatures = nil
	assert.Error(t, w.SignTransaction(tx))
}

func TestGetATACached(t *testing.T) {
	w := fromKey(newKey(t))
	mint := newKey(t).PublicKey()

	ata, err := w.GetATA(mint)
	require.NoError(t, err)
	expected, _, err := solana.FindAssociatedTokenAddress(w.Address, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)

	again, err := w.GetATA(mint)
	require.NoError(t, err)
	assert.Equal(t, ata, again)

	ix := CreateAssociatedTokenAccountIdempotentInstruction(w.Address, w.Address, mint)
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
	assert.Equal(t, ata, ix.Accounts()[1].PublicKey)
}
