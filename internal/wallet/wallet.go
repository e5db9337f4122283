// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
)

// ErrNoWallet is returned when the configuration names no signing identity.
var ErrNoWallet = errors.New("no wallet configured")

// AssociatedTokenProgramID is the associated token account program.
var AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// Wallet is a Solana signing identity.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
	Address    solana.PublicKey

	mu       sync.Mutex
	ataCache map[solana.PublicKey]solana.PublicKey
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	return fromKey(solana.PrivateKey(privateKeyBytes)), nil
}

// LoadKeypairFile reads a solana-keygen JSON keypair.
func LoadKeypairFile(path string) (*Wallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s: %w", path, err)
	}
	return fromKey(key), nil
}

func fromKey(key solana.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: key,
		Address:    key.PublicKey(),
		ataCache:   make(map[solana.PublicKey]solana.PublicKey),
	}
}

type walletsFile struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadWallets загружает именованные кошельки из YAML-файла:
//
//	wallets:
//	  - name: main
//	    private_key: <base58>
func LoadWallets(path string) (map[string]*Wallet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var file walletsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse wallets file: %w", err)
	}
	if len(file.Wallets) == 0 {
		return nil, fmt.Errorf("wallets file %s is empty", path)
	}

	wallets := make(map[string]*Wallet, len(file.Wallets))
	for i, entry := range file.Wallets {
		if entry.Name == "" {
			return nil, fmt.Errorf("wallet #%d has no name", i+1)
		}
		if _, dup := wallets[entry.Name]; dup {
			return nil, fmt.Errorf("duplicate wallet name %q", entry.Name)
		}
		w, err := NewWallet(entry.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", entry.Name, err)
		}
		w.Name = entry.Name
		wallets[entry.Name] = w
	}
	return wallets, nil
}

// FromConfig picks the first configured key source.
func FromConfig(cfg config.WalletConfig) (*Wallet, error) {
	switch {
	case cfg.PrivateKey != "":
		return NewWallet(cfg.PrivateKey)
	case cfg.KeypairPath != "":
		return LoadKeypairFile(cfg.KeypairPath)
	case cfg.WalletsFile != "":
		wallets, err := LoadWallets(cfg.WalletsFile)
		if err != nil {
			return nil, err
		}
		if cfg.Name == "" && len(wallets) == 1 {
			for _, w := range wallets {
				return w, nil
			}
		}
		w, ok := wallets[cfg.Name]
		if !ok {
			return nil, fmt.Errorf("wallet %q not found in %s", cfg.Name, cfg.WalletsFile)
		}
		return w, nil
	default:
		return nil, ErrNoWallet
	}
}

// PublicKey returns the wallet address. A nil wallet has the zero address.
func (w *Wallet) PublicKey() solana.PublicKey {
	if w == nil {
		return solana.PublicKey{}
	}
	return w.Address
}

// SignTransaction подписывает транзакцию ключом кошелька и дополнительными ключами
// (например, новыми mint- или vault-аккаунтами).
func (w *Wallet) SignTransaction(tx *solana.Transaction, coSigners ...solana.PrivateKey) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.Address) {
			return &w.PrivateKey
		}
		for i := range coSigners {
			if key.Equals(coSigners[i].PublicKey()) {
				return &coSigners[i]
			}
		}
		return nil
	})
	return err
}

// GetATA возвращает адрес ассоциированного токен-аккаунта (ATA) для заданного токена (mint).
// Если адрес уже был вычислен ранее, возвращается значение из кеша.
func (w *Wallet) GetATA(mint solana.PublicKey) (solana.PublicKey, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ataCache == nil {
		w.ataCache = make(map[solana.PublicKey]solana.PublicKey)
	}
	if ata, ok := w.ataCache[mint]; ok {
		return ata, nil
	}
	ata, _, err := solana.FindAssociatedTokenAddress(w.Address, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	w.ataCache[mint] = ata
	return ata, nil
}

// CreateAssociatedTokenAccountIdempotentInstruction creates the ATA of owner for mint,
// succeeding when it already exists.
func CreateAssociatedTokenAccountIdempotentInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	ata, _, _ := solana.FindAssociatedTokenAddress(owner, mint)

	return solana.NewInstruction(
		AssociatedTokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // create idempotent
	)
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	if w.Name != "" {
		return fmt.Sprintf("%s (%s)", w.Name, w.Address)
	}
	return w.Address.String()
}
