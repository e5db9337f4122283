// internal/license/keygen.go
package license

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"

	"github.com/keygen-sh/keygen-go/v3"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
)

const minKeyLength = 8

var (
	ErrLicenseRequired = errors.New("license key is required")
	ErrLicenseExpired  = errors.New("license has expired")
)

// KeygenValidator handles license validation using Keygen.sh
type KeygenValidator struct {
	logger      *zap.Logger
	validate    func(ctx context.Context, fingerprint string) (*keygen.License, error)
	fingerprint func() (string, error)
}

// NewKeygenValidator configures the keygen client for one product.
func NewKeygenValidator(cfg config.KeygenConfig, logger *zap.Logger) *KeygenValidator {
	keygen.Account = cfg.AccountID
	keygen.Product = cfg.ProductID
	keygen.Token = cfg.ProductToken

	return &KeygenValidator{
		logger: logger.Named("license"),
		validate: func(ctx context.Context, fingerprint string) (*keygen.License, error) {
			return keygen.Validate(ctx, fingerprint)
		},
		fingerprint: machineFingerprint,
	}
}

// ValidateLicense validates a license key, activating this machine on first use.
func (kv *KeygenValidator) ValidateLicense(ctx context.Context, licenseKey string) error {
	if len(licenseKey) < minKeyLength {
		return ErrLicenseRequired
	}
	kv.logger.Info("Validating license", zap.String("key", licenseKey[:minKeyLength]+"..."))

	fingerprint, err := kv.fingerprint()
	if err != nil {
		return fmt.Errorf("failed to generate machine fingerprint: %w", err)
	}

	keygen.LicenseKey = licenseKey
	license, err := kv.validate(ctx, fingerprint)
	switch {
	case errors.Is(err, keygen.ErrLicenseNotActivated):
		kv.logger.Info("License not activated, attempting activation")
		machine, activateErr := license.Activate(ctx, fingerprint)
		if activateErr != nil {
			return fmt.Errorf("failed to activate license: %w", activateErr)
		}
		kv.logger.Info("License activated successfully",
			zap.String("machine_id", machine.ID),
			zap.String("fingerprint", fingerprint))

	case errors.Is(err, keygen.ErrLicenseExpired):
		return ErrLicenseExpired

	case err != nil:
		return fmt.Errorf("license validation failed: %w", err)
	}

	if license == nil {
		return errors.New("license not found")
	}

	kv.logger.Info("License validation successful", zap.String("license_id", license.ID))
	return nil
}

// Check validates cfg.License. Without a keygen account only the key format
// is checked; with no key at all licensing is skipped.
func Check(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.License == "" {
		logger.Debug("No license configured, skipping validation")
		return nil
	}
	if cfg.Keygen.AccountID == "" {
		if len(cfg.License) < minKeyLength {
			return fmt.Errorf("license key is too short")
		}
		logger.Info("License accepted (offline mode)")
		return nil
	}
	return NewKeygenValidator(cfg.Keygen, logger).ValidateLicense(ctx, cfg.License)
}

// machineFingerprint hashes the hostname, the first hardware address of an
// up, non-loopback interface and the OS.
func machineFingerprint() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	var macAddresses []string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 && len(iface.HardwareAddr) > 0 {
			macAddresses = append(macAddresses, iface.HardwareAddr.String())
		}
	}
	sort.Strings(macAddresses)
	mac := "none"
	if len(macAddresses) > 0 {
		mac = macAddresses[0]
	}

	hash := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s", hostname, mac, runtime.GOOS)))
	return fmt.Sprintf("%x", hash), nil
}
