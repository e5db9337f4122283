package license

import (
	"context"
	"errors"
	"testing"

	"github.com/keygen-sh/keygen-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/config"
)

func stubValidator(t *testing.T, license *keygen.License, err error) *KeygenValidator {
	t.Helper()
	return &KeygenValidator{
		logger: zaptest.NewLogger(t),
		validate: func(context.Context, string) (*keygen.License, error) {
			return license, err
		},
		fingerprint: func() (string, error) { return "fp", nil },
	}
}

func TestValidateLicense(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, stubValidator(t, &keygen.License{ID: "lic-1"}, nil).ValidateLicense(ctx, "ABCD-EFGH-1234"))
	assert.ErrorIs(t, stubValidator(t, nil, keygen.ErrLicenseExpired).ValidateLicense(ctx, "ABCD-EFGH-1234"), ErrLicenseExpired)
	assert.ErrorIs(t, stubValidator(t, nil, nil).ValidateLicense(ctx, "short"), ErrLicenseRequired)

	err := stubValidator(t, nil, errors.New("suspended")).ValidateLicense(ctx, "ABCD-EFGH-1234")
	assert.ErrorContains(t, err, "suspended")
}

func TestCheckOffline(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	assert.NoError(t, Check(ctx, &config.Config{}, logger))
	assert.NoError(t, Check(ctx, &config.Config{License: "ABCD-EFGH-1234"}, logger))
	assert.Error(t, Check(ctx, &config.Config{License: "abc"}, logger))
}

func TestMachineFingerprintStable(t *testing.T) {
	a, err := machineFingerprint()
	require.NoError(t, err)
	b, err := machineFingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
