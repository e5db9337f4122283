package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
)

func TestTokenSpecFromFlags(t *testing.T) {
	cmd := newTokenCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--name", "Moon", "--symbol", "MOON", "--supply", "1000",
		"--website", "https://moon.example",
	}))

	spec, err := tokenSpecFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Moon", spec.Name)
	assert.Equal(t, uint8(9), spec.Decimals)
	assert.Equal(t, "1000", spec.Supply.String())
	assert.Equal(t, "https://moon.example", spec.Socials.Website)
	assert.Nil(t, spec.Image)
}

func TestTokenSpecFromFlagsRejectsBadInput(t *testing.T) {
	cmd := newTokenCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--name", "Moon", "--symbol", "MOON", "--supply", "lots"}))

	_, err := tokenSpecFromFlags(cmd)
	require.Error(t, err)
	assert.Equal(t, launch.KindValidation, launch.Kind(err))
	assert.Contains(t, err.Error(), "--supply")

	cmd = newTokenCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--name", "Moon", "--symbol", "MOON", "--supply", "1", "--decimals", "12"}))
	_, err = tokenSpecFromFlags(cmd)
	var verr *launch.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "decimals", verr.Field)
}

func TestMarketSpecFromFlagsDefaultsQuoteToWSOL(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	cmd := newMarketCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--base", base.String()}))

	spec, err := marketSpecFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, base, spec.BaseMint)
	assert.Equal(t, solana.SolMint, spec.QuoteMint)
	assert.Equal(t, "1", spec.LotSize.String())
	assert.Equal(t, "0.0001", spec.TickSize.String())
}

func TestPoolSpecFromFlagsStart(t *testing.T) {
	market := solana.NewWallet().PublicKey().String()
	tests := []struct {
		name    string
		start   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty opens now", start: "", want: time.Time{}},
		{name: "unix seconds", start: "1700000000", want: time.Unix(1700000000, 0).UTC()},
		{name: "rfc3339", start: "2030-01-02T03:04:05Z", want: time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "garbage", start: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newPoolCmd()
			require.NoError(t, cmd.ParseFlags([]string{
				"--market", market, "--base-amount", "100", "--quote-amount", "1", "--start", tt.start,
			}))
			spec, err := poolSpecFromFlags(cmd)
			if tt.wantErr {
				assert.Equal(t, launch.KindValidation, launch.Kind(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(spec.StartTime))
		})
	}
}

func TestPrintErrorIncludesKindAndLogs(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, &launch.ValidationError{Field: "name", Reason: "is required"})
	assert.Equal(t, "Error (validation): invalid name: is required\n", buf.String())
}
