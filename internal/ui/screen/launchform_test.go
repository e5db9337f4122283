package screen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/solana-launchpad/internal/launch"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

type mockLauncher struct {
	mock.Mock
}

func (m *mockLauncher) CreateToken(ctx context.Context, signer transaction.Signer, spec launch.TokenSpec) (*launch.TokenResult, error) {
	args := m.Called(ctx, signer, spec)
	res, _ := args.Get(0).(*launch.TokenResult)
	return res, args.Error(1)
}

func (m *mockLauncher) CreateMarket(ctx context.Context, signer transaction.Signer, spec launch.MarketSpec) (*launch.MarketResult, error) {
	args := m.Called(ctx, signer, spec)
	res, _ := args.Get(0).(*launch.MarketResult)
	return res, args.Error(1)
}

func (m *mockLauncher) CreatePool(ctx context.Context, signer transaction.Signer, spec launch.PoolSpec) (*launch.PoolResult, error) {
	args := m.Called(ctx, signer, spec)
	res, _ := args.Get(0).(*launch.PoolResult)
	return res, args.Error(1)
}

func newServices(t *testing.T) (*ui.Services, *mockLauncher) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	signer, err := wallet.NewWallet(key.String())
	require.NoError(t, err)

	launcher := new(mockLauncher)
	return &ui.Services{
		Ctx:      context.Background(),
		Launcher: launcher,
		Signer:   signer,
		Network:  "devnet",
		Logger:   zaptest.NewLogger(t),
	}, launcher
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func flowDone(t *testing.T, msgs []tea.Msg) ui.FlowDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(ui.FlowDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no FlowDoneMsg produced")
	return ui.FlowDoneMsg{}
}

var submitKey = tea.KeyMsg{Type: tea.KeyCtrlS}

func fillMarketForm(s *LaunchScreen, base solana.PublicKey) {
	s.form.SetFieldValue("base_mint", base.String()).
		SetFieldValue("lot_size", "1").
		SetFieldValue("tick_size", "0.01")
}

func TestMarketScreenSubmitsOnce(t *testing.T) {
	svc, launcher := newServices(t)
	base := solana.NewWallet().PublicKey()
	marketID := solana.NewWallet().PublicKey()
	sigs := []solana.Signature{{1}, {2}}

	launcher.On("CreateMarket", mock.Anything, svc.Signer, mock.MatchedBy(func(spec launch.MarketSpec) bool {
		return spec.BaseMint.Equals(base) && spec.QuoteMint.Equals(solana.SolMint) &&
			spec.LotSize.Equal(decimal.NewFromInt(1)) && spec.TickSize.Equal(decimal.RequireFromString("0.01"))
	})).Return(&launch.MarketResult{MarketID: marketID, Signatures: sigs}, nil).Once()

	s := NewMarketScreen(svc)
	fillMarketForm(s, base)

	_, cmd := s.Update(submitKey)
	require.NotNil(t, cmd)
	assert.True(t, s.InFlight())

	// A second submit while the first runs is ignored
	_, again := s.Update(submitKey)
	assert.Nil(t, again)

	done := flowDone(t, collect(cmd))
	require.NoError(t, done.Err)
	s.Update(done)

	assert.False(t, s.InFlight())
	assert.Contains(t, s.View(), marketID.String())
	assert.Contains(t, s.View(), sigs[1].String())
	assert.Contains(t, s.View(), "Create Market succeeded")
	launcher.AssertExpectations(t)
}

func TestInvalidFormDoesNotSubmit(t *testing.T) {
	svc, launcher := newServices(t)
	s := NewMarketScreen(svc)
	s.form.SetFieldValue("base_mint", "not-a-key")

	_, cmd := s.Update(submitKey)
	assert.Nil(t, cmd)
	assert.False(t, s.InFlight())
	assert.Equal(t, "not a valid address", s.form.Error("base_mint"))
	launcher.AssertNotCalled(t, "CreateMarket", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlowErrorShowsKindAndField(t *testing.T) {
	svc, launcher := newServices(t)
	launcher.On("CreateMarket", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &launch.ValidationError{Field: "tick_size", Reason: "tick size is too small for the quote mint decimals"})

	s := NewMarketScreen(svc)
	fillMarketForm(s, solana.NewWallet().PublicKey())

	_, cmd := s.Update(submitKey)
	s.Update(flowDone(t, collect(cmd)))

	assert.False(t, s.InFlight())
	assert.Equal(t, "tick size is too small for the quote mint decimals", s.form.Error("tick_size"))
	assert.Contains(t, s.View(), "Create Market failed (validation)")
}

func TestSubmissionErrorShowsLastLogs(t *testing.T) {
	svc, _ := newServices(t)
	s := NewPoolScreen(svc)
	s.inFlight = true

	err := &launch.SubmissionError{
		Step: "pool",
		Logs: []string{"log 1", "log 2", "log 3", "Program log: insufficient funds"},
		Err:  assert.AnError,
	}
	s.Update(ui.FlowDoneMsg{Route: ui.RouteCreatePool, Err: err})

	view := s.View()
	assert.Contains(t, view, "Create Pool failed (submission)")
	assert.Contains(t, view, "insufficient funds")
	assert.NotContains(t, view, "log 1")
}

func TestFlowDoneForOtherRouteIgnored(t *testing.T) {
	svc, _ := newServices(t)
	s := NewTokenScreen(svc)
	s.inFlight = true
	s.Update(ui.FlowDoneMsg{Route: ui.RouteCreatePool})
	assert.True(t, s.InFlight())
}

func TestParseTokenSpec(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	spec, err := parseTokenSpec(map[string]string{
		"name": "Foo", "symbol": "FOO", "decimals": "6", "supply": "1000.5",
		"image": image, "socials.twitter": "https://x.com/foo",
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(6), spec.Decimals)
	assert.True(t, spec.Supply.Equal(decimal.RequireFromString("1000.5")))
	assert.Equal(t, "image/png", spec.ImageContentType)
	assert.Equal(t, "https://x.com/foo", spec.Socials.Twitter)

	_, err = parseTokenSpec(map[string]string{"decimals": "6", "supply": "1", "image": filepath.Join(dir, "missing.png")})
	var verr *launch.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Field)

	_, err = parseTokenSpec(map[string]string{"decimals": "300", "supply": "1"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "decimals", verr.Field)
}

func TestParsePoolSpecStartTime(t *testing.T) {
	market := solana.NewWallet().PublicKey().String()
	tests := []struct {
		raw  string
		want time.Time
		err  bool
	}{
		{"", time.Time{}, false},
		{"now", time.Time{}, false},
		{"1767225600", time.Unix(1767225600, 0).UTC(), false},
		{"2026-01-01T00:00:00Z", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, err := parsePoolSpec(map[string]string{
				"market_id": market, "base_amount": "10", "quote_amount": "1", "start_time": tt.raw,
			})
			if tt.err {
				var verr *launch.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "start_time", verr.Field)
				return
			}
			require.NoError(t, err)
			assert.True(t, spec.StartTime.Equal(tt.want))
		})
	}
}
