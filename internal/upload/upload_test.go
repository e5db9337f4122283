package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeNode struct {
	price       uint64
	balances    []uint64
	priceErrs   int
	fundErr     error
	funded      []uint64
	uploads     int
	balanceRead int
}

func (n *fakeNode) Price(context.Context, int) (uint64, error) {
	if n.priceErrs > 0 {
		n.priceErrs--
		return 0, errors.New("node busy")
	}
	return n.price, nil
}

func (n *fakeNode) Balance(context.Context) (uint64, error) {
	i := n.balanceRead
	if i >= len(n.balances) {
		i = len(n.balances) - 1
	}
	n.balanceRead++
	return n.balances[i], nil
}

func (n *fakeNode) Fund(_ context.Context, lamports uint64) error {
	n.funded = append(n.funded, lamports)
	return n.fundErr
}

func (n *fakeNode) Upload(context.Context, []byte, string) (string, error) {
	n.uploads++
	return "abc123", nil
}

func newTestFunded(t *testing.T, node Node, topUp uint64) *Funded {
	f := NewFunded(node, "https://arweave.net/", topUp, zaptest.NewLogger(t))
	f.backoff = func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }
	return f
}

func TestUploadWithSufficientBalance(t *testing.T) {
	node := &fakeNode{price: 100, balances: []uint64{500}}
	url, err := newTestFunded(t, node, 1000).Upload(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://arweave.net/abc123", url)
	assert.Empty(t, node.funded)
	assert.Equal(t, 1, node.uploads)
}

func TestUploadFundsOnceWithTopUpFloor(t *testing.T) {
	node := &fakeNode{price: 100, balances: []uint64{40, 1040}}
	_, err := newTestFunded(t, node, 1000).Upload(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1000}, node.funded)

	node = &fakeNode{price: 5000, balances: []uint64{40, 5040}}
	_, err = newTestFunded(t, node, 1000).Upload(context.Background(), []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4960}, node.funded)
}

func TestUploadUnderfundedAfterTopUp(t *testing.T) {
	node := &fakeNode{price: 100, balances: []uint64{0, 50}}
	_, err := newTestFunded(t, node, 10).Upload(context.Background(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, ErrUnderfunded)
	assert.Len(t, node.funded, 1)
	assert.Zero(t, node.uploads)
}

func TestUploadFundFailureIsNotRetried(t *testing.T) {
	node := &fakeNode{price: 100, balances: []uint64{0}, fundErr: errors.New("rejected")}
	_, err := newTestFunded(t, node, 10).Upload(context.Background(), []byte("img"), "image/png")
	assert.ErrorContains(t, err, "rejected")
	assert.Len(t, node.funded, 1)
	assert.Zero(t, node.uploads)
}

func TestUploadRetriesPriceReads(t *testing.T) {
	node := &fakeNode{price: 1, balances: []uint64{1}, priceErrs: 2}
	_, err := newTestFunded(t, node, 10).Upload(context.Background(), []byte("x"), "application/json")
	require.NoError(t, err)

	node = &fakeNode{price: 1, balances: []uint64{1}, priceErrs: 3}
	_, err = newTestFunded(t, node, 10).Upload(context.Background(), []byte("x"), "application/json")
	assert.ErrorContains(t, err, "node busy")
	assert.Zero(t, node.uploads)
}
