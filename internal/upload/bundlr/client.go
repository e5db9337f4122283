// internal/upload/bundlr/client.go
package bundlr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/upload"
)

const currency = "solana"

// Funder moves lamports to the node's deposit address.
type Funder interface {
	Transfer(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error)
}

// StatusError is a non-2xx answer from the node.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bundlr %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to a Bundlr/Irys node and pays from key's address.
type Client struct {
	nodeURL string
	key     solana.PrivateKey
	funder  Funder
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(nodeURL string, key solana.PrivateKey, funder Funder, logger *zap.Logger) *Client {
	return &Client{
		nodeURL: strings.TrimRight(nodeURL, "/"),
		key:     key,
		funder:  funder,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger.Named("bundlr"),
	}
}

// Price returns the lamport cost of storing size bytes.
func (c *Client) Price(ctx context.Context, size int) (uint64, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/price/%s/%d", currency, size), "", nil)
	if err != nil {
		return 0, err
	}
	price, err := strconv.ParseUint(strings.Trim(strings.TrimSpace(string(body)), `"`), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price response %q: %w", body, err)
	}
	return price, nil
}

// Balance returns the prepaid balance of the signing address.
func (c *Client) Balance(ctx context.Context) (uint64, error) {
	path := fmt.Sprintf("/account/balance/%s?address=%s", currency, c.key.PublicKey())
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Balance json.Number `json:"balance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("invalid balance response: %w", err)
	}
	balance, err := strconv.ParseUint(resp.Balance.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid balance %q: %w", resp.Balance, err)
	}
	return balance, nil
}

// DepositAddress returns the node's Solana address.
func (c *Client) DepositAddress(ctx context.Context) (solana.PublicKey, error) {
	body, err := c.do(ctx, http.MethodGet, "/info", "", nil)
	if err != nil {
		return solana.PublicKey{}, err
	}
	var info struct {
		Addresses map[string]string `json:"addresses"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid info response: %w", err)
	}
	addr, ok := info.Addresses[currency]
	if !ok || addr == "" {
		return solana.PublicKey{}, fmt.Errorf("node has no %s deposit address", currency)
	}
	return solana.PublicKeyFromBase58(addr)
}

// Fund transfers lamports to the node and registers the transfer.
func (c *Client) Fund(ctx context.Context, lamports uint64) error {
	to, err := c.DepositAddress(ctx)
	if err != nil {
		return fmt.Errorf("failed to get deposit address: %w", err)
	}
	sig, err := c.funder.Transfer(ctx, to, lamports)
	if err != nil {
		return fmt.Errorf("funding transfer failed: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"tx_id": sig.String()})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, "/account/balance/"+currency, "application/json", payload); err != nil {
		return fmt.Errorf("failed to register funding tx %s: %w", sig, err)
	}
	c.logger.Debug("Funding registered", zap.String("signature", sig.String()), zap.Uint64("lamports", lamports))
	return nil
}

// Upload signs data as a data item tagged with its content type and posts it.
func (c *Client) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	item, err := NewDataItem(c.key, data, []Tag{{Name: "Content-Type", Value: contentType}})
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodPost, "/tx/"+currency, "application/octet-stream", item.Bytes())
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid upload response: %w", err)
	}
	if resp.ID == "" {
		return item.ID, nil
	}
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.nodeURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

var _ upload.Node = (*Client)(nil)
