// internal/notify/webhook.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type webhookTextContent struct {
	Text string `json:"text"`
}

// webhookMessage is the text message shape accepted by Lark/Feishu style bots.
type webhookMessage struct {
	MsgType string             `json:"msg_type"`
	Content webhookTextContent `json:"content"`
}

type webhookResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Webhook posts notifications as JSON text messages.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (w *Webhook) Notify(ctx context.Context, n Notification) error {
	if w.URL == "" {
		return errors.New("webhook URL is empty")
	}

	payload, err := json.Marshal(webhookMessage{
		MsgType: "text",
		Content: webhookTextContent{Text: fmt.Sprintf("[%s] %s\n%s", n.Level, n.Title, n.Message)},
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	var body webhookResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && body.Msg != "" {
			return fmt.Errorf("webhook returned status %d, code %d: %s", resp.StatusCode, body.Code, body.Msg)
		}
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	if decodeErr == nil && body.Code != 0 {
		return fmt.Errorf("webhook rejected message, code %d: %s", body.Code, body.Msg)
	}
	return nil
}
