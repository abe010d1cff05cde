// Package discord posts notifications to a Discord channel webhook.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reelsmith/internal/notify"
	"reelsmith/pkg/httputil"
)

const defaultTimeout = 15 * time.Second

var _ notify.Notifier = (*Client)(nil)

type Client struct {
	webhookURL string
	httpClient *httputil.RetryClient
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: httputil.NewRetryClient(&http.Client{Timeout: defaultTimeout}, httputil.DefaultRetryConfig()),
	}
}

type message struct {
	Content string `json:"content"`
}

// VideoReady posts a download link for a finished render into the
// configured channel.
func (c *Client) VideoReady(ctx context.Context, videoURL string) error {
	msg := message{Content: fmt.Sprintf("Reel is ready! 🚀\nDownload it here: %s", videoURL)}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord webhook returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
