package creatomate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelsmith/internal/render"
	"reelsmith/pkg/httputil"
)

const (
	baseURL        = "https://api.creatomate.com/v1"
	defaultTimeout = 30 * time.Second
)

var _ render.Dispatcher = (*Client)(nil)

type Client struct {
	apiKey     string
	templateID string
	httpClient *httputil.RetryClient
	baseURL    string
}

type Config struct {
	APIKey     string
	TemplateID string
	Timeout    time.Duration
}

type renderRequest struct {
	TemplateID    string         `json:"template_id"`
	WebhookURL    string         `json:"webhook_url"`
	Modifications map[string]any `json:"modifications"`
}

type renderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		templateID: cfg.TemplateID,
		httpClient: httputil.NewRetryClient(&http.Client{Timeout: timeout}, httputil.DefaultRetryConfig()),
		baseURL:    baseURL,
	}
}

// Dispatch submits one render job and returns the provider's job
// reference. The call is fire-and-forget: the render itself completes
// minutes later via the webhook registered in callbackURL.
func (c *Client) Dispatch(ctx context.Context, job render.Job, callbackURL string) (string, error) {
	payload := renderRequest{
		TemplateID: c.templateID,
		WebhookURL: callbackURL,
		Modifications: map[string]any{
			"Headline":          job.Headline,
			"Explanation":       job.Explanation,
			"Actionable-Tip":    job.ActionableTip,
			"Hashtags":          strings.Join(job.Hashtags, " "),
			"Background.source": job.MediaURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/renders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	// Retries of the same submission must not spawn duplicate renders.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit render: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &render.DispatchError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// The provider responds with an array of renders, one per template
	// output.
	var renders []renderResponse
	if err := json.Unmarshal(respBody, &renders); err != nil {
		var single renderResponse
		if err := json.Unmarshal(respBody, &single); err != nil {
			return "", fmt.Errorf("parse response: %w", err)
		}
		renders = []renderResponse{single}
	}
	if len(renders) == 0 || renders[0].ID == "" {
		return "", fmt.Errorf("provider returned no render reference")
	}

	return renders[0].ID, nil
}
