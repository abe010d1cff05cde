package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"reelsmith/internal/media"
)

const (
	baseURL        = "https://api.pexels.com/videos"
	defaultTimeout = 15 * time.Second
)

var _ media.Searcher = (*Client)(nil)

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

type Config struct {
	APIKey  string
	Timeout time.Duration
}

type searchResponse struct {
	Videos []video `json:"videos"`
}

type video struct {
	ID         int64       `json:"id"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Duration   float64     `json:"duration"`
	VideoFiles []videoFile `json:"video_files"`
}

type videoFile struct {
	Link    string `json:"link"`
	Quality string `json:"quality"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Search queries Pexels for portrait stock footage matching the query.
// Each returned asset is the best HD file of one video.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]media.Asset, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("orientation", "portrait")
	params.Set("size", "medium")
	params.Set("per_page", fmt.Sprintf("%d", limit))

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("pexels api error: %s, body: %s", resp.Status, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	assets := make([]media.Asset, 0, len(searchResp.Videos))
	for _, v := range searchResp.Videos {
		file, ok := bestFile(v)
		if !ok {
			continue
		}
		assets = append(assets, media.Asset{
			URL:      file.Link,
			Width:    file.Width,
			Height:   file.Height,
			Duration: v.Duration,
		})
	}

	return assets, nil
}

func bestFile(v video) (videoFile, bool) {
	var fallback videoFile
	var haveFallback bool

	for _, file := range v.VideoFiles {
		if file.Link == "" {
			continue
		}
		if file.Quality == "hd" || file.Quality == "uhd" {
			return file, true
		}
		if !haveFallback {
			fallback = file
			haveFallback = true
		}
	}
	return fallback, haveFallback
}
