package groq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/groq-go"

	"reelsmith/internal/llm"
	"reelsmith/pkg/prompts"
)

// Generation calls are expensive, so each gets a small bounded retry
// budget rather than the usual HTTP-level retries.
const (
	maxAttempts = 2
	retryDelay  = 2 * time.Second
)

var _ llm.Client = (*Client)(nil)

type Client struct {
	client       *groq.Client
	summaryModel groq.ChatModel
	contentModel groq.ChatModel
	prompts      *prompts.Prompts
}

func NewClient(apiKey, summaryModel, contentModel string, p *prompts.Prompts) (*Client, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client:       client,
		summaryModel: groq.ChatModel(summaryModel),
		contentModel: groq.ChatModel(contentModel),
		prompts:      p,
	}, nil
}

// Summarize requests a long-form summary of the book and enforces the
// minimum-length contract.
func (c *Client) Summarize(ctx context.Context, title, author string, minWords int) (string, error) {
	prompt, err := c.prompts.RenderSummary(prompts.SummaryParams{
		Title:    title,
		Author:   author,
		MinWords: minWords,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.generate(ctx, c.summaryModel, c.prompts.System.Summarizer, prompt, false)
	if err != nil {
		return "", &llm.GenerationError{Stage: "summary", Err: err}
	}

	// The length contract is the only cheap quality signal we have before
	// spending the second generation call.
	if words := len(strings.Fields(content)); words < minWords {
		return "", &llm.GenerationError{
			Stage: "summary",
			Err:   fmt.Errorf("summary has %d words, need at least %d", words, minWords),
		}
	}

	return content, nil
}

// GenerateTakeaways transforms the summary into structured post content
// and validates it against the fixed schema.
func (c *Client) GenerateTakeaways(ctx context.Context, title, summary string, count int) ([]llm.Takeaway, error) {
	prompt, err := c.prompts.RenderTakeaways(prompts.TakeawaysParams{
		Title:        title,
		Summary:      summary,
		Count:        count,
		HashtagCount: llm.HashtagCount,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.generate(ctx, c.contentModel, c.prompts.System.Creator, prompt, true)
	if err != nil {
		return nil, &llm.GenerationError{Stage: "takeaways", Err: err}
	}

	return llm.DecodeTakeaways(content, count)
}

func (c *Client) generate(ctx context.Context, model groq.ChatModel, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	req := groq.ChatCompletionRequest{
		Model: model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: systemPrompt},
			{Role: groq.RoleUser, Content: userPrompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &groq.ChatResponseFormat{Type: "json_object"}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, err := c.complete(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}

	return "", lastErr
}

func (c *Client) complete(ctx context.Context, req groq.ChatCompletionRequest) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	return content, nil
}
