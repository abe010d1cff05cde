package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// HashtagCount is the fixed number of hashtags per takeaway.
const HashtagCount = 5

// Takeaway is the structured content unit produced by the second
// generation stage. One takeaway becomes one post.
type Takeaway struct {
	Headline      string   `json:"headline" validate:"required"`
	Explanation   string   `json:"explanation" validate:"required"`
	ActionableTip string   `json:"actionable_tip" validate:"required"`
	Hashtags      []string `json:"hashtags" validate:"required,len=5,dive,required"`
	MediaKeyword  string   `json:"media_keyword" validate:"required"`
}

// Client drives the two-stage generation protocol.
type Client interface {
	Summarize(ctx context.Context, title, author string, minWords int) (string, error)
	GenerateTakeaways(ctx context.Context, title, summary string, count int) ([]Takeaway, error)
}

// GenerationError reports a failed or unusable model response. The run
// aborts and the queue claim is released.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ContentValidationError reports structured output that does not match the
// takeaway schema. It is never coerced into a partial result.
type ContentValidationError struct {
	Reason string
}

func (e *ContentValidationError) Error() string {
	return "content validation: " + e.Reason
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeTakeaways parses the model's JSON-mode response and validates it
// field by field against the takeaway schema, failing closed on any
// mismatch.
func DecodeTakeaways(raw string, count int) ([]Takeaway, error) {
	var envelope struct {
		Takeaways []Takeaway `json:"takeaways"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, &ContentValidationError{Reason: fmt.Sprintf("response is not the expected JSON shape: %v", err)}
	}

	if len(envelope.Takeaways) != count {
		return nil, &ContentValidationError{Reason: fmt.Sprintf("expected %d takeaways, got %d", count, len(envelope.Takeaways))}
	}

	for i, takeaway := range envelope.Takeaways {
		if err := validate.Struct(takeaway); err != nil {
			return nil, &ContentValidationError{Reason: fmt.Sprintf("takeaway %d: %v", i+1, err)}
		}
	}

	return envelope.Takeaways, nil
}
