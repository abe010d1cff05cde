package llm

import (
	"errors"
	"strings"
	"testing"
)

func validTakeawayJSON() string {
	return `{"takeaways":[
		{"headline":"Start small","explanation":"Tiny habits compound.","actionable_tip":"Do two minutes.","hashtags":["#a","#b","#c","#d","#e"],"media_keyword":"sunrise"},
		{"headline":"Stack habits","explanation":"Anchor new to old.","actionable_tip":"After coffee, read.","hashtags":["#a","#b","#c","#d","#e"],"media_keyword":"coffee"},
		{"headline":"Design the room","explanation":"Environment beats willpower.","actionable_tip":"Hide the phone.","hashtags":["#a","#b","#c","#d","#e"],"media_keyword":"desk"}
	]}`
}

func TestDecodeTakeawaysValid(t *testing.T) {
	takeaways, err := DecodeTakeaways(validTakeawayJSON(), 3)
	if err != nil {
		t.Fatalf("DecodeTakeaways() error = %v", err)
	}
	if len(takeaways) != 3 {
		t.Fatalf("got %d takeaways, want 3", len(takeaways))
	}
	if takeaways[0].Headline != "Start small" {
		t.Errorf("Headline = %q, want %q", takeaways[0].Headline, "Start small")
	}
	if takeaways[2].MediaKeyword != "desk" {
		t.Errorf("MediaKeyword = %q, want %q", takeaways[2].MediaKeyword, "desk")
	}
}

func TestDecodeTakeawaysRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "notJSON",
			raw:  "Here are your takeaways!",
		},
		{
			name: "wrongCount",
			raw:  `{"takeaways":[{"headline":"One","explanation":"x","actionable_tip":"y","hashtags":["#a","#b","#c","#d","#e"],"media_keyword":"k"}]}`,
		},
		{
			name: "missingHeadline",
			raw: strings.Replace(validTakeawayJSON(),
				`"headline":"Start small",`, "", 1),
		},
		{
			name: "wrongHashtagCount",
			raw: strings.Replace(validTakeawayJSON(),
				`["#a","#b","#c","#d","#e"],"media_keyword":"sunrise"`,
				`["#a","#b"],"media_keyword":"sunrise"`, 1),
		},
		{
			name: "wrongFieldType",
			raw: strings.Replace(validTakeawayJSON(),
				`"media_keyword":"sunrise"`, `"media_keyword":42`, 1),
		},
		{
			name: "missingEnvelopeKey",
			raw:  `{"items":[]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTakeaways(tt.raw, 3)
			if err == nil {
				t.Fatal("DecodeTakeaways() expected error")
			}
			var validationErr *ContentValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("error = %T, want *ContentValidationError", err)
			}
		})
	}
}

func TestGenerationErrorUnwrap(t *testing.T) {
	inner := errors.New("provider down")
	err := &GenerationError{Stage: "summary", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("GenerationError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "summary") {
		t.Errorf("Error() = %q, want it to name the stage", err.Error())
	}
}
