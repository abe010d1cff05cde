package creatomate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelsmith/internal/render"
)

func testJob() render.Job {
	return render.Job{
		Headline:      "Start small",
		Explanation:   "Tiny habits compound.",
		ActionableTip: "Do two minutes.",
		Hashtags:      []string{"#habits", "#growth"},
		MediaURL:      "https://cdn/clip.mp4",
	}
}

func TestDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Error("Idempotency-Key header missing")
		}

		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.TemplateID != "tmpl-1" {
			t.Errorf("template_id = %q, want tmpl-1", req.TemplateID)
		}
		if req.WebhookURL != "https://example.com/api/webhooks/render/42" {
			t.Errorf("webhook_url = %q", req.WebhookURL)
		}
		if req.Modifications["Headline"] != "Start small" {
			t.Errorf("Headline modification = %v", req.Modifications["Headline"])
		}
		if req.Modifications["Background.source"] != "https://cdn/clip.mp4" {
			t.Errorf("Background.source modification = %v", req.Modifications["Background.source"])
		}

		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode([]renderResponse{{ID: "render-123", Status: "planned"}})
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", TemplateID: "tmpl-1"})
	client.baseURL = srv.URL

	jobID, err := client.Dispatch(context.Background(), testJob(), "https://example.com/api/webhooks/render/42")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if jobID != "render-123" {
		t.Errorf("jobID = %q, want render-123", jobID)
	}
}

func TestDispatchSingleObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(renderResponse{ID: "render-9", Status: "planned"})
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", TemplateID: "t"})
	client.baseURL = srv.URL

	jobID, err := client.Dispatch(context.Background(), testJob(), "https://example.com/cb")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if jobID != "render-9" {
		t.Errorf("jobID = %q, want render-9", jobID)
	}
}

func TestDispatchRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid template"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", TemplateID: "bad"})
	client.baseURL = srv.URL

	_, err := client.Dispatch(context.Background(), testJob(), "https://example.com/cb")
	var dispatchErr *render.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("error = %v, want *render.DispatchError", err)
	}
	if dispatchErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", dispatchErr.StatusCode)
	}
}
