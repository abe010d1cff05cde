package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestVideoReady(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.VideoReady(context.Background(), "https://cdn/final.mp4"); err != nil {
		t.Fatalf("VideoReady() error = %v", err)
	}
	if !strings.Contains(got.Content, "https://cdn/final.mp4") {
		t.Errorf("message %q does not contain video URL", got.Content)
	}
}

func TestVideoReadyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid webhook token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.VideoReady(context.Background(), "https://cdn/final.mp4"); err == nil {
		t.Fatal("VideoReady() error = nil, want non-nil")
	}
}
