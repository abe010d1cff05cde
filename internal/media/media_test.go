package media

import (
	"context"
	"errors"
	"testing"
)

type fakeSearcher struct {
	assets []Asset
	err    error
	query  string
	limit  int
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]Asset, error) {
	f.query = query
	f.limit = limit
	return f.assets, f.err
}

func TestResolvePicksFirstQualifying(t *testing.T) {
	searcher := &fakeSearcher{
		assets: []Asset{
			{URL: "https://cdn/landscape.mp4", Width: 1920, Height: 1080},
			{URL: "https://cdn/too-small.mp4", Width: 540, Height: 960},
			{URL: "https://cdn/good.mp4", Width: 1080, Height: 1920},
			{URL: "https://cdn/also-good.mp4", Width: 1080, Height: 1920},
		},
	}
	resolver := NewResolver(searcher, 1280, 10)

	url, err := resolver.Resolve(context.Background(), "sunrise")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if url != "https://cdn/good.mp4" {
		t.Errorf("Resolve() = %q, want the first qualifying asset", url)
	}
	if searcher.query != "sunrise" {
		t.Errorf("search query = %q, want sunrise", searcher.query)
	}
	if searcher.limit != 10 {
		t.Errorf("search limit = %d, want 10", searcher.limit)
	}
}

func TestResolveNothingQualifies(t *testing.T) {
	searcher := &fakeSearcher{
		assets: []Asset{
			{URL: "https://cdn/landscape.mp4", Width: 1920, Height: 1080},
		},
	}
	resolver := NewResolver(searcher, 1280, 10)

	_, err := resolver.Resolve(context.Background(), "sunrise")
	if !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrMediaNotFound", err)
	}
}

func TestResolveEmptyResults(t *testing.T) {
	resolver := NewResolver(&fakeSearcher{}, 1280, 10)

	_, err := resolver.Resolve(context.Background(), "sunrise")
	if !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrMediaNotFound", err)
	}
}

func TestResolveSearchError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("provider down")}
	resolver := NewResolver(searcher, 1280, 10)

	_, err := resolver.Resolve(context.Background(), "sunrise")
	if err == nil {
		t.Fatal("Resolve() expected error")
	}
	if errors.Is(err, ErrMediaNotFound) {
		t.Error("provider errors must not be reported as ErrMediaNotFound")
	}
}
