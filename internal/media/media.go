package media

import (
	"context"
	"errors"
	"fmt"
)

// ErrMediaNotFound indicates no qualifying asset exists for a keyword.
var ErrMediaNotFound = errors.New("no qualifying media asset")

// Asset is a candidate background clip returned by a search provider.
type Asset struct {
	URL      string
	Width    int
	Height   int
	Duration float64
}

// Searcher queries an external media provider for candidate assets.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Asset, error)
}

// Resolver maps a generated keyword to a usable media asset URL.
type Resolver interface {
	Resolve(ctx context.Context, keyword string) (string, error)
}

// SearchResolver picks the first search result that satisfies the
// portrait-format and minimum-height constraints of the target format.
type SearchResolver struct {
	searcher  Searcher
	minHeight int
	limit     int
}

func NewResolver(searcher Searcher, minHeight, limit int) *SearchResolver {
	return &SearchResolver{searcher: searcher, minHeight: minHeight, limit: limit}
}

func (r *SearchResolver) Resolve(ctx context.Context, keyword string) (string, error) {
	assets, err := r.searcher.Search(ctx, keyword, r.limit)
	if err != nil {
		return "", fmt.Errorf("search media for %q: %w", keyword, err)
	}

	for _, asset := range assets {
		if r.qualifies(asset) {
			return asset.URL, nil
		}
	}

	return "", fmt.Errorf("keyword %q: %w", keyword, ErrMediaNotFound)
}

func (r *SearchResolver) qualifies(asset Asset) bool {
	if asset.URL == "" {
		return false
	}
	if asset.Height < r.minHeight {
		return false
	}
	// Portrait only: short-form video is vertical.
	return asset.Height > asset.Width
}
