// Package recommend produces follow-up video suggestions from the
// user's liked videos. The strategy is injectable so the heuristic can
// be replaced without touching the rest of the system.
package recommend

import (
	"context"
	"log"
	"strings"

	"ytbridge/youtube"
)

// Strategy produces up to limit recommended videos.
type Strategy interface {
	Recommend(ctx context.Context, limit int) ([]youtube.Video, error)
}

// LikedLister lists the user's liked videos.
type LikedLister interface {
	Liked(ctx context.Context, limit int64) ([]youtube.Video, error)
}

// Searcher runs a video search.
type Searcher interface {
	Search(ctx context.Context, query string, limit int64) ([]youtube.Video, error)
}

const (
	defaultSeedLimit   = 10
	defaultQueryTokens = 4
	defaultPerQuery    = 3
)

// KeywordStrategy derives a search query from the leading words of each
// liked video's title and merges the results.
type KeywordStrategy struct {
	Liked  LikedLister
	Search Searcher

	// SeedLimit is how many liked videos seed the queries (default 10).
	SeedLimit int64
	// QueryTokens is how many leading title words form a query (default 4).
	QueryTokens int
	// PerQuery is how many results each query contributes (default 3).
	PerQuery int64
}

// NewKeywordStrategy creates the default keyword strategy over the
// given liked-video and search sources.
func NewKeywordStrategy(liked LikedLister, search Searcher) *KeywordStrategy {
	return &KeywordStrategy{
		Liked:       liked,
		Search:      search,
		SeedLimit:   defaultSeedLimit,
		QueryTokens: defaultQueryTokens,
		PerQuery:    defaultPerQuery,
	}
}

// Recommend fetches liked videos, searches on the leading words of each
// title, and returns the merged results deduplicated by video id in
// seed order, truncated to limit. A failure listing liked videos is
// propagated; a failed individual search only drops that query.
func (s *KeywordStrategy) Recommend(ctx context.Context, limit int) ([]youtube.Video, error) {
	liked, err := s.Liked.Liked(ctx, s.SeedLimit)
	if err != nil {
		return nil, err
	}

	var merged []youtube.Video
	for _, seed := range liked {
		query := leadingWords(seed.Title, s.QueryTokens)
		if query == "" {
			continue
		}

		results, err := s.Search.Search(ctx, query, s.PerQuery)
		if err != nil {
			log.Printf("recommend: search %q failed, skipping: %v", query, err)
			continue
		}
		merged = append(merged, results...)
	}

	seen := make(map[string]bool, len(merged))
	unique := make([]youtube.Video, 0, limit)
	for _, v := range merged {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		unique = append(unique, v)
		if len(unique) >= limit {
			break
		}
	}

	return unique, nil
}

// leadingWords joins the first n whitespace-separated tokens of title.
func leadingWords(title string, n int) string {
	tokens := strings.Fields(title)
	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return strings.Join(tokens, " ")
}
