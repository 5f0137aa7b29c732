package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string

	// Pagination
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{Limit: 20}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is a single matched book.
type Hit struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
}

// Search executes a query against the registry index.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchRequest := bleve.NewSearchRequestOptions(
		buildSearchQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "title", "authors"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{ID: hit.ID, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			h.Title = title
		}
		// Bleve returns a bare string for single-element arrays.
		switch authors := hit.Fields["authors"].(type) {
		case string:
			h.Authors = []string{authors}
		case []interface{}:
			for _, a := range authors {
				if name, ok := a.(string); ok {
					h.Authors = append(h.Authors, name)
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query: title matches boosted over
// author matches, with fuzzy and prefix fallbacks for typos and
// autocomplete.
func buildSearchQuery(params Params) query.Query {
	if params.Query == "" {
		return bleve.NewMatchAllQuery()
	}

	var queries []query.Query

	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	queries = append(queries, titleMatch)

	authorMatch := bleve.NewMatchQuery(params.Query)
	authorMatch.SetField("authors")
	authorMatch.SetBoost(2.0)
	queries = append(queries, authorMatch)

	categoryMatch := bleve.NewMatchQuery(params.Query)
	categoryMatch.SetField("categories")
	categoryMatch.SetBoost(0.5)
	queries = append(queries, categoryMatch)

	fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)
	queries = append(queries, fuzzyQuery)

	if len(params.Query) >= 2 {
		prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(0.5)
		queries = append(queries, prefixQuery)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
