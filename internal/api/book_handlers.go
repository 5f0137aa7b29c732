package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pagemarkapp/pagemark-server/internal/search"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search the Google Books catalog",
		Description: "Queries the external catalog. Results are not persisted until a book is added to a collection.",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search the local registry",
		Description: "Full-text search over books already known to this server",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a registry book by its internal ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)
}

// === DTOs ===

// CatalogSearchInput holds query parameters for a catalog search.
type CatalogSearchInput struct {
	Query string `query:"q" required:"true" doc:"Search query"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"40" doc:"Maximum results"`
}

// CatalogSearchResponse contains catalog search results.
type CatalogSearchResponse struct {
	Query string          `json:"query" doc:"The query that was executed"`
	Books []*BookResponse `json:"books" doc:"Matching catalog volumes"`
}

// CatalogSearchOutput wraps catalog search results for Huma.
type CatalogSearchOutput struct {
	Body CatalogSearchResponse
}

// LocalSearchInput holds query parameters for a registry search.
type LocalSearchInput struct {
	Query  string `query:"q" required:"true" doc:"Search query"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum results"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Results to skip"`
}

// LocalSearchOutput wraps registry search results for Huma.
type LocalSearchOutput struct {
	Body search.Result
}

// GetBookInput holds the path parameter for a book lookup.
type GetBookInput struct {
	ID string `path:"id" doc:"Internal book ID"`
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// === Handlers ===

func (s *Server) handleSearchCatalog(ctx context.Context, input *CatalogSearchInput) (*CatalogSearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	books, err := s.services.Book.SearchCatalog(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]*BookResponse, len(books))
	for i, b := range books {
		results[i] = mapBookResponse(b)
	}

	return &CatalogSearchOutput{Body: CatalogSearchResponse{
		Query: input.Query,
		Books: results,
	}}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *LocalSearchInput) (*LocalSearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	params := search.DefaultParams()
	params.Query = input.Query
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	result, err := s.services.Book.SearchLocal(ctx, params)
	if err != nil {
		return nil, err
	}

	return &LocalSearchOutput{Body: *result}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: *mapBookResponse(book)}, nil
}
