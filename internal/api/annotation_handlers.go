package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

func (s *Server) registerAnnotationRoutes() {
	// Notes
	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/v1/collection/{id}/notes",
		Summary:       "Create note",
		Description:   "Attaches a note to a collection entry, optionally anchored to a page",
		Tags:          []string{"Annotations"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection/{id}/notes",
		Summary:     "List notes",
		Description: "Returns the entry's notes in creation order",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Update note",
		Description: "Rewrites a note's content and page anchor",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notes/{id}",
		Summary:     "Delete note",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteNote)

	// Quotes
	huma.Register(s.api, huma.Operation{
		OperationID:   "createQuote",
		Method:        http.MethodPost,
		Path:          "/api/v1/collection/{id}/quotes",
		Summary:       "Create quote",
		Description:   "Captures a passage from a collection entry, optionally anchored to a page",
		Tags:          []string{"Annotations"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "listQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection/{id}/quotes",
		Summary:     "List quotes",
		Description: "Returns the entry's quotes in creation order",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateQuote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Update quote",
		Description: "Rewrites a quote's content and page anchor",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteQuote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Delete quote",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteQuote)

	// Reviews
	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/collection/{id}/reviews",
		Summary:       "Create review",
		Description:   "Writes a review for a collection entry. Public reviews are visible to other users.",
		Tags:          []string{"Annotations"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection/{id}/reviews",
		Summary:     "List reviews",
		Description: "Returns the entry's reviews in creation order",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Update review",
		Description: "Rewrites a review's content and visibility",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reviews/{id}",
		Summary:     "Delete review",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPublicReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/reviews/public",
		Summary:     "List public reviews",
		Description: "Returns public reviews from all users, newest first",
		Tags:        []string{"Annotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPublicReviews)
}

// === DTOs ===

// AnnotationRequest is the request body shared by note and quote
// creation and updates.
type AnnotationRequest struct {
	Content    string `json:"content" validate:"required,max=10000" doc:"Annotation text"`
	PageNumber *int   `json:"page_number,omitempty" validate:"omitempty,min=0" doc:"Optional page anchor"`
}

// CreateAnnotationInput wraps an annotation creation for Huma.
type CreateAnnotationInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body AnnotationRequest
}

// UpdateAnnotationInput wraps an annotation update for Huma.
type UpdateAnnotationInput struct {
	ID   string `path:"id" doc:"Annotation ID"`
	Body AnnotationRequest
}

// AnnotationIDInput holds the path parameter for annotation routes.
type AnnotationIDInput struct {
	ID string `path:"id" doc:"Annotation ID"`
}

// NoteResponse contains a note in API responses.
type NoteResponse struct {
	ID         string    `json:"id" doc:"Note ID"`
	UserBookID string    `json:"user_book_id" doc:"Collection entry ID"`
	Content    string    `json:"content" doc:"Note text"`
	PageNumber *int      `json:"page_number,omitempty" doc:"Page anchor"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// NoteListResponse contains a list of notes.
type NoteListResponse struct {
	Notes []NoteResponse `json:"notes" doc:"Notes in creation order"`
	Total int            `json:"total" doc:"Number of notes returned"`
}

// NoteListOutput wraps a note listing for Huma.
type NoteListOutput struct {
	Body NoteListResponse
}

// QuoteResponse contains a quote in API responses.
type QuoteResponse struct {
	ID         string    `json:"id" doc:"Quote ID"`
	UserBookID string    `json:"user_book_id" doc:"Collection entry ID"`
	Content    string    `json:"content" doc:"Quoted passage"`
	PageNumber *int      `json:"page_number,omitempty" doc:"Page anchor"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
}

// QuoteOutput wraps a single quote for Huma.
type QuoteOutput struct {
	Body QuoteResponse
}

// QuoteListResponse contains a list of quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes" doc:"Quotes in creation order"`
	Total  int             `json:"total" doc:"Number of quotes returned"`
}

// QuoteListOutput wraps a quote listing for Huma.
type QuoteListOutput struct {
	Body QuoteListResponse
}

// ReviewRequest is the request body for review creation and updates.
type ReviewRequest struct {
	Content  string `json:"content" validate:"required,max=20000" doc:"Review text"`
	IsPublic bool   `json:"is_public" doc:"Whether other users can read this review"`
}

// CreateReviewInput wraps a review creation for Huma.
type CreateReviewInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body ReviewRequest
}

// UpdateReviewInput wraps a review update for Huma.
type UpdateReviewInput struct {
	ID   string `path:"id" doc:"Review ID"`
	Body ReviewRequest
}

// ReviewResponse contains a review in API responses.
type ReviewResponse struct {
	ID         string    `json:"id" doc:"Review ID"`
	UserBookID string    `json:"user_book_id" doc:"Collection entry ID"`
	Content    string    `json:"content" doc:"Review text"`
	IsPublic   bool      `json:"is_public" doc:"Whether other users can read this review"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
}

// ReviewOutput wraps a single review for Huma.
type ReviewOutput struct {
	Body ReviewResponse
}

// ReviewListResponse contains a list of reviews.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews" doc:"Reviews in creation order"`
	Total   int              `json:"total" doc:"Number of reviews returned"`
}

// ReviewListOutput wraps a review listing for Huma.
type ReviewListOutput struct {
	Body ReviewListResponse
}

// PublicReviewResponse contains a cross-user review projection.
type PublicReviewResponse struct {
	ID        string    `json:"id" doc:"Review ID"`
	Content   string    `json:"content" doc:"Review text"`
	Username  string    `json:"username" doc:"Author's username"`
	BookID    string    `json:"book_id" doc:"Registry book ID"`
	BookTitle string    `json:"book_title" doc:"Book title"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// PublicReviewsInput holds query parameters for the public review feed.
type PublicReviewsInput struct {
	Limit  int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum results"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Results to skip"`
}

// PublicReviewListResponse contains a page of public reviews.
type PublicReviewListResponse struct {
	Reviews []PublicReviewResponse `json:"reviews" doc:"Public reviews, newest first"`
	Total   int                    `json:"total" doc:"Number of reviews returned"`
}

// PublicReviewListOutput wraps the public review feed for Huma.
type PublicReviewListOutput struct {
	Body PublicReviewListResponse
}

// === Note handlers ===

func (s *Server) handleCreateNote(ctx context.Context, input *CreateAnnotationInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Annotation.CreateNote(ctx, userID, input.ID, input.Body.Content, input.Body.PageNumber)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleListNotes(ctx context.Context, input *CollectionEntryInput) (*NoteListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.services.Annotation.ListNotes(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = mapNoteResponse(n)
	}
	return &NoteListOutput{Body: NoteListResponse{Notes: out, Total: len(out)}}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateAnnotationInput) (*NoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Annotation.UpdateNote(ctx, userID, input.ID, input.Body.Content, input.Body.PageNumber)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *AnnotationIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Note deleted"}}, nil
}

// === Quote handlers ===

func (s *Server) handleCreateQuote(ctx context.Context, input *CreateAnnotationInput) (*QuoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	quote, err := s.services.Annotation.CreateQuote(ctx, userID, input.ID, input.Body.Content, input.Body.PageNumber)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: mapQuoteResponse(quote)}, nil
}

func (s *Server) handleListQuotes(ctx context.Context, input *CollectionEntryInput) (*QuoteListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	quotes, err := s.services.Annotation.ListQuotes(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = mapQuoteResponse(q)
	}
	return &QuoteListOutput{Body: QuoteListResponse{Quotes: out, Total: len(out)}}, nil
}

func (s *Server) handleUpdateQuote(ctx context.Context, input *UpdateAnnotationInput) (*QuoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	quote, err := s.services.Annotation.UpdateQuote(ctx, userID, input.ID, input.Body.Content, input.Body.PageNumber)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: mapQuoteResponse(quote)}, nil
}

func (s *Server) handleDeleteQuote(ctx context.Context, input *AnnotationIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.DeleteQuote(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Quote deleted"}}, nil
}

// === Review handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Annotation.CreateReview(ctx, userID, input.ID, input.Body.Content, input.Body.IsPublic)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleListReviews(ctx context.Context, input *CollectionEntryInput) (*ReviewListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	reviews, err := s.services.Annotation.ListReviews(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = mapReviewResponse(r)
	}
	return &ReviewListOutput{Body: ReviewListResponse{Reviews: out, Total: len(out)}}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*ReviewOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	review, err := s.services.Annotation.UpdateReview(ctx, userID, input.ID, input.Body.Content, input.Body.IsPublic)
	if err != nil {
		return nil, err
	}
	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *AnnotationIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Annotation.DeleteReview(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Review deleted"}}, nil
}

func (s *Server) handleListPublicReviews(ctx context.Context, input *PublicReviewsInput) (*PublicReviewListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	reviews, err := s.services.Annotation.ListPublicReviews(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	out := make([]PublicReviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = PublicReviewResponse{
			ID:        r.ID,
			Content:   r.Content,
			Username:  r.Username,
			BookID:    r.BookID,
			BookTitle: r.BookTitle,
			CreatedAt: r.CreatedAt,
		}
	}
	return &PublicReviewListOutput{Body: PublicReviewListResponse{Reviews: out, Total: len(out)}}, nil
}

func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:         n.ID,
		UserBookID: n.UserBookID,
		Content:    n.Content,
		PageNumber: n.PageNumber,
		CreatedAt:  n.CreatedAt,
	}
}

func mapQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:         q.ID,
		UserBookID: q.UserBookID,
		Content:    q.Content,
		PageNumber: q.PageNumber,
		CreatedAt:  q.CreatedAt,
	}
}

func mapReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserBookID: r.UserBookID,
		Content:    r.Content,
		IsPublic:   r.IsPublic,
		CreatedAt:  r.CreatedAt,
	}
}
