package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

func (s *Server) registerCollectionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addToCollection",
		Method:        http.MethodPost,
		Path:          "/api/v1/collection",
		Summary:       "Add book to collection",
		Description:   "Resolves a Google Books volume and adds it to the authenticated user's collection",
		Tags:          []string{"Collection"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddToCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCollection",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection",
		Summary:     "List collection",
		Description: "Returns the user's collection, optionally filtered by reading status",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollectionEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection/{id}",
		Summary:     "Get collection entry",
		Description: "Returns a single entry from the user's collection",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollectionEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromCollection",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collection/{id}",
		Summary:     "Remove book from collection",
		Description: "Removes an entry along with its notes, quotes, reviews, sessions, and shelf memberships",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromCollection)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/collection/{id}/status",
		Summary:     "Update reading status",
		Description: "Sets the reading status. Moving to reading stamps the start date; moving to read completes progress.",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/collection/{id}/progress",
		Summary:     "Update reading progress",
		Description: "Sets the current page. Forward movement records a reading session; reaching the final page marks the book read.",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRating",
		Method:      http.MethodPut,
		Path:        "/api/v1/collection/{id}/rating",
		Summary:     "Rate book",
		Description: "Sets the 1-5 star rating",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearRating",
		Method:      http.MethodDelete,
		Path:        "/api/v1/collection/{id}/rating",
		Summary:     "Clear rating",
		Description: "Removes the star rating",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearRating)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logReadingSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/collection/{id}/sessions",
		Summary:       "Log reading session",
		Description:   "Records a reading sitting and advances progress when the session ends past the current page",
		Tags:          []string{"Collection"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleLogReadingSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadingSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/collection/{id}/sessions",
		Summary:     "List reading sessions",
		Description: "Returns the entry's reading sessions, newest first",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReadingSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCollectionStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Collection statistics",
		Description: "Returns aggregate statistics over the user's collection",
		Tags:        []string{"Collection"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCollectionStats)
}

// === DTOs ===

// AddToCollectionRequest is the request body for adding a book.
type AddToCollectionRequest struct {
	GoogleBooksID string `json:"google_books_id" validate:"required,max=64" doc:"Google Books volume ID"`
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=want_to_read reading read" doc:"Initial reading status, defaults to want_to_read" enum:"want_to_read,reading,read"`
}

// AddToCollectionInput wraps the add request for Huma.
type AddToCollectionInput struct {
	Body AddToCollectionRequest
}

// UserBookOutput wraps a single collection entry for Huma.
type UserBookOutput struct {
	Body UserBookResponse
}

// ListCollectionInput holds query parameters for listing the collection.
type ListCollectionInput struct {
	Status string `query:"status" doc:"Filter by reading status" enum:"want_to_read,reading,read"`
}

// UserBookListResponse contains a list of collection entries.
type UserBookListResponse struct {
	Books []UserBookResponse `json:"books" doc:"Collection entries"`
	Total int                `json:"total" doc:"Number of entries returned"`
}

// UserBookListOutput wraps a collection listing for Huma.
type UserBookListOutput struct {
	Body UserBookListResponse
}

// CollectionEntryInput holds the path parameter shared by entry routes.
type CollectionEntryInput struct {
	ID string `path:"id" doc:"Collection entry ID"`
}

// UpdateStatusRequest is the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=want_to_read reading read" doc:"New reading status" enum:"want_to_read,reading,read"`
}

// UpdateStatusInput wraps the status change for Huma.
type UpdateStatusInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body UpdateStatusRequest
}

// UpdateProgressRequest is the request body for a progress update.
type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" validate:"min=0" doc:"New reading position, 0 through the book's page count"`
}

// UpdateProgressInput wraps the progress update for Huma.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body UpdateProgressRequest
}

// UpdateRatingRequest is the request body for a rating change.
type UpdateRatingRequest struct {
	Rating int `json:"rating" validate:"min=1,max=5" doc:"Star rating 1-5"`
}

// UpdateRatingInput wraps the rating change for Huma.
type UpdateRatingInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body UpdateRatingRequest
}

// LogSessionRequest is the request body for logging a reading session.
type LogSessionRequest struct {
	StartPage  int       `json:"start_page" validate:"min=0" doc:"Page the session started on"`
	EndPage    int       `json:"end_page" validate:"min=0" doc:"Page the session ended on"`
	StartedAt  time.Time `json:"started_at" doc:"When the session started"`
	FinishedAt time.Time `json:"finished_at" doc:"When the session ended"`
	Notes      string    `json:"notes,omitempty" validate:"max=2000" doc:"Optional session notes"`
}

// LogSessionInput wraps the session log for Huma.
type LogSessionInput struct {
	ID   string `path:"id" doc:"Collection entry ID"`
	Body LogSessionRequest
}

// SessionResponse contains a reading session in API responses.
type SessionResponse struct {
	ID         string    `json:"id" doc:"Session ID"`
	UserBookID string    `json:"user_book_id" doc:"Collection entry ID"`
	StartPage  int       `json:"start_page" doc:"Page the session started on"`
	EndPage    int       `json:"end_page" doc:"Page the session ended on"`
	PagesRead  int       `json:"pages_read" doc:"Pages covered in this session"`
	StartedAt  time.Time `json:"started_at" doc:"When the session started"`
	FinishedAt time.Time `json:"finished_at" doc:"When the session ended"`
	Notes      string    `json:"notes,omitempty" doc:"Session notes"`
	CreatedAt  time.Time `json:"created_at" doc:"When the session was recorded"`
}

// SessionOutput wraps a single session for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// SessionListResponse contains a list of reading sessions.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Reading sessions, newest first"`
	Total    int               `json:"total" doc:"Number of sessions returned"`
}

// SessionListOutput wraps a session listing for Huma.
type SessionListOutput struct {
	Body SessionListResponse
}

// StatsOutput wraps collection statistics for Huma.
type StatsOutput struct {
	Body domain.CollectionStats
}

// === Handlers ===

func (s *Server) handleAddToCollection(ctx context.Context, input *AddToCollectionInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.Add(ctx, userID, input.Body.GoogleBooksID, domain.ReadingStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleListCollection(ctx context.Context, input *ListCollectionInput) (*UserBookListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Collection.List(ctx, userID, domain.ReadingStatus(input.Status))
	if err != nil {
		return nil, err
	}

	return &UserBookListOutput{Body: UserBookListResponse{
		Books: mapUserBookResponses(books),
		Total: len(books),
	}}, nil
}

func (s *Server) handleGetCollectionEntry(ctx context.Context, input *CollectionEntryInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleRemoveFromCollection(ctx context.Context, input *CollectionEntryInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Collection.Remove(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book removed from collection"}}, nil
}

func (s *Server) handleUpdateStatus(ctx context.Context, input *UpdateStatusInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.SetStatus(ctx, userID, input.ID, domain.ReadingStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.UpdateProgress(ctx, userID, input.ID, input.Body.CurrentPage)
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleUpdateRating(ctx context.Context, input *UpdateRatingInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.SetRating(ctx, userID, input.ID, &input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleClearRating(ctx context.Context, input *CollectionEntryInput) (*UserBookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ub, err := s.services.Collection.SetRating(ctx, userID, input.ID, nil)
	if err != nil {
		return nil, err
	}

	return &UserBookOutput{Body: mapUserBookResponse(ub)}, nil
}

func (s *Server) handleLogReadingSession(ctx context.Context, input *LogSessionInput) (*SessionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	session, err := s.services.Collection.LogSession(ctx, userID, &domain.ReadingSession{
		UserBookID: input.ID,
		StartPage:  input.Body.StartPage,
		EndPage:    input.Body.EndPage,
		StartedAt:  input.Body.StartedAt,
		FinishedAt: input.Body.FinishedAt,
		Notes:      input.Body.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: mapSessionResponse(session)}, nil
}

func (s *Server) handleListReadingSessions(ctx context.Context, input *CollectionEntryInput) (*SessionListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Collection.ListSessions(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		out[i] = mapSessionResponse(sess)
	}

	return &SessionListOutput{Body: SessionListResponse{
		Sessions: out,
		Total:    len(out),
	}}, nil
}

func (s *Server) handleGetCollectionStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Collection.Statistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Body: *stats}, nil
}

func mapSessionResponse(sess *domain.ReadingSession) SessionResponse {
	return SessionResponse{
		ID:         sess.ID,
		UserBookID: sess.UserBookID,
		StartPage:  sess.StartPage,
		EndPage:    sess.EndPage,
		PagesRead:  sess.PagesRead(),
		StartedAt:  sess.StartedAt,
		FinishedAt: sess.FinishedAt,
		Notes:      sess.Notes,
		CreatedAt:  sess.CreatedAt,
	}
}
