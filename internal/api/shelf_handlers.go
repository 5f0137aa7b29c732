package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createShelf",
		Method:        http.MethodPost,
		Path:          "/api/v1/shelves",
		Summary:       "Create shelf",
		Description:   "Creates a named shelf. Names are unique per user, compared case-insensitively.",
		Tags:          []string{"Shelves"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelves",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves",
		Summary:     "List shelves",
		Description: "Returns all of the user's shelves with book counts",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelves)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Get shelf",
		Description: "Returns a single shelf",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameShelf",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Rename shelf",
		Description: "Renames a shelf. The default shelf cannot be renamed.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Delete shelf",
		Description: "Deletes a shelf, leaving its books in the collection. The default shelf cannot be deleted.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteShelf)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBookToShelf",
		Method:        http.MethodPost,
		Path:          "/api/v1/shelves/{id}/books",
		Summary:       "Add book to shelf",
		Description:   "Places a collection entry on the shelf",
		Tags:          []string{"Shelves"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBookToShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookFromShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelves/{id}/books/{userBookId}",
		Summary:     "Remove book from shelf",
		Description: "Removes a collection entry from the shelf without touching the collection",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveBookFromShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelfBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{id}/books",
		Summary:     "List shelf books",
		Description: "Returns the collection entries on the shelf",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelfBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelfAvailableBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{id}/available",
		Summary:     "List books not on shelf",
		Description: "Returns the user's collection entries that are not yet on the shelf",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelfAvailableBooks)
}

// === DTOs ===

// CreateShelfRequest is the request body for shelf creation.
type CreateShelfRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Shelf name, unique per user"`
}

// CreateShelfInput wraps the create request for Huma.
type CreateShelfInput struct {
	Body CreateShelfRequest
}

// ShelfOutput wraps a single shelf for Huma.
type ShelfOutput struct {
	Body ShelfResponse
}

// ShelfListResponse contains a list of shelves.
type ShelfListResponse struct {
	Shelves []ShelfResponse `json:"shelves" doc:"The user's shelves"`
	Total   int             `json:"total" doc:"Number of shelves returned"`
}

// ShelfListOutput wraps a shelf listing for Huma.
type ShelfListOutput struct {
	Body ShelfListResponse
}

// ShelfIDInput holds the path parameter shared by shelf routes.
type ShelfIDInput struct {
	ID string `path:"id" doc:"Shelf ID"`
}

// RenameShelfRequest is the request body for renaming a shelf.
type RenameShelfRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"New shelf name"`
}

// RenameShelfInput wraps the rename request for Huma.
type RenameShelfInput struct {
	ID   string `path:"id" doc:"Shelf ID"`
	Body RenameShelfRequest
}

// AddShelfBookRequest is the request body for placing a book on a shelf.
type AddShelfBookRequest struct {
	UserBookID string `json:"user_book_id" validate:"required" doc:"Collection entry ID"`
}

// AddShelfBookInput wraps the membership request for Huma.
type AddShelfBookInput struct {
	ID   string `path:"id" doc:"Shelf ID"`
	Body AddShelfBookRequest
}

// RemoveShelfBookInput holds path parameters for removing a membership.
type RemoveShelfBookInput struct {
	ID         string `path:"id" doc:"Shelf ID"`
	UserBookID string `path:"userBookId" doc:"Collection entry ID"`
}

// === Handlers ===

func (s *Server) handleCreateShelf(ctx context.Context, input *CreateShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.CreateShelf(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleListShelves(ctx context.Context, _ *struct{}) (*ShelfListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelves, err := s.services.Shelf.ListShelves(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ShelfResponse, len(shelves))
	for i, sh := range shelves {
		out[i] = mapShelfResponse(sh)
	}

	return &ShelfListOutput{Body: ShelfListResponse{
		Shelves: out,
		Total:   len(out),
	}}, nil
}

func (s *Server) handleGetShelf(ctx context.Context, input *ShelfIDInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.GetShelf(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleRenameShelf(ctx context.Context, input *RenameShelfInput) (*ShelfOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	shelf, err := s.services.Shelf.RenameShelf(ctx, userID, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &ShelfOutput{Body: mapShelfResponse(shelf)}, nil
}

func (s *Server) handleDeleteShelf(ctx context.Context, input *ShelfIDInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.DeleteShelf(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Shelf deleted"}}, nil
}

func (s *Server) handleAddBookToShelf(ctx context.Context, input *AddShelfBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	if err := s.services.Shelf.AddBook(ctx, userID, input.ID, input.Body.UserBookID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book added to shelf"}}, nil
}

func (s *Server) handleRemoveBookFromShelf(ctx context.Context, input *RemoveShelfBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelf.RemoveBook(ctx, userID, input.ID, input.UserBookID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book removed from shelf"}}, nil
}

func (s *Server) handleListShelfBooks(ctx context.Context, input *ShelfIDInput) (*UserBookListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Shelf.ListBooks(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserBookListOutput{Body: UserBookListResponse{
		Books: mapUserBookResponses(books),
		Total: len(books),
	}}, nil
}

func (s *Server) handleListShelfAvailableBooks(ctx context.Context, input *ShelfIDInput) (*UserBookListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Shelf.ListAvailableBooks(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserBookListOutput{Body: UserBookListResponse{
		Books: mapUserBookResponses(books),
		Total: len(books),
	}}, nil
}
