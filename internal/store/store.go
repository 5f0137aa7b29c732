// Package store defines the persistence interface for the Pagemark server.
package store

import (
	"context"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Operations that act on user-owned rows (user books, shelves, annotations)
// take the owning user's ID and scope their queries to it, so a lookup of
// another user's row reports ErrNotFound rather than revealing its existence.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	CreateUserWithShelf(ctx context.Context, user *domain.User, shelf *domain.Shelf) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Auth Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Book registry
	UpsertBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByGoogleID(ctx context.Context, googleBooksID string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)

	// User books
	CreateUserBook(ctx context.Context, ub *domain.UserBook) error
	GetUserBook(ctx context.Context, userID, id string) (*domain.UserBook, error)
	GetUserBookByBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error)
	UpdateUserBook(ctx context.Context, ub *domain.UserBook) error
	DeleteUserBook(ctx context.Context, userID, id string) error
	ListUserBooks(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.UserBook, error)

	// Shelves
	CreateShelf(ctx context.Context, shelf *domain.Shelf) error
	GetShelf(ctx context.Context, ownerID, id string) (*domain.Shelf, error)
	GetDefaultShelf(ctx context.Context, ownerID string) (*domain.Shelf, error)
	ListShelves(ctx context.Context, ownerID string) ([]*domain.Shelf, error)
	UpdateShelf(ctx context.Context, shelf *domain.Shelf) error
	DeleteShelf(ctx context.Context, ownerID, id string) error

	// Shelf membership
	AddBookToShelf(ctx context.Context, shelfID, userBookID string) error
	RemoveBookFromShelf(ctx context.Context, shelfID, userBookID string) error
	ListShelfBooks(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error)
	ListAvailableForShelf(ctx context.Context, ownerID, shelfID string) ([]*domain.UserBook, error)

	// Notes
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, userID, id string) (*domain.Note, error)
	UpdateNote(ctx context.Context, note *domain.Note) error
	DeleteNote(ctx context.Context, userID, id string) error
	ListNotes(ctx context.Context, userID, userBookID string) ([]*domain.Note, error)

	// Quotes
	CreateQuote(ctx context.Context, quote *domain.Quote) error
	GetQuote(ctx context.Context, userID, id string) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, quote *domain.Quote) error
	DeleteQuote(ctx context.Context, userID, id string) error
	ListQuotes(ctx context.Context, userID, userBookID string) ([]*domain.Quote, error)

	// Reviews
	CreateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, userID, id string) (*domain.Review, error)
	UpdateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, userID, id string) error
	ListReviews(ctx context.Context, userID, userBookID string) ([]*domain.Review, error)
	ListPublicReviews(ctx context.Context, limit, offset int) ([]*domain.PublicReview, error)

	// Reading sessions
	CreateReadingSession(ctx context.Context, session *domain.ReadingSession) error
	ListReadingSessions(ctx context.Context, userID, userBookID string) ([]*domain.ReadingSession, error)

	// Statistics
	GetCollectionStats(ctx context.Context, userID string) (*domain.CollectionStats, error)
}
