package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/pagemarkapp/pagemark-server/internal/auth"
	"github.com/pagemarkapp/pagemark-server/internal/catalog/googlebooks"
	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/search"
	"github.com/pagemarkapp/pagemark-server/internal/service"
	"github.com/pagemarkapp/pagemark-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for unmarshaling in tests.
type testEnvelope[T any] struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *APIError `json:"error"`
}

// fakeCatalog serves canned volumes so handler tests never touch the
// network.
type fakeCatalog struct {
	volumes map[string]*domain.Book
	err     error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{volumes: make(map[string]*domain.Book)}
}

func (c *fakeCatalog) addVolume(googleID, title string, pageCount int) {
	c.volumes[googleID] = &domain.Book{
		GoogleBooksID: googleID,
		Title:         title,
		Authors:       []string{"Test Author"},
		PageCount:     pageCount,
		Language:      "en",
	}
}

func (c *fakeCatalog) Search(_ context.Context, query string, _ int) ([]*domain.Book, error) {
	if c.err != nil {
		return nil, c.err
	}
	var out []*domain.Book
	for _, b := range c.volumes {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(query)) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetVolume(_ context.Context, volumeID string) (*domain.Book, error) {
	if c.err != nil {
		return nil, c.err
	}
	b, ok := c.volumes[volumeID]
	if !ok {
		return nil, googlebooks.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api     humatest.TestAPI
	catalog *fakeCatalog
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(tmpDir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: tmpDir,
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(
		strings.Repeat("ab", 32),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	catalog := newFakeCatalog()

	shelfService := service.NewShelfService(st, logger)
	bookService := service.NewBookService(st, catalog, index, logger)
	collectionService := service.NewCollectionService(st, bookService, shelfService, logger)
	annotationService := service.NewAnnotationService(st, collectionService, logger)
	authService := service.NewAuthService(st, tokens, shelfService, logger)

	services := &Services{
		Auth:       authService,
		Book:       bookService,
		Collection: collectionService,
		Shelf:      shelfService,
		Annotation: annotationService,
	}

	s := NewServer(st, services, Options{CORSOrigins: []string{"*"}}, logger)
	// Wide limits so only the dedicated rate limit test trips them.
	s.authRateLimiter = NewRateLimiter(1000, time.Minute, 500)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		catalog: catalog,
	}
}

// registerUser creates an account via the API and returns an access
// token and the user ID.
func (ts *testServer) registerUser(t *testing.T, username string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.AccessToken, envelope.Data.User.ID
}

// addBook seeds a catalog volume and adds it to the user's collection,
// returning the collection entry.
func (ts *testServer) addBook(t *testing.T, token, title string, pageCount int) UserBookResponse {
	t.Helper()

	googleID := fmt.Sprintf("vol-%s-%d", strings.ReplaceAll(strings.ToLower(title), " ", "-"), pageCount)
	ts.catalog.addVolume(googleID, title, pageCount)

	resp := ts.api.Post("/api/v1/collection",
		"Authorization: Bearer "+token,
		map[string]any{"google_books_id": googleID},
	)
	require.Equal(t, http.StatusCreated, resp.Code, "add failed: %s", resp.Body.String())

	var envelope testEnvelope[UserBookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}
