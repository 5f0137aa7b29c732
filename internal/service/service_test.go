package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pagemarkapp/pagemark-server/internal/auth"
	"github.com/pagemarkapp/pagemark-server/internal/catalog/googlebooks"
	"github.com/pagemarkapp/pagemark-server/internal/domain"
	"github.com/pagemarkapp/pagemark-server/internal/search"
	"github.com/pagemarkapp/pagemark-server/internal/store"
	"github.com/pagemarkapp/pagemark-server/internal/store/sqlite"
)

// stubCatalog is an in-memory Catalog so tests never touch the real
// upstream. Set err to simulate an outage.
type stubCatalog struct {
	volumes  map[string]*domain.Book
	err      error
	getCalls int
}

func (c *stubCatalog) Search(ctx context.Context, query string, limit int) ([]*domain.Book, error) {
	if c.err != nil {
		return nil, c.err
	}
	var results []*domain.Book
	for _, b := range c.volumes {
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(query)) {
			results = append(results, b)
		}
	}
	return results, nil
}

func (c *stubCatalog) GetVolume(ctx context.Context, volumeID string) (*domain.Book, error) {
	c.getCalls++
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

// addVolume registers a stub catalog volume.
func (c *stubCatalog) addVolume(googleID, title string, pageCount int) {
	now := time.Now()
	c.volumes[googleID] = &domain.Book{
		CreatedAt:     now,
		UpdatedAt:     now,
		GoogleBooksID: googleID,
		Title:         title,
		Authors:       []string{"Test Author"},
		PageCount:     pageCount,
	}
}

// testEnv bundles every service over one temporary store and index.
type testEnv struct {
	store       store.Store
	catalog     *stubCatalog
	books       *BookService
	shelves     *ShelfService
	collection  *CollectionService
	annotations *AnnotationService
	auth        *AuthService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewIndex(search.Options{
		DataPath: tmpDir,
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	catalog := &stubCatalog{volumes: make(map[string]*domain.Book)}
	books := NewBookService(s, catalog, index, logger)
	shelves := NewShelfService(s, logger)
	collection := NewCollectionService(s, books, shelves, logger)
	annotations := NewAnnotationService(s, collection, logger)
	authService := NewAuthService(s, tokens, shelves, logger)

	return &testEnv{
		store:       s,
		catalog:     catalog,
		books:       books,
		shelves:     shelves,
		collection:  collection,
		annotations: annotations,
		auth:        authService,
	}
}

func timeMustParse(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

// registerTestUser runs the normal registration flow, which also
// provisions the default shelf.
func registerTestUser(t *testing.T, env *testEnv, username string) *domain.User {
	t.Helper()

	user, _, err := env.auth.Register(context.Background(), username, username+"@example.com", "correct horse battery")
	require.NoError(t, err)
	return user
}

// addTestBook seeds a catalog volume and adds it to the user's
// collection.
func addTestBook(t *testing.T, env *testEnv, userID, title string, pageCount int) *domain.UserBook {
	t.Helper()

	googleID := fmt.Sprintf("vol-%s-%d", strings.ReplaceAll(strings.ToLower(title), " ", "-"), pageCount)
	env.catalog.addVolume(googleID, title, pageCount)

	ub, err := env.collection.Add(context.Background(), userID, googleID, domain.StatusWantToRead)
	require.NoError(t, err)
	return ub
}
