package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func TestNewIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexBook(t *testing.T) {
	index := setupTestIndex(t)

	err := index.IndexBook(&Document{
		ID:      "book-123",
		Title:   "The Hobbit",
		Authors: []string{"J.R.R. Tolkien"},
	})
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchByTitleAndAuthor(t *testing.T) {
	index := setupTestIndex(t)

	now := time.Now()
	books := []*domain.Book{
		{CreatedAt: now, ID: "book-1", Title: "The Left Hand of Darkness", Authors: []string{"Ursula K. Le Guin"}},
		{CreatedAt: now, ID: "book-2", Title: "The Dispossessed", Authors: []string{"Ursula K. Le Guin"}},
		{CreatedAt: now, ID: "book-3", Title: "Darkness Visible", Authors: []string{"William Golding"}},
	}
	docs := make([]*Document, len(books))
	for i, b := range books {
		docs[i] = BookToDocument(b)
	}
	require.NoError(t, index.IndexBooks(docs))

	// Title search.
	result, err := index.Search(context.Background(), Params{Query: "darkness", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)

	// Author search finds both Le Guin books.
	result, err = index.Search(context.Background(), Params{Query: "le guin", Limit: 10})
	require.NoError(t, err)
	ids := make(map[string]bool)
	for _, hit := range result.Hits {
		ids[hit.ID] = true
	}
	assert.True(t, ids["book-1"])
	assert.True(t, ids["book-2"])
}

func TestSearchReturnsStoredFields(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexBook(&Document{
		ID:      "book-1",
		Title:   "A Wizard of Earthsea",
		Authors: []string{"Ursula K. Le Guin"},
	}))

	result, err := index.Search(context.Background(), Params{Query: "earthsea", Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)

	hit := result.Hits[0]
	assert.Equal(t, "book-1", hit.ID)
	assert.Equal(t, "A Wizard of Earthsea", hit.Title)
	assert.Equal(t, []string{"Ursula K. Le Guin"}, hit.Authors)
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexBook(&Document{ID: "book-1", Title: "One"}))
	require.NoError(t, index.IndexBook(&Document{ID: "book-2", Title: "Two"}))

	result, err := index.Search(context.Background(), Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}
