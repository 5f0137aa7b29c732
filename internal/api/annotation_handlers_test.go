package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")
	ub := ts.addBook(t, token, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"content": "  the spice   must flow  ", "page_number": 87},
	)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "the spice must flow", created.Data.Content)
	require.NotNil(t, created.Data.PageNumber)
	assert.Equal(t, 87, *created.Data.PageNumber)

	resp = ts.api.Patch("/api/v1/notes/"+created.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"content": "fear is the mind-killer"},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeEnvelope[NoteResponse](t, resp.Body.Bytes())
	assert.Equal(t, "fear is the mind-killer", updated.Data.Content)
	assert.Nil(t, updated.Data.PageNumber)

	resp = ts.api.Get("/api/v1/collection/"+ub.ID+"/notes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	listed := decodeEnvelope[NoteListResponse](t, resp.Body.Bytes())
	require.Equal(t, 1, listed.Data.Total)

	resp = ts.api.Delete("/api/v1/notes/"+created.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/collection/"+ub.ID+"/notes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	listed = decodeEnvelope[NoteListResponse](t, resp.Body.Bytes())
	assert.Zero(t, listed.Data.Total)
}

func TestCreateNote_PageAnchorOutOfRange(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")
	ub := ts.addBook(t, token, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/notes",
		"Authorization: Bearer "+token,
		map[string]any{"content": "way past the end", "page_number": 9999},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestNotes_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice")
	bobToken, _ := ts.registerUser(t, "bob")
	ub := ts.addBook(t, aliceToken, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/notes",
		"Authorization: Bearer "+bobToken,
		map[string]any{"content": "not my book"},
	)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestQuoteLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")
	ub := ts.addBook(t, token, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/quotes",
		"Authorization: Bearer "+token,
		map[string]any{"content": "He who controls the spice controls the universe.", "page_number": 210},
	)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeEnvelope[QuoteResponse](t, resp.Body.Bytes())

	resp = ts.api.Get("/api/v1/collection/"+ub.ID+"/quotes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	listed := decodeEnvelope[QuoteListResponse](t, resp.Body.Bytes())
	require.Equal(t, 1, listed.Data.Total)
	assert.Equal(t, created.Data.ID, listed.Data.Quotes[0].ID)

	resp = ts.api.Delete("/api/v1/quotes/"+created.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestReviews_PublicFeed(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerUser(t, "alice")
	bobToken, _ := ts.registerUser(t, "bob")
	ub := ts.addBook(t, aliceToken, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/reviews",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"content": "A masterpiece of world-building.", "is_public": true},
	)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/collection/"+ub.ID+"/reviews",
		"Authorization: Bearer "+aliceToken,
		map[string]any{"content": "Private second thoughts.", "is_public": false},
	)
	require.Equal(t, http.StatusCreated, resp.Code)

	// Bob sees only the public review, with author and book context.
	resp = ts.api.Get("/api/v1/reviews/public", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	feed := decodeEnvelope[PublicReviewListResponse](t, resp.Body.Bytes())
	require.Equal(t, 1, feed.Data.Total)
	assert.Equal(t, "A masterpiece of world-building.", feed.Data.Reviews[0].Content)
	assert.Equal(t, "alice", feed.Data.Reviews[0].Username)
	assert.Equal(t, "Dune", feed.Data.Reviews[0].BookTitle)
}

func TestUpdateReview_TogglesVisibility(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")
	ub := ts.addBook(t, token, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/reviews",
		"Authorization: Bearer "+token,
		map[string]any{"content": "Loved it.", "is_public": true},
	)
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decodeEnvelope[ReviewResponse](t, resp.Body.Bytes())

	resp = ts.api.Patch("/api/v1/reviews/"+created.Data.ID,
		"Authorization: Bearer "+token,
		map[string]any{"content": "Loved it.", "is_public": false},
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decodeEnvelope[ReviewResponse](t, resp.Body.Bytes())
	assert.False(t, updated.Data.IsPublic)
}

func TestCreateReview_BlankContentRejected(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice")
	ub := ts.addBook(t, token, "Dune", 412)

	resp := ts.api.Post("/api/v1/collection/"+ub.ID+"/reviews",
		"Authorization: Bearer "+token,
		map[string]any{"content": "   ", "is_public": true},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
