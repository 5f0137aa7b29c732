package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
)

func TestCreateNote(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	page := 42
	note, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "  the spice   must flow  ", &page)
	require.NoError(t, err)

	assert.Equal(t, "the spice must flow", note.Content, "content is whitespace-normalized")
	require.NotNil(t, note.PageNumber)
	assert.Equal(t, 42, *note.PageNumber)
}

func TestCreateNote_BlankContentRejected(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "   ", nil)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestCreateNote_PageAnchorOutOfRange(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	page := 9999
	_, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "margin note", &page)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestNotes_ScopedToOwner(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	alice := registerTestUser(t, env, "alice")
	bob := registerTestUser(t, env, "bob")
	ub := addTestBook(t, env, alice.ID, "Dune", 412)

	note, err := env.annotations.CreateNote(ctx, alice.ID, ub.ID, "private thought", nil)
	require.NoError(t, err)

	_, err = env.annotations.GetNote(ctx, bob.ID, note.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	err = env.annotations.DeleteNote(ctx, bob.ID, note.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// Still there for the owner.
	_, err = env.annotations.GetNote(ctx, alice.ID, note.ID)
	require.NoError(t, err)
}

func TestUpdateNote(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	note, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "first draft", nil)
	require.NoError(t, err)

	page := 10
	updated, err := env.annotations.UpdateNote(ctx, user.ID, note.ID, "second draft", &page)
	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Content)
	require.NotNil(t, updated.PageNumber)
	assert.Equal(t, 10, *updated.PageNumber)
}

func TestListNotes(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "one", nil)
	require.NoError(t, err)
	_, err = env.annotations.CreateNote(ctx, user.ID, ub.ID, "two", nil)
	require.NoError(t, err)

	notes, err := env.annotations.ListNotes(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	// oldest note first
	assert.Equal(t, "one", notes[0].Content)
	assert.Equal(t, "two", notes[1].Content)
}

func TestQuoteLifecycle(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	page := 1
	quote, err := env.annotations.CreateQuote(ctx, user.ID, ub.ID, "Fear is the mind-killer.", &page)
	require.NoError(t, err)

	updated, err := env.annotations.UpdateQuote(ctx, user.ID, quote.ID, "I must not fear.", &page)
	require.NoError(t, err)
	assert.Equal(t, "I must not fear.", updated.Content)

	quotes, err := env.annotations.ListQuotes(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	require.Len(t, quotes, 1)

	require.NoError(t, env.annotations.DeleteQuote(ctx, user.ID, quote.ID))
	_, err = env.annotations.GetQuote(ctx, user.ID, quote.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestReviews_MultiplePerBook(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.annotations.CreateReview(ctx, user.ID, ub.ID, "First read: loved it.", false)
	require.NoError(t, err)
	_, err = env.annotations.CreateReview(ctx, user.ID, ub.ID, "Re-read ten years on: still holds up.", true)
	require.NoError(t, err)

	reviews, err := env.annotations.ListReviews(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestUpdateReview_TogglesVisibility(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	review, err := env.annotations.CreateReview(ctx, user.ID, ub.ID, "A masterpiece.", false)
	require.NoError(t, err)
	assert.False(t, review.IsPublic)

	updated, err := env.annotations.UpdateReview(ctx, user.ID, review.ID, "A masterpiece.", true)
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
}

func TestListPublicReviews(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	alice := registerTestUser(t, env, "alice")
	bob := registerTestUser(t, env, "bob")
	ubAlice := addTestBook(t, env, alice.ID, "Dune", 412)
	ubBob := addTestBook(t, env, bob.ID, "Hyperion", 482)

	_, err := env.annotations.CreateReview(ctx, alice.ID, ubAlice.ID, "Public verdict.", true)
	require.NoError(t, err)
	_, err = env.annotations.CreateReview(ctx, bob.ID, ubBob.ID, "Kept to myself.", false)
	require.NoError(t, err)

	public, err := env.annotations.ListPublicReviews(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, public, 1)

	assert.Equal(t, "Public verdict.", public[0].Content)
	assert.Equal(t, "alice", public[0].Username)
	assert.Equal(t, "Dune", public[0].BookTitle)
	assert.Equal(t, ubAlice.BookID, public[0].BookID)
}

func TestCreateReview_BlankContentRejected(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.annotations.CreateReview(ctx, user.ID, ub.ID, "", true)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAnnotations_UnknownUserBook(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	_, err := env.annotations.CreateNote(ctx, user.ID, "ub-missing", "text", nil)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	_, err = env.annotations.CreateQuote(ctx, user.ID, "ub-missing", "text", nil)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	_, err = env.annotations.CreateReview(ctx, user.ID, "ub-missing", "text", false)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
