package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagemarkapp/pagemark-server/internal/domain"
	domainerrors "github.com/pagemarkapp/pagemark-server/internal/errors"
)

func TestAdd_DefaultsToWantToRead(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	env.catalog.addVolume("vol-1", "A Wizard of Earthsea", 183)
	ub, err := env.collection.Add(ctx, user.ID, "vol-1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWantToRead, ub.Status)
	assert.Equal(t, 0, ub.CurrentPage)
	assert.Nil(t, ub.StartedOn)
	require.NotNil(t, ub.Book)
	assert.Equal(t, "A Wizard of Earthsea", ub.Book.Title)
}

func TestAdd_DuplicateConflicts(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	env.catalog.addVolume("vol-1", "Dune", 412)
	_, err := env.collection.Add(ctx, user.ID, "vol-1", domain.StatusWantToRead)
	require.NoError(t, err)

	_, err = env.collection.Add(ctx, user.ID, "vol-1", domain.StatusReading)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestAdd_TwoUsersShareRegistryBook(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	alice := registerTestUser(t, env, "alice")
	bob := registerTestUser(t, env, "bob")

	env.catalog.addVolume("vol-1", "Dune", 412)
	ubAlice, err := env.collection.Add(ctx, alice.ID, "vol-1", domain.StatusWantToRead)
	require.NoError(t, err)
	ubBob, err := env.collection.Add(ctx, bob.ID, "vol-1", domain.StatusWantToRead)
	require.NoError(t, err)

	// One registry row, resolved once.
	assert.Equal(t, ubAlice.BookID, ubBob.BookID)
	assert.Equal(t, 1, env.catalog.getCalls)
}

func TestAdd_AsReadingStampsStartedOn(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	env.catalog.addVolume("vol-1", "Dune", 412)
	ub, err := env.collection.Add(ctx, user.ID, "vol-1", domain.StatusReading)
	require.NoError(t, err)
	assert.NotNil(t, ub.StartedOn)
}

func TestAdd_InvalidStatusRejected(t *testing.T) {
	env := setupServiceTest(t)
	user := registerTestUser(t, env, "alice")

	env.catalog.addVolume("vol-1", "Dune", 412)
	_, err := env.collection.Add(context.Background(), user.ID, "vol-1", "abandoned")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAdd_AppearsOnDefaultShelf(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	ub := addTestBook(t, env, user.ID, "Dune", 412)

	shelves, err := env.shelves.ListShelves(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, shelves, 1)
	assert.True(t, shelves[0].IsDefault)

	onShelf, err := env.shelves.ListBooks(ctx, user.ID, shelves[0].ID)
	require.NoError(t, err)
	require.Len(t, onShelf, 1)
	assert.Equal(t, ub.ID, onShelf[0].ID)
}

func TestGet_OtherUsersEntryIsNotFound(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	alice := registerTestUser(t, env, "alice")
	bob := registerTestUser(t, env, "bob")

	ub := addTestBook(t, env, alice.ID, "Dune", 412)

	_, err := env.collection.Get(ctx, bob.ID, ub.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestList_FiltersByStatus(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	addTestBook(t, env, user.ID, "Dune", 412)
	reading := addTestBook(t, env, user.ID, "Hyperion", 482)
	_, err := env.collection.SetStatus(ctx, user.ID, reading.ID, domain.StatusReading)
	require.NoError(t, err)

	all, err := env.collection.List(ctx, user.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyReading, err := env.collection.List(ctx, user.ID, domain.StatusReading)
	require.NoError(t, err)
	require.Len(t, onlyReading, 1)
	assert.Equal(t, reading.ID, onlyReading[0].ID)

	_, err = env.collection.List(ctx, user.ID, "finished")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestSetStatus_ReadingStampsStartedOnOnce(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	updated, err := env.collection.SetStatus(ctx, user.ID, ub.ID, domain.StatusReading)
	require.NoError(t, err)
	require.NotNil(t, updated.StartedOn)
	firstStart := *updated.StartedOn

	// Round trip through want_to_read and back: the stamp survives.
	_, err = env.collection.SetStatus(ctx, user.ID, ub.ID, domain.StatusWantToRead)
	require.NoError(t, err)
	updated, err = env.collection.SetStatus(ctx, user.ID, ub.ID, domain.StatusReading)
	require.NoError(t, err)
	require.NotNil(t, updated.StartedOn)
	assert.True(t, updated.StartedOn.Equal(firstStart))
}

func TestSetStatus_ReadCompletesProgress(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	updated, err := env.collection.SetStatus(ctx, user.ID, ub.ID, domain.StatusRead)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRead, updated.Status)
	assert.NotNil(t, updated.FinishedOn)
	assert.Equal(t, 412, updated.CurrentPage)
	assert.InDelta(t, 100.0, domain.PercentComplete(updated.CurrentPage, updated.Book.PageCount), 0.001)
}

func TestUpdateProgress_RejectsOutOfRange(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 413)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.collection.UpdateProgress(ctx, user.ID, ub.ID, -1)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateProgress_PromotesWantToRead(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	updated, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 50)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReading, updated.Status)
	assert.NotNil(t, updated.StartedOn)
	assert.Equal(t, 50, updated.CurrentPage)
}

func TestUpdateProgress_FinalPageMarksRead(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	updated, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 412)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusRead, updated.Status)
	assert.NotNil(t, updated.FinishedOn)
}

func TestUpdateProgress_RecordsSession(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 50)
	require.NoError(t, err)
	_, err = env.collection.UpdateProgress(ctx, user.ID, ub.ID, 120)
	require.NoError(t, err)

	sessions, err := env.collection.ListSessions(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Newest first.
	assert.Equal(t, 50, sessions[0].StartPage)
	assert.Equal(t, 120, sessions[0].EndPage)
	assert.Equal(t, 70, sessions[0].PagesRead())
	assert.Equal(t, 0, sessions[1].StartPage)
	assert.Equal(t, 50, sessions[1].EndPage)
}

func TestUpdateProgress_BackwardMovementSkipsSession(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 100)
	require.NoError(t, err)
	updated, err := env.collection.UpdateProgress(ctx, user.ID, ub.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, updated.CurrentPage)

	sessions, err := env.collection.ListSessions(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestLogSession_AdvancesProgress(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	started := timeMustParse(t, "2026-08-01T20:00:00Z")
	finished := timeMustParse(t, "2026-08-01T21:30:00Z")
	session, err := env.collection.LogSession(ctx, user.ID, &domain.ReadingSession{
		UserBookID: ub.ID,
		StartPage:  0,
		EndPage:    60,
		StartedAt:  started,
		FinishedAt: finished,
		Notes:      "train ride",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	updated, err := env.collection.Get(ctx, user.ID, ub.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, updated.CurrentPage)
	assert.Equal(t, domain.StatusReading, updated.Status)
}

func TestLogSession_RejectsInvalidRange(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	started := timeMustParse(t, "2026-08-01T20:00:00Z")
	_, err := env.collection.LogSession(ctx, user.ID, &domain.ReadingSession{
		UserBookID: ub.ID,
		StartPage:  80,
		EndPage:    20,
		StartedAt:  started,
		FinishedAt: started,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.collection.LogSession(ctx, user.ID, &domain.ReadingSession{
		UserBookID: ub.ID,
		StartPage:  0,
		EndPage:    9999,
		StartedAt:  started,
		FinishedAt: started,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestSetRating_SetAndClear(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	five := 5
	updated, err := env.collection.SetRating(ctx, user.ID, ub.ID, &five)
	require.NoError(t, err)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 5, *updated.Rating)

	updated, err = env.collection.SetRating(ctx, user.ID, ub.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.Rating)
}

func TestSetRating_RejectsOutOfRange(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	for _, r := range []int{0, 6, -3} {
		rating := r
		_, err := env.collection.SetRating(ctx, user.ID, ub.ID, &rating)
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	}
}

func TestRemove_CascadesAndKeepsRegistryBook(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")
	ub := addTestBook(t, env, user.ID, "Dune", 412)

	_, err := env.annotations.CreateNote(ctx, user.ID, ub.ID, "great opening", nil)
	require.NoError(t, err)

	require.NoError(t, env.collection.Remove(ctx, user.ID, ub.ID))

	_, err = env.collection.Get(ctx, user.ID, ub.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	// The shared registry record survives the removal.
	book, err := env.books.GetBook(ctx, ub.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)

	err = env.collection.Remove(ctx, user.ID, ub.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestStatistics(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "alice")

	read := addTestBook(t, env, user.ID, "Dune", 412)
	addTestBook(t, env, user.ID, "Hyperion", 482)

	_, err := env.collection.SetStatus(ctx, user.ID, read.ID, domain.StatusRead)
	require.NoError(t, err)
	four := 4
	_, err = env.collection.SetRating(ctx, user.ID, read.ID, &four)
	require.NoError(t, err)

	stats, err := env.collection.Statistics(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalBooks)
	assert.Equal(t, 1, stats.BooksByStatus[string(domain.StatusRead)])
	assert.Equal(t, 1, stats.BooksByStatus[string(domain.StatusWantToRead)])
	assert.Equal(t, 0, stats.BooksByStatus[string(domain.StatusReading)])
	assert.Equal(t, 0, stats.CurrentlyReading)
	assert.Equal(t, 1, stats.RatedBooks)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
}
