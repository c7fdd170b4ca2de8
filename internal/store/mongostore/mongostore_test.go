package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/reelshelf/internal/models"
)

// newTestStore connects to MONGO_TEST_URI and uses a throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, uri, "reelshelf_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.lists.Database().Drop(ctx)
		_ = s.Close(ctx)
	})
	return s
}

func TestMongo_Users(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.UpsertUser(ctx, &models.User{ID: "u1", Username: "ana"})
	require.NoError(t, err)
	assert.True(t, created)

	u := &models.User{ID: "u1", Username: "ana2"}
	created, err = s.UpsertUser(ctx, u)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ana2", u.Username)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = s.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMongo_ListLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	a := &models.List{OwnerID: "u1", Name: "A", CreatedAt: now, UpdatedAt: now}
	b := &models.List{OwnerID: "u1", Name: "B", CreatedAt: now.Add(time.Second), UpdatedAt: now}
	require.NoError(t, s.InsertLists(ctx, a, b))
	assert.ErrorIs(t, s.InsertLists(ctx, &models.List{OwnerID: "u1", Name: "A"}), models.ErrDuplicate)

	all, err := s.ListsByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)

	_, err = s.FindOwnedList(ctx, a.ID, "u2")
	assert.ErrorIs(t, err, models.ErrNotFound)

	exists, err := s.ListNameExists(ctx, "u1", "B")
	require.NoError(t, err)
	assert.True(t, exists)

	b.Name = "A"
	assert.ErrorIs(t, s.SaveListFields(ctx, b), models.ErrDuplicate)
	b.Name = "B"

	tok := "tok"
	a.ShareToken, a.IsPublic = &tok, true
	require.NoError(t, s.SaveListFields(ctx, a))
	shared, err := s.FindSharedList(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, a.ID, shared.ID)

	// both lists may be tokenless at once
	a.ShareToken = nil
	require.NoError(t, s.SaveListFields(ctx, a))
	_, err = s.FindSharedList(ctx, tok)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, s.DeleteList(ctx, a.ID, "u2"), models.ErrNotFound)
	require.NoError(t, s.DeleteList(ctx, a.ID, "u1"))
	_, err = s.FindOwnedList(ctx, a.ID, "u1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMongo_Movies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	l := &models.List{OwnerID: "u1", Name: "Mine"}
	require.NoError(t, s.InsertLists(ctx, l))
	at := time.Now().UTC()

	ok, err := s.AppendMovie(ctx, l.ID, &models.MovieEntry{MovieID: 550, Title: "Fight Club", AddedAt: at})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.AppendMovie(ctx, l.ID, &models.MovieEntry{MovieID: 550, Title: "Fight Club", AddedAt: at})
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.FindOwnedList(ctx, l.ID, "u1")
	require.NoError(t, err)
	require.Len(t, got.Movies, 1)

	require.NoError(t, s.RemoveMovie(ctx, l.ID, 550, at))
	require.NoError(t, s.RemoveMovie(ctx, l.ID, 550, at))
	got, err = s.FindOwnedList(ctx, l.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Movies)
}
