package lists_test

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/reelshelf/internal/lists"
	"github.com/yourname/reelshelf/internal/models"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestGenerateShareToken_RoundTrip(t *testing.T) {
	svc, st := newService(t)
	gw := lists.NewGateway(svc)
	ctx := context.Background()

	_, err := st.UpsertUser(ctx, &models.User{ID: "u1", Email: "ana@example.com", Username: "ana"})
	require.NoError(t, err)
	l, err := svc.CreateList(ctx, "u1", "Sci-Fi Gems", "", false)
	require.NoError(t, err)
	_, err = svc.AddMovie(ctx, "u1", l.ID, lists.MovieInput{MovieID: 550, Title: "Fight Club"})
	require.NoError(t, err)

	share, err := gw.GenerateShareToken(ctx, "u1", l.ID, "https://reelshelf.test/")
	require.NoError(t, err)
	assert.Regexp(t, hexToken, share.ShareToken)
	assert.Equal(t, "https://reelshelf.test/shared-list/"+share.ShareToken, share.ShareURL)

	owned, err := svc.GetListDetails(ctx, "u1", l.ID)
	require.NoError(t, err)
	assert.True(t, owned.IsPublic, "sharing makes the list public")
	require.NotNil(t, owned.ShareToken)
	assert.Equal(t, share.ShareToken, *owned.ShareToken)

	shared, err := gw.ResolveSharedList(ctx, share.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, l.ID, shared.ID)
	assert.Equal(t, "ana", shared.Owner.Username)
	require.Len(t, shared.Movies, 1)

	_, err = svc.UpdateList(ctx, "u1", l.ID, lists.Patch{IsPublic: boolPtr(false)})
	require.NoError(t, err)
	_, err = gw.ResolveSharedList(ctx, share.ShareToken)
	assert.ErrorIs(t, err, lists.ErrNotFound)
}

func TestGenerateShareToken_ReplacesPreviousToken(t *testing.T) {
	svc, _ := newService(t)
	gw := lists.NewGateway(svc)
	ctx := context.Background()
	l, err := svc.CreateList(ctx, "u1", "Mine", "", false)
	require.NoError(t, err)

	first, err := gw.GenerateShareToken(ctx, "u1", l.ID, "http://x")
	require.NoError(t, err)
	second, err := gw.GenerateShareToken(ctx, "u1", l.ID, "http://x")
	require.NoError(t, err)
	assert.NotEqual(t, first.ShareToken, second.ShareToken)

	_, err = gw.ResolveSharedList(ctx, first.ShareToken)
	assert.ErrorIs(t, err, lists.ErrNotFound)
	_, err = gw.ResolveSharedList(ctx, second.ShareToken)
	assert.NoError(t, err)
}

func TestGenerateShareToken_ForeignList(t *testing.T) {
	svc, _ := newService(t)
	gw := lists.NewGateway(svc)
	ctx := context.Background()
	l, err := svc.CreateList(ctx, "owner-b", "Theirs", "", false)
	require.NoError(t, err)

	_, err = gw.GenerateShareToken(ctx, "owner-a", l.ID, "http://x")
	assert.ErrorIs(t, err, lists.ErrNotFound)

	got, err := svc.GetListDetails(ctx, "owner-b", l.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)
	assert.Nil(t, got.ShareToken)
}

func TestGenerateShareToken_RetriesOnCollision(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a, err := svc.CreateList(ctx, "u1", "A", "", false)
	require.NoError(t, err)
	b, err := svc.CreateList(ctx, "u1", "B", "", false)
	require.NoError(t, err)

	// the same 16 bytes twice, then a different block
	collide := bytes.Repeat([]byte{0xab}, 16)
	fresh := bytes.Repeat([]byte{0xcd}, 16)
	entropy := bytes.NewReader(append(append(append([]byte{}, collide...), collide...), fresh...))
	gw := lists.NewGateway(svc, lists.WithRandom(entropy))

	first, err := gw.GenerateShareToken(ctx, "u1", a.ID, "http://x")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("ab", 16), first.ShareToken)

	second, err := gw.GenerateShareToken(ctx, "u1", b.ID, "http://x")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("cd", 16), second.ShareToken)
}

func TestGenerateShareToken_GivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a, err := svc.CreateList(ctx, "u1", "A", "", false)
	require.NoError(t, err)
	b, err := svc.CreateList(ctx, "u1", "B", "", false)
	require.NoError(t, err)

	gw := lists.NewGateway(svc, lists.WithRandom(bytes.NewReader(bytes.Repeat([]byte{0x11}, 16*4))))
	_, err = gw.GenerateShareToken(ctx, "u1", a.ID, "http://x")
	require.NoError(t, err)

	_, err = gw.GenerateShareToken(ctx, "u1", b.ID, "http://x")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDuplicate)
	var le *lists.Error
	assert.False(t, errors.As(err, &le), "exhausted retries are an internal error")
}

func TestResolveSharedList_Unknown(t *testing.T) {
	svc, _ := newService(t)
	gw := lists.NewGateway(svc)
	for _, tok := range []string{"", "nope", strings.Repeat("0", 32)} {
		_, err := gw.ResolveSharedList(context.Background(), tok)
		assert.ErrorIs(t, err, lists.ErrNotFound, "token %q", tok)
	}
}

func TestResolveSharedList_OwnerWithoutProfile(t *testing.T) {
	st := newSQLiteStore(t)
	var logs bytes.Buffer
	svc := lists.NewService(st, zerolog.New(&logs))
	gw := lists.NewGateway(svc)
	ctx := context.Background()

	l, err := svc.CreateList(ctx, "ghost", "Orphan", "", false)
	require.NoError(t, err)
	share, err := gw.GenerateShareToken(ctx, "ghost", l.ID, "http://x")
	require.NoError(t, err)

	got, err := gw.ResolveSharedList(ctx, share.ShareToken)
	require.NoError(t, err)
	assert.Empty(t, got.Owner.Username)
	assert.Contains(t, logs.String(), "shared list owner has no profile")
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "http://h/shared-list/t", lists.ShareURL("http://h", "t"))
	assert.Equal(t, "http://h/shared-list/t", lists.ShareURL("http://h///", "t"))
}
