package accounts

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/reelshelf/internal/lists"
	"github.com/yourname/reelshelf/internal/models"
	"github.com/yourname/reelshelf/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	st := store.New(db)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type recordingSeeder struct {
	mu     sync.Mutex
	owners []string
	block  chan struct{}
}

func (r *recordingSeeder) CreateDefaultLists(ctx context.Context, ownerID string, templates []lists.Template) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
}

func (r *recordingSeeder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.owners...)
}

func TestSync_CreatesDefaultListsOnce(t *testing.T) {
	st := newStore(t)
	log := zerolog.Nop()
	listSvc := lists.NewService(st, log)
	tasks := NewDispatcher(log, 5*time.Second)
	svc := NewService(st, listSvc, tasks, log)
	ctx := context.Background()

	u, created, err := svc.Sync(ctx, Profile{ID: "u1", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ana", u.Username)
	require.NoError(t, tasks.Wait(ctx))

	got, err := listSvc.ListOwned(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	assert.ElementsMatch(t, []string{"Favoritas", "Aún no he visto", "Ya vistas"}, names)
	for _, l := range got {
		assert.True(t, l.IsDefault)
		assert.Empty(t, l.Movies)
	}

	u, created, err = svc.Sync(ctx, Profile{ID: "u1", Email: "ana@example.com", Username: "ana_b"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ana_b", u.Username)
	require.NoError(t, tasks.Wait(ctx))

	got, err = listSvc.ListOwned(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSync_DoesNotWaitForDefaultLists(t *testing.T) {
	st := newStore(t)
	seeder := &recordingSeeder{block: make(chan struct{})}
	tasks := NewDispatcher(zerolog.Nop(), 5*time.Second)
	svc := NewService(st, seeder, tasks, zerolog.Nop())
	ctx := context.Background()

	_, created, err := svc.Sync(ctx, Profile{ID: "u1"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, seeder.calls(), "seeding runs after Sync returns")

	close(seeder.block)
	require.NoError(t, tasks.Wait(ctx))
	assert.Equal(t, []string{"u1"}, seeder.calls())
}

type failingStore struct{}

func (failingStore) UpsertUser(context.Context, *models.User) (bool, error) {
	return false, errors.New("db down")
}
func (failingStore) GetUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}

func TestSync_StoreFailure(t *testing.T) {
	seeder := &recordingSeeder{}
	tasks := NewDispatcher(zerolog.Nop(), time.Second)
	svc := NewService(failingStore{}, seeder, tasks, zerolog.Nop())

	_, _, err := svc.Sync(context.Background(), Profile{ID: "u1"})
	require.Error(t, err)
	require.NoError(t, tasks.Wait(context.Background()))
	assert.Empty(t, seeder.calls())
}

func TestMe(t *testing.T) {
	st := newStore(t)
	tasks := NewDispatcher(zerolog.Nop(), time.Second)
	svc := NewService(st, &recordingSeeder{}, tasks, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Me(ctx, "u1")
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, _, err = svc.Sync(ctx, Profile{ID: "u1", Username: "ana"})
	require.NoError(t, err)
	u, err := svc.Me(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana", u.Username)

	_, err = NewService(failingStore{}, nil, tasks, zerolog.Nop()).Me(ctx, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownUser)
}

func TestSync_SubjectIsNeverAUsername(t *testing.T) {
	st := newStore(t)
	tasks := NewDispatcher(zerolog.Nop(), time.Second)
	svc := NewService(st, &recordingSeeder{}, tasks, zerolog.Nop())
	ctx := context.Background()

	u, _, err := svc.Sync(ctx, Profile{ID: "3f1c9a52-subject"})
	require.NoError(t, err)
	assert.Empty(t, u.Username)

	stored, err := svc.Me(ctx, "3f1c9a52-subject")
	require.NoError(t, err)
	assert.NotContains(t, stored.Username, "3f1c9a52")
	require.NoError(t, tasks.Wait(ctx))
}

func TestUsernameFor(t *testing.T) {
	tests := []struct {
		name string
		in   Profile
		want string
	}{
		{"provider username", Profile{ID: "id", Email: "a@b.c", Username: " neo "}, "neo"},
		{"email local part", Profile{ID: "id", Email: "trinity@zion.io"}, "trinity"},
		{"bad email", Profile{ID: "id", Email: "@zion.io"}, ""},
		{"nothing but id", Profile{ID: "id"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usernameFor(tt.in))
		})
	}
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	d := NewDispatcher(zerolog.New(&logs), time.Second)

	d.Go("explode", func(context.Context) { panic("kaboom") })
	require.NoError(t, d.Wait(context.Background()))
	assert.Contains(t, logs.String(), "background task panicked")
	assert.Contains(t, logs.String(), "explode")
}

func TestDispatcher_TaskContextOutlivesCaller(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(), time.Second)
	reqCtx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	d.Go("check", func(ctx context.Context) {
		cancel()
		time.Sleep(10 * time.Millisecond)
		errCh <- ctx.Err()
	})
	require.NoError(t, d.Wait(context.Background()))
	assert.NoError(t, <-errCh)
	assert.Error(t, reqCtx.Err())
}

func TestDispatcher_DeadlineIsLogged(t *testing.T) {
	var logs bytes.Buffer
	d := NewDispatcher(zerolog.New(&logs), 20*time.Millisecond)
	d.Go("slow", func(ctx context.Context) { <-ctx.Done() })
	require.NoError(t, d.Wait(context.Background()))
	assert.Contains(t, logs.String(), "background task hit its deadline")
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(), time.Minute)
	release := make(chan struct{})
	d.Go("stuck", func(context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Wait(context.Background()))
}
