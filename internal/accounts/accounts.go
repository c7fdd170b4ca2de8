package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/lists"
	"github.com/yourname/reelshelf/internal/models"
)

// ErrUnknownUser is returned by Me when the caller never synced a profile.
var ErrUnknownUser = errors.New("user not found")

type Store interface {
	UpsertUser(ctx context.Context, u *models.User) (bool, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// ListSeeder creates the starter lists of a new account.
type ListSeeder interface {
	CreateDefaultLists(ctx context.Context, ownerID string, templates []lists.Template)
}

// Profile is what the identity provider tells us about the caller.
type Profile struct {
	ID       string
	Email    string
	Username string
	Avatar   string
}

type Service struct {
	store  Store
	seeder ListSeeder
	tasks  *Dispatcher
	log    zerolog.Logger
}

func NewService(st Store, seeder ListSeeder, tasks *Dispatcher, log zerolog.Logger) *Service {
	return &Service{store: st, seeder: seeder, tasks: tasks, log: log}
}

// Sync stores the caller's profile. The first sync of an account creates the
// user and schedules its default lists; the response does not wait for them.
func (s *Service) Sync(ctx context.Context, p Profile) (*models.User, bool, error) {
	u := &models.User{ID: p.ID, Email: p.Email, Username: usernameFor(p), Avatar: p.Avatar}
	created, err := s.store.UpsertUser(ctx, u)
	if err != nil {
		return nil, false, fmt.Errorf("upsert user %s: %w", p.ID, err)
	}
	if created {
		ownerID := u.ID
		s.log.Info().Str("user", ownerID).Msg("account created")
		s.tasks.Go("default-lists", func(ctx context.Context) {
			s.seeder.CreateDefaultLists(ctx, ownerID, lists.DefaultLists)
		})
	}
	return u, created, nil
}

func (s *Service) Me(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// usernameFor prefers the provider's username, then the e-mail local part.
// The username is shown on shared lists, so the account id is never used.
func usernameFor(p Profile) string {
	if u := strings.TrimSpace(p.Username); u != "" {
		return u
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	return ""
}
