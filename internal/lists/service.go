package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourname/reelshelf/internal/models"
)

//go:generate mockgen -destination=mocks/store_mock.go -package=mocks github.com/yourname/reelshelf/internal/lists Store

// Store is the persistence contract of the list subsystem. Implementations
// must enforce uniqueness of (owner, name) and of share tokens, reporting
// violations as models.ErrDuplicate, and return models.ErrNotFound for
// missing records.
type Store interface {
	InsertLists(ctx context.Context, lists ...*models.List) error
	ListsByOwner(ctx context.Context, owner string) ([]models.List, error)
	FindOwnedList(ctx context.Context, id, owner string) (*models.List, error)
	ListNameExists(ctx context.Context, owner, name string) (bool, error)
	SaveListFields(ctx context.Context, l *models.List) error
	DeleteList(ctx context.Context, id, owner string) error
	AppendMovie(ctx context.Context, listID string, m *models.MovieEntry) (bool, error)
	RemoveMovie(ctx context.Context, listID string, movieID int64, at time.Time) error
	FindSharedList(ctx context.Context, token string) (*models.List, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Service applies the list rules on top of a Store. It is the only component
// that mutates lists.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for created/updated/added timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{store: st, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Patch is a partial list update; nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// MovieInput is the catalog snapshot stored when a movie is added.
type MovieInput struct {
	MovieID     int64
	Title       string
	PosterPath  string
	ReleaseDate string
	VoteAverage *float64
}

// CreateDefaultLists inserts one default list per template for a new owner.
// Failures are logged and swallowed: an account without default lists is
// still usable.
func (s *Service) CreateDefaultLists(ctx context.Context, ownerID string, templates []Template) {
	now := s.now()
	batch := make([]*models.List, 0, len(templates))
	for _, t := range templates {
		batch = append(batch, &models.List{
			CreatedAt:   now,
			UpdatedAt:   now,
			OwnerID:     ownerID,
			Name:        t.Name,
			Description: t.Description,
			IsDefault:   true,
		})
	}
	if err := s.store.InsertLists(ctx, batch...); err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Msg("creating default lists")
		return
	}
	s.log.Info().Str("owner", ownerID).Int("count", len(batch)).Msg("default lists created")
}

func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]models.List, error) {
	out, err := s.store.ListsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list lists of %s: %w", ownerID, err)
	}
	if out == nil {
		out = []models.List{}
	}
	for i := range out {
		normalize(&out[i])
	}
	return out, nil
}

func (s *Service) CreateList(ctx context.Context, ownerID, name, description string, isPublic bool) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(msgNameRequired)
	}
	taken, err := s.store.ListNameExists(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("check list name: %w", err)
	}
	if taken {
		return nil, conflict(msgDuplicateName)
	}
	now := s.now()
	l := &models.List{
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		IsPublic:    isPublic,
		Movies:      []models.MovieEntry{},
	}
	if err := s.store.InsertLists(ctx, l); err != nil {
		// lost a race against a concurrent create with the same name
		if errors.Is(err, models.ErrDuplicate) {
			return nil, conflict(msgDuplicateName)
		}
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return l, nil
}

func (s *Service) UpdateList(ctx context.Context, ownerID, listID string, p Patch) (*models.List, error) {
	l, err := s.findOwnedOrNotFound(ctx, listID, ownerID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if l.IsDefault && name != l.Name {
			return nil, invalid(msgRenameDefault)
		}
		if name == "" {
			return nil, invalid(msgNameRequired)
		}
		l.Name = name
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.IsPublic != nil {
		l.IsPublic = *p.IsPublic
	}
	l.UpdatedAt = s.now()

	switch err := s.store.SaveListFields(ctx, l); {
	case errors.Is(err, models.ErrDuplicate):
		return nil, conflict(msgDuplicateName)
	case errors.Is(err, models.ErrNotFound):
		return nil, notFound(msgListNotFound)
	case err != nil:
		return nil, fmt.Errorf("save list %s: %w", listID, err)
	}
	return l, nil
}

func (s *Service) DeleteList(ctx context.Context, ownerID, listID string) error {
	l, err := s.findOwnedOrNotFound(ctx, listID, ownerID)
	if err != nil {
		return err
	}
	if l.IsDefault {
		return invalid(msgDeleteDefault)
	}
	switch err := s.store.DeleteList(ctx, listID, ownerID); {
	case errors.Is(err, models.ErrNotFound):
		return notFound(msgListNotFound)
	case err != nil:
		return fmt.Errorf("delete list %s: %w", listID, err)
	}
	return nil
}

func (s *Service) AddMovie(ctx context.Context, ownerID, listID string, in MovieInput) (*models.List, error) {
	if in.MovieID <= 0 {
		return nil, invalid(msgMovieIDRequired)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid(msgMovieTitleRequired)
	}
	l, err := s.findOwnedOrNotFound(ctx, listID, ownerID)
	if err != nil {
		return nil, err
	}
	if l.HasMovie(in.MovieID) {
		return nil, conflict(msgDuplicateMovie)
	}
	entry := &models.MovieEntry{
		MovieID:     in.MovieID,
		Title:       title,
		PosterPath:  in.PosterPath,
		ReleaseDate: in.ReleaseDate,
		VoteAverage: in.VoteAverage,
		AddedAt:     s.now(),
	}
	inserted, err := s.store.AppendMovie(ctx, l.ID, entry)
	if err != nil {
		return nil, fmt.Errorf("append movie %d to %s: %w", in.MovieID, listID, err)
	}
	if !inserted {
		return nil, conflict(msgDuplicateMovie)
	}
	return s.findOwnedOrNotFound(ctx, listID, ownerID)
}

// RemoveMovie drops the entry for movieID if present. Removing a movie that
// is not in the list succeeds without changes.
func (s *Service) RemoveMovie(ctx context.Context, ownerID, listID string, movieID int64) (*models.List, error) {
	l, err := s.findOwnedOrNotFound(ctx, listID, ownerID)
	if err != nil {
		return nil, err
	}
	if !l.HasMovie(movieID) {
		return l, nil
	}
	if err := s.store.RemoveMovie(ctx, l.ID, movieID, s.now()); err != nil {
		return nil, fmt.Errorf("remove movie %d from %s: %w", movieID, listID, err)
	}
	return s.findOwnedOrNotFound(ctx, listID, ownerID)
}

func (s *Service) GetListDetails(ctx context.Context, ownerID, listID string) (*models.List, error) {
	return s.findOwnedOrNotFound(ctx, listID, ownerID)
}

// findOwnedOrNotFound is the access check of every single-list operation.
func (s *Service) findOwnedOrNotFound(ctx context.Context, listID, ownerID string) (*models.List, error) {
	l, err := s.store.FindOwnedList(ctx, listID, ownerID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, notFound(msgListNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find list %s: %w", listID, err)
	}
	normalize(l)
	return l, nil
}

// normalize makes an empty movie list encode as [] rather than null.
func normalize(l *models.List) {
	if l.Movies == nil {
		l.Movies = []models.MovieEntry{}
	}
}
