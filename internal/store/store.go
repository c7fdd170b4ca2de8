package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourname/reelshelf/internal/models"
)

type Store struct{ DB *gorm.DB }

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Open connects to a relational backend. driver is "postgres" or "sqlite".
// Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey regardless of the backend. gorm's slow-query and
// error lines go to log.
func Open(driver, dsn string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// gormWriter adapts zerolog to gorm's logger.Writer.
type gormWriter struct{ log zerolog.Logger }

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(&models.User{}, &models.List{}, &models.MovieEntry{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", models.ErrDuplicate, err)
	default:
		return err
	}
}

// Users

// UpsertUser inserts u when no user with u.ID exists, otherwise refreshes the
// profile fields. created reports whether this call inserted the row; of two
// concurrent first calls exactly one sees true and neither fails.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) (created bool, err error) {
	if u.ID == "" {
		return false, errors.New("missing user id")
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(u)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			created = true
			return nil
		}
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
			"email": u.Email, "username": u.Username, "avatar": u.Avatar,
		}).Error; err != nil {
			return err
		}
		return tx.First(u, "id = ?", u.ID).Error
	})
	return created, translate(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Lists

func moviesInAddOrder(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }

// InsertLists creates all lists in one transaction.
func (s *Store) InsertLists(ctx context.Context, lists ...*models.List) error {
	if len(lists) == 0 {
		return nil
	}
	return translate(s.DB.WithContext(ctx).Create(lists).Error)
}

func (s *Store) ListsByOwner(ctx context.Context, owner string) ([]models.List, error) {
	var out []models.List
	err := s.DB.WithContext(ctx).
		Preload("Movies", moviesInAddOrder).
		Where("owner_id = ?", owner).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindOwnedList is the only way a single list is read on behalf of a user:
// the lookup matches both id and owner, so a list owned by someone else is
// reported as models.ErrNotFound.
func (s *Store) FindOwnedList(ctx context.Context, id, owner string) (*models.List, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed list id", models.ErrNotFound)
	}
	var wl models.List
	err := s.DB.WithContext(ctx).
		Preload("Movies", moviesInAddOrder).
		First(&wl, "id = ? AND owner_id = ?", id, owner).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wl, nil
}

func (s *Store) ListNameExists(ctx context.Context, owner, name string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.List{}).
		Where("owner_id = ? AND name = ?", owner, name).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

// SaveListFields persists the mutable scalar fields of l. A nil ShareToken
// clears the column.
func (s *Store) SaveListFields(ctx context.Context, l *models.List) error {
	res := s.DB.WithContext(ctx).Model(&models.List{}).
		Where("id = ? AND owner_id = ?", l.ID, l.OwnerID).
		Updates(map[string]any{
			"name":        l.Name,
			"description": l.Description,
			"is_public":   l.IsPublic,
			"share_token": l.ShareToken,
			"updated_at":  l.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteList(ctx context.Context, id, owner string) error {
	return translate(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, owner).Delete(&models.List{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("list_id = ?", id).Delete(&models.MovieEntry{}).Error
	}))
}

// AppendMovie inserts m unless the list already holds m.MovieID. The
// (list_id, movie_id) unique index makes the check and the insert a single
// statement, so concurrent adds of the same movie cannot both succeed.
func (s *Store) AppendMovie(ctx context.Context, listID string, m *models.MovieEntry) (inserted bool, err error) {
	m.ListID = listID
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "list_id"}, {Name: "movie_id"}},
			DoNothing: true,
		}).Create(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true
		return tx.Model(&models.List{}).Where("id = ?", listID).Update("updated_at", m.AddedAt).Error
	})
	return inserted, translate(err)
}

func (s *Store) RemoveMovie(ctx context.Context, listID string, movieID int64, at time.Time) error {
	return translate(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("list_id = ? AND movie_id = ?", listID, movieID).Delete(&models.MovieEntry{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.List{}).Where("id = ?", listID).Update("updated_at", at).Error
	}))
}

// FindSharedList resolves a share token. Lists that were made private after
// sharing are reported as models.ErrNotFound, same as unknown tokens.
func (s *Store) FindSharedList(ctx context.Context, token string) (*models.List, error) {
	var wl models.List
	err := s.DB.WithContext(ctx).
		Preload("Movies", moviesInAddOrder).
		First(&wl, "share_token = ? AND is_public = ?", token, true).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wl, nil
}
