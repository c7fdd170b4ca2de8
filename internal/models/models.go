package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store-level sentinels shared by every List Store backend.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type User struct {
	ID        string    `gorm:"primaryKey" bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	Email    string `gorm:"index" bson:"email" json:"email"`
	Username string `gorm:"index" bson:"username" json:"username"`
	Avatar   string `bson:"avatar" json:"avatar"`
}

// List is a named, owned collection of movie entries. Name is unique per
// owner and ShareToken, when set, is unique across all lists.
type List struct {
	ID        string    `gorm:"type:uuid;primaryKey" bson:"_id" json:"id"`
	CreatedAt time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	OwnerID     string  `gorm:"not null;uniqueIndex:idx_lists_owner_name,priority:1" bson:"owner" json:"owner"`
	Name        string  `gorm:"not null;uniqueIndex:idx_lists_owner_name,priority:2" bson:"name" json:"name"`
	Description string  `gorm:"not null;default:''" bson:"description" json:"description"`
	IsDefault   bool    `gorm:"not null;default:false" bson:"isDefault" json:"isDefault"`
	IsPublic    bool    `gorm:"not null;default:false;index" bson:"isPublic" json:"isPublic"`
	ShareToken  *string `gorm:"uniqueIndex" bson:"shareToken,omitempty" json:"shareToken,omitempty"`

	Movies []MovieEntry `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" bson:"movies" json:"movies"`
}

func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// HasMovie reports whether movieID is already an entry of the list.
func (l *List) HasMovie(movieID int64) bool {
	for _, m := range l.Movies {
		if m.MovieID == movieID {
			return true
		}
	}
	return false
}

// MovieEntry is a display snapshot of a catalog movie taken when it was added.
// In relational stores entries live in their own table and ID preserves the
// add order; document stores embed them in the list.
type MovieEntry struct {
	ID     uint   `gorm:"primaryKey" bson:"-" json:"-"`
	ListID string `gorm:"type:uuid;not null;uniqueIndex:idx_list_movies_list_movie,priority:1" bson:"-" json:"-"`

	MovieID     int64     `gorm:"not null;uniqueIndex:idx_list_movies_list_movie,priority:2" bson:"movieId" json:"movieId"`
	Title       string    `gorm:"not null" bson:"title" json:"title"`
	PosterPath  string    `bson:"posterPath,omitempty" json:"posterPath,omitempty"`
	ReleaseDate string    `bson:"releaseDate,omitempty" json:"releaseDate,omitempty"`
	VoteAverage *float64  `bson:"voteAverage,omitempty" json:"voteAverage,omitempty"`
	AddedAt     time.Time `bson:"addedAt" json:"addedAt"`
}

func (MovieEntry) TableName() string { return "list_movies" }

// PublicOwner is the only part of a user exposed through a shared list.
type PublicOwner struct {
	Username string `json:"username"`
}

// SharedList is the anonymous read view of a list. Its Owner field replaces
// the owner id of the embedded list in the JSON output.
type SharedList struct {
	List
	Owner PublicOwner `json:"owner"`
}
