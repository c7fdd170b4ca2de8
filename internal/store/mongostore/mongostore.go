// Package mongostore keeps lists as single documents with their movie entries
// embedded, the layout the service was first modelled on.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/yourname/reelshelf/internal/models"
)

const (
	listsCollection = "lists"
	usersCollection = "users"
)

type Store struct {
	client *mongo.Client
	lists  *mongo.Collection
	users  *mongo.Collection
}

// Open connects to uri and uses database dbName.
func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	db := client.Database(dbName)
	return &Store{client: client, lists: db.Collection(listsCollection), users: db.Collection(usersCollection)}, nil
}

// Migrate creates the indexes the list rules rely on. The share token index
// is sparse so lists without a token do not collide.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.lists.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "shareToken", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "isPublic", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create list indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", models.ErrDuplicate, err)
	default:
		return err
	}
}

// Users

func (s *Store) UpsertUser(ctx context.Context, u *models.User) (created bool, err error) {
	if u.ID == "" {
		return false, errors.New("missing user id")
	}
	now := time.Now().UTC()
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": u.ID},
		bson.M{
			"$set":         bson.M{"email": u.Email, "username": u.Username, "avatar": u.Avatar, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, translate(err)
	}
	stored, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return false, err
	}
	*u = *stored
	return res.UpsertedCount == 1, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Lists

func (s *Store) InsertLists(ctx context.Context, lists ...*models.List) error {
	if len(lists) == 0 {
		return nil
	}
	docs := make([]any, 0, len(lists))
	for _, l := range lists {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		// $push needs an array, never null
		if l.Movies == nil {
			l.Movies = []models.MovieEntry{}
		}
		docs = append(docs, l)
	}
	_, err := s.lists.InsertMany(ctx, docs)
	return translate(err)
}

func (s *Store) ListsByOwner(ctx context.Context, owner string) ([]models.List, error) {
	cur, err := s.lists.Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	var out []models.List
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) FindOwnedList(ctx context.Context, id, owner string) (*models.List, error) {
	var l models.List
	if err := s.lists.FindOne(ctx, bson.M{"_id": id, "owner": owner}).Decode(&l); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *Store) ListNameExists(ctx context.Context, owner, name string) (bool, error) {
	n, err := s.lists.CountDocuments(ctx, bson.M{"owner": owner, "name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (s *Store) SaveListFields(ctx context.Context, l *models.List) error {
	update := bson.M{
		"$set": bson.M{
			"name":        l.Name,
			"description": l.Description,
			"isPublic":    l.IsPublic,
			"updatedAt":   l.UpdatedAt,
		},
	}
	if l.ShareToken != nil {
		update["$set"].(bson.M)["shareToken"] = *l.ShareToken
	} else {
		update["$unset"] = bson.M{"shareToken": ""}
	}
	res, err := s.lists.UpdateOne(ctx, bson.M{"_id": l.ID, "owner": l.OwnerID}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteList(ctx context.Context, id, owner string) error {
	res, err := s.lists.DeleteOne(ctx, bson.M{"_id": id, "owner": owner})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AppendMovie pushes m only if no entry with the same movieId exists. The
// filter and the push are one update, so the duplicate check cannot race.
func (s *Store) AppendMovie(ctx context.Context, listID string, m *models.MovieEntry) (bool, error) {
	m.ListID = listID
	res, err := s.lists.UpdateOne(ctx,
		bson.M{"_id": listID, "movies.movieId": bson.M{"$ne": m.MovieID}},
		bson.M{
			"$push": bson.M{"movies": m},
			"$set":  bson.M{"updatedAt": m.AddedAt},
		},
	)
	if err != nil {
		return false, translate(err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *Store) RemoveMovie(ctx context.Context, listID string, movieID int64, at time.Time) error {
	_, err := s.lists.UpdateOne(ctx,
		bson.M{"_id": listID},
		bson.M{
			"$pull": bson.M{"movies": bson.M{"movieId": movieID}},
			"$set":  bson.M{"updatedAt": at},
		},
	)
	return translate(err)
}

func (s *Store) FindSharedList(ctx context.Context, token string) (*models.List, error) {
	var l models.List
	if err := s.lists.FindOne(ctx, bson.M{"shareToken": token, "isPublic": true}).Decode(&l); err != nil {
		return nil, translate(err)
	}
	return &l, nil
}
