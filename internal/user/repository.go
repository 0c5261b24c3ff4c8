package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrDuplicateHandle = errors.New("handle already exists")
)

const collectionName = "users"

// Repository handles user persistence in the users collection.
type Repository struct {
	coll *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{coll: db.Collection(collectionName)}
}

// Collection exposes the underlying collection for index bootstrap.
func (r *Repository) Collection() *mongo.Collection {
	return r.coll
}

// Create inserts a new user document. The unique indexes on email and
// handle turn racing duplicate writes into ErrDuplicateEmail or
// ErrDuplicateHandle.
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	result, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, mapDuplicateKeyError(err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}

	return u, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, bson.M{"email": email}, "email")
}

// GetByHandle retrieves a user by normalized handle.
func (r *Repository) GetByHandle(ctx context.Context, handle string) (*User, error) {
	return r.findOne(ctx, bson.M{"handle": handle}, "handle")
}

// GetByID retrieves a user by document id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "id")
}

func (r *Repository) findOne(ctx context.Context, filter bson.M, by string) (*User, error) {
	var u User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}

	return &u, nil
}

// UpdateProfile sets handle, description and links on the user's document.
func (r *Repository) UpdateProfile(ctx context.Context, id primitive.ObjectID, handle, description string, links []string) error {
	result, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"handle":      handle,
		"description": description,
		"links":       links,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateHandle
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// SetImage persists the uploaded image URL on the user's document.
func (r *Repository) SetImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	result, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"image":      imageURL,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to set user image: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDuplicateKeyError picks the sentinel matching the violated index.
// The index name appears in the driver's error message (email_1 / handle_1).
func mapDuplicateKeyError(err error) error {
	if strings.Contains(err.Error(), "handle") {
		return ErrDuplicateHandle
	}
	return ErrDuplicateEmail
}
