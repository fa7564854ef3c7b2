package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: database.Collection("users")}
}

// Create persists a new user. A duplicate email (unique index violation)
// maps to errs.ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateEmail
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, errs.ErrNotFound
	}
	return user, err
}

// FindByID looks up a user by ObjectID hex. A malformed id is
// errs.ErrInvalidID, a well-formed but unknown id is errs.ErrNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, errs.ErrInvalidID
	}

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, errs.ErrNotFound
	}
	return user, err
}
