package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/vastra/pkg/migration"
)

func init() {
	migration.Register("20260101000000_users_indexes", &UsersIndexes{})
	migration.Register("20260101000001_products_indexes", &ProductsIndexes{})
}

// -------- 0001: users --------

// UsersIndexes enforces email uniqueness at the database level; the
// repository translates the duplicate-key error into a 400.
type UsersIndexes struct{}

func (m *UsersIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (m *UsersIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().DropOne(ctx, "uniq_email")
	return err
}

// -------- 0002: products --------

// ProductsIndexes backs the listing queries: owner scoping and the
// default created_at sort.
type ProductsIndexes struct{}

func (m *ProductsIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("owner_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}},
			Options: options.Index().SetName("price_asc"),
		},
	})
	return err
}

func (m *ProductsIndexes) Down(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{"owner_created", "created_desc", "price_asc"} {
		if _, err := db.Collection("products").Indexes().DropOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
