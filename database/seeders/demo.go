package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
)

func init() {
	Register("demo", SeedDemo)
}

// SeedDemo inserts a demo seller with a small catalog. Safe to run more
// than once: it skips when the demo user already exists.
func SeedDemo(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email": "demo@vastra.local"}).Decode(&existing)
	if err == nil {
		return nil // already seeded
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	seller := models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Demo Seller",
		Email:     "demo@vastra.local",
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := users.InsertOne(ctx, seller); err != nil {
		return err
	}

	catalog := []models.Product{
		{
			Title:       "Banarasi Silk Saree",
			Description: "Handwoven Banarasi silk saree with zari border and rich pallu.",
			Price:       4999,
			Image:       "https://images.vastra.local/seed/banarasi.jpg",
		},
		{
			Title:       "Block Print Cotton Kurta",
			Description: "Hand block printed cotton kurta, breathable and pre-washed.",
			Price:       899,
			Image:       "https://images.vastra.local/seed/kurta.jpg",
		},
		{
			Title:       "Pashmina Shawl",
			Description: "Genuine Kashmiri pashmina shawl, ring test certified.",
			Price:       7499,
			Image:       "https://images.vastra.local/seed/pashmina.jpg",
		},
	}

	docs := make([]interface{}, 0, len(catalog))
	for i := range catalog {
		catalog[i].ID = primitive.NewObjectID()
		catalog[i].Owner = seller.ID
		catalog[i].CreatedAt = now.Add(time.Duration(i) * time.Second)
		catalog[i].UpdatedAt = catalog[i].CreatedAt
		docs = append(docs, catalog[i])
	}
	_, err = db.Collection("products").InsertMany(ctx, docs)
	return err
}
