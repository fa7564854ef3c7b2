package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog listing owned by the user who created it.
// Image holds a URL, either external or produced by the upload endpoint.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title"         json:"title"`
	Description string             `bson:"description"   json:"description"`
	Price       float64            `bson:"price"         json:"price"`
	Image       string             `bson:"image"         json:"image"`
	Owner       primitive.ObjectID `bson:"owner"         json:"owner"`
	CreatedAt   time.Time          `bson:"created_at"    json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at"    json:"updatedAt"`
}
