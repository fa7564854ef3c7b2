package repositories

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/config"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

// ListOptions are the product listing filters.
type ListOptions struct {
	Keyword string // case-insensitive substring over title or description
	Sort    string // comma-separated fields, leading '-' = descending
	Page    int    // 1-based
	Limit   int    // items per page, capped at config.MaxPageSize()
	Owner   string // ObjectID hex; scopes the listing to one owner
}

// Pagination is the page metadata returned alongside listings.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// sortable maps client sort keys to document fields.
var sortable = map[string]string{
	"title":     "title",
	"price":     "price",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.Collection("products")}
}

// Create persists a new product and fills in its generated ID.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// List returns a page of products matching opts, newest first by default.
func (r *ProductRepository) List(ctx context.Context, opts ListOptions) ([]models.Product, Pagination, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	page, limit := normalizePage(opts.Page, opts.Limit)
	filter := buildFilter(opts)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	findOpts := options.Find().
		SetSort(parseSort(opts.Sort)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, Pagination{}, err
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, Pagination{}, err
	}

	return products, paginate(page, limit, total), nil
}

// FindByID returns a single product. A malformed id is errs.ErrInvalidID,
// a well-formed but unknown id is errs.ErrNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, errs.ErrInvalidID
	}

	var p models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, errs.ErrNotFound
	}
	return p, err
}

// Update replaces the mutable fields of the product and returns the new
// document. The owner field is never touched.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) (models.Product, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	update := bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"image":       p.Image,
		"updated_at":  time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, errs.ErrNotFound
	}
	return updated, err
}

// Delete removes a product and returns the deleted document.
func (r *ProductRepository) Delete(ctx context.Context, id string) (models.Product, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, errs.ErrInvalidID
	}

	var deleted models.Product
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, errs.ErrNotFound
	}
	return deleted, err
}

// ─── Query building ───────────────────────────────────────────────────────────

func buildFilter(opts ListOptions) bson.M {
	filter := bson.M{}

	if kw := strings.TrimSpace(opts.Keyword); kw != "" {
		// Literal substring match; the keyword is never treated as a pattern.
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	if opts.Owner != "" {
		if oid, err := primitive.ObjectIDFromHex(opts.Owner); err == nil {
			filter["owner"] = oid
		}
	}

	return filter
}

// parseSort turns "price,-createdAt" into a Mongo sort document.
// Unknown fields are dropped; an empty result falls back to newest-first.
func parseSort(sort string) bson.D {
	var out bson.D
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}

		mapped, ok := sortable[field]
		if !ok {
			continue
		}
		out = append(out, bson.E{Key: mapped, Value: dir})
	}

	if len(out) == 0 {
		out = bson.D{{Key: "created_at", Value: -1}}
	}
	return out
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = config.PageSize()
	}
	if max := config.MaxPageSize(); limit > max {
		limit = max
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
