package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
)

const (
	listCachePrefix = "products:list:"
	listCacheTTL    = 30 * time.Second
)

// ProductStore is the persistence surface ProductService needs.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	List(ctx context.Context, opts repositories.ListOptions) ([]models.Product, repositories.Pagination, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Update(ctx context.Context, p *models.Product) (models.Product, error)
	Delete(ctx context.Context, id string) (models.Product, error)
}

// ProductFields are the mutable product attributes, validated at the
// controller boundary before they reach the service.
type ProductFields struct {
	Title       string
	Description string
	Price       float64
	Image       string
}

// ProductService implements the catalog operations. Mutations are
// ownership-gated: only the creating identity may update or delete.
type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Create stores a new product. The owner comes from the authenticated
// identity, never from client input.
func (s *ProductService) Create(ctx context.Context, ownerID string, f ProductFields) (models.Product, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return models.Product{}, errs.ErrInvalidID
	}

	p := models.Product{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Image:       f.Image,
		Owner:       owner,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, err
	}

	s.invalidateListCache()
	event.FireAsync(event.ProductCreated, p)
	return p, nil
}

// List returns a page of the catalog. Anonymous default listings are
// served from Redis when possible.
func (s *ProductService) List(ctx context.Context, opts repositories.ListOptions) ([]models.Product, repositories.Pagination, error) {
	type cached struct {
		Products   []models.Product        `json:"products"`
		Pagination repositories.Pagination `json:"pagination"`
	}

	key := listCacheKey(opts)
	var hit cached
	if cache.Get(key, &hit) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return hit.Products, hit.Pagination, nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	products, page, err := s.products.List(ctx, opts)
	if err != nil {
		return nil, repositories.Pagination{}, err
	}

	if err := cache.Set(key, cached{Products: products, Pagination: page}, listCacheTTL); err != nil {
		logger.Warn("products: list cache set failed", "error", err)
	}
	return products, page, nil
}

// ListMine is List pre-scoped to the caller's own products. Never cached;
// the owner needs to see their mutations immediately.
func (s *ProductService) ListMine(ctx context.Context, ownerID string, opts repositories.ListOptions) ([]models.Product, repositories.Pagination, error) {
	opts.Owner = ownerID
	return s.products.List(ctx, opts)
}

// Get returns a single product by id.
func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Update modifies a product the caller owns.
func (s *ProductService) Update(ctx context.Context, ownerID, id string, f ProductFields) (models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if existing.Owner.Hex() != ownerID {
		return models.Product{}, errs.ErrForbidden
	}

	existing.Title = f.Title
	existing.Description = f.Description
	existing.Price = f.Price
	existing.Image = f.Image

	updated, err := s.products.Update(ctx, &existing)
	if err != nil {
		return models.Product{}, err
	}

	s.invalidateListCache()
	event.FireAsync(event.ProductUpdated, updated)
	return updated, nil
}

// Delete removes a product the caller owns and returns the deleted document.
func (s *ProductService) Delete(ctx context.Context, ownerID, id string) (models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if existing.Owner.Hex() != ownerID {
		return models.Product{}, errs.ErrForbidden
	}

	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	s.invalidateListCache()
	event.FireAsync(event.ProductDeleted, deleted)
	return deleted, nil
}

func (s *ProductService) invalidateListCache() {
	if err := cache.DelPattern(listCachePrefix + "*"); err != nil {
		logger.Warn("products: list cache invalidation failed", "error", err)
	}
}

func listCacheKey(opts repositories.ListOptions) string {
	return fmt.Sprintf("%sp%d:l%d:s%s:k%s:o%s",
		listCachePrefix, opts.Page, opts.Limit, opts.Sort, opts.Keyword, opts.Owner)
}
