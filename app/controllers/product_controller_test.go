package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

// memProductStore is an in-memory services.ProductStore that mirrors the
// Mongo repository's listing semantics closely enough for handler tests.
type memProductStore struct {
	mu       sync.Mutex
	products []models.Product
}

func (s *memProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.products = append(s.products, *p)
	return nil
}

func (s *memProductStore) List(_ context.Context, opts repositories.ListOptions) ([]models.Product, repositories.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Product{}
	for _, p := range s.products {
		if opts.Owner != "" && p.Owner.Hex() != opts.Owner {
			continue
		}
		if opts.Keyword != "" {
			kw := strings.ToLower(opts.Keyword)
			if !strings.Contains(strings.ToLower(p.Title), kw) &&
				!strings.Contains(strings.ToLower(p.Description), kw) {
				continue
			}
		}
		matched = append(matched, p)
	}
	// Newest first, like the repository default.
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}
	total := int64(len(matched))
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], repositories.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}, nil
}

func (s *memProductStore) FindByID(_ context.Context, id string) (models.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return models.Product{}, errs.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return models.Product{}, errs.ErrNotFound
}

func (s *memProductStore) Update(_ context.Context, p *models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			p.UpdatedAt = time.Now().UTC()
			s.products[i] = *p
			return *p, nil
		}
	}
	return models.Product{}, errs.ErrNotFound
}

func (s *memProductStore) Delete(_ context.Context, id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID.Hex() == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return p, nil
		}
	}
	return models.Product{}, errs.ErrNotFound
}

// productTestServer mounts the product endpoints over the in-memory store
// and returns a valid bearer token for owner.
func productTestServer(t *testing.T) (*httptest.Server, *memProductStore) {
	t.Helper()

	store := &memProductStore{}
	c := NewProductController(services.NewProductService(store))

	r := router.New()
	api := r.Group("/api/products")
	api.Get("/my", "products.mine", ctx.Wrap(c.ListMine), middleware.Auth)
	api.Get("", "products.list", ctx.Wrap(c.List), middleware.OptionalAuth)
	api.Post("", "products.create", ctx.Wrap(c.Create), middleware.Auth)
	api.Get("/{id}", "products.show", ctx.Wrap(c.Get))
	api.Put("/{id}", "products.update", ctx.Wrap(c.Update), middleware.Auth)
	api.Delete("/{id}", "products.delete", ctx.Wrap(c.Delete), middleware.Auth)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func tokenFor(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, email)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func sendJSON(t *testing.T, method, url string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	if method == http.MethodPost {
		return postJSON(t, url, body, token)
	}
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func validProduct(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "Handwoven drape with a zari border.",
		"price":       4999.0,
		"image":       "https://cdn.example.com/products/saree.jpg",
	}
}

func TestCreateProductEndpoint(t *testing.T) {
	srv, _ := productTestServer(t)
	owner := primitive.NewObjectID().Hex()
	token := tokenFor(t, owner, "priya@example.com")

	resp, body := postJSON(t, srv.URL+"/api/products", validProduct("Banarasi Silk Saree"), token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "Product created successfully" {
		t.Errorf("message = %v", body["message"])
	}
	product, _ := body["product"].(map[string]interface{})
	if product["owner"] != owner {
		t.Errorf("owner = %v, want %s (from token, not input)", product["owner"], owner)
	}
}

func TestCreateProductRequiresAuth(t *testing.T) {
	srv, _ := productTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/products", validProduct("Saree"), "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Access denied. No token provided." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCreateProductValidation(t *testing.T) {
	srv, _ := productTestServer(t)
	token := tokenFor(t, primitive.NewObjectID().Hex(), "priya@example.com")

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"short title", map[string]interface{}{"title": "A", "description": "A long enough description.", "price": 10.0, "image": "https://cdn.example.com/a.jpg"}, "title"},
		{"missing price", map[string]interface{}{"title": "Saree", "description": "A long enough description.", "image": "https://cdn.example.com/a.jpg"}, "price"},
		{"negative price", map[string]interface{}{"title": "Saree", "description": "A long enough description.", "price": -5.0, "image": "https://cdn.example.com/a.jpg"}, "price"},
		{"short description", map[string]interface{}{"title": "Saree", "description": "short", "price": 10.0, "image": "https://cdn.example.com/a.jpg"}, "description"},
		{"missing image", map[string]interface{}{"title": "Saree", "description": "A long enough description.", "price": 10.0}, "image"},
		{"image not a url", map[string]interface{}{"title": "Saree", "description": "A long enough description.", "price": 10.0, "image": "saree.jpg"}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, srv.URL+"/api/products", tt.body, token)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, body %v", resp.StatusCode, body)
			}
			fieldErrs, _ := body["errors"].(map[string]interface{})
			if fieldErrs[tt.field] == nil {
				t.Errorf("no error for %q: %v", tt.field, fieldErrs)
			}
		})
	}

	t.Run("price zero is allowed", func(t *testing.T) {
		in := validProduct("Free Sample Swatch")
		in["price"] = 0.0
		resp, body := postJSON(t, srv.URL+"/api/products", in, token)
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("status = %d, body %v; a free product must be creatable", resp.StatusCode, body)
		}
	})
}

func TestGetProductEndpoint(t *testing.T) {
	srv, _ := productTestServer(t)
	token := tokenFor(t, primitive.NewObjectID().Hex(), "priya@example.com")
	_, created := postJSON(t, srv.URL+"/api/products", validProduct("Saree"), token)
	id := created["product"].(map[string]interface{})["id"].(string)

	resp, body := getJSON(t, srv.URL+"/api/products/"+id, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "Product retrieved successfully" {
		t.Errorf("message = %v", body["message"])
	}

	// Well-formed but unknown id vs malformed id.
	resp, body = getJSON(t, srv.URL+"/api/products/"+primitive.NewObjectID().Hex(), "")
	if resp.StatusCode != http.StatusNotFound || body["message"] != "Product not found" {
		t.Errorf("unknown id: status = %d, message %v", resp.StatusCode, body["message"])
	}
	resp, body = getJSON(t, srv.URL+"/api/products/not-hex", "")
	if resp.StatusCode != http.StatusBadRequest || body["message"] != "Invalid product ID" {
		t.Errorf("malformed id: status = %d, message %v", resp.StatusCode, body["message"])
	}
}

func TestListProductsEndpoint(t *testing.T) {
	srv, _ := productTestServer(t)
	token := tokenFor(t, primitive.NewObjectID().Hex(), "priya@example.com")
	postJSON(t, srv.URL+"/api/products", validProduct("Banarasi Silk Saree"), token)
	postJSON(t, srv.URL+"/api/products", validProduct("Cotton Kurta"), token)
	shawl := validProduct("Pashmina Shawl")
	shawl["description"] = "Soft shawl with silk embroidery."
	postJSON(t, srv.URL+"/api/products", shawl, token)

	resp, body := getJSON(t, srv.URL+"/api/products", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	products, _ := body["products"].([]interface{})
	if len(products) != 3 {
		t.Errorf("len(products) = %d, want 3", len(products))
	}
	pg, _ := body["pagination"].(map[string]interface{})
	if pg["totalItems"] != 3.0 || pg["currentPage"] != 1.0 {
		t.Errorf("pagination = %v", pg)
	}

	// Matches the saree by title and the shawl by description, not the kurta.
	resp, body = getJSON(t, srv.URL+"/api/products?keyword=silk", "")
	products, _ = body["products"].([]interface{})
	if len(products) != 2 {
		t.Errorf("keyword filter: len = %d, want 2", len(products))
	}
	for _, p := range products {
		title := p.(map[string]interface{})["title"]
		if title == "Cotton Kurta" {
			t.Errorf("keyword filter returned %v", title)
		}
	}
}

func TestListMineEndpoint(t *testing.T) {
	srv, _ := productTestServer(t)
	priya := primitive.NewObjectID().Hex()
	rahul := primitive.NewObjectID().Hex()
	priyaToken := tokenFor(t, priya, "priya@example.com")
	rahulToken := tokenFor(t, rahul, "rahul@example.com")

	postJSON(t, srv.URL+"/api/products", validProduct("Priya's Saree"), priyaToken)
	postJSON(t, srv.URL+"/api/products", validProduct("Rahul's Kurta"), rahulToken)

	resp, body := getJSON(t, srv.URL+"/api/products/my", priyaToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	products, _ := body["products"].([]interface{})
	if len(products) != 1 {
		t.Fatalf("len = %d, want only own products", len(products))
	}
	title := products[0].(map[string]interface{})["title"]
	if title != "Priya's Saree" {
		t.Errorf("title = %v", title)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	srv, _ := productTestServer(t)
	owner := primitive.NewObjectID().Hex()
	ownerToken := tokenFor(t, owner, "priya@example.com")
	intruderToken := tokenFor(t, primitive.NewObjectID().Hex(), "rahul@example.com")

	_, created := postJSON(t, srv.URL+"/api/products", validProduct("Saree"), ownerToken)
	id := created["product"].(map[string]interface{})["id"].(string)

	in := validProduct("Saree (updated)")
	resp, body := sendJSON(t, http.MethodPut, srv.URL+"/api/products/"+id, in, intruderToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("intruder update: status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = sendJSON(t, http.MethodPut, srv.URL+"/api/products/"+id, in, ownerToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner update: status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "Product updated successfully" {
		t.Errorf("message = %v", body["message"])
	}
	product := body["product"].(map[string]interface{})
	if product["title"] != "Saree (updated)" {
		t.Errorf("title = %v", product["title"])
	}
	if product["owner"] != owner {
		t.Errorf("owner changed on update: %v", product["owner"])
	}
}

func TestDeleteProductOwnership(t *testing.T) {
	srv, store := productTestServer(t)
	ownerToken := tokenFor(t, primitive.NewObjectID().Hex(), "priya@example.com")
	intruderToken := tokenFor(t, primitive.NewObjectID().Hex(), "rahul@example.com")

	_, created := postJSON(t, srv.URL+"/api/products", validProduct("Saree"), ownerToken)
	id := created["product"].(map[string]interface{})["id"].(string)

	resp, _ := sendJSON(t, http.MethodDelete, srv.URL+"/api/products/"+id, nil, intruderToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("intruder delete: status = %d", resp.StatusCode)
	}

	resp, body := sendJSON(t, http.MethodDelete, srv.URL+"/api/products/"+id, nil, ownerToken)
	if resp.StatusCode != http.StatusOK || body["message"] != "Product deleted successfully" {
		t.Fatalf("owner delete: status = %d, body %v", resp.StatusCode, body)
	}

	store.mu.Lock()
	remaining := len(store.products)
	store.mu.Unlock()
	if remaining != 0 {
		t.Errorf("store still holds %d products", remaining)
	}
}
