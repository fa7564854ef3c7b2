package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/errs"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

// memUserStore is an in-memory services.UserStore for handler tests.
type memUserStore struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[u.Email]; ok {
		return errs.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.byEmail[u.Email] = *u
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[email]
	if !ok {
		return models.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return models.User{}, errs.ErrNotFound
}

// authTestServer mounts the auth endpoints exactly as routes.New does,
// but over the in-memory store.
func authTestServer(t *testing.T) (*httptest.Server, *memUserStore) {
	t.Helper()

	store := newMemUserStore()
	c := NewAuthController(services.NewAuthService(store))

	r := router.New()
	api := r.Group("/api/auth")
	api.Post("/register", "auth.register", ctx.Wrap(c.Register))
	api.Post("/login", "auth.login", ctx.Wrap(c.Login))
	api.Get("/me", "auth.me", ctx.Wrap(c.Me), middleware.Auth)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func getJSON(t *testing.T, url, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestRegisterEndpoint(t *testing.T) {
	srv, _ := authTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "Priya", "email": "priya@example.com", "password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "User registered successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if body["token"] == nil || body["token"] == "" {
		t.Error("no token in register response")
	}
	user, _ := body["user"].(map[string]interface{})
	if user["email"] != "priya@example.com" {
		t.Errorf("user = %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password leaked in response")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, _ := authTestServer(t)

	in := map[string]string{"name": "Priya", "email": "priya@example.com", "password": "secret123"}
	postJSON(t, srv.URL+"/api/auth/register", in, "")
	resp, body := postJSON(t, srv.URL+"/api/auth/register", in, "")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "User with this email already exists" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestEmailCaseInsensitive(t *testing.T) {
	srv, _ := authTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "Priya", "email": "Priya@Example.com", "password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body %v", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]interface{})
	if user["email"] != "priya@example.com" {
		t.Errorf("stored email = %v, want lowercase", user["email"])
	}

	resp, body = postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "priya@example.com", "password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lowercase login status = %d, body %v", resp.StatusCode, body)
	}

	resp, body = postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "Priya", "email": "PRIYA@EXAMPLE.COM", "password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("uppercase re-register status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "User with this email already exists" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := authTestServer(t)

	resp, body := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "P", "email": "nope", "password": "abc",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["message"] != "Validation failed" {
		t.Errorf("message = %v", body["message"])
	}
	fieldErrs, _ := body["errors"].(map[string]interface{})
	for _, field := range []string{"name", "email", "password"} {
		if fieldErrs[field] == nil {
			t.Errorf("no validation error for %s: %v", field, fieldErrs)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	srv, _ := authTestServer(t)
	postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "Priya", "email": "priya@example.com", "password": "secret123",
	}, "")

	resp, body := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
		"email": "priya@example.com", "password": "secret123",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "Login successful" {
		t.Errorf("message = %v", body["message"])
	}

	// Wrong password and unknown email produce the same response.
	for _, in := range []map[string]string{
		{"email": "priya@example.com", "password": "wrong-pass"},
		{"email": "ghost@example.com", "password": "secret123"},
	} {
		resp, body := postJSON(t, srv.URL+"/api/auth/login", in, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d for %v, want 401", resp.StatusCode, in)
		}
		if body["message"] != "Invalid email or password" {
			t.Errorf("message = %v for %v", body["message"], in)
		}
	}
}

func TestMeEndpoint(t *testing.T) {
	srv, _ := authTestServer(t)
	_, reg := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
		"name": "Priya", "email": "priya@example.com", "password": "secret123",
	}, "")
	token, _ := reg["token"].(string)

	resp, body := getJSON(t, srv.URL+"/api/auth/me", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["message"] != "User retrieved successfully" {
		t.Errorf("message = %v", body["message"])
	}

	resp, body = getJSON(t, srv.URL+"/api/auth/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Access denied. No token provided." {
		t.Errorf("anonymous message = %v", body["message"])
	}
}

func TestMeTokenForDeletedUser(t *testing.T) {
	srv, _ := authTestServer(t)

	// Token is validly signed but its subject does not exist in the store.
	token, err := auth.GenerateToken(primitive.NewObjectID().Hex(), "ghost@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	resp, body := getJSON(t, srv.URL+"/api/auth/me", token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["message"] != "Token is valid but user not found." {
		t.Errorf("message = %v", body["message"])
	}
}
