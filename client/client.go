// Package client is the Go SDK for the Vastra marketplace API.
//
// Usage:
//
//	c := client.New("https://api.vastra.example")
//	if err := c.Login(ctx, "priya@example.com", "secret"); err != nil {
//	    ...
//	}
//	page, err := c.ListProducts(ctx, client.ListQuery{Keyword: "silk"})
//
// The client keeps the session token internally after Login or Register
// and attaches it as a Bearer header to authenticated calls.
package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/httpclient"
)

// User is the public view of an account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product mirrors the API's product document.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Pagination is the page metadata returned by listing endpoints.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// ProductPage bundles one page of products with its metadata.
type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// ListQuery holds the optional listing parameters.
type ListQuery struct {
	Keyword string
	Sort    string // e.g. "price" or "-createdAt"
	Page    int
	Limit   int
}

// Session is the authenticated state after Login or Register.
type Session struct {
	Token string
	User  User
}

// Client talks to a Vastra API server. It is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration

	mu      sync.RWMutex
	session *Session

	// OnLogin and OnLogout, when set, observe session changes. Useful
	// for persisting tokens across CLI invocations.
	OnLogin  func(Session)
	OnLogout func()
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 15s per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.session = &Session{Token: token} }
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
	if c.OnLogin != nil {
		c.OnLogin(s)
	}
}

// Logout drops the local session. The server is stateless, so no
// request is made; the token simply stops being attached.
func (c *Client) Logout() {
	c.mu.Lock()
	had := c.session != nil
	c.session = nil
	c.mu.Unlock()
	if had && c.OnLogout != nil {
		c.OnLogout()
	}
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

type authEnvelope struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// Register creates an account and stores the resulting session.
func (c *Client) Register(ctx context.Context, name, email, password string) (User, error) {
	var env authEnvelope
	err := c.call(ctx, httpclient.Post(c.baseURL+"/api/auth/register").Body(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}), &env)
	if err != nil {
		return User{}, err
	}
	c.setSession(Session{Token: env.Token, User: env.User})
	return env.User, nil
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var env authEnvelope
	err := c.call(ctx, httpclient.Post(c.baseURL+"/api/auth/login").Body(map[string]string{
		"email":    email,
		"password": password,
	}), &env)
	if err != nil {
		return User{}, err
	}
	c.setSession(Session{Token: env.Token, User: env.User})
	return env.User, nil
}

// Me fetches the account behind the current session token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var env authEnvelope
	if err := c.call(ctx, httpclient.Get(c.baseURL+"/api/auth/me"), &env); err != nil {
		return User{}, err
	}
	return env.User, nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

type productEnvelope struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

type listEnvelope struct {
	Message    string     `json:"message"`
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// ListProducts fetches one page of the public catalog.
func (c *Client) ListProducts(ctx context.Context, q ListQuery) (ProductPage, error) {
	var env listEnvelope
	err := c.call(ctx, httpclient.Get(c.baseURL+"/api/products"+q.encode()), &env)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: env.Products, Pagination: env.Pagination}, nil
}

// MyProducts fetches one page of the caller's own listings.
func (c *Client) MyProducts(ctx context.Context, q ListQuery) (ProductPage, error) {
	var env listEnvelope
	err := c.call(ctx, httpclient.Get(c.baseURL+"/api/products/my"+q.encode()), &env)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Products: env.Products, Pagination: env.Pagination}, nil
}

// GetProduct fetches a single product by its hex ID.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var env productEnvelope
	err := c.call(ctx, httpclient.Get(c.baseURL+"/api/products/"+url.PathEscape(id)), &env)
	return env.Product, err
}

// CreateProduct creates a listing owned by the session user.
func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	var env productEnvelope
	err := c.call(ctx, httpclient.Post(c.baseURL+"/api/products").Body(in), &env)
	return env.Product, err
}

// UpdateProduct replaces the mutable fields of an owned listing.
func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	var env productEnvelope
	err := c.call(ctx, httpclient.Put(c.baseURL+"/api/products/"+url.PathEscape(id)).Body(in), &env)
	return env.Product, err
}

// DeleteProduct removes an owned listing and returns the deleted document.
func (c *Client) DeleteProduct(ctx context.Context, id string) (Product, error) {
	var env productEnvelope
	err := c.call(ctx, httpclient.Delete(c.baseURL+"/api/products/"+url.PathEscape(id)), &env)
	return env.Product, err
}

// ─── Plumbing ─────────────────────────────────────────────────────────────────

// call executes req, decodes the envelope into dest on success, and
// converts error responses into *APIError values.
func (c *Client) call(ctx context.Context, req *httpclient.Request, dest interface{}) error {
	req = req.WithContext(ctx).Timeout(c.timeout)
	if tok := c.token(); tok != "" {
		req = req.Bearer(tok)
	}

	resp, err := req.Send()
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiErrorFrom(resp)
	}
	if dest == nil {
		return nil
	}
	return resp.JSON(dest)
}

func (q ListQuery) encode() string {
	vals := url.Values{}
	if q.Keyword != "" {
		vals.Set("keyword", q.Keyword)
	}
	if q.Sort != "" {
		vals.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(vals) == 0 {
		return ""
	}
	return "?" + vals.Encode()
}
