// Package routes assembles the HTTP surface: controllers, middleware
// stack, WebSocket feed and the GraphQL endpoint.
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/vastra/app/controllers"
	"github.com/shashiranjanraj/vastra/app/feed"
	"github.com/shashiranjanraj/vastra/app/gqlschema"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/database"
	"github.com/shashiranjanraj/vastra/pkg/gql"
	"github.com/shashiranjanraj/vastra/pkg/logger"
	"github.com/shashiranjanraj/vastra/pkg/metrics"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/reqid"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/router"
)

// New builds the application router with every endpoint mounted.
func New() *router.Router {
	authService := services.NewAuthService(repositories.NewUserRepository())
	productService := services.NewProductService(repositories.NewProductRepository())

	authController := controllers.NewAuthController(authService)
	productController := controllers.NewProductController(productService)
	uploadController := controllers.NewUploadController()

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(200, time.Minute),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})

	r.Get("/", "home", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "Vastra API is running", nil)
	})
	r.Get("/health", "health", health)
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	auth.Post("/login", "auth.login", ctx.Wrap(authController.Login))
	auth.Get("/me", "auth.me", ctx.Wrap(authController.Me), middleware.Auth)

	products := api.Group("/products")
	products.Get("/feed", "products.feed", feed.Serve)
	products.Get("/my", "products.mine", ctx.Wrap(productController.ListMine), middleware.Auth)
	products.Get("", "products.list", ctx.Wrap(productController.List), middleware.OptionalAuth)
	products.Post("", "products.create", ctx.Wrap(productController.Create), middleware.Auth)
	products.Get("/{id}", "products.show", ctx.Wrap(productController.Get), middleware.OptionalAuth)
	products.Put("/{id}", "products.update", ctx.Wrap(productController.Update), middleware.Auth)
	products.Delete("/{id}", "products.delete", ctx.Wrap(productController.Delete), middleware.Auth)

	api.Post("/uploads", "uploads.image", ctx.Wrap(uploadController.Image), middleware.Auth)

	schema, err := gql.NewSchema(gqlschema.Query(productService))
	if err != nil {
		logger.Error("graphql schema build failed", "error", err)
	} else {
		api.Post("/graphql", "graphql", gql.Handler(schema))
	}

	return r
}

// health reports liveness plus the state of the MongoDB connection.
// The body is a bare status object, not the message envelope, so that
// load balancers and uptime probes get a stable shape.
func health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := database.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status}) //nolint:errcheck
}
