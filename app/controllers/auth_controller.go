package controllers

import (
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// RegisterInput is the POST /api/auth/register request body.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the POST /api/auth/login request body.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthController handles registration, login, and the current-user endpoint.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register creates an account and returns the user with a token.
func (c *AuthController) Register(cc *ctx.Context) {
	var in RegisterInput
	if !cc.BindJSON(&in) {
		return
	}

	user, token, err := c.service.Register(cc.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Created("User registered successfully", response.Fields{
		"user":  user.Public(),
		"token": token,
	})
}

// Login verifies credentials and returns the user with a token.
func (c *AuthController) Login(cc *ctx.Context) {
	var in LoginInput
	if !cc.BindJSON(&in) {
		return
	}

	user, token, err := c.service.Login(cc.Context(), in.Email, in.Password)
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Login successful", response.Fields{
		"user":  user.Public(),
		"token": token,
	})
}

// Me returns the account behind the presented token.
func (c *AuthController) Me(cc *ctx.Context) {
	id, ok := middleware.IdentityFromCtx(cc.Context())
	if !ok {
		cc.Unauthorized()
		return
	}

	user, err := c.service.Me(cc.Context(), id.UserID)
	if err != nil {
		cc.Unauthorized("Token is valid but user not found.")
		return
	}

	cc.Success("User retrieved successfully", response.Fields{
		"user": user.Public(),
	})
}
