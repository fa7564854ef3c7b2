package controllers

import (
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
	"github.com/shashiranjanraj/vastra/pkg/middleware"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// ProductInput is the create/update request body. Price is a pointer so a
// free product (price 0) is distinguishable from a missing price.
type ProductInput struct {
	Title       string   `json:"title"       validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Image       string   `json:"image"       validate:"required,url"`
}

func (in *ProductInput) fields() services.ProductFields {
	return services.ProductFields{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Image:       in.Image,
	}
}

// ProductController handles the catalog CRUD endpoints.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// listOptions reads the shared listing query parameters.
func listOptions(cc *ctx.Context) repositories.ListOptions {
	return repositories.ListOptions{
		Keyword: cc.Query("keyword"),
		Sort:    cc.Query("sort"),
		Page:    cc.QueryInt("page", 1),
		Limit:   cc.QueryInt("limit", 0),
	}
}

// List returns a public page of the catalog.
func (c *ProductController) List(cc *ctx.Context) {
	products, page, err := c.service.List(cc.Context(), listOptions(cc))
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Products retrieved successfully", response.Fields{
		"products":   products,
		"pagination": page,
	})
}

// ListMine returns the caller's own products.
func (c *ProductController) ListMine(cc *ctx.Context) {
	id, ok := middleware.IdentityFromCtx(cc.Context())
	if !ok {
		cc.Unauthorized()
		return
	}

	products, page, err := c.service.ListMine(cc.Context(), id.UserID, listOptions(cc))
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Products retrieved successfully", response.Fields{
		"products":   products,
		"pagination": page,
	})
}

// Get returns one product by id.
func (c *ProductController) Get(cc *ctx.Context) {
	product, err := c.service.Get(cc.Context(), cc.Param("id"))
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Product retrieved successfully", response.Fields{
		"product": product,
	})
}

// Create adds a product owned by the caller.
func (c *ProductController) Create(cc *ctx.Context) {
	id, ok := middleware.IdentityFromCtx(cc.Context())
	if !ok {
		cc.Unauthorized()
		return
	}

	var in ProductInput
	if !cc.BindJSON(&in) {
		return
	}

	product, err := c.service.Create(cc.Context(), id.UserID, in.fields())
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Created("Product created successfully", response.Fields{
		"product": product,
	})
}

// Update modifies a product the caller owns.
func (c *ProductController) Update(cc *ctx.Context) {
	id, ok := middleware.IdentityFromCtx(cc.Context())
	if !ok {
		cc.Unauthorized()
		return
	}

	var in ProductInput
	if !cc.BindJSON(&in) {
		return
	}

	product, err := c.service.Update(cc.Context(), id.UserID, cc.Param("id"), in.fields())
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Product updated successfully", response.Fields{
		"product": product,
	})
}

// Delete removes a product the caller owns and echoes the deleted document.
func (c *ProductController) Delete(cc *ctx.Context) {
	id, ok := middleware.IdentityFromCtx(cc.Context())
	if !ok {
		cc.Unauthorized()
		return
	}

	product, err := c.service.Delete(cc.Context(), id.UserID, cc.Param("id"))
	if err != nil {
		cc.FromErr(err)
		return
	}

	cc.Success("Product deleted successfully", response.Fields{
		"product": product,
	})
}
