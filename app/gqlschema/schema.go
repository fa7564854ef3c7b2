// Package gqlschema defines the read-only GraphQL surface of the catalog.
//
// Only queries are exposed; every mutation goes through the REST API where
// authentication and ownership checks live. Example query:
//
//	{
//	  products(page: 1, limit: 5, keyword: "silk") {
//	    items { id title price }
//	    pagination { totalItems hasNextPage }
//	  }
//	}
package gqlschema

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).ID.Hex(), nil
			},
		},
		"title": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Title, nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Description, nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Price, nil
			},
		},
		"image": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Image, nil
			},
		},
		"owner": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).Owner.Hex(), nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.DateTime,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).CreatedAt, nil
			},
		},
		"updatedAt": &graphql.Field{
			Type: graphql.DateTime,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Product).UpdatedAt, nil
			},
		},
	},
})

var paginationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Pagination",
	Fields: graphql.Fields{
		"currentPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalPages":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"totalItems":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"limit":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"hasNextPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"hasPrevPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

type productPage struct {
	Items      []models.Product        `json:"items"`
	Pagination repositories.Pagination `json:"pagination"`
}

var productPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"items": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(productPage).Items, nil
			},
		},
		"pagination": &graphql.Field{
			Type: graphql.NewNonNull(paginationType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(productPage).Pagination, nil
			},
		},
	},
})

// Query builds the root query object backed by svc.
func Query(svc *services.ProductService) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Get(p.Context, p.Args["id"].(string))
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(productPageType),
				Args: graphql.FieldConfigArgument{
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"keyword": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"sort":    &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					opts := repositories.ListOptions{
						Keyword: p.Args["keyword"].(string),
						Sort:    p.Args["sort"].(string),
						Page:    p.Args["page"].(int),
						Limit:   p.Args["limit"].(int),
					}
					items, pg, err := svc.List(p.Context, opts)
					if err != nil {
						return nil, err
					}
					return productPage{Items: items, Pagination: pg}, nil
				},
			},
		},
	})
}
