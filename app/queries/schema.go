// Package queries is the read-only GraphQL view of products and users.
package queries

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/services"
	gql "github.com/shashiranjanraj/estoque/pkg/graphql"
)

func idField() *graphql.Field {
	return &graphql.Field{
		Type: graphql.NewNonNull(graphql.ID),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			switch src := p.Source.(type) {
			case models.Product:
				return src.ID.String(), nil
			case models.User:
				return src.ID.String(), nil
			}
			return nil, nil
		},
	}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Produto",
	Fields: graphql.Fields{
		"id":         idField(),
		"nome":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"descricao":  &graphql.Field{Type: graphql.String},
		"preco":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"quantidade": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"createdAt":  &graphql.Field{Type: graphql.DateTime},
		"updatedAt":  &graphql.Field{Type: graphql.DateTime},
	},
})

// userType never exposes the password.
var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Usuario",
	Fields: graphql.Fields{
		"id":        idField(),
		"usuario":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
	},
})

// NewSchema builds the schema on top of the services.
func NewSchema(products *services.ProductService, users *services.UserService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"produtos": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := products.List(p.Context)
					if err != nil {
						return nil, clientError(err)
					}
					return list, nil
				},
			},
			"produto": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					product, err := products.Find(p.Context, models.ID(id))
					if err != nil {
						return nil, clientError(err)
					}
					return product, nil
				},
			},
			"usuario": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"usuario": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					username, _ := p.Args["usuario"].(string)
					u, err := users.FindByUsername(p.Context, username)
					if err != nil {
						return nil, clientError(err)
					}
					return u, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// clientError strips the storage cause so it never reaches the response.
func clientError(err error) error {
	return errors.New(services.Message(err, "Erro interno do servidor"))
}
