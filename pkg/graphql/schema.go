// Package graphql serves graphql-go schemas over HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/estoque/pkg/bind"
	"github.com/shashiranjanraj/estoque/pkg/response"
)

// NewSchema creates a read-only schema from a root query.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP body.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes queries sent as a JSON POST body or as GET ?query=.
// Resolver failures come back in the "errors" array with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			req.Query = q.Get("query")
			req.OperationName = q.Get("operationName")
			if vars := q.Get("variables"); vars != "" {
				if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
					response.Error(w, http.StatusBadRequest, "JSON inválido")
					return
				}
			}
		case http.MethodPost:
			if err := bind.JSON(r, &req); err != nil {
				response.Error(w, http.StatusBadRequest, "JSON inválido")
				return
			}
		default:
			response.Error(w, http.StatusMethodNotAllowed, "Método não permitido")
			return
		}

		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "Consulta GraphQL ausente")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		response.JSON(w, http.StatusOK, result)
	}
}
