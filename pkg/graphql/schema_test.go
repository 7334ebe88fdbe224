package graphql_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gql "github.com/shashiranjanraj/estoque/pkg/graphql"
)

func greeter(t *testing.T) http.HandlerFunc {
	t.Helper()
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"ola": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"nome": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "mundo"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "olá, " + p.Args["nome"].(string), nil
				},
			},
		},
	})
	schema, err := gql.NewSchema(query)
	require.NoError(t, err)
	return gql.Handler(schema)
}

func TestPostWithVariables(t *testing.T) {
	body := `{"query":"query($n: String){ ola(nome: $n) }","variables":{"n":"ana"}}`
	rec := httptest.NewRecorder()
	greeter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"ola":"olá, ana"}}`, rec.Body.String())
}

func TestGetQuery(t *testing.T) {
	rec := httptest.NewRecorder()
	target := "/graphql?query=" + url.QueryEscape("{ ola }")
	greeter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"ola":"olá, mundo"}}`, rec.Body.String())
}

func TestRejectedRequests(t *testing.T) {
	h := greeter(t)

	cases := []struct {
		method, target, body string
		code                 int
		message              string
	}{
		{http.MethodPost, "/graphql", `{"query":`, http.StatusBadRequest, "JSON inválido"},
		{http.MethodPost, "/graphql", `{}`, http.StatusBadRequest, "Consulta GraphQL ausente"},
		{http.MethodGet, "/graphql?variables=%7B", "", http.StatusBadRequest, "JSON inválido"},
		{http.MethodDelete, "/graphql", "", http.StatusMethodNotAllowed, "Método não permitido"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
		assert.Equal(t, tc.code, rec.Code, "%s %s", tc.method, tc.target)
		assert.Contains(t, rec.Body.String(), tc.message)
	}
}

func TestSyntaxErrorsComeBackInErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	greeter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ ola "}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}
