package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorCarriesBothKeys(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, http.StatusNotFound, "Produto não encontrado")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.EqualValues(t, 404, body["status"])
	assert.Equal(t, "Produto não encontrado", body["error"])
	assert.Equal(t, "Produto não encontrado", body["message"])
	assert.NotContains(t, body, "field")
}

func TestInvalidNamesFieldAndRule(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Invalid(rec, "preco", "preco.gt", "Preço deve ser maior que zero")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "preco", body["field"])
	assert.Equal(t, "preco.gt", body["rule"])
}

func TestInternalErrorIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	response.InternalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erro interno do servidor", decode(t, rec)["message"])
}
