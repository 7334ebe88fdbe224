package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/bind"
)

type payload struct {
	Nome string `json:"nome"`
}

func TestJSONDecodes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Mouse"}`))
	var p payload
	require.NoError(t, bind.JSON(req, &p))
	assert.Equal(t, "Mouse", p.Nome)
}

func TestJSONEmptyBodyIsNotAnError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var p payload
	require.NoError(t, bind.JSON(req, &p))
	assert.Empty(t, p.Nome)
}

func TestJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":`))
	var p payload
	assert.ErrorIs(t, bind.JSON(req, &p), bind.ErrMalformed)
}

func TestJSONTooLarge(t *testing.T) {
	t.Cleanup(config.Reset)
	config.Set("MAX_BODY_BYTES", "8")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"a very long product name"}`))
	var p payload
	err := bind.JSON(req, &p)
	assert.ErrorIs(t, err, bind.ErrMalformed)
	assert.Contains(t, err.Error(), "too large")
}
