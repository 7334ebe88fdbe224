package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

// SystemController answers the liveness probes.
type SystemController struct {
	driver string
}

func NewSystemController(driver string) *SystemController {
	return &SystemController{driver: driver}
}

// Root handles GET /.
func (sc *SystemController) Root(c *ctx.Context) {
	c.JSON(http.StatusOK, map[string]string{"status": "ok", "driver": sc.driver})
}

// Test handles GET /api/test.
func (sc *SystemController) Test(c *ctx.Context) {
	c.Message(http.StatusOK, "API funcionando corretamente!")
}
