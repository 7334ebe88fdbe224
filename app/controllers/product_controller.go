package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
)

type productPayload struct {
	Message string         `json:"message"`
	Produto models.Product `json:"produto"`
}

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index handles GET /api/produtos.
func (pc *ProductController) Index(c *ctx.Context) {
	products, err := pc.service.List(c.Context())
	if err != nil {
		fail(c, err, "Erro ao buscar produtos")
		return
	}
	c.JSON(http.StatusOK, products)
}

// Show handles GET /api/produtos/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.service.Find(c.Context(), models.ID(c.Param("id")))
	if err != nil {
		fail(c, err, "Erro ao buscar produto")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Store handles POST /api/produtos.
func (pc *ProductController) Store(c *ctx.Context) {
	var in requests.ProductRequest
	if !c.BindJSON(&in) {
		return
	}
	in.ApplyDefaults()

	p, err := pc.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err, "Erro ao criar produto")
		return
	}
	c.JSON(http.StatusCreated, productPayload{Message: "Produto criado com sucesso", Produto: p})
}

// Update handles PUT /api/produtos/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	var in requests.ProductRequest
	if !c.BindJSON(&in) {
		return
	}
	in.ApplyDefaults()

	p, err := pc.service.Update(c.Context(), models.ID(c.Param("id")), in)
	if err != nil {
		fail(c, err, "Erro ao atualizar produto")
		return
	}
	c.JSON(http.StatusOK, productPayload{Message: "Produto atualizado com sucesso", Produto: p})
}

// Destroy handles DELETE /api/produtos/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.service.Delete(c.Context(), models.ID(c.Param("id"))); err != nil {
		fail(c, err, "Erro ao deletar produto")
		return
	}
	c.Message(http.StatusOK, "Produto deletado com sucesso")
}
