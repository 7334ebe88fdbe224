// Package requests holds the validated input shapes of every write
// operation.
package requests

import (
	"strings"

	"github.com/shashiranjanraj/estoque/app/models"
)

// ProductRequest is the body of POST and PUT /api/produtos.
type ProductRequest struct {
	Nome       string  `json:"nome"       validate:"required"`
	Descricao  string  `json:"descricao"`
	Preco      Numeric `json:"preco"      validate:"required,numeric,gt=0"`
	Quantidade Numeric `json:"quantidade" validate:"required,integer,gte=0"`
}

func (ProductRequest) Messages() map[string]string {
	return map[string]string{
		"nome.required":       "Nome e preço são obrigatórios",
		"preco.required":      "Nome e preço são obrigatórios",
		"preco.numeric":       "Preço deve ser um número válido",
		"preco.gt":            "Preço deve ser maior que zero",
		"quantidade.required": "Quantidade é obrigatória",
		"quantidade.integer":  "Quantidade deve ser um número inteiro",
		"quantidade.gte":      "A quantidade deve ser maior ou igual a zero",
	}
}

// ApplyDefaults fills what HTTP clients may omit: quantidade becomes 0.
func (r *ProductRequest) ApplyDefaults() {
	if strings.TrimSpace(string(r.Quantidade)) == "" {
		r.Quantidade = "0"
	}
}

// Fields converts a request that already passed validation.
func (r ProductRequest) Fields() (models.ProductFields, error) {
	price, err := r.Preco.Float()
	if err != nil {
		return models.ProductFields{}, err
	}
	qty, err := r.Quantidade.Int()
	if err != nil {
		return models.ProductFields{}, err
	}
	return models.ProductFields{
		Name:        strings.TrimSpace(r.Nome),
		Description: r.Descricao,
		Price:       price,
		Quantity:    qty,
	}, nil
}
