package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/estoque/app/requests"
	"github.com/shashiranjanraj/estoque/app/services"
)

func init() {
	Register("produtos", SeedProducts)
	Register("usuarios", SeedUsers)
}

var demoProducts = []requests.ProductRequest{
	{Nome: "Caneta esferográfica azul", Descricao: "Caixa com 50 unidades", Preco: "42.90", Quantidade: "12"},
	{Nome: "Caderno universitário", Descricao: "200 folhas, capa dura", Preco: "24.50", Quantidade: "40"},
	{Nome: "Grampeador de mesa", Descricao: "Para até 25 folhas", Preco: "37.00", Quantidade: "8"},
	{Nome: "Papel A4", Descricao: "Resma com 500 folhas", Preco: "29.99", Quantidade: "0"},
}

// SeedProducts inserts the demo catalogue into an empty products table.
func SeedProducts(ctx context.Context, s Services) error {
	existing, err := s.Products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, p := range demoProducts {
		if _, err := s.Products.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers registers the demo account unless it already exists.
func SeedUsers(ctx context.Context, s Services) error {
	_, err := s.Users.Register(ctx, requests.RegisterRequest{
		Usuario:     "admin",
		Email:       "admin@estoque.local",
		Senha:       "admin123",
		Confirmacao: "admin123",
	})
	if errors.Is(err, services.ErrConflict) {
		return nil
	}
	return err
}
