package routes

import (
	"github.com/shashiranjanraj/estoque/app/controllers"
	"github.com/shashiranjanraj/estoque/pkg/ctx"
	"github.com/shashiranjanraj/estoque/pkg/router"
)

// Controllers is everything RegisterAPI mounts.
type Controllers struct {
	Products *controllers.ProductController
	Users    *controllers.UserController
	System   *controllers.SystemController
}

func RegisterAPI(r *router.Router, c Controllers) {
	r.Get("/", "root", ctx.Wrap(c.System.Root))

	api := r.Group("/api")
	api.Get("/test", "api.test", ctx.Wrap(c.System.Test))

	produtos := api.Group("/produtos")
	produtos.Get("/", "produtos.index", ctx.Wrap(c.Products.Index))
	produtos.Post("/", "produtos.store", ctx.Wrap(c.Products.Store))
	produtos.Get("/{id}", "produtos.show", ctx.Wrap(c.Products.Show))
	produtos.Put("/{id}", "produtos.update", ctx.Wrap(c.Products.Update))
	produtos.Delete("/{id}", "produtos.destroy", ctx.Wrap(c.Products.Destroy))

	usuarios := api.Group("/usuarios")
	usuarios.Post("/", "usuarios.store", ctx.Wrap(c.Users.Store))
	usuarios.Post("/login", "usuarios.login", ctx.Wrap(c.Users.Login))
	usuarios.Get("/buscar/{usuario}", "usuarios.buscar", ctx.Wrap(c.Users.ShowByUsername))
	usuarios.Get("/email/{email}", "usuarios.email", ctx.Wrap(c.Users.ShowByEmail))
}
