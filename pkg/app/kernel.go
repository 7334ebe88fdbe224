package app

import (
	"net/http"

	"github.com/shashiranjanraj/estoque/app/controllers"
	"github.com/shashiranjanraj/estoque/app/queries"
	"github.com/shashiranjanraj/estoque/app/routes"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/pkg/graphql"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
	"github.com/shashiranjanraj/estoque/pkg/middleware"
	"github.com/shashiranjanraj/estoque/pkg/reqid"
	"github.com/shashiranjanraj/estoque/pkg/response"
	"github.com/shashiranjanraj/estoque/pkg/router"
	"github.com/shashiranjanraj/estoque/pkg/sse"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

// Handler returns the complete HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}

// Router builds the router with the global middleware and every route.
func (a *Application) Router() *router.Router {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Recovery
	//  3. Request ID before anything logs
	//  4. Logger
	//  5. Method override, before chi picks the route
	//  6. CORS
	//  7. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.MethodOverride)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if a.limiter != nil {
		r.Use(middleware.RateLimit(a.limiter))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Rota não encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	r.Handle("/metrics", "metrics", metrics.Handler())
	r.Handle("/ws/produtos", "ws.produtos", a.Feed)
	r.Handle("/sse/produtos", "sse.produtos", a.Stream)

	schema, err := queries.NewSchema(a.Products, a.Users)
	if err != nil {
		logger.Error("graphql schema disabled", "error", err)
	} else {
		r.Handle("/graphql", "graphql", graphql.Handler(schema))
	}

	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProductController(a.Products),
		Users:    controllers.NewUserController(a.Users),
		System:   controllers.NewSystemController(a.driver()),
	})
	return r
}

func (a *Application) driver() string {
	if a.Adapter == nil {
		return ""
	}
	return a.Adapter.Driver()
}

// RouteTable lists every route without touching storage.
func RouteTable() []router.Route {
	a := &Application{
		Products: services.NewProductService(nil, nil),
		Users:    services.NewUserService(nil, nil),
		Feed:     ws.NewHub(),
		Stream:   sse.NewBroker(),
	}
	return a.Router().Routes()
}
