package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/controllers"
	basketcontrollers "github.com/lukefryer1234/Oak-Structures-website-sub001/api/controllers/basket"
	catalogcontrollers "github.com/lukefryer1234/Oak-Structures-website-sub001/api/controllers/catalog"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/api/middleware"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/internal/basket"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/logger"
)

// Dependencies groups what the HTTP surface needs.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Catalog  catalogcontrollers.Catalog
	Basket   basket.Service
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", catalogcontrollers.ProductList(deps.Catalog, logg))
		r.Get("/products/{productID}", catalogcontrollers.ProductDetail(deps.Catalog, logg))
		r.Post("/products/{productID}/quote", catalogcontrollers.ProductQuote(deps.Basket, logg))
	})

	r.Route("/api/v1/basket", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, logg))

		r.Get("/", basketcontrollers.BasketFetch(deps.Basket, logg))
		r.Delete("/", basketcontrollers.BasketClear(deps.Basket, logg))
		r.Post("/items", basketcontrollers.BasketAddItem(deps.Basket, logg))
		r.Patch("/items/{itemKey}", basketcontrollers.BasketUpdateItem(deps.Basket, logg))
		r.Delete("/items/{itemKey}", basketcontrollers.BasketRemoveItem(deps.Basket, logg))
		r.Post("/merge", basketcontrollers.BasketMerge(deps.Basket, logg))
	})

	return r
}
