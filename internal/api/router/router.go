package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "shoemarket/docs" // Registra a especificação Swagger gerada

	"shoemarket/internal/api/cart"
	"shoemarket/internal/api/checkout"
	"shoemarket/internal/api/finder"
	"shoemarket/internal/api/listing"
	"shoemarket/internal/api/profile"
	"shoemarket/internal/api/user"
	"shoemarket/internal/api/wishlist"
	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/cache"
	"shoemarket/internal/pkg/logger"
	"shoemarket/internal/pkg/middleware"
)

// Handlers agrupa os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Listing  *listing.Handler
	Finder   *finder.Handler
	Cart     *cart.Handler
	Checkout *checkout.Handler
	Wishlist *wishlist.Handler
	Profile  *profile.Handler
	User     *user.Handler
}

// RateLimit configura o limitador por IP. Limit <= 0 desativa.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, auth middleware.Authenticator, cacheClient cache.Client, limit RateLimit, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	// --- 2. Health check, métricas e documentação ---
	r.Get("/ping", PingHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 3. API v1 ---
	r.Route("/v1", func(r chi.Router) {
		if limit.Limit > 0 {
			r.Use(middleware.RateLimiter(cacheClient, log, limit.Limit, limit.Window))
		}

		// Rotas públicas
		r.Post("/register", h.User.RegisterUserHandler)
		r.Post("/login", h.User.LoginUserHandler)
		r.Get("/finder/questions", h.Finder.QuestionsHandler)
		r.Post("/finder", h.Finder.FindHandler)

		// Autenticação opcional: catálogo, carrinho e checkout de visitante
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(auth, log))

			r.Get("/listings", h.Listing.BrowseHandler)
			r.Get("/listings/facets", h.Listing.FacetsHandler)
			r.Get("/listings/{id}", h.Listing.GetListingHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.GuestSession)

				r.Get("/cart", h.Cart.GetCartHandler)
				r.Delete("/cart", h.Cart.ClearCartHandler)
				r.Post("/cart/items", h.Cart.AddItemHandler)
				r.Put("/cart/items/{listingId}/{size}", h.Cart.UpdateQuantityHandler)
				r.Delete("/cart/items/{listingId}/{size}", h.Cart.RemoveItemHandler)

				r.Get("/checkout/quote", h.Checkout.QuoteHandler)
				r.Post("/checkout", h.Checkout.PlaceOrderHandler)
			})
		})

		// Autenticação obrigatória
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(auth))
			r.Use(middleware.PermissionMiddleware(domain.RoleCustomer, domain.RoleAdmin))

			r.Post("/listings", h.Listing.CreateListingHandler)
			r.Put("/listings/{id}", h.Listing.UpdateListingHandler)
			r.Delete("/listings/{id}", h.Listing.DeleteListingHandler)

			r.Get("/checkout/shipping", h.Checkout.PrefillHandler)

			r.Get("/wishlist", h.Wishlist.ListHandler)
			r.Post("/wishlist/{listingId}/toggle", h.Wishlist.ToggleHandler)

			r.Get("/me", h.Profile.MeHandler)
			r.Patch("/me", h.Profile.UpdateHandler)
			r.Get("/me/stats", h.Profile.StatsHandler)
			r.Get("/me/listings", h.Listing.MyListingsHandler)
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
