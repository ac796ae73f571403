package router

import (
	"net/http"

	"furnistore/internal/handler"
	"furnistore/internal/metrics"
	"furnistore/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Wishlist *handler.WishlistHandler
	Address  *handler.AddressHandler
	Voucher  *handler.VoucherHandler
	Delivery *handler.DeliveryHandler
	Order    *handler.OrderHandler
	Content  *handler.ContentHandler
}

// Options holds the router's cross-cutting settings.
type Options struct {
	APIKey         string
	AllowedOrigins []string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth -> UserContext
	r.Use(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Metrics(m),
		middleware.CORS(opts.AllowedOrigins),
		middleware.APIKeyAuth(opts.APIKey, logger),
		middleware.UserContext(logger),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productId}", h.Cart.UpdateItem)
			r.Delete("/items/{productId}", h.Cart.RemoveItem)
			r.Put("/voucher", h.Cart.SelectVoucher)
			r.Delete("/voucher", h.Cart.ClearVoucher)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.List)
			r.Post("/{productId}", h.Wishlist.Add)
			r.Delete("/{productId}", h.Wishlist.Remove)
			r.Post("/{productId}/move-to-cart", h.Wishlist.MoveToCart)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", h.Address.List)
			r.Post("/", h.Address.Create)
			r.Put("/{id}", h.Address.Update)
			r.Delete("/{id}", h.Address.Delete)
			r.Post("/{id}/default", h.Address.SetDefault)
		})

		r.Get("/vouchers", h.Voucher.List)
		r.Post("/delivery/estimate", h.Delivery.Estimate)

		r.Post("/orders", h.Order.Create)
		r.Get("/orders/{id}", h.Order.GetByID)

		r.Get("/content", h.Content.All)
		r.Get("/content/{section}", h.Content.Section)
	})

	return r
}
