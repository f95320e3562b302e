package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/grocery-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/grocery-inventory/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Options configures the router. A nil Limiter disables rate limiting.
type Options struct {
	JWTSecret []byte
	Limiter   *rate_limiter.Limiter
	Logger    *zap.Logger
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/health", s.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// reads
	r.Get("/products", s.GetProductsHandler)
	r.Get("/products/{id}", s.GetProductByIDHandler)
	r.Get("/products/{id}/batches", s.GetProductBatchesHandler)
	r.Get("/products/{id}/suggestion", s.GetSuggestionHandler)
	r.Get("/products/{id}/forecast", s.GetForecastHandler)
	r.Get("/products/{id}/reorder", s.GetProductReorderHandler)
	r.Get("/products/{id}/movements", s.GetMovementsHandler)
	r.Get("/products/{id}/consumption", s.GetConsumptionHandler)
	r.Get("/batches/{id}", s.GetBatchHandler)
	r.Get("/categories", s.GetCategoriesHandler)
	r.Get("/suppliers", s.GetSuppliersHandler)
	r.Get("/suppliers/{id}", s.GetSupplierByIDHandler)
	r.Get("/reorder/recommendations", s.GetRecommendationsHandler)
	r.Get("/reports/{kind}", s.GetReportHandler)
	r.Get("/metrics/dashboard", s.GetDashboardMetricsHandler)

	// writes
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.JWTSecret))
		r.Post("/products", s.CreateProductHandler)
		r.Put("/products/{id}", s.UpdateProductHandler)
		r.Delete("/products/{id}", s.DeleteProductHandler)
		r.Post("/products/{id}/batches", s.CreateBatchHandler)
		r.Post("/batches/{id}/adjust", s.AdjustBatchHandler)
		r.Post("/batches/{id}/empty", s.MarkBatchEmptyHandler)
		r.Delete("/batches/{id}", s.DeleteBatchHandler)
		r.Post("/categories", s.CreateCategoryHandler)
		r.Post("/suppliers", s.CreateSupplierHandler)
		r.Put("/suppliers/{id}", s.UpdateSupplierHandler)
	})

	return r
}
