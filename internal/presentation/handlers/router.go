package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups every endpoint served by the API. Metrics may be nil.
type Handlers struct {
	Health    *HealthHandler
	Quote     *QuoteHandler
	Price     *PriceHandler
	Liquidity *LiquidityHandler
	Position  *PositionHandler
	Pool      *PoolHandler
	Events    *EventsHandler
	Metrics   http.Handler
}

// NewRouter mounts the handlers on a chi router.
func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quote", h.Quote.GetQuote)
		r.Get("/price", h.Price.GetPrice)
		r.Get("/pairs", h.Pool.ListPools)

		r.Get("/liquidity/add", h.Liquidity.GetAddQuote)
		r.Get("/liquidity/remove", h.Liquidity.GetRemoveQuote)
		r.Post("/liquidity/add/simulate", h.Liquidity.SimulateAdd)
		r.Post("/liquidity/remove/simulate", h.Liquidity.SimulateRemove)

		r.Get("/positions/{owner}", h.Position.GetPositions)
		r.Get("/positions/{owner}/{pair}", h.Position.GetPosition)

		r.Post("/pools/{pool}/events", h.Events.Ingest)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
