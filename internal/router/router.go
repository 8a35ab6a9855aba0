package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/splashpos/backoffice/internal/config"
	"github.com/splashpos/backoffice/internal/database"
	"github.com/splashpos/backoffice/internal/handler"
	mw "github.com/splashpos/backoffice/internal/middleware"
	"github.com/splashpos/backoffice/internal/service"
	"github.com/splashpos/backoffice/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool service.TxBeginner, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeOrders(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		catalogHandler := handler.NewCatalogHandler(queries)
		catalogHandler.RegisterRoutes(r)

		newEditStore := func(db database.DBTX) service.OrderEditStore {
			return database.New(db)
		}
		orderHandler := handler.NewOrderHandler(
			service.NewOrderEditService(pool, newEditStore),
			service.NewOrderQueryService(queries),
			hub,
		)
		r.Route("/orders", orderHandler.RegisterRoutes)
	})

	log.Println("Router initialized with all handlers")
	return r
}
