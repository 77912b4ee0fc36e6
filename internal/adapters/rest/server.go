package rest

import (
	core_port "catalog-service/internal/core/port"
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port               string
	RequestTimeout     time.Duration
	CorsAllowedOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты каталога. Вынесен отдельно, чтобы тесты
// работали с тем же обработчиком, что и сервер.
func NewRouter(cfg ServerConfig, handlers *PropertyHandler, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	origins := cfg.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", TraceIDHeader},
		ExposedHeaders: []string{"Location", TraceIDHeader},
		MaxAge:         300,
	}))
	r.Use(LoggerMiddleware(baseLogger), RecoverMiddleware, TimeoutMiddleware(cfg.RequestTimeout))

	r.Route("/properties", func(r chi.Router) {
		r.Get("/", handlers.ListProperties)
		r.Post("/", handlers.CreateProperty)
		r.Get("/{id}", handlers.GetProperty)
		r.Put("/{id}", handlers.UpdateProperty)
		r.Delete("/{id}", handlers.DeleteProperty)
	})

	return r
}

func NewServer(cfg ServerConfig, handlers *PropertyHandler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, handlers, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
