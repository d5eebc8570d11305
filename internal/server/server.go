package server

import (
	"log/slog"

	"github.com/evelinavait/fleettrack/internal/admin"
	"github.com/evelinavait/fleettrack/internal/client"
	"github.com/evelinavait/fleettrack/internal/config"
	"github.com/evelinavait/fleettrack/internal/journey"
	"github.com/evelinavait/fleettrack/internal/metrics"
	"github.com/evelinavait/fleettrack/internal/search"
	"github.com/evelinavait/fleettrack/internal/stream"
	"github.com/evelinavait/fleettrack/internal/vehicle"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Samplers *journey.Registry
	Metrics  *prometheus.Registry
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   stream.NewHub(redisClient),
		Samplers: journey.NewRegistry(slog.Default()),
		Metrics:  prometheus.NewRegistry(),
	}

	registerRoutes(s)
	return s
}

// Shutdown stops every background sampler and waits for them to exit.
func (s *Server) Shutdown() {
	s.Samplers.Shutdown()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(s.Metrics)))

	collector := metrics.NewCollector(s.Metrics)

	clients := s.App.Group("/clients")
	client.RegisterRoutes(clients, client.NewService(s.DB))
	vehicle.RegisterClientRoutes(clients, vehicle.NewService(s.DB))

	vehicle.RegisterRoutes(s.App.Group("/vehicles"), vehicle.NewService(s.DB))
	journey.RegisterRoutes(s.App.Group("/journeys"), journey.NewService(s.DB, s.Stream, s.Samplers, collector))
	search.RegisterRoutes(s.App.Group("/search"), search.NewService(s.DB))
	admin.RegisterRoutes(s.App.Group("/cleanup"), admin.NewService(s.DB, slog.Default()))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
