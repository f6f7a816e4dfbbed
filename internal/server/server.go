package server

import (
	"log"
	"sync"

	"cv-chat-be/internal/bootstrap"
	"cv-chat-be/internal/config"
	"cv-chat-be/internal/pkg/serverutils"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP collectors live on the default registry next to the chat counters.
// They can only be registered once per process.
var httpMetrics = sync.OnceValue(func() *fiberprometheus.FiberPrometheus {
	return fiberprometheus.NewWithRegistry(prometheus.DefaultRegisterer, "cv-chat-be", "", "", nil)
})

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB, a conversation is small text
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.App.CorsAllowedOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "Content-Type",
	}))

	// Prometheus HTTP metrics
	httpProm := httpMetrics()
	httpProm.RegisterAt(app, "/metrics")
	app.Use(httpProm.Middleware)

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	// Recovered panics come back as errors and get the generic 500
	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))
	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.ChatController.RegisterRoutes(api)
	c.SessionController.RegisterRoutes(api)
}
