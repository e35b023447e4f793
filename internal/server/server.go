package server

import (
	"log"

	"airdrop-tracker-be/internal/bootstrap"
	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// Websocket upgrades are long lived; skip tracing them.
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/api/chat/ws"
	})))

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Static
	app.Static("/uploads", cfg.App.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(serverutils.SuccessResponse("ok", fiber.Map{"connections": container.WebSocketHub.Count()}))
	})

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
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	c.AirdropController.RegisterRoutes(api)
	c.AdminController.RegisterRoutes(api)

	c.ChatHandler.RegisterRoutes(api)
}
