package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"chorelink/internal/config"
	"chorelink/internal/handler"
	"chorelink/internal/middleware"
	"chorelink/internal/repository"
	"chorelink/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (caching disabled)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	protected := v1.Group("", middleware.AuthRequired(cfg.JWTSecret))

	chores := protected.Group("/chores")
	chores.Post("/", h.Chore.Create)
	chores.Get("/", h.Chore.ListMine)
	chores.Get("/:choreId", h.Chore.Get)
	chores.Post("/:choreId/publish", h.Chore.Publish)
	chores.Post("/:choreId/assign", h.Chore.Assign)
	chores.Post("/:choreId/start", h.Chore.Start)
	chores.Post("/:choreId/complete", h.Chore.Complete)
	chores.Post("/:choreId/close", h.Chore.Close)
	chores.Post("/:choreId/cancel", h.Chore.Cancel)
	chores.Post("/:choreId/cancellation-requests", h.Chore.RequestCancellation)
	chores.Post("/:choreId/cancellation-requests/decide", h.Chore.DecideCancellation)
	chores.Get("/:choreId/cancellation-requests", h.Chore.ListCancellations)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/deliveries", h.Notification.ListDeliveries)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
