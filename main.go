package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/outdecked/outdecked/backend/config"
	"github.com/outdecked/outdecked/backend/handlers"
	"github.com/outdecked/outdecked/backend/middleware"
	webmodels "github.com/outdecked/outdecked/backend/models"
	webservices "github.com/outdecked/outdecked/backend/services"
	"github.com/outdecked/outdecked/outdecked"
	"github.com/outdecked/outdecked/outdecked/database"
	"github.com/outdecked/outdecked/outdecked/database/migrations"
	"github.com/outdecked/outdecked/outdecked/database/repositories"
	"github.com/outdecked/outdecked/outdecked/logger"
	"github.com/outdecked/outdecked/outdecked/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldMigrate := flag.Bool("migrate", true, "run database migrations on startup")
	path := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := outdecked.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	customHandler := logger.NewHandler("OutDecked", cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting OutDecked",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("type", "sys"))

	webCfg := config.NewWebAppConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...", slog.String("type", "db"))
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Database connected successfully", slog.String("type", "db"))

	if *shouldMigrate {
		if err := migrations.Run(db.DSN()); err != nil {
			logger.LogError("Migration failed", err)
			os.Exit(1)
		}
		logger.LogSystem("Migrations applied")
	}

	repos := &webmodels.Repositories{
		Cards:  repositories.NewCardRepository(db.BunDB()),
		Groups: repositories.NewGroupRepository(db.BunDB()),
		Decks:  repositories.NewDeckRepository(db.BunDB()),
		Users:  repositories.NewUserRepository(db.BunDB()),
	}

	searchService := services.NewCardSearchService(repos.Cards)
	suggestService := services.NewSuggestService(repos.Cards)
	sessionService := webservices.NewSessionService(webCfg)

	app := fiber.New(fiber.Config{
		AppName:      "OutDecked API",
		ServerHeader: "OutDecked",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://localhost:8080",
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:         webCfg,
		DB:             db,
		Repos:          repos,
		SearchService:  searchService,
		SuggestService: suggestService,
		SessionService: sessionService,
		Version:        version,
	}

	setupRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	db.Close()

	slog.Info("Shutdown complete")
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", webApp.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "OutDecked API",
			"version": webApp.Version,
			"status":  "running",
		})
	})

	api := app.Group("/api")
	api.Get("/stats", webApp.Stats)
	api.Get("/categories", webApp.ListCategories)
	api.Get("/categories/:id/groups", webApp.ListGroups)

	// Card catalog: public, session optional
	cards := api.Group("/cards", middleware.OptionalAuth(webApp))
	cards.Get("/search", webApp.SearchCards)
	cards.Get("/suggest", webApp.SuggestCards)
	cards.Get("/product/:productId", webApp.GetCardByProduct)
	cards.Get("/:id", webApp.GetCard)

	// Deck legality check is public; deck storage needs a session
	api.Post("/decks/validate", webApp.ValidateDeck)

	decks := api.Group("/decks", middleware.AuthRequired(webApp))
	decks.Get("/", webApp.ListDecks)
	decks.Post("/", webApp.CreateDeck)
	decks.Get("/:id", webApp.GetDeck)
	decks.Put("/:id", webApp.UpdateDeck)
	decks.Delete("/:id", webApp.DeleteDeck)

	auth := api.Group("/auth")
	auth.Post("/register", webApp.Register)
	auth.Post("/login", webApp.Login)
	auth.Post("/logout", webApp.Logout)
	auth.Get("/me", middleware.AuthRequired(webApp), webApp.CurrentUser)

	admin := app.Group("/admin", middleware.AuthRequired(webApp), middleware.AdminRequired(webApp))
	admin.Post("/api/import", webApp.ImportProducts)
	admin.Post("/api/import/categories", webApp.ImportCategories)
	admin.Post("/api/import/groups", webApp.ImportGroups)

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    fiber.StatusNotFound,
				"message": "Not Found",
			},
		})
	})
}
