package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/outdecked/outdecked/backend/config"
	webmodels "github.com/outdecked/outdecked/backend/models"
	webservices "github.com/outdecked/outdecked/backend/services"
	"github.com/outdecked/outdecked/outdecked/database"
	"github.com/outdecked/outdecked/outdecked/services"
	"github.com/outdecked/outdecked/backend/utils"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config         *config.WebAppConfig
	DB             *database.DB
	Repos          *webmodels.Repositories
	SearchService  *services.CardSearchService
	SuggestService *services.SuggestService
	SessionService *webservices.SessionService
	Version        string
}

// GetSession resolves the current session from the request cookie.
func (app *WebApp) GetSession(c *fiber.Ctx) (*webmodels.UserSession, error) {
	return app.SessionService.GetSession(c)
}

// HealthCheck reports service and database health.
func (app *WebApp) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := app.DB.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	return utils.SendSuccess(c, fiber.Map{
		"status":   status,
		"database": dbStatus,
		"version":  app.Version,
	}, "")
}

// Stats returns basic catalog counts for the landing page.
func (app *WebApp) Stats(c *fiber.Ctx) error {
	ctx := c.Context()

	totalCards, err := app.Repos.Cards.GetCardCount(ctx)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load stats")
	}

	totalUsers, err := app.Repos.Users.GetUserCount(ctx)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load stats")
	}

	totalDecks, err := app.Repos.Decks.GetDeckCount(ctx)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load stats")
	}

	return utils.SendSuccess(c, fiber.Map{
		"total_cards": totalCards,
		"total_users": totalUsers,
		"total_decks": totalDecks,
	}, "")
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
