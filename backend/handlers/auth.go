package handlers

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	webmodels "github.com/outdecked/outdecked/backend/models"
	"github.com/outdecked/outdecked/backend/utils"
	appconfig "github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/models"
)

// Register handles POST /api/auth/register
func (app *WebApp) Register(c *fiber.Ctx) error {
	var req webmodels.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if details := utils.ValidateStruct(&req); details != nil {
		return utils.SendUnprocessableEntity(c, "Validation failed", details)
	}

	username := strings.TrimSpace(req.Username)

	if _, err := app.Repos.Users.GetByUsername(c.Context(), username); err == nil {
		return utils.SendConflict(c, "Username already taken", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to create account")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := app.Repos.Users.Create(c.Context(), user); err != nil {
		slog.Error("User create failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to create account")
	}

	if err := app.createSessionFor(c, user); err != nil {
		return utils.SendInternalServerError(c, "Failed to start session")
	}

	return utils.SendCreated(c, user, "Account created")
}

// Login handles POST /api/auth/login
func (app *WebApp) Login(c *fiber.Ctx) error {
	var req webmodels.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if details := utils.ValidateStruct(&req); details != nil {
		return utils.SendUnprocessableEntity(c, "Validation failed", details)
	}

	user, err := app.Repos.Users.GetByUsername(c.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		return utils.SendUnauthorized(c, "Invalid username or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return utils.SendUnauthorized(c, "Invalid username or password")
	}

	if err := app.createSessionFor(c, user); err != nil {
		return utils.SendInternalServerError(c, "Failed to start session")
	}

	return utils.SendSuccess(c, user, "Logged in")
}

// Logout handles POST /api/auth/logout
func (app *WebApp) Logout(c *fiber.Ctx) error {
	app.SessionService.DestroySession(c)
	return utils.SendSuccess(c, nil, "Logged out")
}

// CurrentUser handles GET /api/auth/me
func (app *WebApp) CurrentUser(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Not logged in")
	}

	user, err := app.Repos.Users.GetByID(c.Context(), session.UserID)
	if err != nil {
		return utils.SendNotFound(c, "User not found")
	}

	return utils.SendSuccess(c, user, "")
}

func (app *WebApp) createSessionFor(c *fiber.Ctx, user *models.User) error {
	return app.SessionService.CreateSession(c, &webmodels.UserSession{
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		ExpiresAt: time.Now().Add(appconfig.SessionTimeout),
	})
}
