package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/outdecked/outdecked/backend/utils"
)

// ListCategories handles GET /api/categories: the game lines the catalog
// carries, for the game selector.
func (app *WebApp) ListCategories(c *fiber.Ctx) error {
	categories, err := app.Repos.Groups.GetCategories(c.Context())
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load categories")
	}
	return utils.SendSuccess(c, categories, "")
}

// ListGroups handles GET /api/categories/:id/groups: the expansions of one
// game line, newest first.
func (app *WebApp) ListGroups(c *fiber.Ctx) error {
	categoryID, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid category ID", nil)
	}

	groups, err := app.Repos.Groups.GetByCategory(c.Context(), categoryID)
	if err != nil {
		return utils.SendInternalServerError(c, "Failed to load groups")
	}
	return utils.SendSuccess(c, groups, "")
}
