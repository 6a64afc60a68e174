package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/outdecked/outdecked/backend/models"
	"github.com/outdecked/outdecked/backend/utils"
	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/services"
)

// SearchCards handles GET /api/cards/search
func (app *WebApp) SearchCards(c *fiber.Ctx) error {
	params := services.SearchParams{
		Query:   c.Query("q"),
		Game:    c.Query("game"),
		Sort:    c.Query("sort"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", config.DefaultPageSize),
	}
	if presets := c.Query("presets"); presets != "" {
		params.Presets = strings.Split(presets, ",")
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = config.DefaultPageSize
	}
	if params.PerPage > config.MaxPageSize {
		params.PerPage = config.MaxPageSize
	}

	cards, total, err := app.SearchService.Search(c.Context(), params)
	if err != nil {
		slog.Error("Card search failed",
			slog.String("type", "db"),
			slog.String("query", params.Query),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Search failed")
	}

	pagination := webmodels.NewPaginationInfo(params.Page, params.PerPage, int64(total))
	return utils.SendPaginated(c, cards, pagination, "")
}

// GetCard handles GET /api/cards/:id
func (app *WebApp) GetCard(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid card ID", nil)
	}

	card, err := app.Repos.Cards.GetByID(c.Context(), id)
	if err != nil {
		return utils.SendNotFound(c, "Card not found")
	}

	attrs, err := app.Repos.Cards.GetAttributeValues(c.Context(), []int64{card.ID})
	if err == nil {
		card.AttributeMap = attrs[card.ID]
	}

	return utils.SendSuccess(c, card, "")
}

// GetCardByProduct handles GET /api/cards/product/:productId, the lookup
// used by deep links carrying the vendor's product ID.
func (app *WebApp) GetCardByProduct(c *fiber.Ctx) error {
	productID, err := parseInt64(c.Params("productId"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid product ID", nil)
	}

	card, err := app.Repos.Cards.GetByProductID(c.Context(), productID)
	if err != nil {
		return utils.SendNotFound(c, "Card not found")
	}

	attrs, err := app.Repos.Cards.GetAttributeValues(c.Context(), []int64{card.ID})
	if err == nil {
		card.AttributeMap = attrs[card.ID]
	}

	return utils.SendSuccess(c, card, "")
}

// SuggestCards handles GET /api/cards/suggest
func (app *WebApp) SuggestCards(c *fiber.Ctx) error {
	query := c.Query("q")
	game := c.Query("game")
	limit := c.QueryInt("limit", config.MaxSuggestions)

	names, err := app.SuggestService.Suggest(c.Context(), game, query, limit)
	if err != nil {
		slog.Error("Suggestion lookup failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Suggestions unavailable")
	}

	return utils.SendSuccess(c, names, "")
}
