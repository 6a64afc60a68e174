package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	webmodels "github.com/outdecked/outdecked/backend/models"
	"github.com/outdecked/outdecked/backend/utils"
	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/deckcheck"
)

// ListDecks handles GET /api/decks
func (app *WebApp) ListDecks(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	decks, err := app.Repos.Decks.GetByUserID(c.Context(), session.UserID)
	if err != nil {
		slog.Error("Deck list failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load decks")
	}

	return utils.SendSuccess(c, decks, "")
}

// GetDeck handles GET /api/decks/:id. The response carries the full card
// rows for the deck's slots so the editor can render without a second
// round trip.
func (app *WebApp) GetDeck(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	deck, err := app.Repos.Decks.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendNotFound(c, "Deck not found")
	}
	if deck.UserID != session.UserID {
		return utils.SendForbidden(c, "Access denied")
	}

	cardIDs := make([]int64, 0, len(deck.Cards))
	for _, slot := range deck.Cards {
		if slot.CardID != 0 {
			cardIDs = append(cardIDs, slot.CardID)
		}
	}

	var cards []*models.Card
	if len(cardIDs) > 0 {
		cards, err = app.Repos.Cards.GetByIDs(c.Context(), cardIDs)
		if err != nil {
			slog.Error("Deck card lookup failed",
				slog.String("type", "db"),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load deck cards")
		}
	}

	return utils.SendSuccess(c, fiber.Map{
		"deck":  deck,
		"cards": cards,
	}, "")
}

// CreateDeck handles POST /api/decks
func (app *WebApp) CreateDeck(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	var req webmodels.DeckCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if details := utils.ValidateStruct(&req); details != nil {
		return utils.SendUnprocessableEntity(c, "Validation failed", details)
	}

	deck := &models.Deck{
		UserID: session.UserID,
		Name:   req.Name,
		Game:   req.Game,
		Cards:  toDeckCards(req.Cards),
	}
	if err := app.Repos.Decks.Create(c.Context(), deck); err != nil {
		slog.Error("Deck create failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to create deck")
	}

	return utils.SendCreated(c, deck, "Deck created")
}

// UpdateDeck handles PUT /api/decks/:id
func (app *WebApp) UpdateDeck(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	deck, err := app.Repos.Decks.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendNotFound(c, "Deck not found")
	}
	if deck.UserID != session.UserID {
		return utils.SendForbidden(c, "Access denied")
	}

	var req webmodels.DeckUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if details := utils.ValidateStruct(&req); details != nil {
		return utils.SendUnprocessableEntity(c, "Validation failed", details)
	}

	deck.Name = req.Name
	deck.Cards = toDeckCards(req.Cards)
	if err := app.Repos.Decks.Update(c.Context(), deck); err != nil {
		slog.Error("Deck update failed",
			slog.String("type", "db"),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to update deck")
	}

	return utils.SendSuccess(c, deck, "Deck updated")
}

// DeleteDeck handles DELETE /api/decks/:id
func (app *WebApp) DeleteDeck(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	deck, err := app.Repos.Decks.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendNotFound(c, "Deck not found")
	}
	if deck.UserID != session.UserID {
		return utils.SendForbidden(c, "Access denied")
	}

	if err := app.Repos.Decks.Delete(c.Context(), deck.ID); err != nil {
		return utils.SendInternalServerError(c, "Failed to delete deck")
	}

	return utils.SendNoContent(c)
}

// ValidateDeck handles POST /api/decks/validate. It runs the legality
// check without touching storage, so anonymous users can use it too.
func (app *WebApp) ValidateDeck(c *fiber.Ctx) error {
	var req webmodels.ValidateDeckRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if details := utils.ValidateStruct(&req); details != nil {
		return utils.SendUnprocessableEntity(c, "Validation failed", details)
	}

	result := deckcheck.Validate(req.Game, webmodels.ToEntries(req.Cards))
	return utils.SendSuccess(c, result, "")
}

func toDeckCards(cards []webmodels.DeckCard) []models.DeckCard {
	out := make([]models.DeckCard, 0, len(cards))
	for _, card := range cards {
		out = append(out, models.DeckCard{
			CardID:     card.CardID,
			Name:       card.Name,
			CardNumber: card.CardNumber,
			Quantity:   card.Quantity,
			Trigger:    card.Trigger,
		})
	}
	return out
}
