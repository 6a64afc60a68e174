package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/outdecked/outdecked/backend/models"
	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/search"
)

type fakeDeckRepo struct {
	deck  *models.Deck
	count int64
}

func (f *fakeDeckRepo) Create(ctx context.Context, deck *models.Deck) error { return nil }
func (f *fakeDeckRepo) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	return f.deck, nil
}
func (f *fakeDeckRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Deck, error) {
	return nil, nil
}
func (f *fakeDeckRepo) Update(ctx context.Context, deck *models.Deck) error { return nil }
func (f *fakeDeckRepo) Delete(ctx context.Context, id string) error         { return nil }
func (f *fakeDeckRepo) GetDeckCount(ctx context.Context) (int64, error)     { return f.count, nil }

type fakeCardRepo struct {
	requestedIDs []int64
	cards        []*models.Card
	count        int64
}

func (f *fakeCardRepo) Create(ctx context.Context, card *models.Card) error { return nil }
func (f *fakeCardRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) GetByProductID(ctx context.Context, productID int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	f.requestedIDs = ids
	return f.cards, nil
}
func (f *fakeCardRepo) Update(ctx context.Context, card *models.Card) error { return nil }
func (f *fakeCardRepo) Delete(ctx context.Context, id int64) error          { return nil }
func (f *fakeCardRepo) BulkUpsert(ctx context.Context, cards []*models.Card) (int, error) {
	return 0, nil
}
func (f *fakeCardRepo) UpsertAttributes(ctx context.Context, attrs []*models.CardAttribute) error {
	return nil
}
func (f *fakeCardRepo) UpsertPrices(ctx context.Context, prices []*models.CardPrice) error {
	return nil
}
func (f *fakeCardRepo) GetCardCount(ctx context.Context) (int64, error) { return f.count, nil }
func (f *fakeCardRepo) ListNames(ctx context.Context, game string) ([]string, error) {
	return nil, nil
}
func (f *fakeCardRepo) MapProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	return nil, nil
}
func (f *fakeCardRepo) Search(ctx context.Context, cc search.CompiledConditions, sort search.SortKey, page, perPage int) ([]*models.Card, int, error) {
	return nil, 0, nil
}
func (f *fakeCardRepo) GetAttributeValues(ctx context.Context, cardIDs []int64) (map[int64]map[string]string, error) {
	return nil, nil
}

type fakeUserRepo struct {
	count int64
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserRepo) GetUserCount(ctx context.Context) (int64, error)     { return f.count, nil }

func TestGetDeckIncludesCards(t *testing.T) {
	cardRepo := &fakeCardRepo{
		cards: []*models.Card{{ID: 7, Name: "Gon Freecss"}},
	}
	deckRepo := &fakeDeckRepo{
		deck: &models.Deck{
			ID:     "4ab0c1de-0000-0000-0000-000000000000",
			UserID: 1,
			Name:   "HxH Green",
			Game:   "Union Arena",
			Cards: []models.DeckCard{
				{CardID: 7, Name: "Gon Freecss", Quantity: 4},
				{CardID: 0, Name: "Proxy card", Quantity: 1},
			},
		},
	}
	webApp := &WebApp{
		Repos: &webmodels.Repositories{Cards: cardRepo, Decks: deckRepo},
	}

	app := fiber.New()
	app.Get("/api/decks/:id", func(c *fiber.Ctx) error {
		c.Locals("user", &webmodels.UserSession{UserID: 1, Username: "gon"})
		return webApp.GetDeck(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/decks/4ab0c1de-0000-0000-0000-000000000000", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// Only slots with a real card ID are resolved.
	if len(cardRepo.requestedIDs) != 1 || cardRepo.requestedIDs[0] != 7 {
		t.Errorf("requested card IDs = %v, want [7]", cardRepo.requestedIDs)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Deck  *models.Deck   `json:"deck"`
			Cards []*models.Card `json:"cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !envelope.Success || envelope.Data.Deck == nil {
		t.Fatalf("unexpected envelope: %s", body)
	}
	if len(envelope.Data.Cards) != 1 || envelope.Data.Cards[0].Name != "Gon Freecss" {
		t.Errorf("cards = %+v", envelope.Data.Cards)
	}
}

func TestGetDeckRejectsForeignOwner(t *testing.T) {
	deckRepo := &fakeDeckRepo{
		deck: &models.Deck{ID: "x", UserID: 2},
	}
	webApp := &WebApp{
		Repos: &webmodels.Repositories{Cards: &fakeCardRepo{}, Decks: deckRepo},
	}

	app := fiber.New()
	app.Get("/api/decks/:id", func(c *fiber.Ctx) error {
		c.Locals("user", &webmodels.UserSession{UserID: 1})
		return webApp.GetDeck(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/decks/x", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestStatsCountsDecks(t *testing.T) {
	webApp := &WebApp{
		Repos: &webmodels.Repositories{
			Cards: &fakeCardRepo{count: 5},
			Users: &fakeUserRepo{count: 2},
			Decks: &fakeDeckRepo{count: 3},
		},
	}

	app := fiber.New()
	app.Get("/api/stats", webApp.Stats)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/stats", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if envelope.Data["total_decks"] != 3 || envelope.Data["total_cards"] != 5 || envelope.Data["total_users"] != 2 {
		t.Errorf("stats = %v", envelope.Data)
	}
}
