package services

import (
	"context"
	"fmt"

	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/database/repositories"
	"github.com/outdecked/outdecked/outdecked/search"
)

// SearchParams is the raw search input as it arrives from the HTTP layer.
type SearchParams struct {
	Query   string
	Game    string
	Presets []string
	Sort    string
	Page    int
	PerPage int
}

// CardSearchService runs the full search pipeline: parse the query text,
// fold in preset toggles, compile to conditions, execute, and decorate the
// result page with attribute maps.
type CardSearchService struct {
	cardRepo repositories.CardRepository
}

func NewCardSearchService(cardRepo repositories.CardRepository) *CardSearchService {
	return &CardSearchService{cardRepo: cardRepo}
}

// Search returns one page of matching cards plus the exact total count.
func (s *CardSearchService) Search(ctx context.Context, params SearchParams) ([]*models.Card, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = config.DefaultPageSize
	}
	if perPage > config.MaxPageSize {
		perPage = config.MaxPageSize
	}

	parsed := search.ParseQuery(params.Query)
	parsed = search.ApplyPresets(parsed, params.Presets)
	compiled := search.Compile(parsed)

	// The game selector is a hard filter on a direct column, layered on
	// top of whatever the query asked for.
	if params.Game != "" {
		compiled.Conditions = append(compiled.Conditions, search.Condition{
			Field:  "game",
			Values: []string{params.Game},
		})
	}

	sortKey := search.ParseSortKey(params.Sort)

	cards, total, err := s.cardRepo.Search(ctx, compiled, sortKey, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	if err := s.attachAttributes(ctx, cards); err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// attachAttributes fills AttributeMap for a page of cards with a single
// side-table query.
func (s *CardSearchService) attachAttributes(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}

	attrs, err := s.cardRepo.GetAttributeValues(ctx, ids)
	if err != nil {
		return err
	}

	for _, card := range cards {
		card.AttributeMap = attrs[card.ID]
	}
	return nil
}
