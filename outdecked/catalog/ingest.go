package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/database/repositories"
)

// IngestService loads decoded catalog data into the card schema. Fetching
// the export itself belongs to whatever calls this; the service only
// persists already-decoded records.
type IngestService struct {
	cardRepo  repositories.CardRepository
	groupRepo repositories.GroupRepository
}

func NewIngestService(cardRepo repositories.CardRepository, groupRepo repositories.GroupRepository) *IngestService {
	return &IngestService{
		cardRepo:  cardRepo,
		groupRepo: groupRepo,
	}
}

// IngestReport summarizes one ingest run.
type IngestReport struct {
	CardsWritten      int `json:"cards_written"`
	AttributesWritten int `json:"attributes_written"`
	PricesWritten     int `json:"prices_written"`
}

// IngestCategories upserts game lines.
func (s *IngestService) IngestCategories(ctx context.Context, categories []*models.Category) error {
	return s.groupRepo.UpsertCategories(ctx, categories)
}

// IngestGroups upserts expansions/sets. Referenced categories get
// placeholder rows first so the category foreign key holds even when the
// category export has not been loaded yet.
func (s *IngestService) IngestGroups(ctx context.Context, groups []*models.Group) error {
	catIDs := make(map[int64]bool)
	for _, g := range groups {
		if g.CategoryID != 0 {
			catIDs[g.CategoryID] = true
		}
	}
	if err := s.groupRepo.EnsureCategories(ctx, mapKeys(catIDs)); err != nil {
		return err
	}
	return s.groupRepo.UpsertGroups(ctx, groups)
}

// IngestProducts writes product records for one game: cards first, then
// their attribute and price rows keyed by the resolved card IDs.
func (s *IngestService) IngestProducts(ctx context.Context, game string, records []*ProductRecord) (*IngestReport, error) {
	start := time.Now()
	report := &IngestReport{}

	if len(records) == 0 {
		return report, nil
	}

	resolvable, err := s.ensureGroupRefs(ctx, records)
	if err != nil {
		return report, err
	}

	cards := make([]*models.Card, 0, len(records))
	productIDs := make([]int64, 0, len(records))
	for _, rec := range records {
		groupID := rec.GroupID
		if !resolvable[groupID] {
			groupID = 0
		}
		cards = append(cards, &models.Card{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			CleanName: rec.CleanName,
			Game:      game,
			GroupID:   groupID,
			ImageURL:  rec.ImageURL,
			URL:       rec.URL,
		})
		productIDs = append(productIDs, rec.ProductID)
	}

	written, err := s.cardRepo.BulkUpsert(ctx, cards)
	if err != nil {
		return report, fmt.Errorf("failed to upsert cards: %w", err)
	}
	report.CardsWritten = written

	idByProduct, err := s.cardRepo.MapProductIDs(ctx, productIDs)
	if err != nil {
		return report, err
	}

	var attrs []*models.CardAttribute
	var prices []*models.CardPrice
	for _, rec := range records {
		cardID, ok := idByProduct[rec.ProductID]
		if !ok {
			continue
		}

		for name, value := range rec.Attributes {
			attrs = append(attrs, &models.CardAttribute{
				CardID: cardID,
				Name:   name,
				Value:  value,
			})
		}

		if rec.MarketPrice > 0 || rec.LowPrice > 0 || rec.MidPrice > 0 || rec.HighPrice > 0 {
			subType := rec.SubTypeName
			if subType == "" {
				subType = "Normal"
			}
			prices = append(prices, &models.CardPrice{
				CardID:      cardID,
				SubTypeName: subType,
				LowPrice:    rec.LowPrice,
				MidPrice:    rec.MidPrice,
				HighPrice:   rec.HighPrice,
				MarketPrice: rec.MarketPrice,
			})
		}
	}

	if err := s.cardRepo.UpsertAttributes(ctx, attrs); err != nil {
		return report, err
	}
	report.AttributesWritten = len(attrs)

	if err := s.cardRepo.UpsertPrices(ctx, prices); err != nil {
		return report, err
	}
	report.PricesWritten = len(prices)

	slog.Info("Catalog ingest finished",
		slog.String("type", "db"),
		slog.String("game", game),
		slog.Int("cards", report.CardsWritten),
		slog.Int("attributes", report.AttributesWritten),
		slog.Int("prices", report.PricesWritten),
		slog.Duration("took", time.Since(start)))

	return report, nil
}

// ensureGroupRefs creates placeholder category and group rows for every
// group the product records reference, keyed by the export's own IDs. The
// returned set holds the group IDs that now exist; cards pointing at a
// group without a usable category keep a NULL group instead.
func (s *IngestService) ensureGroupRefs(ctx context.Context, records []*ProductRecord) (map[int64]bool, error) {
	groupCat := make(map[int64]int64)
	catIDs := make(map[int64]bool)
	for _, rec := range records {
		if rec.GroupID == 0 {
			continue
		}
		if rec.CategoryID != 0 {
			groupCat[rec.GroupID] = rec.CategoryID
			catIDs[rec.CategoryID] = true
		} else if _, ok := groupCat[rec.GroupID]; !ok {
			groupCat[rec.GroupID] = 0
		}
	}

	if err := s.groupRepo.EnsureCategories(ctx, mapKeys(catIDs)); err != nil {
		return nil, fmt.Errorf("failed to ensure categories: %w", err)
	}

	resolvable := make(map[int64]bool, len(groupCat))
	groups := make([]*models.Group, 0, len(groupCat))
	for groupID, catID := range groupCat {
		if catID == 0 {
			continue
		}
		resolvable[groupID] = true
		groups = append(groups, &models.Group{ID: groupID, CategoryID: catID})
	}

	if err := s.groupRepo.EnsureGroups(ctx, groups); err != nil {
		return nil, fmt.Errorf("failed to ensure groups: %w", err)
	}

	return resolvable, nil
}

func mapKeys(set map[int64]bool) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}
