package catalog

import (
	"context"
	"testing"

	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/search"
)

type fakeGroupRepo struct {
	calls              []string
	ensuredCategories  []int64
	ensuredGroups      []*models.Group
	upsertedGroups     []*models.Group
	upsertedCategories []*models.Category
}

func (f *fakeGroupRepo) UpsertCategories(ctx context.Context, categories []*models.Category) error {
	f.calls = append(f.calls, "UpsertCategories")
	f.upsertedCategories = categories
	return nil
}

func (f *fakeGroupRepo) UpsertGroups(ctx context.Context, groups []*models.Group) error {
	f.calls = append(f.calls, "UpsertGroups")
	f.upsertedGroups = groups
	return nil
}

func (f *fakeGroupRepo) EnsureCategories(ctx context.Context, ids []int64) error {
	f.calls = append(f.calls, "EnsureCategories")
	f.ensuredCategories = append(f.ensuredCategories, ids...)
	return nil
}

func (f *fakeGroupRepo) EnsureGroups(ctx context.Context, groups []*models.Group) error {
	f.calls = append(f.calls, "EnsureGroups")
	f.ensuredGroups = append(f.ensuredGroups, groups...)
	return nil
}

func (f *fakeGroupRepo) GetByCategory(ctx context.Context, categoryID int64) ([]*models.Group, error) {
	return nil, nil
}

func (f *fakeGroupRepo) GetCategories(ctx context.Context) ([]*models.Category, error) {
	return nil, nil
}

type fakeIngestCardRepo struct {
	calls    []string
	upserted []*models.Card
	attrs    []*models.CardAttribute
	prices   []*models.CardPrice
}

func (f *fakeIngestCardRepo) Create(ctx context.Context, card *models.Card) error { return nil }
func (f *fakeIngestCardRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeIngestCardRepo) GetByProductID(ctx context.Context, productID int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeIngestCardRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	return nil, nil
}
func (f *fakeIngestCardRepo) Update(ctx context.Context, card *models.Card) error { return nil }
func (f *fakeIngestCardRepo) Delete(ctx context.Context, id int64) error          { return nil }

func (f *fakeIngestCardRepo) BulkUpsert(ctx context.Context, cards []*models.Card) (int, error) {
	f.calls = append(f.calls, "BulkUpsert")
	f.upserted = cards
	return len(cards), nil
}

func (f *fakeIngestCardRepo) UpsertAttributes(ctx context.Context, attrs []*models.CardAttribute) error {
	f.attrs = attrs
	return nil
}

func (f *fakeIngestCardRepo) UpsertPrices(ctx context.Context, prices []*models.CardPrice) error {
	f.prices = prices
	return nil
}

func (f *fakeIngestCardRepo) GetCardCount(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeIngestCardRepo) ListNames(ctx context.Context, game string) ([]string, error) {
	return nil, nil
}

func (f *fakeIngestCardRepo) MapProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	m := make(map[int64]int64, len(productIDs))
	for i, pid := range productIDs {
		m[pid] = int64(i + 1)
	}
	return m, nil
}

func (f *fakeIngestCardRepo) Search(ctx context.Context, cc search.CompiledConditions, sort search.SortKey, page, perPage int) ([]*models.Card, int, error) {
	return nil, 0, nil
}

func (f *fakeIngestCardRepo) GetAttributeValues(ctx context.Context, cardIDs []int64) (map[int64]map[string]string, error) {
	return nil, nil
}

func TestIngestProductsEnsuresGroupRowsFirst(t *testing.T) {
	cardRepo := &fakeIngestCardRepo{}
	groupRepo := &fakeGroupRepo{}
	svc := NewIngestService(cardRepo, groupRepo)

	records := []*ProductRecord{
		{
			ProductID:  610809,
			Name:       "Gon Freecss",
			CleanName:  "Gon Freecss",
			GroupID:    23411,
			CategoryID: 81,
			Attributes: map[string]string{"rarity": "Rare"},
		},
	}

	report, err := svc.IngestProducts(context.Background(), "Union Arena", records)
	if err != nil {
		t.Fatalf("IngestProducts() error = %v", err)
	}
	if report.CardsWritten != 1 {
		t.Errorf("CardsWritten = %d, want 1", report.CardsWritten)
	}

	if len(groupRepo.ensuredCategories) != 1 || groupRepo.ensuredCategories[0] != 81 {
		t.Errorf("ensured categories = %v, want [81]", groupRepo.ensuredCategories)
	}
	if len(groupRepo.ensuredGroups) != 1 {
		t.Fatalf("ensured groups = %v, want one row", groupRepo.ensuredGroups)
	}
	if g := groupRepo.ensuredGroups[0]; g.ID != 23411 || g.CategoryID != 81 {
		t.Errorf("ensured group = %+v", g)
	}

	// The referenced rows must exist before the card upsert runs.
	sequence := append(append([]string{}, groupRepo.calls...), cardRepo.calls...)
	want := []string{"EnsureCategories", "EnsureGroups", "BulkUpsert"}
	if len(sequence) != len(want) {
		t.Fatalf("call sequence = %v", sequence)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Fatalf("call sequence = %v, want %v", sequence, want)
		}
	}

	if len(cardRepo.upserted) != 1 || cardRepo.upserted[0].GroupID != 23411 {
		t.Errorf("upserted cards = %+v", cardRepo.upserted)
	}
}

func TestIngestProductsDropsUnresolvableGroup(t *testing.T) {
	cardRepo := &fakeIngestCardRepo{}
	groupRepo := &fakeGroupRepo{}
	svc := NewIngestService(cardRepo, groupRepo)

	// A group reference without a category cannot satisfy the group's own
	// category constraint, so the card keeps a NULL group instead.
	records := []*ProductRecord{
		{ProductID: 1, Name: "A", CleanName: "A", GroupID: 99},
	}

	if _, err := svc.IngestProducts(context.Background(), "Union Arena", records); err != nil {
		t.Fatalf("IngestProducts() error = %v", err)
	}

	if len(groupRepo.ensuredGroups) != 0 {
		t.Errorf("ensured groups = %v, want none", groupRepo.ensuredGroups)
	}
	if len(cardRepo.upserted) != 1 || cardRepo.upserted[0].GroupID != 0 {
		t.Errorf("upserted cards = %+v, want zero group id", cardRepo.upserted)
	}
}

func TestIngestGroupsEnsuresCategories(t *testing.T) {
	cardRepo := &fakeIngestCardRepo{}
	groupRepo := &fakeGroupRepo{}
	svc := NewIngestService(cardRepo, groupRepo)

	groups := []*models.Group{
		{ID: 23411, Name: "HUNTER x HUNTER", CategoryID: 81},
	}

	if err := svc.IngestGroups(context.Background(), groups); err != nil {
		t.Fatalf("IngestGroups() error = %v", err)
	}

	if len(groupRepo.ensuredCategories) != 1 || groupRepo.ensuredCategories[0] != 81 {
		t.Errorf("ensured categories = %v, want [81]", groupRepo.ensuredCategories)
	}
	if len(groupRepo.upsertedGroups) != 1 {
		t.Errorf("upserted groups = %v", groupRepo.upsertedGroups)
	}
}
