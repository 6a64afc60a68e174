package services

import (
	"context"
	"testing"

	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/search"
)

// fakeCardRepo records the conditions passed to Search and serves canned
// results.
type fakeCardRepo struct {
	lastConditions search.CompiledConditions
	lastSort       search.SortKey
	lastPage       int
	lastPerPage    int

	cards []*models.Card
	total int
	attrs map[int64]map[string]string
}

func (f *fakeCardRepo) Create(ctx context.Context, card *models.Card) error       { return nil }
func (f *fakeCardRepo) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) GetByProductID(ctx context.Context, productID int64) (*models.Card, error) {
	return nil, nil
}
func (f *fakeCardRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	return nil, nil
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
func (f *fakeCardRepo) GetCardCount(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeCardRepo) ListNames(ctx context.Context, game string) ([]string, error) {
	return nil, nil
}
func (f *fakeCardRepo) MapProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	return nil, nil
}

func (f *fakeCardRepo) Search(ctx context.Context, cc search.CompiledConditions, sort search.SortKey, page, perPage int) ([]*models.Card, int, error) {
	f.lastConditions = cc
	f.lastSort = sort
	f.lastPage = page
	f.lastPerPage = perPage
	return f.cards, f.total, nil
}

func (f *fakeCardRepo) GetAttributeValues(ctx context.Context, cardIDs []int64) (map[int64]map[string]string, error) {
	return f.attrs, nil
}

func TestSearchAppendsGameFilter(t *testing.T) {
	repo := &fakeCardRepo{}
	svc := NewCardSearchService(repo)

	_, _, err := svc.Search(context.Background(), SearchParams{
		Query: "c:blue",
		Game:  "Union Arena",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	conds := repo.lastConditions.Conditions
	if len(conds) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conds))
	}
	last := conds[len(conds)-1]
	if last.Field != "game" || len(last.Values) != 1 || last.Values[0] != "Union Arena" {
		t.Errorf("game condition = %+v", last)
	}
	if last.Negate {
		t.Error("game condition must not be negated")
	}
}

func TestSearchClampsPaging(t *testing.T) {
	repo := &fakeCardRepo{}
	svc := NewCardSearchService(repo)

	_, _, err := svc.Search(context.Background(), SearchParams{
		Page:    -3,
		PerPage: 10000,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if repo.lastPage != 1 {
		t.Errorf("page = %d, want 1", repo.lastPage)
	}
	if repo.lastPerPage > 100 {
		t.Errorf("perPage = %d, want clamped to max", repo.lastPerPage)
	}
}

func TestSearchDefaultsSortKey(t *testing.T) {
	repo := &fakeCardRepo{}
	svc := NewCardSearchService(repo)

	if _, _, err := svc.Search(context.Background(), SearchParams{}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if repo.lastSort != search.SortDefault {
		t.Errorf("sort = %q, want %q", repo.lastSort, search.SortDefault)
	}
}

func TestSearchAttachesAttributes(t *testing.T) {
	repo := &fakeCardRepo{
		cards: []*models.Card{{ID: 7, Name: "Gon Freecss"}},
		total: 1,
		attrs: map[int64]map[string]string{
			7: {"rarity": "Rare", "number": "UE01BT/HTR-1-001"},
		},
	}
	svc := NewCardSearchService(repo)

	cards, total, err := svc.Search(context.Background(), SearchParams{Query: "gon"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if total != 1 || len(cards) != 1 {
		t.Fatalf("got %d cards total %d", len(cards), total)
	}
	if cards[0].AttributeMap["rarity"] != "Rare" {
		t.Errorf("AttributeMap = %v", cards[0].AttributeMap)
	}
}
