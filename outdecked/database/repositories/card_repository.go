package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/models"
	"github.com/outdecked/outdecked/outdecked/logger"
	"github.com/outdecked/outdecked/outdecked/search"
)

const maxBatchSize = 1000

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByProductID(ctx context.Context, productID int64) (*models.Card, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id int64) error
	BulkUpsert(ctx context.Context, cards []*models.Card) (int, error)
	UpsertAttributes(ctx context.Context, attrs []*models.CardAttribute) error
	UpsertPrices(ctx context.Context, prices []*models.CardPrice) error
	GetCardCount(ctx context.Context) (int64, error)
	ListNames(ctx context.Context, game string) ([]string, error)
	MapProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error)

	// Search executes a compiled condition set: one count query and one
	// page query over the same WHERE clause.
	Search(ctx context.Context, cc search.CompiledConditions, sort search.SortKey, page, perPage int) ([]*models.Card, int, error)

	// GetAttributeValues fetches the attribute rows for a set of cards in
	// one query and regroups them per card.
	GetAttributeValues(ctx context.Context, cardIDs []int64) (map[int64]map[string]string, error)
}

type cardRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewCardRepository(db *bun.DB) CardRepository {
	cache, _ := lru.New(config.CacheSize)
	return &cardRepository{
		db:    db,
		cache: cache,
	}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	card.CreatedAt = time.Now()
	card.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(card).
		Returning("id").
		Exec(ctx)

	return err
}

func (r *cardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Relation("Prices").
		Where("c.id = ?", id).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("card #%d not found", id)
		}
		return nil, err
	}

	return card, nil
}

func (r *cardRepository) GetByProductID(ctx context.Context, productID int64) (*models.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	card := new(models.Card)
	err := r.db.NewSelect().
		Model(card).
		Where("product_id = ?", productID).
		Scan(ctx)

	return card, err
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Where("c.id IN (?)", bun.In(ids)).
		Scan(ctx)

	return cards, err
}

func (r *cardRepository) Update(ctx context.Context, card *models.Card) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	card.UpdatedAt = time.Now()

	_, err := r.db.NewUpdate().
		Model(card).
		WherePK().
		Exec(ctx)

	if err == nil {
		r.cache.Purge()
	}

	return err
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Card)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err == nil {
		r.cache.Purge()
	}

	return err
}

// BulkUpsert writes catalog cards in batches, keyed by their catalog
// product ID so repeated ingests refresh rather than duplicate.
func (r *cardRepository) BulkUpsert(ctx context.Context, cards []*models.Card) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	if len(cards) == 0 {
		return 0, nil
	}

	now := time.Now()
	totalWritten := 0

	for i := 0; i < len(cards); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(cards) {
			end = len(cards)
		}
		batch := cards[i:end]

		for _, card := range batch {
			card.CreatedAt = now
			card.UpdatedAt = now
		}

		res, err := r.db.NewInsert().
			Model(&batch).
			On("CONFLICT (product_id) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("clean_name = EXCLUDED.clean_name").
			Set("game = EXCLUDED.game").
			Set("group_id = EXCLUDED.group_id").
			Set("image_url = EXCLUDED.image_url").
			Set("url = EXCLUDED.url").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)

		if err != nil {
			return totalWritten, err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return totalWritten, err
		}

		totalWritten += int(affected)
	}

	r.cache.Purge()
	return totalWritten, nil
}

func (r *cardRepository) UpsertAttributes(ctx context.Context, attrs []*models.CardAttribute) error {
	if len(attrs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	for i := 0; i < len(attrs); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(attrs) {
			end = len(attrs)
		}
		batch := attrs[i:end]

		_, err := r.db.NewInsert().
			Model(&batch).
			On("CONFLICT (card_id, name) DO UPDATE").
			Set("value = EXCLUDED.value").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert attributes: %w", err)
		}
	}

	return nil
}

func (r *cardRepository) UpsertPrices(ctx context.Context, prices []*models.CardPrice) error {
	if len(prices) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	now := time.Now()
	for _, p := range prices {
		p.UpdatedAt = now
	}

	for i := 0; i < len(prices); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(prices) {
			end = len(prices)
		}
		batch := prices[i:end]

		_, err := r.db.NewInsert().
			Model(&batch).
			On("CONFLICT (card_id, sub_type_name) DO UPDATE").
			Set("low_price = EXCLUDED.low_price").
			Set("mid_price = EXCLUDED.mid_price").
			Set("high_price = EXCLUDED.high_price").
			Set("market_price = EXCLUDED.market_price").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert prices: %w", err)
		}
	}

	return nil
}

func (r *cardRepository) GetCardCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Count(ctx)

	return int64(count), err
}

func (r *cardRepository) ListNames(ctx context.Context, game string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	q := r.db.NewSelect().
		Model((*models.Card)(nil)).
		Column("name").
		Distinct().
		Order("name ASC")
	if game != "" {
		q = q.Where("game = ?", game)
	}

	var names []string
	if err := q.Scan(ctx, &names); err != nil {
		return nil, fmt.Errorf("failed to list card names: %w", err)
	}

	return names, nil
}

// MapProductIDs resolves catalog product IDs to internal card IDs, used
// after an upsert to key attribute and price rows.
func (r *cardRepository) MapProductIDs(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	var cards []*models.Card
	err := r.db.NewSelect().
		Model(&cards).
		Column("id", "product_id").
		Where("product_id IN (?)", bun.In(productIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to map product ids: %w", err)
	}

	for _, card := range cards {
		result[card.ProductID] = card.ID
	}

	return result, nil
}

type searchResult struct {
	cards []*models.Card
	count int
}

type cacheEntry struct {
	data      searchResult
	expiresAt time.Time
}

func searchCacheKey(cc search.CompiledConditions, sort search.SortKey, page, perPage int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "search:ft=%s:sort=%s:page=%d:per=%d", cc.FreeText, sort, page, perPage)
	for _, cond := range cc.Conditions {
		fmt.Fprintf(&b, ":%v|%s=%s", cond.Negate, cond.Field, strings.Join(cond.Values, ","))
	}
	return b.String()
}

func (r *cardRepository) Search(ctx context.Context, cc search.CompiledConditions, sort search.SortKey, page, perPage int) ([]*models.Card, int, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	cacheKey := searchCacheKey(cc, sort, page, perPage)
	if cached, ok := r.cache.Get(cacheKey); ok {
		entry := cached.(cacheEntry)
		if time.Now().Before(entry.expiresAt) {
			return cloneCards(entry.data.cards), entry.data.count, nil
		}
		r.cache.Remove(cacheKey)
	}

	offset := (page - 1) * perPage
	start := time.Now()

	var cards []*models.Card
	var count int

	// The count runs against the same WHERE clause but without
	// pagination, so the metadata stays exact.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query := r.db.NewSelect().Model(&cards)
		query = applyConditions(query, cc)
		query = applySort(query, sort)
		query = query.Limit(perPage).Offset(offset)
		return query.Scan(gctx)
	})
	g.Go(func() error {
		countQuery := r.db.NewSelect().Model((*models.Card)(nil))
		countQuery = applyConditions(countQuery, cc)
		var err error
		count, err = countQuery.Count(gctx)
		return err
	})

	err := g.Wait()
	logger.LogQuery("card search", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}

	// The cache keeps its own card structs; callers decorate the page they
	// got back (AttributeMap and friends), and those writes must never
	// reach entries other requests read concurrently.
	r.cache.Add(cacheKey, cacheEntry{
		data:      searchResult{cards: cloneCards(cards), count: count},
		expiresAt: time.Now().Add(config.CacheExpiration),
	})

	return cards, count, nil
}

// likeEscaper neutralizes LIKE metacharacters so free text only ever
// matches as a literal substring. Postgres treats backslash as the default
// escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// cloneCards copies the card structs of a page. Relation slices stay
// shared; they are read-only after the scan.
func cloneCards(cards []*models.Card) []*models.Card {
	out := make([]*models.Card, len(cards))
	for i, card := range cards {
		clone := *card
		out[i] = &clone
	}
	return out
}

// applyConditions lowers the compiled condition set onto a bun query.
// Every literal goes through a bind parameter; the only interpolated
// identifiers are column names from the closed direct-column set.
func applyConditions(q *bun.SelectQuery, cc search.CompiledConditions) *bun.SelectQuery {
	for _, cond := range cc.Conditions {
		q = applyCondition(q, cond)
	}

	if cc.FreeText != "" {
		pattern := "%" + escapeLike(strings.ToLower(cc.FreeText)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("LOWER(c.name) LIKE ?", pattern).
				WhereOr("LOWER(c.clean_name) LIKE ?", pattern)
		})
	}

	return q
}

func applyCondition(q *bun.SelectQuery, cond search.Condition) *bun.SelectQuery {
	lowered := make([]string, len(cond.Values))
	for i, v := range cond.Values {
		lowered[i] = strings.ToLower(v)
	}

	if search.IsDirectColumn(cond.Field) {
		column := directColumnExpr(cond.Field)
		switch {
		case cond.Negate:
			return q.Where("LOWER("+column+") != LOWER(?)", cond.Values[0])
		case len(lowered) > 1:
			return q.Where("LOWER("+column+") IN (?)", bun.In(lowered))
		default:
			return q.Where("LOWER("+column+") = LOWER(?)", cond.Values[0])
		}
	}

	// Attribute-table field. Negation must be NOT EXISTS so that cards
	// without the attribute at all still pass.
	if cond.Negate {
		return q.Where(
			"NOT EXISTS (SELECT 1 FROM card_attributes att WHERE att.card_id = c.id AND att.name = ? AND LOWER(att.value) = LOWER(?))",
			cond.Field, cond.Values[0],
		)
	}
	if len(lowered) > 1 {
		return q.Where(
			"EXISTS (SELECT 1 FROM card_attributes att WHERE att.card_id = c.id AND att.name = ? AND LOWER(att.value) IN (?))",
			cond.Field, bun.In(lowered),
		)
	}
	return q.Where(
		"EXISTS (SELECT 1 FROM card_attributes att WHERE att.card_id = c.id AND att.name = ? AND LOWER(att.value) = LOWER(?))",
		cond.Field, cond.Values[0],
	)
}

// directColumnExpr maps a canonical field onto its column expression. Only
// fields that passed search.IsDirectColumn ever reach this.
func directColumnExpr(field string) string {
	switch field {
	case "name":
		return "c.name"
	case "clean_name":
		return "c.clean_name"
	case "game":
		return "c.game"
	default:
		// Unreachable while the closed set holds; fail loudly in SQL
		// rather than interpolate an arbitrary field.
		return "c.name"
	}
}

// attributeOrderExpr is a scalar subquery pulling one attribute value for
// ordering purposes.
const attributeOrderExpr = "(SELECT att.value FROM card_attributes att WHERE att.card_id = c.id AND att.name = ? LIMIT 1)"

// rarityRankCase builds a CASE expression mapping rarity tier names onto
// their rank, with unlisted tiers after every known one. Tier names are
// bound as parameters.
func rarityRankCase() (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(search.RarityRanks)+1)

	b.WriteString("CASE LOWER(" + attributeOrderExpr + ")")
	args = append(args, "rarity")
	for i, tier := range search.RarityRanks {
		fmt.Fprintf(&b, " WHEN ? THEN %d", i)
		args = append(args, strings.ToLower(tier))
	}
	fmt.Fprintf(&b, " ELSE %d END", len(search.RarityRanks))

	return b.String(), args
}

const priceOrderExpr = "(SELECT MAX(pr.market_price) FROM card_prices pr WHERE pr.card_id = c.id)"

func applySort(q *bun.SelectQuery, sort search.SortKey) *bun.SelectQuery {
	switch sort {
	case search.SortNameAsc:
		return q.Order("c.name ASC")
	case search.SortNameDesc:
		return q.Order("c.name DESC")
	case search.SortPriceAsc:
		return q.OrderExpr(priceOrderExpr + " ASC NULLS LAST").Order("c.name ASC")
	case search.SortPriceDesc:
		return q.OrderExpr(priceOrderExpr + " DESC NULLS LAST").Order("c.name ASC")
	case search.SortRarityAsc:
		expr, args := rarityRankCase()
		return q.OrderExpr(expr+" ASC", args...).Order("c.name ASC")
	case search.SortRarityDesc:
		expr, args := rarityRankCase()
		return q.OrderExpr(expr+" DESC", args...).Order("c.name ASC")
	case search.SortNumberAsc:
		return q.OrderExpr(attributeOrderExpr+" ASC NULLS LAST", "number").Order("c.name ASC")
	case search.SortNumberDesc:
		return q.OrderExpr(attributeOrderExpr+" DESC NULLS LAST", "number").Order("c.name ASC")
	case search.SortEnergyAsc:
		// energyOrderExpr repeats the attribute subquery, hence two binds.
		return q.OrderExpr(energyOrderExpr+" ASC NULLS LAST", "required_energy", "required_energy").Order("c.name ASC")
	case search.SortEnergyDesc:
		return q.OrderExpr(energyOrderExpr+" DESC NULLS LAST", "required_energy", "required_energy").Order("c.name ASC")
	default:
		// Compound default: most recent set first, highest rarity first
		// within a set.
		expr, args := rarityRankCase()
		return q.
			Join("LEFT JOIN groups AS g ON g.id = c.group_id").
			OrderExpr("g.published_on DESC NULLS LAST").
			OrderExpr(expr+" DESC", args...).
			Order("c.name ASC")
	}
}

// energyOrderExpr orders numerically where the attribute is numeric and
// pushes everything else to the end.
const energyOrderExpr = "(CASE WHEN " + attributeOrderExpr + " ~ '^[0-9]+$' THEN CAST(" + attributeOrderExpr + " AS INTEGER) END)"

func (r *cardRepository) GetAttributeValues(ctx context.Context, cardIDs []int64) (map[int64]map[string]string, error) {
	result := make(map[int64]map[string]string, len(cardIDs))
	if len(cardIDs) == 0 {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var rows []*models.CardAttribute
	err := r.db.NewSelect().
		Model(&rows).
		Where("card_id IN (?)", bun.In(cardIDs)).
		Order("card_id ASC", "name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card attributes: %w", err)
	}

	for _, row := range rows {
		attrs, ok := result[row.CardID]
		if !ok {
			attrs = make(map[string]string)
			result[row.CardID] = attrs
		}
		attrs[row.Name] = row.Value
	}

	return result, nil
}
