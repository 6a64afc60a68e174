package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/models"
)

type GroupRepository interface {
	UpsertCategories(ctx context.Context, categories []*models.Category) error
	UpsertGroups(ctx context.Context, groups []*models.Group) error

	// EnsureCategories and EnsureGroups insert placeholder rows for IDs
	// referenced by other data, without touching rows that already exist.
	// A later metadata import fills in the real names.
	EnsureCategories(ctx context.Context, ids []int64) error
	EnsureGroups(ctx context.Context, groups []*models.Group) error

	GetByCategory(ctx context.Context, categoryID int64) ([]*models.Group, error)
	GetCategories(ctx context.Context) ([]*models.Category, error)
}

type groupRepository struct {
	db *bun.DB
}

func NewGroupRepository(db *bun.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) UpsertCategories(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(&categories).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("display_name = EXCLUDED.display_name").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert categories: %w", err)
	}

	return nil
}

func (r *groupRepository) UpsertGroups(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.IngestTimeout)
	defer cancel()

	now := time.Now()
	for _, g := range groups {
		g.UpdatedAt = now
	}

	_, err := r.db.NewInsert().
		Model(&groups).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("abbreviation = EXCLUDED.abbreviation").
		Set("category_id = EXCLUDED.category_id").
		Set("published_on = EXCLUDED.published_on").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert groups: %w", err)
	}

	return nil
}

func (r *groupRepository) EnsureCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	categories := make([]*models.Category, 0, len(ids))
	for _, id := range ids {
		categories = append(categories, &models.Category{ID: id})
	}

	_, err := r.db.NewInsert().
		Model(&categories).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure categories: %w", err)
	}

	return nil
}

func (r *groupRepository) EnsureGroups(ctx context.Context, groups []*models.Group) error {
	if len(groups) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	now := time.Now()
	for _, g := range groups {
		g.UpdatedAt = now
	}

	_, err := r.db.NewInsert().
		Model(&groups).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure groups: %w", err)
	}

	return nil
}

func (r *groupRepository) GetByCategory(ctx context.Context, categoryID int64) ([]*models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var groups []*models.Group
	err := r.db.NewSelect().
		Model(&groups).
		Where("category_id = ?", categoryID).
		Order("published_on DESC").
		Scan(ctx)

	return groups, err
}

func (r *groupRepository) GetCategories(ctx context.Context) ([]*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var categories []*models.Category
	err := r.db.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(ctx)

	return categories, err
}
