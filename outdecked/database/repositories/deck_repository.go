package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/outdecked/outdecked/outdecked/config"
	"github.com/outdecked/outdecked/outdecked/database/models"
)

type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id string) (*models.Deck, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Deck, error)
	Update(ctx context.Context, deck *models.Deck) error
	Delete(ctx context.Context, id string) error
	GetDeckCount(ctx context.Context) (int64, error)
}

type deckRepository struct {
	db *bun.DB
}

func NewDeckRepository(db *bun.DB) DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	if deck.ID == "" {
		deck.ID = uuid.NewString()
	}
	deck.CreatedAt = time.Now()
	deck.UpdatedAt = time.Now()

	_, err := r.db.NewInsert().
		Model(deck).
		Exec(ctx)

	return err
}

func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	deck := new(models.Deck)
	err := r.db.NewSelect().
		Model(deck).
		Where("d.id = ?", id).
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("deck %s not found", id)
		}
		return nil, err
	}

	return deck, nil
}

func (r *deckRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Deck, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	decks := make([]*models.Deck, 0)
	err := r.db.NewSelect().
		Model(&decks).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch decks: %w", err)
	}

	return decks, nil
}

func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	deck.UpdatedAt = time.Now()

	res, err := r.db.NewUpdate().
		Model(deck).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("deck %s not found", deck.ID)
	}

	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.Deck)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	return err
}

func (r *deckRepository) GetDeckCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.Deck)(nil)).
		Count(ctx)

	return int64(count), err
}
