package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Card is one catalog entry. Identity, name and provenance live as columns;
// everything game-specific (rarity, energy costs, trigger text...) lives in
// the card_attributes side table because different games and expansions
// surface different fields.
type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64     `bun:"product_id,notnull,unique" json:"product_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CleanName string    `bun:"clean_name,notnull" json:"clean_name"`
	Game      string    `bun:"game,notnull" json:"game"`
	GroupID   int64     `bun:"group_id,nullzero" json:"group_id"`
	ImageURL  string    `bun:"image_url" json:"image_url"`
	URL       string    `bun:"url" json:"url"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`

	// Relations
	Group      *Group           `bun:"rel:belongs-to,join:group_id=id" json:"group,omitempty"`
	Attributes []*CardAttribute `bun:"rel:has-many,join:id=card_id" json:"-"`
	Prices     []*CardPrice     `bun:"rel:has-many,join:id=card_id" json:"prices,omitempty"`

	// AttributeMap is filled in by the repository after a page fetch; it is
	// what the API serializes instead of raw attribute rows.
	AttributeMap map[string]string `bun:"-" json:"attributes,omitempty"`
}

// CardAttribute is one (card, name, value) row of the attribute side table.
type CardAttribute struct {
	bun.BaseModel `bun:"table:card_attributes,alias:ca"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	CardID int64  `bun:"card_id,notnull" json:"card_id"`
	Name   string `bun:"name,notnull" json:"name"`
	Value  string `bun:"value,notnull" json:"value"`
}

// CardPrice is one price record for a card printing variant.
type CardPrice struct {
	bun.BaseModel `bun:"table:card_prices,alias:cp"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	CardID      int64     `bun:"card_id,notnull" json:"card_id"`
	SubTypeName string    `bun:"sub_type_name,notnull" json:"sub_type_name"`
	LowPrice    float64   `bun:"low_price" json:"low_price"`
	MidPrice    float64   `bun:"mid_price" json:"mid_price"`
	HighPrice   float64   `bun:"high_price" json:"high_price"`
	MarketPrice float64   `bun:"market_price" json:"market_price"`
	UpdatedAt   time.Time `bun:"updated_at,notnull" json:"updated_at"`
}
