package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DeckCard is one line of a deck list, stored inline as jsonb.
type DeckCard struct {
	CardID     int64  `json:"card_id"`
	Name       string `json:"name"`
	CardNumber string `json:"card_number"`
	Quantity   int    `json:"quantity"`
	Trigger    string `json:"trigger,omitempty"`
}

// Deck is a user-built deck for one game line.
type Deck struct {
	bun.BaseModel `bun:"table:decks,alias:d"`

	ID        string     `bun:"id,pk,type:uuid" json:"id"`
	UserID    int64      `bun:"user_id,notnull" json:"user_id"`
	Name      string     `bun:"name,notnull" json:"name"`
	Game      string     `bun:"game,notnull" json:"game"`
	Cards     []DeckCard `bun:"cards,type:jsonb" json:"cards"`
	CreatedAt time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,notnull" json:"updated_at"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}
