package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Group is a publishing group: an expansion or set within a game line.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID           int64     `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Abbreviation string    `bun:"abbreviation" json:"abbreviation"`
	CategoryID   int64     `bun:"category_id,notnull" json:"category_id"`
	PublishedOn  time.Time `bun:"published_on,nullzero" json:"published_on"`
	UpdatedAt    time.Time `bun:"updated_at,notnull" json:"updated_at"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// Category is a game line ("Union Arena", "Dragon Ball Super"...).
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          int64  `bun:"id,pk" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	DisplayName string `bun:"display_name" json:"display_name"`
}
