package models

import "github.com/outdecked/outdecked/outdecked/deckcheck"

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for session login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DeckCreateRequest creates a new deck for the current user.
type DeckCreateRequest struct {
	Name  string     `json:"name" validate:"required,min=1,max=100"`
	Game  string     `json:"game" validate:"required,min=1,max=50"`
	Cards []DeckCard `json:"cards" validate:"dive"`
}

// DeckUpdateRequest replaces a deck's name and card list.
type DeckUpdateRequest struct {
	Name  string     `json:"name" validate:"required,min=1,max=100"`
	Cards []DeckCard `json:"cards" validate:"dive"`
}

// DeckCard is one deck slot as sent by the client.
type DeckCard struct {
	CardID     int64  `json:"card_id"`
	Name       string `json:"name" validate:"required"`
	CardNumber string `json:"card_number"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
	Trigger    string `json:"trigger"`
}

// ValidateDeckRequest asks for a legality check without persisting anything.
type ValidateDeckRequest struct {
	Game  string     `json:"game" validate:"required"`
	Cards []DeckCard `json:"cards" validate:"required,dive"`
}

// ToEntries converts request slots into validator entries.
func ToEntries(cards []DeckCard) []deckcheck.CardEntry {
	entries := make([]deckcheck.CardEntry, 0, len(cards))
	for _, c := range cards {
		entries = append(entries, deckcheck.CardEntry{
			Name:       c.Name,
			CardNumber: c.CardNumber,
			Quantity:   c.Quantity,
			Trigger:    c.Trigger,
		})
	}
	return entries
}
