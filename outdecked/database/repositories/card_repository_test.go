package repositories

import (
	"testing"

	"github.com/outdecked/outdecked/outdecked/database/models"
)

func TestCloneCardsIsolatesDecoration(t *testing.T) {
	original := []*models.Card{
		{ID: 1, Name: "Gon Freecss"},
		{ID: 2, Name: "Killua Zoldyck"},
	}

	page := cloneCards(original)
	if len(page) != len(original) {
		t.Fatalf("cloneCards() returned %d cards, want %d", len(page), len(original))
	}

	for i := range page {
		if page[i] == original[i] {
			t.Fatalf("card %d shares a struct with the source page", i)
		}
		if page[i].ID != original[i].ID || page[i].Name != original[i].Name {
			t.Errorf("card %d fields diverge: %+v vs %+v", i, page[i], original[i])
		}
	}

	// Decorating one page must not show up on the other.
	page[0].AttributeMap = map[string]string{"rarity": "Rare"}
	if original[0].AttributeMap != nil {
		t.Error("decoration leaked into the source page")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gon", "gon"},
		{"100%", `100\%`},
		{"snake_case", `snake\_case`},
		{`a\b`, `a\\b`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
