package search

import "testing"

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		raw  string
		want SortKey
	}{
		{"", SortDefault},
		{"recent", SortDefault},
		{"name_asc", SortNameAsc},
		{"name_desc", SortNameDesc},
		{"price_asc", SortPriceAsc},
		{"price_desc", SortPriceDesc},
		{"rarity_asc", SortRarityAsc},
		{"rarity_desc", SortRarityDesc},
		{"number_asc", SortNumberAsc},
		{"energy_desc", SortEnergyDesc},
		// Unknown keys silently fall back to name ascending.
		{"bogus", SortNameAsc},
		{"NAME_ASC", SortNameAsc},
	}

	for _, tt := range tests {
		if got := ParseSortKey(tt.raw); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRarityRank(t *testing.T) {
	if RarityRank("Common") != 0 {
		t.Errorf("RarityRank(Common) = %d, want 0", RarityRank("Common"))
	}
	if RarityRank("Union Rare") != len(RarityRanks)-1 {
		t.Errorf("RarityRank(Union Rare) = %d, want %d", RarityRank("Union Rare"), len(RarityRanks)-1)
	}
	if RarityRank("Common") >= RarityRank("Super Rare") {
		t.Error("Common should rank below Super Rare")
	}
	// Tiers missing from the table sort after everything listed.
	if RarityRank("Mystery Tier") != len(RarityRanks) {
		t.Errorf("RarityRank(unlisted) = %d, want %d", RarityRank("Mystery Tier"), len(RarityRanks))
	}
}
