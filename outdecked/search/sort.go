package search

// SortKey selects the ordering of a search result page.
type SortKey string

const (
	SortDefault    SortKey = "recent"
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRarityAsc  SortKey = "rarity_asc"
	SortRarityDesc SortKey = "rarity_desc"
	SortNumberAsc  SortKey = "number_asc"
	SortNumberDesc SortKey = "number_desc"
	SortEnergyAsc  SortKey = "energy_asc"
	SortEnergyDesc SortKey = "energy_desc"
)

var sortKeys = map[SortKey]bool{
	SortDefault:    true,
	SortNameAsc:    true,
	SortNameDesc:   true,
	SortPriceAsc:   true,
	SortPriceDesc:  true,
	SortRarityAsc:  true,
	SortRarityDesc: true,
	SortNumberAsc:  true,
	SortNumberDesc: true,
	SortEnergyAsc:  true,
	SortEnergyDesc: true,
}

// ParseSortKey maps a raw sort parameter onto a known sort key. Unknown
// values fall back to name ascending rather than erroring.
func ParseSortKey(raw string) SortKey {
	key := SortKey(raw)
	if raw == "" {
		return SortDefault
	}
	if sortKeys[key] {
		return key
	}
	return SortNameAsc
}

// RarityRanks is the total order over rarity tier names used for
// rarity-based sorting, lowest tier first. Rarities missing from the table
// sort after every listed tier.
var RarityRanks = []string{
	"Common",
	"Common 1-Star",
	"Uncommon",
	"Uncommon 1-Star",
	"Rare",
	"Rare 1-Star",
	"Super Rare",
	"Super Rare 1-Star",
	"Super Rare 2-Star",
	"Super Rare 3-Star",
	"Union Rare",
}

// RarityRank returns the position of a rarity tier in the ranking table,
// or len(RarityRanks) for tiers not in the table so they sort last.
func RarityRank(rarity string) int {
	for i, r := range RarityRanks {
		if r == rarity {
			return i
		}
	}
	return len(RarityRanks)
}
