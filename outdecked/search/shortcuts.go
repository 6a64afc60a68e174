package search

// fieldShortcuts maps query shortcuts to canonical attribute names.
// The table is part of the wire contract with the frontend: a shortcut
// typed as `c:1` must resolve to the same attribute everywhere.
var fieldShortcuts = map[string]string{
	"c":  "activation_energy",
	"r":  "rarity",
	"s":  "series",
	"pt": "print_type",
	"ct": "card_type",
	"en": "required_energy",
	"ap": "action_point_cost",
	"bp": "battle_point",
	"af": "affinities",
	"tr": "trigger_type",
	"ge": "generated_energy",
}

// directColumns is the closed set of card columns that filters may target
// directly. Everything else goes through the attribute side table. Field
// names outside this set are never interpolated as column identifiers.
var directColumns = map[string]bool{
	"name":       true,
	"clean_name": true,
	"game":       true,
}

// ExpandShortcut resolves a field shortcut to its canonical attribute name.
// Unknown shortcuts pass through unchanged so that fully spelled-out
// attribute names keep working.
func ExpandShortcut(shortcut string) string {
	if full, ok := fieldShortcuts[shortcut]; ok {
		return full
	}
	return shortcut
}

// IsDirectColumn reports whether field is stored as a card column rather
// than an attribute row.
func IsDirectColumn(field string) bool {
	return directColumns[field]
}
