package search

// Preset names toggled by the search UI. Part of the wire contract.
const (
	PresetBasicPrints      = "basic_prints"
	PresetBaseRarities     = "base_rarities"
	PresetHideActionPoints = "hide_action_points"
)

// basicPrintTypes and baseRarities are the fixed expansions behind the
// corresponding presets. Loaded once; never mutated at runtime.
var (
	basicPrintTypes = []string{"Base", "Starter Deck"}

	baseRarities = []string{"Common", "Uncommon", "Rare", "Super Rare", "Action Point"}

	actionPointCardType = "ACTION POINT"
)

// ApplyPresets expands the active preset toggles into additional predicates
// on the parsed query. A preset only contributes when the explicit query
// does not already constrain the same field: typed filters always win.
//
// The base_rarities expansion is coupled to hide_action_points: hiding the
// ACTION POINT card type also drops the "Action Point" rarity from the
// rarity expansion. The pairing applies to exactly these two presets.
func ApplyPresets(q ParsedQuery, active []string) ParsedQuery {
	on := make(map[string]bool, len(active))
	for _, name := range active {
		on[name] = true
	}

	if on[PresetBasicPrints] && !q.HasField("print_type") {
		for _, pt := range basicPrintTypes {
			q.Predicates = append(q.Predicates, Predicate{Kind: KindOr, Field: "print_type", Value: pt})
		}
	}

	if on[PresetBaseRarities] && !q.HasField("rarity") {
		for _, r := range baseRarities {
			if r == "Action Point" && on[PresetHideActionPoints] {
				continue
			}
			q.Predicates = append(q.Predicates, Predicate{Kind: KindOr, Field: "rarity", Value: r})
		}
	}

	if on[PresetHideActionPoints] && !q.HasField("card_type") {
		q.Predicates = append(q.Predicates, Predicate{Kind: KindNot, Field: "card_type", Value: actionPointCardType})
	}

	return q
}
