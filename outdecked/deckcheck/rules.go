package deckcheck

// RuleSet holds the deck-construction limits for one game line.
type RuleSet struct {
	Game             string
	MinCards         int
	MaxCards         int
	DefaultMaxCopies int
	MaxColorTriggers int
	MaxSpecialTrig   int
	MaxFinalTriggers int
	RequiredCards    []string
	BannedCards      []string
}

// CopyException overrides the default copy limit for a specific card number.
type CopyException struct {
	MaxCopies int
	Reason    string
}

// gameRules is keyed by the game name a deck declares. Loaded once at
// startup; treated as read-only configuration.
var gameRules = map[string]RuleSet{
	"Union Arena": {
		Game:             "Union Arena",
		MinCards:         50,
		MaxCards:         50,
		DefaultMaxCopies: 4,
		MaxColorTriggers: 4,
		MaxSpecialTrig:   4,
		MaxFinalTriggers: 4,
	},
}

// defaultRules is used for games without a dedicated rule set.
var defaultRules = RuleSet{
	Game:             "default",
	MinCards:         40,
	MaxCards:         60,
	DefaultMaxCopies: 4,
	MaxColorTriggers: 4,
	MaxSpecialTrig:   4,
	MaxFinalTriggers: 4,
}

// copyExceptions maps exact card numbers to their copy-limit overrides.
// Checked before the rule set's default limit.
var copyExceptions = map[string]CopyException{
	"UEX04BT/HTR-2-011": {
		MaxCopies: 14,
		Reason:    "card text allows up to 14 copies per deck",
	},
}

// RulesFor resolves the rule set for a game, falling back to the generic
// default for unknown games.
func RulesFor(game string) RuleSet {
	if rules, ok := gameRules[game]; ok {
		return rules
	}
	return defaultRules
}

// ExceptionFor looks up a copy-limit exception by exact card number.
func ExceptionFor(cardNumber string) (CopyException, bool) {
	exc, ok := copyExceptions[cardNumber]
	return exc, ok
}
