package deckcheck

import (
	"fmt"
	"strings"
)

// Trigger markers embedded in card trigger text. Matching is
// case-insensitive; one trigger string may carry several markers.
const (
	markerColor   = "[color]"
	markerSpecial = "[special]"
	markerFinal   = "[final]"
)

// CardEntry is one card in a candidate deck: its identity, how many copies
// the deck runs, and the card's trigger text (empty for triggerless cards).
type CardEntry struct {
	Name       string `json:"name"`
	CardNumber string `json:"card_number"`
	Quantity   int    `json:"quantity"`
	Trigger    string `json:"trigger"`
}

// identifier prefers the card number; name is the fallback for cards whose
// attributes never carried a number.
func (e CardEntry) identifier() string {
	if e.CardNumber != "" {
		return e.CardNumber
	}
	return e.Name
}

// Stats are the aggregate counts computed during validation.
type Stats struct {
	TotalCards      int            `json:"total_cards"`
	TotalTriggers   int            `json:"total_triggers"`
	ColorTriggers   int            `json:"color_triggers"`
	SpecialTriggers int            `json:"special_triggers"`
	FinalTriggers   int            `json:"final_triggers"`
	CardCounts      map[string]int `json:"card_counts"`
}

// Result is the structured validation report. It is computed fresh on every
// call and never persisted; handlers attach it to deck responses as-is.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Stats    Stats    `json:"stats"`
}

// Validate scores a candidate deck against the named game's rule set.
// Checks are independent: every failure is reported, none short-circuits.
// Rule violations flip IsValid and append an error; missing required cards
// only warn. Validation failure is data, not an error return.
func Validate(game string, entries []CardEntry) Result {
	rules := RulesFor(game)

	result := Result{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
		Stats: Stats{
			CardCounts: make(map[string]int),
		},
	}

	for _, entry := range entries {
		result.Stats.TotalCards += entry.Quantity
		result.Stats.CardCounts[entry.identifier()] += entry.Quantity

		trigger := strings.ToLower(entry.Trigger)
		if trigger == "" {
			continue
		}
		result.Stats.TotalTriggers += entry.Quantity
		if strings.Contains(trigger, markerColor) {
			result.Stats.ColorTriggers += entry.Quantity
		}
		if strings.Contains(trigger, markerSpecial) {
			result.Stats.SpecialTriggers += entry.Quantity
		}
		if strings.Contains(trigger, markerFinal) {
			result.Stats.FinalTriggers += entry.Quantity
		}
	}

	if result.Stats.TotalCards < rules.MinCards {
		result.fail(fmt.Sprintf("Deck has %d cards, minimum is %d", result.Stats.TotalCards, rules.MinCards))
	}
	if result.Stats.TotalCards > rules.MaxCards {
		result.fail(fmt.Sprintf("Deck has %d cards, maximum is %d", result.Stats.TotalCards, rules.MaxCards))
	}

	checked := make(map[string]bool, len(entries))
	for _, entry := range entries {
		id := entry.identifier()
		if checked[id] {
			continue
		}
		checked[id] = true
		count := result.Stats.CardCounts[id]

		limit := rules.DefaultMaxCopies
		reason := ""
		if exc, ok := ExceptionFor(entry.CardNumber); ok {
			limit = exc.MaxCopies
			reason = exc.Reason
		}

		if count > limit {
			msg := fmt.Sprintf("Too many copies of %s: %d, maximum is %d", id, count, limit)
			if reason != "" {
				msg += fmt.Sprintf(" (%s)", reason)
			}
			result.fail(msg)
		}
	}

	if result.Stats.ColorTriggers > rules.MaxColorTriggers {
		result.fail(fmt.Sprintf("Too many [Color] trigger cards: %d/%d",
			result.Stats.ColorTriggers, rules.MaxColorTriggers))
	}
	if result.Stats.SpecialTriggers > rules.MaxSpecialTrig {
		result.fail(fmt.Sprintf("Too many [Special] trigger cards: %d/%d",
			result.Stats.SpecialTriggers, rules.MaxSpecialTrig))
	}
	if result.Stats.FinalTriggers > rules.MaxFinalTriggers {
		result.fail(fmt.Sprintf("Too many [Final] trigger cards: %d/%d",
			result.Stats.FinalTriggers, rules.MaxFinalTriggers))
	}

	for _, banned := range rules.BannedCards {
		if result.Stats.CardCounts[banned] > 0 {
			result.fail(fmt.Sprintf("%s is banned in %s", banned, rules.Game))
		}
	}

	for _, required := range rules.RequiredCards {
		if result.Stats.CardCounts[required] == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Missing required card: %s", required))
		}
	}

	return result
}

func (r *Result) fail(msg string) {
	r.IsValid = false
	r.Errors = append(r.Errors, msg)
}
