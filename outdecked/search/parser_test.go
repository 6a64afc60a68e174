package search

import (
	"reflect"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ParsedQuery
	}{
		{
			name: "empty string",
			raw:  "",
			want: ParsedQuery{},
		},
		{
			name: "free text only",
			raw:  "son goku",
			want: ParsedQuery{FreeText: "son goku"},
		},
		{
			name: "underscore in free text",
			raw:  "son_goku",
			want: ParsedQuery{FreeText: "son goku"},
		},
		{
			name: "shortcut expansion",
			raw:  "c:1",
			want: ParsedQuery{
				Predicates: []Predicate{{Kind: KindAnd, Field: "activation_energy", Value: "1"}},
			},
		},
		{
			name: "unknown shortcut passes through",
			raw:  "custom_field:foo",
			want: ParsedQuery{
				Predicates: []Predicate{{Kind: KindAnd, Field: "custom_field", Value: "foo"}},
			},
		},
		{
			name: "comma values become OR predicates",
			raw:  "r:Common,Rare",
			want: ParsedQuery{
				Predicates: []Predicate{
					{Kind: KindOr, Field: "rarity", Value: "Common"},
					{Kind: KindOr, Field: "rarity", Value: "Rare"},
				},
			},
		},
		{
			name: "negated token becomes NOT predicates",
			raw:  "-tr:Raid",
			want: ParsedQuery{
				Predicates: []Predicate{{Kind: KindNot, Field: "trigger_type", Value: "Raid"}},
			},
		},
		{
			name: "negated comma list",
			raw:  "-pt:Base,Starter_Deck",
			want: ParsedQuery{
				Predicates: []Predicate{
					{Kind: KindNot, Field: "print_type", Value: "Base"},
					{Kind: KindNot, Field: "print_type", Value: "Starter Deck"},
				},
			},
		},
		{
			name: "underscores in value become spaces",
			raw:  "s:Jujutsu_Kaisen",
			want: ParsedQuery{
				Predicates: []Predicate{{Kind: KindAnd, Field: "series", Value: "Jujutsu Kaisen"}},
			},
		},
		{
			name: "mixed free text and predicates",
			raw:  "goku c:1 -r:Common",
			want: ParsedQuery{
				FreeText: "goku",
				Predicates: []Predicate{
					{Kind: KindAnd, Field: "activation_energy", Value: "1"},
					{Kind: KindNot, Field: "rarity", Value: "Common"},
				},
			},
		},
		{
			name: "bare dash is free text",
			raw:  "-",
			want: ParsedQuery{FreeText: "-"},
		},
		{
			name: "splits on first colon only",
			raw:  "tr:Draw:2",
			want: ParsedQuery{
				Predicates: []Predicate{{Kind: KindAnd, Field: "trigger_type", Value: "Draw:2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.raw)
			if got.FreeText != tt.want.FreeText {
				t.Errorf("ParseQuery() FreeText = %q, want %q", got.FreeText, tt.want.FreeText)
			}
			if len(got.Predicates) != len(tt.want.Predicates) {
				t.Fatalf("ParseQuery() predicates = %v, want %v", got.Predicates, tt.want.Predicates)
			}
			if len(tt.want.Predicates) > 0 && !reflect.DeepEqual(got.Predicates, tt.want.Predicates) {
				t.Errorf("ParseQuery() predicates = %v, want %v", got.Predicates, tt.want.Predicates)
			}
		})
	}
}

func TestParsedQuery_HasField(t *testing.T) {
	q := ParseQuery("r:Common -ct:ACTION_POINT")

	if !q.HasField("rarity") {
		t.Error("HasField(rarity) = false, want true")
	}
	if !q.HasField("card_type") {
		t.Error("HasField(card_type) = false, want true")
	}
	if q.HasField("series") {
		t.Error("HasField(series) = true, want false")
	}
}

func TestExpandShortcut(t *testing.T) {
	tests := []struct {
		shortcut string
		want     string
	}{
		{"c", "activation_energy"},
		{"r", "rarity"},
		{"s", "series"},
		{"pt", "print_type"},
		{"ct", "card_type"},
		{"en", "required_energy"},
		{"ap", "action_point_cost"},
		{"bp", "battle_point"},
		{"af", "affinities"},
		{"tr", "trigger_type"},
		{"ge", "generated_energy"},
		{"rarity", "rarity"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		if got := ExpandShortcut(tt.shortcut); got != tt.want {
			t.Errorf("ExpandShortcut(%q) = %q, want %q", tt.shortcut, got, tt.want)
		}
	}
}
