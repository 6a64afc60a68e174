package search

import "testing"

// fieldValues collects every predicate value for a field, regardless of kind.
func fieldValues(q ParsedQuery, field string) []string {
	var values []string
	for _, p := range q.Predicates {
		if p.Field == field {
			values = append(values, p.Value)
		}
	}
	return values
}

func TestApplyPresets(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		active      []string
		wantField   string
		wantValues  []string
		wantAbsent  string
	}{
		{
			name:       "basic prints expands to OR group",
			query:      "",
			active:     []string{PresetBasicPrints},
			wantField:  "print_type",
			wantValues: []string{"Base", "Starter Deck"},
		},
		{
			name:       "base rarities expands fully when AP not hidden",
			query:      "",
			active:     []string{PresetBaseRarities},
			wantField:  "rarity",
			wantValues: []string{"Common", "Uncommon", "Rare", "Super Rare", "Action Point"},
		},
		{
			name:       "hiding action points drops AP rarity from expansion",
			query:      "",
			active:     []string{PresetBaseRarities, PresetHideActionPoints},
			wantField:  "rarity",
			wantValues: []string{"Common", "Uncommon", "Rare", "Super Rare"},
		},
		{
			name:       "explicit query suppresses preset on same field",
			query:      "pt:Pre-Release",
			active:     []string{PresetBasicPrints},
			wantField:  "print_type",
			wantValues: []string{"Pre-Release"},
		},
		{
			name:       "unrelated presets stay active when one is suppressed",
			query:      "r:Union_Rare",
			active:     []string{PresetBaseRarities, PresetBasicPrints},
			wantField:  "print_type",
			wantValues: []string{"Base", "Starter Deck"},
		},
		{
			name:       "unknown preset names are ignored",
			query:      "",
			active:     []string{"does_not_exist"},
			wantAbsent: "print_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyPresets(ParseQuery(tt.query), tt.active)

			if tt.wantAbsent != "" {
				if got.HasField(tt.wantAbsent) {
					t.Errorf("ApplyPresets() added predicates on %q, want none", tt.wantAbsent)
				}
				return
			}

			values := fieldValues(got, tt.wantField)
			if len(values) != len(tt.wantValues) {
				t.Fatalf("ApplyPresets() %s values = %v, want %v", tt.wantField, values, tt.wantValues)
			}
			for i, v := range tt.wantValues {
				if values[i] != v {
					t.Errorf("ApplyPresets() %s[%d] = %q, want %q", tt.wantField, i, values[i], v)
				}
			}
		})
	}
}

func TestApplyPresets_HideActionPointsEmitsNot(t *testing.T) {
	got := ApplyPresets(ParsedQuery{}, []string{PresetHideActionPoints})

	if len(got.Predicates) != 1 {
		t.Fatalf("ApplyPresets() predicates = %v, want exactly one", got.Predicates)
	}
	p := got.Predicates[0]
	if p.Kind != KindNot || p.Field != "card_type" || p.Value != "ACTION POINT" {
		t.Errorf("ApplyPresets() predicate = %+v, want NOT card_type=ACTION POINT", p)
	}
}

func TestApplyPresets_ExplicitCardTypeSuppressesHide(t *testing.T) {
	q := ParseQuery("ct:CHARACTER")
	got := ApplyPresets(q, []string{PresetHideActionPoints})

	for _, p := range got.Predicates {
		if p.Kind == KindNot {
			t.Errorf("ApplyPresets() kept NOT predicate %+v despite explicit card_type", p)
		}
	}
}
