package search

// Condition is one backend-neutral filter condition. Conditions are always
// combined with AND; a condition with multiple values is satisfied when any
// one of them matches (a parenthesized OR group over a single field).
type Condition struct {
	Field  string
	Values []string
	Negate bool
}

// CompiledConditions is the intermediate form handed to the storage layer.
// The storage layer decides how each condition maps to SQL (direct column
// comparison or an EXISTS subquery against the attribute table) and binds
// every value as a parameter.
type CompiledConditions struct {
	Conditions []Condition

	// FreeText, when non-empty, matches as a case-insensitive substring
	// against a card's name or clean name.
	FreeText string
}

// IsUnconstrained reports whether the compiled set matches all cards.
func (cc CompiledConditions) IsUnconstrained() bool {
	return len(cc.Conditions) == 0 && cc.FreeText == ""
}

// Compile lowers a parsed query into the condition set the storage layer
// executes. AND predicates become independent conditions. OR predicates
// sharing a field are merged into one multi-value condition; the group
// participates in the overall conjunction like any other condition. NOT
// predicates each become an independent negated condition; for attribute
// fields the negation means "no matching attribute row exists", so cards
// lacking the attribute entirely still pass.
func Compile(q ParsedQuery) CompiledConditions {
	cc := CompiledConditions{FreeText: q.FreeText}

	// Field order of first appearance keeps compiled output deterministic.
	orGroups := make(map[string]*Condition)
	var orFields []string

	for _, p := range q.Predicates {
		switch p.Kind {
		case KindOr:
			group, ok := orGroups[p.Field]
			if !ok {
				group = &Condition{Field: p.Field}
				orGroups[p.Field] = group
				orFields = append(orFields, p.Field)
			}
			group.Values = append(group.Values, p.Value)
		case KindNot:
			cc.Conditions = append(cc.Conditions, Condition{
				Field:  p.Field,
				Values: []string{p.Value},
				Negate: true,
			})
		default:
			cc.Conditions = append(cc.Conditions, Condition{
				Field:  p.Field,
				Values: []string{p.Value},
			})
		}
	}

	for _, field := range orFields {
		cc.Conditions = append(cc.Conditions, *orGroups[field])
	}

	return cc
}
