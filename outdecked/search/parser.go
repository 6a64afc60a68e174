package search

import (
	"strings"
)

// PredicateKind is the logical role of a filter predicate.
type PredicateKind int

const (
	KindAnd PredicateKind = iota
	KindOr
	KindNot
)

func (k PredicateKind) String() string {
	switch k {
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindNot:
		return "not"
	default:
		return "unknown"
	}
}

// Predicate is a single field/value match condition.
type Predicate struct {
	Kind  PredicateKind
	Field string
	Value string
}

// ParsedQuery is the structured form of a raw search string.
type ParsedQuery struct {
	FreeText   string
	Predicates []Predicate
}

// HasField reports whether the query already constrains the given field,
// in any role. Presets use this to yield to explicit query terms.
func (q ParsedQuery) HasField(field string) bool {
	for _, p := range q.Predicates {
		if p.Field == field {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the query constrains nothing at all.
func (q ParsedQuery) IsEmpty() bool {
	return q.FreeText == "" && len(q.Predicates) == 0
}

// ParseQuery parses a user's search query into structured filters.
//
// Tokens are whitespace-delimited. A token of the form `field:value` becomes
// a predicate, where `field` is expanded through the shortcut table and
// `value` may be a comma-separated list (OR within the field). A leading `-`
// negates the token. Underscores stand in for literal spaces inside values.
// Tokens without a colon accumulate into a free-text name search.
func ParseQuery(raw string) ParsedQuery {
	var query ParsedQuery
	var freeTerms []string

	for _, term := range strings.Fields(raw) {
		negated := false
		token := term
		if strings.HasPrefix(token, "-") && len(token) > 1 {
			negated = true
			token = token[1:]
		}

		field, rawValues, ok := strings.Cut(token, ":")
		if !ok {
			// Plain term, including a bare "-": free-text name search.
			freeTerms = append(freeTerms, strings.ReplaceAll(term, "_", " "))
			continue
		}

		field = ExpandShortcut(field)
		values := strings.Split(rawValues, ",")
		for i, v := range values {
			values[i] = strings.ReplaceAll(v, "_", " ")
		}

		switch {
		case negated:
			for _, v := range values {
				query.Predicates = append(query.Predicates, Predicate{Kind: KindNot, Field: field, Value: v})
			}
		case len(values) > 1:
			for _, v := range values {
				query.Predicates = append(query.Predicates, Predicate{Kind: KindOr, Field: field, Value: v})
			}
		default:
			query.Predicates = append(query.Predicates, Predicate{Kind: KindAnd, Field: field, Value: values[0]})
		}
	}

	query.FreeText = strings.Join(freeTerms, " ")
	return query
}
