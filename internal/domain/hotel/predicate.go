package hotel

import "strings"

// Field names a hotel attribute a search clause applies to.
type Field string

const (
	FieldStreet        Field = "street"
	FieldCity          Field = "city"
	FieldCountry       Field = "country"
	FieldAdultCount    Field = "adultCount"
	FieldChildCount    Field = "childCount"
	FieldFacilities    Field = "facilities"
	FieldType          Field = "type"
	FieldStarRating    Field = "starRating"
	FieldPricePerNight Field = "pricePerNight"
)

// Clause is one strongly typed search predicate. A hotel must satisfy every
// clause in a list (the clauses combine with AND). TextMatchAny is itself a
// nested OR over its fields.
type Clause interface{ searchClause() }

// TextMatchAny matches when any of the listed text fields contains the
// needle, case-insensitively.
type TextMatchAny struct {
	Fields []Field
	Needle string
}

// MinInt matches when the field's value is at least Value.
type MinInt struct {
	Field Field
	Value int64
}

// MaxInt matches when the field's value is at most Value.
type MaxInt struct {
	Field Field
	Value int64
}

// AnyOfText matches when the field equals one of Values, case-insensitively.
type AnyOfText struct {
	Field  Field
	Values []string
}

// AnyOfInt matches when the field equals one of Values.
type AnyOfInt struct {
	Field  Field
	Values []int
}

// ContainsAll matches when the field's value set is a superset of Values,
// case-insensitively.
type ContainsAll struct {
	Field  Field
	Values []string
}

func (TextMatchAny) searchClause() {}
func (MinInt) searchClause()       {}
func (MaxInt) searchClause()       {}
func (AnyOfText) searchClause()    {}
func (AnyOfInt) searchClause()     {}
func (ContainsAll) searchClause()  {}

// Clauses renders the params as predicate clauses. Call on normalized params;
// zero-valued filters produce no clause.
func (p SearchParams) Clauses() []Clause {
	clauses := make([]Clause, 0, 7)
	if p.Destination != "" {
		clauses = append(clauses, TextMatchAny{
			Fields: []Field{FieldStreet, FieldCity, FieldCountry},
			Needle: p.Destination,
		})
	}
	if p.AdultCount > 0 {
		clauses = append(clauses, MinInt{Field: FieldAdultCount, Value: int64(p.AdultCount)})
	}
	if p.ChildCount > 0 {
		clauses = append(clauses, MinInt{Field: FieldChildCount, Value: int64(p.ChildCount)})
	}
	if len(p.Facilities) > 0 {
		clauses = append(clauses, ContainsAll{Field: FieldFacilities, Values: p.Facilities})
	}
	if len(p.Types) > 0 {
		clauses = append(clauses, AnyOfText{Field: FieldType, Values: p.Types})
	}
	if len(p.Stars) > 0 {
		clauses = append(clauses, AnyOfInt{Field: FieldStarRating, Values: p.Stars})
	}
	if p.MaxPrice > 0 {
		clauses = append(clauses, MaxInt{Field: FieldPricePerNight, Value: p.MaxPrice})
	}
	return clauses
}

// Matches reports whether the hotel satisfies every clause.
func (h *Hotel) Matches(clauses []Clause) bool {
	if h == nil {
		return false
	}
	for _, clause := range clauses {
		if !h.matches(clause) {
			return false
		}
	}
	return true
}

func (h *Hotel) matches(clause Clause) bool {
	switch c := clause.(type) {
	case TextMatchAny:
		needle := strings.ToLower(c.Needle)
		for _, f := range c.Fields {
			if strings.Contains(strings.ToLower(h.textField(f)), needle) {
				return true
			}
		}
		return false
	case MinInt:
		return h.intField(c.Field) >= c.Value
	case MaxInt:
		return h.intField(c.Field) <= c.Value
	case AnyOfText:
		for _, v := range c.Values {
			if strings.EqualFold(h.textField(c.Field), v) {
				return true
			}
		}
		return false
	case AnyOfInt:
		for _, v := range c.Values {
			if h.intField(c.Field) == int64(v) {
				return true
			}
		}
		return false
	case ContainsAll:
		have := make(map[string]struct{}, len(h.setField(c.Field)))
		for _, v := range h.setField(c.Field) {
			have[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
		}
		for _, want := range c.Values {
			if _, ok := have[strings.ToLower(strings.TrimSpace(want))]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (h *Hotel) textField(f Field) string {
	switch f {
	case FieldStreet:
		return h.Address.Street
	case FieldCity:
		return h.Address.City
	case FieldCountry:
		return h.Address.Country
	case FieldType:
		return h.Type
	default:
		return ""
	}
}

func (h *Hotel) intField(f Field) int64 {
	switch f {
	case FieldAdultCount:
		return int64(h.AdultCount)
	case FieldChildCount:
		return int64(h.ChildCount)
	case FieldStarRating:
		return int64(h.StarRating)
	case FieldPricePerNight:
		return h.PricePerNight
	default:
		return 0
	}
}

func (h *Hotel) setField(f Field) []string {
	if f == FieldFacilities {
		return h.Facilities
	}
	return nil
}
