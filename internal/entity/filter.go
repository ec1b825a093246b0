package entity

import "strings"

// ProductQuery carries the optional search filters. Absent fields (nil, or
// blank strings after trimming) impose no constraint.
type ProductQuery struct {
	Name     *string  `json:"name" form:"name" query:"name"`
	Category *string  `json:"category" form:"category" query:"category"`
	MinPrice *float64 `json:"minPrice" form:"minPrice" query:"minPrice"`
	MaxPrice *float64 `json:"maxPrice" form:"maxPrice" query:"maxPrice"`
}

// ProductPredicate decides whether a product matches a filter clause.
type ProductPredicate func(*DbProduct) bool

func nameContains(name string) ProductPredicate {
	needle := strings.ToLower(name)
	return func(p *DbProduct) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}
}

func categoryEquals(category string) ProductPredicate {
	want := strings.ToLower(category)
	return func(p *DbProduct) bool {
		return strings.ToLower(p.Category) == want
	}
}

func priceBetween(min, max *float64) ProductPredicate {
	switch {
	case min != nil && max != nil:
		lo, hi := *min, *max
		return func(p *DbProduct) bool { return p.Price >= lo && p.Price <= hi }
	case min != nil:
		lo := *min
		return func(p *DbProduct) bool { return p.Price >= lo }
	case max != nil:
		hi := *max
		return func(p *DbProduct) bool { return p.Price <= hi }
	default:
		return nil
	}
}

// clauses collects the present filter clauses; an empty result means
// "match everything".
func (q *ProductQuery) clauses() []ProductPredicate {
	if q == nil {
		return nil
	}
	var preds []ProductPredicate
	if q.Name != nil {
		if trimmed := strings.TrimSpace(*q.Name); trimmed != "" {
			preds = append(preds, nameContains(trimmed))
		}
	}
	if q.Category != nil {
		if trimmed := strings.TrimSpace(*q.Category); trimmed != "" {
			preds = append(preds, categoryEquals(trimmed))
		}
	}
	if pred := priceBetween(q.MinPrice, q.MaxPrice); pred != nil {
		preds = append(preds, pred)
	}
	return preds
}

// Predicate composes the present clauses into a single conjunction.
func (q *ProductQuery) Predicate() ProductPredicate {
	preds := q.clauses()
	if len(preds) == 0 {
		return func(*DbProduct) bool { return true }
	}
	return func(p *DbProduct) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}
}

// Matches reports whether the product satisfies every present filter.
func (q *ProductQuery) Matches(p *DbProduct) bool {
	if p == nil {
		return false
	}
	return q.Predicate()(p)
}
