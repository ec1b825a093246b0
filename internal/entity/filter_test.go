package entity

import "testing"

func sampleProducts() []DbProduct {
	return []DbProduct{
		{ID: 1, Name: "USB Cable", Category: "Electronics", Price: 5},
		{ID: 2, Name: "HDMI Cable", Category: "Electronics", Price: 12},
		{ID: 3, Name: "Desk Lamp", Category: "Furniture", Price: 30},
		{ID: 4, Name: "cable organizer", Category: "office", Price: 10},
	}
}

func filterIDs(t *testing.T, q ProductQuery) []uint {
	t.Helper()
	var ids []uint
	for _, p := range sampleProducts() {
		p := p
		if q.Matches(&p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64  { return &f }
func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProductQueryMatches(t *testing.T) {
	tests := []struct {
		name  string
		query ProductQuery
		want  []uint
	}{
		{name: "empty query matches everything", query: ProductQuery{}, want: []uint{1, 2, 3, 4}},
		{name: "name substring case-insensitive", query: ProductQuery{Name: strPtr("CABLE")}, want: []uint{1, 2, 4}},
		{name: "category exact case-insensitive", query: ProductQuery{Category: strPtr("electronics")}, want: []uint{1, 2}},
		{name: "min price only", query: ProductQuery{MinPrice: floatPtr(10)}, want: []uint{2, 3, 4}},
		{name: "max price only", query: ProductQuery{MaxPrice: floatPtr(10)}, want: []uint{1, 4}},
		{name: "price between inclusive", query: ProductQuery{MinPrice: floatPtr(10), MaxPrice: floatPtr(12)}, want: []uint{2, 4}},
		{name: "name and category conjunction", query: ProductQuery{Name: strPtr("cable"), Category: strPtr("Electronics")}, want: []uint{1, 2}},
		{name: "blank strings impose no constraint", query: ProductQuery{Name: strPtr("  "), Category: strPtr("")}, want: []uint{1, 2, 3, 4}},
		{name: "conjunction can be empty", query: ProductQuery{Name: strPtr("lamp"), Category: strPtr("Electronics")}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterIDs(t, tt.query)
			if !equalIDs(got, tt.want) {
				t.Errorf("expected ids %v, got %v", tt.want, got)
			}
		})
	}
}

func TestProductQueryNilReceiverMatchesAll(t *testing.T) {
	var q *ProductQuery
	p := sampleProducts()[0]
	if !q.Predicate()(&p) {
		t.Fatal("nil query should match every product")
	}
}

func TestProductQueryNilProduct(t *testing.T) {
	q := ProductQuery{}
	if q.Matches(nil) {
		t.Fatal("nil product must not match")
	}
}
