package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ptr(v float64) *float64 { return &v }

func TestSelectListStrategy(t *testing.T) {
	tests := []struct {
		name    string
		filters ListFilters
		want    ListStrategy
	}{
		{"no filters", ListFilters{}, StrategyAll},
		{"all filters with min", ListFilters{Name: "casa", Address: "calle", MinPrice: ptr(1)}, StrategyAllFilters},
		{"all filters with max", ListFilters{Name: "casa", Address: "calle", MaxPrice: ptr(1)}, StrategyAllFilters},
		{"name and address", ListFilters{Name: "casa", Address: "calle"}, StrategyNameAddress},
		{"name and price", ListFilters{Name: "Casa", MinPrice: ptr(100000), MaxPrice: ptr(200000)}, StrategyNamePrice},
		{"address and price", ListFilters{Address: "calle", MaxPrice: ptr(5)}, StrategyAddressPrice},
		{"name only", ListFilters{Name: "casa"}, StrategyName},
		{"address only", ListFilters{Address: "calle"}, StrategyAddress},
		{"min price only", ListFilters{MinPrice: ptr(0)}, StrategyPrice},
		{"max price only", ListFilters{MaxPrice: ptr(10)}, StrategyPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectListStrategy(tt.filters))
		})
	}
}

func TestNamePriceScenarioDoesNotUseAllFilters(t *testing.T) {
	filters := ListFilters{Name: "Casa", MinPrice: ptr(100000), MaxPrice: ptr(200000)}

	strategy := SelectListStrategy(filters)
	require.Equal(t, StrategyNamePrice, strategy)

	filter := strategy.BuildFilter(filters)
	require.NotNil(t, filter.Name)
	assert.Equal(t, "Casa", *filter.Name)
	assert.Nil(t, filter.Address)
	assert.Equal(t, 100000.0, *filter.MinPrice)
	assert.Equal(t, 200000.0, *filter.MaxPrice)
}

func genListFilters(t *rapid.T) ListFilters {
	var f ListFilters
	if rapid.Bool().Draw(t, "hasName") {
		f.Name = rapid.StringMatching(`[a-zA-Z ]{1,12}`).Draw(t, "name")
	}
	if rapid.Bool().Draw(t, "hasAddress") {
		f.Address = rapid.StringMatching(`[a-zA-Z0-9 ]{1,12}`).Draw(t, "address")
	}
	if rapid.Bool().Draw(t, "hasMin") {
		f.MinPrice = ptr(rapid.Float64Range(0, 1e7).Draw(t, "min"))
	}
	if rapid.Bool().Draw(t, "hasMax") {
		f.MaxPrice = ptr(rapid.Float64Range(0, 1e7).Draw(t, "max"))
	}
	return f
}

// Восемь стратегий разбивают все комбинации флагов, fallback не выбирается.
func TestFallbackStrategyIsUnreachable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genListFilters(t)
		if s := SelectListStrategy(f); s == StrategyFallback {
			t.Fatalf("fallback selected for %+v", f)
		}
	})
}

func TestBuiltFilterMatchesPresentFilters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := genListFilters(t)
		filter := SelectListStrategy(f).BuildFilter(f)

		if f.HasName() != (filter.Name != nil) {
			t.Fatalf("name predicate mismatch for %+v", f)
		}
		if f.HasAddress() != (filter.Address != nil) {
			t.Fatalf("address predicate mismatch for %+v", f)
		}
		if (f.MinPrice != nil) != (filter.MinPrice != nil) || (f.MaxPrice != nil) != (filter.MaxPrice != nil) {
			t.Fatalf("price predicate mismatch for %+v", f)
		}
		if !f.HasName() && !f.HasAddress() && !f.HasPrice() && !filter.IsEmpty() {
			t.Fatalf("expected empty filter for %+v", f)
		}
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 9))
	assert.Equal(t, 1, TotalPages(9, 9))
	assert.Equal(t, 2, TotalPages(11, 9))
	assert.Equal(t, 0, TotalPages(5, 0))

	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 100000).Draw(t, "total")
		size := rapid.IntRange(1, 500).Draw(t, "size")
		pages := TotalPages(total, size)

		if pages*size < total {
			t.Fatalf("pages %d too small for total %d size %d", pages, total, size)
		}
		if pages > 0 && (pages-1)*size >= total {
			t.Fatalf("pages %d too large for total %d size %d", pages, total, size)
		}
	})
}

func TestNormalizePage(t *testing.T) {
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(1))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestPropertyApplyKeepsInternalIdentity(t *testing.T) {
	p := Property{ID: "a", IdOwner: 3, Name: "Old", Price: 1, Address: "A", Img: "a.jpg", IdProperty: 10, CodeInternal: "C-10", Year: 1999}

	p.Apply(PropertyChanges{Name: "New", Price: 2, Address: "B", Img: "b.jpg"})

	assert.Equal(t, Property{ID: "a", IdOwner: 3, Name: "New", Price: 2, Address: "B", Img: "b.jpg", IdProperty: 10, CodeInternal: "C-10", Year: 1999}, p)
}

func TestNewPageRequest(t *testing.T) {
	assert.Equal(t, PageRequest{Skip: 0, Limit: 9}, NewPageRequest(0, 9))
	assert.Equal(t, PageRequest{Skip: 18, Limit: 9}, NewPageRequest(3, 9))
	assert.Equal(t, PageRequest{Skip: math.MaxInt, Limit: 9}, NewPageRequest(1024819115206086202, 9))
	assert.Equal(t, PageRequest{Skip: math.MaxInt, Limit: 9}, NewPageRequest(math.MaxInt, 9))

	rapid.Check(t, func(t *rapid.T) {
		page := rapid.IntRange(1, math.MaxInt).Draw(t, "page")
		size := rapid.IntRange(1, 500).Draw(t, "size")
		req := NewPageRequest(page, size)

		if req.Skip < 0 {
			t.Fatalf("negative skip %d for page %d size %d", req.Skip, page, size)
		}
		if req.Limit != size {
			t.Fatalf("limit %d, want %d", req.Limit, size)
		}
	})
}

func TestPageRequestWindow(t *testing.T) {
	cases := []struct {
		name       string
		req        PageRequest
		n          int
		start, end int
	}{
		{"first page", PageRequest{Skip: 0, Limit: 9}, 11, 0, 9},
		{"last partial page", PageRequest{Skip: 9, Limit: 9}, 11, 9, 11},
		{"beyond range", PageRequest{Skip: 18, Limit: 9}, 11, 11, 11},
		{"unbounded", PageRequest{}, 11, 0, 11},
		{"max skip", PageRequest{Skip: math.MaxInt, Limit: 9}, 11, 11, 11},
		{"negative skip", PageRequest{Skip: -9223372036854775798, Limit: 9}, 11, 11, 11},
		{"skip plus limit overflows", PageRequest{Skip: 2, Limit: math.MaxInt}, 11, 2, 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := tc.req.Window(tc.n)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
