package catalog

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	return []Product{
		{ID: "a", Title: "Vestido de lino", Description: "Corte midi"},
		{ID: "b", Title: "Blusa de seda", Description: "Seda lavada"},
		{ID: "c", Title: "Cárdigan de punto", Description: "Algodón orgánico"},
		{ID: "d", Title: "Playera", Description: "Cuello redondo, ideal bajo un VESTIDO"},
		{ID: "e", Title: "Straße Hose", Description: "Wolle"},
	}
}

func ids(items []Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterBySearchMatchesTitleAndDescription(t *testing.T) {
	t.Parallel()

	got := FilterBySearch(sampleProducts(), "vestido")
	require.Equal(t, []string{"a", "d"}, ids(got))
}

func TestFilterBySearchFoldsCase(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"CÁRDIGAN":  {"c"},
		"  seda  ":  {"b"},
		"STRASSE":   {"e"},
		"algodón":   {"c"},
		"no existe": {},
	}
	for query, want := range cases {
		require.Equal(t, want, ids(FilterBySearch(sampleProducts(), query)), query)
	}
}

func TestFilterBySearchBlankQueryIsIdentity(t *testing.T) {
	t.Parallel()

	items := sampleProducts()
	for _, q := range []string{"", "   ", "\t\n"} {
		got := FilterBySearch(items, q)
		require.Equal(t, items, got)
		require.Same(t, &items[0], &got[0])
	}
}

func TestFilterBySearchIsIdempotentAndOrderPreserving(t *testing.T) {
	t.Parallel()

	items := sampleProducts()
	once := FilterBySearch(items, "de")
	twice := FilterBySearch(once, "de")
	require.Equal(t, once, twice)

	var lastIndex = -1
	for _, p := range once {
		idx := slices.IndexFunc(items, func(o Product) bool { return o.ID == p.ID })
		require.Greater(t, idx, lastIndex)
		lastIndex = idx
	}
}

func TestSearchSeqIsRestartable(t *testing.T) {
	t.Parallel()

	seq := SearchSeq(sampleProducts(), "vestido")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Len(t, first, 2)

	var taken []Product
	for p := range seq {
		taken = append(taken, p)
		break
	}
	require.Equal(t, []string{"a"}, ids(taken))
}

func TestPaginateRoundTrip(t *testing.T) {
	t.Parallel()

	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	for _, size := range []int{1, 5, 7, 23, 50} {
		var joined []int
		pages := TotalPages(len(items), size)
		for p := 1; p <= pages; p++ {
			page, meta := Paginate(items, size, p)
			require.Equal(t, pages, meta.TotalPages)
			require.LessOrEqual(t, len(page), size)
			require.Equal(t, meta.End-meta.Start, len(page))
			joined = append(joined, page...)
		}
		require.Equal(t, items, joined, "size %d", size)
	}
}

func TestPaginateMetadata(t *testing.T) {
	t.Parallel()

	items := []string{"a", "b", "c", "d", "e"}
	page, meta := Paginate(items, 2, 3)
	require.Equal(t, []string{"e"}, page)
	require.Equal(t, PageMeta{Page: 3, PageSize: 2, TotalItems: 5, TotalPages: 3, Start: 4, End: 5}, meta)
	require.True(t, meta.HasPrev())
	require.False(t, meta.HasNext())

	_, meta = Paginate(items, 2, 1)
	require.False(t, meta.HasPrev())
	require.True(t, meta.HasNext())
}

func TestPaginateEdgeCases(t *testing.T) {
	t.Parallel()

	page, meta := Paginate([]string{}, 50, 1)
	require.Empty(t, page)
	require.Equal(t, 1, meta.TotalPages)
	require.Equal(t, 0, meta.TotalItems)

	page, meta = Paginate([]string{"a", "b"}, 2, 5)
	require.Empty(t, page)
	require.Equal(t, 1, meta.TotalPages)

	page, _ = Paginate([]string{"a", "b"}, 0, 1)
	require.Empty(t, page)

	page, _ = Paginate([]string{"a", "b"}, 2, 0)
	require.Empty(t, page)
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, ClampPage(0, 3))
	require.Equal(t, 1, ClampPage(-4, 3))
	require.Equal(t, 2, ClampPage(2, 3))
	require.Equal(t, 3, ClampPage(9, 3))
	require.Equal(t, 1, ClampPage(9, 0))
}

func TestPageWindow(t *testing.T) {
	t.Parallel()

	require.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 10, 5))
	require.Equal(t, []int{3, 4, 5, 6, 7}, PageWindow(5, 10, 5))
	require.Equal(t, []int{6, 7, 8, 9, 10}, PageWindow(10, 10, 5))
	require.Equal(t, []int{1, 2}, PageWindow(2, 2, 5))
	require.Nil(t, PageWindow(1, 0, 5))
}

func TestInflateCounters(t *testing.T) {
	t.Parallel()

	require.Equal(t, Counters{}, InflateCounters(0, 2500))
	require.Equal(t, Counters{SimulatedTotal: 250000, SoldToday: 72, PositiveReviews: 1125}, InflateCounters(100, 2500))
	require.Equal(t, Counters{SimulatedTotal: 2500, SoldToday: 0, PositiveReviews: 11}, InflateCounters(1, 2500))
	require.Equal(t, Counters{SimulatedTotal: 60000, SoldToday: 17, PositiveReviews: 270}, InflateCounters(24, 2500))
}
