package grid

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string
	Name   string
	Status string
	Amount int
}

func newTable(pageSize int) *Table[record] {
	return New(pageSize,
		Column[record]{Key: "id", Header: "ID", Value: func(r record) string { return r.ID }, Sortable: true, Fixed: true},
		Column[record]{Key: "name", Header: "Name", Value: func(r record) string { return r.Name }, Sortable: true},
		Column[record]{Key: "status", Header: "Status", Value: func(r record) string { return r.Status }, Filterable: true, Sortable: true},
		Column[record]{
			Key:      "amount",
			Header:   "Amount",
			Value:    func(r record) string { return fmt.Sprint(r.Amount) },
			Compare:  func(a, b record) int { return a.Amount - b.Amount },
			Sortable: true,
		},
	)
}

func fixture() []record {
	return []record{
		{ID: "1", Name: "Zara", Status: "submitted", Amount: 90},
		{ID: "2", Name: "amir", Status: "pending", Amount: 100},
		{ID: "3", Name: "Bela", Status: "submitted", Amount: 9},
		{ID: "4", Name: "Chen", Status: "visa granted", Amount: 100},
		{ID: "5", Name: "dina", Status: "pending", Amount: 45},
		{ID: "6", Name: "Eko", Status: "submitted", Amount: 100},
	}
}

func collect(t *testing.T, table *Table[record], rows []record, q Query) []string {
	t.Helper()
	var ids []string
	for _, r := range table.Filtered(rows, q) {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestApplyWithoutFiltersCoversCollection(t *testing.T) {
	table := newTable(4)
	rows := fixture()

	seen := 0
	for page := 1; page <= 2; page++ {
		p := table.Apply(rows, Query{Page: page})
		seen += len(p.Rows)
		assert.Equal(t, len(rows), p.Total)
		assert.Equal(t, 2, p.TotalPages)
	}
	assert.Equal(t, len(rows), seen)
}

func TestExactFilterAndClear(t *testing.T) {
	table := newTable(10)
	rows := fixture()

	p := table.Apply(rows, Query{Filters: map[string]string{"status": "submitted"}})
	require.Equal(t, 3, p.Total)
	for _, r := range p.Rows {
		assert.Equal(t, "submitted", r.Item.Status)
	}
	assert.Equal(t, []string{"pending", "submitted", "visa granted"}, p.Facets["status"])

	cleared := table.Apply(rows, Query{Filters: map[string]string{"status": ""}})
	assert.Equal(t, len(rows), cleared.Total)
}

func TestFilterOnNonFilterableColumnIsIgnored(t *testing.T) {
	table := newTable(10)
	p := table.Apply(fixture(), Query{Filters: map[string]string{"name": "Zara"}})
	assert.Equal(t, 6, p.Total)
}

func TestDescendingIsReverseOfAscending(t *testing.T) {
	table := newTable(10)
	rows := fixture()

	for _, key := range []string{"name", "status", "amount", "id"} {
		asc := collect(t, table, rows, Query{Sort: key, Order: Asc})
		desc := collect(t, table, rows, Query{Sort: key, Order: Desc})
		require.Len(t, desc, len(asc))
		for i := range asc {
			assert.Equal(t, asc[i], desc[len(desc)-1-i], "column %s", key)
		}
	}
}

func TestSortIsCaseInsensitiveAndUsesCompare(t *testing.T) {
	table := newTable(10)
	rows := fixture()

	assert.Equal(t, []string{"2", "3", "4", "5", "6", "1"}, collect(t, table, rows, Query{Sort: "name"}))
	assert.Equal(t, []string{"3", "5", "1", "2", "4", "6"}, collect(t, table, rows, Query{Sort: "amount"}))
}

func TestSearchMatchesAnyColumn(t *testing.T) {
	table := newTable(10)
	assert.Equal(t, []string{"4"}, collect(t, table, fixture(), Query{Search: "GRANTED"}))
	assert.Equal(t, []string{"2", "4", "6"}, collect(t, table, fixture(), Query{Search: "100"}))
}

func TestEmptyCollection(t *testing.T) {
	p := newTable(10).Apply(nil, Query{Page: 3})
	assert.True(t, p.Empty())
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 1, p.TotalPages)
	assert.Empty(t, p.Rows)
}

func TestPageClampsToRange(t *testing.T) {
	p := newTable(4).Apply(fixture(), Query{Page: 9})
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Rows, 2)
}

func TestColumnVisibility(t *testing.T) {
	p := newTable(10).Apply(fixture(), Query{Visible: []string{"status"}})
	require.Len(t, p.Headers, 2)
	assert.Equal(t, "id", p.Headers[0].Key)
	assert.Equal(t, "status", p.Headers[1].Key)
	assert.Len(t, p.Rows[0].Cells, 2)
	assert.Len(t, p.Hidden, 2)

	filtered := newTable(10).Apply(fixture(), Query{Visible: []string{"name"}, Filters: map[string]string{"status": "pending"}})
	assert.Equal(t, 2, filtered.Total)
}

func TestColumnPickerWithNothingCheckedKeepsFixedOnly(t *testing.T) {
	values := url.Values{}
	values.Add("col", FixedOnly)

	q := ParseQuery(values)
	assert.Equal(t, []string{FixedOnly}, q.Visible)
	assert.False(t, q.IsVisible("name"))

	p := newTable(10).Apply(fixture(), q)
	require.Len(t, p.Headers, 1)
	assert.Equal(t, "id", p.Headers[0].Key)
	assert.Len(t, p.Hidden, 3)
	assert.Equal(t, "cols=-", q.Encode())
	assert.Equal(t, q.Visible, ParseQuery(mustParseQuery(t, q.Encode())).Visible)
}

func TestColumnPickerSentinelIgnoredWithSelection(t *testing.T) {
	values := url.Values{}
	values.Add("col", FixedOnly)
	values.Add("col", "status")

	assert.Equal(t, []string{"status"}, ParseQuery(values).Visible)
	assert.Empty(t, ParseQuery(url.Values{}).Visible)
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestQueryRoundTrip(t *testing.T) {
	values := url.Values{}
	values.Set("sort", "name")
	values.Set("order", "desc")
	values.Set("q", "zar")
	values.Set("page", "2")
	values.Set("cols", "name,status")
	values.Set("f.status", "submitted")

	q := ParseQuery(values)
	assert.Equal(t, "name", q.Sort)
	assert.Equal(t, Desc, q.Order)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, []string{"name", "status"}, q.Visible)
	assert.Equal(t, "submitted", q.Filter("status"))
	assert.Equal(t, values.Encode(), q.Encode())
}

func TestSortLinkToggles(t *testing.T) {
	q := Query{Sort: "name", Order: Asc, Page: 3}
	next, err := url.ParseQuery(q.SortLink("name"))
	require.NoError(t, err)
	assert.Equal(t, "desc", next.Get("order"))
	assert.Empty(t, next.Get("page"))

	other, err := url.ParseQuery(q.SortLink("status"))
	require.NoError(t, err)
	assert.Equal(t, "status", other.Get("sort"))
	assert.Equal(t, "asc", other.Get("order"))
}
