// Package grid implements the in-memory table model behind every list page: column
// definitions, single-column sorting, exact-match column filters with facets, a free-text
// filter, column visibility and fixed-size pagination.
package grid

import (
	"sort"
	"strings"
)

// SortOrder is the direction of the active sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Toggle returns the order a header click should switch to.
func (o SortOrder) Toggle() SortOrder {
	if o == Asc {
		return Desc
	}
	return Asc
}

// Column defines how one field of T is displayed, sorted and filtered.
type Column[T any] struct {
	Key    string
	Header string
	// Value renders the cell text. It is also used for search, facets and exact filters.
	Value func(T) string
	// Compare overrides the default string ordering, e.g. for money or dates.
	Compare func(a, b T) int
	// Filterable columns get an exact-match dropdown built from observed values.
	Filterable bool
	Sortable   bool
	// Fixed columns cannot be hidden.
	Fixed bool
}

// Query is the table state requested by the page.
type Query struct {
	Sort    string
	Order   SortOrder
	Search  string
	Filters map[string]string
	Page    int
	Visible []string
}

// Row is one rendered row: the record and the text of each visible cell.
type Row[T any] struct {
	Item  T
	Cells []string
}

// Header describes a visible column for rendering.
type Header struct {
	Key        string
	Title      string
	Sortable   bool
	Filterable bool
	Sorted     SortOrder
}

// Page is the result of applying a Query to a collection.
type Page[T any] struct {
	Headers    []Header
	Rows       []Row[T]
	Facets     map[string][]string
	Hidden     []Header
	Query      Query
	Total      int
	Unfiltered int
	Page       int
	PageSize   int
	TotalPages int
}

// Empty reports whether the filtered set has no rows; pages render a "no results" row.
func (p Page[T]) Empty() bool {
	return p.Total == 0
}

// Table holds column definitions and the page size.
type Table[T any] struct {
	columns  []Column[T]
	pageSize int
}

// New builds a table. A non-positive pageSize defaults to 10.
func New[T any](pageSize int, columns ...Column[T]) *Table[T] {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Table[T]{columns: columns, pageSize: pageSize}
}

// Columns returns the column definitions in display order.
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// PageSize returns the fixed page size.
func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// Apply filters, sorts and paginates rows according to q. Facets are computed from the
// whole collection so dropdown options do not disappear while a filter is active.
func (t *Table[T]) Apply(rows []T, q Query) Page[T] {
	q = t.normalize(q)
	filtered := t.Filtered(rows, q)

	total := len(filtered)
	totalPages := 1
	if total > 0 {
		totalPages = (total + t.pageSize - 1) / t.pageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	q.Page = page

	start := (page - 1) * t.pageSize
	end := start + t.pageSize
	if end > total {
		end = total
	}

	visible := t.visibleColumns(q.Visible)
	out := Page[T]{
		Headers:    make([]Header, 0, len(visible)),
		Rows:       make([]Row[T], 0, end-start),
		Facets:     t.facets(rows),
		Query:      q,
		Total:      total,
		Unfiltered: len(rows),
		Page:       page,
		PageSize:   t.pageSize,
		TotalPages: totalPages,
	}
	for _, col := range visible {
		out.Headers = append(out.Headers, t.header(col, q))
	}
	for _, col := range t.columns {
		if !containsColumn(visible, col.Key) {
			out.Hidden = append(out.Hidden, t.header(col, q))
		}
	}
	for _, item := range filtered[start:end] {
		cells := make([]string, len(visible))
		for i, col := range visible {
			cells[i] = col.Value(item)
		}
		out.Rows = append(out.Rows, Row[T]{Item: item, Cells: cells})
	}
	return out
}

// Filtered applies filters, search and sort without paginating. The input is not modified.
func (t *Table[T]) Filtered(rows []T, q Query) []T {
	q = t.normalize(q)
	out := make([]T, 0, len(rows))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, row := range rows {
		if !t.matchesFilters(row, q.Filters) {
			continue
		}
		if search != "" && !t.matchesSearch(row, search) {
			continue
		}
		out = append(out, row)
	}

	col, ok := t.column(q.Sort)
	if !ok || !col.Sortable {
		return out
	}
	compare := col.Compare
	if compare == nil {
		compare = func(a, b T) int {
			return strings.Compare(strings.ToLower(col.Value(a)), strings.ToLower(col.Value(b)))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return compare(out[i], out[j]) < 0 })
	// Descending is the exact reverse of ascending, ties included.
	if q.Order == Desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (t *Table[T]) normalize(q Query) Query {
	if q.Order != Desc {
		q.Order = Asc
	}
	if _, ok := t.column(q.Sort); !ok {
		q.Sort = ""
	}
	filters := make(map[string]string, len(q.Filters))
	for key, value := range q.Filters {
		col, ok := t.column(key)
		value = strings.TrimSpace(value)
		if !ok || !col.Filterable || value == "" {
			continue
		}
		filters[key] = value
	}
	q.Filters = filters
	return q
}

func (t *Table[T]) matchesFilters(row T, filters map[string]string) bool {
	for key, want := range filters {
		col, _ := t.column(key)
		if col.Value(row) != want {
			return false
		}
	}
	return true
}

func (t *Table[T]) matchesSearch(row T, needle string) bool {
	for _, col := range t.columns {
		if strings.Contains(strings.ToLower(col.Value(row)), needle) {
			return true
		}
	}
	return false
}

func (t *Table[T]) facets(rows []T) map[string][]string {
	out := make(map[string][]string)
	for _, col := range t.columns {
		if !col.Filterable {
			continue
		}
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, row := range rows {
			v := col.Value(row)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		out[col.Key] = values
	}
	return out
}

func (t *Table[T]) visibleColumns(keys []string) []Column[T] {
	if len(keys) == 0 {
		return t.columns
	}
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	out := make([]Column[T], 0, len(t.columns))
	for _, col := range t.columns {
		if _, ok := want[col.Key]; ok || col.Fixed {
			out = append(out, col)
		}
	}
	return out
}

func (t *Table[T]) header(col Column[T], q Query) Header {
	h := Header{Key: col.Key, Title: col.Header, Sortable: col.Sortable, Filterable: col.Filterable}
	if q.Sort == col.Key {
		h.Sorted = q.Order
	}
	return h
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, col := range t.columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column[T]{}, false
}

func containsColumn[T any](cols []Column[T], key string) bool {
	for _, col := range cols {
		if col.Key == key {
			return true
		}
	}
	return false
}
