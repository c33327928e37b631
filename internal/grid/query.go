package grid

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const filterPrefix = "f."

// FixedOnly is sent by the column picker alongside the checked boxes. On its own it
// selects only the columns that cannot be hidden.
const FixedOnly = "-"

// ParseQuery reads table state from URL query values:
// sort, order, q, page, cols (comma separated) and f.<column> filters.
func ParseQuery(values url.Values) Query {
	q := Query{
		Sort:    strings.TrimSpace(values.Get("sort")),
		Order:   SortOrder(strings.ToLower(values.Get("order"))),
		Search:  values.Get("q"),
		Filters: map[string]string{},
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		q.Page = page
	}
	keys := values["col"]
	if cols := strings.TrimSpace(values.Get("cols")); cols != "" {
		keys = strings.Split(cols, ",")
	}
	q.Visible = parseVisible(keys)
	for key, vals := range values {
		if strings.HasPrefix(key, filterPrefix) && len(vals) > 0 && vals[0] != "" {
			q.Filters[strings.TrimPrefix(key, filterPrefix)] = vals[0]
		}
	}
	return q
}

func parseVisible(keys []string) []string {
	var out []string
	sawFixedOnly := false
	for _, key := range keys {
		key = strings.TrimSpace(key)
		switch key {
		case "":
		case FixedOnly:
			sawFixedOnly = true
		default:
			out = append(out, key)
		}
	}
	if len(out) == 0 && sawFixedOnly {
		return []string{FixedOnly}
	}
	return out
}

// Values encodes the query back into URL values. Defaults are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
		v.Set("order", string(q.Order))
	}
	if q.Search != "" {
		v.Set("q", q.Search)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if len(q.Visible) > 0 {
		v.Set("cols", strings.Join(q.Visible, ","))
	}
	keys := make([]string, 0, len(q.Filters))
	for key := range q.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v.Set(filterPrefix+key, q.Filters[key])
	}
	return v
}

// Encode returns the query string without the leading "?".
func (q Query) Encode() string {
	return q.Values().Encode()
}

// SortLink is the query string for clicking the header of column key: a new column sorts
// ascending, the active column toggles. Sorting resets to the first page.
func (q Query) SortLink(key string) string {
	next := q.clone()
	if q.Sort == key {
		next.Order = q.Order.Toggle()
	} else {
		next.Sort = key
		next.Order = Asc
	}
	next.Page = 1
	return next.Encode()
}

// PageLink is the query string for page n.
func (q Query) PageLink(n int) string {
	next := q.clone()
	next.Page = n
	return next.Encode()
}

// Filter returns the active exact-match value for column key.
func (q Query) Filter(key string) string {
	return q.Filters[key]
}

// IsVisible reports whether key was explicitly selected, or whether no selection exists.
// Fixed columns are shown regardless.
func (q Query) IsVisible(key string) bool {
	if len(q.Visible) == 0 {
		return true
	}
	for _, k := range q.Visible {
		if k == key {
			return true
		}
	}
	return false
}

func (q Query) clone() Query {
	next := q
	next.Filters = make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		next.Filters[k] = v
	}
	next.Visible = append([]string(nil), q.Visible...)
	return next
}
