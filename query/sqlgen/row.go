package sqlgen

import "sort"

// Row is an ordered set of column/value pairs. Columns keep the position of
// their first Set.
type Row struct {
	columns []string
	values  map[string]interface{}
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]interface{})}
}

// RowOf builds a row from m with columns in lexical order.
func RowOf(m map[string]interface{}) *Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := NewRow()
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Set assigns v to col, keeping col's position if it is already present.
func (r *Row) Set(col string, v interface{}) *Row {
	if r.values == nil {
		r.values = make(map[string]interface{})
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = v
	return r
}

// Get returns the value stored for col.
func (r *Row) Get(col string) (interface{}, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Has reports whether col is present.
func (r *Row) Has(col string) bool {
	_, ok := r.values[col]
	return ok
}

// Columns returns the column names in order.
func (r *Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.columns)
}

// Merge copies every pair of other into r; later values overwrite.
func (r *Row) Merge(other *Row) *Row {
	if other == nil {
		return r
	}
	for _, col := range other.columns {
		r.Set(col, other.values[col])
	}
	return r
}

// Map returns the pairs as a map.
func (r *Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.columns))
	for _, col := range r.columns {
		out[col] = r.values[col]
	}
	return out
}
