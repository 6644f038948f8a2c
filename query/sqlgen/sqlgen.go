// Package sqlgen holds the pieces shared by every statement builder: the
// prepared statement contract, parameter encoding and WHERE rendering.
package sqlgen

import (
	"database/sql/driver"
	"reflect"
	"time"

	"github.com/danny270793/myorm/runtime/types"
)

// PreparedStatement is an SQL template plus the parameters bound positionally
// to its ? placeholders. Values rendered as a literal NULL are not in Params.
type PreparedStatement struct {
	SQL    string
	Params []interface{}
}

// Params accumulates positional parameters while a statement is rendered.
type Params struct {
	values []interface{}
}

// Reset drops every accumulated parameter. Builders call it at the start of
// each render so rendering twice never accumulates.
func (p *Params) Reset() {
	p.values = p.values[:0:0]
}

// Add encodes v and returns the text to splice into the SQL: "?" when a
// parameter was pushed, "NULL" when v is absent.
func (p *Params) Add(v interface{}) string {
	encoded, ok := Encode(v)
	if !ok {
		return "NULL"
	}
	p.values = append(p.values, encoded)
	return "?"
}

// Values returns a copy of the accumulated parameters.
func (p *Params) Values() []interface{} {
	out := make([]interface{}, len(p.values))
	copy(out, p.values)
	return out
}

// Len returns the number of accumulated parameters.
func (p *Params) Len() int {
	return len(p.values)
}

// Encode converts v to the value bound for it. It reports false when v
// renders as NULL: nil, nil pointers and driver.Valuers yielding nil.
// Booleans become 1/0 and times become ISO-8601 strings.
func Encode(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case time.Time:
		return types.FormatISO(x), true
	case *time.Time:
		if x == nil {
			return nil, false
		}
		return types.FormatISO(*x), true
	case driver.Valuer:
		if isNilPointer(v) {
			return nil, false
		}
		inner, err := x.Value()
		if err != nil || inner == nil {
			return nil, false
		}
		return Encode(inner)
	}
	if isNilPointer(v) {
		return nil, false
	}
	return v, true
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
