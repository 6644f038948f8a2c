// Package types provides the value cell used by models and the column type
// tags shared by the DDL builder and the model layer.
package types

import (
	"reflect"
	"strings"
	"time"
)

// ColumnType is the logical type tag of a column.
type ColumnType string

const (
	String  ColumnType = "string"
	Number  ColumnType = "number"
	Boolean ColumnType = "boolean"
	Date    ColumnType = "date"
)

// ParseColumnType maps a type name to a ColumnType. Unknown names are kept
// verbatim; they render as TEXT in DDL and pass through on read.
func ParseColumnType(name string) ColumnType {
	return ColumnType(strings.ToLower(strings.TrimSpace(name)))
}

// SQLType returns the storage type used in CREATE TABLE statements.
func (t ColumnType) SQLType() string {
	switch t {
	case Number, Boolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// String returns the type name.
func (t ColumnType) String() string {
	return string(t)
}

// Column is a named, typed, mutable holder for one field's value. The type
// tag is fixed at construction and is not checked against stored values.
type Column struct {
	name  string
	typ   ColumnType
	value interface{}
	set   bool
}

// NewColumn creates an unset column.
func NewColumn(name string, typ ColumnType) *Column {
	return &Column{name: name, typ: typ}
}

// Set stores v.
func (c *Column) Set(v interface{}) {
	c.value = v
	c.set = true
}

// Get returns the stored value, or nil if the column was never set.
func (c *Column) Get() interface{} {
	return c.value
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.name
}

// Type returns the column type tag.
func (c *Column) Type() ColumnType {
	return c.typ
}

// IsSet reports whether Set has been called since construction or the last Reset.
func (c *Column) IsSet() bool {
	return c.set
}

// Reset clears the stored value.
func (c *Column) Reset() {
	c.value = nil
	c.set = false
}

// Truthy reports whether v counts as present: nil, false, numeric zero, the
// empty string, the zero time and nil pointers are falsy.
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	case time.Time:
		return !x.IsZero()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && f == f
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}
