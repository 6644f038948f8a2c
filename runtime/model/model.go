// Package model maps entities made of typed columns to table rows.
//
// An entity type is registered once with Register, which captures the
// ordered list of its columns. The returned Descriptor performs every
// persistence operation for that type against a store.Executor. Whether an
// entity is persisted is decided only by the truthiness of its identity
// column.
package model

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/danny270793/myorm/runtime/types"
)

// Entity is implemented by every model type.
type Entity interface {
	// Identity returns the id column.
	Identity() *types.Column
	// TableName returns the table override, or "" to derive it from the type name.
	TableName() string
}

// Field returns one column of an entity.
type Field[T Entity] func(T) *types.Column

// DeriveTableName converts a type name to its table name: an underscore is
// inserted before every uppercase letter after the first and the result is
// lowercased, so UserProfile becomes user_profile.
func DeriveTableName(typeName string) string {
	var sb strings.Builder
	sb.Grow(len(typeName) + 4)
	for i, r := range typeName {
		if i > 0 && unicode.IsUpper(r) {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

type fieldInfo[T Entity] struct {
	name   string
	typ    types.ColumnType
	access Field[T]
}

// Register describes the entity type built by newFn. The identity column
// comes first; fields lists the remaining columns in insert order.
func Register[T Entity](newFn func() T, fields ...Field[T]) (*Descriptor[T], error) {
	if newFn == nil {
		return nil, fmt.Errorf("model: nil constructor")
	}

	sample := newFn()
	id := sample.Identity()
	if id == nil {
		return nil, fmt.Errorf("model %s: nil identity column", typeName[T]())
	}

	d := &Descriptor[T]{
		newFn:  newFn,
		table:  sample.TableName(),
		idName: id.Name(),
		index:  make(map[string]int, len(fields)+1),
	}
	if d.table == "" {
		d.table = DeriveTableName(typeName[T]())
	}

	d.fields = append(d.fields, fieldInfo[T]{name: id.Name(), typ: id.Type(), access: identity[T]})
	d.index[id.Name()] = 0

	for _, f := range fields {
		col := f(sample)
		if col == nil {
			return nil, fmt.Errorf("model %s: field %d returned a nil column", typeName[T](), len(d.fields))
		}
		if _, dup := d.index[col.Name()]; dup {
			return nil, fmt.Errorf("model %s: duplicate column %s", typeName[T](), col.Name())
		}
		d.index[col.Name()] = len(d.fields)
		d.fields = append(d.fields, fieldInfo[T]{name: col.Name(), typ: col.Type(), access: f})
	}

	return d, nil
}

func identity[T Entity](e T) *types.Column {
	return e.Identity()
}

// MustRegister is like Register but panics on error.
func MustRegister[T Entity](newFn func() T, fields ...Field[T]) *Descriptor[T] {
	d, err := Register(newFn, fields...)
	if err != nil {
		panic(err)
	}
	return d
}
