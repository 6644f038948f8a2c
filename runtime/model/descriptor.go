package model

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/query/builder"
	"github.com/danny270793/myorm/query/sqlgen"
	"github.com/danny270793/myorm/runtime/store"
	"github.com/danny270793/myorm/runtime/types"
)

// Descriptor holds the registered column list of an entity type and
// performs its persistence operations. It is immutable and safe for
// concurrent use.
type Descriptor[T Entity] struct {
	newFn  func() T
	table  string
	idName string
	fields []fieldInfo[T]
	index  map[string]int
}

// FieldInfo describes one registered column.
type FieldInfo struct {
	Name string
	Type types.ColumnType
}

// Table returns the table the entity maps to.
func (d *Descriptor[T]) Table() string {
	return d.table
}

// IdentityName returns the name of the identity column.
func (d *Descriptor[T]) IdentityName() string {
	return d.idName
}

// Fields returns the registered columns, identity first.
func (d *Descriptor[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(d.fields))
	for i, f := range d.fields {
		out[i] = FieldInfo{Name: f.name, Type: f.typ}
	}
	return out
}

// New returns a blank entity.
func (d *Descriptor[T]) New() T {
	return d.newFn()
}

// Select starts a select over the entity's table, for use with FindWhere.
func (d *Descriptor[T]) Select() *builder.SelectBuilder {
	return builder.From(d.table)
}

// Create inserts data as given and returns the entity holding it. Keys
// that name a column are also assigned to the entity; the store identity
// is captured only when data carries no truthy id.
func (d *Descriptor[T]) Create(ctx context.Context, exec store.Executor, data map[string]interface{}) (T, error) {
	e := d.newFn()

	row := sqlgen.NewRow()
	for _, f := range d.fields {
		if v, ok := data[f.name]; ok {
			f.access(e).Set(v)
			row.Set(f.name, v)
		}
	}
	var extra []string
	for key := range data {
		if _, ok := d.index[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		row.Set(key, data[key])
	}

	ps, err := builder.Into(d.table).Rows(row).ToPreparedStatement()
	if err != nil {
		return e, err
	}
	res, err := exec.Execute(ctx, ps)
	if err != nil {
		return e, err
	}

	if !types.Truthy(data[d.idName]) && res.LastInsertID != 0 {
		e.Identity().Set(res.LastInsertID)
	}
	return e, nil
}

// Find loads the entity with the given id.
func (d *Descriptor[T]) Find(ctx context.Context, exec store.Executor, id interface{}) (T, error) {
	var zero T

	ps, err := d.Select().Where(sqlgen.Eq(d.idName, id)).ToPreparedStatement()
	if err != nil {
		return zero, err
	}
	row, found, err := exec.QueryOne(ctx, ps)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, &errs.NotFoundError{Table: d.table, ID: id}
	}
	return d.fromRow(row)
}

// FindAll loads every row of the table in store order.
func (d *Descriptor[T]) FindAll(ctx context.Context, exec store.Executor) ([]T, error) {
	return d.FindWhere(ctx, exec, d.Select())
}

// FindWhere loads the rows selected by sel, which must target the entity's table.
func (d *Descriptor[T]) FindWhere(ctx context.Context, exec store.Executor, sel *builder.SelectBuilder) ([]T, error) {
	if sel.Table() != d.table {
		return nil, fmt.Errorf("select targets %s, model maps to %s", sel.Table(), d.table)
	}
	ps, err := sel.ToPreparedStatement()
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, ps)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := d.fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (d *Descriptor[T]) fromRow(row store.Row) (T, error) {
	e := d.newFn()
	for name, v := range row {
		i, ok := d.lookup(name)
		if !ok {
			continue
		}
		f := d.fields[i]
		converted, err := fromStore(f.typ, v)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("%s.%s: %w", d.table, name, err)
		}
		f.access(e).Set(converted)
	}
	return e, nil
}

// lookup finds the field for a result column. Engines that fold unquoted
// identifiers (Postgres lowercases lastLogin) are matched case-insensitively.
func (d *Descriptor[T]) lookup(column string) (int, bool) {
	if i, ok := d.index[column]; ok {
		return i, true
	}
	for i, f := range d.fields {
		if strings.EqualFold(f.name, column) {
			return i, true
		}
	}
	return 0, false
}

// Save updates e when its identity is truthy and inserts it otherwise,
// writing the new identity back into e.
func (d *Descriptor[T]) Save(ctx context.Context, exec store.Executor, e T) error {
	id := e.Identity()

	values := sqlgen.NewRow()
	for _, f := range d.fields[1:] {
		values.Set(f.name, f.access(e).Get())
	}

	if types.Truthy(id.Get()) {
		ps, err := builder.Table(d.table).
			Set(values).
			Where(sqlgen.Eq(d.idName, id.Get())).
			ToPreparedStatement()
		if err != nil {
			return err
		}
		_, err = exec.Execute(ctx, ps)
		return err
	}

	ps, err := builder.Into(d.table).Rows(values).ToPreparedStatement()
	if err != nil {
		return err
	}
	res, err := exec.Execute(ctx, ps)
	if err != nil {
		return err
	}
	if res.LastInsertID != 0 {
		id.Set(res.LastInsertID)
	}
	return nil
}

// Delete removes the row of e. It fails with errs.ErrModelNotSaved when e
// has no identity.
func (d *Descriptor[T]) Delete(ctx context.Context, exec store.Executor, e T) error {
	id := e.Identity().Get()
	if !types.Truthy(id) {
		return errs.ErrModelNotSaved
	}

	ps, err := builder.DeleteFrom(d.table).Where(sqlgen.Eq(d.idName, id)).ToPreparedStatement()
	if err != nil {
		return err
	}
	_, err = exec.Execute(ctx, ps)
	return err
}

// ToData returns the column values of e keyed by column name.
func (d *Descriptor[T]) ToData(e T) map[string]interface{} {
	data := make(map[string]interface{}, len(d.fields))
	for _, f := range d.fields {
		data[f.name] = f.access(e).Get()
	}
	return data
}
