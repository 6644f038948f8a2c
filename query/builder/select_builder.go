package builder

import (
	"fmt"
	"strings"

	"github.com/danny270793/myorm/query/sqlgen"
)

type orderBy struct {
	field     string
	direction string
}

type having struct {
	field    string
	operator string
	value    interface{}
}

// SelectBuilder builds SELECT statements.
type SelectBuilder struct {
	filter
	table   string
	fields  []string
	groupBy string
	having  *having
	orderBy *orderBy
	limit   *int
	offset  *int
}

// From starts a SELECT against table.
func From(table string) *SelectBuilder {
	return &SelectBuilder{table: table}
}

// Table returns the target table.
func (s *SelectBuilder) Table() string {
	return s.table
}

// Fields replaces the selected field list. No fields selects *.
func (s *SelectBuilder) Fields(fields ...string) *SelectBuilder {
	s.fields = append([]string(nil), fields...)
	return s
}

// Where appends conditions.
func (s *SelectBuilder) Where(conditions ...sqlgen.WhereCondition) *SelectBuilder {
	s.add(conditions)
	return s
}

// GroupBy sets the GROUP BY field.
func (s *SelectBuilder) GroupBy(field string) *SelectBuilder {
	s.groupBy = field
	return s
}

// Having sets the single HAVING condition. Its value is parameterized.
func (s *SelectBuilder) Having(field, operator string, value interface{}) *SelectBuilder {
	s.having = &having{field: field, operator: operator, value: value}
	return s
}

// OrderBy sets the ORDER BY clause. An empty direction means ASC; any other
// direction is upper-cased and emitted as given.
func (s *SelectBuilder) OrderBy(field, direction string) *SelectBuilder {
	if direction == "" {
		direction = "asc"
	}
	s.orderBy = &orderBy{field: field, direction: direction}
	return s
}

// Limit sets LIMIT, rendered inline.
func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	s.limit = &n
	return s
}

// Offset sets OFFSET, rendered inline.
func (s *SelectBuilder) Offset(n int) *SelectBuilder {
	s.offset = &n
	return s
}

// ToPreparedStatement renders
// SELECT … FROM … [WHERE] [GROUP BY] [HAVING] [ORDER BY] [LIMIT] [OFFSET].
func (s *SelectBuilder) ToPreparedStatement() (sqlgen.PreparedStatement, error) {
	var params sqlgen.Params

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(s.fields) > 0 {
		sb.WriteString(strings.Join(s.fields, ", "))
	} else {
		sb.WriteString("*")
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.table)

	sb.WriteString(s.render(&params))

	if s.groupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(s.groupBy)
	}

	if s.having != nil {
		placeholder := params.Add(s.having.value)
		fmt.Fprintf(&sb, " HAVING %s %s %s", s.having.field, s.having.operator, placeholder)
	}

	if s.orderBy != nil {
		fmt.Fprintf(&sb, " ORDER BY %s %s", s.orderBy.field, strings.ToUpper(s.orderBy.direction))
	}

	if s.limit != nil {
		fmt.Fprintf(&sb, " LIMIT %d", *s.limit)
	}

	if s.offset != nil {
		fmt.Fprintf(&sb, " OFFSET %d", *s.offset)
	}

	return sqlgen.PreparedStatement{SQL: sb.String(), Params: params.Values()}, nil
}

var _ Query = (*SelectBuilder)(nil)
