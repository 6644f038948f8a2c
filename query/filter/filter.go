// Package filter parses textual filter expressions such as
//
//	name = 'ada' and age >= 36 or email is null
//
// into WHERE conditions. Conditions are kept flat and in source order; the
// separator of each condition is the keyword that precedes it.
package filter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/cast"

	"github.com/danny270793/myorm/query/sqlgen"
)

type expression struct {
	First *condition `parser:"@@"`
	Rest  []*tail    `parser:"@@*"`
}

type tail struct {
	Separator string     `parser:"@(\"and\" | \"or\")"`
	Condition *condition `parser:"@@"`
}

type condition struct {
	Field    string    `parser:"@Ident"`
	Operator *operator `parser:"@@"`
	Value    *value    `parser:"@@"`
}

type operator struct {
	Compare string `parser:"  @Operator"`
	NotLike bool   `parser:"| @(\"not\" \"like\")"`
	Like    bool   `parser:"| @\"like\""`
	IsNot   bool   `parser:"| @(\"is\" \"not\")"`
	Is      bool   `parser:"| @\"is\""`
}

func (o *operator) sql() string {
	switch {
	case o.NotLike:
		return "NOT LIKE"
	case o.Like:
		return "LIKE"
	case o.IsNot:
		return "IS NOT"
	case o.Is:
		return "IS"
	default:
		return o.Compare
	}
}

type value struct {
	String *string `parser:"  @String"`
	Number *string `parser:"| @Number"`
	True   bool    `parser:"| @\"true\""`
	False  bool    `parser:"| @\"false\""`
	Null   bool    `parser:"| @\"null\""`
}

func (v *value) toGo() (interface{}, error) {
	switch {
	case v.String != nil:
		return *v.String, nil
	case v.Number != nil:
		if strings.Contains(*v.Number, ".") {
			return cast.ToFloat64E(*v.Number)
		}
		return cast.ToInt64E(strings.TrimPrefix(*v.Number, "+"))
	case v.True:
		return true, nil
	case v.False:
		return false, nil
	default:
		return nil, nil
	}
}

var parser = participle.MustBuild[expression](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// Parse converts expr into WHERE conditions. An empty expression yields no
// conditions.
func Parse(expr string) ([]sqlgen.WhereCondition, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	parsed, err := parser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}

	first, err := parsed.First.toCondition("")
	if err != nil {
		return nil, err
	}
	conditions := []sqlgen.WhereCondition{first}

	for _, t := range parsed.Rest {
		c, err := t.Condition.toCondition(sqlgen.Separator(strings.ToLower(t.Separator)))
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) []sqlgen.WhereCondition {
	conditions, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return conditions
}

func (c *condition) toCondition(sep sqlgen.Separator) (sqlgen.WhereCondition, error) {
	v, err := c.Value.toGo()
	if err != nil {
		return sqlgen.WhereCondition{}, fmt.Errorf("invalid value for %s: %w", c.Field, err)
	}
	return sqlgen.WhereCondition{
		Field:     c.Field,
		Operator:  c.Operator.sql(),
		Value:     v,
		Separator: sep,
	}, nil
}
