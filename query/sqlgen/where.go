package sqlgen

// Separator joins a condition to the one before it.
type Separator string

const (
	And Separator = "and"
	Or  Separator = "or"
)

// WhereCondition is a single comparison in a WHERE clause. Separator is
// ignored on the first condition and defaults to AND elsewhere.
type WhereCondition struct {
	Field     string
	Operator  string
	Value     interface{}
	Separator Separator
}

// Eq returns field = value.
func Eq(field string, value interface{}) WhereCondition {
	return WhereCondition{Field: field, Operator: "=", Value: value}
}

// Cond returns a condition joined with AND.
func Cond(field, operator string, value interface{}) WhereCondition {
	return WhereCondition{Field: field, Operator: operator, Value: value}
}

// OrCond returns a condition joined with OR.
func OrCond(field, operator string, value interface{}) WhereCondition {
	return WhereCondition{Field: field, Operator: operator, Value: value, Separator: Or}
}
