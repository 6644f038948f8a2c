package sqlgen

import (
	"strings"
)

// RenderWhere renders conditions in order, encoding each value through
// params. It returns "" for an empty list, otherwise " WHERE ...".
func RenderWhere(conditions []WhereCondition, params *Params) string {
	if len(conditions) == 0 {
		return ""
	}

	parts := make([]string, 0, len(conditions))
	for i, cond := range conditions {
		placeholder := params.Add(cond.Value)
		condition := cond.Field + " " + cond.Operator + " " + placeholder
		if i == 0 {
			parts = append(parts, condition)
			continue
		}
		sep := strings.ToUpper(string(cond.Separator))
		if sep == "" {
			sep = "AND"
		}
		parts = append(parts, sep+" "+condition)
	}

	return " WHERE " + strings.Join(parts, " ")
}
