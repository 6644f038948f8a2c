package model

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/danny270793/myorm/runtime/types"
)

// fromStore converts a stored value to the value held by a column of type typ.
func fromStore(typ types.ColumnType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}

	switch typ {
	case types.Boolean:
		if s, ok := v.(string); ok {
			if b, err := cast.ToBoolE(s); err == nil {
				return b, nil
			}
		}
		return types.Truthy(v), nil
	case types.Date:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		t, err := types.ParseISO(s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return t, nil
	}
	return v, nil
}
