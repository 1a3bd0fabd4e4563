package evaluator

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/rules/ast"
)

// errNotNumeric is returned by toFloat64 for non-numeric values.
var errNotNumeric = errors.New("value is not numeric")

// unquote strips surrounding single quotes from a literal.
func unquote(literal string) string {
	return strings.Trim(literal, "'")
}

// compareNumeric applies an ordering comparator to an integer literal.
// Integral record values are compared as int64; others as float64.
func compareNumeric(c ast.Comparator, actual any, expected int64) (bool, error) {
	if n, ok := toInt64(actual); ok {
		return applyOrder(c, cmp.Compare(n, expected)), nil
	}
	f, err := toFloat64(actual)
	if err != nil {
		return false, err
	}
	return applyOrder(c, cmp.Compare(f, float64(expected))), nil
}

func applyOrder(c ast.Comparator, order int) bool {
	switch c {
	case ast.Gt:
		return order > 0
	case ast.Lt:
		return order < 0
	case ast.Gte:
		return order >= 0
	case ast.Lte:
		return order <= 0
	}
	return false
}

// toInt64 reports v as int64 when it is an integer that fits.
func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		return n, err == nil
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return int64(val), uint64(val) <= math.MaxInt64
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return int64(val), val <= math.MaxInt64
	default:
		return 0, false
	}
}

// toFloat64 converts a numeric record value to float64.
func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case json.Number:
		return val.Float64()
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, errNotNumeric
	}
}

// toString renders a record value for = comparisons.
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
