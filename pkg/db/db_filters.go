package db

import (
	"fmt"
	"strings"
	"time"
)

// Filter :
// Generic filter that can be used to restrain the number of
// results returned by a query. A filter is combined into a
// SQL query through a syntax using both the `Key` and a set
// of `Values`:
// `Key in ('Values[0]', 'Values[1]', ...)`.
// If the `Values` array contains several values they are
// combined in a OR fashion.
//
// The `Key` describes the value that should be filtered. It
// usually corresponds to the name of a column in the DB.
//
// The `Values` represents the specific instances of the key
// that should be kept.
//
// The `Operator` defines how the key is compared to the
// values.
type Filter struct {
	Key      string
	Values   []interface{}
	Operator Operation
}

// Operation :
// Defines the possible operations to use to combine the
// values available in a filter.
type Operation int

// List of possible operators for a filter.
const (
	In Operation = iota
	LessThan
	GreaterThan
)

// String :
// Implementation of the `Stringer` interface for a filter.
// It allows to automatically transform it into a value to
// use in a SQL query.
//
// Returns the equivalent string for this filter.
func (f Filter) String() string {
	switch f.Operator {
	case LessThan:
		return f.stringifyOperator("<=")
	case GreaterThan:
		return f.stringifyOperator(">=")
	case In:
		fallthrough
	default:
		return f.stringifyBelong()
	}
}

// quote :
// Produces the quoted SQL representation of a single filter
// value, handling `time.Time` values through their RFC3339
// representation.
//
// The `v` defines the value to quote.
//
// Returns the corresponding string.
func quote(v interface{}) string {
	t, ok := v.(time.Time)
	if ok {
		return fmt.Sprintf("'%v'", t.Format(time.RFC3339))
	}

	return fmt.Sprintf("'%v'", v)
}

// stringifyBelong :
// Used to stringify the `Key` and `Values` associated to
// this filter with a `belongs to` semantic.
//
// Returns the corresponding string.
func (f Filter) stringifyBelong() string {
	quoted := make([]string, len(f.Values))
	for id, v := range f.Values {
		quoted[id] = quote(v)
	}

	return fmt.Sprintf("%s in (%s)", f.Key, strings.Join(quoted, ","))
}

// stringifyOperator :
// Used as a generic operation grouping the values of this
// filter with a `and` semantic and comparing the `Key` with
// the provided operator to the `Values`.
//
// The `op` defines the operator to compare the `Key` with
// each element of the `Values`.
//
// Returns the produced string.
func (f Filter) stringifyOperator(op string) string {
	out := ""

	for id, v := range f.Values {
		if id > 0 {
			out += " and "
		}

		out += fmt.Sprintf("%s %s %s", f.Key, op, quote(v))
	}

	return out
}
