package db

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx"
)

// QueryDesc :
// Defines an abstract query where some fields can be
// configured to adapt to various requests. The produced
// query will look like:
// `select [props] from [table] where [filters] order by
// [ordering]`.
//
// The `Props` define the list of properties to select by
// the query, joined by a ',' character.
//
// The `Table` defines the table into which the props
// should be queried. It is valid to provide a composed
// table as long as the props account for that.
//
// The `Filters` are appended in the `where` clause of the
// generated SQL query, combined with a `and` semantic.
//
// The `Ordering` is an optional `order by` clause.
type QueryDesc struct {
	Props    []string
	Table    string
	Filters  []Filter
	Ordering string
}

// valid :
// Used to determine whether the query is obviously not
// valid.
//
// Returns `true` if the query is not obviously wrong.
func (q QueryDesc) valid() bool {
	return len(q.Props) > 0 && len(q.Table) > 0
}

// generate :
// Used to perform the generation of a valid SQL query from
// the data registered in this query. Assumes the query is
// valid.
//
// Returns a string representing the query.
func (q QueryDesc) generate() string {
	str := fmt.Sprintf("select %s from %s", strings.Join(q.Props, ", "), q.Table)

	if len(q.Filters) > 0 {
		str += " where"

		for id, filter := range q.Filters {
			if id > 0 {
				str += " and"
			}
			str += fmt.Sprintf(" %s", filter)
		}
	}

	if len(q.Ordering) > 0 {
		str += fmt.Sprintf(" order by %s", q.Ordering)
	}

	return str
}

// QueryResult :
// Defines the result of a query as executed by the main DB.
// This small wrapper allows to automatically release the
// remaining rows when it goes out of scope through the
// `Closer` interface.
//
// The `rows` defines the low level rows returned by the
// execution of the query.
//
// The `Err` defines the error that was associated with the
// query itself.
type QueryResult struct {
	rows *pgx.Rows
	Err  error
}

// Next :
// Forwards the call to the internal rows object so that we
// move to the next row of the result.
//
// Returns `true` if there are more rows.
func (q QueryResult) Next() bool {
	return q.rows.Next()
}

// Scan :
// Forwards the call to the internal rows object so that the
// content of the row is retrieved.
//
// The `dest` defines the destination elements where the
// current row should be queried.
//
// Returns any error.
func (q QueryResult) Scan(dest ...interface{}) error {
	return q.rows.Scan(dest...)
}

// Close :
// Implementation of the `Closer` interface which releases
// the remaining rows described by this object if any, making
// sure that the connection to the DB is released.
func (q QueryResult) Close() {
	if q.rows != nil {
		q.rows.Close()
	}
}

// InsertReq :
// Used to describe the data to be inserted into the DB
// through abstract common properties.
//
// The `Script` defines the name of the SQL function that
// should be called to perform the insertion. This function
// should accept a number of arguments matching the number
// provided in `Args`.
//
// The `Args` represent the values that should be marshalled
// and sent as positional parameters of the insertion script,
// in order.
//
// The `SkipReturn` boolean indicates whether the insertion
// request expects a return value or not.
type InsertReq struct {
	Script     string
	Args       []interface{}
	SkipReturn bool
}

// Convertible :
// Used as an interface allowing to convert an element into
// a specialized version that should be used in a request to
// insert this data in the DB. It allows types to define a
// custom facet when being exported to the DB (typically by
// ignoring some fields or restructuring the marshalled
// data).
type Convertible interface {
	Convert() interface{}
}

// Proxy :
// Intended as a common wrapper to access the main DB in a
// convenient way. It helps hiding the complexity of how the
// data is laid out in the DB from the rest of the
// application.
//
// The `dbase` is the database that is wrapped by this
// object.
type Proxy struct {
	dbase *DB
}

// NewProxy :
// Performs the creation of a new common proxy from the
// input database.
//
// The `dbase` defines the main DB that should be wrapped
// by this object.
//
// Returns the created object.
func NewProxy(dbase *DB) Proxy {
	return Proxy{
		dbase: dbase,
	}
}

// FetchFromDB :
// Used to perform the query defined by the input argument
// in the main DB.
//
// The `query` defines the query to perform.
//
// Returns the rows as fetched from the DB along with any
// errors. Note that we distinguish errors that occurred
// during the execution of the query from errors returned
// *before* the execution of the query.
func (p Proxy) FetchFromDB(query QueryDesc) (QueryResult, error) {
	if p.dbase == nil {
		return QueryResult{}, ErrInvalidDB
	}

	if !query.valid() {
		return QueryResult{}, ErrInvalidQuery
	}

	queryStr := query.generate()

	var res QueryResult
	res.rows, res.Err = p.dbase.DBQuery(queryStr)

	return res, nil
}

// InsertToDB :
// Used to perform the insertion of the input data to the DB
// by marshalling it and using the provided insertion script
// to perform the DB request.
//
// The `req` defines an abstract description of the request
// to perform in the DB.
//
// Returns any error occurring while performing the DB
// operation.
func (p Proxy) InsertToDB(req InsertReq) error {
	if p.dbase == nil {
		return ErrInvalidDB
	}

	argsAsStr := make([]string, 0)

	for _, arg := range req.Args {
		cvrt, ok := arg.(Convertible)

		var raw []byte
		var err error

		if ok {
			raw, err = json.Marshal(cvrt.Convert())
		} else {
			// Make sure that strings are not double quoted:
			// this would not work well with the SQL syntax.
			str, ok := arg.(string)

			if ok {
				raw = []byte(str)
			} else {
				raw, err = json.Marshal(arg)
			}
		}

		if err != nil {
			return ErrInvalidData
		}

		argsAsStr = append(argsAsStr, fmt.Sprintf("'%s'", string(raw)))
	}

	var query string

	switch req.SkipReturn {
	case false:
		query = fmt.Sprintf("SELECT * from %s(%s)", req.Script, strings.Join(argsAsStr, ", "))
	default:
		query = fmt.Sprintf("SELECT %s(%s)", req.Script, strings.Join(argsAsStr, ", "))
	}

	_, err := p.dbase.DBExecute(query)

	return formatDBError(err)
}
