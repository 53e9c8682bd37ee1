package db

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuery :
// Used in case the query to perform in the DB is either
// `nil` or empty.
var ErrInvalidQuery = fmt.Errorf("invalid nil query")

// ErrInvalidDB :
// Indicates that the DB to use to perform a query is not
// valid.
var ErrInvalidDB = fmt.Errorf("invalid nil DB")

// ErrInvalidData :
// Used to indicate that a marshalling error has been
// detected when trying to import some item in the DB.
var ErrInvalidData = fmt.Errorf("invalid data to insert to DB")

// ErrNoSQLCode :
// Defines that the error message provided in input does
// not define any SQL error code.
var ErrNoSQLCode = fmt.Errorf("no SQL code found in error message")

// Defines the possible error codes as returned by the SQL
// driver.
const (
	nonNullConstraint   int = 23502
	foreignKeyViolation int = 23503
	duplicatedElement   int = 23505
)

// Error :
// Defines a generic error type which is associated to a SQL
// error. It defines the code that was set as return value
// for the SQL query along with the initial error.
//
// The `SQLCode` defines the SQL error code returned by the
// query.
//
// The `Err` defines the initial error that produced this
// error.
type Error struct {
	SQLCode int
	Err     error
}

// Error :
// Implementation of the `error` interface.
func (e Error) Error() string {
	return fmt.Sprintf("SQL query failed with code %d (err: %v)", e.SQLCode, e.Err.Error())
}

// extractQuoted :
// Fetches the first quoted element following the provided cue
// in the input message.
//
// The `msg` defines the message to analyze.
//
// The `cue` defines the substring directly preceding the
// quoted element to extract.
//
// Returns the extracted element and whether it could be found.
func extractQuoted(msg string, cue string) (string, bool) {
	id := strings.Index(msg, cue)
	if id < 0 {
		return "", false
	}

	end := msg[id+len(cue):]

	id = strings.Index(end, "\"")
	if id < 0 {
		return "", false
	}

	return end[:id], true
}

// parseSQLCode :
// Used to parse the SQL code defined in an error message
// assuming it looks like `error msg (SQLSTATE : CODE)`. In
// case the corresponding code cannot be parsed an error is
// returned.
func parseSQLCode(msg string) (int, error) {
	sqlCue := "SQLSTATE "

	codeIndex := strings.Index(msg, sqlCue)
	if codeIndex < 0 {
		return 0, ErrNoSQLCode
	}

	end := msg[codeIndex+len(sqlCue):]

	id := strings.Index(end, ")")
	if id < 0 {
		return 0, ErrNoSQLCode
	}

	code, err := strconv.ParseInt(end[:id], 10, 32)
	if err != nil {
		return 0, ErrNoSQLCode
	}

	return int(code), nil
}

// formatDBError :
// Used to extract some information about the DB error
// provided in input. It will typically define whether the
// code refers to a foreign key violation, a `null` value
// where it should not be, etc.
//
// The `err` defines the DB error to analyze.
//
// Returns the formatted DB error (in case all else fails,
// the initial error is returned).
func formatDBError(err error) error {
	if err == nil {
		return err
	}

	code, pErr := parseSQLCode(err.Error())
	if pErr != nil {
		return err
	}

	msg := err.Error()

	switch code {
	case nonNullConstraint:
		if column, ok := extractQuoted(msg, "null value in column \""); ok {
			return Error{
				SQLCode: code,
				Err:     fmt.Errorf("query violates non null constraint on column \"%s\"", column),
			}
		}
	case foreignKeyViolation:
		if table, ok := extractQuoted(msg, "insert or update on table \""); ok {
			return Error{
				SQLCode: code,
				Err:     fmt.Errorf("query violates foreign key existence on table \"%s\"", table),
			}
		}
	case duplicatedElement:
		if constraint, ok := extractQuoted(msg, "duplicate key value violates unique constraint \""); ok {
			return Error{
				SQLCode: code,
				Err:     fmt.Errorf("query violates unique constraint \"%s\"", constraint),
			}
		}
	}

	return Error{
		SQLCode: code,
		Err:     err,
	}
}
