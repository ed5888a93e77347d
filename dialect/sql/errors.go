package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrConfiguration is matched by *ConfigurationError.
	ErrConfiguration = errors.New("dialect/sql: invalid configuration")
	// ErrConnection is matched by *ConnectionError.
	ErrConnection = errors.New("dialect/sql: connection failed")
	// ErrQuery is matched by *QueryError.
	ErrQuery = errors.New("dialect/sql: query failed")
	// ErrValidation is matched by *ValidationError.
	ErrValidation = errors.New("dialect/sql: validation failed")
	// ErrTransaction is matched by *TransactionError.
	ErrTransaction = errors.New("dialect/sql: transaction failed")

	// ErrNoRows is returned by GetRow and GetValue when the result is empty.
	ErrNoRows = errors.New("dialect/sql: no rows in result set")
	// ErrNoGlobal is returned by CurrentGlobal before InitGlobal was called.
	ErrNoGlobal = errors.New("dialect/sql: global database handle is not initialized")
)

// ConfigurationError reports connection parameters that could not be
// resolved, or a configuration source that could not be read.
type ConfigurationError struct {
	Missing []string // Unresolved inputs, e.g. "host", "database".
	Message string
	Err     error
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("dialect/sql: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString("database configuration not found")
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing %s)", strings.Join(e.Missing, ", "))
		b.WriteString(". Provide conf/database.ini or set DB_HOST and DB_NAME env vars (or DB_DSN)")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// ConnectionError reports a failure to open or reach the database. DSN is
// already redacted; the cause is wrapped so its text is redacted as well.
type ConnectionError struct {
	DSN string
	Err error
}

func newConnectionError(dsn string, err error) *ConnectionError {
	return &ConnectionError{DSN: RedactDSN(dsn), Err: &redactedError{err: err}}
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	msg := "dialect/sql: failed to connect to database using DSN: " + e.DSN
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConnection.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// IsConnectionError reports whether err is a ConnectionError.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// redactedError masks credentials in the text of the error it wraps.
type redactedError struct{ err error }

func (e *redactedError) Error() string { return RedactDSN(e.err.Error()) }
func (e *redactedError) Unwrap() error { return e.err }

// QueryError wraps a failure to compile, prepare or execute a statement.
// SQL and Params hold the failing statement for diagnostics.
type QueryError struct {
	Message string
	SQL     string
	Params  Params
	Code    int // Native driver error number, 0 when unknown.
	Err     error
}

func newQueryError(msg, query string, params Params, err error) *QueryError {
	e := &QueryError{Message: msg, SQL: query, Params: params, Err: err}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		e.Code = int(me.Number)
	}
	return e
}

// Error returns the error string.
func (e *QueryError) Error() string {
	var b strings.Builder
	b.WriteString("dialect/sql: ")
	b.WriteString(e.Message)
	if e.SQL != "" {
		fmt.Fprintf(&b, " (sql: %q, params: %d)", e.SQL, len(e.Params))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error { return e.Err }

// Is reports whether target is ErrQuery.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// IsQueryError reports whether err is a QueryError.
func IsQueryError(err error) bool {
	var e *QueryError
	return errors.As(err, &e)
}

// ValidationError reports a caller mistake detected before any SQL runs.
type ValidationError struct {
	Op      string // "insert", "update"
	Table   string
	Message string
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("dialect/sql: %s %s: %s", e.Op, e.Table, e.Message)
	}
	return fmt.Sprintf("dialect/sql: %s: %s", e.Op, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// TransactionError wraps a begin, commit or rollback failure.
type TransactionError struct {
	Op  string // "begin", "commit", "rollback"
	Err error
}

// Error returns the error string.
func (e *TransactionError) Error() string {
	verb := map[string]string{"begin": "begin", "commit": "commit", "rollback": "roll back"}[e.Op]
	if verb == "" {
		verb = e.Op
	}
	return fmt.Sprintf("dialect/sql: failed to %s transaction: %v", verb, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransaction.
func (e *TransactionError) Is(target error) bool { return target == ErrTransaction }

// IsTransactionError reports whether err is a TransactionError.
func IsTransactionError(err error) bool {
	var e *TransactionError
	return errors.As(err, &e)
}

// MySQL error numbers of constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // Cannot add or update a child row
	mysqlCheckViolated    = 3819
)

// IsUniqueConstraintError reports whether err comes from a unique index
// violation, e.g. inserting a duplicate guid.
func IsUniqueConstraintError(err error) bool {
	return constraintError(err, []uint16{mysqlDuplicateEntry},
		"Error 1062", "UNIQUE constraint failed", "PRIMARY KEY constraint failed")
}

// IsForeignKeyConstraintError reports whether err comes from a foreign key
// violation.
func IsForeignKeyConstraintError(err error) bool {
	return constraintError(err, []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		"Error 1451", "Error 1452", "FOREIGN KEY constraint failed")
}

// IsCheckConstraintError reports whether err comes from a CHECK constraint
// violation.
func IsCheckConstraintError(err error) bool {
	return constraintError(err, []uint16{mysqlCheckViolated},
		"Error 3819", "CHECK constraint failed")
}

// IsConstraintError reports whether err comes from any constraint
// violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) || IsForeignKeyConstraintError(err) || IsCheckConstraintError(err)
}

// constraintError matches the MySQL error number first and falls back to
// the message text for drivers without typed errors, such as SQLite.
func constraintError(err error, numbers []uint16, texts ...string) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		for _, n := range numbers {
			if me.Number == n {
				return true
			}
		}
		return false
	}
	msg := err.Error()
	for _, s := range texts {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
