package sql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
		is       func(error) bool
		contains string
	}{
		{"configuration", &ConfigurationError{Missing: []string{"host"}}, ErrConfiguration, IsConfigurationError, "missing host"},
		{"connection", newConnectionError("mysql:host=h;password=p", cause), ErrConnection, IsConnectionError, "password=***"},
		{"query", newQueryError("exec failed", "SELECT 1", nil, cause), ErrQuery, IsQueryError, `"SELECT 1"`},
		{"validation", &ValidationError{Op: "insert", Table: "t", Message: "empty"}, ErrValidation, IsValidationError, "insert t: empty"},
		{"transaction", &TransactionError{Op: "begin", Err: cause}, ErrTransaction, IsTransactionError, "failed to begin transaction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.True(t, tt.is(wrapped))
			assert.Contains(t, tt.err.Error(), "dialect/sql: ")
			assert.Contains(t, tt.err.Error(), tt.contains)
			for _, other := range []error{ErrConfiguration, ErrConnection, ErrQuery, ErrValidation, ErrTransaction} {
				if other != tt.sentinel {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
	assert.ErrorIs(t, newConnectionError("x", cause), cause)
	assert.False(t, IsQueryError(cause))
}

func TestConstraintErrors(t *testing.T) {
	wrap := func(err error) error { return newQueryError("exec failed", "INSERT", nil, err) }
	tests := []struct {
		name                    string
		err                     error
		unique, foreignKey, chk bool
	}{
		{"nil", nil, false, false, false},
		{"plain", errors.New("boom"), false, false, false},
		{"mysql duplicate", wrap(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}), true, false, false},
		{"mysql parent row", wrap(&mysql.MySQLError{Number: 1451}), false, true, false},
		{"mysql child row", wrap(&mysql.MySQLError{Number: 1452}), false, true, false},
		{"mysql check", wrap(&mysql.MySQLError{Number: 3819}), false, false, true},
		{"mysql other", wrap(&mysql.MySQLError{Number: 1146, Message: "UNIQUE constraint failed"}), false, false, false},
		{"sqlite unique", wrap(errors.New("constraint failed: UNIQUE constraint failed: users.guid (2067)")), true, false, false},
		{"sqlite foreign key", wrap(errors.New("FOREIGN KEY constraint failed")), false, true, false},
		{"sqlite check", wrap(errors.New("CHECK constraint failed: age > 0")), false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.chk, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey || tt.chk, IsConstraintError(tt.err))
		})
	}
}
