package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenSchema(t *testing.T) {
	d, users, audit := newTestDialect(t)

	t.Run("users", func(t *testing.T) {
		code := d.GenSchema(users).GoString()
		for _, want := range []string{
			"// Code generated by recordgen. DO NOT EDIT.",
			"package dbschema",
			`const UsersTable = "users"`,
			`= "created_at"`,
			"var UsersColumns = []string{UsersColumnID, UsersColumnGUID, UsersColumnName, UsersColumnBalance, UsersColumnCreatedAt}",
			"type UsersSchema struct {",
			"*float64",
			"`db:\"balance\" json:\"balance\"`",
			"// Balance is the balance column (decimal(10,2)).",
			"func ScanUsersSchema(row *sql.Row) UsersSchema {",
			"AssignUsersColumn(&s, c, row)",
			"func AssignUsersColumn(s *UsersSchema, column string, row *sql.Row) {",
			"case UsersColumnID:",
			"s.ID = row.Int64(column)",
			"s.GUID = row.String(column)",
			"if row.IsNull(column) {",
			"s.Balance = nil",
			"v := row.Float64(column)",
			"s.Balance = &v",
			"func UsersValues(s *UsersSchema) map[string]sql.Value {",
			"sql.Int(s.ID)",
			"sql.FloatPtr(s.Balance)",
			"sql.TextPtr(s.CreatedAt)",
			`"example.com/shop/gen/sql"`,
		} {
			assert.Contains(t, code, want)
		}
	})

	t.Run("audit log", func(t *testing.T) {
		code := d.GenSchema(audit).GoString()
		assert.Contains(t, code, `const AuditLogTable = "audit_log"`)
		assert.Contains(t, code, "s.Level = row.Int64(column)")
		assert.Contains(t, code, "sql.Text(s.Entry)")
		assert.NotContains(t, code, "IsNull")
	})
}
