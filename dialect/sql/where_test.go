package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name   string
		where  Where
		sql    string
		params Params
	}{
		{
			name:   "nil",
			sql:    "",
			params: Params{},
		},
		{
			name:   "empty raw",
			where:  Raw("", nil),
			sql:    "",
			params: Params{},
		},
		{
			name:   "empty match",
			where:  Match(nil),
			sql:    "",
			params: Params{},
		},
		{
			name:   "raw",
			where:  Raw("age > :a", Params{"a": Int(3)}),
			sql:    "age > :a",
			params: Params{"a": Int(3)},
		},
		{
			name:   "match",
			where:  Match(map[string]Value{"id": Int(5)}),
			sql:    "`id` = :w_id",
			params: Params{"w_id": Int(5)},
		},
		{
			name:   "match null",
			where:  Match(map[string]Value{"deleted_at": Null()}),
			sql:    "`deleted_at` IS NULL",
			params: Params{},
		},
		{
			name:   "match sorted",
			where:  Match(map[string]Value{"b": Text("x"), "a": Int(1), "c": Null()}),
			sql:    "`a` = :w_a AND `b` = :w_b AND `c` IS NULL",
			params: Params{"w_a": Int(1), "w_b": Text("x")},
		},
		{
			name:   "match colliding names",
			where:  Match(map[string]Value{"a-b": Int(1), "a_b": Int(2)}),
			sql:    "`a-b` = :w_a_b AND `a_b` = :w_a_b_2",
			params: Params{"w_a_b": Int(1), "w_a_b_2": Int(2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := BuildWhere(tt.where)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestSelectSQL(t *testing.T) {
	query, params := SelectSQL("users", Match(map[string]Value{"active": Int(1)}),
		Columns("id", "name"), OrderBy("id DESC"), Limit("10"))
	assert.Equal(t, "SELECT `id`, `name` FROM `users` WHERE `active` = :w_active ORDER BY id DESC LIMIT 10", query)
	assert.Equal(t, Params{"w_active": Int(1)}, params)

	query, _ = SelectSQL("users", nil)
	assert.Equal(t, "SELECT * FROM `users`", query)
}
