// Package dialect names the database dialects recordgen understands.
//
// The generator only introspects MySQL (SHOW TABLES / DESC), but the
// runtime helper in dialect/sql can also open SQLite files, which is what
// the test suites use for end-to-end scenarios.
//
// # Dialect Constants
//
//	dialect.MySQL  = "mysql"
//	dialect.SQLite = "sqlite"
//
// # Usage
//
//	import (
//	    "github.com/syssam/recordgen/dialect"
//	    "github.com/syssam/recordgen/dialect/sql"
//	)
//
//	db, err := sql.Connect(ctx, nil, nil, nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//	if db.Dialect() != dialect.MySQL {
//	    log.Fatal("introspection requires mysql")
//	}
//
// # Sub-packages
//
//   - dialect/sql: connection resolution, statement execution, query helpers
package dialect
