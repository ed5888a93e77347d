// Package sql is the database access helper used by recordgen and copied
// verbatim into every generated output directory.
//
// It resolves connection parameters from layered sources, runs raw and
// prepared statements with typed parameter binding, and builds simple
// SELECT/INSERT/UPDATE/DELETE statements from a table name and a WHERE
// condition. The package depends only on third-party modules, never on
// the rest of recordgen, so generated code stays self-contained.
//
// # Connecting
//
// Parameters resolve per field: explicit argument, then conf/database.ini,
// then environment (DB_HOST, DB_NAME, DB_USER, DB_PASS, DB_DRIVER,
// DB_CHARSET, DB_PORT and the legacy DBHOST, DBNAME, DBUSER, DBPASSWORD).
// When host or database are still missing, DB_DSN is used as a full
// override.
//
//	db, err := sql.Connect(ctx, nil, nil, nil, nil)
//	if err != nil {
//	    return err // *ConfigurationError or *ConnectionError
//	}
//	defer db.Close()
//
// # Statements
//
// Parameters are a map of tagged values. Integer keys ("0", "1") are
// positional, every other key is a named placeholder:
//
//	row, err := db.GetRow(ctx, "SELECT * FROM users WHERE id = :id",
//	    sql.Params{"id": sql.Int(5)})
//
// # Table helpers
//
//	id, err := db.Insert(ctx, "users", map[string]sql.Value{
//	    "name":   sql.Text("Ann"),
//	    "active": sql.Bool(true),
//	})
//	n, err := db.CountTable(ctx, "users", sql.Match(map[string]sql.Value{"active": sql.Bool(true)}))
//	n, err = db.DeleteFrom(ctx, "users", sql.Match(map[string]sql.Value{"id": sql.Int(id)}))
//
// A nil WHERE matches every row. DeleteFrom and Update with a nil WHERE
// affect the whole table; this is not guarded.
//
// ORDER BY and LIMIT given to Select are inserted into the statement as
// literal text. Never pass untrusted input there.
//
// # Concurrency
//
// A *DB holds a single logical connection, and an open transaction is
// shared by every caller of that *DB. Use one *DB per goroutine that runs
// transactions.
package sql
