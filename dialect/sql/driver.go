package sql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"

	// Registers the "mysql" database/sql driver.
	_ "github.com/go-sql-driver/mysql"
)

// DB is a database handle bound to a single logical connection. While a
// transaction started with Begin is open, every statement run through the
// DB uses it.
//
// A DB is not meant to be shared between goroutines that use transactions;
// open one per goroutine instead.
type DB struct {
	db      *sql.DB
	dialect string
	config  *Config
	log     *slog.Logger
	rec     *recorder

	mu sync.Mutex
	tx *sql.Tx
}

// Option configures Connect, Resolve and OpenDB.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	stats      *QueryStats
	statsOpts  []StatsOption
	withStats  bool
	opener     func(driver, dsn string) (*sql.DB, error)
	configFile string
	env        func(string) (string, bool)
	formatters map[string]DSNFormatter
}

func newOptions(opts []Option) *options {
	o := &options{
		configFile: DefaultConfigFile,
		opener:     sql.Open,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func (o *options) envSource() source {
	if o.env != nil {
		return lookupEnv(o.env)
	}
	return viperEnv()
}

// WithLogger sets the logger statements are logged to at debug level.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStats enables statistics collection into stats. A nil stats
// allocates a new QueryStats, available from DB.QueryStats.
func WithStats(stats *QueryStats, opts ...StatsOption) Option {
	return func(o *options) {
		o.withStats = true
		o.stats = stats
		o.statsOpts = append(o.statsOpts, opts...)
	}
}

// WithOpener replaces sql.Open.
func WithOpener(open func(driver, dsn string) (*sql.DB, error)) Option {
	return func(o *options) {
		o.opener = open
	}
}

// WithConfigFile sets the ini file read by the resolver. An empty path
// disables the file layer.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithEnv replaces the environment lookup, e.g. os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		o.env = lookup
	}
}

// WithDSNFormatter registers a DSN formatter for a driver name.
func WithDSNFormatter(driver string, f DSNFormatter) Option {
	return func(o *options) {
		if o.formatters == nil {
			o.formatters = make(map[string]DSNFormatter)
		}
		o.formatters[driver] = f
	}
}

// Connect resolves the connection parameters, opens the database and
// verifies it with a ping. Nil arguments are resolved from the config file
// and the environment.
//
//	db, err := sql.Connect(ctx, nil, nil, nil, nil)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
func Connect(ctx context.Context, host, database, user, pass *string, opts ...Option) (*DB, error) {
	cfg, err := Resolve(Overrides{Host: host, Database: database, Username: user, Password: pass}, opts...)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg, opts...)
}

// Open connects using an already resolved Config.
func Open(ctx context.Context, cfg *Config, opts ...Option) (*DB, error) {
	o := newOptions(opts)
	dsn, err := cfg.DriverDSN(o.formatters)
	if err != nil {
		return nil, err
	}
	db, err := o.opener(cfg.Driver, dsn)
	if err != nil {
		return nil, newConnectionError(cfg.DSN, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, newConnectionError(cfg.DSN, err)
	}
	d := newDB(cfg.Driver, db, o)
	d.config = cfg
	d.log.Debug("connected to database", "dsn", cfg.String())
	return d, nil
}

// OpenDB wraps an existing database/sql handle.
func OpenDB(dialect string, db *sql.DB, opts ...Option) *DB {
	return newDB(dialect, db, newOptions(opts))
}

func newDB(dialect string, db *sql.DB, o *options) *DB {
	d := &DB{db: db, dialect: dialect, log: o.logger}
	if o.withStats {
		d.rec = newRecorder(o.stats, o.logger, o.statsOpts...)
	}
	return d
}

// DB returns the underlying *sql.DB instance.
func (d *DB) DB() *sql.DB { return d.db }

// Dialect returns the driver name the DB was opened with.
func (d *DB) Dialect() string {
	for _, name := range []string{MySQL, SQLite} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Config returns the resolved configuration, or nil for handles created
// with OpenDB.
func (d *DB) Config() *Config { return d.config }

// Close rolls back an open transaction and closes the database.
func (d *DB) Close() error {
	d.mu.Lock()
	tx := d.tx
	d.tx = nil
	d.mu.Unlock()
	var err error
	if tx != nil {
		err = tx.Rollback()
	}
	return errors.Join(err, d.db.Close())
}

// conn returns the active transaction, or the database.
func (d *DB) conn() ExecQuerier {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tx != nil {
		return d.tx
	}
	return d.db
}

// ExecQuerier wraps the standard Exec, Query and Prepare methods shared by
// *sql.DB and *sql.Tx.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

var (
	_ ExecQuerier = (*sql.DB)(nil)
	_ ExecQuerier = (*sql.Tx)(nil)
)

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// Stmt is an alias to sql.Stmt.
	Stmt = sql.Stmt
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
)

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}

// Rows wraps the rows of a query. Close must be called when done.
type Rows struct{ ColumnScanner }

// All reads the remaining rows and closes r.
func (r *Rows) All() ([]*Row, error) {
	rows, err := scanRows(r.ColumnScanner)
	return rows, errors.Join(err, r.Close())
}

// rowsWithCloser wraps the ColumnScanner interface with a custom Close hook.
type rowsWithCloser struct {
	ColumnScanner
	closer func() error
}

// Close closes the underlying ColumnScanner and calls the custom closer.
func (r rowsWithCloser) Close() error {
	err := r.ColumnScanner.Close()
	return errors.Join(err, r.closer())
}
