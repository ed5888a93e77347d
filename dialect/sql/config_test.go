package sql

import (
	"context"
	stdsql "database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) Option {
	return WithEnv(func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	})
}

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "database.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func ptr(s string) *string { return &s }

func TestResolvePrecedence(t *testing.T) {
	path := writeINI(t, "[database]\nHOST = filehost\nname = filedb\nuser = fileuser\npass = filepass\nport = 3307\n")
	cfg, err := Resolve(
		Overrides{Host: ptr("explicit")},
		WithConfigFile(path),
		envOf(map[string]string{"DB_HOST": "envhost", "DB_NAME": "envdb", "DB_CHARSET": "latin1"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Host)
	assert.Equal(t, "filedb", cfg.Database)
	assert.Equal(t, "fileuser", cfg.Username)
	assert.Equal(t, "filepass", cfg.Password)
	assert.Equal(t, "3307", cfg.Port)
	assert.Equal(t, "latin1", cfg.Charset)
	assert.Equal(t, MySQL, cfg.Driver)
	assert.Equal(t, "mysql:host=explicit;dbname=filedb;port=3307;charset=latin1", cfg.DSN)
}

func TestResolveTopLevelINI(t *testing.T) {
	path := writeINI(t, "host = h\ndatabase = d\nusername = u\npassword = p\n")
	cfg, err := Resolve(Overrides{}, WithConfigFile(path), envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, "h", cfg.Host)
	assert.Equal(t, "d", cfg.Database)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, "p", cfg.Password)
	assert.Equal(t, DefaultCharset, cfg.Charset)
}

func TestResolveEnvAliases(t *testing.T) {
	cfg, err := Resolve(Overrides{}, WithConfigFile(""), envOf(map[string]string{
		"DB_HOST":    "",
		"DBHOST":     "legacy",
		"DBNAME":     "app",
		"DBUSER":     "root",
		"DBPASSWORD": "pw",
	}))
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Host, "empty variables count as unset")
	assert.Equal(t, "app", cfg.Database)
	assert.Equal(t, "root", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)
}

func TestResolveViperEnv(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DBHOST", "viperhost")
	t.Setenv("DB_NAME", "viperdb")
	t.Setenv("DB_DSN", "")
	cfg, err := Resolve(Overrides{}, WithConfigFile(""))
	require.NoError(t, err)
	assert.Equal(t, "viperhost", cfg.Host)
	assert.Equal(t, "viperdb", cfg.Database)
}

func TestResolveExplicitEmpty(t *testing.T) {
	cfg, err := Resolve(Overrides{Host: ptr("h"), Database: ptr("d"), Password: ptr("")},
		WithConfigFile(""), envOf(map[string]string{"DB_PASS": "env"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Password, "an explicit empty value wins over the environment")
}

func TestResolveMissing(t *testing.T) {
	_, err := Resolve(Overrides{Host: ptr("h")}, WithConfigFile(filepath.Join(t.TempDir(), "none.ini")), envOf(nil))
	require.True(t, IsConfigurationError(err))
	require.ErrorIs(t, err, ErrConfiguration)
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"database"}, ce.Missing)
	assert.Contains(t, err.Error(), "conf/database.ini")
	assert.Contains(t, err.Error(), "DB_HOST and DB_NAME")
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestResolveMalformedINI(t *testing.T) {
	path := writeINI(t, "[database\nhost = x\n")
	_, err := Resolve(Overrides{}, WithConfigFile(path), envOf(nil))
	require.True(t, IsConfigurationError(err))
}

func TestResolveLegacyDSN(t *testing.T) {
	t.Run("pdo", func(t *testing.T) {
		cfg, err := Resolve(Overrides{}, WithConfigFile(""), envOf(map[string]string{
			"DB_DSN":  "mysql:host=db.local;dbname=shop;port=3310;charset=utf8;user=dsnuser;password=dsnpass",
			"DB_USER": "envuser",
		}))
		require.NoError(t, err)
		assert.Equal(t, "db.local", cfg.Host)
		assert.Equal(t, "shop", cfg.Database)
		assert.Equal(t, "3310", cfg.Port)
		assert.Equal(t, "utf8", cfg.Charset)
		assert.Equal(t, "envuser", cfg.Username)
		assert.Equal(t, "dsnpass", cfg.Password)
		assert.Equal(t, "mysql:host=db.local;dbname=shop;port=3310;charset=utf8;user=dsnuser;password=***", cfg.String())
	})
	t.Run("native", func(t *testing.T) {
		dsn := "root:secret@tcp(10.0.0.1:3306)/app?parseTime=true"
		cfg, err := Resolve(Overrides{}, WithConfigFile(""), envOf(map[string]string{"DB_DSN": dsn}))
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", cfg.Host)
		assert.Equal(t, "3306", cfg.Port)
		assert.Equal(t, "app", cfg.Database)
		assert.Equal(t, "root", cfg.Username)
		assert.Equal(t, "secret", cfg.Password)
		got, err := cfg.DriverDSN(nil)
		require.NoError(t, err)
		assert.Equal(t, dsn, got)
		assert.NotContains(t, cfg.String(), "secret")
	})
	t.Run("native with credential overrides", func(t *testing.T) {
		cfg, err := Resolve(Overrides{}, WithConfigFile(""), envOf(map[string]string{
			"DB_DSN":  "root:secret@tcp(h:3306)/app",
			"DB_USER": "envuser",
			"DB_PASS": "envpass",
		}))
		require.NoError(t, err)
		assert.Equal(t, "envuser", cfg.Username)
		assert.Equal(t, "envpass", cfg.Password)
		got, err := cfg.DriverDSN(nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "envuser:envpass@tcp(h:3306)/app"), got)
		assert.NotContains(t, got, "secret")
	})
	t.Run("native with explicit credentials", func(t *testing.T) {
		cfg, err := Resolve(Overrides{Username: ptr("cli"), Password: ptr("clipass")}, WithConfigFile(""),
			envOf(map[string]string{"DB_DSN": "root:secret@tcp(h:3306)/app?parseTime=true"}))
		require.NoError(t, err)
		got, err := cfg.DriverDSN(nil)
		require.NoError(t, err)
		mc, err := mysql.ParseDSN(got)
		require.NoError(t, err)
		assert.Equal(t, "cli", mc.User)
		assert.Equal(t, "clipass", mc.Passwd)
		assert.Equal(t, "h:3306", mc.Addr)
		assert.Equal(t, "app", mc.DBName)
		assert.True(t, mc.ParseTime)
	})
}

func TestDriverDSN(t *testing.T) {
	cfg := &Config{Driver: MySQL, Host: "h", Port: "3307", Database: "d", Username: "u", Password: "p", Charset: "utf8mb4"}
	dsn, err := cfg.DriverDSN(nil)
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3307)/d?charset=utf8mb4", dsn)

	dsn, err = (&Config{Driver: SQLite, Database: "/tmp/app.db"}).DriverDSN(nil)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/app.db", dsn)

	_, err = (&Config{Driver: "pgsql"}).DriverDSN(nil)
	require.True(t, IsConfigurationError(err))

	dsn, err = (&Config{Driver: "pgsql", Host: "h"}).DriverDSN(map[string]DSNFormatter{
		"pgsql": func(c *Config) (string, error) { return "postgres://" + c.Host, nil },
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres://h", dsn)
}

func TestRedactDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"mysql:host=h;dbname=d;password=s3cr3t", "mysql:host=h;dbname=d;password=***"},
		{"mysql:host=h;PASSWORD=x;dbname=d", "mysql:host=h;password=***;dbname=d"},
		{"u:p@ss@tcp(h:3306)/d", "u:***@tcp(h:3306)/d"},
		{"user:pw@/db", "user:***@/db"},
		{"root:se/cret@tcp(10.0.0.1:3306)/app", "root:***@tcp(10.0.0.1:3306)/app"},
		{"dial root:a/b@c@tcp(h)/d: refused", "dial root:***@tcp(h)/d: refused"},
		{"mysql:host=h;dbname=d", "mysql:host=h;dbname=d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactDSN(tt.in), tt.in)
	}
}

func TestConnectRedactsPassword(t *testing.T) {
	_, err := Connect(context.Background(), nil, nil, nil, nil,
		WithConfigFile(""),
		envOf(map[string]string{"DB_DSN": "mysql:host=db;dbname=app;password=secret"}),
		WithOpener(func(string, string) (*stdsql.DB, error) {
			return nil, errors.New("access denied for password=secret")
		}),
	)
	require.True(t, IsConnectionError(err))
	require.ErrorIs(t, err, ErrConnection)
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "dialect/sql: failed to connect to database using DSN: mysql:host=db;dbname=app;password=***")
}

func TestConnectRedactsNativePassword(t *testing.T) {
	dsn := "root:se/cret@tcp(10.0.0.1:3306)/app"
	_, err := Connect(context.Background(), nil, nil, nil, nil,
		WithConfigFile(""),
		envOf(map[string]string{"DB_DSN": dsn}),
		WithOpener(func(_, got string) (*stdsql.DB, error) {
			return nil, errors.New("cannot open " + got)
		}),
	)
	require.True(t, IsConnectionError(err))
	assert.NotContains(t, err.Error(), "se/cret")
	assert.NotContains(t, err.Error(), "cret")
	assert.Contains(t, err.Error(), "root:***@tcp(10.0.0.1:3306)/app")
}

func TestConnect(t *testing.T) {
	sdb, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()
	var gotDriver, gotDSN string
	db, err := Connect(context.Background(), ptr("h"), ptr("d"), ptr("u"), ptr("p"),
		WithConfigFile(""),
		envOf(nil),
		WithOpener(func(driver, dsn string) (*stdsql.DB, error) {
			gotDriver, gotDSN = driver, dsn
			return sdb, nil
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, MySQL, gotDriver)
	assert.Equal(t, "u:p@tcp(h)/d?charset=utf8mb4", gotDSN)
	assert.Equal(t, MySQL, db.Dialect())
	assert.Equal(t, "h", db.Config().Host)
	assert.Equal(t, 1, db.DB().Stats().MaxOpenConnections)
	mock.ExpectClose()
	require.NoError(t, db.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectPingFailure(t *testing.T) {
	sdb, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()
	_, err = Connect(context.Background(), ptr("h"), ptr("d"), nil, ptr("topsecret"),
		WithConfigFile(""),
		envOf(nil),
		WithOpener(func(string, string) (*stdsql.DB, error) { return sdb, nil }),
	)
	require.True(t, IsConnectionError(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotContains(t, err.Error(), "topsecret")
	require.NoError(t, mock.ExpectationsWereMet())
}
