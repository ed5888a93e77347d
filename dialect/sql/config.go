package sql

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Driver names understood by the resolver. Duplicated from package dialect
// so this package stays self-contained when copied into generated code.
const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

const (
	// DefaultConfigFile is read when WithConfigFile is not given.
	DefaultConfigFile = "conf/database.ini"
	// DefaultCharset is used when no charset is configured.
	DefaultCharset = "utf8mb4"
)

// Config is a resolved set of connection parameters.
type Config struct {
	Driver   string
	Host     string
	Port     string
	Database string
	Username string
	Password string
	Charset  string
	// DSN is the connection string in "driver:host=..;dbname=.." form, or the
	// legacy DB_DSN value when that was used.
	DSN string
	// Params holds extra driver parameters parsed from a native DSN.
	Params map[string]string

	native string // native driver DSN taken verbatim from DB_DSN
}

// Overrides are explicitly provided connection parameters. Nil means unset.
type Overrides struct {
	Host     *string
	Database *string
	Username *string
	Password *string
}

// DSNFormatter renders a Config as a driver data source name.
type DSNFormatter func(*Config) (string, error)

// source is one resolution layer: key -> value for the keys it knows.
type source func(key string) (string, bool)

// resolver keys, in the order they appear in error messages.
var resolverKeys = []string{"host", "database", "username", "password", "driver", "charset", "port"}

// iniAliases lists config file keys per resolver key.
var iniAliases = map[string][]string{
	"host":     {"host"},
	"database": {"database", "name"},
	"username": {"username", "user"},
	"password": {"password", "pass"},
	"driver":   {"driver"},
	"charset":  {"charset"},
	"port":     {"port"},
}

// envAliases lists environment variables per resolver key, primary first.
var envAliases = map[string][]string{
	"host":     {"DB_HOST", "DBHOST"},
	"database": {"DB_NAME", "DBNAME"},
	"username": {"DB_USER", "DBUSER"},
	"password": {"DB_PASS", "DBPASSWORD"},
	"driver":   {"DB_DRIVER"},
	"charset":  {"DB_CHARSET"},
	"port":     {"DB_PORT"},
	"dsn":      {"DB_DSN"},
}

// Resolve merges explicit values, the config file and the environment into
// a Config. For every field the first layer that provides it wins. When host
// or database is still missing, DB_DSN is used as a complete override.
func Resolve(explicit Overrides, opts ...Option) (*Config, error) {
	o := newOptions(opts)
	file, err := iniSource(o.configFile)
	if err != nil {
		return nil, err
	}
	env := o.envSource()
	layers := []source{explicitSource(explicit), file, env}
	values := make(map[string]string, len(resolverKeys))
	for _, key := range resolverKeys {
		for _, layer := range layers {
			if v, ok := layer(key); ok {
				values[key] = v
				break
			}
		}
	}
	var missing []string
	for _, key := range []string{"host", "database"} {
		if _, ok := values[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		if dsn, ok := env("dsn"); ok {
			return parseLegacyDSN(dsn, values)
		}
		return nil, &ConfigurationError{Missing: missing}
	}
	cfg := &Config{
		Driver:   values["driver"],
		Host:     values["host"],
		Port:     values["port"],
		Database: values["database"],
		Username: values["username"],
		Password: values["password"],
		Charset:  values["charset"],
	}
	cfg.defaults()
	cfg.DSN = cfg.FormatDSN()
	return cfg, nil
}

func (c *Config) defaults() {
	if c.Driver == "" {
		c.Driver = MySQL
	}
	if c.Charset == "" {
		c.Charset = DefaultCharset
	}
}

// FormatDSN returns the "driver:host=..;dbname=..[;port=..][;charset=..]"
// form of c. It never contains credentials.
func (c *Config) FormatDSN() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:host=%s;dbname=%s", c.Driver, c.Host, c.Database)
	if c.Port != "" {
		fmt.Fprintf(&b, ";port=%s", c.Port)
	}
	if c.Charset != "" {
		fmt.Fprintf(&b, ";charset=%s", c.Charset)
	}
	return b.String()
}

// DriverDSN returns the data source name passed to database/sql.Open.
// Formatters registered for c.Driver take precedence.
func (c *Config) DriverDSN(formatters map[string]DSNFormatter) (string, error) {
	if f, ok := formatters[c.Driver]; ok {
		return f(c)
	}
	switch c.Driver {
	case MySQL:
		if c.native != "" {
			mc, err := mysql.ParseDSN(c.native)
			if err != nil {
				return "", &ConfigurationError{Message: "invalid DB_DSN", Err: &redactedError{err: err}}
			}
			mc.User = c.Username
			mc.Passwd = c.Password
			return mc.FormatDSN(), nil
		}
		mc := mysql.NewConfig()
		mc.User = c.Username
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.Host
		if c.Port != "" {
			mc.Addr = net.JoinHostPort(c.Host, c.Port)
		}
		mc.DBName = c.Database
		mc.InterpolateParams = false
		mc.ParseTime = false
		if err := mc.Apply(mysql.Charset(c.Charset, "")); err != nil {
			return "", &ConfigurationError{Message: "invalid charset", Err: err}
		}
		for k, v := range c.Params {
			if mc.Params == nil {
				mc.Params = make(map[string]string)
			}
			mc.Params[k] = v
		}
		return mc.FormatDSN(), nil
	case SQLite:
		return c.Database, nil
	default:
		return "", &ConfigurationError{Message: fmt.Sprintf("unsupported driver %q", c.Driver)}
	}
}

func explicitSource(o Overrides) source {
	return func(key string) (string, bool) {
		var p *string
		switch key {
		case "host":
			p = o.Host
		case "database":
			p = o.Database
		case "username":
			p = o.Username
		case "password":
			p = o.Password
		}
		if p == nil {
			return "", false
		}
		return *p, true
	}
}

// iniSource loads path. A missing file yields an empty layer.
func iniSource(path string) (source, error) {
	empty := func(string) (string, bool) { return "", false }
	if path == "" {
		return empty, nil
	}
	if _, err := os.Stat(path); err != nil {
		// Missing or unreadable files leave the layer empty.
		return empty, nil
	}
	f, err := ini.InsensitiveLoad(path)
	if err != nil {
		return nil, &ConfigurationError{Message: fmt.Sprintf("reading %s", path), Err: err}
	}
	sec := f.Section("")
	if s, err := f.GetSection("database"); err == nil {
		sec = s
	}
	return func(key string) (string, bool) {
		for _, name := range iniAliases[key] {
			if sec.HasKey(name) {
				return sec.Key(name).String(), true
			}
		}
		return "", false
	}, nil
}

// viperEnv reads the environment through viper. Empty variables are unset.
func viperEnv() source {
	v := viper.New()
	for key, names := range envAliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return func(key string) (string, bool) {
		if !v.IsSet(key) {
			return "", false
		}
		s := v.GetString(key)
		return s, s != ""
	}
}

// lookupEnv adapts an os.LookupEnv style function.
func lookupEnv(lookup func(string) (string, bool)) source {
	return func(key string) (string, bool) {
		for _, name := range envAliases[key] {
			if v, ok := lookup(name); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

// parseLegacyDSN builds a Config from a DB_DSN value. Credentials carried by
// the DSN are used only when no other layer provided them.
func parseLegacyDSN(dsn string, values map[string]string) (*Config, error) {
	cfg := &Config{
		Username: values["username"],
		Password: values["password"],
		Charset:  values["charset"],
		DSN:      dsn,
	}
	if isNativeDSN(dsn) {
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, &ConfigurationError{Message: "invalid DB_DSN", Err: &redactedError{err: err}}
		}
		cfg.Driver = MySQL
		cfg.Host, cfg.Port = splitAddr(mc.Addr)
		cfg.Database = mc.DBName
		if _, ok := values["username"]; !ok {
			cfg.Username = mc.User
		}
		if _, ok := values["password"]; !ok {
			cfg.Password = mc.Passwd
		}
		cfg.Params = mc.Params
		cfg.native = dsn
		cfg.defaults()
		return cfg, nil
	}
	driver, rest, ok := strings.Cut(dsn, ":")
	if !ok || driver == "" {
		return nil, &ConfigurationError{Message: "invalid DB_DSN: expected driver:key=value;..."}
	}
	cfg.Driver = driver
	for _, part := range strings.Split(rest, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.ToLower(k) {
		case "host":
			cfg.Host = v
		case "dbname":
			cfg.Database = v
		case "port":
			cfg.Port = v
		case "charset":
			cfg.Charset = v
		case "user":
			if _, ok := values["username"]; !ok {
				cfg.Username = v
			}
		case "password":
			if _, ok := values["password"]; !ok {
				cfg.Password = v
			}
		}
	}
	cfg.defaults()
	return cfg, nil
}

// isNativeDSN reports whether dsn looks like user:pass@net(addr)/db.
func isNativeDSN(dsn string) bool {
	return strings.Contains(dsn, "@") || strings.Contains(dsn, "tcp(") || strings.HasPrefix(dsn, "/")
}

func splitAddr(addr string) (string, string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, ""
	}
	return host, port
}

var (
	passwordRe = regexp.MustCompile(`(?i)password=[^;&\s]*`)
	// The password runs to the last @ that precedes net( or /db, as the
	// mysql driver parses it.
	userinfoRe = regexp.MustCompile(`([\w.\-]*):\S*@(\w*\(|/)`)
)

// RedactDSN masks every credential in s: password=... pairs and the
// password of native user:pass@ DSNs.
func RedactDSN(s string) string {
	s = passwordRe.ReplaceAllString(s, "password=***")
	return userinfoRe.ReplaceAllString(s, "$1:***@$2")
}

// String returns the DSN of c with credentials masked.
func (c *Config) String() string {
	return RedactDSN(c.DSN)
}
