package dialect

// Dialect names.
const (
	MySQL  = "mysql"
	SQLite = "sqlite"
)

// Supported reports whether name is a dialect recordgen can introspect.
func Supported(name string) bool {
	return name == MySQL
}
