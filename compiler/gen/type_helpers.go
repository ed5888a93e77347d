package gen

import (
	"go/token"
	"strings"
	"sync"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	acronymsMu sync.RWMutex
	acronyms   = map[string]struct{}{
		"API": {}, "CPU": {}, "CSS": {}, "DNS": {}, "GUID": {}, "HTML": {},
		"HTTP": {}, "HTTPS": {}, "ID": {}, "IP": {}, "JSON": {}, "SQL": {},
		"SSH": {}, "TCP": {}, "TLS": {}, "TTL": {}, "UDP": {}, "UI": {},
		"URI": {}, "URL": {}, "UTC": {}, "UUID": {}, "XML": {},
	}
)

// AddAcronym registers a word that pascal renders in upper case.
func AddAcronym(word string) {
	acronymsMu.Lock()
	defer acronymsMu.Unlock()
	acronyms[strings.ToUpper(word)] = struct{}{}
}

func isAcronym(word string) bool {
	acronymsMu.RLock()
	defer acronymsMu.RUnlock()
	_, ok := acronyms[strings.ToUpper(word)]
	return ok
}

// pascal converts a table or column name to an exported Go identifier:
//
//	user_profile => UserProfile
//	user_id      => UserID
//	créé_le      => CreeLe
//	2fa_secret   => X2faSecret
//
// An empty result means name has no usable characters.
func pascal(name string) string {
	var b strings.Builder
	for _, w := range strings.FieldsFunc(fold(name), isSeparator) {
		if isAcronym(w) {
			b.WriteString(strings.ToUpper(w))
			continue
		}
		b.WriteString(inflect.Camelize(w))
	}
	s := b.String()
	if s == "" {
		return ""
	}
	if !token.IsIdentifier(s) || !token.IsExported(s) {
		s = "X" + s
	}
	return s
}

// fold strips combining marks, so accented letters become their ASCII base.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// isSeparator reports whether r splits a name into words. Everything but
// ASCII letters and digits does.
func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
}

// buildSuffixes are file name suffixes the go tool treats specially.
var buildSuffixes = map[string]struct{}{
	"test": {}, "aix": {}, "android": {}, "darwin": {}, "dragonfly": {},
	"freebsd": {}, "hurd": {}, "illumos": {}, "ios": {}, "js": {},
	"linux": {}, "netbsd": {}, "openbsd": {}, "plan9": {}, "solaris": {},
	"wasip1": {}, "windows": {}, "zos": {}, "386": {}, "amd64": {},
	"arm": {}, "arm64": {}, "loong64": {}, "mips": {}, "mipsle": {},
	"mips64": {}, "mips64le": {}, "ppc64": {}, "ppc64le": {}, "riscv64": {},
	"s390x": {}, "wasm": {},
}

// fileName returns the Go file name for a table, avoiding names the go
// tool would treat as tests or platform-specific sources.
func fileName(table string) string {
	base := strings.ToLower(strings.Join(strings.FieldsFunc(fold(table), isSeparator), "_"))
	if base == "" {
		base = "table"
	}
	if i := strings.LastIndexByte(base, '_'); i >= 0 {
		if _, ok := buildSuffixes[base[i+1:]]; ok {
			base += "_table"
		}
	}
	if base+".go" == TablesFile {
		base += "_table"
	}
	return base + ".go"
}
