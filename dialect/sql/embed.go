package sql

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed *.go
var sources embed.FS

// Sources returns the non-test Go files of this package by name. The code
// generator writes them next to generated code.
func Sources() (map[string][]byte, error) {
	entries, err := fs.ReadDir(sources, ".")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, "_test.go") || name == "embed.go" {
			continue
		}
		b, err := sources.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}
