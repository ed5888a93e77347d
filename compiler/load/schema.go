// Package load reads the table layout of a MySQL database, either live
// through SHOW TABLES / DESC or from a YAML snapshot written earlier.
package load

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table is a database table as reported by DESC.
type Table struct {
	Name    string    `yaml:"name" json:"name"`
	Columns []*Column `yaml:"columns" json:"columns"`
}

// Column is one row of DESC output.
type Column struct {
	Field   string  `yaml:"field" json:"field"`
	Type    string  `yaml:"type" json:"type"`
	Null    string  `yaml:"null,omitempty" json:"null,omitempty"`
	Key     string  `yaml:"key,omitempty" json:"key,omitempty"`
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
	Extra   string  `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// UnmarshalYAML decodes a column, reading a plain null key (which YAML
// resolves to the null value, not the string "null") as the Null field.
func (c *Column) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.ShortTag() == "!!null" {
				k.Tag, k.Value = "!!str", "null"
			}
		}
	}
	type plain Column
	return n.Decode((*plain)(c))
}

// AutoIncrement reports whether the column is filled by the server.
func (c *Column) AutoIncrement() bool {
	return strings.Contains(strings.ToLower(c.Extra), "auto_increment")
}

// Nullable reports whether the column accepts NULL.
func (c *Column) Nullable() bool {
	return strings.EqualFold(c.Null, "YES")
}

// PrimaryKey reports whether the column is part of the primary key.
func (c *Column) PrimaryKey() bool {
	return strings.EqualFold(c.Key, "PRI")
}

// PrimaryKey returns the column used as the record identity: the first
// PRI column, or the first column when the table declares none.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PrimaryKey() {
			return c
		}
	}
	if len(t.Columns) > 0 {
		return t.Columns[0]
	}
	return nil
}

// Column returns the column named name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// Validate checks the table can be generated.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("load: table without a name")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("load: table %q has no columns", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Field == "" {
			return fmt.Errorf("load: table %q has a column without a name", t.Name)
		}
		if _, ok := seen[c.Field]; ok {
			return fmt.Errorf("load: table %q has duplicate column %q", t.Name, c.Field)
		}
		seen[c.Field] = struct{}{}
	}
	return nil
}

// Filter returns the tables named in only, in their original order. An
// empty only returns tables unchanged. Unknown names are an error.
func Filter(tables []*Table, only ...string) ([]*Table, error) {
	if len(only) == 0 {
		return tables, nil
	}
	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = false
	}
	var out []*Table
	for _, t := range tables {
		if _, ok := want[t.Name]; ok {
			want[t.Name] = true
			out = append(out, t)
		}
	}
	var missing []string
	for name, found := range want {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("load: unknown tables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// snapshot is the YAML document layout.
type snapshot struct {
	Version int      `yaml:"version"`
	Tables  []*Table `yaml:"tables"`
}

const snapshotVersion = 1

// WriteSnapshot encodes tables as YAML.
func WriteSnapshot(w io.Writer, tables []*Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snapshot{Version: snapshotVersion, Tables: tables}); err != nil {
		return fmt.Errorf("load: encode snapshot: %w", err)
	}
	return enc.Close()
}

// ReadSnapshot decodes tables written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]*Table, error) {
	var s snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("load: decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("load: unsupported snapshot version %d", s.Version)
	}
	for _, t := range s.Tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}
	return s.Tables, nil
}
