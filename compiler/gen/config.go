package gen

import "strings"

// Layer names one generated package. Each layer is written to a directory
// of the same name under the target.
type Layer string

// Generated layers.
const (
	// LayerSchema holds the row struct and column constants of every table.
	LayerSchema Layer = "dbschema"
	// LayerModel holds the active-record models.
	LayerModel Layer = "dbmodel"
	// LayerDistrib holds the extension types embedding the models.
	LayerDistrib Layer = "distrib"
	// LayerController holds the table-level finders.
	LayerController Layer = "controller"
	// LayerSQL holds a copy of the database helper used by the other layers.
	LayerSQL Layer = "sql"
)

// Layers lists every layer in dependency order.
var Layers = []Layer{LayerSQL, LayerSchema, LayerModel, LayerDistrib, LayerController}

// DefaultHeader is the comment written at the top of every generated file.
const DefaultHeader = "Code generated by recordgen. DO NOT EDIT."

// Config holds the global codegen configuration shared by all generated
// types.
type Config struct {
	// Package is the Go import path of Target, for example
	// "github.com/org/project/generated".
	Package string
	// Target is the output directory.
	Target string
	// Header is the comment written at the top of each generated file.
	// Defaults to DefaultHeader.
	Header string
	// Workers bounds the number of files rendered in parallel. Zero means
	// GOMAXPROCS.
	Workers int
	// Layers restricts generation to the given layers. Empty means all.
	// The sql layer is always written when any other layer is.
	Layers []Layer
}

// PkgPath returns the import path of a generated layer.
func (c *Config) PkgPath(l Layer) string {
	return strings.TrimSuffix(c.Package, "/") + "/" + string(l)
}

// HeaderComment returns the configured header, or DefaultHeader.
func (c *Config) HeaderComment() string {
	if c.Header != "" {
		return c.Header
	}
	return DefaultHeader
}

// LayerEnabled reports whether l is generated.
func (c *Config) LayerEnabled(l Layer) bool {
	if len(c.Layers) == 0 {
		return true
	}
	for _, e := range c.Layers {
		if e == l {
			return true
		}
	}
	return l == LayerSQL
}

// Validate reports a ConfigError for a configuration generation cannot
// run with.
func (c *Config) Validate() error {
	if c.Package == "" {
		return NewConfigError("Package", nil, "missing import path of the target directory")
	}
	if c.Target == "" {
		return NewConfigError("Target", nil, "missing target directory")
	}
	for _, l := range c.Layers {
		if !validLayer(l) {
			return NewConfigError("Layers", l, "unknown layer")
		}
	}
	return nil
}

func validLayer(l Layer) bool {
	for _, e := range Layers {
		if e == l {
			return true
		}
	}
	return false
}
