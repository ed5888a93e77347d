// Package gen turns table descriptions into layered active-record code.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	SHOW TABLES / DESC, or a YAML snapshot (compiler/load)
//	        ↓
//	   Graph (one Type per table, one Field per column)
//	        ↓
//	   Emitter (compiler/gen/sql renders jennifer files)
//	        ↓
//	   JenniferGenerator (plans, formats and writes in parallel)
//
// # Generated layout
//
//	{target}/
//	├── sql/          # copy of the database helper
//	├── dbschema/     # {Table}Schema row structs and column constants
//	├── dbmodel/      # {Table}Model active records
//	├── distrib/      # {Table} extension types with Delete
//	└── controller/   # {Table}Controller finders
//
// Every layer also gets a tables.go listing what it declares.
//
// # Type mapping
//
// Column types are parsed with the MySQL type parser of Atlas. Integers and
// booleans become int64, fixed and floating point numbers float64, and
// everything else string. Nullable columns become pointers.
package gen
