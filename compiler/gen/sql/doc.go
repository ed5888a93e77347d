// Package sql renders the MySQL active-record layers with jennifer.
//
// Generated code structure, for a table users with an id key:
//
//	{output}/
//	├── sql/                  # copy of dialect/sql
//	├── dbschema/users.go     # UsersSchema, UsersTable, UsersColumn*, ScanUsersSchema
//	├── dbmodel/users.go      # UsersModel with getters, setters, Spawn, Insert, Save
//	├── distrib/users.go      # Users embedding *dbmodel.UsersModel, with Delete
//	└── controller/users.go   # UsersController with Create, GetAll, GetByField, Delete
//
// Each directory also holds a tables.go aggregating its declarations.
// Generation removes the layer directories first, so hand-written code
// extending the distrib types belongs in another package.
package sql
