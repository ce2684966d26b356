// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records. The package also
// embeds the goose schema migrations behind MigrateUp, MigrateDown, and
// MigrateStatus, which the server's migrate commands run.
package postgres
