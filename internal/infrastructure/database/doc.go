// Package database provides SQLite connectivity for the Todo API.
//
// This package manages:
//   - The database connection (WAL mode, busy timeout, single writer)
//   - Additive schema migrations compiled into the binary
//   - Health checks and lifecycle management
//
// All queries use parameterised statements and the database file is
// created with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations live in the top-level migrations package as
// YYYYMMDD_HHMMSS_description.up.sql / .down.sql pairs. New columns must be
// nullable or carry a default so older binaries keep working.
package database
