// Package sqldb implements the core database interfaces on database/sql. It supports the sqlite3 and mysql drivers.
package sqldb

import (
	"database/sql"
	"fmt"
	"time"
)

func mustPrepare(db *sql.DB, query string) *sql.Stmt {
	stmt, err := db.Prepare(query)
	if err != nil {
		panic(fmt.Sprintf("error preparing %q: %v", query, err))
	}
	return stmt
}

// idColumn returns the column definition of an auto-incrementing primary key.
func idColumn(driver string) string {
	switch driver {
	case "mysql":
		return "id INTEGER PRIMARY KEY AUTO_INCREMENT"
	default:
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// createTable executes a CREATE TABLE IF NOT EXISTS statement whose "%s" is replaced by the id column.
func createTable(db *sql.DB, driver string, ddl string) error {
	_, err := db.Exec(fmt.Sprintf(ddl, idColumn(driver)))
	return err
}

func now() int64 {
	return time.Now().Unix()
}
