package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/blog/core"
	"github.com/wansing/blog/jsondb"
	"github.com/wansing/blog/sqldb"
	"github.com/wansing/blog/sqldb/mysql"
	"github.com/wansing/blog/sqldb/sqlite3"
	"github.com/xo/dburl"
)

const jsonScheme = "json:"

type database struct {
	comments core.CommentDB
	entries  core.EntryDB
	users    core.UserDB
	sessions scs.Store
	close    func() error
}

// openDatabase opens the persistence layer and the matching session store.
func openDatabase(arg string) (*database, error) {

	if strings.HasPrefix(arg, jsonScheme) {
		store, err := jsondb.New(strings.TrimPrefix(arg, jsonScheme))
		if err != nil {
			return nil, fmt.Errorf("could not open json database: %w", err)
		}
		log.Printf("using json database in %s, sessions are kept in memory", store.GetPath())
		return &database{
			comments: store,
			entries:  store,
			users:    store,
			sessions: memstore.New(),
			close:    func() error { return nil },
		}, nil
	}

	dbURL, err := dburl.Parse(arg)
	if err != nil {
		return nil, fmt.Errorf("could not parse database url: %w", err)
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		return nil, fmt.Errorf("could not open sql database: %w", err)
	}

	var db = &database{
		close: sqlDB.Close,
	}

	if err := db.initSQL(sqlDB, dbURL.Driver); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("using %s database", dbURL.Driver)
	return db, nil
}

func (db *database) initSQL(sqlDB *sql.DB, driver string) error {

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("could not ping sql database: %w", err)
	}

	var err error
	switch driver {
	case "mysql":
		db.sessions, err = mysql.NewSessionStore(sqlDB)
	case "sqlite3":
		db.sessions, err = sqlite3.NewSessionStore(sqlDB)
	default:
		return fmt.Errorf("unknown database backend: %s", driver)
	}
	if err != nil {
		return fmt.Errorf("could not create session store: %w", err)
	}

	// users first, comments reference them
	users, err := sqldb.NewUserDB(sqlDB, driver)
	if err != nil {
		return fmt.Errorf("could not create user table: %w", err)
	}
	entries, err := sqldb.NewEntryDB(sqlDB, driver)
	if err != nil {
		return fmt.Errorf("could not create entry table: %w", err)
	}
	comments, err := sqldb.NewCommentDB(sqlDB, driver)
	if err != nil {
		return fmt.Errorf("could not create comment table: %w", err)
	}

	db.users = users
	db.entries = entries
	db.comments = comments
	return nil
}
