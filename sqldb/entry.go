package sqldb

import (
	"database/sql"
	"errors"

	"github.com/wansing/blog/core"
)

type EntryDB struct {
	*sql.DB
	deleteComments *sql.Stmt
	deleteEntry    *sql.Stmt
	get            *sql.Stmt
	getAll         *sql.Stmt
	insert         *sql.Stmt
	update         *sql.Stmt
}

// NewEntryDB creates the entry table and, because deleting an entry deletes its comments, the comment table.
func NewEntryDB(db *sql.DB, driver string) (*EntryDB, error) {

	err := createTable(db, driver, `
		CREATE TABLE IF NOT EXISTS entry (
			%s,
			title varchar(255) NOT NULL,
			content mediumtext NOT NULL,
			created BIGINT NOT NULL,
			updated BIGINT NOT NULL
		)`)
	if err != nil {
		return nil, err
	}

	if err := createCommentTable(db, driver); err != nil {
		return nil, err
	}

	var entryDB = &EntryDB{}
	entryDB.DB = db
	entryDB.deleteComments = mustPrepare(db, "DELETE FROM comment WHERE entry_id = ?")
	entryDB.deleteEntry = mustPrepare(db, "DELETE FROM entry WHERE id = ?")
	entryDB.get = mustPrepare(db, "SELECT id, title, content, created, updated FROM entry WHERE id = ? LIMIT 1")
	entryDB.getAll = mustPrepare(db, "SELECT id, title, content, created, updated FROM entry ORDER BY created DESC, id DESC")
	entryDB.insert = mustPrepare(db, "INSERT INTO entry (title, content, created, updated) VALUES (?, ?, ?, ?)")
	entryDB.update = mustPrepare(db, "UPDATE entry SET title = ?, content = ?, updated = ? WHERE id = ?")
	return entryDB, nil
}

func (db *EntryDB) GetEntry(id int) (core.Entry, error) {
	var e core.Entry
	err := db.get.QueryRow(id).Scan(&e.ID, &e.Title, &e.Content, &e.Created, &e.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return e, core.ErrNotFound
	}
	return e, err
}

func (db *EntryDB) GetAllEntries() ([]core.Entry, error) {

	rows, err := db.getAll.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.Entry{}

	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Created, &e.Updated); err != nil {
			return nil, err
		}
		all = append(all, e)
	}

	return all, rows.Err()
}

func (db *EntryDB) InsertEntry(title, content string) (int, error) {
	var ts = now()
	result, err := db.insert.Exec(title, content, ts, ts)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

// UpdateEntry does not return an error if the entry does not exist.
func (db *EntryDB) UpdateEntry(id int, title, content string) error {
	_, err := db.update.Exec(title, content, now(), id)
	return err
}

// DeleteEntry deletes the entry and its comments within a transaction. It does not rely on foreign key support, which
// is disabled by default in sqlite.
func (db *EntryDB) DeleteEntry(id int) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Stmt(db.deleteComments).Exec(id); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Stmt(db.deleteEntry).Exec(id); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
