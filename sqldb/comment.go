package sqldb

import (
	"database/sql"
	"fmt"

	"github.com/wansing/blog/core"
)

func createCommentTable(db *sql.DB, driver string) error {
	return createTable(db, driver, `
		CREATE TABLE IF NOT EXISTS comment (
			%s,
			content mediumtext NOT NULL,
			user_id INTEGER NOT NULL,
			entry_id INTEGER NOT NULL,
			created BIGINT NOT NULL,
			updated BIGINT NOT NULL,
			FOREIGN KEY (user_id) REFERENCES usr(id) ON DELETE CASCADE,
			FOREIGN KEY (entry_id) REFERENCES entry(id) ON DELETE CASCADE
		)`)
}

type CommentDB struct {
	*sql.DB
	countRefs  *sql.Stmt
	getByEntry *sql.Stmt
	insert     *sql.Stmt
	update     *sql.Stmt
}

// NewCommentDB requires the user and entry tables, so it must be called after NewUserDB and NewEntryDB.
func NewCommentDB(db *sql.DB, driver string) (*CommentDB, error) {

	if err := createCommentTable(db, driver); err != nil {
		return nil, err
	}

	var commentDB = &CommentDB{}
	commentDB.DB = db
	commentDB.countRefs = mustPrepare(db, "SELECT (SELECT COUNT(1) FROM entry WHERE id = ?), (SELECT COUNT(1) FROM usr WHERE id = ?)")
	commentDB.getByEntry = mustPrepare(db, `
		SELECT c.id, c.content, c.user_id, c.entry_id, c.created, c.updated, u.id, u.login, u.administrator
		FROM comment c, usr u
		WHERE c.entry_id = ? AND c.user_id = u.id
		ORDER BY c.created, c.id`)
	commentDB.insert = mustPrepare(db, "INSERT INTO comment (content, user_id, entry_id, created, updated) VALUES (?, ?, ?, ?, ?)")
	commentDB.update = mustPrepare(db, "UPDATE comment SET content = ?, user_id = ?, entry_id = ?, updated = ? WHERE id = ?")
	return commentDB, nil
}

// GetComments returns the comments of an entry along with their authors. The credentials of the authors are not read.
func (db *CommentDB) GetComments(entryID int) ([]core.CommentView, error) {

	rows, err := db.getByEntry.Query(entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all = []core.CommentView{}

	for rows.Next() {
		var c core.CommentView
		err := rows.Scan(&c.ID, &c.Content, &c.UserID, &c.EntryID, &c.Created, &c.Updated, &c.Author.ID, &c.Author.Login, &c.Author.Administrator)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}

	return all, rows.Err()
}

// checkReferences returns core.ErrNotFound if the entry or the user does not exist. Foreign keys can't be relied on
// because sqlite enforces them only if the connection has enabled them.
func (db *CommentDB) checkReferences(tx *sql.Tx, entryID, userID int) error {
	var entries, users int
	if err := tx.Stmt(db.countRefs).QueryRow(entryID, userID).Scan(&entries, &users); err != nil {
		return err
	}
	if entries == 0 {
		return fmt.Errorf("entry %d: %w", entryID, core.ErrNotFound)
	}
	if users == 0 {
		return fmt.Errorf("user %d: %w", userID, core.ErrNotFound)
	}
	return nil
}

// InsertComment returns core.ErrNotFound if the entry or the user does not exist.
func (db *CommentDB) InsertComment(entryID, userID int, content string) (int, error) {

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}

	if err := db.checkReferences(tx, entryID, userID); err != nil {
		tx.Rollback()
		return 0, err
	}

	var ts = now()
	result, err := tx.Stmt(db.insert).Exec(content, userID, entryID, ts, ts)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	return int(id), tx.Commit()
}

// UpdateComment sets the author to userID. It does not return an error if the comment does not exist, but
// core.ErrNotFound if the entry or the user does not exist.
func (db *CommentDB) UpdateComment(id, entryID, userID int, content string) error {

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err := db.checkReferences(tx, entryID, userID); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Stmt(db.update).Exec(content, userID, entryID, now(), id); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
