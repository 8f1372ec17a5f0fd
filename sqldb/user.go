package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/wansing/blog/core"
)

func clean(login string) string {
	return strings.TrimSpace(login)
}

type UserDB struct {
	*sql.DB
	get        *sql.Stmt
	getByLogin *sql.Stmt
	insert     *sql.Stmt
	update     *sql.Stmt
}

func NewUserDB(db *sql.DB, driver string) (*UserDB, error) {

	err := createTable(db, driver, `
		CREATE TABLE IF NOT EXISTS usr (
			%s,
			login varchar(128) NOT NULL,
			credentials varchar(128) NOT NULL,
			administrator tinyint(1) NOT NULL DEFAULT 0,
			UNIQUE(login)
		)`)
	if err != nil {
		return nil, err
	}

	var userDB = &UserDB{}
	userDB.DB = db
	userDB.get = mustPrepare(db, "SELECT id, login, credentials, administrator FROM usr WHERE id = ? LIMIT 1")
	userDB.getByLogin = mustPrepare(db, "SELECT id, login, credentials, administrator FROM usr WHERE login = ? LIMIT 1")
	userDB.insert = mustPrepare(db, "INSERT INTO usr (login, credentials, administrator) VALUES (?, ?, ?)")
	userDB.update = mustPrepare(db, "UPDATE usr SET credentials = ?, administrator = ? WHERE id = ?")
	return userDB, nil
}

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Login, &u.Credentials, &u.Administrator)
	if errors.Is(err, sql.ErrNoRows) {
		return u, core.ErrNotFound
	}
	return u, err
}

func (db *UserDB) GetUser(id int) (core.User, error) {
	return scanUser(db.get.QueryRow(id))
}

func (db *UserDB) GetUserByLogin(login string) (core.User, error) {
	return scanUser(db.getByLogin.QueryRow(clean(login)))
}

// UpsertUser looks up the login and updates or inserts the user within a transaction.
// Rows affected can't be used for that because MySQL doesn't count unchanged rows.
func (db *UserDB) UpsertUser(u core.User) error {

	u.Login = clean(u.Login)

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	var id int
	err = tx.Stmt(db.getByLogin).QueryRow(u.Login).Scan(&id, new(string), new(string), new(bool))
	switch {
	case err == nil:
		_, err = tx.Stmt(db.update).Exec(u.Credentials, u.Administrator, id)
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.Stmt(db.insert).Exec(u.Login, u.Credentials, u.Administrator)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
