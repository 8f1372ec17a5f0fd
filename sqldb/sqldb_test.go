package sqldb

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wansing/blog/core"
)

// openTestDB opens an in-memory sqlite database. It keeps a single connection, because every new connection
// to ":memory:" would see an empty database.
func openTestDB(t *testing.T) (*UserDB, *EntryDB, *CommentDB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	userDB, err := NewUserDB(db, "sqlite3")
	if err != nil {
		t.Fatalf("creating user table: %v", err)
	}
	entryDB, err := NewEntryDB(db, "sqlite3")
	if err != nil {
		t.Fatalf("creating entry table: %v", err)
	}
	commentDB, err := NewCommentDB(db, "sqlite3")
	if err != nil {
		t.Fatalf("creating comment table: %v", err)
	}
	return userDB, entryDB, commentDB
}

func TestUpsertUser(t *testing.T) {
	users, _, _ := openTestDB(t)

	if err := users.UpsertUser(core.User{Login: "user", Credentials: "a"}); err != nil {
		t.Fatal(err)
	}
	if err := users.UpsertUser(core.User{Login: " user ", Credentials: "b", Administrator: true}); err != nil {
		t.Fatal(err)
	}

	u, err := users.GetUserByLogin("user")
	if err != nil {
		t.Fatal(err)
	}
	if u.Credentials != "b" || !u.Administrator {
		t.Errorf("got %+v", u)
	}

	byID, err := users.GetUser(u.ID)
	if err != nil || byID != u {
		t.Errorf("GetUser(%d) = %+v, %v", u.ID, byID, err)
	}

	var count int
	users.QueryRow("SELECT COUNT(1) FROM usr").Scan(&count)
	if count != 1 {
		t.Errorf("got %d users, want 1", count)
	}

	if _, err := users.GetUserByLogin("nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestEntries(t *testing.T) {
	_, entries, _ := openTestDB(t)

	id, err := entries.InsertEntry("Hello", "World")
	if err != nil {
		t.Fatal(err)
	}
	if id <= 0 {
		t.Fatalf("got id %d", id)
	}

	if err := entries.UpdateEntry(id, "Hi", "there"); err != nil {
		t.Fatal(err)
	}

	e, err := entries.GetEntry(id)
	if err != nil {
		t.Fatal(err)
	}
	if e.Title != "Hi" || e.Content != "there" || e.Created == 0 || e.Updated < e.Created {
		t.Errorf("got %+v", e)
	}

	all, err := entries.GetAllEntries()
	if err != nil || len(all) != 1 {
		t.Errorf("GetAllEntries() = %+v, %v", all, err)
	}

	if _, err := entries.GetEntry(id + 1); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	if err := entries.UpdateEntry(id+1, "x", "y"); err != nil {
		t.Errorf("updating a missing entry: %v", err)
	}
}

func TestCommentsAndCascade(t *testing.T) {
	users, entries, comments := openTestDB(t)

	users.UpsertUser(core.User{Login: "user", Credentials: "secret"})
	u, _ := users.GetUserByLogin("user")
	entryID, _ := entries.InsertEntry("a", "b")

	commentID, err := comments.InsertComment(entryID, u.ID, "first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := comments.InsertComment(entryID, u.ID, "second"); err != nil {
		t.Fatal(err)
	}
	if err := comments.UpdateComment(commentID, entryID, u.ID, "edited"); err != nil {
		t.Fatal(err)
	}

	views, err := comments.GetComments(entryID)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || views[0].Content != "edited" || views[1].Content != "second" {
		t.Fatalf("got %+v", views)
	}
	if views[0].Author.Login != "user" || views[0].Author.Credentials != "" {
		t.Errorf("got author %+v", views[0].Author)
	}

	if err := entries.DeleteEntry(entryID); err != nil {
		t.Fatal(err)
	}
	views, err = comments.GetComments(entryID)
	if err != nil || len(views) != 0 {
		t.Errorf("comments of deleted entry: %+v, %v", views, err)
	}
}

// The test database does not enable sqlite foreign keys, so the references are checked by the CommentDB.
func TestCommentReferences(t *testing.T) {
	users, entries, comments := openTestDB(t)

	users.UpsertUser(core.User{Login: "user", Credentials: "secret"})
	u, _ := users.GetUserByLogin("user")

	if _, err := comments.InsertComment(1, u.ID, "orphan"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("comment on missing entry: got %v, want ErrNotFound", err)
	}

	entryID, _ := entries.InsertEntry("Fresh", "entry")
	views, err := comments.GetComments(entryID)
	if err != nil || len(views) != 0 {
		t.Errorf("new entry %d has comments %+v, %v", entryID, views, err)
	}

	if _, err := comments.InsertComment(entryID, u.ID+1, "ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("comment by missing user: got %v, want ErrNotFound", err)
	}

	commentID, err := comments.InsertComment(entryID, u.ID, "ok")
	if err != nil {
		t.Fatal(err)
	}
	if err := comments.UpdateComment(commentID, entryID+1, u.ID, "moved"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("moving comment to missing entry: got %v, want ErrNotFound", err)
	}
	if views, _ := comments.GetComments(entryID); len(views) != 1 || views[0].Content != "ok" {
		t.Errorf("got %+v", views)
	}
}

// The sql implementations must satisfy the core interfaces.
var (
	_ core.UserDB    = &UserDB{}
	_ core.EntryDB   = &EntryDB{}
	_ core.CommentDB = &CommentDB{}
)
