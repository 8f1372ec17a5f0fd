package core

import (
	"errors"
	"sort"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

var errFake = errors.New("fake database failure")

// fakeDB is an in-memory implementation of UserDB, EntryDB and CommentDB.
// It counts calls. It fails every call if fail is set, and every write if failWrites is set.
type fakeDB struct {
	calls      int
	fail       bool
	failWrites bool
	nextID   int
	users    map[int]User
	entries  map[int]Entry
	comments map[int]Comment
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		nextID:   1,
		users:    make(map[int]User),
		entries:  make(map[int]Entry),
		comments: make(map[int]Comment),
	}
}

func (db *fakeDB) call() error {
	db.calls++
	if db.fail {
		return errFake
	}
	return nil
}

func (db *fakeDB) write() error {
	if err := db.call(); err != nil {
		return err
	}
	if db.failWrites {
		return errFake
	}
	return nil
}

func (db *fakeDB) id() int {
	id := db.nextID
	db.nextID++
	return id
}

func (db *fakeDB) GetUser(id int) (User, error) {
	if err := db.call(); err != nil {
		return User{}, err
	}
	u, ok := db.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (db *fakeDB) GetUserByLogin(login string) (User, error) {
	if err := db.call(); err != nil {
		return User{}, err
	}
	for _, u := range db.users {
		if u.Login == login {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (db *fakeDB) UpsertUser(u User) error {
	if err := db.write(); err != nil {
		return err
	}
	for id, existing := range db.users {
		if existing.Login == u.Login {
			u.ID = id
			db.users[id] = u
			return nil
		}
	}
	u.ID = db.id()
	db.users[u.ID] = u
	return nil
}

func (db *fakeDB) GetEntry(id int) (Entry, error) {
	if err := db.call(); err != nil {
		return Entry{}, err
	}
	e, ok := db.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (db *fakeDB) GetAllEntries() ([]Entry, error) {
	if err := db.call(); err != nil {
		return nil, err
	}
	var all = []Entry{}
	for _, e := range db.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (db *fakeDB) InsertEntry(title, content string) (int, error) {
	if err := db.write(); err != nil {
		return 0, err
	}
	id := db.id()
	db.entries[id] = Entry{ID: id, Title: title, Content: content}
	return id, nil
}

func (db *fakeDB) UpdateEntry(id int, title, content string) error {
	if err := db.write(); err != nil {
		return err
	}
	if _, ok := db.entries[id]; ok {
		db.entries[id] = Entry{ID: id, Title: title, Content: content}
	}
	return nil
}

func (db *fakeDB) DeleteEntry(id int) error {
	if err := db.write(); err != nil {
		return err
	}
	delete(db.entries, id)
	for cid, c := range db.comments {
		if c.EntryID == id {
			delete(db.comments, cid)
		}
	}
	return nil
}

func (db *fakeDB) GetComments(entryID int) ([]CommentView, error) {
	if err := db.call(); err != nil {
		return nil, err
	}
	var views = []CommentView{}
	for _, c := range db.comments {
		if c.EntryID == entryID {
			views = append(views, CommentView{Comment: c, Author: db.users[c.UserID]})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views, nil
}

func (db *fakeDB) InsertComment(entryID, userID int, content string) (int, error) {
	if err := db.write(); err != nil {
		return 0, err
	}
	id := db.id()
	db.comments[id] = Comment{ID: id, Content: content, UserID: userID, EntryID: entryID}
	return id, nil
}

func (db *fakeDB) UpdateComment(id, entryID, userID int, content string) error {
	if err := db.write(); err != nil {
		return err
	}
	if _, ok := db.comments[id]; ok {
		db.comments[id] = Comment{ID: id, Content: content, UserID: userID, EntryID: entryID}
	}
	return nil
}

// newTestCore returns a CoreDB on a fakeDB with the users "administrator" (password "admin") and "user" (password "pass").
// The call counter is reset.
func newTestCore(t *testing.T) (*CoreDB, *fakeDB) {
	t.Helper()
	var db = newFakeDB()
	var c = &CoreDB{
		CommentDB:  db,
		EntryDB:    db,
		UserDB:     db,
		BcryptCost: bcrypt.MinCost,
	}
	if err := c.Seed("administrator", "admin", true); err != nil {
		t.Fatalf("seeding administrator: %v", err)
	}
	if err := c.Seed("user", "pass", false); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	db.calls = 0
	return c, db
}

func adminSession(t *testing.T, c *CoreDB) *Session {
	t.Helper()
	var s = NewSession()
	if !c.Authenticate(s, "administrator", "admin") {
		t.Fatalf("administrator login failed: %v", s.Errors)
	}
	return s
}

func userSession(t *testing.T, c *CoreDB) *Session {
	t.Helper()
	var s = NewSession()
	if !c.Authenticate(s, "user", "pass") {
		t.Fatalf("user login failed: %v", s.Errors)
	}
	return s
}

func assertErrors(t *testing.T, s *Session, want ...string) {
	t.Helper()
	if len(s.Errors) != len(want) {
		t.Fatalf("got errors %q, want %q", s.Errors, want)
	}
	for i := range want {
		if s.Errors[i] != want[i] {
			t.Errorf("error %d: got %q, want %q", i, s.Errors[i], want[i])
		}
	}
}

func assertRedirect(t *testing.T, o Outcome, location string) {
	t.Helper()
	if o.Status != 0 || o.Location != location {
		t.Errorf("got outcome %+v, want redirect to %s", o, location)
	}
}
