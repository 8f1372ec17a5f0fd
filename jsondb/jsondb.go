// Package jsondb implements the core database interfaces on JSON files, using scribble.
// Every record is a file, named after its id, in a directory per collection.
package jsondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sdomino/scribble"
	"github.com/wansing/blog/core"
)

const (
	users    = "users"
	entries  = "entries"
	comments = "comments"
	meta     = "meta"
)

// sequence holds the last assigned id of every collection.
type sequence struct {
	Users    int `json:"users"`
	Entries  int `json:"entries"`
	Comments int `json:"comments"`
}

type JsonDB struct {
	conn   *scribble.Driver
	dbPath string
	mu     sync.Mutex // serializes id assignment and upserts
}

// New returns a new pointer JsonDB
func New(dbPath string) (*JsonDB, error) {
	conn, err := scribble.New(dbPath, nil)
	if err != nil {
		return nil, err
	}
	for _, collection := range []string{users, entries, comments, meta} {
		if err := os.MkdirAll(filepath.Join(dbPath, collection), os.ModePerm); err != nil {
			return nil, err
		}
	}
	return &JsonDB{
		conn:   conn,
		dbPath: dbPath,
	}, nil
}

func (o *JsonDB) GetPath() string {
	return o.dbPath
}

// nextID must be called with o.mu held.
func (o *JsonDB) nextID(collection string) (int, error) {
	var seq sequence
	if o.exists(meta, "sequence") {
		if err := o.conn.Read(meta, "sequence", &seq); err != nil {
			return 0, err
		}
	}
	var id int
	switch collection {
	case users:
		seq.Users++
		id = seq.Users
	case entries:
		seq.Entries++
		id = seq.Entries
	case comments:
		seq.Comments++
		id = seq.Comments
	default:
		return 0, fmt.Errorf("unknown collection %s", collection)
	}
	return id, o.conn.Write(meta, "sequence", seq)
}

func (o *JsonDB) exists(collection, resource string) bool {
	_, err := os.Stat(filepath.Join(o.dbPath, collection, resource+".json"))
	return !os.IsNotExist(err)
}

func (o *JsonDB) read(collection string, id int, v interface{}) error {
	var resource = strconv.Itoa(id)
	if !o.exists(collection, resource) {
		return core.ErrNotFound
	}
	return o.conn.Read(collection, resource, v)
}

// readAll calls fn with every record of the collection.
func (o *JsonDB) readAll(collection string, fn func(record []byte) error) error {
	records, err := o.conn.ReadAll(collection)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := fn([]byte(record)); err != nil {
			return fmt.Errorf("cannot decode %s json structure: %w", collection, err)
		}
	}
	return nil
}

// GetUser func to get a single user from the database
func (o *JsonDB) GetUser(id int) (core.User, error) {
	var u core.User
	err := o.read(users, id, &u)
	return u, err
}

// GetUserByLogin scans all users.
func (o *JsonDB) GetUserByLogin(login string) (core.User, error) {
	login = strings.TrimSpace(login)
	var found *core.User
	err := o.readAll(users, func(record []byte) error {
		var u core.User
		if err := json.Unmarshal(record, &u); err != nil {
			return err
		}
		if u.Login == login {
			found = &u
		}
		return nil
	})
	if err != nil {
		return core.User{}, err
	}
	if found == nil {
		return core.User{}, core.ErrNotFound
	}
	return *found, nil
}

func (o *JsonDB) UpsertUser(u core.User) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	u.Login = strings.TrimSpace(u.Login)
	existing, err := o.GetUserByLogin(u.Login)
	switch {
	case err == nil:
		u.ID = existing.ID
	case errors.Is(err, core.ErrNotFound):
		if u.ID, err = o.nextID(users); err != nil {
			return err
		}
	default:
		return err
	}
	return o.conn.Write(users, strconv.Itoa(u.ID), u)
}

func (o *JsonDB) GetEntry(id int) (core.Entry, error) {
	var e core.Entry
	err := o.read(entries, id, &e)
	return e, err
}

// GetAllEntries returns the entries, newest first.
func (o *JsonDB) GetAllEntries() ([]core.Entry, error) {
	var all = []core.Entry{}
	err := o.readAll(entries, func(record []byte) error {
		var e core.Entry
		if err := json.Unmarshal(record, &e); err != nil {
			return err
		}
		all = append(all, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Created != all[j].Created {
			return all[i].Created > all[j].Created
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}

func (o *JsonDB) InsertEntry(title, content string) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, err := o.nextID(entries)
	if err != nil {
		return 0, err
	}
	var ts = time.Now().Unix()
	return id, o.conn.Write(entries, strconv.Itoa(id), core.Entry{
		ID:      id,
		Title:   title,
		Content: content,
		Created: ts,
		Updated: ts,
	})
}

// UpdateEntry does nothing if the entry does not exist.
func (o *JsonDB) UpdateEntry(id int, title, content string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	e, err := o.GetEntry(id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	e.Title = title
	e.Content = content
	e.Updated = time.Now().Unix()
	return o.conn.Write(entries, strconv.Itoa(id), e)
}

// DeleteEntry removes the entry and its comments. It does nothing if the entry does not exist.
func (o *JsonDB) DeleteEntry(id int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	views, err := o.GetComments(id)
	if err != nil {
		return err
	}
	for _, c := range views {
		if err := o.conn.Delete(comments, strconv.Itoa(c.ID)); err != nil {
			return err
		}
	}

	if !o.exists(entries, strconv.Itoa(id)) {
		return nil
	}
	return o.conn.Delete(entries, strconv.Itoa(id))
}

// GetComments returns the comments of an entry in creation order, along with their authors without credentials.
func (o *JsonDB) GetComments(entryID int) ([]core.CommentView, error) {
	var views = []core.CommentView{}
	err := o.readAll(comments, func(record []byte) error {
		var c core.Comment
		if err := json.Unmarshal(record, &c); err != nil {
			return err
		}
		if c.EntryID != entryID {
			return nil
		}
		author, err := o.GetUser(c.UserID)
		if err != nil {
			return err
		}
		author.Credentials = ""
		views = append(views, core.CommentView{Comment: c, Author: author})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ID < views[j].ID
	})
	return views, nil
}

// checkReferences returns core.ErrNotFound if the entry or the user does not exist. It must be called with o.mu held.
func (o *JsonDB) checkReferences(entryID, userID int) error {
	if !o.exists(entries, strconv.Itoa(entryID)) {
		return fmt.Errorf("entry %d: %w", entryID, core.ErrNotFound)
	}
	if !o.exists(users, strconv.Itoa(userID)) {
		return fmt.Errorf("user %d: %w", userID, core.ErrNotFound)
	}
	return nil
}

// InsertComment returns core.ErrNotFound if the entry or the user does not exist.
func (o *JsonDB) InsertComment(entryID, userID int, content string) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkReferences(entryID, userID); err != nil {
		return 0, err
	}

	id, err := o.nextID(comments)
	if err != nil {
		return 0, err
	}
	var ts = time.Now().Unix()
	return id, o.conn.Write(comments, strconv.Itoa(id), core.Comment{
		ID:      id,
		Content: content,
		UserID:  userID,
		EntryID: entryID,
		Created: ts,
		Updated: ts,
	})
}

// UpdateComment does nothing if the comment does not exist. It returns core.ErrNotFound if the entry or the user does
// not exist.
func (o *JsonDB) UpdateComment(id, entryID, userID int, content string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkReferences(entryID, userID); err != nil {
		return err
	}

	var c core.Comment
	err := o.read(comments, id, &c)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Content = content
	c.UserID = userID
	c.EntryID = entryID
	c.Updated = time.Now().Unix()
	return o.conn.Write(comments, strconv.Itoa(id), c)
}
