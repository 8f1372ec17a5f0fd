package core

// User is an account. Credentials holds a bcrypt hash.
type User struct {
	ID            int
	Login         string
	Credentials   string
	Administrator bool
}

// Entry is a blog post. Entries are owned by all administrators collectively.
type Entry struct {
	ID      int
	Title   string
	Content string
	Created int64 // unix timestamp
	Updated int64 // unix timestamp
}

// Comment belongs to an entry and is written by a user.
type Comment struct {
	ID      int
	Content string
	UserID  int
	EntryID int
	Created int64
	Updated int64
}

// CommentView is a comment together with its author.
type CommentView struct {
	Comment
	Author User
}

// EntryView is an entry together with its comments, ordered by creation.
type EntryView struct {
	Entry
	Comments []CommentView
}
