package core

import (
	"testing"

	"github.com/wansing/blog/auth"
)

func TestSeedIdempotent(t *testing.T) {
	c, db := newTestCore(t)

	if err := c.Seed("user", "changed", true); err != nil {
		t.Fatal(err)
	}
	if len(db.users) != 2 {
		t.Fatalf("got %d users, want 2", len(db.users))
	}

	u, err := db.GetUserByLogin("user")
	if err != nil {
		t.Fatal(err)
	}
	if !u.Administrator || !auth.VerifyPassword("changed", u.Credentials) {
		t.Errorf("user was not updated: %+v", u)
	}
}

func TestSeedInvalid(t *testing.T) {
	c, _ := newTestCore(t)

	if err := c.Seed(" ", "pass", false); err != ErrEmptyLogin {
		t.Errorf("got %v, want ErrEmptyLogin", err)
	}
	if err := c.Seed("x", "", false); err != auth.ErrEmptyPassword {
		t.Errorf("got %v, want ErrEmptyPassword", err)
	}

	c.BcryptCost = 100
	if err := c.Seed("x", "pass", false); err != auth.ErrInvalidCost {
		t.Errorf("got %v, want ErrInvalidCost", err)
	}
}
