package core

import "testing"

func TestEnsureErrorList(t *testing.T) {
	var s = &Session{}
	EnsureErrorList(s)
	if s.Errors == nil || len(s.Errors) != 0 {
		t.Fatalf("got %#v, want empty list", s.Errors)
	}

	s.AddError("a")
	EnsureErrorList(s)
	assertErrors(t, s, "a")
}

func TestLogout(t *testing.T) {
	var states = []*Session{
		NewSession(),
		{Authorized: true, UserID: 2, Errors: []string{"x"}},
		{Authorized: true, Administrator: true, UserID: 1, Errors: []string{"y", "z"}},
	}
	for _, before := range states {
		after := Logout()
		if after == before {
			t.Fatal("Logout returned the old session")
		}
		if after.Authorized || after.Administrator || after.UserID != 0 {
			t.Errorf("Logout returned %+v", after)
		}
		if after.Errors == nil || len(after.Errors) != 0 {
			t.Errorf("Logout returned errors %#v", after.Errors)
		}
	}
}
