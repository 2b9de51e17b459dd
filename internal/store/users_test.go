package store

import "testing"

func TestPasswordSetAndCompare(t *testing.T) {
	var p password
	if err := p.Set("секрет123"); err != nil {
		t.Fatal(err)
	}

	if err := p.Compare("секрет123"); err != nil {
		t.Errorf("Compare rejected the original password: %v", err)
	}
	if err := p.Compare("другой"); err == nil {
		t.Error("Compare accepted a wrong password")
	}
}

func TestIsAdmin(t *testing.T) {
	u := User{Status: StatusAdmin}
	if !u.IsAdmin() {
		t.Errorf("IsAdmin() = false for status %q", StatusAdmin)
	}

	u.Status = "обычный"
	if u.IsAdmin() {
		t.Error("IsAdmin() = true for a non-admin status")
	}
}

func TestIsValidUserField(t *testing.T) {
	for _, field := range []string{"first_name", "last_name", "city", "email", "status"} {
		if !isValidUserField(field) {
			t.Errorf("isValidUserField(%q) = false", field)
		}
	}
	for _, field := range []string{"login", "password", "id", "avatar; DROP TABLE users"} {
		if isValidUserField(field) {
			t.Errorf("isValidUserField(%q) = true", field)
		}
	}
}
