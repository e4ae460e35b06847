package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"mercadito/internal/repos"
	"mercadito/internal/services"
)

func memdbUsers(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE users(
	  id TEXT PRIMARY KEY,
	  name TEXT NOT NULL,
	  username TEXT NOT NULL UNIQUE,
	  password_hash TEXT NOT NULL,
	  role TEXT NOT NULL,
	  avatar TEXT NOT NULL DEFAULT 'default.png',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE sessions(
	  id TEXT PRIMARY KEY,
	  user_id TEXT NULL,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
	  last_seen TEXT
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestAuthService_RegisterLoginLogout(t *testing.T) {
	db := memdbUsers(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := svc.Register("Alice", "Alice", "Sup3rSecret", "")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != "USER" || u.Username != "alice" || u.Avatar != "default.png" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if strings.Contains(u.Hash, "Sup3rSecret") || !strings.HasPrefix(u.Hash, "$2") {
		t.Fatalf("password stored insecurely: %q", u.Hash)
	}

	// duplicate username rejected (case-insensitive)
	if _, err := svc.Register("Other", "ALICE", "An0therPass", ""); !errors.Is(err, services.ErrUsernameTaken) {
		t.Fatalf("want ErrUsernameTaken, got %v", err)
	}

	// login binds the session
	sid := "sid-1"
	got, err := svc.Login(sid, "alice", "Sup3rSecret")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("login returned wrong user: %+v", got)
	}
	cur, err := svc.CurrentUser(sid)
	if err != nil || cur.ID != u.ID {
		t.Fatalf("session not bound: %v %+v", err, cur)
	}

	// wrong password
	if _, err := svc.Login(sid, "alice", "WrongPass1"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}

	// logout unbinds
	if err := svc.Logout(sid); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser(sid); err == nil {
		t.Fatal("session should be unbound after logout")
	}
}

func TestEnsureAdmin_IdempotentAndHashed(t *testing.T) {
	db := memdbUsers(t)

	if err := repos.EnsureAdmin(db, "admin", "Adm1nPass!"); err != nil {
		t.Fatal(err)
	}
	if err := repos.EnsureAdmin(db, "admin", "Adm1nPass!"); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE username='admin'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want exactly one admin, got %d", n)
	}
	var hash, role string
	if err := db.QueryRow(`SELECT password_hash, role FROM users WHERE username='admin'`).Scan(&hash, &role); err != nil {
		t.Fatal(err)
	}
	if role != "ADMIN" {
		t.Fatalf("want ADMIN role, got %s", role)
	}
	if strings.Contains(hash, "Adm1nPass!") || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("bootstrap credential stored insecurely: %q", hash)
	}

	// empty password skips provisioning
	db2 := memdbUsers(t)
	if err := repos.EnsureAdmin(db2, "admin", ""); err != nil {
		t.Fatal(err)
	}
	if err := db2.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("provisioning should be skipped, got %d users", n)
	}
}
