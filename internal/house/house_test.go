package house

import (
	"context"
	"errors"
	"testing"

	"github.com/willowmere/hearth/internal/database"
	"github.com/willowmere/hearth/internal/store"
)

func setupRegistry(t *testing.T) (*Registry, *store.HouseStore, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hs := store.NewHouseStore(db)
	us := store.NewUserStore(db)
	return NewRegistry(hs), hs, us
}

func mustCreateUser(t *testing.T, us *store.UserStore, id, email string) {
	t.Helper()
	if _, err := us.Create(id, email, "", "x"); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func TestCreateReturnsValidCode(t *testing.T) {
	reg, _, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")

	h, err := reg.Create(context.Background(), "My Home", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(h.ID) != 6 {
		t.Errorf("code length = %d, want 6", len(h.ID))
	}
	if h.Name != "My Home" {
		t.Errorf("name = %q, want %q", h.Name, "My Home")
	}
	if len(h.Members) != 1 || h.Members[0] != "owner" {
		t.Errorf("members = %v, want [owner]", h.Members)
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	reg, hs, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")

	// Occupy the code the generator will produce first.
	if _, err := hs.CreateIfAbsent("AAAAAA", "Existing", "owner"); err != nil {
		t.Fatalf("seed house: %v", err)
	}

	codes := []string{"AAAAAA", "BBBBBB"}
	reg.generate = func() string {
		c := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return c
	}

	h, err := reg.Create(context.Background(), "New Home", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if h.ID != "BBBBBB" {
		t.Errorf("code = %q, want %q (collision should retry)", h.ID, "BBBBBB")
	}
}

func TestCreateGivesUpWhenKeyspaceExhausted(t *testing.T) {
	reg, hs, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")

	if _, err := hs.CreateIfAbsent("CCCCCC", "Existing", "owner"); err != nil {
		t.Fatalf("seed house: %v", err)
	}
	reg.generate = func() string { return "CCCCCC" }

	if _, err := reg.Create(context.Background(), "Doomed", "owner"); err == nil {
		t.Error("expected error when every candidate collides")
	}
}

func TestJoinMalformedCode(t *testing.T) {
	reg, _, us := setupRegistry(t)
	mustCreateUser(t, us, "u1", "u1@example.com")

	for _, bad := range []string{"AB12", "12345", "ABC12345", "AB-C12", ""} {
		if _, err := reg.Join(context.Background(), bad, "u1"); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Join(%q) error = %v, want ErrInvalidCode", bad, err)
		}
	}
}

func TestJoinUnknownCode(t *testing.T) {
	reg, _, us := setupRegistry(t)
	mustCreateUser(t, us, "u1", "u1@example.com")

	if _, err := reg.Join(context.Background(), "ZZZZZZ", "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	reg, _, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")
	mustCreateUser(t, us, "u1", "u1@example.com")

	h, err := reg.Create(context.Background(), "Home", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := reg.Join(context.Background(), h.ID, "u1")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	second, err := reg.Join(context.Background(), h.ID, "u1")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if len(first.Members) != 2 || len(second.Members) != 2 {
		t.Errorf("members after join/rejoin = %d/%d, want 2/2", len(first.Members), len(second.Members))
	}
}

func TestJoinNormalizesCase(t *testing.T) {
	reg, _, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")
	mustCreateUser(t, us, "u1", "u1@example.com")

	h, err := reg.Create(context.Background(), "Home", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joined, err := reg.Join(context.Background(), "  "+lower(h.ID)+"  ", "u1")
	if err != nil {
		t.Fatalf("join with lowercase code: %v", err)
	}
	if joined.ID != h.ID {
		t.Errorf("joined %q, want %q", joined.ID, h.ID)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg, hs, us := setupRegistry(t)
	mustCreateUser(t, us, "owner", "owner@example.com")
	mustCreateUser(t, us, "u1", "u1@example.com")

	h, err := reg.Create(context.Background(), "Home", "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := reg.Join(context.Background(), h.ID, "u1"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := reg.Leave(context.Background(), h.ID, "u1"); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if err := reg.Leave(context.Background(), h.ID, "u1"); err != nil {
		t.Fatalf("second leave: %v", err)
	}

	members, err := hs.ListMemberIDs(h.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 || members[0] != "owner" {
		t.Errorf("members = %v, want [owner]", members)
	}
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
