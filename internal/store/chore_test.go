package store

import (
	"testing"
	"time"
)

func seedHouse(t *testing.T, hs *HouseStore, us *UserStore) {
	t.Helper()
	seedUser(t, us, "alice")
	if _, err := hs.CreateIfAbsent("ABC123", "Home", "alice"); err != nil {
		t.Fatalf("seed house: %v", err)
	}
}

func TestChoreCRUD(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)

	due := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	c, err := cs.Create("chore-1", "ABC123", "Dishes", "alice", "Daily", 1, &due)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Title != "Dishes" || c.Frequency != "Daily" || c.Count != 1 {
		t.Errorf("chore = %+v", c)
	}
	if c.AssignedTo != nil {
		t.Errorf("new chore should be unassigned, got %q", *c.AssignedTo)
	}

	got, err := cs.GetByID("ABC123", "chore-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Title != "Dishes" {
		t.Errorf("got = %+v", got)
	}
	if got.NextDueAt == nil || !got.NextDueAt.Equal(due) {
		t.Errorf("nextDueAt = %v, want %v", got.NextDueAt, due)
	}

	updated, err := cs.Update("ABC123", "chore-1", "Wash dishes", "Weekly", 2)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Wash dishes" || updated.Frequency != "Weekly" || updated.Count != 2 {
		t.Errorf("updated = %+v", updated)
	}

	if err := cs.Delete("ABC123", "chore-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = cs.GetByID("ABC123", "chore-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestChoreHouseScoping(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)
	seedUser(t, us, "bob")
	if _, err := hs.CreateIfAbsent("XYZ789", "Other", "bob"); err != nil {
		t.Fatalf("seed second house: %v", err)
	}

	if _, err := cs.Create("chore-1", "ABC123", "Dishes", "alice", "Daily", 1, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A chore is invisible through another house's scope.
	got, err := cs.GetByID("XYZ789", "chore-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("chore leaked across houses: %+v", got)
	}
}

func TestUpdateAssignee(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)

	if _, err := cs.Create("chore-1", "ABC123", "Dishes", "alice", "Daily", 1, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	alice := "alice"
	if err := cs.UpdateAssignee("ABC123", "chore-1", &alice); err != nil {
		t.Fatalf("assign: %v", err)
	}
	got, _ := cs.GetByID("ABC123", "chore-1")
	if got.AssignedTo == nil || *got.AssignedTo != "alice" {
		t.Errorf("assignee = %v, want alice", got.AssignedTo)
	}

	if err := cs.UpdateAssignee("ABC123", "chore-1", nil); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	got, _ = cs.GetByID("ABC123", "chore-1")
	if got.AssignedTo != nil {
		t.Errorf("assignee = %q after clear, want nil", *got.AssignedTo)
	}
}

func TestListDueBetween(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)
	seedUser(t, us, "bob")
	if _, err := hs.CreateIfAbsent("XYZ789", "Other", "bob"); err != nil {
		t.Fatalf("seed second house: %v", err)
	}

	base := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	inWindow := base.Add(6 * time.Hour)
	outOfWindow := base.Add(48 * time.Hour)

	if _, err := cs.Create("due-1", "ABC123", "Dishes", "alice", "Daily", 1, &inWindow); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create("due-2", "XYZ789", "Laundry", "bob", "Daily", 1, &inWindow); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create("later", "ABC123", "Vacuum", "alice", "Daily", 1, &outOfWindow); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create("undated", "ABC123", "Trash", "alice", "Daily", 1, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Spans houses, excludes chores due outside the range or without a date.
	due, err := cs.ListDueBetween(base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("got %d due chores, want 2", len(due))
	}
}

func TestStampNotified(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)

	if _, err := cs.Create("chore-1", "ABC123", "Dishes", "alice", "Daily", 1, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	if err := cs.StampNotified("chore-1", at); err != nil {
		t.Fatalf("stamp: %v", err)
	}

	got, _ := cs.GetByID("ABC123", "chore-1")
	if got.LastNotifiedAt == nil || !got.LastNotifiedAt.Equal(at) {
		t.Errorf("lastNotifiedAt = %v, want %v", got.LastNotifiedAt, at)
	}
}

func TestCompletions(t *testing.T) {
	hs, us, cs, _ := setupTestDB(t)
	seedHouse(t, hs, us)

	if _, err := cs.Create("chore-1", "ABC123", "Dishes", "alice", "Daily", 1, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	photo := "https://photos.example.com/p.jpg"
	c1, err := cs.CreateCompletion("chore-1", "alice", &photo)
	if err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if c1.PhotoURL == nil || *c1.PhotoURL != photo {
		t.Errorf("photoURL = %v, want %q", c1.PhotoURL, photo)
	}
	if _, err := cs.CreateCompletion("chore-1", "alice", nil); err != nil {
		t.Fatalf("create completion: %v", err)
	}

	completions, err := cs.ListCompletionsByChore("chore-1")
	if err != nil {
		t.Fatalf("list completions: %v", err)
	}
	if len(completions) != 2 {
		t.Errorf("got %d completions, want 2", len(completions))
	}
}
