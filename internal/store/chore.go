package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/willowmere/hearth/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullString
	var nextDueAt, lastNotifiedAt sql.NullTime

	err := scanner.Scan(
		&c.ID, &c.HouseID, &c.Title, &c.CreatedBy, &assignedTo,
		&c.Frequency, &c.Count, &nextDueAt, &lastNotifiedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.String
	}
	if nextDueAt.Valid {
		t := nextDueAt.Time
		c.NextDueAt = &t
	}
	if lastNotifiedAt.Valid {
		t := lastNotifiedAt.Time
		c.LastNotifiedAt = &t
	}
	return &c, nil
}

const choreCols = `id, house_id, title, created_by, assigned_to, frequency, count, next_due_at, last_notified_at, created_at, updated_at`

func (s *ChoreStore) Create(id, houseID, title, createdBy, frequency string, count int, nextDueAt *time.Time) (*model.Chore, error) {
	var due sql.NullTime
	if nextDueAt != nil {
		due = sql.NullTime{Time: nextDueAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO chores (id, house_id, title, created_by, frequency, count, next_due_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, houseID, title, createdBy, frequency, count, due,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	return s.GetByID(houseID, id)
}

func (s *ChoreStore) GetByID(houseID, id string) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ? AND house_id = ?`, id, houseID)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

// ListByHouse returns a house's chores newest first.
func (s *ChoreStore) ListByHouse(houseID string) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE house_id = ? ORDER BY created_at DESC, id DESC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()
	return scanChores(rows)
}

// Update sets the editable fields of a chore: title, frequency, count.
func (s *ChoreStore) Update(houseID, id, title, frequency string, count int) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET title = ?, frequency = ?, count = ?, updated_at = datetime('now') WHERE id = ? AND house_id = ?`,
		title, frequency, count, id, houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(houseID, id)
}

// UpdateAssignee sets or clears a chore's assignee.
func (s *ChoreStore) UpdateAssignee(houseID, id string, assignedTo *string) error {
	var a sql.NullString
	if assignedTo != nil {
		a = sql.NullString{String: *assignedTo, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE chores SET assigned_to = ?, updated_at = datetime('now') WHERE id = ? AND house_id = ?`,
		a, id, houseID,
	)
	if err != nil {
		return fmt.Errorf("update assignee: %w", err)
	}
	return nil
}

func (s *ChoreStore) SetNextDue(houseID, id string, nextDueAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE chores SET next_due_at = ?, updated_at = datetime('now') WHERE id = ? AND house_id = ?`,
		nextDueAt.UTC(), id, houseID,
	)
	if err != nil {
		return fmt.Errorf("set next due: %w", err)
	}
	return nil
}

// StampNotified records that a reminder was sent for this chore.
func (s *ChoreStore) StampNotified(id string, at time.Time) error {
	_, err := s.db.Exec(
		`UPDATE chores SET last_notified_at = ? WHERE id = ?`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("stamp notified: %w", err)
	}
	return nil
}

func (s *ChoreStore) Delete(houseID, id string) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ? AND house_id = ?`, id, houseID)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// ListDueBetween returns chores across all houses with next_due_at in
// [start, end), for the notification job.
func (s *ChoreStore) ListDueBetween(start, end time.Time) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE next_due_at >= ? AND next_due_at < ? ORDER BY next_due_at ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due chores: %w", err)
	}
	defer rows.Close()
	return scanChores(rows)
}

func scanChores(rows *sql.Rows) ([]model.Chore, error) {
	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// --- Completion methods ---

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.ChoreCompletion, error) {
	var c model.ChoreCompletion
	var photoURL sql.NullString

	err := scanner.Scan(&c.ID, &c.ChoreID, &c.CompletedBy, &photoURL, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	if photoURL.Valid {
		c.PhotoURL = &photoURL.String
	}
	return &c, nil
}

const completionCols = `id, chore_id, completed_by, photo_url, completed_at`

func (s *ChoreStore) CreateCompletion(choreID, completedBy string, photoURL *string) (*model.ChoreCompletion, error) {
	var pu sql.NullString
	if photoURL != nil {
		pu = sql.NullString{String: *photoURL, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO chore_completions (chore_id, completed_by, photo_url) VALUES (?, ?, ?)`,
		choreID, completedBy, pu,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+completionCols+` FROM chore_completions WHERE id = ?`, id)
	return scanCompletion(row)
}

func (s *ChoreStore) ListCompletionsByChore(choreID string) ([]model.ChoreCompletion, error) {
	rows, err := s.db.Query(
		`SELECT `+completionCols+` FROM chore_completions WHERE chore_id = ? ORDER BY completed_at DESC`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	var completions []model.ChoreCompletion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}
