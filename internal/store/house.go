package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/willowmere/hearth/internal/model"
)

// ErrExists is returned by conditional inserts when the target key is taken.
var ErrExists = errors.New("record already exists")

type HouseStore struct {
	db *sql.DB
}

func NewHouseStore(db *sql.DB) *HouseStore {
	return &HouseStore{db: db}
}

func scanHouse(scanner interface{ Scan(...any) error }) (*model.House, error) {
	var h model.House
	err := scanner.Scan(&h.ID, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const houseCols = `id, name, created_at, updated_at`

// CreateIfAbsent inserts a house at the given code only if no house holds
// that code. It returns ErrExists when the code is taken; the write is a
// single conditional insert, so two concurrent creators cannot both claim
// the same code.
func (s *HouseStore) CreateIfAbsent(id, name, ownerID string) (*model.House, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT OR IGNORE INTO houses (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return nil, fmt.Errorf("insert house: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrExists
	}

	if _, err := tx.Exec(
		`INSERT INTO house_members (house_id, user_id) VALUES (?, ?)`,
		id, ownerID,
	); err != nil {
		return nil, fmt.Errorf("insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseStore) GetByID(id string) (*model.House, error) {
	row := s.db.QueryRow(`SELECT `+houseCols+` FROM houses WHERE id = ?`, id)
	h, err := scanHouse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get house: %w", err)
	}

	members, err := s.ListMemberIDs(id)
	if err != nil {
		return nil, err
	}
	h.Members = members
	return h, nil
}

// AddMember adds a user to a house. Adding an existing member is a no-op.
func (s *HouseStore) AddMember(houseID, userID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO house_members (house_id, user_id) VALUES (?, ?)`,
		houseID, userID,
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a house. Removing a non-member is a no-op.
func (s *HouseStore) RemoveMember(houseID, userID string) error {
	_, err := s.db.Exec(
		`DELETE FROM house_members WHERE house_id = ? AND user_id = ?`,
		houseID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *HouseStore) IsMember(houseID, userID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM house_members WHERE house_id = ? AND user_id = ?`,
		houseID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return count > 0, nil
}

func (s *HouseStore) ListMemberIDs(houseID string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT user_id FROM house_members WHERE house_id = ? ORDER BY created_at ASC`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *HouseStore) ListForUser(userID string) ([]model.House, error) {
	rows, err := s.db.Query(
		`SELECT h.id, h.name, h.created_at, h.updated_at
		 FROM houses h
		 JOIN house_members hm ON h.id = hm.house_id
		 WHERE hm.user_id = ?
		 ORDER BY hm.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list houses for user: %w", err)
	}
	defer rows.Close()

	var houses []model.House
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan house: %w", err)
		}
		houses = append(houses, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range houses {
		members, err := s.ListMemberIDs(houses[i].ID)
		if err != nil {
			return nil, err
		}
		houses[i].Members = members
	}
	return houses, nil
}
