package store

import (
	"database/sql"
	"fmt"

	"github.com/willowmere/hearth/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var phone, photoURL sql.NullString

	err := scanner.Scan(&u.ID, &u.Email, &u.Name, &phone, &photoURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if photoURL.Valid {
		u.PhotoURL = &photoURL.String
	}
	return &u, nil
}

const userCols = `id, email, name, phone, photo_url, created_at, updated_at`

func (s *UserStore) Create(id, email, name, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO users (id, email, name, password_hash) VALUES (?, ?, ?, ?)`,
		id, email, name, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, ErrExists
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// PasswordHash returns the stored bcrypt hash for an email, or "" when the
// user does not exist.
func (s *UserStore) PasswordHash(email string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT password_hash FROM users WHERE email = ?`, email).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get password hash: %w", err)
	}
	return hash, nil
}

// UpdateProfile sets name, phone, and photo URL. Nil phone/photoURL clear the
// stored value.
func (s *UserStore) UpdateProfile(id, name string, phone, photoURL *string) (*model.User, error) {
	var ph, pu sql.NullString
	if phone != nil {
		ph = sql.NullString{String: *phone, Valid: true}
	}
	if photoURL != nil {
		pu = sql.NullString{String: *photoURL, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE users SET name = ?, phone = ?, photo_url = ?, updated_at = datetime('now') WHERE id = ?`,
		name, ph, pu, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) UpdateEmail(id, email string) (*model.User, error) {
	_, err := s.db.Exec(
		`UPDATE users SET email = ?, updated_at = datetime('now') WHERE id = ?`,
		email, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update email: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) UpdatePassword(id, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = datetime('now') WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
