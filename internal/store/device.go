package store

import (
	"database/sql"
	"fmt"

	"github.com/willowmere/hearth/internal/model"
)

type DeviceStore struct {
	db *sql.DB
}

func NewDeviceStore(db *sql.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

const deviceCols = `id, user_id, endpoint, p256dh_key, auth_key, device_name, created_at`

// Upsert registers a device subscription. The endpoint is the identity, so a
// refreshed registration for the same device replaces its keys in place.
func (s *DeviceStore) Upsert(userID, endpoint, p256dh, auth, deviceName string) (*model.DeviceSubscription, error) {
	_, err := s.db.Exec(
		`INSERT INTO device_subscriptions (user_id, endpoint, p256dh_key, auth_key, device_name)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET user_id = excluded.user_id, p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key, device_name = excluded.device_name`,
		userID, endpoint, p256dh, auth, deviceName,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert device subscription: %w", err)
	}
	return s.GetByEndpoint(endpoint)
}

func (s *DeviceStore) GetByEndpoint(endpoint string) (*model.DeviceSubscription, error) {
	row := s.db.QueryRow(
		`SELECT `+deviceCols+` FROM device_subscriptions WHERE endpoint = ?`, endpoint,
	)
	sub, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get device subscription: %w", err)
	}
	return sub, nil
}

func (s *DeviceStore) ListByUser(userID string) ([]model.DeviceSubscription, error) {
	rows, err := s.db.Query(
		`SELECT `+deviceCols+` FROM device_subscriptions WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list device subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.DeviceSubscription
	for rows.Next() {
		sub, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *DeviceStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec(`DELETE FROM device_subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("delete device subscription: %w", err)
	}
	return nil
}

func scanDevice(scanner interface{ Scan(...any) error }) (*model.DeviceSubscription, error) {
	var sub model.DeviceSubscription
	err := scanner.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.DeviceName, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
