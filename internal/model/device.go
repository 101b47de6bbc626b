package model

import "time"

// DeviceSubscription is one webpush registration for a user's device.
// The endpoint is the identity: re-registering after a token rotation
// upserts by endpoint.
type DeviceSubscription struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
}
