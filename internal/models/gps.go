package models

import "time"

// GPSSample is one accepted position report from a rider
type GPSSample struct {
	ID        int64     `json:"id" db:"id"`
	RiderID   string    `json:"rider_id" db:"rider_id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"` // Server receipt time
}

// RiderPosition is a rider's live position for the admin dashboard
type RiderPosition struct {
	RiderID        string    `json:"rider_id"`
	Latitude       float64   `json:"lat"`
	Longitude      float64   `json:"lon"`
	LastMoveTime   time.Time `json:"last_move_time"`
	LastUpdateTime time.Time `json:"last_update_time"`
	Connected      bool      `json:"connected"`
}

// DeviceToken represents a Firebase Cloud Messaging token for a rider
type DeviceToken struct {
	ID         int    `json:"id" db:"id"`
	RiderID    string `json:"rider_id" db:"rider_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // "ios" or "android"
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}
