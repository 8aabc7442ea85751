package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationTypeMeetingRequest   = "meeting_request"
	NotificationTypeMeetingConfirmed = "meeting_confirmed"
)

type Notification struct {
	BaseModel
	UserID  string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string         `gorm:"not null" json:"type"` // "meeting_request", "meeting_confirmed"
	Content datatypes.JSON `gorm:"type:jsonb" json:"content"` // {"user_id": "...", "username": "..."}
	IsRead  bool           `gorm:"default:false" json:"is_read"`
	ReadAt  *time.Time     `json:"read_at"`
}

// NotificationContent is the structured payload stored in Content. Username
// is a snapshot taken when the notification is created, so later renames do
// not rewrite history.
type NotificationContent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
