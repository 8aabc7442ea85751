package dto

import (
	"time"

	"stickywith_backend/internal/models"
)

type NotificationResponse struct {
	ID        string                     `json:"id"`
	Type      string                     `json:"type"`
	Content   models.NotificationContent `json:"content"`
	IsRead    bool                       `json:"is_read"`
	ReadAt    *time.Time                 `json:"read_at,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
