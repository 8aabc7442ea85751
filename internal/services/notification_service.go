package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"stickywith_backend/internal/logger"
	"stickywith_backend/internal/models"
	"stickywith_backend/internal/repositories"
	"stickywith_backend/internal/services/dto"
	"stickywith_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LivePusher delivers a payload to a user's live channel if one is open.
// Push reports whether delivery was attempted; the websocket hub implements
// it. A nil pusher degrades the dispatcher to polling only.
type LivePusher interface {
	Push(userID string, payload any) bool
}

// NotificationService is the dispatcher: it exclusively owns notification
// creation. The persisted row is the source of truth; the live push is
// best-effort and never affects the triggering write.
type NotificationService interface {
	// CreateMeetingRequest persists a meeting_request notification inside tx,
	// snapshotting the actor's current username.
	CreateMeetingRequest(tx *gorm.DB, recipientID string, actor *models.User) (*models.Notification, error)
	// CreateMeetingConfirmed persists a meeting_confirmed notification inside tx.
	CreateMeetingConfirmed(tx *gorm.DB, recipientID string, actor *models.User) (*models.Notification, error)
	// PushLive forwards an already-persisted notification to the recipient's
	// live channel. Failures are logged and swallowed.
	PushLive(notification *models.Notification)

	ListForUser(userID string, limit int) (*dto.NotificationListResponse, error)
	UnreadCount(userID string) (int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
}

type notificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	pusher           LivePusher
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, pusher LivePusher) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		pusher:           pusher,
	}
}

func (s *notificationServiceImpl) CreateMeetingRequest(tx *gorm.DB, recipientID string, actor *models.User) (*models.Notification, error) {
	return s.create(tx, recipientID, models.NotificationTypeMeetingRequest, actor)
}

func (s *notificationServiceImpl) CreateMeetingConfirmed(tx *gorm.DB, recipientID string, actor *models.User) (*models.Notification, error) {
	return s.create(tx, recipientID, models.NotificationTypeMeetingConfirmed, actor)
}

func (s *notificationServiceImpl) create(tx *gorm.DB, recipientID, notificationType string, actor *models.User) (*models.Notification, error) {
	content, err := json.Marshal(models.NotificationContent{
		UserID:   actor.ID,
		Username: actor.Username,
	})
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  recipientID,
		Type:    notificationType,
		Content: datatypes.JSON(content),
		IsRead:  false,
	}
	if err := s.notificationRepo.WithTx(tx).Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationServiceImpl) PushLive(notification *models.Notification) {
	if s.pusher == nil {
		return
	}
	if delivered := s.pusher.Push(notification.UserID, buildNotificationResponse(notification)); !delivered {
		logger.Debug("no live channel for notification recipient",
			"user_id", notification.UserID, "type", notification.Type)
	}
}

func (s *notificationServiceImpl) ListForUser(userID string, limit int) (*dto.NotificationListResponse, error) {
	notifications, err := s.notificationRepo.ListForUser(userID, limit)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}
	unread, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}
	return &dto.NotificationListResponse{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationServiceImpl) UnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.PersistenceFailure(err)
	}
	return count, nil
}

func (s *notificationServiceImpl) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.PersistenceFailure(err)
	}
	if notification.UserID != userID {
		return apperrors.New(apperrors.CodeForbidden, "notification", "Access denied", http.StatusForbidden)
	}
	// Marking an already-read notification again is a no-op, not an error.
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func (s *notificationServiceImpl) MarkAllAsRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.PersistenceFailure(err)
	}
	return nil
}

func buildNotificationResponse(notification *models.Notification) dto.NotificationResponse {
	response := dto.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
	if len(notification.Content) > 0 {
		_ = json.Unmarshal(notification.Content, &response.Content)
	}
	return response
}
