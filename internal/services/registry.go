package services

import (
	"gorm.io/gorm"

	"stickywith_backend/internal/repositories"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	MeetingService      MeetingService
	NotificationService NotificationService
	NetworkService      NetworkService
}

// NewServiceContainer wires repositories and services over one gorm handle.
// pusher may be nil; notifications are then persisted without a live push.
func NewServiceContainer(db *gorm.DB, pusher LivePusher) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	connRepo := repositories.NewConnectionRepository(db)
	meetingRepo := repositories.NewMeetingRepository(db)
	notifRepo := repositories.NewNotificationRepository(db)

	notifSvc := NewNotificationService(notifRepo, pusher)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo),
		ProfileService:      NewProfileService(userRepo),
		MeetingService:      NewMeetingService(db, userRepo, connRepo, meetingRepo, notifSvc),
		NotificationService: notifSvc,
		NetworkService:      NewNetworkService(connRepo),
	}
}
