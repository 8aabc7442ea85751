package handlers

import (
	"stickywith_backend/internal/services"
	"stickywith_backend/internal/validator"
)

// AppHandlers holds all HTTP handlers of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	MeetingHandler      *MeetingHandler
	NotificationHandler *NotificationHandler
	NetworkHandler      *NetworkHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, svc.AuthService),
		UserHandler:         NewUserHandler(base, svc.ProfileService),
		MeetingHandler:      NewMeetingHandler(base, svc.MeetingService),
		NotificationHandler: NewNotificationHandler(base, svc.NotificationService),
		NetworkHandler:      NewNetworkHandler(base, svc.NetworkService),
	}
}
