package services

import (
	"errors"
	"time"

	"stickywith_backend/internal/logger"
	"stickywith_backend/internal/models"
	"stickywith_backend/internal/repositories"
	"stickywith_backend/internal/services/dto"
	"stickywith_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MeetingService interface {
	// RequestMeeting runs the connection state machine for caller against
	// target: propose, confirm, or record a repeat meeting, whichever is the
	// next legal action. All writes of one call happen in one transaction.
	RequestMeeting(callerID, targetID, location string) (*dto.MeetingResult, error)
	// GetConnectionState reports the caller's current state against target,
	// including today's meeting if one exists.
	GetConnectionState(callerID, targetID string) (*dto.ConnectionState, error)
	// ListHistory returns the user's finalized meetings, newest first, with
	// the counterparty resolved.
	ListHistory(userID string) ([]dto.MeetingHistoryEntry, error)
}

type meetingServiceImpl struct {
	db            *gorm.DB
	userRepo      repositories.UserRepository
	connRepo      repositories.ConnectionRepository
	meetingRepo   repositories.MeetingRepository
	notifications NotificationService
}

func NewMeetingService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	connRepo repositories.ConnectionRepository,
	meetingRepo repositories.MeetingRepository,
	notifications NotificationService,
) MeetingService {
	return &meetingServiceImpl{
		db:            db,
		userRepo:      userRepo,
		connRepo:      connRepo,
		meetingRepo:   meetingRepo,
		notifications: notifications,
	}
}

func (s *meetingServiceImpl) RequestMeeting(callerID, targetID, location string) (*dto.MeetingResult, error) {
	if callerID == targetID {
		return nil, apperrors.ErrSelfMeeting
	}

	caller, err := s.userRepo.FindByID(callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, apperrors.PersistenceFailure(err)
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrTargetNotFound
		}
		return nil, apperrors.PersistenceFailure(err)
	}

	// A lost race (duplicate pair key, or a status that moved under us) is
	// resolved by re-reading: states only move forward, so the retry lands
	// in the right branch instead of surfacing a conflict to the user.
	const maxAttempts = 3
	for attempt := 1; ; attempt++ {
		result, notification, err := s.applyRequest(caller, targetID, location)
		if err != nil {
			appErr, ok := apperrors.AsAppError(err)
			if ok && appErr.Code == apperrors.CodeConflict && attempt < maxAttempts {
				logger.Debug("meeting transition lost a race, retrying",
					"caller", callerID, "target", targetID, "attempt", attempt)
				continue
			}
			return nil, err
		}
		if notification != nil {
			s.notifications.PushLive(notification)
		}
		return result, nil
	}
}

// applyRequest reads the pair's state, asks the state machine for the next
// transition, and applies its effects atomically. The returned notification,
// if any, was persisted inside the transaction and still needs a live push.
func (s *meetingServiceImpl) applyRequest(caller *models.User, targetID, location string) (*dto.MeetingResult, *models.Notification, error) {
	now := time.Now().UTC()

	var result *dto.MeetingResult
	var notification *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		connRepo := s.connRepo.WithTx(tx)
		meetingRepo := s.meetingRepo.WithTx(tx)

		conn, err := connRepo.FindByPair(caller.ID, targetID)
		if err != nil && !errors.Is(err, repositories.ErrConnectionNotFound) {
			return err
		}

		var todayEvent *models.MeetingEvent
		metToday := false
		if conn != nil && conn.Status == models.ConnectionStatusConfirmed {
			todayEvent, err = meetingRepo.FindOnDay(conn.ID, now)
			if err != nil {
				return err
			}
			metToday = todayEvent != nil
		}

		tr := nextTransition(conn, caller.ID, metToday)

		var event *models.MeetingEvent
		for _, eff := range tr.Effects {
			switch eff {
			case effectCreateConnection:
				conn = &models.Connection{
					UserAID: caller.ID,
					UserBID: targetID,
					Status:  models.ConnectionStatusPending,
				}
				if err := connRepo.Create(conn); err != nil {
					return err
				}
				event = &models.MeetingEvent{
					ConnectionID: conn.ID,
					Location:     location,
				}
				if err := meetingRepo.Create(event); err != nil {
					return err
				}

			case effectConfirmConnection:
				if err := connRepo.ConfirmPending(conn.ID); err != nil {
					return err
				}
				conn.Status = models.ConnectionStatusConfirmed
				placeholder, err := meetingRepo.FindPlaceholder(conn.ID)
				if err != nil {
					return err
				}
				if err := meetingRepo.Finalize(placeholder.ID, now); err != nil {
					return err
				}
				metAt := now
				placeholder.MetAt = &metAt
				event = placeholder

			case effectAppendMeeting:
				metAt := now
				event = &models.MeetingEvent{
					ConnectionID: conn.ID,
					MetAt:        &metAt,
					Location:     location,
				}
				if err := meetingRepo.Create(event); err != nil {
					return err
				}

			case effectNotifyRequest:
				notification, err = s.notifications.CreateMeetingRequest(tx, targetID, caller)
				if err != nil {
					return err
				}

			case effectNotifyConfirmed:
				notification, err = s.notifications.CreateMeetingConfirmed(tx, conn.OtherUserID(caller.ID), caller)
				if err != nil {
					return err
				}
			}
		}

		if tr.Outcome == dto.OutcomeAlreadyMetToday {
			event = todayEvent
		}

		result = &dto.MeetingResult{
			Outcome:      tr.Outcome,
			ConnectionID: conn.ID,
			Status:       conn.Status,
			Meeting:      event,
		}
		return nil
	})

	if err != nil {
		notification = nil
		if errors.Is(err, repositories.ErrDuplicatePair) {
			return nil, nil, apperrors.Conflict(err, "connection was created concurrently")
		}
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, nil, apperrors.Conflict(err, "connection advanced concurrently")
		}
		if appErr, ok := apperrors.AsAppError(err); ok {
			return nil, nil, appErr
		}
		return nil, nil, apperrors.PersistenceFailure(err)
	}
	return result, notification, nil
}

func (s *meetingServiceImpl) GetConnectionState(callerID, targetID string) (*dto.ConnectionState, error) {
	conn, err := s.connRepo.FindByPair(callerID, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrConnectionNotFound) {
			return &dto.ConnectionState{Status: "none"}, nil
		}
		return nil, apperrors.PersistenceFailure(err)
	}

	state := &dto.ConnectionState{
		Status:       string(conn.Status),
		ConnectionID: conn.ID,
		ProposerID:   conn.UserAID,
		AwaitingMe:   conn.Status == models.ConnectionStatusPending && conn.UserBID == callerID,
	}

	if conn.Status == models.ConnectionStatusConfirmed {
		todayEvent, err := s.meetingRepo.FindOnDay(conn.ID, time.Now().UTC())
		if err != nil {
			return nil, apperrors.PersistenceFailure(err)
		}
		state.TodayMeeting = todayEvent
	}
	return state, nil
}

func (s *meetingServiceImpl) ListHistory(userID string) ([]dto.MeetingHistoryEntry, error) {
	events, err := s.meetingRepo.ListForUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	entries := make([]dto.MeetingHistoryEntry, 0, len(events))
	for _, event := range events {
		entry := dto.MeetingHistoryEntry{Meeting: event}
		if event.Connection != nil {
			other := event.Connection.UserA
			if event.Connection.UserAID == userID {
				other = event.Connection.UserB
			}
			if other != nil {
				entry.With = dto.UserSummary{
					ID:        other.ID,
					Username:  other.Username,
					AvatarURL: avatarOrFallback(other),
				}
			}
		}
		entry.Meeting.Connection = nil // counterparty is already resolved
		entries = append(entries, entry)
	}
	return entries, nil
}
