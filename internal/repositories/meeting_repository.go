package repositories

import (
	"errors"
	"time"

	"stickywith_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMeetingNotFound = errors.New("meeting not found")

// MeetingRepository is the meeting ledger: it owns the one-event-per-day
// rule's day arithmetic and ordered retrieval. All calendar-day comparisons
// use UTC.
type MeetingRepository interface {
	WithTx(tx *gorm.DB) MeetingRepository

	Create(event *models.MeetingEvent) error
	// FindPlaceholder returns the single unfinalized event of a pending
	// connection (met_at still NULL).
	FindPlaceholder(connectionID string) (*models.MeetingEvent, error)
	// Finalize stamps the placeholder's met_at during the confirmation
	// transition. The row is immutable afterwards.
	Finalize(eventID string, metAt time.Time) error
	// FindOnDay returns the event recorded for the connection on asOf's UTC
	// calendar date, or nil if there is none.
	FindOnDay(connectionID string, asOf time.Time) (*models.MeetingEvent, error)
	HasMeetingOnDay(connectionID string, asOf time.Time) (bool, error)
	// ListByConnection returns finalized events, newest first.
	ListByConnection(connectionID string) ([]models.MeetingEvent, error)
	// ListForUser returns finalized events across all of the user's
	// connections, newest first, with the connection and both users loaded.
	ListForUser(userID string) ([]models.MeetingEvent, error)
}

type meetingRepositoryImpl struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepositoryImpl{db: db}
}

func (r *meetingRepositoryImpl) WithTx(tx *gorm.DB) MeetingRepository {
	return &meetingRepositoryImpl{db: tx}
}

// dayBoundsUTC returns the half-open [start, end) interval of t's UTC
// calendar date.
func dayBoundsUTC(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func (r *meetingRepositoryImpl) Create(event *models.MeetingEvent) error {
	return r.db.Create(event).Error
}

func (r *meetingRepositoryImpl) FindPlaceholder(connectionID string) (*models.MeetingEvent, error) {
	var event models.MeetingEvent
	err := r.db.
		Where("connection_id = ? AND met_at IS NULL", connectionID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *meetingRepositoryImpl) Finalize(eventID string, metAt time.Time) error {
	res := r.db.Model(&models.MeetingEvent{}).
		Where("id = ? AND met_at IS NULL", eventID).
		Update("met_at", metAt.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMeetingNotFound
	}
	return nil
}

func (r *meetingRepositoryImpl) FindOnDay(connectionID string, asOf time.Time) (*models.MeetingEvent, error) {
	start, end := dayBoundsUTC(asOf)
	var event models.MeetingEvent
	err := r.db.
		Where("connection_id = ? AND met_at >= ? AND met_at < ?", connectionID, start, end).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *meetingRepositoryImpl) HasMeetingOnDay(connectionID string, asOf time.Time) (bool, error) {
	event, err := r.FindOnDay(connectionID, asOf)
	if err != nil {
		return false, err
	}
	return event != nil, nil
}

func (r *meetingRepositoryImpl) ListByConnection(connectionID string) ([]models.MeetingEvent, error) {
	var events []models.MeetingEvent
	err := r.db.
		Where("connection_id = ? AND met_at IS NOT NULL", connectionID).
		Order("met_at desc").
		Find(&events).Error
	return events, err
}

func (r *meetingRepositoryImpl) ListForUser(userID string) ([]models.MeetingEvent, error) {
	var events []models.MeetingEvent
	err := r.db.
		Preload("Connection").
		Preload("Connection.UserA").
		Preload("Connection.UserB").
		Joins("JOIN connections ON connections.id = meeting_events.connection_id").
		Where("meeting_events.met_at IS NOT NULL AND (connections.user_a_id = ? OR connections.user_b_id = ?)", userID, userID).
		Order("meeting_events.met_at desc").
		Find(&events).Error
	return events, err
}
