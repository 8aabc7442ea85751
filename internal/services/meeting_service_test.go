package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stickywith_backend/internal/models"
	"stickywith_backend/internal/repositories"
	"stickywith_backend/internal/services/dto"
	"stickywith_backend/pkg/apperrors"
)

// staleReadConnRepo serves a canned FindByPair result for the first
// remaining calls, standing in for a read whose snapshot a concurrent
// writer has already invalidated. Later lookups fall through to the real
// repository.
type staleReadConnRepo struct {
	repositories.ConnectionRepository
	remaining *int
	respond   func() (*models.Connection, error)
}

func (r *staleReadConnRepo) WithTx(tx *gorm.DB) repositories.ConnectionRepository {
	return &staleReadConnRepo{
		ConnectionRepository: r.ConnectionRepository.WithTx(tx),
		remaining:            r.remaining,
		respond:              r.respond,
	}
}

func (r *staleReadConnRepo) FindByPair(userID, otherID string) (*models.Connection, error) {
	if *r.remaining > 0 {
		*r.remaining--
		return r.respond()
	}
	return r.ConnectionRepository.FindByPair(userID, otherID)
}

func newMeetingServiceWithConnRepo(db *gorm.DB, connRepo repositories.ConnectionRepository) MeetingService {
	return NewMeetingService(db,
		repositories.NewUserRepository(db),
		connRepo,
		repositories.NewMeetingRepository(db),
		NewNotificationService(repositories.NewNotificationRepository(db), nil))
}

func TestRequestMeeting_FullLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Alice proposes: pending connection with a placeholder event.
	result, err := svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "cafe centro")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeRequested, result.Outcome)
	assert.Equal(t, models.ConnectionStatusPending, result.Status)
	require.NotNil(t, result.Meeting)
	assert.Nil(t, result.Meeting.MetAt, "placeholder must stay unstamped until confirmation")
	assert.Equal(t, "cafe centro", result.Meeting.Location)

	// Bob got a meeting_request notification with Alice's username snapshot.
	list, err := svc.NotificationService.ListForUser(bob.ID, 10)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationTypeMeetingRequest, list.Notifications[0].Type)
	assert.Equal(t, "alice", list.Notifications[0].Content.Username)
	assert.Equal(t, alice.ID, list.Notifications[0].Content.UserID)

	// Alice repeating her proposal changes nothing.
	result, err = svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAwaiting, result.Outcome)

	var eventCount int64
	db.Model(&models.MeetingEvent{}).Count(&eventCount)
	assert.EqualValues(t, 1, eventCount)

	// Bob confirms: the placeholder becomes today's finalized meeting.
	result, err = svc.MeetingService.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeConfirmed, result.Outcome)
	assert.Equal(t, models.ConnectionStatusConfirmed, result.Status)
	require.NotNil(t, result.Meeting.MetAt)
	assert.Equal(t, "cafe centro", result.Meeting.Location, "confirmation finalizes the original placeholder")

	// Alice got exactly one meeting_confirmed notification.
	list, err = svc.NotificationService.ListForUser(alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, models.NotificationTypeMeetingConfirmed, list.Notifications[0].Type)

	// Same day again: the daily cap returns the existing event.
	confirmedEventID := result.Meeting.ID
	result, err = svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyMetToday, result.Outcome)
	require.NotNil(t, result.Meeting)
	assert.Equal(t, confirmedEventID, result.Meeting.ID)

	db.Model(&models.MeetingEvent{}).Count(&eventCount)
	assert.EqualValues(t, 1, eventCount, "the cap must not create a second event")

	// No extra notifications for repeat activity on a confirmed connection.
	count, err := svc.NotificationService.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRequestMeeting_NewDayRecordsAgain(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	_, err = svc.MeetingService.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)

	// Push the confirmed meeting back one day so today is open again.
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, db.Model(&models.MeetingEvent{}).
		Where("met_at IS NOT NULL").
		Update("met_at", yesterday).Error)

	result, err := svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "park")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeRecorded, result.Outcome)
	require.NotNil(t, result.Meeting.MetAt)
	assert.Equal(t, "park", result.Meeting.Location)

	var eventCount int64
	db.Model(&models.MeetingEvent{}).Count(&eventCount)
	assert.EqualValues(t, 2, eventCount)
}

func TestRequestMeeting_Validation(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")

	_, err := svc.MeetingService.RequestMeeting(alice.ID, alice.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrSelfMeeting)

	_, err = svc.MeetingService.RequestMeeting(alice.ID, "00000000-0000-0000-0000-000000000000", "")
	assert.ErrorIs(t, err, apperrors.ErrTargetNotFound)

	_, err = svc.MeetingService.RequestMeeting("00000000-0000-0000-0000-000000000000", alice.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRequestMeeting_DuplicatePairRaceResolves(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// Alice's proposal already landed; the racing caller still reads "none".
	_, err := svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)

	remaining := 1
	racy := newMeetingServiceWithConnRepo(db, &staleReadConnRepo{
		ConnectionRepository: repositories.NewConnectionRepository(db),
		remaining:            &remaining,
		respond: func() (*models.Connection, error) {
			return nil, repositories.ErrConnectionNotFound
		},
	})

	// Alice re-running her lost proposal: the create hits the pair-key
	// constraint, the retry re-reads and lands in the awaiting branch.
	result, err := racy.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAwaiting, result.Outcome)
	assert.Zero(t, remaining, "the stale read must have been consumed")

	// The rolled-back attempt leaves no extra rows behind.
	var connCount, eventCount int64
	db.Model(&models.Connection{}).Count(&connCount)
	db.Model(&models.MeetingEvent{}).Count(&eventCount)
	assert.EqualValues(t, 1, connCount)
	assert.EqualValues(t, 1, eventCount)

	unread, err := svc.NotificationService.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread, "the duplicate proposal must not notify again")

	// Bob confirming through the same stale window resolves to confirmed.
	remaining = 1
	result, err = racy.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeConfirmed, result.Outcome)
	assert.Zero(t, remaining)
	require.NotNil(t, result.Meeting.MetAt)

	db.Model(&models.Connection{}).Count(&connCount)
	assert.EqualValues(t, 1, connCount)
}

func TestRequestMeeting_StaleConfirmRaceResolves(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	confirmed, err := svc.MeetingService.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)
	require.Equal(t, dto.OutcomeConfirmed, confirmed.Outcome)

	// Serve Bob a snapshot from before his confirm won: the conditional
	// update matches no row and the retry resolves idempotently.
	connRepo := repositories.NewConnectionRepository(db)
	conn, err := connRepo.FindByPair(alice.ID, bob.ID)
	require.NoError(t, err)
	stale := *conn
	stale.Status = models.ConnectionStatusPending

	remaining := 1
	racy := newMeetingServiceWithConnRepo(db, &staleReadConnRepo{
		ConnectionRepository: connRepo,
		remaining:            &remaining,
		respond: func() (*models.Connection, error) {
			c := stale
			return &c, nil
		},
	})

	result, err := racy.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeAlreadyMetToday, result.Outcome)
	assert.Zero(t, remaining, "the stale read must have been consumed")
	require.NotNil(t, result.Meeting)
	assert.Equal(t, confirmed.Meeting.ID, result.Meeting.ID)

	var eventCount int64
	db.Model(&models.MeetingEvent{}).Count(&eventCount)
	assert.EqualValues(t, 1, eventCount)
}

func TestGetConnectionState(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	state, err := svc.MeetingService.GetConnectionState(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", state.Status)

	_, err = svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)

	// The proposer waits; the recipient is the one being awaited.
	state, err = svc.MeetingService.GetConnectionState(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", state.Status)
	assert.Equal(t, alice.ID, state.ProposerID)
	assert.False(t, state.AwaitingMe)

	state, err = svc.MeetingService.GetConnectionState(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, state.AwaitingMe)

	_, err = svc.MeetingService.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)

	state, err = svc.MeetingService.GetConnectionState(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", state.Status)
	require.NotNil(t, state.TodayMeeting)
}

func TestListHistory(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	// A pending request with Carol must not show up in history.
	_, err := svc.MeetingService.RequestMeeting(alice.ID, carol.ID, "")
	require.NoError(t, err)

	_, err = svc.MeetingService.RequestMeeting(alice.ID, bob.ID, "")
	require.NoError(t, err)
	_, err = svc.MeetingService.RequestMeeting(bob.ID, alice.ID, "")
	require.NoError(t, err)

	history, err := svc.MeetingService.ListHistory(alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "bob", history[0].With.Username)
	assert.NotEmpty(t, history[0].With.AvatarURL)
	require.NotNil(t, history[0].Meeting.MetAt)

	// Bob sees the same meeting with Alice as counterparty.
	history, err = svc.MeetingService.ListHistory(bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "alice", history[0].With.Username)

	history, err = svc.MeetingService.ListHistory(carol.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
