package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"stickywith_backend/internal/models"
)

func createConfirmedConnection(t *testing.T, db *gorm.DB) *models.Connection {
	t.Helper()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	conn := &models.Connection{
		UserAID: alice.ID,
		UserBID: bob.ID,
		Status:  models.ConnectionStatusConfirmed,
	}
	require.NoError(t, NewConnectionRepository(db).Create(conn))
	return conn
}

func TestMeetingRepository_PlaceholderLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewMeetingRepository(db)
	conn := createConfirmedConnection(t, db)

	event := &models.MeetingEvent{ConnectionID: conn.ID, Location: "cafe"}
	require.NoError(t, repo.Create(event))

	placeholder, err := repo.FindPlaceholder(conn.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, placeholder.ID)
	assert.Nil(t, placeholder.MetAt)

	metAt := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Finalize(event.ID, metAt))

	// Finalize is one-shot.
	assert.ErrorIs(t, repo.Finalize(event.ID, metAt), ErrMeetingNotFound)

	_, err = repo.FindPlaceholder(conn.ID)
	assert.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestMeetingRepository_FindOnDay_UTCBounds(t *testing.T) {
	db := openTestDB(t)
	repo := NewMeetingRepository(db)
	conn := createConfirmedConnection(t, db)

	// Late on March 9th, UTC.
	metAt := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
	event := &models.MeetingEvent{ConnectionID: conn.ID, MetAt: &metAt}
	require.NoError(t, repo.Create(event))

	// Any instant of the same UTC date finds it.
	got, err := repo.FindOnDay(conn.ID, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, event.ID, got.ID)

	// One minute into March 10th does not.
	got, err = repo.FindOnDay(conn.ID, time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, got)

	// A non-UTC instant of the same absolute day is normalized first:
	// 20:00-05:00 is 01:00 UTC on March 10th.
	ny := time.FixedZone("UTC-5", -5*60*60)
	got, err = repo.FindOnDay(conn.ID, time.Date(2026, 3, 9, 20, 0, 0, 0, ny))
	require.NoError(t, err)
	assert.Nil(t, got)

	has, err := repo.HasMeetingOnDay(conn.ID, metAt)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMeetingRepository_Listing(t *testing.T) {
	db := openTestDB(t)
	repo := NewMeetingRepository(db)
	conn := createConfirmedConnection(t, db)

	older := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(&models.MeetingEvent{ConnectionID: conn.ID, MetAt: &older}))
	require.NoError(t, repo.Create(&models.MeetingEvent{ConnectionID: conn.ID, MetAt: &newer}))
	// Unfinalized placeholder must never appear in listings.
	require.NoError(t, repo.Create(&models.MeetingEvent{ConnectionID: conn.ID}))

	events, err := repo.ListByConnection(conn.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newer, events[0].MetAt.UTC())
	assert.Equal(t, older, events[1].MetAt.UTC())

	forA, err := repo.ListForUser(conn.UserAID)
	require.NoError(t, err)
	require.Len(t, forA, 2)
	require.NotNil(t, forA[0].Connection)
	assert.Equal(t, conn.ID, forA[0].Connection.ID)
	require.NotNil(t, forA[0].Connection.UserB)

	forB, err := repo.ListForUser(conn.UserBID)
	require.NoError(t, err)
	assert.Len(t, forB, 2)
}
