package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"

	"stickywith_backend/internal/models"
)

// confirmFriends runs the full propose/confirm handshake between two users.
func confirmFriends(t *testing.T, svc *ServiceContainer, a, b *models.User) {
	t.Helper()
	_, err := svc.MeetingService.RequestMeeting(a.ID, b.ID, "")
	require.NoError(t, err)
	_, err = svc.MeetingService.RequestMeeting(b.ID, a.ID, "")
	require.NoError(t, err)
}

// addMeeting inserts a finalized event directly, bypassing the daily cap, so
// tests can build arbitrary ledgers.
func addMeeting(t *testing.T, db *gorm.DB, connectionID string, metAt time.Time, location string) {
	t.Helper()
	event := &models.MeetingEvent{
		ConnectionID: connectionID,
		MetAt:        &metAt,
		Location:     location,
	}
	require.NoError(t, db.Create(event).Error)
}

func findConnectionID(t *testing.T, db *gorm.DB, a, b *models.User) string {
	t.Helper()
	var conn models.Connection
	require.NoError(t, db.First(&conn, "pair_key = ?", models.PairKey(a.ID, b.ID)).Error)
	return conn.ID
}

func TestBuildNetwork(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")
	dave := createTestUser(t, db, "dave")

	confirmFriends(t, svc, alice, bob)
	confirmFriends(t, svc, alice, carol)

	// Pending with Dave: not part of the graph.
	_, err := svc.MeetingService.RequestMeeting(alice.ID, dave.ID, "")
	require.NoError(t, err)

	// Two extra historical meetings with Bob.
	connAB := findConnectionID(t, db, alice, bob)
	now := time.Now().UTC()
	addMeeting(t, db, connAB, now.Add(-24*time.Hour), "")
	addMeeting(t, db, connAB, now.Add(-48*time.Hour), "")

	graph, err := svc.NetworkService.BuildNetwork(alice.ID)
	require.NoError(t, err)

	assert.Len(t, graph.Nodes, 3, "alice plus two confirmed friends")
	require.Len(t, graph.Edges, 2)

	byPeer := map[string]int{}
	for _, edge := range graph.Edges {
		peer := edge.From
		if peer == alice.ID {
			peer = edge.To
		}
		byPeer[peer] = edge.Value
	}
	assert.Equal(t, 3, byPeer[bob.ID], "confirmation meeting plus two historical ones")
	assert.Equal(t, 1, byPeer[carol.ID])
}

func TestBuildNetwork_Empty(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")

	graph, err := svc.NetworkService.BuildNetwork(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestComputeOverview(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	overview, err := svc.NetworkService.ComputeOverview(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, overview.TotalMeetings)
	assert.Equal(t, 0, overview.TotalFriends)
	assert.Equal(t, 0, overview.StreakDays)
	assert.Nil(t, overview.LastMeeting)

	confirmFriends(t, svc, alice, bob)

	overview, err = svc.NetworkService.ComputeOverview(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalMeetings)
	assert.Equal(t, 1, overview.TotalFriends)
	assert.Equal(t, 1, overview.StreakDays)
	require.NotNil(t, overview.LastMeeting)
}

func TestStreakDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name     string
		meetings []time.Time
		want     int
	}{
		{"empty ledger", nil, 0},
		{"single meeting today", []time.Time{day(0)}, 1},
		{"three consecutive days", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"gap breaks the streak", []time.Time{day(0), day(-2)}, 1},
		{"no meeting today anchors at most recent day", []time.Time{day(-1), day(-2)}, 2},
		{"stale ledger", []time.Time{day(-10)}, 1},
		{"multiple meetings one day count once", []time.Time{day(0), day(0).Add(2 * time.Hour), day(-1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakDays(tt.meetings, now))
		})
	}
}

func TestLocationStats(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	confirmFriends(t, svc, alice, bob)
	connAB := findConnectionID(t, db, alice, bob)

	now := time.Now().UTC()
	addMeeting(t, db, connAB, now.Add(-24*time.Hour), "park")
	addMeeting(t, db, connAB, now.Add(-48*time.Hour), "park")

	stats, err := svc.NetworkService.LocationStats(alice.ID)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "park", stats[0].Location)
	assert.Equal(t, 2, stats[0].Count)
	// The confirmation meeting had no location.
	assert.Equal(t, "unrecorded", stats[1].Location)
	assert.Equal(t, 1, stats[1].Count)
}

func TestTimeStats(t *testing.T) {
	db := openTestDB(t)
	svc := NewServiceContainer(db, nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	confirmFriends(t, svc, alice, bob)
	connAB := findConnectionID(t, db, alice, bob)

	// Pin the confirmation meeting to a known hour.
	evening := time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.MeetingEvent{}).
		Where("met_at IS NOT NULL").
		Update("met_at", evening).Error)

	at := time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)
	addMeeting(t, db, connAB, at, "")
	addMeeting(t, db, connAB, at.AddDate(0, 0, -1), "")

	stats, err := svc.NetworkService.TimeStats(alice.ID)
	require.NoError(t, err)
	require.Len(t, stats, 24, "every hour bucket is present even when empty")
	assert.Equal(t, 2, stats[9].Count)
	assert.Equal(t, 1, stats[18].Count)

	total := 0
	for _, s := range stats {
		assert.Equal(t, stats[s.Hour].Hour, s.Hour)
		total += s.Count
	}
	assert.Equal(t, 3, total, "two inserted meetings plus the confirmation one")
}
