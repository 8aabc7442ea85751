package services

import (
	"sort"
	"time"

	"stickywith_backend/internal/models"
	"stickywith_backend/internal/repositories"
	"stickywith_backend/internal/services/dto"
	"stickywith_backend/pkg/apperrors"
)

// NetworkService folds the meeting ledger into read-side projections: the
// node/edge graph and the overview/location/time statistics. Everything here
// tolerates an empty ledger and returns zeroed structures. Calendar math is
// UTC throughout.
type NetworkService interface {
	BuildNetwork(userID string) (*dto.NetworkGraph, error)
	ComputeOverview(userID string) (*dto.StatsOverview, error)
	LocationStats(userID string) ([]dto.LocationStat, error)
	TimeStats(userID string) ([]dto.TimeStat, error)
}

type networkServiceImpl struct {
	connRepo repositories.ConnectionRepository
}

func NewNetworkService(connRepo repositories.ConnectionRepository) NetworkService {
	return &networkServiceImpl{connRepo: connRepo}
}

func (s *networkServiceImpl) BuildNetwork(userID string) (*dto.NetworkGraph, error) {
	conns, err := s.connRepo.FindConfirmedForUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	graph := &dto.NetworkGraph{
		Nodes: []dto.NetworkNode{},
		Edges: []dto.NetworkEdge{},
	}
	seen := make(map[string]bool)

	addNode := func(u *models.User) {
		if u == nil || seen[u.ID] {
			return
		}
		seen[u.ID] = true
		graph.Nodes = append(graph.Nodes, dto.NetworkNode{
			ID:    u.ID,
			Label: u.Username,
			Image: avatarOrFallback(u),
		})
	}

	for i := range conns {
		conn := &conns[i]
		addNode(conn.UserA)
		addNode(conn.UserB)
		graph.Edges = append(graph.Edges, dto.NetworkEdge{
			From:     conn.UserAID,
			To:       conn.UserBID,
			Value:    len(conn.Meetings),
			Meetings: conn.Meetings,
		})
	}
	return graph, nil
}

func (s *networkServiceImpl) ComputeOverview(userID string) (*dto.StatsOverview, error) {
	conns, err := s.connRepo.FindConfirmedForUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	overview := &dto.StatsOverview{TotalFriends: len(conns)}
	var meetingDays []time.Time

	for i := range conns {
		for _, event := range conns[i].Meetings {
			if event.MetAt == nil {
				continue
			}
			overview.TotalMeetings++
			metAt := event.MetAt.UTC()
			if overview.LastMeeting == nil || metAt.After(*overview.LastMeeting) {
				last := metAt
				overview.LastMeeting = &last
			}
			meetingDays = append(meetingDays, metAt)
		}
	}

	overview.StreakDays = streakDays(meetingDays, time.Now().UTC())
	return overview, nil
}

// streakDays counts consecutive UTC calendar days with at least one meeting,
// walking backwards from today, or from the most recent meeting day if there
// was none today. A full-day gap breaks the streak.
func streakDays(meetings []time.Time, now time.Time) int {
	if len(meetings) == 0 {
		return 0
	}

	days := make(map[string]bool, len(meetings))
	var latest time.Time
	for _, t := range meetings {
		day := dateUTC(t)
		days[day.Format("2006-01-02")] = true
		if day.After(latest) {
			latest = day
		}
	}

	cursor := dateUTC(now)
	if !days[cursor.Format("2006-01-02")] {
		cursor = latest
	}

	streak := 0
	for days[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func dateUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *networkServiceImpl) LocationStats(userID string) ([]dto.LocationStat, error) {
	conns, err := s.connRepo.FindConfirmedForUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	counts := make(map[string]int)
	for i := range conns {
		for _, event := range conns[i].Meetings {
			location := event.Location
			if location == "" {
				location = "unrecorded"
			}
			counts[location]++
		}
	}

	stats := make([]dto.LocationStat, 0, len(counts))
	for location, count := range counts {
		stats = append(stats, dto.LocationStat{Location: location, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Location < stats[j].Location
	})
	return stats, nil
}

func (s *networkServiceImpl) TimeStats(userID string) ([]dto.TimeStat, error) {
	conns, err := s.connRepo.FindConfirmedForUser(userID)
	if err != nil {
		return nil, apperrors.PersistenceFailure(err)
	}

	var buckets [24]int
	for i := range conns {
		for _, event := range conns[i].Meetings {
			if event.MetAt != nil {
				buckets[event.MetAt.UTC().Hour()]++
			}
		}
	}

	stats := make([]dto.TimeStat, 24)
	for hour, count := range buckets {
		stats[hour] = dto.TimeStat{Hour: hour, Count: count}
	}
	return stats, nil
}
