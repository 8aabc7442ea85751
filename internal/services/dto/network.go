package dto

import (
	"time"

	"stickywith_backend/internal/models"
)

// NetworkNode is one user in the meeting graph. Each user appears exactly
// once no matter how many connections reach them.
type NetworkNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Image string `json:"image"`
}

// NetworkEdge is one confirmed connection. Value is the number of finalized
// meetings on it (never zero: confirmation creates the first one); Meetings
// carries them newest first for the edge-detail view.
type NetworkEdge struct {
	From     string                `json:"from"`
	To       string                `json:"to"`
	Value    int                   `json:"value"`
	Meetings []models.MeetingEvent `json:"meetings"`
}

type NetworkGraph struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

type StatsOverview struct {
	TotalMeetings int        `json:"total_meetings"`
	TotalFriends  int        `json:"total_friends"`
	StreakDays    int        `json:"streak_days"`
	LastMeeting   *time.Time `json:"last_meeting"`
}

type LocationStat struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// TimeStat is one hour-of-day bucket; the full distribution always has 24
// entries, hours 0-23.
type TimeStat struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}
