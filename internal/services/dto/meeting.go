package dto

import (
	"stickywith_backend/internal/models"
)

// MeetingOutcome names the branch the state machine resolved a
// RequestMeeting call to.
type MeetingOutcome string

const (
	// OutcomeRequested - new connection created, awaiting the counterparty.
	OutcomeRequested MeetingOutcome = "request_sent"
	// OutcomeAwaiting - caller already proposed; call was a no-op.
	OutcomeAwaiting MeetingOutcome = "awaiting_confirmation"
	// OutcomeConfirmed - counterparty confirmed the first meeting.
	OutcomeConfirmed MeetingOutcome = "confirmed"
	// OutcomeRecorded - repeat meeting appended for today.
	OutcomeRecorded MeetingOutcome = "meeting_recorded"
	// OutcomeAlreadyMetToday - today's event already exists; call was a no-op.
	OutcomeAlreadyMetToday MeetingOutcome = "already_met_today"
)

type RequestMeetingRequest struct {
	Location string `json:"location" binding:"-" validate:"max=200"`
}

// MeetingResult is the response of a RequestMeeting call. Meeting is the
// event the call created, finalized or found (for already_met_today it is
// the existing event, so clients never create duplicates).
type MeetingResult struct {
	Outcome      MeetingOutcome          `json:"outcome"`
	ConnectionID string                  `json:"connection_id"`
	Status       models.ConnectionStatus `json:"status"`
	Meeting      *models.MeetingEvent    `json:"meeting,omitempty"`
}

// ConnectionState describes the caller's relationship with one other user,
// as needed by the profile page: current status, who still has to act, and
// today's meeting if one exists.
type ConnectionState struct {
	Status       string               `json:"status"` // "none", "pending", "confirmed"
	ConnectionID string               `json:"connection_id,omitempty"`
	ProposerID   string               `json:"proposer_id,omitempty"`
	AwaitingMe   bool                 `json:"awaiting_me"`
	TodayMeeting *models.MeetingEvent `json:"today_meeting,omitempty"`
}

// MeetingHistoryEntry is one row of a user's meeting history with the
// counterparty resolved.
type MeetingHistoryEntry struct {
	Meeting models.MeetingEvent `json:"meeting"`
	With    UserSummary         `json:"with"`
}
