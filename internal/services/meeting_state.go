package services

import (
	"stickywith_backend/internal/models"
	"stickywith_backend/internal/services/dto"
)

// effect is one persistence or notification side effect a transition asks
// the service to apply. Keeping effects as data separates the decision from
// its execution and makes the state machine testable on its own.
type effect int

const (
	// effectCreateConnection - insert a pending connection plus its
	// placeholder meeting event.
	effectCreateConnection effect = iota
	// effectConfirmConnection - flip pending to confirmed and stamp the
	// placeholder's met_at.
	effectConfirmConnection
	// effectAppendMeeting - record a repeat meeting for today.
	effectAppendMeeting
	// effectNotifyRequest - meeting_request notification to the target.
	effectNotifyRequest
	// effectNotifyConfirmed - meeting_confirmed notification to the
	// original proposer.
	effectNotifyConfirmed
)

type transition struct {
	Outcome dto.MeetingOutcome
	Effects []effect
}

// nextTransition decides the next legal action for callerID given the
// current connection state. conn is nil when no connection exists for the
// pair; metToday reports whether a finalized event already exists for the
// current UTC date and is only consulted on confirmed connections.
//
// The machine is NONE -> PENDING -> CONFIRMED. Confirmation is one-shot:
// once confirmed, repeat calls are self-transitions that at most append a
// meeting event, and only the first confirmation notifies anyone.
func nextTransition(conn *models.Connection, callerID string, metToday bool) transition {
	switch {
	case conn == nil:
		return transition{
			Outcome: dto.OutcomeRequested,
			Effects: []effect{effectCreateConnection, effectNotifyRequest},
		}

	case conn.Status == models.ConnectionStatusPending:
		if conn.UserBID == callerID {
			// The original recipient acting on a pending connection is the
			// confirmation.
			return transition{
				Outcome: dto.OutcomeConfirmed,
				Effects: []effect{effectConfirmConnection, effectNotifyConfirmed},
			}
		}
		// The proposer calling again is idempotent and side-effect free.
		return transition{Outcome: dto.OutcomeAwaiting}

	default: // confirmed
		if metToday {
			return transition{Outcome: dto.OutcomeAlreadyMetToday}
		}
		return transition{
			Outcome: dto.OutcomeRecorded,
			Effects: []effect{effectAppendMeeting},
		}
	}
}
