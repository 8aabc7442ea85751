package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stickywith_backend/internal/models"
	"stickywith_backend/internal/services/dto"
)

func TestNextTransition(t *testing.T) {
	alice := "aaaaaaaa-0000-0000-0000-000000000001"
	bob := "bbbbbbbb-0000-0000-0000-000000000002"

	pending := &models.Connection{UserAID: alice, UserBID: bob, Status: models.ConnectionStatusPending}
	confirmed := &models.Connection{UserAID: alice, UserBID: bob, Status: models.ConnectionStatusConfirmed}

	tests := []struct {
		name        string
		conn        *models.Connection
		callerID    string
		metToday    bool
		wantOutcome dto.MeetingOutcome
		wantEffects []effect
	}{
		{
			name:        "no connection creates a pending request",
			conn:        nil,
			callerID:    alice,
			wantOutcome: dto.OutcomeRequested,
			wantEffects: []effect{effectCreateConnection, effectNotifyRequest},
		},
		{
			name:        "recipient acting on pending confirms",
			conn:        pending,
			callerID:    bob,
			wantOutcome: dto.OutcomeConfirmed,
			wantEffects: []effect{effectConfirmConnection, effectNotifyConfirmed},
		},
		{
			name:        "proposer repeating on pending is a no-op",
			conn:        pending,
			callerID:    alice,
			wantOutcome: dto.OutcomeAwaiting,
			wantEffects: nil,
		},
		{
			name:        "confirmed without a meeting today records one",
			conn:        confirmed,
			callerID:    alice,
			wantOutcome: dto.OutcomeRecorded,
			wantEffects: []effect{effectAppendMeeting},
		},
		{
			name:        "confirmed recipient side also records",
			conn:        confirmed,
			callerID:    bob,
			wantOutcome: dto.OutcomeRecorded,
			wantEffects: []effect{effectAppendMeeting},
		},
		{
			name:        "already met today is a no-op",
			conn:        confirmed,
			callerID:    alice,
			metToday:    true,
			wantOutcome: dto.OutcomeAlreadyMetToday,
			wantEffects: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := nextTransition(tt.conn, tt.callerID, tt.metToday)
			assert.Equal(t, tt.wantOutcome, tr.Outcome)
			assert.Equal(t, tt.wantEffects, tr.Effects)
		})
	}
}
