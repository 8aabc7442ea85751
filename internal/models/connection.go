package models

import "time"

type ConnectionStatus string

const (
	ConnectionStatusPending   ConnectionStatus = "pending"
	ConnectionStatusConfirmed ConnectionStatus = "confirmed"
)

// Connection is the relationship between exactly two users. UserA is always
// the original proposer, UserB the recipient; PairKey canonicalizes the pair
// so a single unique index covers lookups from either side.
type Connection struct {
	BaseModel
	UserAID string           `gorm:"type:uuid;not null;index" json:"user_a_id"`
	UserBID string           `gorm:"type:uuid;not null;index" json:"user_b_id"`
	PairKey string           `gorm:"uniqueIndex;not null" json:"-"`
	Status  ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	UserA    *User          `gorm:"foreignKey:UserAID" json:"user_a,omitempty"`
	UserB    *User          `gorm:"foreignKey:UserBID" json:"user_b,omitempty"`
	Meetings []MeetingEvent `gorm:"foreignKey:ConnectionID" json:"meetings,omitempty"`
}

// PairKey builds the canonical lookup key for an unordered user pair:
// the lexicographically smaller UUID first.
func PairKey(userID, otherID string) string {
	if otherID < userID {
		userID, otherID = otherID, userID
	}
	return userID + ":" + otherID
}

// OtherUserID returns the counterparty of userID on this connection.
func (c *Connection) OtherUserID(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// MeetingEvent is one occurrence of the two users meeting. The placeholder
// row created at proposal time has a nil MetAt until the counterparty
// confirms; every other row is immutable once written.
type MeetingEvent struct {
	BaseModel
	ConnectionID string     `gorm:"type:uuid;not null;index" json:"connection_id"`
	MetAt        *time.Time `gorm:"index" json:"met_at"`
	Location     string     `json:"location"`

	Connection *Connection `gorm:"foreignKey:ConnectionID" json:"connection,omitempty"`
}
