package domain

import "time"

type SessionID string
type TurnID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ResponseLength is the user-selected reply budget for single-persona chat.
type ResponseLength string

const (
	LengthShort  ResponseLength = "short"
	LengthMedium ResponseLength = "medium"
	LengthLong   ResponseLength = "long"
)

// MaxTokens maps a length setting to its output-token budget.
// Unknown values fall back to the medium budget.
func (l ResponseLength) MaxTokens() int {
	switch l {
	case LengthShort:
		return 250
	case LengthLong:
		return 800
	default:
		return 500
	}
}

// ParseResponseLength normalizes a raw length setting, defaulting to medium.
func ParseResponseLength(s string) ResponseLength {
	switch s {
	case string(LengthShort), "brief":
		return LengthShort
	case string(LengthLong), "detailed":
		return LengthLong
	default:
		return LengthMedium
	}
}

// Turn is one message in a single-persona conversation. Immutable once created.
type Turn struct {
	ID        TurnID
	Role      Role
	Content   string
	CreatedAt time.Time
}
