package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var ErrInvalidRole = goerr.New("invalid role")

type SessionID string

// NewSessionID generates a new unique SessionID
func NewSessionID() SessionID {
	return SessionID("sess-" + shortID())
}

type MessageID string

// NewMessageID generates a new unique MessageID
func NewMessageID() MessageID {
	return MessageID("msg-" + shortID())
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate checks if the role is valid
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant:
		return nil
	default:
		return goerr.Wrap(ErrInvalidRole, "unknown role", goerr.V("role", r))
	}
}

// Source describes where a reply came from
type Source string

const (
	SourceCache Source = "cache"
	SourceModel Source = "model"
)

// Turn is one message within a conversation session. Turns are append-only
// and totally ordered by CreatedAt within a session. Source and Escalate
// are set only on assistant turns.
type Turn struct {
	SessionID SessionID
	MessageID MessageID
	UserID    string
	Role      Role
	Text      string
	Source    Source
	Escalate  bool
	CreatedAt time.Time
}
