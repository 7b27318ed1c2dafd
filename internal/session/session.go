// Package session holds per-actor workflow state between messages.
//
// A Session belongs to exactly one actor. Stores hand out copies, so a
// caller mutating a session must Put it back for the change to persist.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/models"
)

// ErrNotFound is returned when an actor has no live session.
var ErrNotFound = errors.New("session not found")

// Session is the accumulated state of one in-progress flow.
type Session struct {
	Actor   models.ActorID    `json:"actor"`
	Flow    string            `json:"flow"`
	Step    int               `json:"step"`
	Fields  map[string]string `json:"fields"`
	Updated time.Time         `json:"updated"`
}

// New returns an empty session at the first step of flow.
func New(actor models.ActorID, flow string) *Session {
	return &Session{Actor: actor, Flow: flow, Fields: map[string]string{}}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Fields = maps.Clone(s.Fields)
	if c.Fields == nil {
		c.Fields = map[string]string{}
	}
	return &c
}

// Set stores a validated field value.
func (s *Session) Set(name, value string) {
	if s.Fields == nil {
		s.Fields = map[string]string{}
	}
	s.Fields[name] = value
}

// Has reports whether name has been collected.
func (s *Session) Has(name string) bool {
	_, ok := s.Fields[name]
	return ok
}

// String returns the raw value of name, or "" when absent.
func (s *Session) String(name string) string {
	return s.Fields[name]
}

// Int64 returns name parsed as an integer.
func (s *Session) Int64(name string) (int64, error) {
	raw, ok := s.Fields[name]
	if !ok {
		return 0, fmt.Errorf("field %q not collected", name)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", name, err)
	}
	return v, nil
}

// ActorID returns name as an actor identity.
func (s *Session) ActorID(name string) (models.ActorID, error) {
	v, err := s.Int64(name)
	return models.ActorID(v), err
}

// Decimal returns name parsed as an exact amount.
func (s *Session) Decimal(name string) (decimal.Decimal, error) {
	raw, ok := s.Fields[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("field %q not collected", name)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %q: %w", name, err)
	}
	return v, nil
}

// Store keeps at most one session per actor.
type Store interface {
	// Get returns a copy of the actor's session or ErrNotFound.
	Get(ctx context.Context, actor models.ActorID) (*Session, error)

	// Put replaces the actor's session and refreshes its expiry.
	Put(ctx context.Context, s *Session) error

	// Delete clears the actor's session. Deleting nothing is not an error.
	Delete(ctx context.Context, actor models.ActorID) error
}
