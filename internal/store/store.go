// Package store holds processing-session state for the upload web layer.
// The pipeline itself is stateless; sessions exist so clients can poll a
// run's progress and fetch its report bundle afterwards. The store is an
// explicit interface injected into the web layer so deployments can swap
// the in-memory default for something durable.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStatus is the lifecycle state of one processing run.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// Session tracks one upload through the pipeline. Reports are kept with
// the session so downloads need no filesystem bookkeeping; expiry drops
// the whole session including its files.
type Session struct {
	ID        uuid.UUID
	Filename  string
	Status    SessionStatus
	Progress  int
	Message   string
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Reports maps report file name to rendered content, populated when
	// the run completes.
	Reports map[string][]byte
}

// NewSession creates a pending session for an uploaded file.
func NewSession(filename string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Filename:  filename,
		Status:    StatusPending,
		Message:   "Waiting to start...",
		CreatedAt: now,
		UpdatedAt: now,
		Reports:   map[string][]byte{},
	}
}

// Store is the session persistence contract.
type Store interface {
	Get(id uuid.UUID) (*Session, error)
	Put(session *Session) error
	Delete(id uuid.UUID) error
	// Expire removes sessions older than maxAge and returns how many were
	// dropped.
	Expire(maxAge time.Duration) int
}
