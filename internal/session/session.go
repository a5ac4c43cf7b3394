package session

import (
	"sync/atomic"
	"time"

	"github.com/drayac/Martin/internal/local"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one transient conversation entry. Turns live in process memory
// only and vanish with the session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session carries everything one browser session owns: identity flags, the
// active language, the transient turn buffer and the guest cleanup counter.
// It is never persisted.
type Session struct {
	ID              string
	AccountID       string
	Authenticated   bool
	Guest           bool
	GuestCorrelator string
	Language        local.Language
	Turns           []Turn
	LastSeen        time.Time

	busy         atomic.Bool
	cleanupTicks atomic.Int64
}

// TryAcquire takes the single-flight gate. While held, further submissions
// for this session are rejected instead of queued.
func (s *Session) TryAcquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *Session) Release() {
	s.busy.Store(false)
}

// CleanupTick counts requests for the periodic guest cleanup. Atomic
// because it runs in middleware, where requests may overlap.
func (s *Session) CleanupTick() int64 {
	return s.cleanupTicks.Add(1)
}

// ClearTurns drops the transient conversation.
func (s *Session) ClearTurns() {
	s.Turns = nil
}
