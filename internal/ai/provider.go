package ai

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// noAPIKey is the placeholder configured when no real credential exists.
// Providers refuse to put it on the wire.
const noAPIKey = "NOKEY"

// ErrNoCredential is returned instead of issuing a request that is
// guaranteed to be rejected.
var ErrNoCredential = errors.New("ai: no api credential configured")

type Message struct {
	Role    string
	Content string
}

// Provider is a unary chat completion backend. One request, one reply, no
// streaming, no retries.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
