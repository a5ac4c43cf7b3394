package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/ai"
	"github.com/drayac/Martin/internal/session"
)

var (
	ErrEmptyMessage      = errors.New("chat: empty message")
	ErrEmptyConversation = errors.New("chat: no conversation to wrap up")
)

// Service assembles provider requests from session state, applies the
// reply post-processing and persists exchanges through the Log.
type Service struct {
	registry *ai.Registry
	history  *Log
	logger   *zap.Logger
	model    string
}

func NewService(registry *ai.Registry, history *Log, logger *zap.Logger, model string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, history: history, logger: logger, model: model}
}

// SendMessage runs one exchange: the user text joins the transient buffer,
// the provider sees the system instruction plus every transient turn, and
// the stripped reply is buffered and persisted. On provider failure the
// user turn stays buffered so a retry resends the full context.
func (s *Service) SendMessage(ctx context.Context, sess *session.Session, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	provider, err := s.registry.Get(ctx, "", s.model)
	if err != nil {
		return "", err
	}

	// 1) buffer the user turn
	sess.Turns = append(sess.Turns, session.Turn{Role: session.RoleUser, Content: text})

	// 2) system instruction + full transient conversation
	msgs := make([]ai.Message, 0, len(sess.Turns)+1)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: systemPrompt.Text(sess.Language)})
	for _, t := range sess.Turns {
		msgs = append(msgs, ai.Message{Role: t.Role, Content: t.Content})
	}

	// 3) call the provider; the buffered user turn survives a failure
	reply, err := provider.Chat(ctx, msgs)
	if err != nil {
		s.logger.Warn("provider call failed", zap.Error(err))
		return "", err
	}

	// 4) reasoning blocks never reach the buffer, storage or the client
	reply = StripReasoning(reply)

	// 5) greet once, on the very first exchange of the session
	if len(sess.Turns) == 1 {
		reply = welcomeMessage.Text(sess.Language) + "\n\n" + reply
	}

	// 6) buffer the assistant turn
	sess.Turns = append(sess.Turns, session.Turn{Role: session.RoleAssistant, Content: reply})

	// 7) persist for the active identity (guests included)
	if sess.Authenticated && sess.AccountID != "" {
		s.history.Append(ctx, sess.AccountID, text, reply, s.model)
	}
	return reply, nil
}

// WrapUp closes the session: the transient turns are rendered into a
// labeled transcript, embedded in the wrap-up request and sent with no
// prior history. The stored prompt is the fixed literal, never the
// transcript.
func (s *Service) WrapUp(ctx context.Context, sess *session.Session) (string, error) {
	if len(sess.Turns) == 0 {
		return "", ErrEmptyConversation
	}

	provider, err := s.registry.Get(ctx, "", s.model)
	if err != nil {
		return "", err
	}

	// 1) transcript from the buffer as it stood before the wrap-up
	request := wrapUpRequest.Format(sess.Language, transcript(sess.Turns))

	// 2) the synthetic user turn marks the wrap-up in the buffer
	sess.Turns = append(sess.Turns, session.Turn{Role: session.RoleUser, Content: wrapUpStoredPrompt})

	// 3) wrap-up instruction + request only, no conversation history
	msgs := []ai.Message{
		{Role: ai.RoleSystem, Content: wrapUpSystem.Text(sess.Language)},
		{Role: ai.RoleUser, Content: request},
	}
	reply, err := provider.Chat(ctx, msgs)
	if err != nil {
		s.logger.Warn("wrap-up call failed", zap.Error(err))
		return "", err
	}

	// 4) same stripping as a regular exchange; no welcome injection here
	reply = StripReasoning(reply)
	sess.Turns = append(sess.Turns, session.Turn{Role: session.RoleAssistant, Content: reply})

	if sess.Authenticated && sess.AccountID != "" {
		s.history.Append(ctx, sess.AccountID, wrapUpStoredPrompt, reply, s.model)
	}
	return reply, nil
}
