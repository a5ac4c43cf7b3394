package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/account"
)

// Log reads and appends the persisted history of one identifier. Entries
// are append-only; nothing here ever edits or removes them.
type Log struct {
	store  account.Store
	logger *zap.Logger
}

func NewLog(store account.Store, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{store: store, logger: logger}
}

// Append records one exchange under id. An identifier that is no longer
// stored is a silent no-op: a guest pruned by another session's cleanup is
// the expected case, not an error. Store failures are logged and the
// conversation carries on.
func (l *Log) Append(ctx context.Context, id, prompt, response, model string) {
	accounts, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Warn("history load failed", zap.String("id", id), zap.Error(err))
		return
	}
	acc, ok := accounts[id]
	if !ok {
		return
	}
	acc.ChatHistory = append(acc.ChatHistory, account.HistoryEntry{
		Timestamp: time.Now(),
		Prompt:    prompt,
		Response:  response,
		Model:     model,
	})
	accounts[id] = acc
	if err := l.store.Save(ctx, accounts); err != nil {
		l.logger.Warn("history save failed", zap.String("id", id), zap.Error(err))
	}
}

// Recent returns the last limit entries for id in their original
// chronological order. Callers wanting newest-first reverse the slice.
func (l *Log) Recent(ctx context.Context, id string, limit int) []account.HistoryEntry {
	if limit <= 0 {
		limit = 5
	}
	accounts, err := l.store.Load(ctx)
	if err != nil {
		l.logger.Warn("history load failed", zap.String("id", id), zap.Error(err))
		return nil
	}
	acc, ok := accounts[id]
	if !ok {
		return nil
	}
	history := acc.ChatHistory
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]account.HistoryEntry(nil), history...)
}
