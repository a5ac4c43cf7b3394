package account

import "context"

// Store persists the whole account table as one document. There is no
// record-level locking: concurrent savers race and the last write wins.
// Load is expected to fail soft where possible; callers still treat any
// returned error as "no data".
type Store interface {
	Load(ctx context.Context) (Accounts, error)
	Save(ctx context.Context, accounts Accounts) error
}
