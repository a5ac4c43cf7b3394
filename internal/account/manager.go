package account

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/drayac/Martin/internal/auth"
	"github.com/drayac/Martin/internal/session"
)

type AuthResult int

const (
	AuthOK AuthResult = iota
	AuthInvalidPassword
	AuthNotFound
)

type RegisterResult int

const (
	RegisterOK RegisterResult = iota
	RegisterExists
)

// Manager owns the identity lifecycle: authentication, registration, guest
// creation and the periodic guest cleanup.
type Manager struct {
	store           Store
	log             *zap.Logger
	cleanupInterval int
}

func NewManager(store Store, log *zap.Logger, cleanupInterval int) *Manager {
	if cleanupInterval <= 0 {
		cleanupInterval = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, log: log, cleanupInterval: cleanupInterval}
}

// load degrades store failures to an empty table; auth answers from
// whatever data is readable.
func (m *Manager) load(ctx context.Context) Accounts {
	accounts, err := m.store.Load(ctx)
	if err != nil {
		m.log.Warn("account load failed", zap.Error(err))
		return Accounts{}
	}
	if accounts == nil {
		accounts = Accounts{}
	}
	return accounts
}

// Authenticate compares the digest of the supplied secret with the stored
// one. Plaintext never reaches the store.
func (m *Manager) Authenticate(ctx context.Context, id, secret string) AuthResult {
	accounts := m.load(ctx)
	acc, ok := accounts[id]
	if !ok {
		return AuthNotFound
	}
	if acc.PasswordHash != auth.HashSecret(secret) {
		return AuthInvalidPassword
	}
	return AuthOK
}

// Register creates a record for id. It refuses only when the identifier is
// already taken and the request is for a member: guest identifiers may
// always be rewritten.
func (m *Manager) Register(ctx context.Context, id, secret string, guest bool, guestTag string) (RegisterResult, error) {
	accounts := m.load(ctx)
	if _, ok := accounts[id]; ok && !guest {
		return RegisterExists, nil
	}

	digest := ""
	if secret != "" {
		digest = auth.HashSecret(secret)
	}
	tag := ""
	if guest {
		tag = guestTag
	}
	accounts[id] = Account{
		PasswordHash:   digest,
		CreatedAt:      time.Now(),
		ChatHistory:    []HistoryEntry{},
		IsGuest:        guest,
		GuestSessionID: tag,
	}
	if err := m.store.Save(ctx, accounts); err != nil {
		return RegisterOK, err
	}
	return RegisterOK, nil
}

// CreateGuest mints a throwaway identity for the session, binds it to the
// session's correlator and switches the session onto it with a clean
// transient buffer.
func (m *Manager) CreateGuest(ctx context.Context, sess *session.Session) (string, error) {
	id, err := newGuestID()
	if err != nil {
		return "", err
	}
	if sess.GuestCorrelator == "" {
		correlator, err := newCorrelator()
		if err != nil {
			return "", err
		}
		sess.GuestCorrelator = correlator
	}
	if _, err := m.Register(ctx, id, "", true, sess.GuestCorrelator); err != nil {
		return "", err
	}
	sess.AccountID = id
	sess.Authenticated = true
	sess.Guest = true
	sess.ClearTurns()
	return id, nil
}

// CleanupGuests runs on every request but prunes only on every Nth call
// per session. Pruning keeps all members plus the guest belonging to the
// calling session, and writes back only when something was dropped.
func (m *Manager) CleanupGuests(ctx context.Context, sess *session.Session) {
	if sess.CleanupTick()%int64(m.cleanupInterval) != 0 {
		return
	}

	accounts := m.load(ctx)
	kept := make(Accounts, len(accounts))
	for id, acc := range accounts {
		if !acc.IsGuest {
			kept[id] = acc
		} else if acc.GuestSessionID == sess.GuestCorrelator {
			kept[id] = acc
		}
	}
	if len(kept) == len(accounts) {
		return
	}
	if err := m.store.Save(ctx, kept); err != nil {
		m.log.Warn("guest cleanup save failed", zap.Error(err))
		return
	}
	m.log.Debug("guest cleanup pruned",
		zap.Int("removed", len(accounts)-len(kept)),
		zap.Int("kept", len(kept)))
}

const (
	guestIDAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	correlatorAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

func randomFrom(alphabet string, length int) (string, error) {
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// newGuestID returns a human-readable throwaway identifier. Distinct with
// overwhelming probability, not guaranteed unique: a collision is a last
// write wins overwrite.
func newGuestID() (string, error) {
	suffix, err := randomFrom(guestIDAlphabet, 8)
	if err != nil {
		return "", err
	}
	return "Guest_" + suffix, nil
}

func newCorrelator() (string, error) {
	return randomFrom(correlatorAlphabet, 16)
}
