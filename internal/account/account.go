package account

import "time"

// HistoryEntry is one persisted exchange, denormalized for direct display.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Model     string    `json:"model"`
}

// Account is the stored record for one identifier (email or guest tag).
// Guests carry an empty password digest and the correlator of the browser
// session that spawned them.
type Account struct {
	PasswordHash   string         `json:"password"`
	CreatedAt      time.Time      `json:"created_at"`
	ChatHistory    []HistoryEntry `json:"chat_history"`
	IsGuest        bool           `json:"is_guest"`
	GuestSessionID string         `json:"guest_session_id"`
}

// Accounts is the whole table keyed by identifier, the unit a Store loads
// and saves.
type Accounts map[string]Account

// Clone deep-copies the table so callers can mutate their snapshot freely.
func (a Accounts) Clone() Accounts {
	out := make(Accounts, len(a))
	for id, acc := range a {
		if acc.ChatHistory != nil {
			acc.ChatHistory = append([]HistoryEntry(nil), acc.ChatHistory...)
		}
		out[id] = acc
	}
	return out
}
