// Package ledger tracks daily analysis usage for guests. Counts live in the
// client-local store and reset on calendar-date rollover; persistence is
// advisory, so any read or parse failure counts as "no usage yet".
package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealcheck/internal/localstore"
)

// DailyLimitGuest is the number of free analyses a guest gets per calendar
// day.
const DailyLimitGuest = 3

const usageKeyPrefix = "ketoCarnivoraUsage"

// GuestUsage is the persisted per-guest daily counter.
type GuestUsage struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Ledger reads and writes guest usage records.
type Ledger struct {
	store *localstore.Store
	now   func() time.Time
}

// New constructs a Ledger on top of the local store.
func New(store *localstore.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Remaining returns how many analyses the guest may still run today. A
// record from a previous day is reset to zero usage and rewritten.
func (l *Ledger) Remaining(guestID string) int {
	today := l.today()
	usage, ok := l.load(guestID)
	if !ok || usage.Date != today {
		l.save(guestID, GuestUsage{Count: 0, Date: today})
		return DailyLimitGuest
	}
	remaining := DailyLimitGuest - usage.Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Record increments today's usage count for the guest, creating the record
// if absent.
func (l *Ledger) Record(guestID string) {
	today := l.today()
	usage, ok := l.load(guestID)
	if !ok || usage.Date != today {
		usage = GuestUsage{Count: 0, Date: today}
	}
	usage.Count++
	l.save(guestID, usage)
}

func (l *Ledger) today() string {
	return l.now().UTC().Format("2006-01-02")
}

func (l *Ledger) load(guestID string) (GuestUsage, bool) {
	data, ok := l.store.Get(usageKey(guestID))
	if !ok {
		return GuestUsage{}, false
	}
	var usage GuestUsage
	if err := json.Unmarshal(data, &usage); err != nil {
		return GuestUsage{}, false
	}
	if usage.Count < 0 {
		return GuestUsage{}, false
	}
	return usage, true
}

func (l *Ledger) save(guestID string, usage GuestUsage) {
	data, err := json.Marshal(usage)
	if err != nil {
		return
	}
	// Best effort: a failed write just means the guest gets a fresh count
	// next time.
	_ = l.store.Put(usageKey(guestID), data)
}

func usageKey(guestID string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_':
			return r
		}
		return '_'
	}, strings.TrimSpace(guestID))
	if id == "" {
		id = "anonymous"
	}
	return fmt.Sprintf("%s/%s.json", usageKeyPrefix, id)
}
