package view

import "time"

// Entry records that a post was counted for this visitor at At (unix seconds).
type Entry struct {
	PostID string `json:"p"`
	At     int64  `json:"t"`
}

// Ledger is one visitor's ordered list of counted views, oldest first.
type Ledger struct {
	Entries []Entry `json:"v"`
}

// Prune drops entries older than window relative to now.
func (l Ledger) Prune(now time.Time, window time.Duration) Ledger {
	cutoff := now.Add(-window).Unix()
	kept := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		if e.At > cutoff {
			kept = append(kept, e)
		}
	}
	return Ledger{Entries: kept}
}

func (l Ledger) Contains(postID string) bool {
	for _, e := range l.Entries {
		if e.PostID == postID {
			return true
		}
	}
	return false
}

// Append adds postID at now. When the ledger would exceed maxEntries the oldest entries go first.
func (l Ledger) Append(postID string, now time.Time, maxEntries int) Ledger {
	entries := append(append([]Entry(nil), l.Entries...), Entry{PostID: postID, At: now.Unix()})
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	return Ledger{Entries: entries}
}
