package wardlib

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Status is the lifecycle state of a history entry.
type Status string

const (
	// StatusActive means the cookie was present in the live store at the
	// last sighting.
	StatusActive Status = "active"
	// StatusBlocked means the cookie was removed by enforcement and a
	// blocking permission stands. Blocked wins over removal observations.
	StatusBlocked Status = "blocked"
	// StatusRemoved means the cookie vanished from the live store without
	// a blocking permission.
	StatusRemoved Status = "removed"
)

// HistoryEntry is the durable record of one cookie identity. Entries are
// never deleted; status transitions record the cookie's lifecycle instead.
// Timestamps are unix milliseconds.
type HistoryEntry struct {
	Cookie      Cookie     `json:"cookie"`
	Categories  []Category `json:"categories,omitempty"`
	Score       int        `json:"risk_score"`
	Level       RiskLevel  `json:"risk_level"`
	FirstSeen   int64      `json:"first_seen"`
	LastSeen    int64      `json:"last_seen"`
	Status      Status     `json:"status"`
	BlockedAt   int64      `json:"blocked_at,omitempty"`
	RemovedAt   int64      `json:"removed_at,omitempty"`
	AutoBlocked bool       `json:"auto_blocked,omitempty"`
}

type entriesMap map[string]*HistoryEntry

// ledgerData is the gob-persisted shape of the ledger file. The explanation
// cache rides in the same local-scoped file as the entries it annotates.
type ledgerData struct {
	Entries      entriesMap
	Explanations map[string]string
}

// Ledger is the durable cookie history store: an in-memory map mirrored to
// disk on every mutation, so the view after a crash equals the view before.
type Ledger struct {
	data ledgerData
	f    *os.File
	mu   *sync.RWMutex
}

// OpenLedger opens (or creates) the history ledger at the configured
// location. A corrupt or empty file starts a fresh ledger.
func OpenLedger() (l *Ledger, err error) {
	l = &Ledger{
		data: ledgerData{
			Entries:      make(entriesMap),
			Explanations: make(map[string]string),
		},
		mu: new(sync.RWMutex),
	}
	l.f, err = os.OpenFile(
		__LOCALDATA_FILE_NAME,
		os.O_RDWR|os.O_CREATE,
		DefaultFileMode,
	)
	if err != nil {
		l = nil
		return
	}
	if decErr := gob.NewDecoder(l.f).Decode(&l.data); decErr != nil {
		if decErr != io.EOF {
			log.Printf("wardlib: warning: failed to decode localdata, starting fresh: %v", decErr)
		}
		l.data = ledgerData{
			Entries:      make(entriesMap),
			Explanations: make(map[string]string),
		}
	}
	if l.data.Entries == nil {
		l.data.Entries = make(entriesMap)
	}
	if l.data.Explanations == nil {
		l.data.Explanations = make(map[string]string)
	}
	return
}

// persist writes the ledger to disk buffer-first. Caller must hold mu.
func (l *Ledger) persist() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(l.data); err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if _, err := l.f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if _, err := l.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (l *Ledger) encode() {
	if err := l.persist(); err != nil {
		log.Printf("wardlib: warning: failed to persist localdata: %v", err)
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// RecordSighting upserts the entry for a live cookie observation. FirstSeen
// is set once, LastSeen on every call. A removed entry comes back to active;
// a blocked entry stays blocked (enforcement owns that transition). The
// operation is a keyed upsert, so replays and retries are harmless.
func (l *Ledger) RecordSighting(c *Cookie, categories []Category, score int, level RiskLevel) *HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := nowMillis()
	key := c.Key()
	e, ok := l.data.Entries[key]
	if !ok {
		e = &HistoryEntry{
			FirstSeen: now,
			Status:    StatusActive,
		}
		l.data.Entries[key] = e
	}
	e.Cookie = *c
	e.Categories = categories
	e.Score = score
	e.Level = level
	e.LastSeen = now
	if e.Status == StatusRemoved {
		e.Status = StatusActive
		e.RemovedAt = 0
	}
	l.encode()
	return e
}

// RecordRemoval marks an active entry as removed. Blocked entries keep
// their status (blocked wins over removal) and already-removed entries are
// untouched, which makes the operation idempotent.
func (l *Ledger) RecordRemoval(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.data.Entries[key]
	if !ok || e.Status != StatusActive {
		return
	}
	e.Status = StatusRemoved
	e.RemovedAt = nowMillis()
	l.encode()
}

// MarkBlocked records a successful enforcement removal. The auto flag
// distinguishes automatic high-risk blocking from a user decision.
func (l *Ledger) MarkBlocked(key string, auto bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.data.Entries[key]
	if !ok {
		return
	}
	e.Status = StatusBlocked
	e.BlockedAt = nowMillis()
	e.AutoBlocked = auto
	l.encode()
}

// MarkUnblocked returns a blocked entry to active. Called when a cookie is
// sighted live again after its blocking permission was lifted.
func (l *Ledger) MarkUnblocked(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.data.Entries[key]
	if !ok || e.Status != StatusBlocked {
		return
	}
	e.Status = StatusActive
	e.BlockedAt = 0
	e.AutoBlocked = false
	l.encode()
}

// Entry returns the history entry for a cookie identity key, or nil.
func (l *Ledger) Entry(key string) *HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.data.Entries[key]
}

// Entries returns all history entries.
func (l *Ledger) Entries() []*HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]*HistoryEntry, 0, len(l.data.Entries))
	for _, e := range l.data.Entries {
		entries = append(entries, e)
	}
	return entries
}

// EntriesForSite returns the history entries whose cookie domain is related
// to the given website hostname. An empty site is the whole-store scope and
// returns every entry.
func (l *Ledger) EntriesForSite(site string) []*HistoryEntry {
	if site == "" {
		return l.Entries()
	}
	var entries []*HistoryEntry
	for _, e := range l.Entries() {
		if RelatedDomains(e.Cookie.Domain, site) {
			entries = append(entries, e)
		}
	}
	return entries
}

// CacheExplanation stores an explanation text for a cookie identity key.
func (l *Ledger) CacheExplanation(key, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data.Explanations[key] = text
	l.encode()
}

// CachedExplanation returns a previously cached explanation, if any.
func (l *Ledger) CachedExplanation(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	text, ok := l.data.Explanations[key]
	return text, ok
}

// Flush forces a write of the current state to disk.
func (l *Ledger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persist()
}

// Close persists pending state and closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.persist(); err != nil {
		return err
	}
	return l.f.Close()
}
