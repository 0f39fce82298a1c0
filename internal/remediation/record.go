package remediation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uxforge/veneer/internal/backup"
)

// Record is the durable account of one remediation attempt. Records are
// append-only: a rollback marks the record as a tombstone instead of
// removing it, so the history of what touched a file is never lost.
type Record struct {
	ID        string    `json:"remediation_id"`
	IssueID   string    `json:"issue_id"`
	SessionID string    `json:"session_id"`
	File      string    `json:"file"`
	State     State     `json:"state"`
	Quality   float64   `json:"quality_score"`
	Summary   string    `json:"summary,omitempty"`
	Diff      string    `json:"diff,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Backup is the snapshot taken before the file was written. Only set
	// on applied records.
	Backup backup.Handle `json:"backup,omitempty"`

	AppliedAt time.Time `json:"applied_at,omitzero"`

	// RolledBack tombstones an applied record.
	RolledBack   bool      `json:"rolled_back"`
	RolledBackAt time.Time `json:"rolled_back_at,omitzero"`
}

// live reports whether the record currently owns changes on disk.
func (r *Record) live() bool {
	return r.State == StateApplied && !r.RolledBack
}

func newRecord(sessionID, issueID, file string) *Record {
	return &Record{
		ID:        uuid.NewString(),
		IssueID:   issueID,
		SessionID: sessionID,
		File:      file,
		State:     StateDetected,
		CreatedAt: time.Now(),
	}
}

// Store holds remediation records grouped by issue id. The invariant it
// enforces: at most one live (applied, not rolled back) record per issue.
type Store struct {
	mu      sync.RWMutex
	records map[string][]*Record
}

// NewStore returns an empty record store.
func NewStore() *Store {
	return &Store{records: map[string][]*Record{}}
}

// Append adds a record to an issue's history. Only settled attempts
// enter the history; appending a live record while another live record
// exists for the same issue is refused.
func (s *Store) Append(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !r.live() && !r.State.Terminal() {
		return fmt.Errorf("record for issue %s is still in flight (%s)", r.IssueID, r.State)
	}
	if r.live() {
		for _, existing := range s.records[r.IssueID] {
			if existing.live() {
				return fmt.Errorf("issue %s already has an applied remediation (%s); roll it back first", r.IssueID, existing.ID)
			}
		}
	}
	s.records[r.IssueID] = append(s.records[r.IssueID], r)
	return nil
}

// Live returns the applied, not rolled back record for an issue, or nil.
func (s *Store) Live(issueID string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records[issueID] {
		if r.live() {
			return r
		}
	}
	return nil
}

// History returns the full record history for an issue, oldest first.
func (s *Store) History(issueID string) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Record(nil), s.records[issueID]...)
}

// All returns every record across issues, unordered.
func (s *Store) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, rs := range s.records {
		out = append(out, rs...)
	}
	return out
}

// tombstone marks an applied record as rolled back.
func (s *Store) tombstone(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := r.advance(StateRolledBack); err != nil {
		return err
	}
	r.RolledBack = true
	r.RolledBackAt = time.Now()
	return nil
}
