// Package session keeps analysis results in memory so that a detection
// run and the remediations that follow it share one consistent view of
// what was found and where.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uxforge/veneer/internal/finding"
)

// maxKnownIDsInError caps how many known issue ids a lookup failure
// enumerates for diagnostics.
const maxKnownIDsInError = 10

// FileResult is the analysis outcome for one file under one model.
type FileResult struct {
	File     string                    `json:"file"`
	Model    string                    `json:"model"`
	Findings []finding.ValidatedFinding `json:"findings"`
	Metrics  finding.Metrics           `json:"metrics"`
}

// Session is one analysis run: results per model, keyed lazily as models
// report in.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`

	mu      sync.RWMutex
	results map[string][]FileResult

	// issueLocks serializes remediation per issue id.
	locksMu    sync.Mutex
	issueLocks map[string]*sync.Mutex
}

// AddResult stores one file's analysis outcome under its model.
func (s *Session) AddResult(r FileResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.Model] = append(s.results[r.Model], r)
}

// Results returns all stored file results for a model.
func (s *Session) Results(model string) []FileResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FileResult(nil), s.results[model]...)
}

// Models lists the models that have reported results, sorted.
func (s *Session) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.results))
	for m := range s.results {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// FindIssue locates a finding by issue id across every model and file.
// A miss enumerates the first few known ids, which turns the most common
// caller mistake (stale or mistyped id) into a self-explaining error.
func (s *Session) FindIssue(issueID string) (finding.ValidatedFinding, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var known []string
	for _, results := range s.results {
		for _, r := range results {
			for _, f := range r.Findings {
				if f.IssueID == issueID {
					return f, r.File, nil
				}
				known = append(known, f.IssueID)
			}
		}
	}

	sort.Strings(known)
	if len(known) > maxKnownIDsInError {
		known = known[:maxKnownIDsInError]
	}
	return finding.ValidatedFinding{}, "", fmt.Errorf(
		"issue %q not found in session %s (known ids: %s)",
		issueID, s.ID, strings.Join(known, ", "))
}

// IssueLock returns the mutex serializing remediation of one issue.
func (s *Session) IssueLock(issueID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	if s.issueLocks == nil {
		s.issueLocks = map[string]*sync.Mutex{}
	}
	l, ok := s.issueLocks[issueID]
	if !ok {
		l = &sync.Mutex{}
		s.issueLocks[issueID] = l
	}
	return l
}

// Store holds sessions by id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sessions: map[string]*Session{}}
}

// Create registers a new session with a fresh id.
func (st *Store) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		results:   map[string][]FileResult{},
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get retrieves a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return s, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
