package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/veneer/internal/finding"
)

func validated(issueID string) finding.ValidatedFinding {
	return finding.ValidatedFinding{
		Finding: finding.Finding{IssueID: issueID, PrincipleID: "COLOR_001"},
	}
}

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore()

	s := st.Create()
	require.NotEmpty(t, s.ID)

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	st.Delete(s.ID)
	_, err = st.Get(s.ID)
	assert.Error(t, err)

	// Ids are unique across sessions.
	assert.NotEqual(t, s.ID, st.Create().ID)
}

func TestFindIssueAcrossModels(t *testing.T) {
	s := NewStore().Create()
	s.AddResult(FileResult{File: "a.css", Model: "gpt", Findings: []finding.ValidatedFinding{validated("issue-a")}})
	s.AddResult(FileResult{File: "b.css", Model: "claude", Findings: []finding.ValidatedFinding{validated("issue-b")}})

	f, file, err := s.FindIssue("issue-b")
	require.NoError(t, err)
	assert.Equal(t, "issue-b", f.IssueID)
	assert.Equal(t, "b.css", file)

	assert.ElementsMatch(t, []string{"claude", "gpt"}, s.Models())
}

func TestFindIssueMissEnumeratesKnownIDs(t *testing.T) {
	s := NewStore().Create()
	s.AddResult(FileResult{File: "a.css", Model: "gpt", Findings: []finding.ValidatedFinding{
		validated("issue-1"), validated("issue-2"),
	}})

	_, _, err := s.FindIssue("issue-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue-1")
	assert.Contains(t, err.Error(), "issue-2")
	assert.Contains(t, err.Error(), s.ID)
}

func TestIssueLockSerializesWriters(t *testing.T) {
	s := NewStore().Create()

	// Same id yields the same mutex, different ids do not.
	assert.Same(t, s.IssueLock("x"), s.IssueLock("x"))
	assert.NotSame(t, s.IssueLock("x"), s.IssueLock("y"))

	// Concurrent lock acquisition must not race on the lock table.
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := s.IssueLock("shared")
			l.Lock()
			counter++
			l.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, counter)
}

func TestAddResultConcurrent(t *testing.T) {
	s := NewStore().Create()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddResult(FileResult{File: "f.css", Model: "gpt"})
		}()
	}
	wg.Wait()
	assert.Len(t, s.Results("gpt"), 10)
}
