package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "seen.csv"), nil)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.True(t, s.IsNew("r1"))
}

func TestSaveMultiplePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.csv")
	s, err := New(path, nil)
	require.NoError(t, err)

	require.NoError(t, s.SaveMultiple([]Record{
		{ReminderID: "r1", GrievanceID: "TN-1", Department: "Energy Department", MessageID: "41"},
		{ReminderID: "r2", GrievanceID: "TN-2", Department: "Law Department"},
	}))
	assert.False(t, s.IsNew("r1"))

	reloaded, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())

	r, ok := reloaded.Get("r1")
	require.True(t, ok)
	assert.Equal(t, Record{ReminderID: "r1", GrievanceID: "TN-1", Department: "Energy Department", MessageID: "41"}, r)
}

func TestLoadToleratesHeaderAndShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.csv")
	require.NoError(t, os.WriteFile(path, []byte("reminder_id,grievance_id,department,message_id\nr1\nr2,TN-2\n,skipped\n"), 0o644))

	s, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	r, _ := s.Get("r2")
	assert.Equal(t, "TN-2", r.GrievanceID)
}

func TestRetainRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.csv")
	s, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveMultiple([]Record{{ReminderID: "a"}, {ReminderID: "b"}, {ReminderID: "c"}}))

	removed, err := s.Retain([]string{"c", "a", "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.True(t, s.IsNew("b"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,,,\nc,,,\n", string(data))

	removed, err = s.Retain([]string{"a", "c"})
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestConcurrentSaves(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "seen.csv"), nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SaveMultiple([]Record{{ReminderID: string(rune('a' + i))}}))
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, s.Len())
}
