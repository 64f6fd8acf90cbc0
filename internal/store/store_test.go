package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := openTestStore(t)
	id := uuid.New().String()

	require.NoError(t, s.StartRun(id, "/docs/notes.pdf", ".pdf", "RESOURCES"))
	require.NoError(t, s.UpdateStage(id, "GENERATE"))
	require.NoError(t, s.RecordAttempt(id, 1, false, "exit status 1"))
	require.NoError(t, s.RecordAttempt(id, 2, true, ""))
	require.NoError(t, s.FinishRun(id, "SUCCEEDED", "OUTPUT", "", 1500*time.Millisecond))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, id, runs[0].ID)
	require.Equal(t, "SUCCEEDED", runs[0].Status)
	require.Equal(t, "OUTPUT", runs[0].Stage)
	require.Equal(t, int64(1500), runs[0].DurationMS)
	require.NotNil(t, runs[0].FinishedAt)

	attempts, err := s.AttemptsForRun(id)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	require.False(t, attempts[0].OK)
	require.Equal(t, "exit status 1", attempts[0].Error)
	require.True(t, attempts[1].OK)
}

func TestFailedRunKeepsError(t *testing.T) {
	s := openTestStore(t)
	id := uuid.New().String()

	require.NoError(t, s.StartRun(id, "/docs/deck.pptx", ".pptx", "RESOURCES"))
	require.NoError(t, s.FinishRun(id, "FAILED", "TEXT", "TEXT_TOO_SHORT: extracted text is 80 bytes; minimum is 100 bytes", 40*time.Millisecond))

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "FAILED", runs[0].Status)
	require.Contains(t, runs[0].Error, "80 bytes")
}

func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	require.NoError(t, s.StartRun("x", "a", ".pdf", "RESOURCES"))
	require.NoError(t, s.UpdateStage("x", "INPUT"))
	require.NoError(t, s.RecordAttempt("x", 1, true, ""))
	require.NoError(t, s.FinishRun("x", "SUCCEEDED", "OUTPUT", "", 0))
	require.NoError(t, s.Close())

	runs, err := s.RecentRuns(5)
	require.NoError(t, err)
	require.Nil(t, runs)
}
