package path

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/session"
)

// sessionDone plays a one-explanation level to the end.
func sessionDone(t *testing.T, tracker *progress.Tracker, levelID string) {
	t.Helper()
	lvl, ok := tracker.Catalog().Level(levelID)
	require.True(t, ok)
	sess, err := session.Start(&lvl, tracker)
	require.NoError(t, err)
	for sess.Status() != session.StatusFinished {
		_, err := sess.Check()
		require.NoError(t, err)
	}
}
