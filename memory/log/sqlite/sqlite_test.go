package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/substrate/core"
	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/memory/log/sqlite"
)

func openTestLog(t *testing.T) *sqlite.Log {
	t.Helper()
	l, err := sqlite.Open(filepath.Join(t.TempDir(), "substrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func turn(sessionID string, role core.Role, content string) memory.Turn {
	return memory.Turn{
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Role:      role,
		Content:   content,
	}
}

func TestAppendAndRecentOrdering(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	require.NoError(t, l.Append(ctx, turn("s1", core.RoleUser, "one")))
	require.NoError(t, l.Append(ctx, turn("s1", core.RoleAssistant, "two")))
	require.NoError(t, l.Append(ctx, turn("s1", core.RoleUser, "three")))

	turns, err := l.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "one", turns[0].Content)
	assert.Equal(t, "two", turns[1].Content)
	assert.Equal(t, "three", turns[2].Content)
}

func TestRecentLimitKeepsNewest(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	for _, content := range []string{"a", "b", "c", "d"} {
		require.NoError(t, l.Append(ctx, turn("s1", core.RoleUser, content)))
	}

	turns, err := l.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "c", turns[0].Content)
	assert.Equal(t, "d", turns[1].Content)
}

func TestRecentSessionScoping(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	require.NoError(t, l.Append(ctx, turn("s1", core.RoleUser, "mine")))
	require.NoError(t, l.Append(ctx, turn("s2", core.RoleUser, "theirs")))

	turns, err := l.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "mine", turns[0].Content)
	assert.Equal(t, "s1", turns[0].SessionID)
}

func TestRecentNewSessionIsEmpty(t *testing.T) {
	l := openTestLog(t)

	turns, err := l.Recent(context.Background(), "never-seen", 10)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestIdenticalTimestampsPreserveOrder(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	// Save writes the user/assistant pair with one shared timestamp; the
	// rowid keeps them ordered.
	now := time.Now().UTC()
	require.NoError(t, l.Append(ctx, memory.Turn{SessionID: "s1", Timestamp: now, Role: core.RoleUser, Content: "q"}))
	require.NoError(t, l.Append(ctx, memory.Turn{SessionID: "s1", Timestamp: now, Role: core.RoleAssistant, Content: "a"}))

	turns, err := l.Recent(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "substrate.db")

	l, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(ctx, turn("s1", core.RoleUser, "durable")))
	require.NoError(t, l.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	turns, err := reopened.Recent(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "durable", turns[0].Content)
}

func TestClosedLogRejectsOperations(t *testing.T) {
	ctx := context.Background()
	l, err := sqlite.Open(filepath.Join(t.TempDir(), "substrate.db"))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	assert.Error(t, l.Append(ctx, turn("s1", core.RoleUser, "late")))

	_, err = l.Recent(ctx, "s1", 10)
	assert.Error(t, err)
}
