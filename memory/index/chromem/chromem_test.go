package chromem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/memory/index/chromem"
)

func insight(id, doc, sessionID string) memory.Insight {
	return memory.Insight{
		ID:        id,
		Document:  doc,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}

func TestUpsertQueryCount(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.NewInMemory()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Upsert(ctx, insight("a", "doc about markets", "s1"), []float32{1, 0, 0}))
	require.NoError(t, idx.Upsert(ctx, insight("b", "doc about moats", "s2"), []float32{0, 1, 0}))
	assert.Equal(t, 2, idx.Count())

	// Query vector aligned with the first document.
	results, err := idx.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "doc about markets", results[0].Document)
	assert.Equal(t, "s1", results[0].SessionID)
}

func TestQueryClampsLimit(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.NewInMemory()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Upsert(ctx, insight("only", "single doc", "s1"), []float32{1, 0, 0}))

	results, err := idx.Query(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestQueryEmptyIndex(t *testing.T) {
	idx, err := chromem.NewInMemory()
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Query(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	idx, err := chromem.NewPersistent(dir)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, insight("durable", "cross-lifetime doc", "s1"), []float32{1, 0, 0}))
	require.NoError(t, idx.Close())

	reopened, err := chromem.NewPersistent(dir)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Count())

	results, err := reopened.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cross-lifetime doc", results[0].Document)
}

func TestClosedIndexRejectsOperations(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.NewInMemory()
	require.NoError(t, err)

	require.NoError(t, idx.Close())

	assert.ErrorIs(t, idx.Upsert(ctx, insight("x", "late", "s1"), []float32{1, 0, 0}), chromem.ErrClosed)

	_, err = idx.Query(ctx, []float32{1, 0, 0}, 1)
	assert.ErrorIs(t, err, chromem.ErrClosed)

	assert.Zero(t, idx.Count())
	assert.ErrorIs(t, idx.Close(), chromem.ErrClosed)
}
