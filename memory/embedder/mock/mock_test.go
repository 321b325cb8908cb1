package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/substratehq/substrate/memory/embedder/mock"
)

func TestDeterministic(t *testing.T) {
	ctx := context.Background()
	e := mock.New()

	a, err := e.Embed(ctx, "the same text")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "the same text")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := e.Embed(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestUnitVector(t *testing.T) {
	e := mock.New()

	emb, err := e.Embed(context.Background(), "normalize me")
	require.NoError(t, err)
	require.Len(t, emb, e.Dimensions())

	var norm float64
	for _, v := range emb {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}
