package embedder

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()

	first, err := mock.Embed(ctx, "plan a week of posts for a coffee roastery")
	require.NoError(t, err)
	second, err := mock.Embed(ctx, "plan a week of posts for a coffee roastery")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same text yields the same embedding")
}

func TestMockEmbedder_DifferentTextsDiverge(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()

	a, err := mock.Embed(ctx, "fashion launch campaign")
	require.NoError(t, err)
	b, err := mock.Embed(ctx, "fitness studio opening")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()

	embedding, err := mock.Embed(ctx, "any text")
	require.NoError(t, err)

	var sum float64
	for _, v := range embedding {
		sum += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-9, "embeddings are unit length")
}

func TestMockEmbedder_DimensionsAndModel(t *testing.T) {
	mock := NewMockEmbedder()
	assert.Equal(t, 768, mock.Dimensions())
	assert.Equal(t, "mock-embedder", mock.Model())

	mock.SetDimensions(16)
	assert.Equal(t, 16, mock.Dimensions())

	embedding, err := mock.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, embedding, 16)
}

func TestMockEmbedder_EmbedBatch(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()
	mock.SetDimensions(8)

	texts := []string{"one", "two", "three"}
	embeddings, err := mock.EmbedBatch(ctx, texts)
	require.NoError(t, err)

	require.Len(t, embeddings, 3)
	single, err := mock.Embed(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, single, embeddings[1], "batch order matches input order")
}

func TestMockEmbedder_ScriptedErrors(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()

	mock.SetEmbedError(errors.New("embed down"))
	_, err := mock.Embed(ctx, "x")
	assert.EqualError(t, err, "embed down")

	mock.SetBatchError(errors.New("batch down"))
	_, err = mock.EmbedBatch(ctx, []string{"x"})
	assert.EqualError(t, err, "batch down")
}

func TestMockEmbedder_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	mock := NewMockEmbedder()

	_, _ = mock.Embed(ctx, "a")
	_, _ = mock.EmbedBatch(ctx, []string{"b"})
	mock.Health(ctx)

	calls := mock.GetCalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "Embed", calls[0].Method)
	assert.Equal(t, "EmbedBatch", calls[1].Method)
	assert.Equal(t, "Health", calls[2].Method)

	mock.Reset()
	assert.Zero(t, mock.CallCount())
}

func TestMockEmbedder_Health(t *testing.T) {
	mock := NewMockEmbedder()
	assert.True(t, mock.Health(context.Background()).IsHealthy())

	mock.SetHealthStatus(types.Unhealthy("scripted outage"))
	assert.False(t, mock.Health(context.Background()).IsHealthy())
}
