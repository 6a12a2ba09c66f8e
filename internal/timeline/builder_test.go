package timeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jthom21/moviola/internal/playlist"
)

func chunk(start, dur, mediaOffset float64) playlist.Chunk {
	return playlist.Chunk{
		URL:            "/playback/m3u8?stream_id=cam1",
		StartSec:       start,
		EndSec:         start + dur,
		Duration:       dur,
		MediaOffset:    mediaOffset,
		MediaEndOffset: mediaOffset + dur,
	}
}

func TestMergeChunks_ContiguousChunksFold(t *testing.T) {
	t0 := 6.0 * 3600
	chunks := []playlist.Chunk{
		chunk(t0, 10, 0),
		chunk(t0+10, 10, 10),
	}

	blocks := MergeChunks(chunks, false, "cam1_0.m3u8")

	require.Len(t, blocks, 1)
	assert.InDelta(t, t0, blocks[0].StartSec, 1e-9)
	assert.InDelta(t, t0+20, blocks[0].EndSec, 1e-9)
	assert.InDelta(t, 0, blocks[0].MediaOffset, 1e-9)
	assert.InDelta(t, 20, blocks[0].MediaEndOffset, 1e-9)
	assert.Equal(t, "06:00:00", blocks[0].StartTime)
	assert.False(t, blocks[0].Live)
}

func TestMergeChunks_SpacingWithinThresholdStillFolds(t *testing.T) {
	chunks := []playlist.Chunk{
		chunk(0, 10, 0),
		chunk(10.9, 10, 10),
	}

	blocks := MergeChunks(chunks, false, "cam1_0.m3u8")

	require.Len(t, blocks, 1)
	assert.InDelta(t, 20.9, blocks[0].EndSec, 1e-9)
}

func TestMergeChunks_SpacingPastThresholdSplits(t *testing.T) {
	chunks := []playlist.Chunk{
		chunk(0, 10, 0),
		chunk(15, 10, 10),
	}

	blocks := MergeChunks(chunks, true, "cam1_0.m3u8")

	require.Len(t, blocks, 2)
	assert.InDelta(t, 0, blocks[0].StartSec, 1e-9)
	assert.InDelta(t, 10, blocks[0].EndSec, 1e-9)
	assert.InDelta(t, 15, blocks[1].StartSec, 1e-9)
	assert.InDelta(t, 25, blocks[1].EndSec, 1e-9)
	// Media offsets of a later block keep their document-cumulative value.
	assert.InDelta(t, 10, blocks[1].MediaOffset, 1e-9)
	assert.True(t, blocks[0].Live)
	assert.True(t, blocks[1].Live)
}

func TestMergeChunks_Empty(t *testing.T) {
	assert.Nil(t, MergeChunks(nil, false, "cam1_0.m3u8"))
}

func TestAssemble_InterposesGaps(t *testing.T) {
	tl := Assemble([]Block{
		{StartSec: 0, EndSec: 10},
		{StartSec: 15, EndSec: 25},
	})

	require.Len(t, tl, 3)

	b, ok := tl[0].(Block)
	require.True(t, ok)
	assert.InDelta(t, 0, b.StartSec, 1e-9)

	g, ok := tl[1].(Gap)
	require.True(t, ok)
	assert.InDelta(t, 10, g.StartSec, 1e-9)
	assert.InDelta(t, 15, g.EndSec, 1e-9)

	b, ok = tl[2].(Block)
	require.True(t, ok)
	assert.InDelta(t, 15, b.StartSec, 1e-9)

	assert.Equal(t, 2, tl.Blocks())
}

func TestAssemble_NoLeadingOrTrailingGap(t *testing.T) {
	tl := Assemble([]Block{{StartSec: 100, EndSec: 200}})

	require.Len(t, tl, 1)
	_, ok := tl[0].(Block)
	assert.True(t, ok)
}

func TestAssemble_AdjacentBlocksGetNoGap(t *testing.T) {
	tl := Assemble([]Block{
		{StartSec: 0, EndSec: 10},
		{StartSec: 10.5, EndSec: 20},
	})

	require.Len(t, tl, 2)
	assert.Equal(t, 2, tl.Blocks())
}

func TestAssemble_Coverage(t *testing.T) {
	// Segments tile the observed range with no overlap and no holes.
	tl := Assemble([]Block{
		{StartSec: 5, EndSec: 10},
		{StartSec: 30, EndSec: 40},
		{StartSec: 60, EndSec: 70},
	})

	require.NotEmpty(t, tl)
	for i := 1; i < len(tl); i++ {
		assert.InDelta(t, tl[i-1].End(), tl[i].Start(), GapThresholdSeconds)
	}
	assert.InDelta(t, 5, tl[0].Start(), 1e-9)
	assert.InDelta(t, 70, tl[len(tl)-1].End(), 1e-9)
}

func TestAssemble_EqualStartsOrderDeterministically(t *testing.T) {
	tl := Assemble([]Block{
		{StartSec: 0, EndSec: 10, Live: true, Source: "cam1_1.m3u8"},
		{StartSec: 0, EndSec: 12, Live: false, Source: "cam1_2.m3u8"},
	})

	require.GreaterOrEqual(t, len(tl), 2)
	first, ok := tl[0].(Block)
	require.True(t, ok)
	assert.False(t, first.Live)
	assert.Equal(t, "cam1_2.m3u8", first.Source)
}

func TestAssemble_EqualStartsSameLivenessUseSourceOrder(t *testing.T) {
	tl := Assemble([]Block{
		{StartSec: 0, EndSec: 10, Source: "cam1_2.m3u8"},
		{StartSec: 0, EndSec: 10, Source: "cam1_1.m3u8"},
	})

	first, ok := tl[0].(Block)
	require.True(t, ok)
	assert.Equal(t, "cam1_1.m3u8", first.Source)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	blocks := []Block{
		{StartSec: 50, EndSec: 60},
		{StartSec: 0, EndSec: 10},
	}

	Assemble(blocks)

	assert.InDelta(t, 50, blocks[0].StartSec, 1e-9)
	assert.InDelta(t, 0, blocks[1].StartSec, 1e-9)
}

func TestAssemble_Empty(t *testing.T) {
	assert.Nil(t, Assemble(nil))
}

func TestTimelineMarshalJSON_KindDiscriminator(t *testing.T) {
	tl := Timeline{
		Block{URL: "u", StartSec: 0, EndSec: 10, StartTime: "00:00:00"},
		Gap{StartSec: 10, EndSec: 15},
	}

	data, err := json.Marshal(tl)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "block", decoded[0]["kind"])
	assert.Equal(t, "u", decoded[0]["url"])
	assert.InDelta(t, 10.0, decoded[0]["duration"].(float64), 1e-9)

	assert.Equal(t, "gap", decoded[1]["kind"])
	assert.InDelta(t, 10.0, decoded[1]["start_sec"].(float64), 1e-9)
	assert.InDelta(t, 5.0, decoded[1]["duration"].(float64), 1e-9)
}

func BenchmarkAssemble(b *testing.B) {
	blocks := make([]Block, 0, 500)
	for i := 0; i < 500; i++ {
		start := float64(i * 120)
		blocks = append(blocks, Block{StartSec: start, EndSec: start + 60})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Assemble(blocks)
	}
}
