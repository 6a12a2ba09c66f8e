package playlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "/api/playback/2026-08-30/m3u8?stream_id=cam1"

func doc(content string) Document {
	return Document{Content: content, DeclaredStart: "00:00:00", SourceID: "cam1_0.m3u8"}
}

func TestParseDocument_TimestampedChunks(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		"#EXTINF:10.0,",
		"cam1_20260830_060000.ts",
		"#EXTINF:10.0,",
		"cam1_20260830_060010.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, live := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 2)
	assert.False(t, live)

	assert.Equal(t, "cam1_20260830_060000.ts", chunks[0].Name)
	assert.Equal(t, testURL, chunks[0].URL)
	assert.InDelta(t, 6*3600, chunks[0].StartSec, 1e-9)
	assert.InDelta(t, 6*3600+10, chunks[0].EndSec, 1e-9)
	assert.InDelta(t, 10, chunks[0].Duration, 1e-9)
	assert.InDelta(t, 0, chunks[0].MediaOffset, 1e-9)
	assert.InDelta(t, 10, chunks[0].MediaEndOffset, 1e-9)

	assert.InDelta(t, 6*3600+10, chunks[1].StartSec, 1e-9)
	assert.InDelta(t, 10, chunks[1].MediaOffset, 1e-9)
	assert.InDelta(t, 20, chunks[1].MediaEndOffset, 1e-9)
}

func TestParseDocument_LiveWithoutEndList(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:4.0,",
		"cam1_20260830_120000.ts",
	}, "\n")

	chunks, live := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 1)
	assert.True(t, live)
}

func TestParseDocument_URIWithoutDurationSkipped(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"orphan_20260830_050000.ts",
		"#EXTINF:10.0,",
		"cam1_20260830_060000.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 1)
	assert.Equal(t, "cam1_20260830_060000.ts", chunks[0].Name)
}

func TestParseDocument_MalformedDurationDropsEntry(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:notanumber,",
		"cam1_20260830_060000.ts",
		"#EXTINF:8.0,",
		"cam1_20260830_060010.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 1)
	assert.Equal(t, "cam1_20260830_060010.ts", chunks[0].Name)
}

func TestParseDocument_FallbackOffsetForUndatedFilenames(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"chunk-one.ts",
		"#EXTINF:5.0,",
		"chunk-two.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	d := Document{Content: content, DeclaredStart: "01:00:00", SourceID: "cam1_0.m3u8"}
	chunks, _ := ParseDocument(d, testURL)

	require.Len(t, chunks, 2)
	// Seeded from the declared start, carried forward by durations.
	assert.InDelta(t, 3600, chunks[0].StartSec, 1e-9)
	assert.InDelta(t, 3610, chunks[1].StartSec, 1e-9)
	assert.InDelta(t, 3615, chunks[1].EndSec, 1e-9)
}

func TestParseDocument_TimestampAnchorsFallback(t *testing.T) {
	// A dated chunk re-anchors the running offset for undated successors.
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"cam1_20260830_020000.ts",
		"#EXTINF:10.0,",
		"undated.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 2)
	assert.InDelta(t, 2*3600, chunks[0].StartSec, 1e-9)
	assert.InDelta(t, 2*3600+10, chunks[1].StartSec, 1e-9)
}

func TestParseDocument_CrossMidnightShift(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"cam1_20260830_235950.ts",
		"#EXTINF:10.0,",
		"cam1_20260831_000000.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 2)
	assert.InDelta(t, 86390, chunks[0].StartSec, 1e-9)
	// Next-day chunk in the low time-of-day band lands past 24h.
	assert.InDelta(t, 86400, chunks[1].StartSec, 1e-9)
}

func TestParseDocument_NoShiftForSameDateMidnight(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"cam1_20260830_000000.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 1)
	assert.InDelta(t, 0, chunks[0].StartSec, 1e-9)
}

func TestParseDocument_SortedByStart(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"cam1_20260830_080000.ts",
		"#EXTINF:10.0,",
		"cam1_20260830_070000.ts",
		"#EXT-X-ENDLIST",
	}, "\n")

	chunks, _ := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 2)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i-1].StartSec, chunks[i].StartSec)
	}
	// Media offsets still reflect document order.
	assert.InDelta(t, 10, chunks[0].MediaOffset, 1e-9)
	assert.InDelta(t, 0, chunks[1].MediaOffset, 1e-9)
}

func TestParseDocument_Empty(t *testing.T) {
	chunks, live := ParseDocument(doc(""), testURL)
	assert.Empty(t, chunks)
	assert.False(t, live)
}

func TestParseDocument_CRLFLines(t *testing.T) {
	content := "#EXTM3U\r\n#EXTINF:10.0,\r\ncam1_20260830_060000.ts\r\n#EXT-X-ENDLIST\r\n"

	chunks, live := ParseDocument(doc(content), testURL)

	require.Len(t, chunks, 1)
	assert.False(t, live)
	assert.Equal(t, "cam1_20260830_060000.ts", chunks[0].Name)
}

func TestFirstTimestampedStart(t *testing.T) {
	content := strings.Join([]string{
		"#EXTM3U",
		"#EXTINF:10.0,",
		"undated.ts",
		"#EXTINF:10.0,",
		"cam1_20260830_093000.ts",
	}, "\n")

	sec, ok := FirstTimestampedStart(content)
	require.True(t, ok)
	assert.InDelta(t, 9*3600+30*60, sec, 1e-9)

	_, ok = FirstTimestampedStart("#EXTM3U\nundated.ts\n")
	assert.False(t, ok)
}
