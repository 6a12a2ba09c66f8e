package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jthom21/moviola/internal/timeline/viewport"
)

func TestRender_ClassifiesSegmentsAgainstPlayhead(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(testTimeline())
	s.MediaReady()
	s.Seek(20)

	state := s.Render()

	require.Len(t, state.Segments, 5)

	assert.Equal(t, ClassPast, state.Segments[0].Class)
	assert.Equal(t, ClassGap, state.Segments[1].Class)
	assert.Equal(t, ClassCurrent, state.Segments[2].Class)
	assert.Equal(t, ClassGap, state.Segments[3].Class)
	assert.Equal(t, ClassFuture, state.Segments[4].Class)

	assert.InDelta(t, 0.5, state.Segments[2].PlayheadRatio, 1e-9)
	assert.InDelta(t, 0, state.Segments[0].PlayheadRatio, 1e-9)
}

func TestRender_SegmentGeometryAndTitles(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(testTimeline())

	state := s.Render()
	require.Len(t, state.Segments, 5)

	vp := s.Viewport()
	pps := vp.PixelsPerSecond()

	assert.Equal(t, "block", state.Segments[0].Kind)
	assert.Equal(t, "00:00:00 (10 sec)", state.Segments[0].Title)
	assert.InDelta(t, vp.TimeToPixel(0), state.Segments[0].LeftPx, 1e-9)
	assert.InDelta(t, 10*pps, state.Segments[0].WidthPx, 1e-9)

	assert.Equal(t, "gap", state.Segments[1].Kind)
	assert.Equal(t, "No Recording", state.Segments[1].Title)
	assert.InDelta(t, vp.TimeToPixel(10), state.Segments[1].LeftPx, 1e-9)
	assert.InDelta(t, 5*pps, state.Segments[1].WidthPx, 1e-9)
}

func TestRender_PlayheadFixedAtCenter(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(testTimeline())

	state := s.Render()

	assert.Equal(t, viewport.PlayheadFixed, state.PlayheadMode)
	assert.InDelta(t, 450, state.PlayheadXPx, 1e-9)
}

func TestRender_WideZoomPutsPlayheadOnCanvas(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(testTimeline())
	s.MediaReady()
	s.Seek(5)

	for s.Viewport().ZoomOut() {
	}

	state := s.Render()

	assert.Equal(t, viewport.PlayheadOnCanvas, state.PlayheadMode)
	assert.InDelta(t, s.Viewport().TimeToPixel(5), state.PlayheadXPx, 1e-9)
}

func TestRender_Labels(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(testTimeline())
	s.MediaReady()
	s.Seek(20)

	state := s.Render()

	assert.Equal(t, "00:00:20", state.CurrentTimeLabel)
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2} ~ \d{2}:\d{2}:\d{2}$`, state.VisibleRangeLabel)
	assert.Equal(t, "3 recording blocks found", state.Status)
	assert.NotEmpty(t, state.Ticks)
	assert.InDelta(t, s.Viewport().CanvasWidth(), state.CanvasWidthPx, 1e-9)
}

func TestRender_EmptyTimeline(t *testing.T) {
	s, _ := newTestSession(t)
	s.LoadTimeline(nil)

	state := s.Render()

	assert.Empty(t, state.Segments)
	assert.Equal(t, "no recordings for this date", state.Status)
}
