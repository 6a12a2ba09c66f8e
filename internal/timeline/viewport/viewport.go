// Package viewport maps timeline seconds onto viewport pixels under a
// discrete zoom level. All transforms are pure arithmetic over the viewport
// parameters; rendering state lives with the caller.
package viewport

import (
	"github.com/jthom21/moviola/internal/timecode"
	"github.com/jthom21/moviola/internal/timeline"
)

// PlayheadMode selects how the playhead is rendered at the current zoom.
type PlayheadMode int

const (
	// PlayheadFixed keeps the playhead pinned at the viewport center and
	// scrolls the canvas underneath it.
	PlayheadFixed PlayheadMode = iota

	// PlayheadOnCanvas draws the playhead on the scrolling canvas itself;
	// used at wide zooms where most of the day is on screen anyway.
	PlayheadOnCanvas
)

// wideViewSeconds is the zoom span at and beyond which the playhead moves
// onto the canvas.
const wideViewSeconds = 12 * 3600

// ZoomLevel is one of the fixed viewport time spans.
type ZoomLevel struct {
	Seconds float64
	Label   string
}

// Levels are the fixed zoom spans, coarsest first. Zooming in walks toward
// the end of the slice.
var Levels = []ZoomLevel{
	{Seconds: 24 * 3600, Label: "24h"},
	{Seconds: 12 * 3600, Label: "12h"},
	{Seconds: 8 * 3600, Label: "8h"},
	{Seconds: 4 * 3600, Label: "4h"},
	{Seconds: 2 * 3600, Label: "2h"},
	{Seconds: 3600, Label: "1h"},
	{Seconds: 1800, Label: "30m"},
	{Seconds: 900, Label: "15m"},
}

// DefaultZoomIndex is the 2-hour span every new timeline starts at.
const DefaultZoomIndex = 4

// Viewport holds the parameters of the pixel mapping: the viewport width and
// the active zoom level.
type Viewport struct {
	WidthPx   float64
	zoomIndex int
}

// New creates a viewport at the default zoom.
func New(widthPx float64) Viewport {
	return Viewport{WidthPx: widthPx, zoomIndex: DefaultZoomIndex}
}

// Zoom returns the active zoom level.
func (v Viewport) Zoom() ZoomLevel { return Levels[v.zoomIndex] }

// ZoomIndex returns the active zoom level's index into Levels.
func (v Viewport) ZoomIndex() int { return v.zoomIndex }

// ZoomIn narrows the visible span one step. Returns false at the finest
// level.
func (v *Viewport) ZoomIn() bool {
	if v.zoomIndex >= len(Levels)-1 {
		return false
	}
	v.zoomIndex++
	return true
}

// ZoomOut widens the visible span one step. Returns false at the coarsest
// level.
func (v *Viewport) ZoomOut() bool {
	if v.zoomIndex <= 0 {
		return false
	}
	v.zoomIndex--
	return true
}

// ResetZoom restores the default zoom level.
func (v *Viewport) ResetZoom() { v.zoomIndex = DefaultZoomIndex }

// PixelsPerSecond is the mapping density of the active zoom.
func (v Viewport) PixelsPerSecond() float64 {
	return v.WidthPx / v.Zoom().Seconds
}

// PaddingSeconds is half a viewport of padding added to both ends of the
// canvas so the playhead can sit centered over the extreme start and end of
// the recording range.
func (v Viewport) PaddingSeconds() float64 {
	return v.WidthPx / v.PixelsPerSecond() / 2
}

// CanvasWidth is the total canvas width in pixels, covering the timeline
// plus padding on both ends.
func (v Viewport) CanvasWidth() float64 {
	return (timeline.MaxSegmentTime + 2*v.PaddingSeconds()) * v.PixelsPerSecond()
}

// TimeToPixel projects a timeline second onto the canvas.
func (v Viewport) TimeToPixel(sec float64) float64 {
	return (sec + v.PaddingSeconds()) * v.PixelsPerSecond()
}

// PixelToTime inverts TimeToPixel.
func (v Viewport) PixelToTime(px float64) float64 {
	return px/v.PixelsPerSecond() - v.PaddingSeconds()
}

// Mode returns the playhead rendering mode for the active zoom.
func (v Viewport) Mode() PlayheadMode {
	if v.Zoom().Seconds >= wideViewSeconds {
		return PlayheadOnCanvas
	}
	return PlayheadFixed
}

// OffsetFor solves the canvas translate offset that places the given
// timeline second at the viewport's horizontal center, clamped to the
// scrollable range.
func (v Viewport) OffsetFor(currentSec float64) float64 {
	return v.ClampOffset(-(v.TimeToPixel(currentSec) - v.WidthPx/2))
}

// ClampOffset restricts a canvas offset to [-(canvas-viewport), 0].
func (v Viewport) ClampOffset(offset float64) float64 {
	minOffset := -(v.CanvasWidth() - v.WidthPx)
	if offset < minOffset {
		offset = minOffset
	}
	if offset > 0 {
		offset = 0
	}
	return offset
}

// CenterTime recovers the timeline second under the viewport center for a
// given canvas offset, clamped to the timeline's bounds.
func (v Viewport) CenterTime(offset float64) float64 {
	centerPx := -offset + v.WidthPx/2
	sec := v.PixelToTime(centerPx)
	if sec < 0 {
		sec = 0
	}
	if sec > timeline.MaxSegmentTime {
		sec = timeline.MaxSegmentTime
	}
	return sec
}

// VisibleRange returns the [start, end] timeline seconds on screen at the
// given canvas offset, clamped to the timeline's bounds.
func (v Viewport) VisibleRange(offset float64) (float64, float64) {
	center := v.CenterTime(offset)
	half := v.WidthPx / 2 / v.PixelsPerSecond()

	start := center - half
	if start < 0 {
		start = 0
	}
	end := center + half
	if end > timeline.MaxSegmentTime {
		end = timeline.MaxSegmentTime
	}
	return start, end
}

// Tick is one ruler mark. Major ticks carry an HH:MM:SS label.
type Tick struct {
	Sec   float64
	X     float64
	Major bool
	Label string
}

// Ticks generates ruler marks from 0 through maxSec at the zoom-dependent
// interval, using the same canvas projection as segments.
func (v Viewport) Ticks(maxSec float64) []Tick {
	tickInterval, majorInterval := v.tickIntervals()

	var ticks []Tick
	for sec := 0.0; sec <= maxSec; sec += tickInterval {
		major := int(sec)%majorInterval == 0
		tick := Tick{
			Sec:   sec,
			X:     v.TimeToPixel(sec),
			Major: major,
		}
		if major {
			tick.Label = timecode.Format(sec)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// tickIntervals picks the tick spacing for the active zoom: finer marks as
// the visible span narrows.
func (v Viewport) tickIntervals() (tick float64, major int) {
	zoom := v.Zoom().Seconds
	switch {
	case zoom >= 12*3600:
		return 3600, 7200
	case zoom >= 8*3600:
		return 1800, 3600
	case zoom >= 4*3600:
		return 900, 1800
	case zoom >= 2*3600:
		return 300, 900
	case zoom >= 3600:
		return 60, 600
	default:
		return 60, 300
	}
}
