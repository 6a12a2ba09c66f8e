package playback

import (
	"fmt"

	"github.com/jthom21/moviola/internal/timecode"
	"github.com/jthom21/moviola/internal/timeline"
	"github.com/jthom21/moviola/internal/timeline/viewport"
)

// SegmentClass classifies a segment relative to the playhead for rendering.
type SegmentClass string

const (
	ClassPast    SegmentClass = "past"
	ClassCurrent SegmentClass = "current"
	ClassFuture  SegmentClass = "future"
	ClassGap     SegmentClass = "gap"
)

// SegmentView is one segment's rendering geometry and classification.
type SegmentView struct {
	Index   int          `json:"index"`
	Kind    string       `json:"kind"`
	Class   SegmentClass `json:"class"`
	LeftPx  float64      `json:"left_px"`
	WidthPx float64      `json:"width_px"`
	Title   string       `json:"title"`

	// PlayheadRatio is the playhead's fractional position within the
	// current block; zero for every other segment.
	PlayheadRatio float64 `json:"playhead_ratio,omitempty"`
}

// RenderState is the complete derived rendering output for one frame. It is
// recomputed whole on every redraw and never patched incrementally.
type RenderState struct {
	CanvasWidthPx     float64               `json:"canvas_width_px"`
	OffsetPx          float64               `json:"offset_px"`
	PlayheadMode      viewport.PlayheadMode `json:"playhead_mode"`
	PlayheadXPx       float64               `json:"playhead_x_px"`
	Segments          []SegmentView         `json:"segments"`
	Ticks             []viewport.Tick       `json:"ticks"`
	CurrentTimeLabel  string                `json:"current_time_label"`
	VisibleRangeLabel string                `json:"visible_range_label"`
	Status            string                `json:"status"`
}

// Render derives the full rendering state for the session's current moment.
func (s *Session) Render() RenderState {
	offset := s.canvasOffset()
	visStart, visEnd := s.vp.VisibleRange(offset)

	state := RenderState{
		CanvasWidthPx:    s.vp.CanvasWidth(),
		OffsetPx:         offset,
		PlayheadMode:     s.vp.Mode(),
		PlayheadXPx:      s.playheadX(),
		Segments:         s.segmentViews(),
		Ticks:            s.vp.Ticks(timeline.MaxSegmentTime),
		CurrentTimeLabel: timecode.Format(clampTime(s.currentTimeSec)),
		VisibleRangeLabel: timecode.Format(visStart) +
			" ~ " + timecode.Format(visEnd),
		Status: s.status,
	}
	return state
}

// playheadX is the playhead's x position: on the canvas at wide zooms, at
// the viewport center otherwise.
func (s *Session) playheadX() float64 {
	if s.vp.Mode() == viewport.PlayheadOnCanvas {
		return s.vp.TimeToPixel(clampTime(s.currentTimeSec))
	}
	return s.vp.WidthPx / 2
}

// segmentViews projects and classifies every segment against the playhead.
func (s *Session) segmentViews() []SegmentView {
	views := make([]SegmentView, 0, len(s.segments))
	pps := s.vp.PixelsPerSecond()

	for i, seg := range s.segments {
		view := SegmentView{
			Index:   i,
			LeftPx:  s.vp.TimeToPixel(seg.Start()),
			WidthPx: seg.Duration() * pps,
		}

		switch block := seg.(type) {
		case timeline.Block:
			view.Kind = "block"
			view.Title = fmt.Sprintf("%s (%d sec)", block.StartTime, int(block.Duration()))
			switch {
			case block.EndSec <= s.currentTimeSec:
				view.Class = ClassPast
			case block.StartSec > s.currentTimeSec:
				view.Class = ClassFuture
			default:
				view.Class = ClassCurrent
				view.PlayheadRatio = (s.currentTimeSec - block.StartSec) / block.Duration()
			}
		case timeline.Gap:
			view.Kind = "gap"
			view.Class = ClassGap
			view.Title = "No Recording"
		}

		views = append(views, view)
	}
	return views
}

// clampTime restricts a playhead value to the timeline's bounds for display.
func clampTime(sec float64) float64 {
	if sec < 0 {
		return 0
	}
	if sec > timeline.MaxSegmentTime {
		return timeline.MaxSegmentTime
	}
	return sec
}
