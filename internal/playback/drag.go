package playback

import (
	"math"

	"github.com/jthom21/moviola/internal/timeline"
)

// PointerDown begins a pointer session at the given viewport x coordinate.
// A press while another pointer session is active is ignored: drag state is
// exclusive and only pointer-up releases it.
func (s *Session) PointerDown(x float64) {
	if s.pointerDown {
		return
	}
	s.pointerDown = true
	s.dragStartX = x
	s.dragStartOffset = s.canvasOffset()
	s.hasMoved = false
	s.dragStartSegmentIndex = s.currentSegmentIndex
}

// PointerMove pans the canvas while the pointer is held. Movement past the
// promotion threshold turns the press into a drag: playback pauses, the
// canvas follows the pointer 1:1, and the timeline second under the viewport
// center is recomputed live. The player only follows while the center lies
// over recorded footage; over a gap the visual state keeps updating but no
// seek is issued.
func (s *Session) PointerMove(x float64) {
	if !s.pointerDown {
		return
	}

	delta := x - s.dragStartX

	if math.Abs(delta) > dragPromotionPx && !s.dragging {
		s.dragging = true
	}
	if !s.dragging {
		return
	}

	s.hasMoved = true
	s.player.Pause()

	s.dragOffset = s.vp.ClampOffset(s.dragStartOffset + delta)
	s.currentTimeSec = s.vp.CenterTime(s.dragOffset)

	if _, _, ok := s.blockContaining(s.currentTimeSec); ok {
		s.seekTo(s.currentTimeSec, true)
	}
}

// PointerUp ends the pointer session. A drag resolves the final center time
// through gap skip-forward and segment lookup. When the release point
// resolves nowhere, the playhead snaps to the drag-start block's nearer
// boundary rather than jumping to an unrelated block. A plain click plays the
// clicked segment from its start; clickedSegmentIndex is the segment element
// under the pointer, or -1.
func (s *Session) PointerUp(clickedSegmentIndex int) {
	if !s.pointerDown {
		return
	}

	if s.hasMoved && s.dragging {
		s.finishDrag()
	} else if clickedSegmentIndex >= 0 && clickedSegmentIndex < len(s.segments) {
		switch block := s.segments[clickedSegmentIndex].(type) {
		case timeline.Block:
			s.Seek(block.StartSec)
		case timeline.Gap:
		}
	}

	s.pointerDown = false
	s.dragging = false
	s.hasMoved = false
	s.dragStartSegmentIndex = -1

	if !s.failed {
		s.player.Play()
	}
}

// finishDrag resolves the drag's final center time to a playable position
// and restarts playback there.
func (s *Session) finishDrag() {
	targetIndex, _, found := s.blockContaining(s.currentTimeSec)

	if !found {
		if adjusted := s.skipForwardOverGap(s.currentTimeSec); adjusted != s.currentTimeSec {
			s.currentTimeSec = adjusted
			targetIndex, _, found = s.blockContaining(s.currentTimeSec)
		}
	}

	// Released over empty space: snap to the nearer boundary of the block
	// that was playing when the drag started.
	if !found && s.dragStartSegmentIndex >= 0 && s.dragStartSegmentIndex < len(s.segments) {
		if origin, isBlock := s.segments[s.dragStartSegmentIndex].(timeline.Block); isBlock {
			if s.currentTimeSec < origin.StartSec {
				s.currentTimeSec = origin.StartSec + boundarySnapSeconds
			} else if s.currentTimeSec > origin.EndSec {
				s.currentTimeSec = origin.EndSec - boundarySnapSeconds
			}
			targetIndex = s.dragStartSegmentIndex
			found = true
		}
	}

	if !found {
		return
	}

	block, isBlock := s.segments[targetIndex].(timeline.Block)
	if !isBlock {
		return
	}

	relative := block.MediaOffset + (s.currentTimeSec - block.StartSec)
	if relative < 0 {
		relative = 0
	}
	s.currentSegmentIndex = targetIndex

	if s.currentURL == block.URL {
		s.mediaSeek(relative)
	} else {
		s.loadSource(block, relative)
	}
}

// canvasOffset is the effective canvas offset: the drag pan while one is in
// progress, otherwise the playhead-derived offset.
func (s *Session) canvasOffset() float64 {
	if s.pointerDown && s.dragging {
		return s.dragOffset
	}
	return s.vp.OffsetFor(s.currentTimeSec)
}
