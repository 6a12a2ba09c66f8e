package playback

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/timeline"
	"github.com/jthom21/moviola/internal/timeline/viewport"
)

const (
	// dragPromotionPx is how far the pointer must travel before a press
	// becomes a drag instead of a click.
	dragPromotionPx = 5.0

	// boundarySnapSeconds is the inset used when a drag released over
	// empty space snaps back to the drag-start block's nearer boundary.
	boundarySnapSeconds = 0.5

	// endClampSeconds keeps a clamped seek target just inside a block's
	// end rather than exactly on it.
	endClampSeconds = 0.05
)

// Session owns all mutable playback state for one loaded timeline: the
// playhead, the active segment, the viewport, and the drag interaction. It
// is event-driven and single-threaded; callers must serialize calls the way
// a UI event loop does.
type Session struct {
	log    zerolog.Logger
	player Player

	segments timeline.Timeline
	vp       viewport.Viewport

	currentSegmentIndex int
	currentTimeSec      float64
	currentURL          string

	// dragOffset is the canvas offset while a drag is panning; outside a
	// drag the offset is always re-derived from the playhead.
	dragOffset            float64
	pointerDown           bool
	dragging              bool
	hasMoved              bool
	dragStartX            float64
	dragStartOffset       float64
	dragStartSegmentIndex int

	// awaitingReady gates the seek applied when a freshly loaded source
	// signals readiness; a newer seek issued meanwhile supersedes it.
	awaitingReady bool
	loadSeek      float64
	pendingSeek   float64

	status string
	failed bool
}

// NewSession creates a session driving the given player, with an empty
// timeline.
func NewSession(player Player, viewportWidthPx float64) *Session {
	return &Session{
		log:                 logger.For("playback"),
		player:              player,
		vp:                  viewport.New(viewportWidthPx),
		currentSegmentIndex: -1,
		status:              "waiting",
	}
}

// LoadTimeline replaces the session's timeline. All prior playback state is
// fully cleared before the new timeline is installed: the media source is
// torn down, segment state dropped, and the playhead reset, so no stale
// resolve or reconcile can act on mismatched indices. Playback then starts
// at the first playable block, if any.
func (s *Session) LoadTimeline(tl timeline.Timeline) {
	s.player.Unload()

	s.segments = nil
	s.currentSegmentIndex = -1
	s.currentTimeSec = 0
	s.currentURL = ""
	s.dragOffset = 0
	s.pointerDown = false
	s.dragging = false
	s.hasMoved = false
	s.dragStartSegmentIndex = -1
	s.awaitingReady = false
	s.failed = false
	s.vp.ResetZoom()

	s.segments = tl

	blocks := tl.Blocks()
	if blocks == 0 {
		s.status = "no recordings for this date"
		s.log.Info().Msg("Timeline loaded with no playable blocks")
		return
	}
	s.status = fmt.Sprintf("%d recording blocks found", blocks)

	first := s.nextPlayableIndex(-1)
	if first < 0 {
		return
	}
	block := s.segments[first].(timeline.Block)
	s.currentSegmentIndex = first
	s.currentTimeSec = block.StartSec
	s.loadSource(block, block.MediaOffset)

	s.log.Info().
		Int("segments", len(tl)).
		Int("blocks", blocks).
		Float64("start_sec", block.StartSec).
		Msg("Timeline loaded")
}

// Status returns the user-visible session status line.
func (s *Session) Status() string { return s.status }

// CurrentTime returns the playhead position in timeline seconds.
func (s *Session) CurrentTime() float64 { return s.currentTimeSec }

// CurrentSegmentIndex returns the active segment index, or -1.
func (s *Session) CurrentSegmentIndex() int { return s.currentSegmentIndex }

// Viewport exposes the session's coordinate model.
func (s *Session) Viewport() *viewport.Viewport { return &s.vp }

// Resolve maps a requested timeline time to a playable target: time inside a
// gap advances to the gap's end; time beyond the last block clamps just
// inside its end; time before the first block snaps to the first playable
// start. The returned ok is false only when the timeline has no playable
// blocks at all.
func (s *Session) Resolve(targetSec float64) (index int, block timeline.Block, adjusted float64, ok bool) {
	adjusted = s.skipForwardOverGap(targetSec)

	if index, block, ok = s.blockContaining(adjusted); ok {
		return index, block, adjusted, true
	}

	// Past the end of all footage: clamp just inside the last block whose
	// end precedes the target.
	for i := len(s.segments) - 1; i >= 0; i-- {
		candidate, isBlock := s.segments[i].(timeline.Block)
		if !isBlock {
			continue
		}
		if adjusted >= candidate.EndSec {
			adjusted = candidate.EndSec - endClampSeconds
			if adjusted < candidate.StartSec {
				adjusted = candidate.StartSec
			}
			return i, candidate, adjusted, true
		}
	}

	// Before all footage: snap to the first playable block's start.
	if first := s.nextPlayableIndex(-1); first >= 0 {
		block = s.segments[first].(timeline.Block)
		return first, block, block.StartSec, true
	}

	return -1, timeline.Block{}, adjusted, false
}

// Seek moves playback to the given timeline time, resolving gaps and
// unreachable targets to the nearest playable position. An unresolvable
// target (no playable blocks) leaves state untouched.
func (s *Session) Seek(targetSec float64) {
	s.seekTo(targetSec, false)
}

// seekTo implements Seek; duringDrag suppresses the playhead-driven offset
// recompute so the drag's own pan stays authoritative.
func (s *Session) seekTo(targetSec float64, duringDrag bool) {
	if len(s.segments) == 0 {
		return
	}

	index, block, adjusted, ok := s.Resolve(targetSec)
	if !ok {
		s.log.Warn().Float64("target_sec", targetSec).Msg("Seek with no playable blocks")
		return
	}

	s.currentSegmentIndex = index
	s.currentTimeSec = adjusted

	relative := block.MediaOffset + (adjusted - block.StartSec)
	if relative < 0 {
		relative = 0
	}

	if s.currentURL == block.URL {
		s.mediaSeek(relative)
	} else {
		s.loadSource(block, relative)
	}

	if !duringDrag {
		s.dragOffset = s.vp.OffsetFor(s.currentTimeSec)
	}
}

// Reconcile ingests a player time-update tick: the player's self-reported
// media time within the active source. When the reported time falls outside
// the active segment's media band, the same source may contain another
// segment abutting it (a gap split within one source); playback switches to
// the segment whose band contains the reported time.
func (s *Session) Reconcile(mediaTime float64) {
	if s.currentSegmentIndex < 0 || s.currentSegmentIndex >= len(s.segments) {
		return
	}
	block, isBlock := s.segments[s.currentSegmentIndex].(timeline.Block)
	if !isBlock {
		return
	}

	elapsed := mediaTime - block.MediaOffset

	if elapsed < -MediaTimeTolerance || elapsed > block.Duration()+MediaTimeTolerance {
		if index, match, ok := s.blockAtMediaPosition(block.URL, mediaTime); ok {
			s.currentSegmentIndex = index
			block = match
			elapsed = mediaTime - block.MediaOffset
		} else if elapsed < -MediaTimeTolerance {
			elapsed = 0
		}
	}

	if elapsed > block.Duration() {
		elapsed = block.Duration()
	}
	s.currentTimeSec = block.StartSec + elapsed
}

// MediaReady is the playback primitive's readiness signal after a Load. The
// latest requested position wins: a seek issued while the load was in
// flight supersedes the position the load was issued with.
func (s *Session) MediaReady() {
	if !s.awaitingReady {
		return
	}
	s.awaitingReady = false
	if s.pendingSeek != s.loadSeek {
		s.player.SeekTo(s.pendingSeek)
	}
	s.player.Play()
}

// Fail records a fatal playback-primitive error. Playback halts; there is no
// automatic retry.
func (s *Session) Fail(reason string) {
	s.failed = true
	s.status = "playback error: " + reason
	s.player.Pause()
	s.log.Error().Str("reason", reason).Msg("Playback failed")
}

// ZoomWheel applies a wheel delta to the zoom level: negative deltas zoom
// in, positive zoom out.
func (s *Session) ZoomWheel(delta float64) {
	if delta < 0 {
		s.vp.ZoomIn()
	} else {
		s.vp.ZoomOut()
	}
}

// ViewportResize updates the pixel width the coordinate model maps onto.
func (s *Session) ViewportResize(widthPx float64) {
	s.vp.WidthPx = widthPx
}

// loadSource tears down the current source and attaches the block's,
// seeking to the given media time once ready.
func (s *Session) loadSource(block timeline.Block, seekSec float64) {
	s.currentURL = block.URL
	s.awaitingReady = true
	s.loadSeek = seekSec
	s.pendingSeek = seekSec
	s.player.Load(block.URL, seekSec, block.Live)
}

// mediaSeek seeks within the already-attached source, deferring to the
// readiness gate while a load is still in flight.
func (s *Session) mediaSeek(sec float64) {
	if s.awaitingReady {
		s.pendingSeek = sec
		return
	}
	s.player.SeekTo(sec)
}

// blockContaining finds the playable block whose range contains the given
// time.
func (s *Session) blockContaining(sec float64) (int, timeline.Block, bool) {
	for i, seg := range s.segments {
		switch block := seg.(type) {
		case timeline.Block:
			if sec >= block.StartSec && sec < block.EndSec {
				return i, block, true
			}
		case timeline.Gap:
		}
	}
	return -1, timeline.Block{}, false
}

// skipForwardOverGap advances a time that falls inside a gap to that gap's
// end; any other time passes through unchanged.
func (s *Session) skipForwardOverGap(sec float64) float64 {
	for _, seg := range s.segments {
		switch gap := seg.(type) {
		case timeline.Gap:
			if sec >= gap.StartSec && sec < gap.EndSec {
				return gap.EndSec
			}
		case timeline.Block:
		}
	}
	return sec
}

// nextPlayableIndex returns the first block index after from, or -1.
func (s *Session) nextPlayableIndex(from int) int {
	for i := from + 1; i < len(s.segments); i++ {
		switch s.segments[i].(type) {
		case timeline.Block:
			return i
		case timeline.Gap:
		}
	}
	return -1
}

// blockAtMediaPosition finds the block from the same source whose media band
// contains the reported media time, within tolerance.
func (s *Session) blockAtMediaPosition(url string, mediaTime float64) (int, timeline.Block, bool) {
	for i, seg := range s.segments {
		switch block := seg.(type) {
		case timeline.Block:
			if block.URL != url {
				continue
			}
			if mediaTime >= block.MediaOffset-MediaTimeTolerance &&
				mediaTime < block.MediaEndOffset+MediaTimeTolerance {
				return i, block, true
			}
		case timeline.Gap:
		}
	}
	return -1, timeline.Block{}, false
}
