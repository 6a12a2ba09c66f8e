// Package playback owns the playback cursor and pointer interaction for one
// recording timeline: resolving timeline time to playable footage, keeping
// the cursor consistent with player-reported media time, and driving
// drag-to-seek.
package playback

// MediaTimeTolerance is the slack allowed when matching player-reported
// media time against a segment's media band.
const MediaTimeTolerance = 0.05

// Player is the external media playback primitive. Implementations wrap
// whatever actually decodes the stream; the session only ever drives it.
//
// Load is fire-and-forget: the implementation signals readiness back through
// Session.MediaReady, and a load issued before a prior one became ready
// supersedes it.
type Player interface {
	// Load tears down the current source, attaches the given one, and
	// begins playback at seekSec once ready.
	Load(url string, seekSec float64, live bool)

	// SeekTo repositions the already-loaded source.
	SeekTo(sec float64)

	Play()
	Pause()

	// Unload detaches the current source entirely.
	Unload()
}
