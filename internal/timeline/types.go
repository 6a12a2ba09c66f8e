// Package timeline reconstructs a gap-aware recording timeline from parsed
// playlist chunks, producing the canonical ordered sequence of recording
// blocks and synthesized gaps that playback and rendering consume.
package timeline

import "encoding/json"

const (
	// DaySeconds is one full day of timeline time.
	DaySeconds = 86400.0

	// MaxSegmentTime is the timeline's upper bound: one day plus a
	// 30-minute overrun allowance for recordings rolling past midnight.
	MaxSegmentTime = DaySeconds + 1800

	// GapThresholdSeconds is the largest spacing between consecutive
	// chunks that still counts as continuous recording.
	GapThresholdSeconds = 1.0
)

// Segment is one entry of the segment timeline: either a Block of recorded
// footage or a Gap where nothing was recorded. The interface is sealed so
// every consumption site can switch exhaustively over the two variants.
type Segment interface {
	Start() float64
	End() float64
	Duration() float64

	sealed()
}

// Block is a maximal run of time-contiguous chunks from one playlist
// document. MediaOffset/MediaEndOffset span the block's position inside its
// source's own media timeline.
type Block struct {
	URL            string  `json:"url"`
	StartSec       float64 `json:"start_sec"`
	EndSec         float64 `json:"end_sec"`
	StartTime      string  `json:"start_time"`
	MediaOffset    float64 `json:"media_offset"`
	MediaEndOffset float64 `json:"media_end_offset"`
	Live           bool    `json:"live"`

	// Source is the originating document's identifier; it breaks ties
	// when overlapping documents produce blocks with equal starts.
	Source string `json:"source,omitempty"`
}

// Start returns the block's absolute timeline start.
func (b Block) Start() float64 { return b.StartSec }

// End returns the block's absolute timeline end.
func (b Block) End() float64 { return b.EndSec }

// Duration returns the block's length in seconds.
func (b Block) Duration() float64 { return b.EndSec - b.StartSec }

func (Block) sealed() {}

// Gap is a synthetic, never-playable placeholder between two blocks whose
// spacing exceeds the gap threshold.
type Gap struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
}

// Start returns the gap's absolute timeline start.
func (g Gap) Start() float64 { return g.StartSec }

// End returns the gap's absolute timeline end.
func (g Gap) End() float64 { return g.EndSec }

// Duration returns the gap's length in seconds.
func (g Gap) Duration() float64 { return g.EndSec - g.StartSec }

func (Gap) sealed() {}

// Timeline is the ordered sequence of blocks and gaps covering the observed
// recording range.
type Timeline []Segment

// Blocks counts the playable segments in the timeline.
func (t Timeline) Blocks() int {
	count := 0
	for _, seg := range t {
		switch seg.(type) {
		case Block:
			count++
		case Gap:
		}
	}
	return count
}

// segmentJSON is the wire shape of one timeline entry, discriminated by kind.
type segmentJSON struct {
	Kind string `json:"kind"`
	Block
	Dur float64 `json:"duration"`
}

// MarshalJSON renders each segment with an explicit kind discriminator so
// API clients never sniff shapes.
func (t Timeline) MarshalJSON() ([]byte, error) {
	out := make([]segmentJSON, 0, len(t))
	for _, seg := range t {
		switch s := seg.(type) {
		case Block:
			out = append(out, segmentJSON{Kind: "block", Block: s, Dur: s.Duration()})
		case Gap:
			out = append(out, segmentJSON{
				Kind:  "gap",
				Block: Block{StartSec: s.StartSec, EndSec: s.EndSec},
				Dur:   s.Duration(),
			})
		}
	}
	return json.Marshal(out)
}
