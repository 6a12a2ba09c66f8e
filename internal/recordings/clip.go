package recordings

import (
	"errors"
	"fmt"
	"math"

	"github.com/Eyevinn/hls-m3u8/m3u8"

	"github.com/jthom21/moviola/internal/playlist"
)

// ErrEmptyClip is returned when no recorded chunk overlaps the requested
// range.
var ErrEmptyClip = errors.New("no recorded media in the requested range")

// ExportClip renders a closed HLS media playlist covering every chunk that
// overlaps [fromSec, toSec), for downloading a section of footage as a
// standalone clip. Chunks must be in timeline order, as produced by the
// playlist parser.
func ExportClip(chunks []playlist.Chunk, fromSec, toSec float64) (string, error) {
	if toSec <= fromSec {
		return "", fmt.Errorf("invalid clip range: from %.3f to %.3f", fromSec, toSec)
	}

	var selected []playlist.Chunk
	for _, chunk := range chunks {
		if chunk.EndSec > fromSec && chunk.StartSec < toSec {
			selected = append(selected, chunk)
		}
	}
	if len(selected) == 0 {
		return "", ErrEmptyClip
	}

	// winsize 0 = VOD playlist, no sliding window
	pl, err := m3u8.NewMediaPlaylist(0, uint(len(selected)))
	if err != nil {
		return "", fmt.Errorf("failed to create clip playlist: %w", err)
	}

	var target float64
	for i, chunk := range selected {
		if chunk.Duration > target {
			target = chunk.Duration
		}
		seg := &m3u8.MediaSegment{
			SeqId:    uint64(i),
			URI:      chunk.Name,
			Duration: chunk.Duration,
		}
		if err := pl.AppendSegment(seg); err != nil {
			return "", fmt.Errorf("failed to append clip segment %s: %w", chunk.Name, err)
		}
	}

	pl.TargetDuration = uint(math.Ceil(target))
	pl.Close()

	buf := pl.Encode()
	if buf == nil {
		return "", fmt.Errorf("failed to encode clip playlist")
	}
	return buf.String(), nil
}
