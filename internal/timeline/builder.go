package timeline

import (
	"sort"

	"github.com/jthom21/moviola/internal/playlist"
	"github.com/jthom21/moviola/internal/timecode"
)

// MergeChunks folds one document's time-sorted chunks into recording blocks.
// A chunk starting more than GapThresholdSeconds after the current block's
// end closes that block and opens a new one; anything closer extends the
// block's end and media span.
func MergeChunks(chunks []playlist.Chunk, live bool, source string) []Block {
	if len(chunks) == 0 {
		return nil
	}

	var blocks []Block
	current := blockFromChunk(chunks[0], live, source)

	for _, chunk := range chunks[1:] {
		if chunk.StartSec-current.EndSec > GapThresholdSeconds {
			blocks = append(blocks, current)
			current = blockFromChunk(chunk, live, source)
			continue
		}
		current.EndSec = chunk.EndSec
		current.MediaEndOffset = chunk.MediaEndOffset
	}

	return append(blocks, current)
}

// Assemble pools blocks from all documents, orders them, and interposes a
// Gap wherever consecutive blocks sit more than the gap threshold apart. No
// gap is synthesized before the first block or after the last.
//
// Overlapping documents are ordered deterministically: equal starts prefer
// the closed (non-live) document, then the lexically smaller source ID.
func Assemble(blocks []Block) Timeline {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.StartSec != b.StartSec {
			return a.StartSec < b.StartSec
		}
		if a.Live != b.Live {
			return !a.Live
		}
		return a.Source < b.Source
	})

	merged := make(Timeline, 0, 2*len(sorted))
	prevEnd := -1.0

	for _, block := range sorted {
		if prevEnd >= 0 && block.StartSec-prevEnd > GapThresholdSeconds {
			merged = append(merged, Gap{StartSec: prevEnd, EndSec: block.StartSec})
		}
		merged = append(merged, block)
		prevEnd = block.EndSec
	}

	return merged
}

// blockFromChunk opens a new block at the given chunk.
func blockFromChunk(c playlist.Chunk, live bool, source string) Block {
	return Block{
		URL:            c.URL,
		StartSec:       c.StartSec,
		EndSec:         c.EndSec,
		StartTime:      timecode.Format(c.StartSec),
		MediaOffset:    c.MediaOffset,
		MediaEndOffset: c.MediaEndOffset,
		Live:           live,
		Source:         source,
	}
}
