package timeline

import (
	"github.com/jthom21/moviola/internal/playlist"
	"github.com/jthom21/moviola/internal/recordings"
)

// Build is the pure ingestion path from a recording-list response to the
// canonical segment timeline: parse each document into chunks, merge each
// document's chunks into blocks, then assemble all blocks with gaps.
//
// It returns ErrNoRecordings when no document produced any chunk; callers
// report that as a status, not a failure.
func Build(resp *recordings.Response, streamID, basePath string) (Timeline, error) {
	blocks := collectBlocks(resp, streamID, basePath)
	if len(blocks) == 0 {
		return nil, ErrNoRecordings
	}
	return Assemble(blocks), nil
}

// Chunks returns the concatenated chunk lists of every document in the
// response, sorted by timeline position. Clip export works from this flat
// view rather than the merged timeline.
func Chunks(resp *recordings.Response, streamID, basePath string) []playlist.Chunk {
	if resp == nil {
		return nil
	}

	var all []playlist.Chunk
	for _, rec := range resp.Recordings {
		if rec.M3U8Content == "" {
			continue
		}
		chunks, _ := playlist.ParseDocument(documentFor(rec), rec.SourceURL(basePath, streamID))
		all = append(all, chunks...)
	}

	playlist.SortChunks(all)
	return all
}

// collectBlocks runs ingestion and per-document merging over the response.
func collectBlocks(resp *recordings.Response, streamID, basePath string) []Block {
	if resp == nil {
		return nil
	}

	var blocks []Block
	for _, rec := range resp.Recordings {
		if rec.M3U8Content == "" {
			continue
		}
		chunks, live := playlist.ParseDocument(documentFor(rec), rec.SourceURL(basePath, streamID))
		blocks = append(blocks, MergeChunks(chunks, live, rec.FileName)...)
	}
	return blocks
}

// documentFor adapts a recording-list row into a parser document.
func documentFor(rec recordings.Recording) playlist.Document {
	return playlist.Document{
		Content:       rec.M3U8Content,
		DeclaredStart: rec.StartTime,
		SourceID:      rec.FileName,
	}
}
