// Package playlist turns raw HLS media playlist documents into ordered,
// timestamped chunk lists for the recording timeline.
//
// Recorder playlists are treated as untrusted input: a URI line with no
// preceding #EXTINF, or a filename whose timestamp cannot be parsed, is
// skipped rather than failing the whole document.
package playlist

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jthom21/moviola/internal/timecode"
)

const (
	// daySeconds is one day of timeline time; chunks re-entering the low
	// time-of-day band under a new date get shifted past it.
	daySeconds = 86400

	// midnightOverrunBand is how deep into the next day (seconds) a
	// cross-midnight recording is allowed to run.
	midnightOverrunBand = 1800

	extinfPrefix  = "#EXTINF:"
	endListMarker = "#EXT-X-ENDLIST"
)

// chunkTimestampPattern matches the _YYYYMMDD_HHMMSS suffix the recorder
// embeds in segment filenames, e.g. "cam1_20260830_134501.ts".
var chunkTimestampPattern = regexp.MustCompile(`(?i)_(\d{8})_(\d{6})\.[a-z0-9]+$`)

// chunkDatePattern extracts just the date component, used to establish a
// document's base date from its first dated filename.
var chunkDatePattern = regexp.MustCompile(`_(\d{8})_`)

// Chunk is one physical media file referenced by a playlist. StartSec/EndSec
// position it on the absolute timeline; MediaOffset/MediaEndOffset position
// it within the source's own media timeline and are what players seek by.
type Chunk struct {
	// Name is the segment filename as it appeared in the playlist.
	Name string `json:"name"`

	URL            string  `json:"url"`
	StartSec       float64 `json:"start_sec"`
	EndSec         float64 `json:"end_sec"`
	Duration       float64 `json:"duration"`
	MediaOffset    float64 `json:"media_offset"`
	MediaEndOffset float64 `json:"media_end_offset"`
}

// Document is one raw playlist plus the metadata needed to place its chunks
// when filenames carry no timestamp.
type Document struct {
	// Content is the newline-delimited playlist text.
	Content string

	// DeclaredStart is the recorder-reported "HH:MM:SS" start of this
	// document, used to seed the fallback offset for undated filenames.
	DeclaredStart string

	// SourceID identifies the playlist file; it participates in the
	// deterministic ordering of overlapping documents.
	SourceID string
}

// ParseDocument scans one playlist document and returns its chunks sorted by
// StartSec, plus whether the document is live (no end-of-stream marker means
// the recorder may still be appending to it).
func ParseDocument(doc Document, sourceURL string) (chunks []Chunk, live bool) {
	if doc.Content == "" {
		return nil, false
	}

	fallbackStart := declaredStartSeconds(doc)
	if inferred, ok := FirstTimestampedStart(doc.Content); ok {
		fallbackStart = inferred
	}

	var (
		pendingDuration  float64
		hasPending       bool
		cumulativeOffset float64
		baseDate         string
	)

	for _, raw := range strings.Split(doc.Content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, extinfPrefix) {
			d, err := parseExtinf(line)
			if err != nil {
				// Malformed duration directive: drop it so the
				// URI it annotates gets skipped too.
				hasPending = false
				continue
			}
			pendingDuration = d
			hasPending = true
			continue
		}

		if strings.HasPrefix(line, "#") {
			continue
		}

		// URI line with no pending duration: malformed playlist entry,
		// skipped without failing the document.
		if !hasPending {
			continue
		}

		if baseDate == "" {
			if m := chunkDatePattern.FindStringSubmatch(line); m != nil {
				baseDate = m[1]
			}
		}

		startSec, ok := filenameSeconds(line, baseDate)
		if !ok {
			startSec = fallbackStart
		}

		chunks = append(chunks, Chunk{
			Name:           line,
			URL:            sourceURL,
			StartSec:       startSec,
			EndSec:         startSec + pendingDuration,
			Duration:       pendingDuration,
			MediaOffset:    cumulativeOffset,
			MediaEndOffset: cumulativeOffset + pendingDuration,
		})

		cumulativeOffset += pendingDuration
		fallbackStart = startSec + pendingDuration
		hasPending = false
	}

	SortChunks(chunks)

	return chunks, !hasEndList(doc.Content)
}

// FirstTimestampedStart returns the timeline position of the first URI line
// carrying an embedded timestamp, if any. Callers use it to anchor a document
// whose declared start time disagrees with its filenames.
func FirstTimestampedStart(content string) (float64, bool) {
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if sec, ok := filenameSeconds(line, ""); ok {
			return sec, true
		}
	}
	return 0, false
}

// SortChunks orders chunks by StartSec ascending. The sort is stable so
// chunks sharing a start keep document order.
func SortChunks(chunks []Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].StartSec < chunks[j].StartSec
	})
}

// filenameSeconds extracts the time-of-day (in timeline seconds) embedded in
// a segment filename. When the file's date differs from the document's base
// date and its time-of-day falls inside the first half hour after midnight,
// the recording rolled past midnight and the position shifts one day forward.
func filenameSeconds(name, baseDate string) (float64, bool) {
	m := chunkTimestampPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return 0, false
	}

	fileDate := m[1]
	hms := m[2]

	h, errH := strconv.Atoi(hms[0:2])
	mi, errM := strconv.Atoi(hms[2:4])
	s, errS := strconv.Atoi(hms[4:6])
	if errH != nil || errM != nil || errS != nil {
		return 0, false
	}

	sec := float64(h*3600 + mi*60 + s)

	if h == 0 && sec <= midnightOverrunBand && baseDate != "" && fileDate != baseDate {
		return daySeconds + sec, true
	}

	return sec, true
}

// parseExtinf extracts the duration from an "#EXTINF:<seconds>[,title]" line.
func parseExtinf(line string) (float64, error) {
	value := strings.TrimPrefix(line, extinfPrefix)
	if i := strings.IndexByte(value, ','); i >= 0 {
		value = value[:i]
	}
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// hasEndList reports whether the document carries the end-of-stream marker.
func hasEndList(content string) bool {
	for _, raw := range strings.Split(content, "\n") {
		if strings.TrimSpace(strings.TrimSuffix(raw, "\r")) == endListMarker {
			return true
		}
	}
	return false
}

// declaredStartSeconds parses the document's declared start, defaulting to
// midnight when the label is absent or unparseable.
func declaredStartSeconds(doc Document) float64 {
	if doc.DeclaredStart == "" {
		return 0
	}
	sec, err := timecode.Parse(doc.DeclaredStart)
	if err != nil {
		return 0
	}
	return sec
}
