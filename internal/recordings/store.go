package recordings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/playlist"
	"github.com/jthom21/moviola/internal/timecode"
)

// datePattern is the on-disk date directory format (YYYY-MM-DD).
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ErrInvalidDate is returned for date arguments not shaped YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

// Store reads recorder playlists from the archive directory, laid out as
// {root}/{date}/{streamID}/{channelID}/*.m3u8.
type Store struct {
	root string
}

// NewStore creates a store over the given archive root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// ListByDate collects every playlist document recorded for a stream on the
// given date, across all of the stream's channels. A missing date or stream
// directory yields an empty response, not an error: no recordings is a
// normal answer.
func (s *Store) ListByDate(streamID, date string) (*Response, error) {
	if !datePattern.MatchString(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	log := logger.For("recordings")
	streamDir := filepath.Join(s.root, date, streamID)

	channels, err := os.ReadDir(streamDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Response{Recordings: []Recording{}}, nil
		}
		return nil, fmt.Errorf("failed to read stream directory: %w", err)
	}

	resp := &Response{Recordings: []Recording{}}

	for _, channel := range channels {
		if !channel.IsDir() {
			continue
		}
		channelDir := filepath.Join(streamDir, channel.Name())

		entries, err := os.ReadDir(channelDir)
		if err != nil {
			log.Warn().
				Err(err).
				Str("dir", channelDir).
				Msg("Skipping unreadable channel directory")
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".m3u8") {
				continue
			}

			content, err := os.ReadFile(filepath.Join(channelDir, entry.Name()))
			if err != nil {
				log.Warn().
					Err(err).
					Str("file", entry.Name()).
					Msg("Skipping unreadable playlist")
				continue
			}

			resp.Recordings = append(resp.Recordings, Recording{
				M3U8Content: string(content),
				StartTime:   documentStartTime(string(content)),
				FileName:    entry.Name(),
				ChannelID:   channel.Name(),
			})
		}
	}

	sort.SliceStable(resp.Recordings, func(i, j int) bool {
		a, b := resp.Recordings[i], resp.Recordings[j]
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.FileName < b.FileName
	})

	return resp, nil
}

// ReadPlaylist returns one playlist document verbatim, for serving to
// players.
func (s *Store) ReadPlaylist(streamID, date, channelID, fileName string) ([]byte, error) {
	if !datePattern.MatchString(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	// Reject path traversal in client-supplied names.
	if fileName != filepath.Base(fileName) || channelID != filepath.Base(channelID) {
		return nil, fmt.Errorf("invalid playlist path components")
	}

	path := filepath.Join(s.root, date, streamID, channelID, fileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return content, nil
}

// documentStartTime derives the "HH:MM:SS" start label for a document from
// its first timestamped segment, falling back to midnight.
func documentStartTime(content string) string {
	if sec, ok := playlist.FirstTimestampedStart(content); ok {
		return timecode.Format(sec)
	}
	return "00:00:00"
}
