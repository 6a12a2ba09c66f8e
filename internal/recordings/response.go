// Package recordings handles the recording archive surface: the response
// envelope recorders hand back for a stream/date query, the on-disk playlist
// store behind it, and clip export.
package recordings

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Recording is one playlist document for a stream/date, as produced by the
// recorder.
type Recording struct {
	M3U8Content string `json:"m3u8Content"`
	StartTime   string `json:"startTime"`
	FileName    string `json:"fileName"`
	ChannelID   string `json:"channelId,omitempty"`
}

// Response is the envelope a stream/date recording query resolves to.
type Response struct {
	Recordings []Recording `json:"recordings"`
}

// recordingAliases tolerates the alternate key spellings older recorders
// emit for the same fields.
type recordingAliases struct {
	M3U8Content string `json:"m3u8Content"`
	Content     string `json:"content"`
	StartTime   string `json:"startTime"`
	FileName    string `json:"fileName"`
	Filename    string `json:"filename"`
	ChannelID   string `json:"channelId"`
}

// UnmarshalJSON accepts both the canonical and legacy field names.
func (r *Recording) UnmarshalJSON(data []byte) error {
	var aux recordingAliases
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.M3U8Content = aux.M3U8Content
	if r.M3U8Content == "" {
		r.M3U8Content = aux.Content
	}
	r.StartTime = aux.StartTime
	if r.StartTime == "" {
		r.StartTime = "00:00:00"
	}
	r.FileName = aux.FileName
	if r.FileName == "" {
		r.FileName = aux.Filename
	}
	r.ChannelID = aux.ChannelID
	if r.ChannelID == "" {
		r.ChannelID = "0"
	}
	return nil
}

// DecodeResponse parses a recording-list response body. The recordings array
// is accepted at the top level, nested under "payload", under "data", or as
// a bare top-level array.
func DecodeResponse(data []byte) (*Response, error) {
	var envelope struct {
		Payload struct {
			Recordings []Recording `json:"recordings"`
		} `json:"payload"`
		Recordings []Recording `json:"recordings"`
		Data       []Recording `json:"data"`
	}

	if err := json.Unmarshal(data, &envelope); err == nil {
		switch {
		case envelope.Payload.Recordings != nil:
			return &Response{Recordings: envelope.Payload.Recordings}, nil
		case envelope.Recordings != nil:
			return &Response{Recordings: envelope.Recordings}, nil
		case envelope.Data != nil:
			return &Response{Recordings: envelope.Data}, nil
		}
	}

	var bare []Recording
	if err := json.Unmarshal(data, &bare); err == nil {
		return &Response{Recordings: bare}, nil
	}

	return nil, fmt.Errorf("unrecognized recording response shape")
}

// SourceURL builds the playback URL for this recording's playlist, which
// becomes the URL of every chunk the document contributes to the timeline.
func (r Recording) SourceURL(basePath, streamID string) string {
	q := url.Values{}
	q.Set("stream_id", streamID)
	q.Set("channel_id", r.ChannelID)
	q.Set("file", r.FileName)
	return strings.TrimSuffix(basePath, "/") + "/m3u8?" + q.Encode()
}
