package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jthom21/moviola/internal/db"
	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/recordings"
	"github.com/jthom21/moviola/internal/timecode"
	"github.com/jthom21/moviola/internal/timeline"
)

// RecordingHandler serves the recording archive: per-date playlist listings,
// the built segment timeline, playlist bodies for players, and clip export.
type RecordingHandler struct {
	store    *recordings.Store
	streams  *db.StreamRepository
	basePath string
}

// NewRecordingHandler creates a new recording handler instance
func NewRecordingHandler(store *recordings.Store, streams *db.StreamRepository, basePath string) *RecordingHandler {
	return &RecordingHandler{
		store:    store,
		streams:  streams,
		basePath: basePath,
	}
}

// ListRecordings handles GET /streams/:id/recordings?date=YYYY-MM-DD
func (h *RecordingHandler) ListRecordings(c *gin.Context) {
	streamID, date, ok := h.parseStreamDate(c)
	if !ok {
		return
	}

	resp, err := h.store.ListByDate(streamID.String(), date)
	if err != nil {
		h.respondStoreError(c, err, streamID.String(), date)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(resp.Recordings),
		"recordings": resp.Recordings,
	})
}

// GetTimeline handles GET /streams/:id/timeline?date=YYYY-MM-DD. It runs the
// full ingestion path and returns the segment timeline; a date with no
// recordings is a normal empty response, not an error.
func (h *RecordingHandler) GetTimeline(c *gin.Context) {
	streamID, date, ok := h.parseStreamDate(c)
	if !ok {
		return
	}

	resp, err := h.store.ListByDate(streamID.String(), date)
	if err != nil {
		h.respondStoreError(c, err, streamID.String(), date)
		return
	}

	h.respondTimeline(c, resp, streamID.String(), date)
}

// ImportTimeline handles POST /streams/:id/timeline?date=YYYY-MM-DD. The body
// is a recorder recording-list response; the timeline is built from it
// directly, without touching the local archive. This is the ingestion path
// for footage still held by a remote recorder.
func (h *RecordingHandler) ImportTimeline(c *gin.Context) {
	streamID, date, ok := h.parseStreamDate(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "Failed to read request body",
		})
		return
	}

	resp, err := recordings.DecodeResponse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_body",
			Message: "Unrecognized recording response shape",
		})
		return
	}

	h.respondTimeline(c, resp, streamID.String(), date)
}

// respondTimeline builds the segment timeline from a recording response and
// writes it. A response with no usable chunks is a normal empty answer.
func (h *RecordingHandler) respondTimeline(c *gin.Context, resp *recordings.Response, streamID, date string) {
	tl, err := timeline.Build(resp, streamID, h.datedBasePath(date))
	if err != nil {
		if errors.Is(err, timeline.ErrNoRecordings) {
			c.JSON(http.StatusOK, gin.H{
				"timeline": timeline.Timeline{},
				"blocks":   0,
				"status":   "no recordings for this date",
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("stream_id", streamID).
			Str("date", date).
			Msg("Failed to build timeline")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "timeline_failed",
			Message: "Failed to build timeline",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"timeline": tl,
		"blocks":   tl.Blocks(),
	})
}

// GetPlaylist handles GET /playback/:date/m3u8?stream_id=&channel_id=&file=,
// the URL shape the timeline bakes into every chunk. It serves the stored
// playlist document verbatim.
func (h *RecordingHandler) GetPlaylist(c *gin.Context) {
	date := c.Param("date")
	streamID := c.Query("stream_id")
	channelID := c.Query("channel_id")
	file := c.Query("file")

	if streamID == "" || file == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "stream_id and file are required",
		})
		return
	}
	if channelID == "" {
		channelID = "0"
	}

	content, err := h.store.ReadPlaylist(streamID, date, channelID, file)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "playlist_not_found",
			Message: "Playlist not found",
		})
		return
	}

	c.Data(http.StatusOK, "application/vnd.apple.mpegurl", content)
}

// ExportClip handles GET /streams/:id/clip?date=&from=&to=, returning a
// closed playlist covering the requested range. from/to accept HH:MM:SS or
// plain seconds.
func (h *RecordingHandler) ExportClip(c *gin.Context) {
	streamID, date, ok := h.parseStreamDate(c)
	if !ok {
		return
	}

	fromSec, okFrom := parseClipBound(c.Query("from"))
	toSec, okTo := parseClipBound(c.Query("to"))
	if !okFrom || !okTo {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_range",
			Message: "from and to must be HH:MM:SS or seconds",
		})
		return
	}

	resp, err := h.store.ListByDate(streamID.String(), date)
	if err != nil {
		h.respondStoreError(c, err, streamID.String(), date)
		return
	}

	chunks := timeline.Chunks(resp, streamID.String(), h.datedBasePath(date))

	clip, err := recordings.ExportClip(chunks, fromSec, toSec)
	if err != nil {
		if errors.Is(err, recordings.ErrEmptyClip) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "empty_clip",
				Message: "No recorded media in the requested range",
			})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_range",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=clip.m3u8")
	c.Data(http.StatusOK, "application/vnd.apple.mpegurl", []byte(clip))
}

// datedBasePath is the playback URL prefix for one archive date; chunk URLs
// embed it so players resolve back to GetPlaylist.
func (h *RecordingHandler) datedBasePath(date string) string {
	return h.basePath + "/" + date
}

// parseStreamDate validates the :id path parameter and date query, and
// checks the stream exists.
func (h *RecordingHandler) parseStreamDate(c *gin.Context) (uuid.UUID, string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid stream ID format",
		})
		return uuid.Nil, "", false
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_date",
			Message: "date query parameter is required",
		})
		return uuid.Nil, "", false
	}

	if _, err := h.streams.GetByID(c.Request.Context(), id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "stream_not_found",
				Message: "Stream not found",
			})
			return uuid.Nil, "", false
		}
		logger.Log.Error().Err(err).Str("stream_id", id.String()).Msg("Failed to validate stream")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "lookup_failed",
			Message: "Failed to look up stream",
		})
		return uuid.Nil, "", false
	}

	return id, date, true
}

// respondStoreError maps recording store failures to HTTP responses.
func (h *RecordingHandler) respondStoreError(c *gin.Context, err error, streamID, date string) {
	if errors.Is(err, recordings.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "date must be YYYY-MM-DD",
		})
		return
	}
	logger.Log.Error().
		Err(err).
		Str("stream_id", streamID).
		Str("date", date).
		Msg("Failed to read recording archive")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "archive_failed",
		Message: "Failed to read recording archive",
	})
}

// parseClipBound accepts an HH:MM:SS label or a plain seconds value.
func parseClipBound(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	if sec, err := timecode.Parse(raw); err == nil {
		return sec, true
	}
	if sec, err := strconv.ParseFloat(raw, 64); err == nil && sec >= 0 {
		return sec, true
	}
	return 0, false
}

// SetupRecordingRoutes registers recording archive routes
func SetupRecordingRoutes(apiGroup *gin.RouterGroup, store *recordings.Store, streams *db.StreamRepository, basePath string) {
	handler := NewRecordingHandler(store, streams, basePath)

	apiGroup.GET("/streams/:id/recordings", handler.ListRecordings)
	apiGroup.GET("/streams/:id/timeline", handler.GetTimeline)
	apiGroup.POST("/streams/:id/timeline", handler.ImportTimeline)
	apiGroup.GET("/streams/:id/clip", handler.ExportClip)
	apiGroup.GET("/playback/:date/m3u8", handler.GetPlaylist)
}
