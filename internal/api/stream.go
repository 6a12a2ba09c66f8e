package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jthom21/moviola/internal/db"
	"github.com/jthom21/moviola/internal/logger"
	"github.com/jthom21/moviola/internal/models"
)

// CreateStreamRequest is the body for creating a stream configuration
type CreateStreamRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	SourceURL     string `json:"source_url" binding:"required"`
	ChannelID     string `json:"channel_id"`
	RetentionDays int    `json:"retention_days"`
}

// UpdateStreamRequest is the body for updating a stream configuration
type UpdateStreamRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	SourceURL     string `json:"source_url" binding:"required"`
	ChannelID     string `json:"channel_id"`
	Enabled       *bool  `json:"enabled"`
	RetentionDays int    `json:"retention_days"`
}

// StreamHandler handles stream configuration API requests
type StreamHandler struct {
	streams *db.StreamRepository
}

// NewStreamHandler creates a new stream handler instance
func NewStreamHandler(streams *db.StreamRepository) *StreamHandler {
	return &StreamHandler{streams: streams}
}

// Create handles POST /streams
func (h *StreamHandler) Create(c *gin.Context) {
	var req CreateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if req.ChannelID == "" {
		req.ChannelID = "0"
	}
	if req.RetentionDays <= 0 {
		req.RetentionDays = 7
	}

	stream := models.NewStream(req.Name, req.SourceURL, req.ChannelID, req.RetentionDays)

	if err := h.streams.Create(c.Request.Context(), stream); err != nil {
		if db.IsDuplicate(err) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "duplicate_stream",
				Message: "A stream with this name already exists",
			})
			return
		}
		logger.Log.Error().Err(err).Str("name", req.Name).Msg("Failed to create stream")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create stream",
		})
		return
	}

	logger.Log.Info().
		Str("stream_id", stream.ID.String()).
		Str("name", stream.Name).
		Msg("Stream created")

	c.JSON(http.StatusCreated, stream)
}

// List handles GET /streams
func (h *StreamHandler) List(c *gin.Context) {
	streams, err := h.streams.List(c.Request.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list streams")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list streams",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": streams})
}

// Get handles GET /streams/:id
func (h *StreamHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	stream, err := h.streams.GetByID(c.Request.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "stream_not_found",
				Message: "Stream not found",
			})
			return
		}
		logger.Log.Error().Err(err).Str("stream_id", id.String()).Msg("Failed to get stream")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "get_failed",
			Message: "Failed to get stream",
		})
		return
	}

	c.JSON(http.StatusOK, stream)
}

// Update handles PUT /streams/:id
func (h *StreamHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	stream, err := h.streams.GetByID(c.Request.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "stream_not_found",
				Message: "Stream not found",
			})
			return
		}
		logger.Log.Error().Err(err).Str("stream_id", id.String()).Msg("Failed to load stream for update")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update stream",
		})
		return
	}

	stream.Name = req.Name
	stream.SourceURL = req.SourceURL
	if req.ChannelID != "" {
		stream.ChannelID = req.ChannelID
	}
	if req.Enabled != nil {
		stream.Enabled = *req.Enabled
	}
	if req.RetentionDays > 0 {
		stream.RetentionDays = req.RetentionDays
	}

	if err := h.streams.Update(c.Request.Context(), stream); err != nil {
		logger.Log.Error().Err(err).Str("stream_id", id.String()).Msg("Failed to update stream")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "update_failed",
			Message: "Failed to update stream",
		})
		return
	}

	c.JSON(http.StatusOK, stream)
}

// Delete handles DELETE /streams/:id
func (h *StreamHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.streams.Delete(c.Request.Context(), id); err != nil {
		if db.IsNotFound(err) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "stream_not_found",
				Message: "Stream not found",
			})
			return
		}
		logger.Log.Error().Err(err).Str("stream_id", id.String()).Msg("Failed to delete stream")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "delete_failed",
			Message: "Failed to delete stream",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseID validates the :id path parameter
func (h *StreamHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid stream ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// SetupStreamRoutes registers stream configuration routes
func SetupStreamRoutes(apiGroup *gin.RouterGroup, streams *db.StreamRepository) {
	handler := NewStreamHandler(streams)

	apiGroup.POST("/streams", handler.Create)
	apiGroup.GET("/streams", handler.List)
	apiGroup.GET("/streams/:id", handler.Get)
	apiGroup.PUT("/streams/:id", handler.Update)
	apiGroup.DELETE("/streams/:id", handler.Delete)
}
