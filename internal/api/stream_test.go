package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jthom21/moviola/internal/models"
)

func TestCreateStream(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/streams", CreateStreamRequest{
		Name:      "front-door",
		SourceURL: "rtsp://camera.local/front-door",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var stream models.Stream
	decodeJSON(t, w, &stream)
	assert.NotEqual(t, uuid.Nil, stream.ID)
	assert.Equal(t, "front-door", stream.Name)
	assert.Equal(t, "0", stream.ChannelID)
	assert.True(t, stream.Enabled)
	assert.Equal(t, 7, stream.RetentionDays)
}

func TestCreateStream_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/streams", map[string]string{"name": "no-source"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateStream_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	createStream(t, env, "front-door")

	w := env.request(t, http.MethodPost, "/api/streams", CreateStreamRequest{
		Name:      "front-door",
		SourceURL: "rtsp://camera.local/front-door",
	})

	require.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	decodeJSON(t, w, &resp)
	assert.Equal(t, "duplicate_stream", resp.Error)
}

func TestListStreams(t *testing.T) {
	env := newTestEnv(t)
	createStream(t, env, "garage")
	createStream(t, env, "front-door")

	w := env.request(t, http.MethodGet, "/api/streams", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Streams []models.Stream `json:"streams"`
	}
	decodeJSON(t, w, &resp)
	require.Len(t, resp.Streams, 2)
	assert.Equal(t, "front-door", resp.Streams[0].Name)
	assert.Equal(t, "garage", resp.Streams[1].Name)
}

func TestGetStream(t *testing.T) {
	env := newTestEnv(t)
	created := createStream(t, env, "front-door")

	w := env.request(t, http.MethodGet, "/api/streams/"+created.ID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var stream models.Stream
	decodeJSON(t, w, &stream)
	assert.Equal(t, created.ID, stream.ID)
	assert.Equal(t, "front-door", stream.Name)
}

func TestGetStream_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/streams/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStream_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/streams/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStream(t *testing.T) {
	env := newTestEnv(t)
	created := createStream(t, env, "front-door")

	disabled := false
	w := env.request(t, http.MethodPut, "/api/streams/"+created.ID.String(), UpdateStreamRequest{
		Name:          "driveway",
		SourceURL:     "rtsp://camera.local/driveway",
		Enabled:       &disabled,
		RetentionDays: 30,
	})

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := env.streams.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "driveway", stored.Name)
	assert.Equal(t, "rtsp://camera.local/driveway", stored.SourceURL)
	assert.False(t, stored.Enabled)
	assert.Equal(t, 30, stored.RetentionDays)
}

func TestUpdateStream_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPut, "/api/streams/"+uuid.NewString(), UpdateStreamRequest{
		Name:      "driveway",
		SourceURL: "rtsp://camera.local/driveway",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteStream(t *testing.T) {
	env := newTestEnv(t)
	created := createStream(t, env, "front-door")

	w := env.request(t, http.MethodDelete, "/api/streams/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/streams/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteStream_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodDelete, "/api/streams/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
