package control

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"telemetryd/internal/session"
)

type fakeStore struct{ nextID int64 }

func (f *fakeStore) CreateSession(ctx context.Context, carID int64, trackID string, tuningConfigID *int64) (int64, error) {
	f.nextID++
	return f.nextID, nil
}

func nopLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestStartSession_Success(t *testing.T) {
	reg := session.New(&fakeStore{})
	mux := NewMux(reg, nopLogger())

	body := bytes.NewBufferString(`{"car_id": 7, "track_id": "spa"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/start", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reg.Current())

	var resp operationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "success", resp.Status)
}

func TestStartSession_MissingCarID(t *testing.T) {
	reg := session.New(&fakeStore{})
	mux := NewMux(reg, nopLogger())

	body := bytes.NewBufferString(`{"track_id": "spa"}`)
	req := httptest.NewRequest(http.MethodPost, "/session/start", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSession_MissingTrackID(t *testing.T) {
	reg := session.New(&fakeStore{})
	mux := NewMux(reg, nopLogger())

	body := bytes.NewBufferString(`{"car_id": 7}`)
	req := httptest.NewRequest(http.MethodPost, "/session/start", body)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStopSession_ClearsRegistry(t *testing.T) {
	reg := session.New(&fakeStore{})
	require.NoError(t, reg.Start(context.Background(), 1, "spa", nil))
	mux := NewMux(reg, nopLogger())

	req := httptest.NewRequest(http.MethodPost, "/session/stop", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, reg.Current())
}

func TestStartSession_WrongMethod(t *testing.T) {
	reg := session.New(&fakeStore{})
	mux := NewMux(reg, nopLogger())

	req := httptest.NewRequest(http.MethodGet, "/session/start", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
