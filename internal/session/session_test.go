package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"telemetryd/internal/decoder"
)

type fakeStore struct {
	nextID int64
	err    error
}

func (f *fakeStore) CreateSession(ctx context.Context, carID int64, trackID string, tuningConfigID *int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	return f.nextID, nil
}

func TestRegistry_StartSetsCurrentSession(t *testing.T) {
	r := New(&fakeStore{})
	assert.Nil(t, r.Current())

	require.NoError(t, r.Start(context.Background(), 7, "spa", nil))
	require.NotNil(t, r.Current())
	assert.Equal(t, int64(1), *r.Current())
}

func TestRegistry_StopClearsCurrentSession(t *testing.T) {
	r := New(&fakeStore{})
	require.NoError(t, r.Start(context.Background(), 7, "spa", nil))
	r.Stop()
	assert.Nil(t, r.Current())
}

func TestRegistry_EnrichCopiesWithoutMutatingOriginal(t *testing.T) {
	r := New(&fakeStore{})
	require.NoError(t, r.Start(context.Background(), 7, "spa", nil))

	p := decoder.Packet{CarOrdinal: 3}
	enriched := r.Enrich(p)
	assert.Nil(t, p.SessionID)
	require.NotNil(t, enriched.SessionID)
	assert.Equal(t, int64(1), *enriched.SessionID)
}

func TestRegistry_EnrichWithNoActiveSessionLeavesNil(t *testing.T) {
	r := New(&fakeStore{})
	p := decoder.Packet{CarOrdinal: 3}
	assert.Nil(t, r.Enrich(p).SessionID)
}
