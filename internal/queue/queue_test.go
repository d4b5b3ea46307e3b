package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySend_DropsWhenFull(t *testing.T) {
	q := New(1)
	require.True(t, q.TrySend(Datagram{Payload: []byte("a")}))
	assert.False(t, q.TrySend(Datagram{Payload: []byte("b")}))
	assert.Equal(t, 1, q.Len())
}

func TestReceive_ReturnsSentDatagram(t *testing.T) {
	q := New(4)
	require.True(t, q.TrySend(Datagram{Payload: []byte("hello")}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d, ok := q.Receive(ctx)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), d.Payload)
}

func TestReceive_UnblocksOnContextCancel(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := q.Receive(ctx)
	assert.False(t, ok)
}
