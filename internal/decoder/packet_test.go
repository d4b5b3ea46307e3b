package decoder

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeWire(t *testing.T, w wirePacket) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, &w))
	return buf.Bytes()
}

func TestDecode_DashLength(t *testing.T) {
	w := wirePacket{IsRaceOn: 1, TimestampMS: 1234, CurrentEngineRPM: 6500.5, Gear: 3, Steer: -12}
	data := encodeWire(t, w)
	require.Len(t, data, DashLength)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.IsRaceOn)
	assert.Equal(t, uint32(1234), p.TimestampMS)
	assert.InDelta(t, 6500.5, p.CurrentEngineRPM, 0.001)
	assert.Equal(t, uint8(3), p.Gear)
	assert.Equal(t, int8(-12), p.Steer)
	assert.Nil(t, p.SessionID)
}

func TestDecode_DataOutLength_IgnoresTrailingBytes(t *testing.T) {
	w := wirePacket{IsRaceOn: 1, CarOrdinal: 7}
	data := append(encodeWire(t, w), make([]byte, DataOutLength-DashLength)...)
	require.Len(t, data, DataOutLength)

	p, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int32(7), p.CarOrdinal)
}

func TestDecode_UnsupportedLength(t *testing.T) {
	_, err := Decode(make([]byte, 42))
	require.ErrorIs(t, err, ErrUnsupportedLength)
}

func TestDecode_TruncatedDatagram(t *testing.T) {
	_, err := Decode(make([]byte, DashLength-1))
	require.ErrorIs(t, err, ErrUnsupportedLength)
}

func TestPacket_WithSessionID_DoesNotMutateOriginal(t *testing.T) {
	p := Packet{IsRaceOn: 1}
	enriched := p.WithSessionID(42)
	require.Nil(t, p.SessionID)
	require.NotNil(t, enriched.SessionID)
	assert.Equal(t, int64(42), *enriched.SessionID)
}
