package racestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"telemetryd/internal/decoder"
)

func TestMonitor_DetectsStartedOnRisingEdge(t *testing.T) {
	var m Monitor
	assert.Nil(t, m.Detect(decoder.Packet{IsRaceOn: 0}))
	tr := m.Detect(decoder.Packet{IsRaceOn: 1, CarOrdinal: 5, CurrentRaceTime: 1.5})
	require.NotNil(t, tr)
	assert.Equal(t, Started, tr.Kind)
	assert.Equal(t, int32(5), tr.CarOrdinal)
}

func TestMonitor_DetectsEndedOnFallingEdge(t *testing.T) {
	var m Monitor
	m.Detect(decoder.Packet{IsRaceOn: 1})
	tr := m.Detect(decoder.Packet{IsRaceOn: 0})
	require.NotNil(t, tr)
	assert.Equal(t, Ended, tr.Kind)
}

func TestMonitor_NoTransitionOnSteadyState(t *testing.T) {
	var m Monitor
	m.Detect(decoder.Packet{IsRaceOn: 1})
	assert.Nil(t, m.Detect(decoder.Packet{IsRaceOn: 1}))
}
