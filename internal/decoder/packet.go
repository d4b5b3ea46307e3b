// Package decoder turns raw little-endian UDP datagrams emitted by the
// simulator into TelemetryPacket values.
//
// The wire layout and field order are fixed by the simulator and are not
// negotiable; they are reproduced here field-for-field from the canonical
// "Data Out" / "Dash" struct, the same way the ACC broadcasting protocol's
// readBuffer walks a little-endian byte buffer into a packed struct.
package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire lengths the simulator is known to emit.
const (
	DashLength    = 311
	DataOutLength = 324
)

// ErrUnsupportedLength is returned when a datagram is neither Dash (311
// bytes) nor Data Out (324 bytes).
var ErrUnsupportedLength = errors.New("decoder: unsupported datagram length")

// ErrMalformed is returned when a datagram of a supported length cannot be
// unpacked into the wire struct.
var ErrMalformed = errors.New("decoder: malformed datagram")

// wirePacket mirrors the simulator's packed little-endian struct field for
// field. Field order is part of the wire contract and must not change.
type wirePacket struct {
	IsRaceOn         int32
	TimestampMS      uint32
	EngineMaxRPM     float32
	EngineIdleRPM    float32
	CurrentEngineRPM float32

	AccelerationX float32
	AccelerationY float32
	AccelerationZ float32
	VelocityX     float32
	VelocityY     float32
	VelocityZ     float32
	AngularVelX   float32
	AngularVelY   float32
	AngularVelZ   float32
	Yaw           float32
	Pitch         float32
	Roll          float32

	NormSuspTravelFL float32
	NormSuspTravelFR float32
	NormSuspTravelRL float32
	NormSuspTravelRR float32

	TireSlipRatioFL float32
	TireSlipRatioFR float32
	TireSlipRatioRL float32
	TireSlipRatioRR float32

	WheelRotSpeedFL float32
	WheelRotSpeedFR float32
	WheelRotSpeedRL float32
	WheelRotSpeedRR float32

	WheelOnRumbleFL int32
	WheelOnRumbleFR int32
	WheelOnRumbleRL int32
	WheelOnRumbleRR int32

	WheelInPuddleFL float32
	WheelInPuddleFR float32
	WheelInPuddleRL float32
	WheelInPuddleRR float32

	SurfaceRumbleFL float32
	SurfaceRumbleFR float32
	SurfaceRumbleRL float32
	SurfaceRumbleRR float32

	TireSlipAngleFL float32
	TireSlipAngleFR float32
	TireSlipAngleRL float32
	TireSlipAngleRR float32

	TireCombSlipFL float32
	TireCombSlipFR float32
	TireCombSlipRL float32
	TireCombSlipRR float32

	SuspTravelMFL float32
	SuspTravelMFR float32
	SuspTravelMRL float32
	SuspTravelMRR float32

	CarOrdinal      int32
	CarClass        int32
	CarPerfIndex    int32
	DrivetrainType  int32
	NumCylinders    int32

	PositionX float32
	PositionY float32
	PositionZ float32

	Speed  float32
	Power  float32
	Torque float32

	TireTempFL float32
	TireTempFR float32
	TireTempRL float32
	TireTempRR float32

	Boost            float32
	Fuel             float32
	DistanceTraveled float32
	BestLap          float32
	LastLap          float32
	CurrentLap       float32
	CurrentRaceTime  float32

	LapNumber    uint16
	RacePosition uint8
	Accel        uint8
	Brake        uint8
	Clutch       uint8
	HandBrake    uint8
	Gear         uint8
	Steer        int8
	DriLine      int8
	AIBrakeDiff  int8
}

// Decode parses a raw datagram into a TelemetryPacket. Both the 311-byte
// "Dash" and 324-byte "Data Out" wire formats share a common 311-byte
// prefix; trailing Data Out bytes are reserved and ignored.
func Decode(data []byte) (Packet, error) {
	switch len(data) {
	case DashLength, DataOutLength:
	default:
		return Packet{}, fmt.Errorf("%w: got %d bytes", ErrUnsupportedLength, len(data))
	}

	var w wirePacket
	r := bytes.NewReader(data[:DashLength])
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return Packet{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Packet{
		IsRaceOn:                  w.IsRaceOn,
		TimestampMS:               w.TimestampMS,
		EngineMaxRPM:              w.EngineMaxRPM,
		EngineIdleRPM:             w.EngineIdleRPM,
		CurrentEngineRPM:          w.CurrentEngineRPM,
		AccelerationX:             w.AccelerationX,
		AccelerationY:             w.AccelerationY,
		AccelerationZ:             w.AccelerationZ,
		VelocityX:                 w.VelocityX,
		VelocityY:                 w.VelocityY,
		VelocityZ:                 w.VelocityZ,
		AngularVelocityX:          w.AngularVelX,
		AngularVelocityY:          w.AngularVelY,
		AngularVelocityZ:          w.AngularVelZ,
		Yaw:                       w.Yaw,
		Pitch:                     w.Pitch,
		Roll:                      w.Roll,
		NormSuspTravelFL:          w.NormSuspTravelFL,
		NormSuspTravelFR:          w.NormSuspTravelFR,
		NormSuspTravelRL:          w.NormSuspTravelRL,
		NormSuspTravelRR:          w.NormSuspTravelRR,
		TireSlipRatioFL:           w.TireSlipRatioFL,
		TireSlipRatioFR:           w.TireSlipRatioFR,
		TireSlipRatioRL:           w.TireSlipRatioRL,
		TireSlipRatioRR:           w.TireSlipRatioRR,
		WheelRotSpeedFL:           w.WheelRotSpeedFL,
		WheelRotSpeedFR:           w.WheelRotSpeedFR,
		WheelRotSpeedRL:           w.WheelRotSpeedRL,
		WheelRotSpeedRR:           w.WheelRotSpeedRR,
		WheelOnRumbleFL:           w.WheelOnRumbleFL,
		WheelOnRumbleFR:           w.WheelOnRumbleFR,
		WheelOnRumbleRL:           w.WheelOnRumbleRL,
		WheelOnRumbleRR:           w.WheelOnRumbleRR,
		WheelInPuddleFL:           w.WheelInPuddleFL,
		WheelInPuddleFR:           w.WheelInPuddleFR,
		WheelInPuddleRL:           w.WheelInPuddleRL,
		WheelInPuddleRR:           w.WheelInPuddleRR,
		SurfaceRumbleFL:           w.SurfaceRumbleFL,
		SurfaceRumbleFR:           w.SurfaceRumbleFR,
		SurfaceRumbleRL:           w.SurfaceRumbleRL,
		SurfaceRumbleRR:           w.SurfaceRumbleRR,
		TireSlipAngleFL:           w.TireSlipAngleFL,
		TireSlipAngleFR:           w.TireSlipAngleFR,
		TireSlipAngleRL:           w.TireSlipAngleRL,
		TireSlipAngleRR:           w.TireSlipAngleRR,
		TireCombSlipFL:            w.TireCombSlipFL,
		TireCombSlipFR:            w.TireCombSlipFR,
		TireCombSlipRL:            w.TireCombSlipRL,
		TireCombSlipRR:            w.TireCombSlipRR,
		SuspTravelMFL:             w.SuspTravelMFL,
		SuspTravelMFR:             w.SuspTravelMFR,
		SuspTravelMRL:             w.SuspTravelMRL,
		SuspTravelMRR:             w.SuspTravelMRR,
		CarOrdinal:                w.CarOrdinal,
		CarClass:                  w.CarClass,
		CarPerfIndex:              w.CarPerfIndex,
		DrivetrainType:            w.DrivetrainType,
		NumCylinders:              w.NumCylinders,
		PositionX:                 w.PositionX,
		PositionY:                 w.PositionY,
		PositionZ:                 w.PositionZ,
		Speed:                     w.Speed,
		Power:                     w.Power,
		Torque:                    w.Torque,
		TireTempFL:                w.TireTempFL,
		TireTempFR:                w.TireTempFR,
		TireTempRL:                w.TireTempRL,
		TireTempRR:                w.TireTempRR,
		Boost:                     w.Boost,
		Fuel:                      w.Fuel,
		DistanceTraveled:          w.DistanceTraveled,
		BestLap:                   w.BestLap,
		LastLap:                   w.LastLap,
		CurrentLap:                w.CurrentLap,
		CurrentRaceTime:           w.CurrentRaceTime,
		LapNumber:                 w.LapNumber,
		RacePosition:              w.RacePosition,
		Accel:                     w.Accel,
		Brake:                     w.Brake,
		Clutch:                    w.Clutch,
		HandBrake:                 w.HandBrake,
		Gear:                      w.Gear,
		Steer:                     w.Steer,
		NormalizedDrivingLine:     w.DriLine,
		NormalizedAIBrakeDiff:     w.AIBrakeDiff,
	}, nil
}
