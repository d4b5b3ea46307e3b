package decoder

// Packet is the decoded form of one simulator telemetry datagram, enriched
// with an optional SessionID once it passes through the ingestion pipeline.
// Field order here is the canonical column order used by the bulk sink; do
// not reorder without updating sink.Columns.
type Packet struct {
	SessionID *int64

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

	AngularVelocityX float32
	AngularVelocityY float32
	AngularVelocityZ float32

	Yaw   float32
	Pitch float32
	Roll  float32

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

	CarOrdinal     int32
	CarClass       int32
	CarPerfIndex   int32
	DrivetrainType int32
	NumCylinders   int32

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

	NormalizedDrivingLine int8
	NormalizedAIBrakeDiff int8
}

// WithSessionID returns a copy of p with SessionID set, leaving p untouched.
func (p Packet) WithSessionID(id int64) Packet {
	p.SessionID = &id
	return p
}
