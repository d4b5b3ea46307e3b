// Package sink defines the bulk-write contract between the save executor
// and the relational store, and a Postgres implementation using COPY.
package sink

import (
	"context"

	"telemetryd/internal/decoder"
)

// BatchSink persists a batch of packets in one bulk operation.
type BatchSink interface {
	SaveBatch(ctx context.Context, packets []decoder.Packet) error
}

// Columns is the canonical column order for telemetry_packets, matching
// decoder.Packet's field declaration order. Both the bulk sink and any
// migration/schema tooling must agree on this order.
var Columns = []string{
	"session_id",
	"is_race_on", "timestamp_ms",
	"engine_max_rpm", "engine_idle_rpm", "current_engine_rpm",
	"acceleration_x", "acceleration_y", "acceleration_z",
	"velocity_x", "velocity_y", "velocity_z",
	"angular_velocity_x", "angular_velocity_y", "angular_velocity_z",
	"yaw", "pitch", "roll",
	"norm_susp_travel_fl", "norm_susp_travel_fr", "norm_susp_travel_rl", "norm_susp_travel_rr",
	"tire_slip_ratio_fl", "tire_slip_ratio_fr", "tire_slip_ratio_rl", "tire_slip_ratio_rr",
	"wheel_rot_speed_fl", "wheel_rot_speed_fr", "wheel_rot_speed_rl", "wheel_rot_speed_rr",
	"wheel_on_rumble_fl", "wheel_on_rumble_fr", "wheel_on_rumble_rl", "wheel_on_rumble_rr",
	"wheel_in_puddle_fl", "wheel_in_puddle_fr", "wheel_in_puddle_rl", "wheel_in_puddle_rr",
	"surface_rumble_fl", "surface_rumble_fr", "surface_rumble_rl", "surface_rumble_rr",
	"tire_slip_angle_fl", "tire_slip_angle_fr", "tire_slip_angle_rl", "tire_slip_angle_rr",
	"tire_comb_slip_fl", "tire_comb_slip_fr", "tire_comb_slip_rl", "tire_comb_slip_rr",
	"susp_travel_m_fl", "susp_travel_m_fr", "susp_travel_m_rl", "susp_travel_m_rr",
	"car_ordinal", "car_class", "car_perf_index", "drivetrain_type", "num_cylinders",
	"position_x", "position_y", "position_z",
	"speed", "power", "torque",
	"tire_temp_fl", "tire_temp_fr", "tire_temp_rl", "tire_temp_rr",
	"boost", "fuel", "distance_traveled", "best_lap", "last_lap", "current_lap", "current_race_time",
	"lap_number", "race_position",
	"accel", "brake", "clutch", "handbrake", "gear",
	"steer", "normalized_driving_line", "normalized_ai_brake_diff",
}

// Row converts a packet into a positional row matching Columns.
func Row(p decoder.Packet) []any {
	return []any{
		p.SessionID,
		p.IsRaceOn, p.TimestampMS,
		p.EngineMaxRPM, p.EngineIdleRPM, p.CurrentEngineRPM,
		p.AccelerationX, p.AccelerationY, p.AccelerationZ,
		p.VelocityX, p.VelocityY, p.VelocityZ,
		p.AngularVelocityX, p.AngularVelocityY, p.AngularVelocityZ,
		p.Yaw, p.Pitch, p.Roll,
		p.NormSuspTravelFL, p.NormSuspTravelFR, p.NormSuspTravelRL, p.NormSuspTravelRR,
		p.TireSlipRatioFL, p.TireSlipRatioFR, p.TireSlipRatioRL, p.TireSlipRatioRR,
		p.WheelRotSpeedFL, p.WheelRotSpeedFR, p.WheelRotSpeedRL, p.WheelRotSpeedRR,
		p.WheelOnRumbleFL, p.WheelOnRumbleFR, p.WheelOnRumbleRL, p.WheelOnRumbleRR,
		p.WheelInPuddleFL, p.WheelInPuddleFR, p.WheelInPuddleRL, p.WheelInPuddleRR,
		p.SurfaceRumbleFL, p.SurfaceRumbleFR, p.SurfaceRumbleRL, p.SurfaceRumbleRR,
		p.TireSlipAngleFL, p.TireSlipAngleFR, p.TireSlipAngleRL, p.TireSlipAngleRR,
		p.TireCombSlipFL, p.TireCombSlipFR, p.TireCombSlipRL, p.TireCombSlipRR,
		p.SuspTravelMFL, p.SuspTravelMFR, p.SuspTravelMRL, p.SuspTravelMRR,
		p.CarOrdinal, p.CarClass, p.CarPerfIndex, p.DrivetrainType, p.NumCylinders,
		p.PositionX, p.PositionY, p.PositionZ,
		p.Speed, p.Power, p.Torque,
		p.TireTempFL, p.TireTempFR, p.TireTempRL, p.TireTempRR,
		p.Boost, p.Fuel, p.DistanceTraveled, p.BestLap, p.LastLap, p.CurrentLap, p.CurrentRaceTime,
		p.LapNumber, p.RacePosition,
		p.Accel, p.Brake, p.Clutch, p.HandBrake, p.Gear,
		p.Steer, p.NormalizedDrivingLine, p.NormalizedAIBrakeDiff,
	}
}
