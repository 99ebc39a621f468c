package timescale

// DDL applied by the initializer. Every statement is idempotent so the
// setup can be re-run safely; hypertable conversion is the one call whose
// "already exists" condition needs explicit error handling (see errors.go).

const telemetryTableDDL = `
CREATE TABLE IF NOT EXISTS satellite_telemetry (
	time TIMESTAMPTZ NOT NULL,
	satellite_id TEXT NOT NULL,
	subsystem TEXT NOT NULL,
	parameter TEXT NOT NULL,
	value DOUBLE PRECISION,
	status TEXT,
	metadata JSONB
);`

const orbitTableDDL = `
CREATE TABLE IF NOT EXISTS satellite_orbits (
	time TIMESTAMPTZ NOT NULL,
	satellite_id TEXT NOT NULL,
	position_x DOUBLE PRECISION,
	position_y DOUBLE PRECISION,
	position_z DOUBLE PRECISION,
	velocity_x DOUBLE PRECISION,
	velocity_y DOUBLE PRECISION,
	velocity_z DOUBLE PRECISION,
	metadata JSONB
);`

const maneuverTableDDL = `
CREATE TABLE IF NOT EXISTS satellite_maneuvers (
	id SERIAL PRIMARY KEY,
	satellite_id TEXT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	delta_v_x DOUBLE PRECISION,
	delta_v_y DOUBLE PRECISION,
	delta_v_z DOUBLE PRECISION,
	fuel_used DOUBLE PRECISION,
	success BOOLEAN,
	description TEXT,
	parameters JSONB,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	updated_at TIMESTAMPTZ DEFAULT NOW()
);`

// tableDDL lists table creation statements in application order.
var tableDDL = []string{
	telemetryTableDDL,
	orbitTableDDL,
	maneuverTableDDL,
}

// Hypertables returns the names of the tables converted to time-partitioned
// hypertables. The maneuver table stays a plain table: maneuvers are mutable
// until they reach a terminal status, which hypertables handle poorly.
func Hypertables() []string {
	return []string{"satellite_telemetry", "satellite_orbits"}
}

// indexDDL lists index creation statements, applied after hypertable
// conversion.
var indexDDL = []string{
	`CREATE INDEX IF NOT EXISTS idx_satellite_telemetry_satellite_id ON satellite_telemetry (satellite_id);`,
	`CREATE INDEX IF NOT EXISTS idx_satellite_telemetry_subsystem ON satellite_telemetry (subsystem);`,
	`CREATE INDEX IF NOT EXISTS idx_satellite_telemetry_parameter ON satellite_telemetry (parameter);`,
	`CREATE INDEX IF NOT EXISTS idx_satellite_orbits_satellite_id ON satellite_orbits (satellite_id);`,
	`CREATE INDEX IF NOT EXISTS idx_satellite_maneuvers_satellite_id ON satellite_maneuvers (satellite_id);`,
	`CREATE INDEX IF NOT EXISTS idx_satellite_maneuvers_status ON satellite_maneuvers (status);`,
}

// Tables returns the names of the tables the initializer creates.
func Tables() []string {
	return []string{"satellite_telemetry", "satellite_orbits", "satellite_maneuvers"}
}
