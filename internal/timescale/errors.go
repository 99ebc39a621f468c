package timescale

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// TimescaleDB reports its own SQLSTATE class; TS110 is raised when
// create_hypertable targets a table that is already a hypertable.
const sqlstateAlreadyHypertable = "TS110"

// IsAlreadyHypertable reports whether err indicates that the target table
// is already a hypertable. It prefers the structured SQLSTATE exposed by
// the driver and falls back to message inspection for servers that surface
// the condition as a generic error.
func IsAlreadyHypertable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == sqlstateAlreadyHypertable {
			return true
		}
		return strings.Contains(pgErr.Message, "already a hypertable")
	}

	return strings.Contains(err.Error(), "already a hypertable")
}
