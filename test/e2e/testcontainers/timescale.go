// Package testcontainers provides helpers for starting the datastore
// containers used by the e2e suites.
package testcontainers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TimescaleConfig holds configuration for the TimescaleDB test container.
type TimescaleConfig struct {
	// User is the database user (default: llamaspace)
	User string
	// Password is the database password (default: llamaspace)
	Password string
	// Database is the database name (default: llamaspace_test)
	Database string
}

// StartTimescale starts a TimescaleDB container and returns the container
// plus the mapped host and port.
func StartTimescale(ctx context.Context, config *TimescaleConfig) (testcontainers.Container, string, int, error) {
	if config == nil {
		config = &TimescaleConfig{}
	}
	if config.User == "" {
		config.User = "llamaspace"
	}
	if config.Password == "" {
		config.Password = "llamaspace"
	}
	if config.Database == "" {
		config.Database = "llamaspace_test"
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "timescale/timescaledb:latest-pg14",
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				// The image's init scripts restart the server once, so the
				// readiness line appears twice before the store is usable.
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			),
			Env: map[string]string{
				"POSTGRES_USER":     config.User,
				"POSTGRES_PASSWORD": config.Password,
				"POSTGRES_DB":       config.Database,
			},
		},
		Started: true,
	})
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to start TimescaleDB container: %w", err)
	}

	host, port, err := hostPort(ctx, container, "5432")
	if err != nil {
		return nil, "", 0, terminateOnError(ctx, container, err)
	}
	return container, host, port, nil
}
