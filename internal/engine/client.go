// Package engine manages the Docker containers that back the llamaspace
// datastores. It wraps the Docker Engine SDK for querying and starting
// containers, and shells out to the docker CLI for container creation.
//
// The engine is best-effort: when no Docker daemon is reachable the
// provisioning pipeline continues under the assumption that the datastores
// are already running elsewhere.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/client"
)

// pingTimeout bounds how long we wait for the Docker daemon to answer a
// ping before falling back to "assume already running".
const pingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client used to query and start the
// datastore containers.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client from the environment (DOCKER_HOST and
// friends), with automatic API version negotiation so the tool works
// against a range of daemon versions.
func NewClient() (*Client, error) {
	c, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &Client{inner: c}, nil
}

// Ping verifies that the Docker daemon is reachable and responsive.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return fmt.Errorf("docker daemon is not responding: %w", err)
	}
	return nil
}

// Close releases all resources held by the Docker client.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the underlying Docker SDK client.
func (c *Client) Inner() *client.Client {
	return c.inner
}
