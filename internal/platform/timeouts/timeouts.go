// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// SeedFetch caps the true-random seed request made at startup.
const SeedFetch = 10 * time.Second

// UpdatePoll is the long-poll window requested from the chat platform.
const UpdatePoll = 60 * time.Second

// Send caps a single reply delivery to the chat platform.
const Send = 10 * time.Second

// GRPCDial caps the wait time when dialing the health endpoint.
const GRPCDial = 2 * time.Second

// Shutdown limits how long a host waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
