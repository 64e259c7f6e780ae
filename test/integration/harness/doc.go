// Package harness provides utilities for integration testing the outpost CLI.
// It handles binary compilation, environment isolation, a fake game server
// and command execution.
//
// Environment variables managed:
//   - OUTPOST_HOME: Isolated per test (temp directory)
//   - OUTPOST_DEBUG: Disabled to reduce noise
//   - OUTPOST_STORE_DRIVER: Forced to sqlite so state survives between commands
package harness
