package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// QueueEntry is one row of `outpost queue --format json`
type QueueEntry struct {
	IdempotencyKey string `json:"idempotency_key"`
	Kind           string `json:"kind"`
	Path           string `json:"path"`
}

// LedgerEntry is one row of `outpost ledger --format json`
type LedgerEntry struct {
	IdempotencyKey string `json:"idempotency_key"`
	Kind           string `json:"kind"`
	Reason         string `json:"reason"`
	Status         string `json:"status"`
}

// AssertSuccess verifies the command exited 0.
func AssertSuccess(tb testing.TB, result CommandResult) {
	tb.Helper()
	AssertExitCode(tb, result, 0)
}

// AssertFailure verifies the command exited non-zero.
func AssertFailure(tb testing.TB, result CommandResult) {
	tb.Helper()
	assert.NotEqual(tb, 0, result.ExitCode,
		"outpost succeeded but should have failed.\nStdout: %s", result.Stdout)
}

// AssertExitCode verifies the exit code, printing both streams on mismatch.
func AssertExitCode(tb testing.TB, result CommandResult, expected int) {
	tb.Helper()
	assert.Equal(tb, expected, result.ExitCode,
		"outpost exit code %d, want %d.\nStdout: %s\nStderr: %s",
		result.ExitCode, expected, result.Stdout, result.Stderr)
}

// AssertStdoutContains verifies stdout contains expected.
func AssertStdoutContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stdout, expected, "stdout: %s", result.Stdout)
}

// AssertStdoutNotContains verifies stdout does not contain unexpected.
func AssertStdoutNotContains(tb testing.TB, result CommandResult, unexpected string) {
	tb.Helper()
	assert.NotContains(tb, result.Stdout, unexpected, "stdout: %s", result.Stdout)
}

// AssertStderrContains verifies stderr contains expected.
func AssertStderrContains(tb testing.TB, result CommandResult, expected string) {
	tb.Helper()
	assert.Contains(tb, result.Stderr, expected, "stderr: %s", result.Stderr)
}

// AssertValidJSON unmarshals stdout into target.
func AssertValidJSON(tb testing.TB, result CommandResult, target any) {
	tb.Helper()
	require.NoError(tb, json.Unmarshal([]byte(result.Stdout), target),
		"stdout is not JSON: %s", result.Stdout)
}

// AssertJSONContains verifies a top-level key of the JSON object on stdout.
// Numbers decode as float64.
func AssertJSONContains(tb testing.TB, result CommandResult, key string, expected any) {
	tb.Helper()
	var data map[string]any
	AssertValidJSON(tb, result, &data)
	assert.Equal(tb, expected, data[key], "JSON key %q", key)
}

// ReadQueue lists the requests waiting in env's queue, oldest first.
func ReadQueue(tb testing.TB, env *TestEnvironment) []QueueEntry {
	tb.Helper()
	result := RunCommand(tb, env, "queue", "--format", "json")
	AssertSuccess(tb, result)
	var entries []QueueEntry
	AssertValidJSON(tb, result, &entries)
	return entries
}

// ReadLedger lists env's transaction records, oldest first.
func ReadLedger(tb testing.TB, env *TestEnvironment) []LedgerEntry {
	tb.Helper()
	result := RunCommand(tb, env, "ledger", "--format", "json")
	AssertSuccess(tb, result)
	var entries []LedgerEntry
	AssertValidJSON(tb, result, &entries)
	return entries
}

// AssertSettledAs verifies the ledger holds key with the given status and
// returns its record.
func AssertSettledAs(tb testing.TB, env *TestEnvironment, key, status string) LedgerEntry {
	tb.Helper()
	for _, entry := range ReadLedger(tb, env) {
		if entry.IdempotencyKey == key {
			assert.Equal(tb, status, entry.Status, "transaction %s", key)
			return entry
		}
	}
	require.Failf(tb, "transaction not in ledger", "key %s", key)
	return LedgerEntry{}
}
