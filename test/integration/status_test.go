package integration_test

import (
	"testing"

	"github.com/renato0307/outpost/test/integration/harness"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, env *harness.TestEnvironment)
		wantExitCode int
		validate     func(t *testing.T, result harness.CommandResult)
	}{
		{
			name:         "fresh home is unauthenticated",
			wantExitCode: 0,
			validate: func(t *testing.T, result harness.CommandResult) {
				harness.AssertJSONContains(t, result, "mode", "unauthenticated")
				harness.AssertJSONContains(t, result, "balance", float64(100))
				harness.AssertJSONContains(t, result, "queued", float64(0))
			},
		},
		{
			name: "offline mode is remembered",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				result := harness.RunCommand(t, env, "offline")
				harness.AssertSuccess(t, result)
				harness.AssertStdoutContains(t, result, "Playing offline")
			},
			wantExitCode: 0,
			validate: func(t *testing.T, result harness.CommandResult) {
				harness.AssertJSONContains(t, result, "mode", "offline")
			},
		},
		{
			name: "starting balance from settings",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteSettings(`{"starting_balance": 250}`)
			},
			wantExitCode: 0,
			validate: func(t *testing.T, result harness.CommandResult) {
				harness.AssertJSONContains(t, result, "balance", float64(250))
			},
		},
		{
			name: "unknown store driver fails",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.SetEnv("OUTPOST_STORE_DRIVER", "postgres")
			},
			wantExitCode: 1,
			validate: func(t *testing.T, result harness.CommandResult) {
				harness.AssertStderrContains(t, result, "invalid configuration")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			if tt.setup != nil {
				tt.setup(t, env)
			}

			result := harness.RunCommand(t, env, "status", "--format", "json")

			harness.AssertExitCode(t, result, tt.wantExitCode)

			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestStatus_TableFormat(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "status")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Session")
	harness.AssertStdoutContains(t, result, "unauthenticated")
	harness.AssertStdoutContains(t, result, "Balance")
}
