package integration_test

import (
	"os"
	"testing"

	"github.com/renato0307/outpost/test/integration/harness"
)

func TestSettingsEdit_CreatesFile(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "settings", "edit", "--editor", "true")

	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Saved")
	if _, err := os.Stat(env.SettingsPath()); err != nil {
		t.Errorf("Expected settings file to exist: %v", err)
	}
}

func TestSettingsEdit_RejectsInvalidFile(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	env.WriteSettings("{not json")

	result := harness.RunCommand(t, env, "settings", "edit", "--editor", "true")

	harness.AssertFailure(t, result)
	harness.AssertStderrContains(t, result, "not valid")
}
