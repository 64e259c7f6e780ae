package integration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/test/integration/harness"
)

func TestOfflinePurchaseSettlesAfterLogin(t *testing.T) {
	server := harness.StartGameServer(t)
	env := harness.NewTestEnvironment(t)
	env.UseServer(server)

	result := harness.RunCommand(t, env, "buy", "2", "--price", "10")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Queued")
	harness.AssertStdoutNotContains(t, result, "Committed")

	queued := harness.ReadQueue(t, env)
	require.Len(t, queued, 1)
	assert.Equal(t, "buy", queued[0].Kind)
	assert.Equal(t, "/market/buy", queued[0].Path)

	result = harness.RunCommand(t, env, "status", "--format", "json")
	harness.AssertSuccess(t, result)
	harness.AssertJSONContains(t, result, "balance", float64(90))
	harness.AssertJSONContains(t, result, "pending", float64(1))

	result = harness.RunCommand(t, env, "login", "--token", server.Token(time.Hour))
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "authenticated")

	harness.AssertSettledAs(t, env, queued[0].IdempotencyKey, "committed")
	assert.Len(t, harness.ReadLedger(t, env), 1)
	assert.Empty(t, harness.ReadQueue(t, env))

	assert.Equal(t, int64(90), server.Balance(harness.TestEmail))
	assert.Equal(t, map[int]int{2: 1}, server.Inventory(harness.TestEmail))
	assert.True(t, server.Committed(queued[0].IdempotencyKey))
}

func TestRejectedPurchaseRollsBack(t *testing.T) {
	server := harness.StartGameServer(t)
	server.SetBalance(harness.TestEmail, 0)
	env := harness.NewTestEnvironment(t)
	env.UseServer(server)

	result := harness.RunCommand(t, env, "buy", "1", "--price", "50")
	harness.AssertSuccess(t, result)

	result = harness.RunCommand(t, env, "login", "--token", server.Token(time.Hour))
	harness.AssertSuccess(t, result)

	records := harness.ReadLedger(t, env)
	require.Len(t, records, 1)
	record := harness.AssertSettledAs(t, env, records[0].IdempotencyKey, "rolled_back")
	assert.Equal(t, "Insufficient funds", record.Reason)

	result = harness.RunCommand(t, env, "status", "--format", "json")
	harness.AssertSuccess(t, result)
	harness.AssertJSONContains(t, result, "balance", float64(100))
	harness.AssertJSONContains(t, result, "queued", float64(0))
}

func TestLoginWithPassword(t *testing.T) {
	server := harness.StartGameServer(t)
	env := harness.NewTestEnvironment(t)
	env.UseServer(server)
	env.SetEnv("OUTPOST_PASSWORD", harness.TestPassword)

	result := harness.RunCommand(t, env, "login", "--email", harness.TestEmail)
	harness.AssertSuccess(t, result)

	result = harness.RunCommand(t, env, "status", "--format", "json")
	harness.AssertSuccess(t, result)
	harness.AssertJSONContains(t, result, "mode", "authenticated")
	harness.AssertJSONContains(t, result, "email", harness.TestEmail)
}

func TestLoginWithWrongPasswordFails(t *testing.T) {
	server := harness.StartGameServer(t)
	env := harness.NewTestEnvironment(t)
	env.UseServer(server)
	env.SetEnv("OUTPOST_PASSWORD", "wrong")

	result := harness.RunCommand(t, env, "login", "--email", harness.TestEmail)
	harness.AssertFailure(t, result)

	result = harness.RunCommand(t, env, "status", "--format", "json")
	harness.AssertSuccess(t, result)
	harness.AssertJSONContains(t, result, "mode", "unauthenticated")
}

func TestSyncRequiresLogin(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "sync")

	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "not signed in")
	harness.AssertStdoutNotContains(t, result, "Replayed")
}

func TestLogoutKeepsQueue(t *testing.T) {
	server := harness.StartGameServer(t)
	env := harness.NewTestEnvironment(t)
	env.UseServer(server)

	harness.AssertSuccess(t, harness.RunCommand(t, env, "offline"))
	harness.AssertSuccess(t, harness.RunCommand(t, env, "characters", "create", "Aria"))

	result := harness.RunCommand(t, env, "logout")
	harness.AssertSuccess(t, result)
	harness.AssertStdoutContains(t, result, "Logged out")

	result = harness.RunCommand(t, env, "status", "--format", "json")
	harness.AssertSuccess(t, result)
	harness.AssertJSONContains(t, result, "mode", "unauthenticated")
	harness.AssertJSONContains(t, result, "queued", float64(1))
}
