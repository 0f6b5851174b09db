package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/config"
)

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := map[string]bool{
		"":                false,
		"localhost":       false,
		"LOCALHOST ":      false,
		"127.0.0.1":       false,
		"::1":             false,
		"db.local":        false,
		"10.0.0.5":        true,
		"db.example.com":  true,
		"postgres":        true,
		"127.0.0.2":       false,
		"2001:db8::1":     true,
		"booking-db.prod": true,
	}
	for host, want := range tests {
		assert.Equal(t, want, isLikelyRemoteHost(host), host)
	}
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags("migrate", nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	opts, err = parseMigrateFlags("migrate", []string{"--timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags("migrate", []string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestParseDBResetFlags(t *testing.T) {
	opts, err := parseDBResetFlags([]string{"--yes", "--seed", "--allow-remote"})
	require.NoError(t, err)
	assert.True(t, opts.Yes)
	assert.True(t, opts.Seed)
	assert.True(t, opts.AllowRemote)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)
}

func TestParseExpireFlags(t *testing.T) {
	opts, err := parseExpireFlags([]string{"--batch-size", "50"})
	require.NoError(t, err)
	assert.Equal(t, 50, opts.BatchSize)
	assert.Equal(t, defaultExpireTimeout, opts.Timeout)

	_, err = parseExpireFlags([]string{"--batch-size", "-1"})
	require.Error(t, err)
}

func TestParseInvalidateFlags(t *testing.T) {
	opts, err := parseInvalidateFlags([]string{"--job-id", "3, 7,,9"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7, 9}, opts.JobIDs)

	_, err = parseInvalidateFlags(nil)
	require.ErrorContains(t, err, "--job-id is required")

	_, err = parseInvalidateFlags([]string{"--job-id", "abc"})
	require.ErrorContains(t, err, `invalid job id "abc"`)

	_, err = parseInvalidateFlags([]string{"--job-id", "0"})
	require.Error(t, err)
}

func TestGuardRemoteHostRefusesWithoutFlag(t *testing.T) {
	cmdCtx := &commandContext{Config: config.AppConfig{Postgres: config.DBConfig{Host: "db.example.com"}}}
	remote, err := guardRemoteHost(cmdCtx, false, "seed")
	assert.True(t, remote)
	require.ErrorContains(t, err, "--allow-remote")

	cmdCtx.Config.Postgres.Host = "localhost"
	remote, err = guardRemoteHost(cmdCtx, false, "seed")
	assert.False(t, remote)
	require.NoError(t, err)
}

func TestRequireRemoteHostConfirmation(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, requireRemoteHostConfirmation(strings.NewReader("db.example.com\n"), &out, "reset", "db.example.com"))
	assert.Contains(t, out.String(), "does not look like a local address")

	out.Reset()
	err := requireRemoteHostConfirmation(strings.NewReader("nope\n"), &out, "reset", "db.example.com")
	require.Error(t, err)
	assert.Contains(t, out.String(), "Remote safeguard check failed")
}

func TestConfirmFrom(t *testing.T) {
	local := dbResetConfirmOptions{target: "database \"booking\""}

	var out bytes.Buffer
	require.NoError(t, confirmFrom(strings.NewReader("y\n"), &out, local, "reset database schema"))
	assert.Contains(t, out.String(), `About to reset database schema for database "booking".`)

	require.Error(t, confirmFrom(strings.NewReader("\n"), &out, local, "reset"))
	require.Error(t, confirmFrom(strings.NewReader(""), &out, local, "reset"))

	local.yes = true
	out.Reset()
	require.NoError(t, confirmFrom(strings.NewReader(""), &out, local, "reset"))
	assert.Empty(t, out.String())

	remote := dbResetConfirmOptions{yes: true, remoteHost: "db.example.com"}
	assert.False(t, remote.IsYes())
	assert.Contains(t, remote.GetWarning(), "appears to be remote")
}

func TestCommandsAreNamedConsistently(t *testing.T) {
	for key, cmd := range commands() {
		assert.Equal(t, key, cmd.name)
		assert.NotEmpty(t, cmd.description, key)
		assert.NotNil(t, cmd.run, key)
	}
}
