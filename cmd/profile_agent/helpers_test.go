package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/gamification"
	"github.com/jonathan/profile-optimizer/internal/types"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

const (
	strongProfile  = "testdata/profile_strong.json"
	weakProfile    = "testdata/profile_weak.json"
	invalidProfile = "testdata/profile_invalid.json"
	eventFile      = "testdata/event.json"
)

// isolateEnv clears variables that would reach real services.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
}

// execute runs the CLI in-process with a fixed clock and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)

	cmd := newRootCmdWith(&rootOptions{clock: gamification.FixedClock{Time: testNow}})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func mustReadProfile(t *testing.T, path string) *types.Profile {
	t.Helper()
	profile, err := readProfile(path)
	require.NoError(t, err)
	return profile
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}
