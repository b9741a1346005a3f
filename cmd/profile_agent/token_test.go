package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-optimizer/internal/config"
	"github.com/jonathan/profile-optimizer/internal/server"
)

func runToken(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"token"}, args...))
	err := cmd.ExecuteContext(t.Context())
	return strings.TrimSpace(out.String()), err
}

func TestTokenCommand(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "cli-test-secret")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	userID := uuid.New()
	token, err := runToken(t, "--subject", userID.String())
	require.NoError(t, err)

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
}

func TestTokenCommand_GeneratesSubject(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET", "cli-test-secret")

	token, err := runToken(t)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestTokenCommand_Errors(t *testing.T) {
	isolateEnv(t)

	_, err := runToken(t)
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "cli-test-secret")
	_, err = runToken(t, "--subject", "bob")
	assert.ErrorContains(t, err, "invalid subject")
}
