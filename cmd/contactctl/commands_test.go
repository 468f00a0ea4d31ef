package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/NomadCrew/portfolio-backend/internal/auth"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "validate", "email", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "email: ok\n", out)

	_, err = run(t, "validate", "name", "J")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name must contain only letters and spaces")

	_, err = run(t, "validate", "phone", "123")
	assert.Error(t, err)
}

func TestProjectsCmd(t *testing.T) {
	out, err := run(t, "projects")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[6], "showing 6 of 12 (All), 6 more")

	out, err = run(t, "projects", "--category", "Hardware")
	require.NoError(t, err)
	assert.Contains(t, out, "(Hardware)")
	assert.NotContains(t, out, "more")
}

func TestTokenCmd(t *testing.T) {
	secret := "contactctl-test-secret-0123456789abcdef"
	out, err := run(t, "token", "--secret", secret, "--subject", "me@example.com")
	require.NoError(t, err)

	claims, err := auth.ValidateOperatorToken(strings.TrimSpace(out), secret)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", claims.Subject)
	assert.Equal(t, auth.OperatorRole, claims.Role)
}

func TestConfigCmdMasksSecrets(t *testing.T) {
	t.Setenv("RESEND_API_KEY", "re_live_secret_value")
	t.Setenv("CONTACT_OWNER_EMAIL", "owner@example.com")

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "owner_email: owner@example.com")
	assert.Contains(t, out, "resend_api_key: re_...")
	assert.NotContains(t, out, "re_live_secret_value")

	out, err = run(t, "config", "--show-secrets")
	require.NoError(t, err)
	assert.Contains(t, out, "re_live_secret_value")
}
