package main

import (
	"bytes"
	"testing"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueToken(t *testing.T) {
	cfg := config.Config{JWT: config.JWTConfig{AccessSecret: "s3cret", AccessExpiresIn: time.Minute}}
	uid := uuid.New()

	tok, err := issueToken(cfg, uid.String(), jwt.RoleAdmin, 0)
	require.NoError(t, err)
	c, err := jwt.NewHMACService("s3cret", time.Minute).ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uid, c.UserID)
	assert.True(t, c.IsAdmin())

	_, err = issueToken(cfg, "", "root", 0)
	assert.ErrorContains(t, err, "unknown role")
	_, err = issueToken(cfg, "nope", jwt.RoleUser, 0)
	assert.ErrorContains(t, err, "invalid --user")
}

func TestRootCmd_ListsSubcommands(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, appName, cmd.Use)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{"serve", "ensure-default", "migrate", "sweep", "seed", "issue-token"} {
		assert.Contains(t, out.String(), name)
	}
}
