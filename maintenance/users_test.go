package maintenance

import (
	"context"
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "_svc", "deploy-bot", "a1_b2"}
	invalid := []string{"", "Alice", "1user", "bad name", "semi;colon", "-dash", "waytoolongusernamewaytoolongusername"}

	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), name)
	}
	for _, name := range invalid {
		assert.Error(t, ValidateUsername(name), name)
	}
}

func TestCreateUser(t *testing.T) {
	th := newTestHost(t)

	require.NoError(t, th.CreateUser(context.Background(), "alice", true))

	assert.Equal(t, []string{
		`adduser --disabled-password --gecos  alice`,
		"usermod -aG sudo alice",
	}, th.runner.Lines())
	assert.Equal(t, []string{"--disabled-password", "--gecos", "", "alice"}, th.runner.Commands()[0].Args)
}

func TestCreateUserExisting(t *testing.T) {
	th := newTestHost(t)
	th.users["alice"] = &user.User{Username: "alice"}

	require.NoError(t, th.CreateUser(context.Background(), "alice", false))

	assert.Empty(t, th.runner.Commands())
	assert.Contains(t, th.out.String(), "already exists")
}

func TestCreateUserRejectsInvalidName(t *testing.T) {
	th := newTestHost(t)

	require.Error(t, th.CreateUser(context.Background(), "root; rm -rf /", true))
	assert.Empty(t, th.runner.Commands())
}
