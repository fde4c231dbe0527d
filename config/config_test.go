package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(dir), cfg)
	assert.Equal(t, "docker compose", cfg.ComposeCommand)
	assert.Equal(t, filepath.Join(dir, "srvmaint.log"), cfg.LogFile)
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "composeCommand: docker-compose\nstacksDir: /srv/stacks\nlogLevel: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "docker-compose", cfg.ComposeCommand)
	assert.Equal(t, "/srv/stacks", cfg.StacksDir)
	assert.Equal(t, "/opt/dockge", cfg.DockgeDir)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "stacksDir: [\n"},
		{"bad level", "logLevel: chatty\n"},
		{"relative dir", "dockgeDir: dockge\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o644))

			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestDirHonoursEnv(t *testing.T) {
	t.Setenv(DirEnvKey, "/tmp/srvmaint-test")
	assert.Equal(t, "/tmp/srvmaint-test", Dir())
}
