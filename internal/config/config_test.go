package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/battleship/internal/game/player"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	resetGlobals()
	path := writeConfig(t, `
game:
  fleet:
    - name: cruiser
      length: 3
    - name: patrol-boat
      length: 2
ai:
  max_placement_attempts: 50
  seed: 1234
match:
  max_turns: 120
logging:
  level: debug
  format: json
cli:
  mode: human
  show_boards: false
`)

	require.NoError(t, Init(path))

	c := Get()
	assert.Equal(t, []player.FleetSpec{{Name: "cruiser", Length: 3}, {Name: "patrol-boat", Length: 2}}, c.Game.FleetSpecs())
	assert.Equal(t, 50, c.AI.MaxPlacementAttempts)
	assert.Equal(t, int64(1234), c.AI.Seed)
	assert.Equal(t, 120, c.Match.MaxTurns)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, ModeHuman, c.CLI.Mode)
	assert.False(t, c.CLI.ShowBoards)
	assert.Equal(t, path, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, player.DefaultFleet(), c.Game.FleetSpecs())
	assert.Equal(t, player.DefaultMaxPlacementAttempts, c.AI.MaxPlacementAttempts)
	assert.Equal(t, int64(0), c.AI.Seed)
	assert.Equal(t, 200, c.Match.MaxTurns)
	assert.Equal(t, 0, c.Match.TurnDelayMs)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, ModeAuto, c.CLI.Mode)
	assert.True(t, c.CLI.ShowBoards)
}

func TestInitExplicitPathErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   func(t *testing.T) string
		errMsg string
	}{
		{
			name:   "missing file",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "typo.yaml") },
			errMsg: "typo.yaml",
		},
		{
			name:   "malformed yaml",
			path:   func(t *testing.T) string { return writeConfig(t, "match:\n  max_turns: [oops\n") },
			errMsg: "error reading config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals()
			err := Init(tt.path(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, cfg, "a failed Init must not install a config")
		})
	}
}

func TestGetInitializesLazily(t *testing.T) {
	resetGlobals()
	assert.NotNil(t, Get())
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()
	t.Setenv("BATTLESHIP_AI_SEED", "99")
	t.Setenv("BATTLESHIP_MATCH_MAX_TURNS", "150")
	t.Setenv("BATTLESHIP_CLI_MODE", "human")

	require.NoError(t, Init(""))

	c := Get()
	assert.Equal(t, int64(99), c.AI.Seed)
	assert.Equal(t, 150, c.Match.MaxTurns)
	assert.Equal(t, ModeHuman, c.CLI.Mode)
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name: "vessel too long",
			content: `
game:
  fleet:
    - name: tanker
      length: 7
`,
			errMsg: "game.fleet",
		},
		{
			name: "zero placement attempts",
			content: `
ai:
  max_placement_attempts: 0
`,
			errMsg: "ai.max_placement_attempts",
		},
		{
			name: "negative delay",
			content: `
match:
  turn_delay_ms: -5
`,
			errMsg: "match.turn_delay_ms",
		},
		{
			name: "unknown log format",
			content: `
logging:
  format: xml
`,
			errMsg: "logging.format",
		},
		{
			name: "unknown mode",
			content: `
cli:
  mode: spectator
`,
			errMsg: "cli.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals()
			err := Init(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	require.NoError(t, Set("cli.mode", ModeHuman))
	require.NoError(t, Set("ai.seed", 7))
	assert.Equal(t, ModeHuman, Get().CLI.Mode)
	assert.Equal(t, int64(7), Get().AI.Seed)

	err := Set("cli.mode", "bogus")
	require.Error(t, err)
	assert.Equal(t, ModeHuman, Get().CLI.Mode, "an invalid override keeps the previous config")
}

func TestSetBeforeInit(t *testing.T) {
	resetGlobals()
	assert.Error(t, Set("ai.seed", 1))
	assert.Empty(t, ConfigFilePath())
}
