package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tennis/internal/game/card"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
simulation:
  pairs: 500
  games: 50
  workers: 4
  seed: 42
  trump: H

players:
  dual: [aggressive, passive]
  leaders: [random, pair-planner]
  dealers: [goal-tracking]

redis:
  enabled: true
  addr: "redis:6379"
  password: "secret"
  db: 1

api:
  host: "0.0.0.0"
  port: 8080

log:
  dir: /tmp/tennis-logs
  debug: true
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 500, cfg.Simulation.Pairs)
	assert.Equal(t, 50, cfg.Simulation.Games)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, []string{"aggressive", "passive"}, cfg.Players.Dual)
	assert.Equal(t, []string{"random", "pair-planner"}, cfg.Players.Leaders)
	assert.Equal(t, []string{"goal-tracking"}, cfg.Players.Dealers)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, "0.0.0.0:8080", cfg.API.Addr())
	assert.Equal(t, "/tmp/tennis-logs", cfg.Log.Dir)
	assert.True(t, cfg.Log.Debug)

	suit, random, err := cfg.Simulation.TrumpSuit()
	require.NoError(t, err)
	assert.False(t, random)
	assert.Equal(t, card.Heart, suit)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidTrump(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "simulation:\n  trump: X\n"))
	assert.ErrorContains(t, err, "simulation.trump")
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, defaultPairs, cfg.Simulation.Pairs)
	assert.Equal(t, defaultGames, cfg.Simulation.Games)
	assert.Equal(t, defaultTrump, cfg.Simulation.Trump)
	assert.Equal(t, defaultDual, cfg.Players.Dual)
	assert.Equal(t, defaultLeaders, cfg.Players.Leaders)
	assert.Equal(t, cfg.Players.Leaders, cfg.Players.Dealers, "dealers default to the leaders")
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, defaultHost, cfg.API.Host)
	assert.Equal(t, defaultPort, cfg.API.Port)
	assert.NotEmpty(t, cfg.Log.Dir)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, defaultPairs, cfg.Simulation.Pairs)
	assert.Equal(t, defaultPort, cfg.API.Port)

	// Defaults are copied, not shared.
	cfg.Players.Dual[0] = "changed"
	assert.Equal(t, "random", defaultDual[0])
}

func TestTrumpSuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		suit    card.Suit
		random  bool
		wantErr bool
	}{
		{"random", card.NoTrump, true, false},
		{"", card.NoTrump, true, false},
		{"none", card.NoTrump, false, false},
		{"NT", card.NoTrump, false, false},
		{"s", card.Spade, false, false},
		{"D", card.Diamond, false, false},
		{"joker", card.NoTrump, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := SimulationConfig{Trump: tt.in}
			suit, random, err := c.TrumpSuit()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.suit, suit)
			assert.Equal(t, tt.random, random)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Not parallel because it modifies environment variables

	t.Setenv("TENNIS_REDIS_ADDR", "env-redis:6380")
	t.Setenv("TENNIS_API_PORT", "9999")
	t.Setenv("TENNIS_SEED", "7")
	t.Setenv("TENNIS_WORKERS", "3")

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 9999, cfg.API.Port)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 3, cfg.Simulation.Workers)
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("TENNIS_API_PORT", "not-a-port")

	err := Default().ApplyEnv()
	assert.ErrorContains(t, err, "TENNIS_API_PORT")
}

func TestLoadDotEnv(t *testing.T) {
	// Not parallel because it modifies environment variables

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TENNIS_SEED=99\nTENNIS_API_PORT=1234\n"), 0o600))
	t.Setenv("TENNIS_API_PORT", "4321")
	t.Setenv("TENNIS_SEED", "")
	require.NoError(t, os.Unsetenv("TENNIS_SEED"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "99", os.Getenv("TENNIS_SEED"))
	assert.Equal(t, "4321", os.Getenv("TENNIS_API_PORT"), "set variables win over the file")
	require.NoError(t, os.Unsetenv("TENNIS_SEED"))
}
