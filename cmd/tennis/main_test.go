package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/game/card"
	"github.com/palemoky/tennis/internal/player"
	"github.com/palemoky/tennis/internal/rating"
	"github.com/palemoky/tennis/internal/storage"
)

// writeConfig keeps the log file inside the test directory.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "simulation:\n  pairs: 5\n  games: 2\n  workers: 2\n  trump: none\n" +
		"players:\n  leaders: [random, passive]\n" +
		"log:\n  dir: " + dir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestStrategies(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runStrategies(context.Background(), nil, &out))
	assert.Equal(t, strings.Join(player.Names(), "\n")+"\n", out.String())
}

func TestRound(t *testing.T) {
	cfg := writeConfig(t)

	var out bytes.Buffer
	err := runRound(context.Background(), []string{"-config", cfg, "-seed", "3", "-leader", "aggressive", "-dealer", "passive"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "seed 3")
	assert.Contains(t, s, "Trump suit: -")
	assert.Contains(t, s, "trick 12:")
	assert.Contains(t, s, "leader aggressive")
	assert.Contains(t, s, "dealer passive")
}

func TestRound_UnknownStrategy(t *testing.T) {
	cfg := writeConfig(t)
	err := runRound(context.Background(), []string{"-config", cfg, "-leader", "nope"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "nope")
}

func TestDual(t *testing.T) {
	cfg := writeConfig(t)

	var out bytes.Buffer
	err := runDual(context.Background(), []string{"-config", cfg, "-seed", "9", "-a", "aggressive", "-b", "goal-tracking"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "10 rounds, aggressive vs goal-tracking")
	assert.Contains(t, s, "chi-squared")
	assert.Contains(t, s, "Elo ratings:")
}

func TestRoundRobin(t *testing.T) {
	cfg := writeConfig(t)

	var out bytes.Buffer
	err := runRoundRobin(context.Background(), []string{"-config", cfg, "-seed", "4"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 rounds per pairing")
}

func TestHelp(t *testing.T) {
	err := runDual(context.Background(), []string{"-h"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestParseSeat(t *testing.T) {
	s, err := parseSeat("Dealer")
	require.NoError(t, err)
	assert.Equal(t, game.Dealer, s)

	s, err = parseSeat("l")
	require.NoError(t, err)
	assert.Equal(t, game.Leader, s)

	_, err = parseSeat("north")
	assert.Error(t, err)
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"random", "passive"}, splitNames(" random, ,passive "))
	assert.Nil(t, splitNames(""))
}

func TestRun_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	boom := command{run: func(context.Context, []string, io.Writer) error {
		panic("boom")
	}}
	err := run(context.Background(), boom, nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, buf.String(), "[PANIC] boom")
	assert.Contains(t, buf.String(), "goroutine")

	// no panic, the command's own result comes back
	err = run(context.Background(), commands["strategies"], nil, &bytes.Buffer{})
	assert.NoError(t, err)
}

func TestRecordMatch(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &env{
		ratings: rating.NewTable(rating.DefaultStart, rating.DefaultK),
		board:   storage.NewLeaderboard(client),
	}
	ctx := context.Background()
	m, err := game.PlayMatch(ctx, game.MatchConfig{
		A:     func(rng *rand.Rand) game.Strategy { return player.NewAggressive(rng) },
		B:     func(*rand.Rand) game.Strategy { return player.NewPassive() },
		Trump: card.Diamond,
		Rand:  rand.New(rand.NewPCG(11, 11)),
	})
	require.NoError(t, err)

	e.recordMatch(ctx, m)
	require.NoError(t, e.recordErr())

	standings := e.ratings.Standings()
	require.Len(t, standings, 2)
	for _, s := range standings {
		assert.Equal(t, 2, s.Games, s.Name)
	}
	for _, name := range []string{"aggressive", "passive"} {
		s, err := e.board.GetStats(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, s, name)
		assert.Equal(t, 2, s.Rounds)
	}
	recent, err := e.board.RecentRounds(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// the first storage error is kept, the ratings still move
	mr.Close()
	e.recordMatch(ctx, m)
	assert.Error(t, e.recordErr())
	assert.Equal(t, 4, e.ratings.Standings()[0].Games)
}
