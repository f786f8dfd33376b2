package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/palemoky/tennis/internal/game/card"
)

const (
	defaultPairs      = 1000
	defaultGames      = 200
	defaultTrump      = "random"
	defaultRedisAddr  = "localhost:6379"
	defaultHost       = "127.0.0.1"
	defaultPort       = 1781
	defaultLogDirName = ".tennis"
)

var (
	defaultDual    = []string{"random", "goal-tracking"}
	defaultLeaders = []string{"random", "average-bid", "aggressive", "passive", "goal-tracking", "pair-planner"}
)

// Config 配置
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Players    PlayersConfig    `yaml:"players"`
	Redis      RedisConfig      `yaml:"redis"`
	API        APIConfig        `yaml:"api"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig 批量模拟配置
type SimulationConfig struct {
	Pairs   int    `yaml:"pairs"`   // dual: 对局数, each two rounds
	Games   int    `yaml:"games"`   // round robin: rounds per pairing
	Workers int    `yaml:"workers"` // 0 = one per CPU
	Seed    uint64 `yaml:"seed"`    // 0 = random
	Trump   string `yaml:"trump"`   // random, none, C, D, H or S
}

// PlayersConfig 参赛策略
type PlayersConfig struct {
	Dual    []string `yaml:"dual"`
	Leaders []string `yaml:"leaders"`
	Dealers []string `yaml:"dealers"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// APIConfig 统计接口配置
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig 日志配置
type LogConfig struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// TrumpSuit parses the trump setting. random is true when every round should draw its own
// trump; otherwise suit is the fixed trump, card.NoTrump for "none".
func (c *SimulationConfig) TrumpSuit() (suit card.Suit, random bool, err error) {
	switch strings.ToLower(strings.TrimSpace(c.Trump)) {
	case "", "random":
		return card.NoTrump, true, nil
	case "none", "nt", "-":
		return card.NoTrump, false, nil
	}
	suit, err = card.ParseSuit(c.Trump)
	return suit, false, err
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if _, _, err := cfg.Simulation.TrumpSuit(); err != nil {
		return nil, fmt.Errorf("simulation.trump: %w", err)
	}
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// 设置默认值
func (c *Config) applyDefaults() {
	if c.Simulation.Pairs == 0 {
		c.Simulation.Pairs = defaultPairs
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = defaultGames
	}
	if c.Simulation.Trump == "" {
		c.Simulation.Trump = defaultTrump
	}
	if len(c.Players.Dual) == 0 {
		c.Players.Dual = append([]string(nil), defaultDual...)
	}
	if len(c.Players.Leaders) == 0 {
		c.Players.Leaders = append([]string(nil), defaultLeaders...)
	}
	if len(c.Players.Dealers) == 0 {
		c.Players.Dealers = append([]string(nil), c.Players.Leaders...)
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.API.Host == "" {
		c.API.Host = defaultHost
	}
	if c.API.Port == 0 {
		c.API.Port = defaultPort
	}
	if c.Log.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Log.Dir = filepath.Join(home, defaultLogDirName)
		} else {
			c.Log.Dir = defaultLogDirName
		}
	}
}

// LoadDotEnv reads KEY=value pairs from the given files (".env" when none) into the process
// environment without overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv 环境变量覆盖: TENNIS_REDIS_ADDR, TENNIS_REDIS_PASSWORD, TENNIS_API_PORT,
// TENNIS_SEED and TENNIS_WORKERS. A set TENNIS_REDIS_ADDR also enables Redis.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TENNIS_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("TENNIS_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("TENNIS_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TENNIS_API_PORT: %w", err)
		}
		c.API.Port = port
	}
	if v := os.Getenv("TENNIS_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TENNIS_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("TENNIS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TENNIS_WORKERS: %w", err)
		}
		c.Simulation.Workers = n
	}
	return nil
}
