package config

import (
	"os"
	"time"

	"blitz-quiz-service/internal/app"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		ID  string `yaml:"id"`
		Dir string `yaml:"dir"`
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Game struct {
		TimePerQuestion  int    `yaml:"time_per_question"`
		PointsPerCorrect int    `yaml:"points_per_correct"`
		CoinsPerCorrect  int    `yaml:"coins_per_correct"`
		RevealDelay      string `yaml:"reveal_delay"`
		TickInterval     string `yaml:"tick_interval"`
	} `yaml:"game"`
	Best struct {
		Key string `yaml:"key"`
	} `yaml:"best"`
	WS struct {
		CommandsPerSecond float64 `yaml:"commands_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"ws"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// GameOptions maps the game section onto controller options. Unset or invalid values stay zero;
// the controller fills them from app.DefaultOptions.
func (c Config) GameOptions() app.Options {
	return app.Options{
		TimePerQuestion:  c.Game.TimePerQuestion,
		PointsPerCorrect: c.Game.PointsPerCorrect,
		CoinsPerCorrect:  c.Game.CoinsPerCorrect,
		RevealDelay:      Duration(c.Game.RevealDelay, 0),
		TickInterval:     Duration(c.Game.TickInterval, 0),
	}
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
