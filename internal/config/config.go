// Package config loads service configuration with koanf: struct defaults,
// then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names a YAML config file to load.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// Catalog drivers.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Spotify  SpotifyConfig  `koanf:"spotify"`
	Live     LiveConfig     `koanf:"live"`
	Playlist PlaylistConfig `koanf:"playlist"`
}

type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	// RateLimitRequests per RateLimitWindow per client IP; 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type CatalogConfig struct {
	Driver         string `koanf:"driver"`
	Path           string `koanf:"path"`
	DefaultCount   int    `koanf:"default_count"`
	MaxCount       int    `koanf:"max_count"`
	RandomFallback bool   `koanf:"random_fallback"`
}

type SpotifyConfig struct {
	BaseURL            string        `koanf:"base_url"`
	TokenURL           string        `koanf:"token_url"`
	ClientID           string        `koanf:"client_id"`
	ClientSecret       string        `koanf:"client_secret"`
	MaxRetries         int           `koanf:"max_retries"`
	RetryBackoff       time.Duration `koanf:"retry_backoff"`
	Timeout            time.Duration `koanf:"timeout"`
	RequestsPerSecond  float64       `koanf:"requests_per_second"`
	Burst              int           `koanf:"burst"`
	SynthesizeFeatures bool          `koanf:"synthesize_features"`
}

type LiveConfig struct {
	HistoryLimit        int    `koanf:"history_limit"`
	SummaryRecentTracks int    `koanf:"summary_recent_tracks"`
	SeededCap           int    `koanf:"seeded_cap"`
	TopArtists          int    `koanf:"top_artists"`
	TracksPerArtist     int    `koanf:"tracks_per_artist"`
	TopGenres           int    `koanf:"top_genres"`
	TracksPerGenre      int    `koanf:"tracks_per_genre"`
	RecentSeeds         int    `koanf:"recent_seeds"`
	TracksPerSeed       int    `koanf:"tracks_per_seed"`
	Market              string `koanf:"market"`
	DedupeAcrossSources bool   `koanf:"dedupe_across_sources"`
}

type PlaylistConfig struct {
	SuggestionSeeds    int    `koanf:"suggestion_seeds"`
	DefaultSuggestions int    `koanf:"default_suggestions"`
	ClusterSize        int    `koanf:"cluster_size"`
	DefaultClusterName string `koanf:"default_cluster_name"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Catalog: CatalogConfig{
			Driver:       DriverCSV,
			Path:         "data/data.csv",
			DefaultCount: 10,
			MaxCount:     100,
		},
		Spotify: SpotifyConfig{
			BaseURL:           "https://api.spotify.com/v1",
			TokenURL:          "https://accounts.spotify.com/api/token",
			MaxRetries:        3,
			RetryBackoff:      500 * time.Millisecond,
			Timeout:           10 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Live: LiveConfig{
			HistoryLimit:        50,
			SummaryRecentTracks: 5,
			SeededCap:           20,
			TopArtists:          5,
			TracksPerArtist:     3,
			TopGenres:           3,
			TracksPerGenre:      5,
			RecentSeeds:         5,
			TracksPerSeed:       5,
			Market:              "US",
		},
		Playlist: PlaylistConfig{
			SuggestionSeeds:    5,
			DefaultSuggestions: 10,
			ClusterSize:        10,
			DefaultClusterName: "Clustered Playlist",
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_PATH (or found in DefaultConfigPaths) and environment variables,
// then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"http_host":                "server.host",
	"http_port":                "server.port",
	"read_header_timeout":      "server.read_header_timeout",
	"shutdown_timeout":         "server.shutdown_timeout",
	"rate_limit_requests":      "server.rate_limit_requests",
	"rate_limit_window":        "server.rate_limit_window",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
	"catalog_driver":           "catalog.driver",
	"catalog_path":             "catalog.path",
	"catalog_default_count":    "catalog.default_count",
	"catalog_max_count":        "catalog.max_count",
	"catalog_random_fallback":  "catalog.random_fallback",
	"spotify_base_url":         "spotify.base_url",
	"spotify_token_url":        "spotify.token_url",
	"spotify_client_id":        "spotify.client_id",
	"spotify_client_secret":    "spotify.client_secret",
	"spotify_max_retries":      "spotify.max_retries",
	"spotify_retry_backoff":    "spotify.retry_backoff",
	"spotify_timeout":          "spotify.timeout",
	"spotify_rps":              "spotify.requests_per_second",
	"spotify_burst":            "spotify.burst",
	"spotify_synthesize":       "spotify.synthesize_features",
	"live_history_limit":       "live.history_limit",
	"live_seeded_cap":          "live.seeded_cap",
	"live_market":              "live.market",
	"live_dedupe":              "live.dedupe_across_sources",
	"playlist_cluster_size":    "playlist.cluster_size",
	"playlist_suggestion_size": "playlist.default_suggestions",
}

// envTransformFunc maps known environment variables to config paths.
// Unmapped variables are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
