package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateSpotify(); err != nil {
		return err
	}
	if err := c.validateLive(); err != nil {
		return err
	}
	return c.validatePlaylist()
}

func (c *Config) validateServer() error {
	s := c.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive")
	}
	if s.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if s.RateLimitRequests < 0 {
		return fmt.Errorf("server.rate_limit_requests must not be negative")
	}
	if s.RateLimitRequests > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	cat := c.Catalog
	if cat.Driver != DriverCSV && cat.Driver != DriverSQLite {
		return fmt.Errorf("catalog.driver must be %q or %q, got %q", DriverCSV, DriverSQLite, cat.Driver)
	}
	if strings.TrimSpace(cat.Path) == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if cat.DefaultCount <= 0 {
		return fmt.Errorf("catalog.default_count must be positive")
	}
	if cat.MaxCount < cat.DefaultCount {
		return fmt.Errorf("catalog.max_count (%d) must be >= catalog.default_count (%d)", cat.MaxCount, cat.DefaultCount)
	}
	return nil
}

func (c *Config) validateSpotify() error {
	s := c.Spotify
	if s.BaseURL == "" {
		return fmt.Errorf("spotify.base_url is required")
	}
	if (s.ClientID == "") != (s.ClientSecret == "") {
		return fmt.Errorf("spotify.client_id and spotify.client_secret must be set together")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("spotify.max_retries must not be negative")
	}
	if s.RetryBackoff < 0 || s.Timeout < 0 {
		return fmt.Errorf("spotify durations must not be negative")
	}
	if s.RequestsPerSecond < 0 || s.Burst < 0 {
		return fmt.Errorf("spotify.requests_per_second and spotify.burst must not be negative")
	}
	return nil
}

func (c *Config) validateLive() error {
	l := c.Live
	if l.HistoryLimit < 1 || l.HistoryLimit > 50 {
		return fmt.Errorf("live.history_limit must be between 1 and 50, got %d", l.HistoryLimit)
	}
	for name, v := range map[string]int{
		"live.seeded_cap":            l.SeededCap,
		"live.top_artists":           l.TopArtists,
		"live.tracks_per_artist":     l.TracksPerArtist,
		"live.top_genres":            l.TopGenres,
		"live.tracks_per_genre":      l.TracksPerGenre,
		"live.recent_seeds":          l.RecentSeeds,
		"live.tracks_per_seed":       l.TracksPerSeed,
		"live.summary_recent_tracks": l.SummaryRecentTracks,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if l.SeededCap == 0 {
		return fmt.Errorf("live.seeded_cap must be positive")
	}
	return nil
}

func (c *Config) validatePlaylist() error {
	p := c.Playlist
	if p.SuggestionSeeds < 1 || p.SuggestionSeeds > 5 {
		return fmt.Errorf("playlist.suggestion_seeds must be between 1 and 5, got %d", p.SuggestionSeeds)
	}
	if p.DefaultSuggestions <= 0 || p.ClusterSize <= 0 {
		return fmt.Errorf("playlist.default_suggestions and playlist.cluster_size must be positive")
	}
	return nil
}
