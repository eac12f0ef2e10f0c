package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antaww/uta/internal/adapters/csvcatalog"
	"github.com/antaww/uta/internal/adapters/rest"
	"github.com/antaww/uta/internal/adapters/spotify"
	"github.com/antaww/uta/internal/adapters/sqlite"
	"github.com/antaww/uta/internal/config"
	"github.com/antaww/uta/internal/core/catalog"
	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/live"
	"github.com/antaww/uta/internal/core/ports"
	"github.com/antaww/uta/internal/core/services"
	"github.com/antaww/uta/internal/logging"
	"github.com/antaww/uta/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("uta api stopped")
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapters
	store, err := loadCatalog(ctx, cfg.Catalog)
	if err != nil {
		return err
	}
	metrics.CatalogRows.Set(float64(store.Len()))
	logging.Info().Int("rows", store.Len()).Str("driver", cfg.Catalog.Driver).Msg("catalog loaded")

	sp := cfg.Spotify
	spotifyClient := spotify.NewClient(spotify.Config{
		BaseURL:                   sp.BaseURL,
		TokenURL:                  sp.TokenURL,
		ClientID:                  sp.ClientID,
		ClientSecret:              sp.ClientSecret,
		MaxRetries:                sp.MaxRetries,
		RetryBackoff:              sp.RetryBackoff,
		Timeout:                   sp.Timeout,
		RequestsPerSecond:         sp.RequestsPerSecond,
		Burst:                     sp.Burst,
		SynthesizeMissingFeatures: sp.SynthesizeFeatures,
	}, nil)

	var artists ports.ArtistSearcher
	if sp.ClientID != "" {
		artists = spotifyClient
	} else {
		logging.Warn().Msg("spotify client credentials not set, artist search disabled")
	}

	// 3. Core services
	lc := cfg.Live
	catalogSvc := services.NewCatalogRecommender(store, services.CatalogOptions{
		DefaultCount:   cfg.Catalog.DefaultCount,
		MaxCount:       cfg.Catalog.MaxCount,
		RandomFallback: cfg.Catalog.RandomFallback,
	})
	liveSvc := services.NewLiveRecommender(artists, services.LiveOptions{
		HistoryLimit:        lc.HistoryLimit,
		SummaryRecentTracks: lc.SummaryRecentTracks,
		SeededCap:           lc.SeededCap,
		Aggregation: live.Options{
			TopArtists:          lc.TopArtists,
			TracksPerArtist:     lc.TracksPerArtist,
			TopGenres:           lc.TopGenres,
			TracksPerGenre:      lc.TracksPerGenre,
			RecentSeeds:         lc.RecentSeeds,
			TracksPerSeed:       lc.TracksPerSeed,
			Market:              lc.Market,
			DedupeAcrossSources: lc.DedupeAcrossSources,
		},
	})
	pc := cfg.Playlist
	curator := services.NewPlaylistCurator(services.PlaylistOptions{
		SuggestionSeeds:    pc.SuggestionSeeds,
		DefaultSuggestions: pc.DefaultSuggestions,
		ClusterSize:        pc.ClusterSize,
		DefaultClusterName: pc.DefaultClusterName,
		Market:             lc.Market,
	}, nil)

	// 4. Driving adapter
	handler := rest.NewHandler(catalogSvc, liveSvc, curator, services.NewLibrary(), spotifyClient, rest.Config{
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.Server.RateLimitWindow,
	})

	// 5. Serve until interrupted
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("uta api listening")
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// loadCatalog reads the catalog table with the configured driver and builds
// the in-memory store.
func loadCatalog(ctx context.Context, cfg config.CatalogConfig) (*catalog.Store, error) {
	var source ports.CatalogSource
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewAdapter(cfg.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		source = db
	default:
		source = csvcatalog.NewLoader(cfg.Path)
	}

	tracks, err := source.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.NewStore(domain.CatalogSchema, tracks)
}
