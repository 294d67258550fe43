package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"skatebook/internal/config"
	"skatebook/internal/constants"
	fxmodules "skatebook/internal/fx"
	"skatebook/internal/middleware"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	handler http.Handler,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	if cfg.DotEnvErr != nil {
		logger.Debug().Err(cfg.DotEnvErr).Msg(".env file not found, using environment variables or defaults")
	}
	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Uint64("simulation_seed", cfg.SimulationSeed).
		Msg("configuration loaded")

	requestIDMiddleware := middleware.RequestID(logger)
	corsMiddleware := middleware.CORS(cfg.AllowedOrigins())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           corsMiddleware(requestIDMiddleware(handler)),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
