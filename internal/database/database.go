package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"skatebook/internal/config"
	"skatebook/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Connection-scoped settings go in the DSN so every pooled connection gets
// them; a PRAGMA issued through db.Exec only reaches one connection.
var dsnParams = [][2]string{
	{"_foreign_keys", "on"},
	{"_busy_timeout", "5000"},
	{"_txlock", "immediate"},
	{"_journal_mode", "WAL"},
	{"_synchronous", "NORMAL"},
	{"_cache_size", "-64000"},
}

func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	log := logger.With().Str("component", "database").Str("path", cfg.DBPath).Logger()
	log.Info().Msg("opening database")

	db, err := sql.Open("sqlite3", dsn(cfg.DBPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	if err := checkPragmas(ctx, db, log); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(ctx, db, log); err != nil {
		log.Error().Err(err).Msg("failed to run migrations")
		db.Close()
		return nil, err
	}

	log.Info().Msg("database ready")
	return db, nil
}

func dsn(path string) string {
	params := make([]string, len(dsnParams))
	for i, p := range dsnParams {
		params[i] = p[0] + "=" + url.QueryEscape(p[1])
	}
	query := strings.Join(params, "&")
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return "file:" + path + "?" + query
}

// checkPragmas reads back the settings that must hold for constraint
// translation and concurrent writers to behave.
func checkPragmas(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	var foreignKeys int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if foreignKeys != 1 {
		return errors.New("foreign keys are disabled")
	}

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to read journal_mode pragma: %w", err)
	}
	log.Debug().Str("journal_mode", journalMode).Int("foreign_keys", foreignKeys).Msg("sqlite pragmas")
	return nil
}

func migrate(ctx context.Context, db *sql.DB, log zerolog.Logger) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("migration applied")
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info().Int64("version", version).Int("applied", len(results)).Msg("migrations complete")
	return nil
}
