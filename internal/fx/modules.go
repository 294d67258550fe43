package fx

import (
	"database/sql"

	"skatebook/internal/config"
	"skatebook/internal/database"
	"skatebook/internal/db"
	"skatebook/internal/logger"
	"skatebook/internal/metrics"
	"skatebook/internal/repository"
	"skatebook/internal/scoring"
	"skatebook/internal/server"
	"skatebook/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideScoringSource(cfg *config.Config) scoring.Source {
	return scoring.NewSource(cfg.SimulationSeed)
}

// ProvideMetrics adds runtime and process collectors next to the domain series.
func ProvideMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(metrics.WithRegistry(registry))
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(ProvideMetrics),
	fx.Provide(ProvideScoringSource),
	// repos
	fx.Provide(repository.NewSkaterRepository),
	fx.Provide(repository.NewElementRepository),
	fx.Provide(repository.NewProgramRepository),
	fx.Provide(repository.NewCompetitionRepository),
	fx.Provide(repository.NewExecutionRepository),
	fx.Provide(repository.NewProfileRepository),
	fx.Provide(repository.NewStatusRepository),
	fx.Provide(repository.NewFriendRepository),
	fx.Provide(repository.NewVoterRepository),
	// svc
	fx.Provide(service.NewSimulationService),
	fx.Provide(service.NewSkaterService),
	fx.Provide(service.NewElementService),
	fx.Provide(service.NewProgramService),
	fx.Provide(service.NewCompetitionService),
	fx.Provide(service.NewSocialService),
	fx.Provide(service.NewVoterService),
	// server
	fx.Provide(server.NewSkatingServer),
	fx.Provide(server.NewSocialServer),
	fx.Provide(server.NewVoterServer),
	fx.Provide(server.NewHandler),
)
