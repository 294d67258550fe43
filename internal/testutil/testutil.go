// Package testutil builds migrated SQLite databases and seed data for tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"skatebook/internal/config"
	"skatebook/internal/database"
	"skatebook/internal/db"
	"skatebook/internal/domain"
	"skatebook/internal/metrics"
	"skatebook/internal/repository"

	"github.com/rs/zerolog"
)

// Env is a migrated database in a temporary directory with every repository
// wired to it.
type Env struct {
	Config  *config.Config
	DB      *sql.DB
	Queries *db.Queries
	Metrics *metrics.Metrics
	Logger  zerolog.Logger

	Skaters      *repository.SkaterRepository
	Elements     *repository.ElementRepository
	Programs     *repository.ProgramRepository
	Competitions *repository.CompetitionRepository
	Executions   *repository.ExecutionRepository
	Profiles     *repository.ProfileRepository
	Statuses     *repository.StatusRepository
	Friends      *repository.FriendRepository
	Voters       *repository.VoterRepository
}

// NewDB opens a fresh file database under t.TempDir and closes it on cleanup.
func NewDB(t testing.TB) (*config.Config, *sql.DB) {
	t.Helper()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "skatebook.db")

	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return cfg, sqlDB
}

func NewEnv(t testing.TB) *Env {
	t.Helper()

	cfg, sqlDB := NewDB(t)
	queries := db.New(sqlDB)
	logger := zerolog.Nop()

	return &Env{
		Config:  cfg,
		DB:      sqlDB,
		Queries: queries,
		Metrics: metrics.New(),
		Logger:  logger,

		Skaters:      repository.NewSkaterRepository(sqlDB, queries, logger),
		Elements:     repository.NewElementRepository(sqlDB, queries, logger),
		Programs:     repository.NewProgramRepository(sqlDB, queries, logger),
		Competitions: repository.NewCompetitionRepository(sqlDB, queries, logger),
		Executions:   repository.NewExecutionRepository(sqlDB, queries, logger),
		Profiles:     repository.NewProfileRepository(sqlDB, queries, logger),
		Statuses:     repository.NewStatusRepository(sqlDB, queries, logger),
		Friends:      repository.NewFriendRepository(sqlDB, queries, logger),
		Voters:       repository.NewVoterRepository(sqlDB, queries, logger),
	}
}

func (e *Env) SeedSkater(t testing.TB, first, last string) domain.Skater {
	t.Helper()

	s := domain.Skater{
		FirstName:   first,
		LastName:    last,
		Nationality: "JPN",
		BirthDate:   time.Date(2000, time.March, 14, 0, 0, 0, 0, time.UTC),
		SkatingClub: "Rink Club",
	}
	if err := e.Skaters.Create(context.Background(), &s); err != nil {
		t.Fatalf("seed skater: %v", err)
	}
	return s
}

func (e *Env) SeedElement(t testing.TB, code string, elementType domain.ElementType, base float64) domain.Element {
	t.Helper()

	el := domain.Element{
		Code:      code,
		Name:      "Element " + code,
		Type:      elementType,
		BaseValue: base,
	}
	if err := e.Elements.Create(context.Background(), &el); err != nil {
		t.Fatalf("seed element %s: %v", code, err)
	}
	return el
}

// Catalogue holds seeded elements by type: 8 jumps, 4 spins, 2 steps and
// 2 choreographic sequences, one more of each than a program needs.
type Catalogue map[domain.ElementType][]domain.Element

func (e *Env) SeedCatalogue(t testing.TB) Catalogue {
	t.Helper()

	counts := []struct {
		Type  domain.ElementType
		Count int
		Base  float64
	}{
		{domain.ElementJump, 8, 4.0},
		{domain.ElementSpin, 4, 3.0},
		{domain.ElementStep, 2, 3.3},
		{domain.ElementChoreo, 2, 3.0},
	}

	c := make(Catalogue)
	for _, row := range counts {
		for i := 0; i < row.Count; i++ {
			code := fmt.Sprintf("%s%d", row.Type[:2], i+1)
			c[row.Type] = append(c[row.Type], e.SeedElement(t, code, row.Type, row.Base+float64(i)/10))
		}
	}
	return c
}

// ValidProgram returns the ids of a 7/3/1/1 composition from the catalogue.
func (c Catalogue) ValidProgram() []string {
	var ids []string
	take := func(t domain.ElementType, n int) {
		for _, el := range c[t][:n] {
			ids = append(ids, el.ID)
		}
	}
	take(domain.ElementJump, 7)
	take(domain.ElementSpin, 3)
	take(domain.ElementStep, 1)
	take(domain.ElementChoreo, 1)
	return ids
}

func (e *Env) SeedCompetition(t testing.TB, name string, date time.Time, skaterIDs ...string) domain.Competition {
	t.Helper()

	c := domain.Competition{
		Name:      name,
		Date:      date,
		Location:  "Sapporo",
		SkaterIDs: skaterIDs,
	}
	if err := e.Competitions.Create(context.Background(), &c); err != nil {
		t.Fatalf("seed competition: %v", err)
	}
	return c
}

func (e *Env) SeedProfile(t testing.TB, first, last string) domain.Profile {
	t.Helper()

	p := domain.Profile{
		FirstName: first,
		LastName:  last,
		City:      "Boston",
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
	}
	if err := e.Profiles.Create(context.Background(), &p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return p
}
