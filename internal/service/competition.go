package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"skatebook/internal/config"
	"skatebook/internal/constants"
	"skatebook/internal/domain"
	"skatebook/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type CompetitionService struct {
	competitions     *repository.CompetitionRepository
	skaters          *repository.SkaterRepository
	programs         *repository.ProgramRepository
	executions       *repository.ExecutionRepository
	simulator        *SimulationService
	leaderboardLimit int
	logger           zerolog.Logger
}

type CompetitionDetail struct {
	Competition domain.Competition
	Skaters     []domain.Skater
	Results     []repository.Execution
}

func NewCompetitionService(
	cfg *config.Config,
	competitions *repository.CompetitionRepository,
	skaters *repository.SkaterRepository,
	programs *repository.ProgramRepository,
	executions *repository.ExecutionRepository,
	simulator *SimulationService,
	logger zerolog.Logger,
) *CompetitionService {
	return &CompetitionService{
		competitions:     competitions,
		skaters:          skaters,
		programs:         programs,
		executions:       executions,
		simulator:        simulator,
		leaderboardLimit: cfg.LeaderboardLimit,
		logger:           logger,
	}
}

// Create registers the competition with at least one existing skater.
// Repeated skater ids are registered once.
func (s *CompetitionService) Create(ctx context.Context, competition *domain.Competition) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	competition.Name = strings.TrimSpace(competition.Name)
	competition.Location = strings.TrimSpace(competition.Location)

	problems := domain.NewValidationError()
	if competition.Name == "" {
		problems.Add("name is required")
	}
	if competition.Location == "" {
		problems.Add("location is required")
	}
	if competition.Date.IsZero() {
		problems.Add("date is required")
	}

	seen := make(map[string]bool, len(competition.SkaterIDs))
	skaterIDs := competition.SkaterIDs[:0:0]
	for _, id := range competition.SkaterIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		skaterIDs = append(skaterIDs, id)
	}
	if len(skaterIDs) == 0 {
		problems.Add("at least one skater is required")
	}
	if err := problems.OrNil(); err != nil {
		return err
	}
	competition.SkaterIDs = skaterIDs

	for _, id := range skaterIDs {
		if _, err := s.skaters.Get(ctx, id); err != nil {
			return err
		}
	}

	if err := s.competitions.Create(ctx, competition); err != nil {
		s.logger.Error().Err(err).Str("name", competition.Name).Msg("failed to create competition")
		return err
	}

	s.logger.Info().
		Str("competition_id", competition.ID).
		Int("skaters", len(skaterIDs)).
		Msg("competition created")
	return nil
}

// Get returns the competition with its skaters and results, highest score first.
func (s *CompetitionService) Get(ctx context.Context, id string) (*CompetitionDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	competition, err := s.competitions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &CompetitionDetail{
		Competition: *competition,
		Skaters:     make([]domain.Skater, len(competition.SkaterIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, skaterID := range competition.SkaterIDs {
		g.Go(func() error {
			skater, err := s.skaters.Get(gctx, skaterID)
			if err != nil {
				return err
			}
			detail.Skaters[i] = *skater
			return nil
		})
	}
	g.Go(func() error {
		results, err := s.executions.ByCompetition(gctx, id)
		detail.Results = results
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("competition_id", id).Msg("failed to load competition detail")
		return nil, err
	}
	return detail, nil
}

func (s *CompetitionService) List(ctx context.Context, limit int) ([]domain.Competition, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.competitions.List(ctx, clampLimit(limit, constants.MaxListLimit))
}

// Delete removes the competition and every execution recorded for it.
func (s *CompetitionService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.competitions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("competition_id", id).Msg("competition deleted")
	return nil
}

// Run simulates one program for every registered skater. selections maps
// skater id to program id; skaters without a selection perform their preset
// program. Registration, existence, ownership and element count of every choice
// are checked before the first simulation runs; each simulation then commits
// on its own.
func (s *CompetitionService) Run(ctx context.Context, competitionID string, selections map[string]string) ([]domain.ExecutedProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	competition, err := s.competitions.Get(ctx, competitionID)
	if err != nil {
		return nil, err
	}

	registered := make(map[string]bool, len(competition.SkaterIDs))
	for _, id := range competition.SkaterIDs {
		registered[id] = true
	}

	problems := domain.NewValidationError()
	for skaterID := range selections {
		if !registered[skaterID] {
			problems.Add(fmt.Sprintf("skater %s is not registered for competition %s", skaterID, competitionID))
		}
	}

	chosen := make(map[string]string, len(competition.SkaterIDs))
	for _, skaterID := range competition.SkaterIDs {
		if programID := selections[skaterID]; programID != "" {
			chosen[skaterID] = programID
			continue
		}
		preset, err := s.programs.GetPreset(ctx, skaterID)
		if err != nil {
			if isNotFound(err) {
				problems.Add(fmt.Sprintf("skater %s has no selected or preset program", skaterID))
				continue
			}
			return nil, err
		}
		chosen[skaterID] = preset.ID
	}

	var empty []string
	for _, skaterID := range competition.SkaterIDs {
		programID, ok := chosen[skaterID]
		if !ok {
			continue
		}
		program, err := s.programs.Get(ctx, programID)
		if err != nil {
			if isNotFound(err) {
				problems.Add(fmt.Sprintf("program %s selected for skater %s does not exist", programID, skaterID))
				continue
			}
			return nil, err
		}
		if program.SkaterID != skaterID {
			problems.Add(fmt.Sprintf("program %s does not belong to skater %s", programID, skaterID))
			continue
		}
		elements, err := s.programs.Elements(ctx, programID)
		if err != nil {
			return nil, err
		}
		if len(elements) == 0 {
			empty = append(empty, programID)
		}
	}
	if err := problems.OrNil(); err != nil {
		return nil, err
	}
	if len(empty) > 0 {
		return nil, fmt.Errorf("programs %s have no elements: %w", strings.Join(empty, ", "), domain.ErrInvalidState)
	}

	results := make([]domain.ExecutedProgram, 0, len(competition.SkaterIDs))
	for _, skaterID := range competition.SkaterIDs {
		ep, err := s.simulator.Simulate(ctx, competitionID, skaterID, chosen[skaterID])
		if err != nil {
			return nil, err
		}
		results = append(results, *ep)
	}

	slices.SortStableFunc(results, func(a, b domain.ExecutedProgram) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	s.logger.Info().
		Str("competition_id", competitionID).
		Int("executions", len(results)).
		Msg("competition run")
	return results, nil
}

// Leaderboard lists each skater's best total score, highest first.
func (s *CompetitionService) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.executions.Leaderboard(ctx, clampLimit(limit, s.leaderboardLimit))
}
