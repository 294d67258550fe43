package service

import (
	"context"
	"fmt"

	"skatebook/internal/constants"
	"skatebook/internal/domain"
	"skatebook/internal/metrics"
	"skatebook/internal/repository"
	"skatebook/internal/scoring"

	"github.com/rs/zerolog"
)

type SimulationService struct {
	competitions *repository.CompetitionRepository
	skaters      *repository.SkaterRepository
	programs     *repository.ProgramRepository
	elements     *repository.ElementRepository
	executions   *repository.ExecutionRepository
	source       scoring.Source
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

func NewSimulationService(
	competitions *repository.CompetitionRepository,
	skaters *repository.SkaterRepository,
	programs *repository.ProgramRepository,
	elements *repository.ElementRepository,
	executions *repository.ExecutionRepository,
	source scoring.Source,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SimulationService {
	return &SimulationService{
		competitions: competitions,
		skaters:      skaters,
		programs:     programs,
		elements:     elements,
		executions:   executions,
		source:       source,
		metrics:      m,
		logger:       logger,
	}
}

// Simulate performs programID by skaterID at competitionID and persists the
// execution with all of its elements atomically. Every call creates a new
// execution record.
func (s *SimulationService) Simulate(ctx context.Context, competitionID, skaterID, programID string) (*domain.ExecutedProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SimulationTimeout)
	defer cancel()

	s.logger.Debug().
		Str("competition_id", competitionID).
		Str("skater_id", skaterID).
		Str("program_id", programID).
		Msg("simulating program")

	ep, successes, err := s.simulate(ctx, competitionID, skaterID, programID)
	if err != nil {
		s.metrics.ObserveSimulation(err, 0, 0, 0)
		s.logger.Error().Err(err).
			Str("competition_id", competitionID).
			Str("skater_id", skaterID).
			Str("program_id", programID).
			Msg("simulation failed")
		return nil, err
	}
	s.metrics.ObserveSimulation(nil, ep.TotalScore, successes, len(ep.Elements)-successes)

	s.logger.Info().
		Str("executed_program_id", ep.ID).
		Str("program_id", programID).
		Float64("total_score", ep.TotalScore).
		Int("successes", successes).
		Msg("program simulated")

	return ep, nil
}

func (s *SimulationService) simulate(ctx context.Context, competitionID, skaterID, programID string) (*domain.ExecutedProgram, int, error) {
	if _, err := s.competitions.Get(ctx, competitionID); err != nil {
		return nil, 0, err
	}
	if _, err := s.skaters.Get(ctx, skaterID); err != nil {
		return nil, 0, err
	}
	program, err := s.programs.Get(ctx, programID)
	if err != nil {
		return nil, 0, err
	}

	problems := domain.NewValidationError()
	if program.SkaterID != skaterID {
		problems.Add(fmt.Sprintf("program %s does not belong to skater %s", programID, skaterID))
	}
	registered, err := s.competitions.IsRegistered(ctx, competitionID, skaterID)
	if err != nil {
		return nil, 0, err
	}
	if !registered {
		problems.Add(fmt.Sprintf("skater %s is not registered for competition %s", skaterID, competitionID))
	}
	if err := problems.OrNil(); err != nil {
		return nil, 0, err
	}

	elements, err := s.programs.Elements(ctx, programID)
	if err != nil {
		return nil, 0, err
	}
	if len(elements) == 0 {
		return nil, 0, fmt.Errorf("program %s has no elements: %w", programID, domain.ErrInvalidState)
	}

	ids := make([]string, len(elements))
	for i, pe := range elements {
		ids[i] = pe.Element.ID
	}
	rates, err := s.elements.SuccessRates(ctx, skaterID, ids)
	if err != nil {
		return nil, 0, err
	}

	inputs := make([]scoring.ElementInput, len(elements))
	for i, pe := range elements {
		rate, ok := rates[pe.Element.ID]
		if !ok {
			rate = constants.DefaultSuccessRate
		}
		inputs[i] = scoring.ElementInput{
			ElementID:   pe.Element.ID,
			Position:    pe.Position,
			BaseValue:   pe.Element.BaseValue,
			SuccessRate: rate,
		}
	}

	outcome := scoring.Execute(s.source, inputs)

	ep := &domain.ExecutedProgram{
		ProgramID:     programID,
		CompetitionID: competitionID,
		TotalScore:    outcome.Total,
		Elements:      make([]domain.ExecutedElement, len(outcome.Elements)),
	}
	successes := 0
	for i, o := range outcome.Elements {
		if o.Success {
			successes++
		}
		ep.Elements[i] = domain.ExecutedElement{
			ElementID: o.ElementID,
			Position:  o.Position,
			GOE:       o.GOE,
			Score:     o.Score,
			Success:   o.Success,
		}
	}

	if err := s.executions.Save(ctx, ep); err != nil {
		return nil, 0, err
	}
	return ep, successes, nil
}
