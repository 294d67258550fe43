package service

import (
	"context"
	"strings"

	"skatebook/internal/constants"
	"skatebook/internal/domain"
	"skatebook/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ProgramService struct {
	programs   *repository.ProgramRepository
	elements   *repository.ElementRepository
	skaters    *repository.SkaterRepository
	executions *repository.ExecutionRepository
	logger     zerolog.Logger
}

type ProgramDetail struct {
	Program        domain.Program
	Elements       []domain.ProgramElement
	TotalBaseValue float64
	Executions     []repository.Execution
}

func NewProgramService(
	programs *repository.ProgramRepository,
	elements *repository.ElementRepository,
	skaters *repository.SkaterRepository,
	executions *repository.ExecutionRepository,
	logger zerolog.Logger,
) *ProgramService {
	return &ProgramService{
		programs:   programs,
		elements:   elements,
		skaters:    skaters,
		executions: executions,
		logger:     logger,
	}
}

// Create validates the composition before anything is written.
func (s *ProgramService) Create(ctx context.Context, skaterID, title string, elementIDs []string, preset bool) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if len(title) > constants.NameMaxLen {
		return nil, domain.NewValidationError("title is too long")
	}

	if _, err := s.skaters.Get(ctx, skaterID); err != nil {
		return nil, err
	}

	known, err := s.elements.GetByIDs(ctx, elementIDs)
	if err != nil {
		return nil, err
	}
	if err := ValidateComposition(elementIDs, known); err != nil {
		s.logger.Debug().Err(err).Str("skater_id", skaterID).Msg("rejected program composition")
		return nil, err
	}

	program := &domain.Program{
		Title:    title,
		SkaterID: skaterID,
		Preset:   preset,
	}
	if err := s.programs.Create(ctx, program, elementIDs); err != nil {
		s.logger.Error().Err(err).Str("skater_id", skaterID).Msg("failed to create program")
		return nil, err
	}

	s.logger.Info().Str("program_id", program.ID).Str("skater_id", skaterID).Bool("preset", preset).Msg("program created")
	return program, nil
}

func (s *ProgramService) Get(ctx context.Context, id string) (*ProgramDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	program, err := s.programs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProgramDetail{Program: *program}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		elements, err := s.programs.Elements(gctx, id)
		if err != nil {
			return err
		}
		detail.Elements = elements
		for _, pe := range elements {
			detail.TotalBaseValue += pe.Element.BaseValue
		}
		return nil
	})
	g.Go(func() error {
		executions, err := s.executions.ByProgram(gctx, id)
		if err != nil {
			return err
		}
		detail.Executions = executions
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("program_id", id).Msg("failed to load program detail")
		return nil, err
	}

	return detail, nil
}

func (s *ProgramService) List(ctx context.Context, limit int) ([]repository.ProgramSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.programs.ListWithTopScore(ctx, clampLimit(limit, constants.MaxListLimit))
}

func (s *ProgramService) ListBySkater(ctx context.Context, skaterID string) ([]domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.programs.ListBySkater(ctx, skaterID)
}

func (s *ProgramService) SetPreset(ctx context.Context, id string) (*domain.Program, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	program, err := s.programs.SetPreset(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("program_id", id).Str("skater_id", program.SkaterID).Msg("preset program set")
	return program, nil
}
