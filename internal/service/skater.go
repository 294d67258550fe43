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

type SkaterService struct {
	skaters    *repository.SkaterRepository
	programs   *repository.ProgramRepository
	executions *repository.ExecutionRepository
	logger     zerolog.Logger
}

type SkaterDetail struct {
	Skater     domain.Skater
	Programs   []domain.Program
	Executions []repository.Execution
}

func NewSkaterService(
	skaters *repository.SkaterRepository,
	programs *repository.ProgramRepository,
	executions *repository.ExecutionRepository,
	logger zerolog.Logger,
) *SkaterService {
	return &SkaterService{
		skaters:    skaters,
		programs:   programs,
		executions: executions,
		logger:     logger,
	}
}

func validateSkater(skater *domain.Skater) error {
	skater.FirstName = strings.TrimSpace(skater.FirstName)
	skater.LastName = strings.TrimSpace(skater.LastName)
	skater.Nationality = strings.TrimSpace(skater.Nationality)

	problems := domain.NewValidationError()
	if skater.FirstName == "" {
		problems.Add("first name is required")
	}
	if skater.LastName == "" {
		problems.Add("last name is required")
	}
	if len(skater.FirstName) > constants.NameMaxLen || len(skater.LastName) > constants.NameMaxLen {
		problems.Add("name is too long")
	}
	if skater.Nationality == "" {
		problems.Add("nationality is required")
	}
	if skater.BirthDate.IsZero() {
		problems.Add("birth date is required")
	}
	return problems.OrNil()
}

func (s *SkaterService) Create(ctx context.Context, skater *domain.Skater) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := validateSkater(skater); err != nil {
		return err
	}
	if err := s.skaters.Create(ctx, skater); err != nil {
		s.logger.Error().Err(err).Str("name", skater.FullName()).Msg("failed to create skater")
		return err
	}

	s.logger.Info().Str("skater_id", skater.ID).Str("name", skater.FullName()).Msg("skater created")
	return nil
}

// Get returns the skater with programs and executions, most recent first.
func (s *SkaterService) Get(ctx context.Context, id string) (*SkaterDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	skater, err := s.skaters.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &SkaterDetail{Skater: *skater}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		programs, err := s.programs.ListBySkater(gctx, id)
		detail.Programs = programs
		return err
	})
	g.Go(func() error {
		executions, err := s.executions.BySkater(gctx, id)
		detail.Executions = executions
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("skater_id", id).Msg("failed to load skater detail")
		return nil, err
	}
	return detail, nil
}

// Update changes nationality, hometown, club and image. Names and birth date
// are fixed at creation.
func (s *SkaterService) Update(ctx context.Context, skater *domain.Skater) (*domain.Skater, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	skater.Nationality = strings.TrimSpace(skater.Nationality)
	if skater.Nationality == "" {
		return nil, domain.NewValidationError("nationality is required")
	}
	if err := s.skaters.Update(ctx, skater); err != nil {
		return nil, err
	}

	s.logger.Info().Str("skater_id", skater.ID).Msg("skater updated")
	return s.skaters.Get(ctx, skater.ID)
}

// Delete removes the skater together with programs, probabilities and executions.
func (s *SkaterService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.skaters.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("skater_id", id).Msg("skater deleted")
	return nil
}

func (s *SkaterService) List(ctx context.Context, limit int) ([]domain.Skater, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.skaters.List(ctx, clampLimit(limit, constants.MaxListLimit))
}
