package service

import (
	"context"
	"fmt"
	"strings"

	"skatebook/internal/constants"
	"skatebook/internal/domain"
	"skatebook/internal/repository"

	"github.com/rs/zerolog"
)

type ElementService struct {
	elements   *repository.ElementRepository
	skaters    *repository.SkaterRepository
	executions *repository.ExecutionRepository
	logger     zerolog.Logger
}

// ElementUsageReport describes how an element performed across competitions.
// History is only filled when the report is restricted to one skater.
type ElementUsageReport struct {
	Element domain.Element
	Usage   []repository.ElementUsage
	History []repository.GOEPoint
}

func NewElementService(
	elements *repository.ElementRepository,
	skaters *repository.SkaterRepository,
	executions *repository.ExecutionRepository,
	logger zerolog.Logger,
) *ElementService {
	return &ElementService{
		elements:   elements,
		skaters:    skaters,
		executions: executions,
		logger:     logger,
	}
}

func (s *ElementService) Create(ctx context.Context, element *domain.Element) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	element.Code = strings.TrimSpace(element.Code)
	element.Name = strings.TrimSpace(element.Name)

	problems := domain.NewValidationError()
	if element.Code == "" {
		problems.Add("code is required")
	}
	if len(element.Code) > constants.ElementCodeMaxLen {
		problems.Add(fmt.Sprintf("code must be at most %d characters", constants.ElementCodeMaxLen))
	}
	if element.Name == "" {
		problems.Add("name is required")
	}
	if !element.Type.Valid() {
		problems.Add(fmt.Sprintf("unknown element type %q", element.Type))
	}
	if element.BaseValue < 0 {
		problems.Add("base value must not be negative")
	}
	if err := problems.OrNil(); err != nil {
		return err
	}

	if err := s.elements.Create(ctx, element); err != nil {
		s.logger.Error().Err(err).Str("code", element.Code).Msg("failed to create element")
		return err
	}

	s.logger.Info().Str("element_id", element.ID).Str("code", element.Code).Msg("element created")
	return nil
}

// List searches name and code case-insensitively. An empty type lists all types.
func (s *ElementService) List(ctx context.Context, query string, elementType domain.ElementType, limit int) ([]domain.Element, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if elementType != "" && !elementType.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown element type %q", elementType))
	}
	return s.elements.Search(ctx, query, elementType, clampLimit(limit, constants.MaxListLimit))
}

func (s *ElementService) Usage(ctx context.Context, elementID, skaterID string) (*ElementUsageReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	element, err := s.elements.Get(ctx, elementID)
	if err != nil {
		return nil, err
	}

	report := &ElementUsageReport{Element: *element}

	report.Usage, err = s.executions.ElementUsage(ctx, elementID)
	if err != nil {
		return nil, err
	}

	if skaterID != "" {
		if _, err := s.skaters.Get(ctx, skaterID); err != nil {
			return nil, err
		}
		report.History, err = s.executions.GOEHistory(ctx, elementID, skaterID)
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

func validateRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return domain.NewValidationError(fmt.Sprintf("success rate must be within [0, 1], got %v", rate))
	}
	return nil
}

// SetProbability records a new success rate. A second record for the same
// pair is a conflict.
func (s *ElementService) SetProbability(ctx context.Context, skaterID, elementID string, rate float64) (*domain.ElementProbability, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if _, err := s.skaters.Get(ctx, skaterID); err != nil {
		return nil, err
	}
	if _, err := s.elements.Get(ctx, elementID); err != nil {
		return nil, err
	}

	p := &domain.ElementProbability{
		SkaterID:    skaterID,
		ElementID:   elementID,
		SuccessRate: rate,
	}
	if err := s.elements.CreateProbability(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("skater_id", skaterID).Str("element_id", elementID).Msg("failed to set probability")
		return nil, err
	}
	return p, nil
}

func (s *ElementService) UpdateProbability(ctx context.Context, skaterID, elementID string, rate float64) (*domain.ElementProbability, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if err := s.elements.UpdateProbability(ctx, skaterID, elementID, rate); err != nil {
		return nil, err
	}
	return s.elements.GetProbability(ctx, skaterID, elementID)
}
