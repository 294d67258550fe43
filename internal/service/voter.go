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

type VoterService struct {
	voters *repository.VoterRepository
	logger zerolog.Logger
}

func NewVoterService(voters *repository.VoterRepository, logger zerolog.Logger) *VoterService {
	return &VoterService{voters: voters, logger: logger}
}

func (s *VoterService) Create(ctx context.Context, voter *domain.Voter) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	voter.FirstName = strings.TrimSpace(voter.FirstName)
	voter.LastName = strings.TrimSpace(voter.LastName)

	problems := domain.NewValidationError()
	if voter.FirstName == "" || voter.LastName == "" {
		problems.Add("first and last name are required")
	}
	if voter.BirthDate.IsZero() {
		problems.Add("birth date is required")
	}
	if voter.RegistrationDate.IsZero() {
		problems.Add("registration date is required")
	}
	if voter.VoterScore < 0 || voter.VoterScore > len(domain.Elections) {
		problems.Add(fmt.Sprintf("voter score must be within [0, %d]", len(domain.Elections)))
	}
	if err := problems.OrNil(); err != nil {
		return err
	}

	if err := s.voters.Create(ctx, voter); err != nil {
		s.logger.Error().Err(err).Str("voter_id", voter.ID).Msg("failed to create voter")
		return err
	}
	return nil
}

func (s *VoterService) Get(ctx context.Context, id string) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.voters.Get(ctx, id)
}

// List filters voters by party, birth year range, voter score and
// participation in every listed election.
func (s *VoterService) List(ctx context.Context, filter domain.VoterFilter) ([]domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if filter.MinBirthYear > 0 && filter.MaxBirthYear > 0 && filter.MinBirthYear > filter.MaxBirthYear {
		return nil, domain.NewValidationError("min birth year is after max birth year")
	}
	filter.Limit = clampLimit(filter.Limit, constants.MaxListLimit)

	voters, err := s.voters.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("voters", len(voters)).Strs("elections", electionNames(filter.Elections)).Msg("voters listed")
	return voters, nil
}

func electionNames(elections []domain.Election) []string {
	names := make([]string, len(elections))
	for i, e := range elections {
		names[i] = string(e)
	}
	return names
}
