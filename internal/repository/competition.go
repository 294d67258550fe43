package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skatebook/internal/db"
	"skatebook/internal/domain"

	"github.com/rs/zerolog"
)

type CompetitionRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewCompetitionRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *CompetitionRepository {
	return &CompetitionRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create inserts the competition and registers its skaters in one transaction.
func (r *CompetitionRepository) Create(ctx context.Context, competition *domain.Competition) error {
	id, err := newID()
	if err != nil {
		return err
	}
	competition.ID = id
	competition.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.CreateCompetition(ctx, db.CreateCompetitionParams{
		ID:        competition.ID,
		Name:      competition.Name,
		Date:      competition.Date.UTC(),
		Location:  competition.Location,
		CreatedAt: competition.CreatedAt,
	})
	if err != nil {
		return translate(err, "create competition")
	}

	for _, skaterID := range competition.SkaterIDs {
		err := qtx.AddCompetitionSkater(ctx, db.AddCompetitionSkaterParams{
			CompetitionID: competition.ID,
			SkaterID:      skaterID,
		})
		if err != nil {
			return translate(err, "register skater "+skaterID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit competition: %w", err)
	}
	return nil
}

func (r *CompetitionRepository) Get(ctx context.Context, id string) (*domain.Competition, error) {
	competition, err := r.queries.GetCompetition(ctx, id)
	if err != nil {
		return nil, translate(err, "get competition "+id)
	}

	skaterIDs, err := r.queries.ListCompetitionSkaterIDs(ctx, id)
	if err != nil {
		return nil, translate(err, "list skaters of competition "+id)
	}

	c := toDomainCompetition(competition)
	c.SkaterIDs = skaterIDs
	return &c, nil
}

func (r *CompetitionRepository) List(ctx context.Context, limit int) ([]domain.Competition, error) {
	competitions, err := r.queries.ListCompetitions(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "list competitions")
	}

	result := make([]domain.Competition, len(competitions))
	for i, c := range competitions {
		result[i] = toDomainCompetition(c)
	}
	return result, nil
}

func (r *CompetitionRepository) IsRegistered(ctx context.Context, competitionID, skaterID string) (bool, error) {
	count, err := r.queries.IsSkaterRegistered(ctx, db.IsSkaterRegisteredParams{
		CompetitionID: competitionID,
		SkaterID:      skaterID,
	})
	if err != nil {
		return false, translate(err, "check registration")
	}
	return count > 0, nil
}

func (r *CompetitionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteCompetition(ctx, id)
	return affected(n, err, "delete competition "+id)
}

func toDomainCompetition(c db.Competition) domain.Competition {
	return domain.Competition{
		ID:        c.ID,
		Name:      c.Name,
		Date:      c.Date,
		Location:  c.Location,
		CreatedAt: c.CreatedAt,
	}
}
