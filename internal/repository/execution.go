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

type ExecutionRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

// Execution is an executed program joined with its program, skater and competition.
type Execution struct {
	domain.ExecutedProgram
	ProgramTitle    string
	SkaterID        string
	SkaterName      string
	CompetitionName string
	CompetitionDate time.Time
}

type LeaderboardEntry struct {
	SkaterID    string
	SkaterName  string
	Nationality string
	BestScore   float64
}

type ElementUsage struct {
	CompetitionID   string
	CompetitionName string
	CompetitionDate time.Time
	Executions      int
	AverageGOE      float64
}

type GOEPoint struct {
	CompetitionID   string
	CompetitionName string
	CompetitionDate time.Time
	GOE             float64
}

func NewExecutionRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ExecutionRepository {
	return &ExecutionRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Save persists a fully computed execution and all of its elements in one
// transaction. Ids and timestamps are assigned here.
func (r *ExecutionRepository) Save(ctx context.Context, ep *domain.ExecutedProgram) error {
	id, err := newID()
	if err != nil {
		return err
	}
	ep.ID = id
	ep.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.CreateExecutedProgram(ctx, db.CreateExecutedProgramParams{
		ID:            ep.ID,
		ProgramID:     ep.ProgramID,
		CompetitionID: ep.CompetitionID,
		TotalScore:    ep.TotalScore,
		CreatedAt:     ep.CreatedAt,
	})
	if err != nil {
		return translate(err, "create executed program")
	}

	for i := range ep.Elements {
		el := &ep.Elements[i]
		elementID, err := newID()
		if err != nil {
			return err
		}
		el.ID = elementID
		el.ExecutedProgramID = ep.ID

		err = qtx.CreateExecutedElement(ctx, db.CreateExecutedElementParams{
			ID:                el.ID,
			ExecutedProgramID: ep.ID,
			ElementID:         el.ElementID,
			Position:          int64(el.Position),
			Goe:               el.GOE,
			Score:             el.Score,
		})
		if err != nil {
			return translate(err, fmt.Sprintf("create executed element at position %d", el.Position))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit execution: %w", err)
	}

	r.logger.Debug().
		Str("executed_program_id", ep.ID).
		Int("elements", len(ep.Elements)).
		Float64("total_score", ep.TotalScore).
		Msg("saved execution")

	return nil
}

func (r *ExecutionRepository) Get(ctx context.Context, id string) (*domain.ExecutedProgram, error) {
	ep, err := r.queries.GetExecutedProgram(ctx, id)
	if err != nil {
		return nil, translate(err, "get executed program "+id)
	}

	elements, err := r.queries.ListExecutedElements(ctx, id)
	if err != nil {
		return nil, translate(err, "list executed elements of "+id)
	}

	result := &domain.ExecutedProgram{
		ID:            ep.ID,
		ProgramID:     ep.ProgramID,
		CompetitionID: ep.CompetitionID,
		TotalScore:    ep.TotalScore,
		CreatedAt:     ep.CreatedAt,
		Elements:      make([]domain.ExecutedElement, len(elements)),
	}
	for i, e := range elements {
		result.Elements[i] = domain.ExecutedElement{
			ID:                e.ID,
			ExecutedProgramID: e.ExecutedProgramID,
			ElementID:         e.ElementID,
			Position:          int(e.Position),
			GOE:               e.Goe,
			Score:             e.Score,
		}
	}
	return result, nil
}

// ByCompetition returns the competition's results, highest score first.
func (r *ExecutionRepository) ByCompetition(ctx context.Context, competitionID string) ([]Execution, error) {
	rows, err := r.queries.ListCompetitionResults(ctx, competitionID)
	if err != nil {
		return nil, translate(err, "list results of competition "+competitionID)
	}
	return toExecutions(rows), nil
}

// ByProgram returns the program's executions, most recent competition first.
func (r *ExecutionRepository) ByProgram(ctx context.Context, programID string) ([]Execution, error) {
	rows, err := r.queries.ListProgramExecutions(ctx, programID)
	if err != nil {
		return nil, translate(err, "list executions of program "+programID)
	}
	return toExecutions(rows), nil
}

func (r *ExecutionRepository) BySkater(ctx context.Context, skaterID string) ([]Execution, error) {
	rows, err := r.queries.ListSkaterExecutions(ctx, skaterID)
	if err != nil {
		return nil, translate(err, "list executions of skater "+skaterID)
	}
	return toExecutions(rows), nil
}

func (r *ExecutionRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.queries.GetLeaderboard(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "get leaderboard")
	}

	result := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		result[i] = LeaderboardEntry{
			SkaterID:    row.SkaterID,
			SkaterName:  row.FirstName + " " + row.LastName,
			Nationality: row.Nationality,
			BestScore:   row.BestScore,
		}
	}
	return result, nil
}

func (r *ExecutionRepository) ElementUsage(ctx context.Context, elementID string) ([]ElementUsage, error) {
	rows, err := r.queries.GetElementUsage(ctx, elementID)
	if err != nil {
		return nil, translate(err, "get usage of element "+elementID)
	}

	result := make([]ElementUsage, len(rows))
	for i, row := range rows {
		result[i] = ElementUsage{
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName,
			CompetitionDate: row.CompetitionDate,
			Executions:      int(row.Executions),
			AverageGOE:      row.AvgGoe,
		}
	}
	return result, nil
}

func (r *ExecutionRepository) GOEHistory(ctx context.Context, elementID, skaterID string) ([]GOEPoint, error) {
	rows, err := r.queries.GetElementGOEHistory(ctx, db.GetElementGOEHistoryParams{
		ElementID: elementID,
		SkaterID:  skaterID,
	})
	if err != nil {
		return nil, translate(err, "get goe history of element "+elementID)
	}

	result := make([]GOEPoint, len(rows))
	for i, row := range rows {
		result[i] = GOEPoint{
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName,
			CompetitionDate: row.CompetitionDate,
			GOE:             row.Goe,
		}
	}
	return result, nil
}

func toExecutions(rows []db.ExecutionRow) []Execution {
	result := make([]Execution, len(rows))
	for i, row := range rows {
		result[i] = Execution{
			ExecutedProgram: domain.ExecutedProgram{
				ID:            row.ID,
				ProgramID:     row.ProgramID,
				CompetitionID: row.CompetitionID,
				TotalScore:    row.TotalScore,
				CreatedAt:     row.CreatedAt,
			},
			ProgramTitle:    row.ProgramTitle,
			SkaterID:        row.SkaterID,
			SkaterName:      row.FirstName + " " + row.LastName,
			CompetitionName: row.CompetitionName,
			CompetitionDate: row.CompetitionDate,
		}
	}
	return result
}
