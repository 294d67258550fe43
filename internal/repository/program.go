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

type ProgramRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

// ProgramSummary is a program together with its best executed score, if any.
type ProgramSummary struct {
	domain.Program
	TopScore *float64
}

func NewProgramRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ProgramRepository {
	return &ProgramRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create inserts the program and its element order (positions 1..N) in one
// transaction. A preset program clears any other preset of the same skater.
func (r *ProgramRepository) Create(ctx context.Context, program *domain.Program, elementIDs []string) error {
	id, err := newID()
	if err != nil {
		return err
	}
	program.ID = id
	program.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if program.Preset {
		if err := qtx.ClearPresetForSkater(ctx, program.SkaterID); err != nil {
			return translate(err, "clear preset for skater "+program.SkaterID)
		}
	}

	err = qtx.CreateProgram(ctx, db.CreateProgramParams{
		ID:        program.ID,
		Title:     program.Title,
		SkaterID:  program.SkaterID,
		Preset:    program.Preset,
		CreatedAt: program.CreatedAt,
	})
	if err != nil {
		return translate(err, "create program")
	}

	for i, elementID := range elementIDs {
		err := qtx.InsertProgramElement(ctx, db.InsertProgramElementParams{
			ProgramID: program.ID,
			ElementID: elementID,
			Position:  int64(i + 1),
		})
		if err != nil {
			return translate(err, fmt.Sprintf("insert element %s at position %d", elementID, i+1))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit program: %w", err)
	}

	r.logger.Debug().
		Str("program_id", program.ID).
		Int("elements", len(elementIDs)).
		Msg("created program")

	return nil
}

func (r *ProgramRepository) Get(ctx context.Context, id string) (*domain.Program, error) {
	program, err := r.queries.GetProgram(ctx, id)
	if err != nil {
		return nil, translate(err, "get program "+id)
	}
	p := toDomainProgram(program)
	return &p, nil
}

func (r *ProgramRepository) GetPreset(ctx context.Context, skaterID string) (*domain.Program, error) {
	program, err := r.queries.GetPresetProgram(ctx, skaterID)
	if err != nil {
		return nil, translate(err, "get preset program of skater "+skaterID)
	}
	p := toDomainProgram(program)
	return &p, nil
}

// Elements returns the program's elements in ascending position.
func (r *ProgramRepository) Elements(ctx context.Context, programID string) ([]domain.ProgramElement, error) {
	rows, err := r.queries.GetProgramElements(ctx, programID)
	if err != nil {
		return nil, translate(err, "get elements of program "+programID)
	}

	result := make([]domain.ProgramElement, len(rows))
	for i, row := range rows {
		result[i] = domain.ProgramElement{
			Position: int(row.Position),
			Element: domain.Element{
				ID:        row.ID,
				Code:      row.Code,
				Name:      row.Name,
				Type:      domain.ElementType(row.ElementType),
				BaseValue: row.BaseValue,
			},
		}
	}
	return result, nil
}

func (r *ProgramRepository) ListBySkater(ctx context.Context, skaterID string) ([]domain.Program, error) {
	programs, err := r.queries.ListProgramsBySkater(ctx, skaterID)
	if err != nil {
		return nil, translate(err, "list programs of skater "+skaterID)
	}

	result := make([]domain.Program, len(programs))
	for i, p := range programs {
		result[i] = toDomainProgram(p)
	}
	return result, nil
}

func (r *ProgramRepository) ListWithTopScore(ctx context.Context, limit int) ([]ProgramSummary, error) {
	rows, err := r.queries.ListProgramsWithTopScore(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "list programs")
	}

	result := make([]ProgramSummary, len(rows))
	for i, row := range rows {
		result[i] = ProgramSummary{
			Program: domain.Program{
				ID:        row.ID,
				Title:     row.Title,
				SkaterID:  row.SkaterID,
				Preset:    row.Preset,
				CreatedAt: row.CreatedAt,
			},
			TopScore: row.TopScore,
		}
	}
	return result, nil
}

// SetPreset marks the program as its skater's only preset.
func (r *ProgramRepository) SetPreset(ctx context.Context, programID string) (*domain.Program, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	program, err := qtx.GetProgram(ctx, programID)
	if err != nil {
		return nil, translate(err, "get program "+programID)
	}
	if err := qtx.ClearPresetForSkater(ctx, program.SkaterID); err != nil {
		return nil, translate(err, "clear preset for skater "+program.SkaterID)
	}
	n, err := qtx.SetProgramPreset(ctx, programID)
	if err := affected(n, err, "set preset program "+programID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit preset: %w", err)
	}

	program.Preset = true
	p := toDomainProgram(program)
	return &p, nil
}

func toDomainProgram(p db.Program) domain.Program {
	return domain.Program{
		ID:        p.ID,
		Title:     p.Title,
		SkaterID:  p.SkaterID,
		Preset:    p.Preset,
		CreatedAt: p.CreatedAt,
	}
}
