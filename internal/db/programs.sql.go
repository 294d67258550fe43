package db

import (
	"context"
	"time"
)

const createProgram = `
INSERT INTO program (id, title, skater_id, preset, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateProgramParams struct {
	ID        string
	Title     string
	SkaterID  string
	Preset    bool
	CreatedAt time.Time
}

func (q *Queries) CreateProgram(ctx context.Context, arg CreateProgramParams) error {
	_, err := q.db.ExecContext(ctx, createProgram,
		arg.ID,
		arg.Title,
		arg.SkaterID,
		arg.Preset,
		arg.CreatedAt,
	)
	return err
}

const insertProgramElement = `
INSERT INTO program_element_order (program_id, element_id, position)
VALUES (?, ?, ?)
`

type InsertProgramElementParams struct {
	ProgramID string
	ElementID string
	Position  int64
}

func (q *Queries) InsertProgramElement(ctx context.Context, arg InsertProgramElementParams) error {
	_, err := q.db.ExecContext(ctx, insertProgramElement, arg.ProgramID, arg.ElementID, arg.Position)
	return err
}

const getProgram = `
SELECT id, title, skater_id, preset, created_at
FROM program
WHERE id = ?
`

func (q *Queries) GetProgram(ctx context.Context, id string) (Program, error) {
	row := q.db.QueryRowContext(ctx, getProgram, id)
	var i Program
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.SkaterID,
		&i.Preset,
		&i.CreatedAt,
	)
	return i, err
}

const getPresetProgram = `
SELECT id, title, skater_id, preset, created_at
FROM program
WHERE skater_id = ? AND preset = 1
ORDER BY created_at DESC
LIMIT 1
`

func (q *Queries) GetPresetProgram(ctx context.Context, skaterID string) (Program, error) {
	row := q.db.QueryRowContext(ctx, getPresetProgram, skaterID)
	var i Program
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.SkaterID,
		&i.Preset,
		&i.CreatedAt,
	)
	return i, err
}

const listProgramsBySkater = `
SELECT id, title, skater_id, preset, created_at
FROM program
WHERE skater_id = ?
ORDER BY created_at DESC, id
`

func (q *Queries) ListProgramsBySkater(ctx context.Context, skaterID string) ([]Program, error) {
	rows, err := q.db.QueryContext(ctx, listProgramsBySkater, skaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Program
	for rows.Next() {
		var i Program
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.SkaterID,
			&i.Preset,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProgramsWithTopScore = `
SELECT p.id, p.title, p.skater_id, p.preset, p.created_at, MAX(ep.total_score) AS top_score
FROM program p
LEFT JOIN executed_program ep ON ep.program_id = p.id
GROUP BY p.id
ORDER BY p.created_at DESC, p.id
LIMIT ?
`

type ListProgramsWithTopScoreRow struct {
	ID        string
	Title     string
	SkaterID  string
	Preset    bool
	CreatedAt time.Time
	TopScore  *float64
}

func (q *Queries) ListProgramsWithTopScore(ctx context.Context, limit int64) ([]ListProgramsWithTopScoreRow, error) {
	rows, err := q.db.QueryContext(ctx, listProgramsWithTopScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListProgramsWithTopScoreRow
	for rows.Next() {
		var i ListProgramsWithTopScoreRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.SkaterID,
			&i.Preset,
			&i.CreatedAt,
			&i.TopScore,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const clearPresetForSkater = `
UPDATE program SET preset = 0 WHERE skater_id = ? AND preset = 1
`

func (q *Queries) ClearPresetForSkater(ctx context.Context, skaterID string) error {
	_, err := q.db.ExecContext(ctx, clearPresetForSkater, skaterID)
	return err
}

const setProgramPreset = `
UPDATE program SET preset = 1 WHERE id = ?
`

func (q *Queries) SetProgramPreset(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, setProgramPreset, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProgramElements = `
SELECT peo.position, e.id, e.code, e.name, e.element_type, e.base_value
FROM program_element_order peo
JOIN element e ON e.id = peo.element_id
WHERE peo.program_id = ?
ORDER BY peo.position ASC
`

type GetProgramElementsRow struct {
	Position    int64
	ID          string
	Code        string
	Name        string
	ElementType string
	BaseValue   float64
}

func (q *Queries) GetProgramElements(ctx context.Context, programID string) ([]GetProgramElementsRow, error) {
	rows, err := q.db.QueryContext(ctx, getProgramElements, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetProgramElementsRow
	for rows.Next() {
		var i GetProgramElementsRow
		if err := rows.Scan(
			&i.Position,
			&i.ID,
			&i.Code,
			&i.Name,
			&i.ElementType,
			&i.BaseValue,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
