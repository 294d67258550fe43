package db

import (
	"context"
	"time"
)

const createCompetition = `
INSERT INTO competition (id, name, date, location, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateCompetitionParams struct {
	ID        string
	Name      string
	Date      time.Time
	Location  string
	CreatedAt time.Time
}

func (q *Queries) CreateCompetition(ctx context.Context, arg CreateCompetitionParams) error {
	_, err := q.db.ExecContext(ctx, createCompetition,
		arg.ID,
		arg.Name,
		arg.Date,
		arg.Location,
		arg.CreatedAt,
	)
	return err
}

const addCompetitionSkater = `
INSERT INTO competition_skater (competition_id, skater_id)
VALUES (?, ?)
`

type AddCompetitionSkaterParams struct {
	CompetitionID string
	SkaterID      string
}

func (q *Queries) AddCompetitionSkater(ctx context.Context, arg AddCompetitionSkaterParams) error {
	_, err := q.db.ExecContext(ctx, addCompetitionSkater, arg.CompetitionID, arg.SkaterID)
	return err
}

const getCompetition = `
SELECT id, name, date, location, created_at
FROM competition
WHERE id = ?
`

func (q *Queries) GetCompetition(ctx context.Context, id string) (Competition, error) {
	row := q.db.QueryRowContext(ctx, getCompetition, id)
	var i Competition
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Date,
		&i.Location,
		&i.CreatedAt,
	)
	return i, err
}

const listCompetitions = `
SELECT id, name, date, location, created_at
FROM competition
ORDER BY date DESC, created_at DESC
LIMIT ?
`

func (q *Queries) ListCompetitions(ctx context.Context, limit int64) ([]Competition, error) {
	rows, err := q.db.QueryContext(ctx, listCompetitions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Competition
	for rows.Next() {
		var i Competition
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Date,
			&i.Location,
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

const listCompetitionSkaterIDs = `
SELECT cs.skater_id
FROM competition_skater cs
JOIN skater s ON s.id = cs.skater_id
WHERE cs.competition_id = ?
ORDER BY s.last_name, s.first_name, s.id
`

func (q *Queries) ListCompetitionSkaterIDs(ctx context.Context, competitionID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listCompetitionSkaterIDs, competitionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var skaterID string
		if err := rows.Scan(&skaterID); err != nil {
			return nil, err
		}
		items = append(items, skaterID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const isSkaterRegistered = `
SELECT COUNT(*) FROM competition_skater
WHERE competition_id = ? AND skater_id = ?
`

type IsSkaterRegisteredParams struct {
	CompetitionID string
	SkaterID      string
}

func (q *Queries) IsSkaterRegistered(ctx context.Context, arg IsSkaterRegisteredParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, isSkaterRegistered, arg.CompetitionID, arg.SkaterID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteCompetition = `
DELETE FROM competition WHERE id = ?
`

func (q *Queries) DeleteCompetition(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCompetition, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createExecutedProgram = `
INSERT INTO executed_program (id, program_id, competition_id, total_score, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateExecutedProgramParams struct {
	ID            string
	ProgramID     string
	CompetitionID string
	TotalScore    float64
	CreatedAt     time.Time
}

func (q *Queries) CreateExecutedProgram(ctx context.Context, arg CreateExecutedProgramParams) error {
	_, err := q.db.ExecContext(ctx, createExecutedProgram,
		arg.ID,
		arg.ProgramID,
		arg.CompetitionID,
		arg.TotalScore,
		arg.CreatedAt,
	)
	return err
}

const createExecutedElement = `
INSERT INTO executed_element (id, executed_program_id, element_id, position, goe, score)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateExecutedElementParams struct {
	ID                string
	ExecutedProgramID string
	ElementID         string
	Position          int64
	Goe               float64
	Score             float64
}

func (q *Queries) CreateExecutedElement(ctx context.Context, arg CreateExecutedElementParams) error {
	_, err := q.db.ExecContext(ctx, createExecutedElement,
		arg.ID,
		arg.ExecutedProgramID,
		arg.ElementID,
		arg.Position,
		arg.Goe,
		arg.Score,
	)
	return err
}

const getExecutedProgram = `
SELECT id, program_id, competition_id, total_score, created_at
FROM executed_program
WHERE id = ?
`

func (q *Queries) GetExecutedProgram(ctx context.Context, id string) (ExecutedProgram, error) {
	row := q.db.QueryRowContext(ctx, getExecutedProgram, id)
	var i ExecutedProgram
	err := row.Scan(
		&i.ID,
		&i.ProgramID,
		&i.CompetitionID,
		&i.TotalScore,
		&i.CreatedAt,
	)
	return i, err
}

const listExecutedElements = `
SELECT id, executed_program_id, element_id, position, goe, score
FROM executed_element
WHERE executed_program_id = ?
ORDER BY position ASC
`

func (q *Queries) ListExecutedElements(ctx context.Context, executedProgramID string) ([]ExecutedElement, error) {
	rows, err := q.db.QueryContext(ctx, listExecutedElements, executedProgramID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExecutedElement
	for rows.Next() {
		var i ExecutedElement
		if err := rows.Scan(
			&i.ID,
			&i.ExecutedProgramID,
			&i.ElementID,
			&i.Position,
			&i.Goe,
			&i.Score,
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

// ExecutionRow is shared by the result listings below: one executed program
// with the program, skater and competition it belongs to.
type ExecutionRow struct {
	ID              string
	ProgramID       string
	CompetitionID   string
	TotalScore      float64
	CreatedAt       time.Time
	ProgramTitle    string
	SkaterID        string
	FirstName       string
	LastName        string
	CompetitionName string
	CompetitionDate time.Time
}

const executionColumns = `
SELECT ep.id, ep.program_id, ep.competition_id, ep.total_score, ep.created_at,
       p.title, s.id, s.first_name, s.last_name, c.name, c.date
FROM executed_program ep
JOIN program p ON p.id = ep.program_id
JOIN skater s ON s.id = p.skater_id
JOIN competition c ON c.id = ep.competition_id
`

const listCompetitionResults = executionColumns + `
WHERE ep.competition_id = ?
ORDER BY ep.total_score DESC, ep.created_at ASC
`

func (q *Queries) ListCompetitionResults(ctx context.Context, competitionID string) ([]ExecutionRow, error) {
	return q.listExecutions(ctx, listCompetitionResults, competitionID)
}

const listProgramExecutions = executionColumns + `
WHERE ep.program_id = ?
ORDER BY c.date DESC, ep.created_at DESC
`

func (q *Queries) ListProgramExecutions(ctx context.Context, programID string) ([]ExecutionRow, error) {
	return q.listExecutions(ctx, listProgramExecutions, programID)
}

const listSkaterExecutions = executionColumns + `
WHERE p.skater_id = ?
ORDER BY c.date DESC, ep.created_at DESC
`

func (q *Queries) ListSkaterExecutions(ctx context.Context, skaterID string) ([]ExecutionRow, error) {
	return q.listExecutions(ctx, listSkaterExecutions, skaterID)
}

func (q *Queries) listExecutions(ctx context.Context, query string, args ...interface{}) ([]ExecutionRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExecutionRow
	for rows.Next() {
		var i ExecutionRow
		if err := rows.Scan(
			&i.ID,
			&i.ProgramID,
			&i.CompetitionID,
			&i.TotalScore,
			&i.CreatedAt,
			&i.ProgramTitle,
			&i.SkaterID,
			&i.FirstName,
			&i.LastName,
			&i.CompetitionName,
			&i.CompetitionDate,
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

const getLeaderboard = `
SELECT s.id, s.first_name, s.last_name, s.nationality, MAX(ep.total_score) AS best_score
FROM executed_program ep
JOIN program p ON p.id = ep.program_id
JOIN skater s ON s.id = p.skater_id
GROUP BY s.id
ORDER BY best_score DESC, s.last_name, s.first_name
LIMIT ?
`

type GetLeaderboardRow struct {
	SkaterID    string
	FirstName   string
	LastName    string
	Nationality string
	BestScore   float64
}

func (q *Queries) GetLeaderboard(ctx context.Context, limit int64) ([]GetLeaderboardRow, error) {
	rows, err := q.db.QueryContext(ctx, getLeaderboard, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetLeaderboardRow
	for rows.Next() {
		var i GetLeaderboardRow
		if err := rows.Scan(
			&i.SkaterID,
			&i.FirstName,
			&i.LastName,
			&i.Nationality,
			&i.BestScore,
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

const getElementUsage = `
SELECT c.id, c.name, c.date, COUNT(ee.id) AS executions, AVG(ee.goe) AS avg_goe
FROM executed_element ee
JOIN executed_program ep ON ep.id = ee.executed_program_id
JOIN competition c ON c.id = ep.competition_id
WHERE ee.element_id = ?
GROUP BY c.id
ORDER BY c.date ASC, c.created_at ASC
`

type GetElementUsageRow struct {
	CompetitionID   string
	CompetitionName string
	CompetitionDate time.Time
	Executions      int64
	AvgGoe          float64
}

func (q *Queries) GetElementUsage(ctx context.Context, elementID string) ([]GetElementUsageRow, error) {
	rows, err := q.db.QueryContext(ctx, getElementUsage, elementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetElementUsageRow
	for rows.Next() {
		var i GetElementUsageRow
		if err := rows.Scan(
			&i.CompetitionID,
			&i.CompetitionName,
			&i.CompetitionDate,
			&i.Executions,
			&i.AvgGoe,
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

const getElementGOEHistory = `
SELECT c.id, c.name, c.date, ee.goe
FROM executed_element ee
JOIN executed_program ep ON ep.id = ee.executed_program_id
JOIN program p ON p.id = ep.program_id
JOIN competition c ON c.id = ep.competition_id
WHERE ee.element_id = ? AND p.skater_id = ?
ORDER BY c.date ASC, ep.created_at ASC
`

type GetElementGOEHistoryParams struct {
	ElementID string
	SkaterID  string
}

type GetElementGOEHistoryRow struct {
	CompetitionID   string
	CompetitionName string
	CompetitionDate time.Time
	Goe             float64
}

func (q *Queries) GetElementGOEHistory(ctx context.Context, arg GetElementGOEHistoryParams) ([]GetElementGOEHistoryRow, error) {
	rows, err := q.db.QueryContext(ctx, getElementGOEHistory, arg.ElementID, arg.SkaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetElementGOEHistoryRow
	for rows.Next() {
		var i GetElementGOEHistoryRow
		if err := rows.Scan(
			&i.CompetitionID,
			&i.CompetitionName,
			&i.CompetitionDate,
			&i.Goe,
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
