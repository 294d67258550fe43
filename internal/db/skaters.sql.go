package db

import (
	"context"
	"time"
)

const createSkater = `
INSERT INTO skater (id, first_name, last_name, nationality, birth_date, hometown, skating_club, image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateSkaterParams struct {
	ID          string
	FirstName   string
	LastName    string
	Nationality string
	BirthDate   time.Time
	Hometown    *string
	SkatingClub *string
	ImageUrl    *string
	CreatedAt   time.Time
}

func (q *Queries) CreateSkater(ctx context.Context, arg CreateSkaterParams) error {
	_, err := q.db.ExecContext(ctx, createSkater,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.Nationality,
		arg.BirthDate,
		arg.Hometown,
		arg.SkatingClub,
		arg.ImageUrl,
		arg.CreatedAt,
	)
	return err
}

const getSkater = `
SELECT id, first_name, last_name, nationality, birth_date, hometown, skating_club, image_url, created_at
FROM skater
WHERE id = ?
`

func (q *Queries) GetSkater(ctx context.Context, id string) (Skater, error) {
	row := q.db.QueryRowContext(ctx, getSkater, id)
	var i Skater
	err := row.Scan(
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.Nationality,
		&i.BirthDate,
		&i.Hometown,
		&i.SkatingClub,
		&i.ImageUrl,
		&i.CreatedAt,
	)
	return i, err
}

const listSkaters = `
SELECT id, first_name, last_name, nationality, birth_date, hometown, skating_club, image_url, created_at
FROM skater
ORDER BY last_name, first_name, id
LIMIT ?
`

func (q *Queries) ListSkaters(ctx context.Context, limit int64) ([]Skater, error) {
	rows, err := q.db.QueryContext(ctx, listSkaters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Skater
	for rows.Next() {
		var i Skater
		if err := rows.Scan(
			&i.ID,
			&i.FirstName,
			&i.LastName,
			&i.Nationality,
			&i.BirthDate,
			&i.Hometown,
			&i.SkatingClub,
			&i.ImageUrl,
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

const updateSkater = `
UPDATE skater
SET nationality = ?, hometown = ?, skating_club = ?, image_url = ?
WHERE id = ?
`

type UpdateSkaterParams struct {
	Nationality string
	Hometown    *string
	SkatingClub *string
	ImageUrl    *string
	ID          string
}

func (q *Queries) UpdateSkater(ctx context.Context, arg UpdateSkaterParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSkater,
		arg.Nationality,
		arg.Hometown,
		arg.SkatingClub,
		arg.ImageUrl,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSkater = `
DELETE FROM skater WHERE id = ?
`

func (q *Queries) DeleteSkater(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSkater, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createElement = `
INSERT INTO element (id, code, name, element_type, base_value)
VALUES (?, ?, ?, ?, ?)
`

type CreateElementParams struct {
	ID          string
	Code        string
	Name        string
	ElementType string
	BaseValue   float64
}

func (q *Queries) CreateElement(ctx context.Context, arg CreateElementParams) error {
	_, err := q.db.ExecContext(ctx, createElement,
		arg.ID,
		arg.Code,
		arg.Name,
		arg.ElementType,
		arg.BaseValue,
	)
	return err
}

const getElement = `
SELECT id, code, name, element_type, base_value
FROM element
WHERE id = ?
`

func (q *Queries) GetElement(ctx context.Context, id string) (Element, error) {
	row := q.db.QueryRowContext(ctx, getElement, id)
	var i Element
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Name,
		&i.ElementType,
		&i.BaseValue,
	)
	return i, err
}

const getElementsByIDs = `
SELECT id, code, name, element_type, base_value
FROM element
WHERE id IN (/*SLICE:ids*/?)
`

func (q *Queries) GetElementsByIDs(ctx context.Context, ids []string) ([]Element, error) {
	query, args := expandSlice(getElementsByIDs, "ids", ids)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Element
	for rows.Next() {
		var i Element
		if err := rows.Scan(
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

const searchElements = `
SELECT id, code, name, element_type, base_value
FROM element
WHERE (? = '' OR name LIKE ? OR code LIKE ?)
  AND (? = '' OR element_type = ?)
ORDER BY name, code
LIMIT ?
`

type SearchElementsParams struct {
	Query       string
	Pattern     string
	ElementType string
	Limit       int64
}

func (q *Queries) SearchElements(ctx context.Context, arg SearchElementsParams) ([]Element, error) {
	rows, err := q.db.QueryContext(ctx, searchElements,
		arg.Query,
		arg.Pattern,
		arg.Pattern,
		arg.ElementType,
		arg.ElementType,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Element
	for rows.Next() {
		var i Element
		if err := rows.Scan(
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

const createElementProbability = `
INSERT INTO element_probability (id, skater_id, element_id, success_rate)
VALUES (?, ?, ?, ?)
`

type CreateElementProbabilityParams struct {
	ID          string
	SkaterID    string
	ElementID   string
	SuccessRate float64
}

func (q *Queries) CreateElementProbability(ctx context.Context, arg CreateElementProbabilityParams) error {
	_, err := q.db.ExecContext(ctx, createElementProbability,
		arg.ID,
		arg.SkaterID,
		arg.ElementID,
		arg.SuccessRate,
	)
	return err
}

const updateElementProbability = `
UPDATE element_probability
SET success_rate = ?
WHERE skater_id = ? AND element_id = ?
`

type UpdateElementProbabilityParams struct {
	SuccessRate float64
	SkaterID    string
	ElementID   string
}

func (q *Queries) UpdateElementProbability(ctx context.Context, arg UpdateElementProbabilityParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateElementProbability, arg.SuccessRate, arg.SkaterID, arg.ElementID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getElementProbability = `
SELECT id, skater_id, element_id, success_rate
FROM element_probability
WHERE skater_id = ? AND element_id = ?
`

type GetElementProbabilityParams struct {
	SkaterID  string
	ElementID string
}

func (q *Queries) GetElementProbability(ctx context.Context, arg GetElementProbabilityParams) (ElementProbability, error) {
	row := q.db.QueryRowContext(ctx, getElementProbability, arg.SkaterID, arg.ElementID)
	var i ElementProbability
	err := row.Scan(
		&i.ID,
		&i.SkaterID,
		&i.ElementID,
		&i.SuccessRate,
	)
	return i, err
}

const getSuccessRates = `
SELECT id, skater_id, element_id, success_rate
FROM element_probability
WHERE skater_id = ? AND element_id IN (/*SLICE:element_ids*/?)
`

type GetSuccessRatesParams struct {
	SkaterID   string
	ElementIDs []string
}

func (q *Queries) GetSuccessRates(ctx context.Context, arg GetSuccessRatesParams) ([]ElementProbability, error) {
	query, sliceArgs := expandSlice(getSuccessRates, "element_ids", arg.ElementIDs)
	args := append([]interface{}{arg.SkaterID}, sliceArgs...)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ElementProbability
	for rows.Next() {
		var i ElementProbability
		if err := rows.Scan(
			&i.ID,
			&i.SkaterID,
			&i.ElementID,
			&i.SuccessRate,
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
