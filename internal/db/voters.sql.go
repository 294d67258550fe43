package db

import (
	"context"
	"time"
)

const createVoter = `
INSERT INTO voter (
    id, first_name, last_name, street_number, street_name, apartment, zip_code,
    birth_date, registration_date, party, precinct,
    v20state, v21town, v21primary, v22general, v23town, voter_score
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateVoterParams struct {
	ID               string
	FirstName        string
	LastName         string
	StreetNumber     string
	StreetName       string
	Apartment        *string
	ZipCode          string
	BirthDate        time.Time
	RegistrationDate time.Time
	Party            string
	Precinct         string
	V20state         bool
	V21town          bool
	V21primary       bool
	V22general       bool
	V23town          bool
	VoterScore       int64
}

func (q *Queries) CreateVoter(ctx context.Context, arg CreateVoterParams) error {
	_, err := q.db.ExecContext(ctx, createVoter,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.StreetNumber,
		arg.StreetName,
		arg.Apartment,
		arg.ZipCode,
		arg.BirthDate,
		arg.RegistrationDate,
		arg.Party,
		arg.Precinct,
		arg.V20state,
		arg.V21town,
		arg.V21primary,
		arg.V22general,
		arg.V23town,
		arg.VoterScore,
	)
	return err
}

// VoterColumns is exported so filtered listings built outside this package
// scan the same column order as GetVoter.
const VoterColumns = `id, first_name, last_name, street_number, street_name, apartment, zip_code,
    birth_date, registration_date, party, precinct,
    v20state, v21town, v21primary, v22general, v23town, voter_score`

const getVoter = `SELECT ` + VoterColumns + ` FROM voter WHERE id = ?`

func (q *Queries) GetVoter(ctx context.Context, id string) (Voter, error) {
	row := q.db.QueryRowContext(ctx, getVoter, id)
	var i Voter
	err := row.Scan(i.ScanTargets()...)
	return i, err
}

func (i *Voter) ScanTargets() []interface{} {
	return []interface{}{
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.StreetNumber,
		&i.StreetName,
		&i.Apartment,
		&i.ZipCode,
		&i.BirthDate,
		&i.RegistrationDate,
		&i.Party,
		&i.Precinct,
		&i.V20state,
		&i.V21town,
		&i.V21primary,
		&i.V22general,
		&i.V23town,
		&i.VoterScore,
	}
}
