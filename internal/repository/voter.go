package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"skatebook/internal/db"
	"skatebook/internal/domain"

	"github.com/rs/zerolog"
)

// electionColumns names the participation column of every election.
var electionColumns = map[domain.Election]string{
	domain.Election2020State:   "v20state",
	domain.Election2021Town:    "v21town",
	domain.Election2021Primary: "v21primary",
	domain.Election2022General: "v22general",
	domain.Election2023Town:    "v23town",
}

type VoterRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewVoterRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *VoterRepository {
	return &VoterRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *VoterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	if voter.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		voter.ID = id
	}

	err := r.queries.CreateVoter(ctx, db.CreateVoterParams{
		ID:               voter.ID,
		FirstName:        voter.FirstName,
		LastName:         voter.LastName,
		StreetNumber:     voter.StreetNumber,
		StreetName:       voter.StreetName,
		Apartment:        nullable(voter.Apartment),
		ZipCode:          voter.ZipCode,
		BirthDate:        voter.BirthDate.UTC(),
		RegistrationDate: voter.RegistrationDate.UTC(),
		Party:            voter.Party,
		Precinct:         voter.Precinct,
		V20state:         voter.V20State,
		V21town:          voter.V21Town,
		V21primary:       voter.V21Primary,
		V22general:       voter.V22General,
		V23town:          voter.V23Town,
		VoterScore:       int64(voter.VoterScore),
	})
	return translate(err, "create voter "+voter.ID)
}

func (r *VoterRepository) Get(ctx context.Context, id string) (*domain.Voter, error) {
	voter, err := r.queries.GetVoter(ctx, id)
	if err != nil {
		return nil, translate(err, "get voter "+id)
	}
	v := toDomainVoter(voter)
	return &v, nil
}

// List returns voters matching every constraint of the filter, ordered by
// last name then first name. Unknown elections are rejected.
func (r *VoterRepository) List(ctx context.Context, filter domain.VoterFilter) ([]domain.Voter, error) {
	query, args, err := buildVoterQuery(filter)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list voters")
	}
	defer rows.Close()

	var result []domain.Voter
	for rows.Next() {
		var v db.Voter
		if err := rows.Scan(v.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		result = append(result, toDomainVoter(v))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voters: %w", err)
	}
	return result, nil
}

func buildVoterQuery(filter domain.VoterFilter) (string, []interface{}, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Party != "" {
		where = append(where, "party = ?")
		args = append(args, filter.Party)
	}
	if filter.MinBirthYear > 0 {
		where = append(where, "birth_date >= ?")
		args = append(args, time.Date(filter.MinBirthYear, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if filter.MaxBirthYear > 0 {
		where = append(where, "birth_date < ?")
		args = append(args, time.Date(filter.MaxBirthYear+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if filter.VoterScore != nil {
		where = append(where, "voter_score = ?")
		args = append(args, *filter.VoterScore)
	}
	for _, election := range filter.Elections {
		column, ok := electionColumns[election]
		if !ok {
			return "", nil, domain.NewValidationError(fmt.Sprintf("unknown election %q", election))
		}
		where = append(where, column+" = 1")
	}

	query := "SELECT " + db.VoterColumns + " FROM voter"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY last_name, first_name, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return query, args, nil
}

func toDomainVoter(v db.Voter) domain.Voter {
	return domain.Voter{
		ID:               v.ID,
		FirstName:        v.FirstName,
		LastName:         v.LastName,
		StreetNumber:     v.StreetNumber,
		StreetName:       v.StreetName,
		Apartment:        deref(v.Apartment),
		ZipCode:          v.ZipCode,
		BirthDate:        v.BirthDate,
		RegistrationDate: v.RegistrationDate,
		Party:            v.Party,
		Precinct:         v.Precinct,
		V20State:         v.V20state,
		V21Town:          v.V21town,
		V21Primary:       v.V21primary,
		V22General:       v.V22general,
		V23Town:          v.V23town,
		VoterScore:       int(v.VoterScore),
	}
}
