package repository

import (
	"context"
	"database/sql"
	"time"

	"skatebook/internal/db"
	"skatebook/internal/domain"

	"github.com/rs/zerolog"
)

type ProfileRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewProfileRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	id, err := newID()
	if err != nil {
		return err
	}
	profile.ID = id
	profile.CreatedAt = time.Now().UTC()

	err = r.queries.CreateProfile(ctx, db.CreateProfileParams{
		ID:        profile.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		City:      profile.City,
		Email:     profile.Email,
		ImageUrl:  nullable(profile.ImageURL),
		CreatedAt: profile.CreatedAt,
	})
	return translate(err, "create profile "+profile.Email)
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := r.queries.GetProfile(ctx, id)
	if err != nil {
		return nil, translate(err, "get profile "+id)
	}
	p := toDomainProfile(profile)
	return &p, nil
}

// GetByIDs returns the profiles found, ordered by last name, first name, id.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}
	profiles, err := r.queries.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "get profiles")
	}
	return toDomainProfiles(profiles), nil
}

func (r *ProfileRepository) List(ctx context.Context, limit int) ([]domain.Profile, error) {
	profiles, err := r.queries.ListProfiles(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "list profiles")
	}
	return toDomainProfiles(profiles), nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	n, err := r.queries.UpdateProfile(ctx, db.UpdateProfileParams{
		City:     profile.City,
		Email:    profile.Email,
		ImageUrl: nullable(profile.ImageURL),
		ID:       profile.ID,
	})
	return affected(n, err, "update profile "+profile.ID)
}

// Delete removes the profile with its statuses, images and friend edges.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteProfile(ctx, id)
	return affected(n, err, "delete profile "+id)
}

func toDomainProfile(p db.Profile) domain.Profile {
	return domain.Profile{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		City:      p.City,
		Email:     p.Email,
		ImageURL:  deref(p.ImageUrl),
		CreatedAt: p.CreatedAt,
	}
}

func toDomainProfiles(profiles []db.Profile) []domain.Profile {
	result := make([]domain.Profile, len(profiles))
	for i, p := range profiles {
		result[i] = toDomainProfile(p)
	}
	return result
}
