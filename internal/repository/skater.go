package repository

import (
	"context"
	"database/sql"
	"time"

	"skatebook/internal/db"
	"skatebook/internal/domain"

	"github.com/rs/zerolog"
)

type SkaterRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSkaterRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SkaterRepository {
	return &SkaterRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *SkaterRepository) Create(ctx context.Context, skater *domain.Skater) error {
	id, err := newID()
	if err != nil {
		return err
	}
	skater.ID = id
	skater.CreatedAt = time.Now().UTC()

	err = r.queries.CreateSkater(ctx, db.CreateSkaterParams{
		ID:          skater.ID,
		FirstName:   skater.FirstName,
		LastName:    skater.LastName,
		Nationality: skater.Nationality,
		BirthDate:   skater.BirthDate.UTC(),
		Hometown:    nullable(skater.Hometown),
		SkatingClub: nullable(skater.SkatingClub),
		ImageUrl:    nullable(skater.ImageURL),
		CreatedAt:   skater.CreatedAt,
	})
	return translate(err, "create skater")
}

func (r *SkaterRepository) Get(ctx context.Context, id string) (*domain.Skater, error) {
	skater, err := r.queries.GetSkater(ctx, id)
	if err != nil {
		return nil, translate(err, "get skater "+id)
	}
	s := toDomainSkater(skater)
	return &s, nil
}

func (r *SkaterRepository) List(ctx context.Context, limit int) ([]domain.Skater, error) {
	skaters, err := r.queries.ListSkaters(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "list skaters")
	}

	result := make([]domain.Skater, len(skaters))
	for i, s := range skaters {
		result[i] = toDomainSkater(s)
	}
	return result, nil
}

func (r *SkaterRepository) Update(ctx context.Context, skater *domain.Skater) error {
	n, err := r.queries.UpdateSkater(ctx, db.UpdateSkaterParams{
		Nationality: skater.Nationality,
		Hometown:    nullable(skater.Hometown),
		SkatingClub: nullable(skater.SkatingClub),
		ImageUrl:    nullable(skater.ImageURL),
		ID:          skater.ID,
	})
	return affected(n, err, "update skater "+skater.ID)
}

func (r *SkaterRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSkater(ctx, id)
	return affected(n, err, "delete skater "+id)
}

func toDomainSkater(s db.Skater) domain.Skater {
	return domain.Skater{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Nationality: s.Nationality,
		BirthDate:   s.BirthDate,
		Hometown:    deref(s.Hometown),
		SkatingClub: deref(s.SkatingClub),
		ImageURL:    deref(s.ImageUrl),
		CreatedAt:   s.CreatedAt,
	}
}
