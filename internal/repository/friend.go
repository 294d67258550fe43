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

type FriendRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewFriendRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *FriendRepository {
	return &FriendRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Add stores one edge (profile1 = self, profile2 = other). The existence
// checks and the insert share one transaction; an edge in either direction
// yields domain.ErrAlreadyFriends.
func (r *FriendRepository) Add(ctx context.Context, self, other string) (*domain.Friend, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for _, profileID := range []string{self, other} {
		if _, err := qtx.GetProfile(ctx, profileID); err != nil {
			return nil, translate(err, "get profile "+profileID)
		}
	}

	count, err := qtx.CountFriendEdges(ctx, self, other)
	if err != nil {
		return nil, translate(err, "count friend edges")
	}
	if count > 0 {
		return nil, fmt.Errorf("%s and %s: %w", self, other, domain.ErrAlreadyFriends)
	}

	friend := &domain.Friend{
		ID:         id,
		Profile1ID: self,
		Profile2ID: other,
		CreatedAt:  time.Now().UTC(),
	}
	err = qtx.CreateFriend(ctx, db.CreateFriendParams{
		ID:         friend.ID,
		Profile1ID: friend.Profile1ID,
		Profile2ID: friend.Profile2ID,
		CreatedAt:  friend.CreatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s and %s: %w", self, other, domain.ErrAlreadyFriends)
		}
		return nil, translate(err, "create friend")
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s and %s: %w", self, other, domain.ErrAlreadyFriends)
		}
		return nil, fmt.Errorf("failed to commit friend: %w", err)
	}
	return friend, nil
}

// Edges returns every edge touching any of profileIDs.
func (r *FriendRepository) Edges(ctx context.Context, profileIDs []string) ([]domain.Friend, error) {
	if len(profileIDs) == 0 {
		return []domain.Friend{}, nil
	}
	rows, err := r.queries.ListFriendEdges(ctx, profileIDs)
	if err != nil {
		return nil, translate(err, "list friend edges")
	}

	result := make([]domain.Friend, len(rows))
	for i, row := range rows {
		result[i] = domain.Friend{
			ID:         row.ID,
			Profile1ID: row.Profile1ID,
			Profile2ID: row.Profile2ID,
			CreatedAt:  row.CreatedAt,
		}
	}
	return result, nil
}
