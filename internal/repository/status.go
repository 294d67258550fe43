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

type StatusRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStatusRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StatusRepository {
	return &StatusRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create inserts the status and one Image + StatusImage pair per attached
// image in a single transaction.
func (r *StatusRepository) Create(ctx context.Context, status *domain.StatusMessage) error {
	id, err := newID()
	if err != nil {
		return err
	}
	status.ID = id
	status.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.CreateStatusMessage(ctx, db.CreateStatusMessageParams{
		ID:        status.ID,
		ProfileID: status.ProfileID,
		Message:   status.Message,
		CreatedAt: status.CreatedAt,
	})
	if err != nil {
		return translate(err, "create status message")
	}

	for i := range status.Images {
		img := &status.Images[i]
		imageID, err := newID()
		if err != nil {
			return err
		}
		img.ID = imageID
		img.ProfileID = status.ProfileID
		img.CreatedAt = status.CreatedAt

		err = qtx.CreateImage(ctx, db.CreateImageParams{
			ID:        img.ID,
			ProfileID: img.ProfileID,
			Url:       img.URL,
			Caption:   nullable(img.Caption),
			CreatedAt: img.CreatedAt,
		})
		if err != nil {
			return translate(err, "create image")
		}
		if err := qtx.AttachStatusImage(ctx, status.ID, img.ID); err != nil {
			return translate(err, "attach image "+img.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status message: %w", err)
	}
	return nil
}

func (r *StatusRepository) Get(ctx context.Context, id string) (*domain.StatusMessage, error) {
	status, err := r.queries.GetStatusMessage(ctx, id)
	if err != nil {
		return nil, translate(err, "get status message "+id)
	}

	statuses := []domain.StatusMessage{toDomainStatus(status)}
	if err := r.AttachImages(ctx, statuses); err != nil {
		return nil, err
	}
	return &statuses[0], nil
}

func (r *StatusRepository) Update(ctx context.Context, id, message string) error {
	n, err := r.queries.UpdateStatusMessage(ctx, message, id)
	return affected(n, err, "update status message "+id)
}

func (r *StatusRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteStatusMessage(ctx, id)
	return affected(n, err, "delete status message "+id)
}

// ByProfiles returns the statuses authored by any of profileIDs, newest first,
// without images.
func (r *StatusRepository) ByProfiles(ctx context.Context, profileIDs []string, limit int) ([]domain.StatusMessage, error) {
	if len(profileIDs) == 0 {
		return []domain.StatusMessage{}, nil
	}
	rows, err := r.queries.ListStatusMessagesByProfiles(ctx, db.ListStatusMessagesByProfilesParams{
		ProfileIDs: profileIDs,
		Limit:      int64(limit),
	})
	if err != nil {
		return nil, translate(err, "list status messages")
	}

	result := make([]domain.StatusMessage, len(rows))
	for i, row := range rows {
		result[i] = toDomainStatus(row)
	}
	return result, nil
}

// AttachImages fills Images of every status in place with one query.
func (r *StatusRepository) AttachImages(ctx context.Context, statuses []domain.StatusMessage) error {
	if len(statuses) == 0 {
		return nil
	}

	ids := make([]string, len(statuses))
	for i, s := range statuses {
		ids[i] = s.ID
	}

	rows, err := r.queries.ListImagesForStatuses(ctx, ids)
	if err != nil {
		return translate(err, "list status images")
	}

	byStatus := make(map[string][]domain.Image)
	for _, row := range rows {
		byStatus[row.StatusMessageID] = append(byStatus[row.StatusMessageID], domain.Image{
			ID:        row.ID,
			ProfileID: row.ProfileID,
			URL:       row.Url,
			Caption:   deref(row.Caption),
			CreatedAt: row.CreatedAt,
		})
	}
	for i := range statuses {
		statuses[i].Images = byStatus[statuses[i].ID]
	}
	return nil
}

func toDomainStatus(s db.StatusMessage) domain.StatusMessage {
	return domain.StatusMessage{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
	}
}
