package db

import (
	"context"
	"time"
)

const createProfile = `
INSERT INTO profile (id, first_name, last_name, city, email, image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateProfileParams struct {
	ID        string
	FirstName string
	LastName  string
	City      string
	Email     string
	ImageUrl  *string
	CreatedAt time.Time
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) error {
	_, err := q.db.ExecContext(ctx, createProfile,
		arg.ID,
		arg.FirstName,
		arg.LastName,
		arg.City,
		arg.Email,
		arg.ImageUrl,
		arg.CreatedAt,
	)
	return err
}

const profileColumns = `
SELECT id, first_name, last_name, city, email, image_url, created_at
FROM profile
`

const getProfile = profileColumns + `WHERE id = ?`

func (q *Queries) GetProfile(ctx context.Context, id string) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile, id)
	var i Profile
	err := row.Scan(
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.City,
		&i.Email,
		&i.ImageUrl,
		&i.CreatedAt,
	)
	return i, err
}

const listProfiles = profileColumns + `
ORDER BY last_name, first_name, id
LIMIT ?
`

func (q *Queries) ListProfiles(ctx context.Context, limit int64) ([]Profile, error) {
	return q.listProfiles(ctx, listProfiles, limit)
}

const getProfilesByIDs = profileColumns + `
WHERE id IN (/*SLICE:ids*/?)
ORDER BY last_name, first_name, id
`

func (q *Queries) GetProfilesByIDs(ctx context.Context, ids []string) ([]Profile, error) {
	query, args := expandSlice(getProfilesByIDs, "ids", ids)
	return q.listProfiles(ctx, query, args...)
}

func (q *Queries) listProfiles(ctx context.Context, query string, args ...interface{}) ([]Profile, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Profile
	for rows.Next() {
		var i Profile
		if err := rows.Scan(
			&i.ID,
			&i.FirstName,
			&i.LastName,
			&i.City,
			&i.Email,
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

const updateProfile = `
UPDATE profile
SET city = ?, email = ?, image_url = ?
WHERE id = ?
`

type UpdateProfileParams struct {
	City     string
	Email    string
	ImageUrl *string
	ID       string
}

func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateProfile, arg.City, arg.Email, arg.ImageUrl, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteProfile = `
DELETE FROM profile WHERE id = ?
`

func (q *Queries) DeleteProfile(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProfile, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createStatusMessage = `
INSERT INTO status_message (id, profile_id, message, created_at)
VALUES (?, ?, ?, ?)
`

type CreateStatusMessageParams struct {
	ID        string
	ProfileID string
	Message   string
	CreatedAt time.Time
}

func (q *Queries) CreateStatusMessage(ctx context.Context, arg CreateStatusMessageParams) error {
	_, err := q.db.ExecContext(ctx, createStatusMessage, arg.ID, arg.ProfileID, arg.Message, arg.CreatedAt)
	return err
}

const getStatusMessage = `
SELECT id, profile_id, message, created_at
FROM status_message
WHERE id = ?
`

func (q *Queries) GetStatusMessage(ctx context.Context, id string) (StatusMessage, error) {
	row := q.db.QueryRowContext(ctx, getStatusMessage, id)
	var i StatusMessage
	err := row.Scan(
		&i.ID,
		&i.ProfileID,
		&i.Message,
		&i.CreatedAt,
	)
	return i, err
}

const updateStatusMessage = `
UPDATE status_message SET message = ? WHERE id = ?
`

func (q *Queries) UpdateStatusMessage(ctx context.Context, message, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateStatusMessage, message, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteStatusMessage = `
DELETE FROM status_message WHERE id = ?
`

func (q *Queries) DeleteStatusMessage(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteStatusMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listStatusMessagesByProfiles = `
SELECT id, profile_id, message, created_at
FROM status_message
WHERE profile_id IN (/*SLICE:profile_ids*/?)
ORDER BY created_at DESC, id DESC
LIMIT ?
`

type ListStatusMessagesByProfilesParams struct {
	ProfileIDs []string
	Limit      int64
}

func (q *Queries) ListStatusMessagesByProfiles(ctx context.Context, arg ListStatusMessagesByProfilesParams) ([]StatusMessage, error) {
	query, args := expandSlice(listStatusMessagesByProfiles, "profile_ids", arg.ProfileIDs)
	args = append(args, arg.Limit)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StatusMessage
	for rows.Next() {
		var i StatusMessage
		if err := rows.Scan(
			&i.ID,
			&i.ProfileID,
			&i.Message,
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

const createImage = `
INSERT INTO image (id, profile_id, url, caption, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateImageParams struct {
	ID        string
	ProfileID string
	Url       string
	Caption   *string
	CreatedAt time.Time
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) error {
	_, err := q.db.ExecContext(ctx, createImage, arg.ID, arg.ProfileID, arg.Url, arg.Caption, arg.CreatedAt)
	return err
}

const attachStatusImage = `
INSERT INTO status_image (status_message_id, image_id)
VALUES (?, ?)
`

func (q *Queries) AttachStatusImage(ctx context.Context, statusMessageID, imageID string) error {
	_, err := q.db.ExecContext(ctx, attachStatusImage, statusMessageID, imageID)
	return err
}

const listImagesForStatuses = `
SELECT si.status_message_id, i.id, i.profile_id, i.url, i.caption, i.created_at
FROM status_image si
JOIN image i ON i.id = si.image_id
WHERE si.status_message_id IN (/*SLICE:status_ids*/?)
ORDER BY i.created_at ASC, i.id ASC
`

type ListImagesForStatusesRow struct {
	StatusMessageID string
	ID              string
	ProfileID       string
	Url             string
	Caption         *string
	CreatedAt       time.Time
}

func (q *Queries) ListImagesForStatuses(ctx context.Context, statusIDs []string) ([]ListImagesForStatusesRow, error) {
	query, args := expandSlice(listImagesForStatuses, "status_ids", statusIDs)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListImagesForStatusesRow
	for rows.Next() {
		var i ListImagesForStatusesRow
		if err := rows.Scan(
			&i.StatusMessageID,
			&i.ID,
			&i.ProfileID,
			&i.Url,
			&i.Caption,
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

const countFriendEdges = `
SELECT COUNT(*) FROM friend
WHERE (profile1_id = ? AND profile2_id = ?)
   OR (profile1_id = ? AND profile2_id = ?)
`

func (q *Queries) CountFriendEdges(ctx context.Context, a, b string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFriendEdges, a, b, b, a)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createFriend = `
INSERT INTO friend (id, profile1_id, profile2_id, created_at)
VALUES (?, ?, ?, ?)
`

type CreateFriendParams struct {
	ID         string
	Profile1ID string
	Profile2ID string
	CreatedAt  time.Time
}

func (q *Queries) CreateFriend(ctx context.Context, arg CreateFriendParams) error {
	_, err := q.db.ExecContext(ctx, createFriend, arg.ID, arg.Profile1ID, arg.Profile2ID, arg.CreatedAt)
	return err
}

const listFriendEdges = `
SELECT id, profile1_id, profile2_id, created_at
FROM friend
WHERE profile1_id IN (/*SLICE:ids*/?) OR profile2_id IN (/*SLICE:ids*/?)
ORDER BY created_at ASC, id ASC
`

// ListFriendEdges returns every edge touching any of the given profiles.
func (q *Queries) ListFriendEdges(ctx context.Context, profileIDs []string) ([]Friend, error) {
	query, first := expandSlice(listFriendEdges, "ids", profileIDs)
	query, second := expandSlice(query, "ids", profileIDs)
	args := append(first, second...)
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Friend
	for rows.Next() {
		var i Friend
		if err := rows.Scan(
			&i.ID,
			&i.Profile1ID,
			&i.Profile2ID,
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
