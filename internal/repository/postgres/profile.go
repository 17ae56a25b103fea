package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/blog-server/internal/model"
)

var _ model.ProfileStore = (*ProfileRepository)(nil)

type ProfileRepository struct {
	db Querier
}

func NewProfileRepository(db Querier) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var p model.Profile
	query := `SELECT id, user_id, COALESCE(image_key, ''), COALESCE(content_type, ''), created_at
			  FROM profiles WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.ImageKey, &p.ContentType, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// upsertAttempts bounds the update/insert loop when concurrent writers keep
// creating and deleting the row in between.
const upsertAttempts = 3

// Upsert writes the user's single profile and reports the image key it replaced.
// The existing row is locked before it is read, so of two racing uploads the
// later one always sees the earlier one's key.
func (r *ProfileRepository) Upsert(ctx context.Context, profile model.Profile) (model.Profile, string, error) {
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		saved, replaced, err := r.update(ctx, profile)
		if err == nil {
			if replaced == saved.ImageKey {
				replaced = ""
			}
			return saved, replaced, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, "", fmt.Errorf("failed to upsert profile: %w", err)
		}

		saved, err = r.insert(ctx, profile)
		if err == nil {
			return saved, "", nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, "", fmt.Errorf("failed to upsert profile: %w", err)
		}
	}

	return model.Profile{}, "", fmt.Errorf("failed to upsert profile: row kept changing after %d attempts", upsertAttempts)
}

func (r *ProfileRepository) update(ctx context.Context, profile model.Profile) (model.Profile, string, error) {
	query := `UPDATE profiles p
			  SET image_key = NULLIF($2, ''), content_type = NULLIF($3, '')
			  FROM (SELECT id, image_key FROM profiles WHERE user_id = $1 FOR UPDATE) old
			  WHERE p.id = old.id
			  RETURNING p.id, p.user_id, COALESCE(p.image_key, ''), COALESCE(p.content_type, ''), p.created_at,
						COALESCE(old.image_key, '')`

	var (
		saved    model.Profile
		replaced string
	)
	err := r.db.QueryRow(ctx, query,
		profile.UserID, profile.ImageKey, profile.ContentType,
	).Scan(
		&saved.ID, &saved.UserID, &saved.ImageKey, &saved.ContentType, &saved.CreatedAt, &replaced,
	)
	if err != nil {
		return model.Profile{}, "", err
	}

	return saved, replaced, nil
}

func (r *ProfileRepository) insert(ctx context.Context, profile model.Profile) (model.Profile, error) {
	query := `INSERT INTO profiles (user_id, image_key, content_type, created_at)
			  VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
			  ON CONFLICT (user_id) DO NOTHING
			  RETURNING id, user_id, COALESCE(image_key, ''), COALESCE(content_type, ''), created_at`

	var saved model.Profile
	err := r.db.QueryRow(ctx, query,
		profile.UserID, profile.ImageKey, profile.ContentType, profile.CreatedAt,
	).Scan(
		&saved.ID, &saved.UserID, &saved.ImageKey, &saved.ContentType, &saved.CreatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}

	return saved, nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var p model.Profile
	query := `DELETE FROM profiles WHERE user_id = $1
			  RETURNING id, user_id, COALESCE(image_key, ''), COALESCE(content_type, ''), created_at`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.ImageKey, &p.ContentType, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to delete profile: %w", err)
	}

	return p, nil
}
