package model

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ProfileStore defines persistence operations for user profiles.
// A user has at most one live profile.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// Upsert stores the profile, replacing the user's existing one.
	// It returns the saved profile and the image key of the replaced profile, if any.
	Upsert(ctx context.Context, profile Profile) (saved Profile, replacedImageKey string, err error)
	// DeleteByUserID removes the user's profile and returns it.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

// Profile is the optional profile attachment of a User.
type Profile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ImageKey    string
	ContentType string
	CreatedAt   time.Time
}

// HasImage reports whether an image is attached to the profile.
func (p Profile) HasImage() bool {
	return p.ImageKey != ""
}

// NewProfile builds a profile for the user. imageKey may be empty.
func NewProfile(userID uuid.UUID, imageKey, contentType string) (Profile, error) {
	if userID == uuid.Nil {
		return Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidProfile)
	}
	if imageKey != "" && contentType == "" {
		return Profile{}, fmt.Errorf("%w: content type is required for an image", ErrInvalidProfile)
	}

	return Profile{
		UserID:      userID,
		ImageKey:    imageKey,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// PhotoUpload carries an uploaded profile image.
type PhotoUpload struct {
	Content     io.Reader
	Size        int64
	ContentType string
}
