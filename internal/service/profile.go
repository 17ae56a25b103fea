package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

type Profile struct {
	userStore    model.UserStore
	profileStore model.ProfileStore
	storage      model.Storage
	logger       *logger.Logger
}

func NewProfile(
	userStore model.UserStore,
	profileStore model.ProfileStore,
	storage model.Storage,
	logger *logger.Logger,
) *Profile {
	return &Profile{
		userStore:    userStore,
		profileStore: profileStore,
		storage:      storage,
		logger:       logger,
	}
}

func (s *Profile) userByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Info("Profile service: session user not found",
				"email", email)
			return model.User{}, apierror.NewErrUserNotFound()
		}
		s.logger.Error("Profile service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func imageKey(userID uuid.UUID) string {
	return fmt.Sprintf("profiles/%s/%s", userID, uuid.NewString())
}

// UploadPhoto creates or replaces the user's profile. upload may be nil,
// which stores a profile without an image.
func (s *Profile) UploadPhoto(ctx context.Context, email string, upload *model.PhotoUpload) (model.Profile, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return model.Profile{}, err
	}

	var key, contentType string
	if upload != nil {
		key = imageKey(user.ID)
		contentType = upload.ContentType
		if err := s.storage.Upload(ctx, key, upload.Content, upload.Size, contentType); err != nil {
			s.logger.Error("Profile service: failed to store image",
				"user_id", user.ID,
				"error", err.Error())
			return model.Profile{}, fmt.Errorf("failed to store image: %w", err)
		}
	}

	profile, err := model.NewProfile(user.ID, key, contentType)
	if err != nil {
		s.discard(ctx, key)
		return model.Profile{}, fmt.Errorf("failed to build profile: %w", err)
	}

	saved, replaced, err := s.profileStore.Upsert(ctx, profile)
	if err != nil {
		s.logger.Error("Profile service: failed to save profile",
			"user_id", user.ID,
			"error", err.Error())
		s.discard(ctx, key)
		return model.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.discard(ctx, replaced)

	s.logger.Info("Profile service: profile saved",
		"user_id", user.ID,
		"has_image", saved.HasImage())

	return saved, nil
}

// RemovePhoto deletes the user's profile and its image.
func (s *Profile) RemovePhoto(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	deleted, err := s.profileStore.DeleteByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewErrProfileNotFound()
		}
		s.logger.Error("Profile service: failed to delete profile",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.discard(ctx, deleted.ImageKey)

	s.logger.Info("Profile service: profile removed",
		"user_id", user.ID)

	return nil
}

// GetPhoto opens the user's profile image. The caller closes the reader.
func (s *Profile) GetPhoto(ctx context.Context, email string) (io.ReadCloser, string, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	profile, err := s.profileStore.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, "", apierror.NewErrProfileNotFound()
		}
		return nil, "", fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.HasImage() {
		return nil, "", apierror.NewErrPhotoNotFound()
	}

	rc, err := s.storage.Download(ctx, profile.ImageKey)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Profile service: image missing from storage",
				"user_id", user.ID,
				"key", profile.ImageKey)
			return nil, "", apierror.NewErrPhotoNotFound()
		}
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}

	return rc, profile.ContentType, nil
}

// discard removes a blob that no profile references any more.
func (s *Profile) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("Profile service: failed to delete image",
			"key", key,
			"error", err.Error())
	}
}
