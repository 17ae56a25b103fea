package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/blog-server/internal/apierror"
	"github.com/dtroode/blog-server/internal/api/rest/response"
	"github.com/dtroode/blog-server/internal/logger"
	"github.com/dtroode/blog-server/internal/model"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// ProfileService defines profile photo operations for an authenticated user.
type ProfileService interface {
	UploadPhoto(ctx context.Context, email string, upload *model.PhotoUpload) (model.Profile, error)
	RemovePhoto(ctx context.Context, email string) error
	GetPhoto(ctx context.Context, email string) (io.ReadCloser, string, error)
}

// Profile handles HTTP endpoints under /api/auth/profile.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, contextManager model.ContextManager, maxUploadBytes int64, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload stores the multipart "image" field as the caller's profile photo.
// A request without an image creates an empty profile.
func (h *Profile) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, r, apierror.NewErrMissingAuthorizationToken(), defaultFailure)
		return
	}

	upload, cleanup, err := h.readUpload(w, r)
	defer cleanup()
	if err != nil {
		writeFailure(w, r, err, defaultFailure)
		return
	}

	profile, err := h.profileService.UploadPhoto(r.Context(), claims.Email, upload)
	if err != nil {
		h.logger.Error("Profile handler: upload failed",
			"email", claims.Email,
			"error", err.Error())
		writeFailure(w, r, err, defaultFailure)
		return
	}

	h.logger.Info("Profile handler: upload completed",
		"user_id", profile.UserID.String(),
		"has_image", profile.HasImage())
	response.WriteMessage(w, r, http.StatusOK, "Profile Image Uploaded Successfully")
}

// Remove deletes the caller's profile and its photo.
func (h *Profile) Remove(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, r, apierror.NewErrMissingAuthorizationToken(), defaultFailure)
		return
	}

	if err := h.profileService.RemovePhoto(r.Context(), claims.Email); err != nil {
		h.logger.Error("Profile handler: remove failed",
			"email", claims.Email,
			"error", err.Error())
		writeFailure(w, r, err, defaultFailure)
		return
	}

	response.WriteMessage(w, r, http.StatusOK, "Profile Image Removed Successfully")
}

// Photo streams the caller's stored profile photo.
func (h *Profile) Photo(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.contextManager.GetClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, r, apierror.NewErrMissingAuthorizationToken(), defaultFailure)
		return
	}

	body, contentType, err := h.profileService.GetPhoto(r.Context(), claims.Email)
	if err != nil {
		writeFailure(w, r, err, defaultFailure)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("Profile handler: photo stream interrupted",
			"email", claims.Email,
			"error", err.Error())
	}
}

// readUpload extracts the optional image part. The returned cleanup is never nil
// and removes temporary files created by multipart parsing.
func (h *Profile) readUpload(w http.ResponseWriter, r *http.Request) (*model.PhotoUpload, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, noop, apierror.NewErrUploadTooLarge(h.maxUploadBytes)
		case errors.Is(err, http.ErrNotMultipart):
			return nil, noop, nil
		default:
			return nil, noop, apierror.NewErrMalformedRequest()
		}
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, apierror.NewErrMalformedRequest()
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return nil, cleanup, apierror.NewErrMalformedRequest()
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		_ = file.Close()
		return nil, cleanup, apierror.NewErrUnsupportedImage()
	}

	upload := &model.PhotoUpload{
		Content:     io.MultiReader(bytes.NewReader(head), file),
		Size:        header.Size,
		ContentType: contentType,
	}
	return upload, func() {
		_ = file.Close()
		cleanup()
	}, nil
}
