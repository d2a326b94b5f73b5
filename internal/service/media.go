package service

import (
	"context"
	"errors"
	"log/slog"

	"sportsync/internal/imagehost"
	"sportsync/internal/middleware"
	"sportsync/internal/models"
)

// Media groups the image host with its archive and cleanup policies.
type Media struct {
	Host     imagehost.ImageHost
	Archiver *imagehost.Archiver
	Cleaner  *imagehost.Cleaner
}

// NewMedia wires the archive and cleanup policies around host.
func NewMedia(host imagehost.ImageHost, archiver *imagehost.Archiver, cleaner *imagehost.Cleaner) *Media {
	if host == nil {
		host = imagehost.Disabled{}
	}
	if cleaner == nil {
		cleaner = imagehost.NewCleaner(host, 1, false)
	}
	return &Media{Host: host, Archiver: archiver, Cleaner: cleaner}
}

// Store uploads source into folder and keeps the archive copy under kind.
// An empty source stores nothing.
func (m *Media) Store(ctx context.Context, source, folder, kind string) (string, error) {
	if source == "" {
		return "", nil
	}
	url, err := m.Host.Upload(ctx, source, folder)
	if err != nil {
		return "", uploadError(err)
	}
	if m.Archiver != nil {
		if _, err := m.Archiver.Archive(ctx, kind, url); err != nil {
			m.Discard(ctx, url)
			return "", models.NewInternalError(err)
		}
	}
	return url, nil
}

// Cleanup removes a hosted image ahead of a record delete.
func (m *Media) Cleanup(ctx context.Context, url string) error {
	if err := m.Cleaner.Cleanup(ctx, url); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Discard destroys url once and only logs a failure.
func (m *Media) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := m.Host.Destroy(ctx, url); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to destroy replaced image",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
	}
}

func uploadError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, imagehost.ErrNotConfigured) {
		return &models.AppError{Code: models.CodeInternal, Message: err.Error()}
	}
	return models.NewInternalError(err)
}
