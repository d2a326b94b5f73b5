// Package imagehost stores user images in an S3-compatible bucket and keeps
// the local archive copies and retryable cleanup around it.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ImageHost uploads images and destroys hosted ones by their public URL.
type ImageHost interface {
	// Upload accepts a data URI, raw base64, or an http(s) URL and returns
	// the public URL of the stored WebP image.
	Upload(ctx context.Context, source, folder string) (string, error)
	Destroy(ctx context.Context, url string) error
}

// Folders used for hosted objects.
const (
	FolderPosts      = "posts"
	FolderMatchPosts = "matchposts"
	FolderProfiles   = "profiles"
	FolderMessages   = "messages"
)

// ErrNotConfigured is returned by Disabled for every upload.
var ErrNotConfigured = errors.New("Image uploads are not configured")

// Disabled is the ImageHost used when no bucket is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Destroy(context.Context, string) error {
	return ErrNotConfigured
}

// KeyFromURL derives the object key of a hosted image from its public URL.
func KeyFromURL(publicURL, url string) (string, error) {
	prefix := strings.TrimRight(publicURL, "/") + "/"
	if publicURL == "" || !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q is not served from %q", url, publicURL)
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("url %q has no object key", url)
	}
	return key, nil
}
