package imagehost

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"sportsync/internal/middleware"

	"github.com/google/uuid"
)

// Archiver keeps a local copy of every hosted image under Dir as
// <kind>_<unix millis>_<uuid>.<ext>.
type Archiver struct {
	Dir    string
	Strict bool
	Client *http.Client
	now    func() time.Time
}

// NewArchiver returns an archiver writing into dir. A strict archiver turns
// copy failures into request failures; otherwise they are logged.
func NewArchiver(dir string, strict bool) *Archiver {
	return &Archiver{
		Dir:    dir,
		Strict: strict,
		Client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

// Archive downloads url into the archive directory and returns the file path.
func (a *Archiver) Archive(ctx context.Context, kind, url string) (string, error) {
	p, err := a.archive(ctx, kind, url)
	if err != nil {
		if a.Strict {
			return "", err
		}
		middleware.Logger.WarnContext(ctx, "Image archive copy failed",
			slog.String("kind", kind),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return "", nil
	}
	return p, nil
}

func (a *Archiver) archive(ctx context.Context, kind, url string) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build archive request: %w", err)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	ext := path.Ext(req.URL.Path)
	if ext == "" {
		ext = ".webp"
	}
	name := fmt.Sprintf("%s_%d_%s%s", kind, a.now().UnixMilli(), uuid.NewString(), ext)
	target := filepath.Join(a.Dir, name)

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write archive file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close archive file: %w", err)
	}
	return target, nil
}
