package imagehost

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sportsync/internal/models"
)

// readSource resolves an upload source into raw bytes, refusing anything
// larger than maxBytes.
func readSource(ctx context.Context, client *http.Client, source string, maxBytes int64) ([]byte, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return nil, models.NewValidationError("Invalid image file")
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(ctx, client, source, maxBytes)
	case strings.HasPrefix(source, "data:"):
		comma := strings.IndexByte(source, ',')
		if comma < 0 || !strings.Contains(source[:comma], ";base64") {
			return nil, models.NewValidationError("Invalid image file")
		}
		return decodeBase64(source[comma+1:], maxBytes)
	default:
		return decodeBase64(source, maxBytes)
	}
}

func decodeBase64(data string, maxBytes int64) ([]byte, error) {
	if int64(base64.StdEncoding.DecodedLen(len(data))) > maxBytes+2 {
		return nil, tooLarge(maxBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if int64(len(raw)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return raw, nil
}

func fetch(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewValidationError("Invalid image URL")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("fetch image: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewValidationError("Invalid image URL")
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("read image: %w", err))
	}
	if int64(len(raw)) > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	return raw, nil
}

func tooLarge(maxBytes int64) error {
	return models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxBytes/(1024*1024)))
}
