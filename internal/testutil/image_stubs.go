package testutil

import (
	"context"
	"fmt"
	"sync"
)

// FakeImageHost is an in-memory ImageHost for service and handler tests.
type FakeImageHost struct {
	mu        sync.Mutex
	seq       int
	Uploaded  []string
	Destroyed []string
	UploadErr error
	// DestroyErrs are returned in order by successive Destroy calls.
	DestroyErrs []error
}

// Upload records the source and returns a deterministic URL.
func (f *FakeImageHost) Upload(_ context.Context, _ string, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	f.seq++
	url := fmt.Sprintf("https://images.test/%s/%d.webp", folder, f.seq)
	f.Uploaded = append(f.Uploaded, url)
	return url, nil
}

// Destroy records the url and pops the next configured error.
func (f *FakeImageHost) Destroy(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Destroyed = append(f.Destroyed, url)
	if len(f.DestroyErrs) > 0 {
		err := f.DestroyErrs[0]
		f.DestroyErrs = f.DestroyErrs[1:]
		return err
	}
	return nil
}

// DestroyCount returns the number of Destroy calls so far.
func (f *FakeImageHost) DestroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Destroyed)
}
