package static

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetch downloads the static GTFS zip to destPath. The Renfe feed is a
// plain zip, no credentials needed.
func Fetch(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return &LoadError{Source: url, Err: err}
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return &LoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &LoadError{Source: url, Err: fmt.Errorf("download returned status %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return &LoadError{Source: url, Err: err}
	}

	out, err := os.Create(destPath)
	if err != nil {
		return &LoadError{Source: url, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return &LoadError{Source: url, Err: err}
	}

	return nil
}

// LoadFromZip reads routes.txt and trips.txt out of a GTFS zip archive.
// A missing file inside the archive is a whole-source failure.
func (s *Store) LoadFromZip(zipPath string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return &LoadError{Source: zipPath, Err: err}
	}
	defer r.Close()

	routes, err := openZipFile(&r.Reader, "routes.txt")
	if err != nil {
		return &LoadError{Source: zipPath, Err: err}
	}
	defer routes.Close()

	trips, err := openZipFile(&r.Reader, "trips.txt")
	if err != nil {
		return &LoadError{Source: zipPath, Err: err}
	}
	defer trips.Close()

	return s.Load(routes, trips)
}

func openZipFile(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}
