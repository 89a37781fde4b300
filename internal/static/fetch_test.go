package static

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeTestZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create %s in zip: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFetchAndLoadFromZip(t *testing.T) {
	zipData := writeTestZip(t, map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name\nR1,C1,València Nord - Gandia\n",
		"trips.txt":  "trip_id,route_id,trip_headsign\nT1,R1,Gandia\n",
		"agency.txt": "agency_id,agency_name\nrenfe,Renfe\n",
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zipData)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "cache", "fomento_transit.zip")
	if err := Fetch(context.Background(), server.URL, dest); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}

	store := NewStore()
	if err := store.LoadFromZip(dest); err != nil {
		t.Fatalf("LoadFromZip failed: %v", err)
	}
	if store.TripCount() != 1 || store.RouteCount() != 1 {
		t.Errorf("counts = (%d routes, %d trips), want (1, 1)", store.RouteCount(), store.TripCount())
	}
}

func TestFetchNon200IsLoadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := Fetch(context.Background(), server.URL, filepath.Join(t.TempDir(), "gtfs.zip"))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
}

func TestFetchUnreachableIsLoadError(t *testing.T) {
	err := Fetch(context.Background(), "http://127.0.0.1:1/gtfs.zip", filepath.Join(t.TempDir(), "gtfs.zip"))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
}

func TestLoadFromZipMissingTripsFile(t *testing.T) {
	zipData := writeTestZip(t, map[string]string{
		"routes.txt": "route_id,route_short_name,route_long_name\nR1,C1,Long\n",
	})
	path := filepath.Join(t.TempDir(), "partial.zip")
	if err := os.WriteFile(path, zipData, 0644); err != nil {
		t.Fatal(err)
	}

	err := NewStore().LoadFromZip(path)

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for missing trips.txt, got %T: %v", err, err)
	}
}

func TestLoadFromZipNotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.zip")
	if err := os.WriteFile(path, []byte("<html>maintenance page</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewStore().LoadFromZip(path)

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for corrupt archive, got %T: %v", err, err)
	}
}
