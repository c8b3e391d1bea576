package e2e

import (
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/abelbrown/moderator/internal/catalog"
	"github.com/abelbrown/moderator/internal/mockapi"
	"github.com/abelbrown/moderator/internal/model"
)

// startBackend serves a mock API with a small deterministic business
// collection.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	backend := mockapi.New(mockapi.Options{Seed: 7, PerResource: 6})
	backend.Seed(catalog.Business, []model.Record{
		model.NewRecord(map[string]any{"_id": "b1", "name": "Fixture Bakery", "owner": "ana", "category": "food", "status": "PENDING", "createdAt": "2025-03-03T10:00:00Z"}),
		model.NewRecord(map[string]any{"_id": "b2", "name": "Fixture Books", "owner": "ben", "category": "retail", "status": "PENDING", "createdAt": "2025-03-02T10:00:00Z"}),
		model.NewRecord(map[string]any{"_id": "b3", "name": "Fixture Cafe", "owner": "cy", "category": "food", "status": "ACTIVE", "createdAt": "2025-03-01T10:00:00Z"}),
	})
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// build compiles ./cmd/<name> into a temp dir and returns the binary path.
func build(t *testing.T, name string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds binaries")
	}
	binPath := filepath.Join(t.TempDir(), name)

	rootDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	// Assume we are in test/e2e, go up 2 levels
	rootDir = filepath.Join(rootDir, "..", "..")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/"+name)
	cmd.Dir = rootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

// env points a binary at the backend with a fresh data directory.
func env(home, apiURL string) []string {
	return append(os.Environ(),
		"HOME="+home,
		"MODERATOR_CONFIG=",
		"MODERATOR_DATA_DIR="+filepath.Join(home, ".moderator"),
		"MODERATOR_API_URL="+apiURL,
		"MODERATOR_API_TOKEN=e2e",
		"MODERATOR_SEARCH_DEBOUNCE=50ms",
	)
}
