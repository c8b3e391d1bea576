package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func runModctl(t *testing.T, bin, home, apiURL string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env(home, apiURL)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("modctl %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

func TestE2E_Modctl(t *testing.T) {
	bin := build(t, "modctl")
	srv := startBackend(t)
	home := t.TempDir()

	out := runModctl(t, bin, home, srv.URL, "list", "business", "-status", "PENDING")
	if !strings.Contains(out, "Fixture Bakery") || strings.Contains(out, "Fixture Cafe") {
		t.Errorf("list -status PENDING:\n%s", out)
	}
	if !strings.Contains(out, "2 matched") {
		t.Errorf("list footer missing match count:\n%s", out)
	}

	out = runModctl(t, bin, home, srv.URL, "counts", "-resource", "business")
	if !strings.Contains(out, "Pending 2") || !strings.Contains(out, "Active 1") {
		t.Errorf("counts:\n%s", out)
	}

	csv := filepath.Join(home, "payouts.csv")
	out = runModctl(t, bin, home, srv.URL, "export", "-o", csv)
	if !strings.Contains(out, "Exported 6 payouts") {
		t.Errorf("export:\n%s", out)
	}
	data, err := os.ReadFile(csv)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(strings.TrimSpace(string(data)), "\n"); lines != 6 {
		t.Errorf("csv has %d data lines, want 6", lines)
	}

	out = runModctl(t, bin, home, srv.URL, "history")
	if !strings.Contains(out, "No actions recorded.") {
		t.Errorf("history on a fresh journal:\n%s", out)
	}
}
