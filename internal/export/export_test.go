package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusbits/internal/store"
)

func sampleSessions() []store.FocusSession {
	start := time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC)
	end1 := start.Add(15 * time.Minute)
	end2 := start.Add(40 * time.Minute)

	return []store.FocusSession{
		{
			ID:             "a1",
			Day:            "2024-05-10",
			Kind:           "task",
			Label:          "write report",
			PlannedSeconds: 900,
			Outcome:        store.OutcomeCompleted,
			StartedAt:      start,
			EndedAt:        &end1,
		},
		{
			ID:             "b2",
			Day:            "2024-05-10",
			Kind:           "break",
			PlannedSeconds: 900,
			Outcome:        store.OutcomeSkipped,
			StartedAt:      start.Add(20 * time.Minute),
			EndedAt:        &end2,
		},
		{
			ID:             "c3",
			Day:            "2024-05-10",
			Kind:           "task",
			Label:          "review",
			PlannedSeconds: 900,
			Outcome:        store.OutcomeRunning,
			StartedAt:      start.Add(time.Hour),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

func readJSON(t *testing.T, path string) jsonExport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return result
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleSessions(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Day", "Kind", "Label", "Start", "End", "Planned (s)", "Spent", "Outcome"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "a1" || row[2] != "task" || row[3] != "write report" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[6] != "900" {
		t.Fatalf("Planned = %q, want 900", row[6])
	}
	if row[7] != "00:15:00" {
		t.Fatalf("Spent = %q, want 00:15:00", row[7])
	}
	if row[8] != "completed" {
		t.Fatalf("Outcome = %q", row[8])
	}

	if records[2][3] != "" {
		t.Fatalf("break should have empty label, got %q", records[2][3])
	}

	running := records[3]
	if running[5] != "" {
		t.Fatalf("open session should have empty end time, got %q", running[5])
	}
	if running[7] != "00:00:00" {
		t.Fatalf("open session spent = %q", running[7])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	sessions := sampleSessions()[:1]
	sessions[0].Label = `email "Bob", then lunch`
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(sessions, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][3] != `email "Bob", then lunch` {
		t.Fatalf("label mangled: %q", records[1][3])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleSessions(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	result := readJSON(t, path)
	if result.Count != 3 || len(result.Sessions) != 3 {
		t.Fatalf("count = %d, sessions = %d", result.Count, len(result.Sessions))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	s := result.Sessions[0]
	if s.ID != "a1" || s.Label != "write report" || s.Outcome != "completed" {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.SpentSec != 900 || s.Spent != "00:15:00" {
		t.Fatalf("spent = %d / %q", s.SpentSec, s.Spent)
	}
	if s.PlannedSec != 900 {
		t.Fatalf("planned = %d", s.PlannedSec)
	}
	for _, s := range result.Sessions {
		if _, err := time.Parse(time.RFC3339, s.StartedAt); err != nil {
			t.Fatalf("started_at is not valid RFC3339: %q", s.StartedAt)
		}
	}
	if result.Sessions[2].EndedAt != "" {
		t.Fatalf("open session ended_at should be empty, got %q", result.Sessions[2].EndedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}
	result := readJSON(t, path)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Sessions != nil {
		t.Fatal("sessions should be null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{900, "00:15:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
