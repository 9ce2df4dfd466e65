package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amellor/streamstats/internal/recapstore"
)

func testDbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "recaps.db")
}

func writeTestHistory(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Streaming_History_Audio_2024.json")
	data := `[
	  {"ts": "2024-01-01T08:00:00Z", "ms_played": 3600000, "conn_country": "QA",
	   "master_metadata_track_name": "Help!",
	   "master_metadata_album_artist_name": "The Beatles"}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing history file: %v", err)
	}
	return path
}

func TestAddAndListRecaps(t *testing.T) {
	dbPath := testDbPath(t)

	err := addRecap(dbPath, "monthly", "test@example.com", 5, []string{"overview", "top tracks"})
	if err != nil {
		t.Fatalf("addRecap: %v", err)
	}

	var out bytes.Buffer
	if err := listRecaps(&out, dbPath); err != nil {
		t.Fatalf("listRecaps: %v", err)
	}
	listing := out.String()
	for _, want := range []string{"monthly", "test@example.com", "5", "overview,top tracks", "never"} {
		if !strings.Contains(listing, want) {
			t.Errorf("listing missing %q:\n%s", want, listing)
		}
	}
}

func TestListRecapsDefaultsToAll(t *testing.T) {
	dbPath := testDbPath(t)

	if err := addRecap(dbPath, "everything", "test@example.com", 1, nil); err != nil {
		t.Fatalf("addRecap: %v", err)
	}

	var out bytes.Buffer
	if err := listRecaps(&out, dbPath); err != nil {
		t.Fatalf("listRecaps: %v", err)
	}
	if !strings.Contains(out.String(), "all") {
		t.Errorf("listing should show 'all' for an unrestricted recap:\n%s", out.String())
	}
}

func TestAddRecapRejectsBadRunDay(t *testing.T) {
	dbPath := testDbPath(t)
	if err := addRecap(dbPath, "bad", "test@example.com", 32, nil); err == nil {
		t.Error("addRecap accepted run_day 32")
	}
}

func TestDeleteRecap(t *testing.T) {
	dbPath := testDbPath(t)

	if err := addRecap(dbPath, "monthly", "test@example.com", 5, nil); err != nil {
		t.Fatalf("addRecap: %v", err)
	}
	if err := deleteRecap(dbPath, "monthly"); err != nil {
		t.Fatalf("deleteRecap: %v", err)
	}
	if err := deleteRecap(dbPath, "monthly"); err == nil {
		t.Error("deleting a missing schedule should fail")
	}
}

func TestSendDueRecapsDryRun(t *testing.T) {
	dbPath := testDbPath(t)
	historyPath := writeTestHistory(t)

	if err := addRecap(dbPath, "monthly", "test@example.com", 5, nil); err != nil {
		t.Fatalf("addRecap: %v", err)
	}

	config := sendRecapsConfig{
		DbPath:      dbPath,
		HistoryPath: historyPath,
		From:        "sender@example.com",
		DryRun:      true,
	}
	if err := sendDueRecaps(config, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("sendDueRecaps: %v", err)
	}

	// Dry runs must not record a send.
	store, err := recapstore.New(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()
	schedules, err := store.List()
	if err != nil {
		t.Fatalf("listing schedules: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("got %d schedules, want 1", len(schedules))
	}
	if !schedules[0].Sent.IsZero() {
		t.Errorf("dry run recorded a send at %v", schedules[0].Sent)
	}
}

func TestSendDueRecapsNothingDue(t *testing.T) {
	dbPath := testDbPath(t)

	if err := addRecap(dbPath, "monthly", "test@example.com", 20, nil); err != nil {
		t.Fatalf("addRecap: %v", err)
	}

	// The 10th is before the run day, and nothing was sent last month, so
	// this is due for last month. Mark it sent first to make nothing due.
	store, err := recapstore.New(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	if err := store.MarkSent("monthly", now.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	store.Close()

	config := sendRecapsConfig{DbPath: dbPath, HistoryPath: "does-not-exist", DryRun: true}
	if err := sendDueRecaps(config, now); err != nil {
		t.Fatalf("sendDueRecaps with nothing due: %v", err)
	}
}
