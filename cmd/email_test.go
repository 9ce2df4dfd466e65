package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/amellor/streamstats/internal/analytics"
	"github.com/amellor/streamstats/internal/history"
	"github.com/amellor/streamstats/internal/render"
)

func testSections(t *testing.T) []render.Section {
	t.Helper()
	country := "QA"
	track := "Help!"
	artist := "The Beatles"
	events := history.Normalize([]history.RawEvent{
		{
			TS:          "2024-01-01T08:00:00Z",
			MsPlayed:    3600000,
			ConnCountry: &country,
			TrackName:   &track,
			ArtistName:  &artist,
		},
	})
	return render.Sections(analytics.Compute(events), 10)
}

func TestRecapContent(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	subject, body := recapContent("monthly", testSections(t), now)

	want := "Listening recap through 2024-06-15: monthly"
	if subject != want {
		t.Errorf("subject = %q, want %q", subject, want)
	}
	if !strings.Contains(body, "Help!") {
		t.Errorf("body missing track name:\n%s", body)
	}
	if !strings.Contains(body, "<table>") {
		t.Errorf("body missing table markup:\n%s", body)
	}
}

func TestRecapContentWithoutName(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	subject, _ := recapContent("", testSections(t), now)
	if strings.Contains(subject, ":") {
		t.Errorf("unnamed recap subject should have no suffix: %q", subject)
	}
}

func TestFilterSections(t *testing.T) {
	sections := testSections(t)

	all := filterSections(sections, nil)
	if len(all) != len(sections) {
		t.Errorf("empty filter kept %d of %d sections", len(all), len(sections))
	}

	kept := filterSections(sections, []string{"overview", "Top Tracks"})
	if len(kept) != 2 {
		t.Fatalf("filter kept %d sections, want 2", len(kept))
	}
	if kept[0].Title != "Overview" || kept[1].Title != "Top tracks" {
		t.Errorf("kept sections = %q, %q", kept[0].Title, kept[1].Title)
	}

	none := filterSections(sections, []string{"no such section"})
	if len(none) != 0 {
		t.Errorf("bogus filter kept %d sections", len(none))
	}
}
