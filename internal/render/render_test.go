package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amellor/streamstats/internal/analytics"
	"github.com/amellor/streamstats/internal/history"
)

func strPtr(s string) *string {
	return &s
}

func sampleReport(t *testing.T) *analytics.Report {
	t.Helper()
	qa := "QA"
	raw := []history.RawEvent{
		{TS: "2024-01-01T08:00:00Z", MsPlayed: 3600000, ConnCountry: &qa,
			TrackName: strPtr("Come Together"), ArtistName: strPtr("The Beatles"), AlbumName: strPtr("Abbey Road")},
		{TS: "2024-01-02T08:00:00Z", MsPlayed: 7200000, ConnCountry: &qa,
			TrackName: strPtr("Something"), ArtistName: strPtr("The Beatles"), AlbumName: strPtr("Abbey Road")},
	}
	return analytics.Compute(history.Normalize(raw))
}

func TestWriteTextIncludesHeadlineStats(t *testing.T) {
	var out bytes.Buffer
	if err := WriteText(&out, Sections(sampleReport(t), 10)); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got := out.String()

	for _, want := range []string{"## Overview", "## Top tracks", "Something", "The Beatles", "Abbey Road"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q. Got:\n%s", want, got)
		}
	}
}

func TestSectionsTruncatesRankedLists(t *testing.T) {
	sections := Sections(sampleReport(t), 1)
	for _, s := range sections {
		if s.Title == "Top tracks" {
			// Header plus one entry.
			if len(s.Rows) != 2 {
				t.Errorf("Top tracks has %d rows, want 2", len(s.Rows))
			}
			if s.Rows[1][1] != "Something" {
				t.Errorf("top track = %q, want Something", s.Rows[1][1])
			}
		}
	}
}

func TestHTMLBody(t *testing.T) {
	body := HTML("Listening recap", Sections(sampleReport(t), 10))

	for _, want := range []string{"<h1>Listening recap</h1>", "<table>", "Come Together"} {
		if !strings.Contains(body, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
}

func TestWriteTextEmptyReport(t *testing.T) {
	var out bytes.Buffer
	empty := analytics.Compute(nil)
	if err := WriteText(&out, Sections(empty, 10)); err != nil {
		t.Fatalf("WriteText on empty report: %v", err)
	}
	if !strings.Contains(out.String(), "No listens found.") {
		t.Errorf("empty sections should render a placeholder. Got:\n%s", out.String())
	}
}
