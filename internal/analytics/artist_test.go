package analytics

import (
	"reflect"
	"testing"

	"github.com/amellor/streamstats/internal/history"
)

func TestComputeArtistScoping(t *testing.T) {
	raw := []history.RawEvent{
		play("2024-01-01T08:00:00Z", "A", "X", "Alb1", hourMs),
		play("2024-01-02T08:00:00Z", "B", "X", "Alb1", 2*hourMs),
		play("2024-01-02T10:00:00Z", "C", "Y", "Alb2", 5*hourMs),
		play("2024-01-03T08:00:00Z", "A", "X", "Alb1", hourMs),
	}
	r := ComputeArtist(normalize(t, raw), "X")

	if !almostEqual(r.TotalHours, 4.0) {
		t.Errorf("TotalHours = %v, want 4.0 (Y excluded)", r.TotalHours)
	}
	if r.UniqueTracks != 2 {
		t.Errorf("UniqueTracks = %d, want 2", r.UniqueTracks)
	}
	if r.UniqueDays != 3 {
		t.Errorf("UniqueDays = %d, want 3", r.UniqueDays)
	}
	if !almostEqual(r.AvgHoursPerDay, 4.0/3) {
		t.Errorf("AvgHoursPerDay = %v, want %v", r.AvgHoursPerDay, 4.0/3)
	}

	if len(r.TopTracks) != 2 {
		t.Fatalf("TopTracks has %d entries, want 2", len(r.TopTracks))
	}
	if r.TopTracks[0].Track != "A" || !almostEqual(r.TopTracks[0].Hours, 2.0) {
		t.Errorf("TopTracks[0] = %+v, want A with 2.0 hours", r.TopTracks[0])
	}
	for _, tr := range r.TopTracks {
		if tr.Artist == nil || *tr.Artist != "X" {
			t.Errorf("TopTracks entry %+v not stamped with scoped artist", tr)
		}
	}

	if len(r.TimeOfDay) != 4 {
		t.Errorf("TimeOfDay has %d buckets, want 4", len(r.TimeOfDay))
	}
	if len(r.TimeSeries) != 3 {
		t.Errorf("TimeSeries has %d dates, want 3", len(r.TimeSeries))
	}
}

func TestComputeArtistExactMatchOnly(t *testing.T) {
	raw := []history.RawEvent{
		play("2024-01-01T08:00:00Z", "A", "Radiohead", "", hourMs),
		play("2024-01-02T08:00:00Z", "B", "radiohead", "", hourMs),
	}
	r := ComputeArtist(normalize(t, raw), "Radiohead")

	if !almostEqual(r.TotalHours, 1.0) {
		t.Errorf("TotalHours = %v, want 1.0 (match is case-sensitive)", r.TotalHours)
	}
}

func TestComputeArtistUnknownArtistEmpty(t *testing.T) {
	raw := []history.RawEvent{
		play("2024-01-01T08:00:00Z", "A", "X", "", hourMs),
	}
	r := ComputeArtist(normalize(t, raw), "nobody")

	if r.TotalHours != 0 || r.UniqueDays != 0 || len(r.TopTracks) != 0 {
		t.Errorf("report for unmatched artist = %+v, want empty", r)
	}
	if r.AvgHoursPerDay != 0 {
		t.Errorf("AvgHoursPerDay = %v, want 0 (guarded division)", r.AvgHoursPerDay)
	}
}

func TestComputeArtistDeterministic(t *testing.T) {
	raw := []history.RawEvent{
		play("2024-01-01T08:00:00Z", "A", "X", "", hourMs),
		play("2024-01-01T09:00:00Z", "B", "X", "", hourMs),
		play("2024-01-01T10:00:00Z", "C", "X", "", hourMs),
	}
	events := normalize(t, raw)

	first := ComputeArtist(events, "X")
	second := ComputeArtist(events, "X")
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated ComputeArtist over identical input differs")
	}
}
