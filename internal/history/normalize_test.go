package history

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalizePreservesLengthAndOrder(t *testing.T) {
	raw := []RawEvent{
		{TS: "2023-01-01T10:00:00Z", TrackName: strPtr("first")},
		{TS: "2023-01-02T10:00:00Z", TrackName: strPtr("second")},
		{TS: "2023-01-03T10:00:00Z", TrackName: strPtr("third")},
	}

	events := Normalize(raw)
	if len(events) != len(raw) {
		t.Fatalf("Normalize returned %d events, want %d", len(events), len(raw))
	}
	for i, want := range []string{"first", "second", "third"} {
		if events[i].Track == nil || *events[i].Track != want {
			t.Errorf("events[%d].Track = %v, want %q", i, events[i].Track, want)
		}
	}
}

func TestNormalizeTimezoneByCountry(t *testing.T) {
	tests := []struct {
		name     string
		country  *string
		ts       string
		wantHour int
		wantDate string
	}{
		{"India is UTC+5:30", strPtr("IN"), "2023-06-01T10:00:00Z", 15, "2023-06-01"},
		{"Qatar is UTC+3", strPtr("QA"), "2023-06-01T22:30:00Z", 1, "2023-06-02"},
		{"US resolves to Eastern", strPtr("US"), "2023-06-01T10:00:00Z", 6, "2023-06-01"},
		{"unmapped country stays UTC", strPtr("FR"), "2023-06-01T10:00:00Z", 10, "2023-06-01"},
		{"missing country before cutoff uses Kolkata", nil, "2024-08-03T10:00:00Z", 15, "2024-08-03"},
		{"missing country at cutoff uses New York", nil, "2024-08-04T00:00:00Z", 20, "2024-08-03"},
		{"missing country after cutoff uses New York", nil, "2024-09-01T10:00:00Z", 6, "2024-09-01"},
		{"empty country treated as missing", strPtr(""), "2023-06-01T10:00:00Z", 15, "2023-06-01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			events := Normalize([]RawEvent{{TS: tc.ts, ConnCountry: tc.country}})
			got := events[0]
			if got.Hour != tc.wantHour {
				t.Errorf("Hour = %d, want %d", got.Hour, tc.wantHour)
			}
			if got.Date != tc.wantDate {
				t.Errorf("Date = %q, want %q", got.Date, tc.wantDate)
			}
		})
	}
}

func TestNormalizeDecomposition(t *testing.T) {
	qa := strPtr("QA")
	events := Normalize([]RawEvent{{
		TS:          "2024-01-01T10:30:45Z",
		ConnCountry: qa,
		MsPlayed:    5400000,
	}})
	e := events[0]

	// 2024-01-01 13:30:45 in Asia/Qatar, a Monday.
	if e.Hour != 13 || e.Minute != 30 || e.Second != 45 {
		t.Errorf("time = %02d:%02d:%02d, want 13:30:45", e.Hour, e.Minute, e.Second)
	}
	if e.Weekday != "Monday" {
		t.Errorf("Weekday = %q, want Monday", e.Weekday)
	}
	if e.Month != "Jan" || e.MonthNum != 1 || e.Year != 2024 {
		t.Errorf("month = %q/%d year = %d, want Jan/1 2024", e.Month, e.MonthNum, e.Year)
	}
	if e.Hours != 1.5 {
		t.Errorf("Hours = %v, want 1.5", e.Hours)
	}
	if e.Minutes != 90 {
		t.Errorf("Minutes = %v, want 90", e.Minutes)
	}
	if e.TimeBucket != BucketAfternoon {
		t.Errorf("TimeBucket = %q, want %q", e.TimeBucket, BucketAfternoon)
	}
	if e.Country == nil || *e.Country != "Qatar" {
		t.Errorf("Country = %v, want Qatar", e.Country)
	}
}

func TestNormalizeNegativeAndZeroDurationsPassThrough(t *testing.T) {
	events := Normalize([]RawEvent{
		{TS: "2023-01-01T10:00:00Z", MsPlayed: 0},
		{TS: "2023-01-01T10:00:00Z", MsPlayed: -60000},
	})
	if events[0].Hours != 0 {
		t.Errorf("zero duration: Hours = %v, want 0", events[0].Hours)
	}
	if events[1].Minutes != -1 {
		t.Errorf("negative duration: Minutes = %v, want -1", events[1].Minutes)
	}
}

func TestClassifyPlatform(t *testing.T) {
	tests := []struct {
		platform *string
		want     string
	}{
		{strPtr("Android OS 13 API 33 (samsung, SM-S901B)"), "Android"},
		{strPtr("iOS 16.5 (iPhone14,5)"), "iOS"},
		{strPtr("Partner ios_sdk"), "iOS"},
		{strPtr("OS X 12.6.0 [x86 8] Mac"), "iOS"},
		{strPtr("Darwin Kernel 21.6"), "iOS"},
		{strPtr("Windows 10 (10.0.19045; x64)"), "Windows"},
		{strPtr("Google Cast device"), "Google Cast"},
		{strPtr("Chromecast Ultra"), "Google Cast"},
		{strPtr("cast_receiver v3"), "Google Cast"},
		{strPtr("Linux [x86-64 0]"), "Other"},
		{strPtr(""), "Unknown"},
		{nil, "Unknown"},
	}

	for _, tc := range tests {
		got := classifyPlatform(tc.platform)
		if got != tc.want {
			t.Errorf("classifyPlatform(%v) = %q, want %q", tc.platform, got, tc.want)
		}
	}
}

func TestPlatformFamilyPriority(t *testing.T) {
	// Contains both "android" and "windows"; Android is tested first.
	got := classifyPlatform(strPtr("windows bridge for android"))
	if got != "Android" {
		t.Errorf("classifyPlatform = %q, want Android", got)
	}
}

func TestExtractTrackID(t *testing.T) {
	events := Normalize([]RawEvent{
		{TS: "2023-01-01T10:00:00Z", TrackURI: strPtr("spotify:track:4uLU6hMCjMI75M1A2tKUQC")},
		{TS: "2023-01-01T10:00:00Z"},
	})
	if events[0].TrackID == nil || *events[0].TrackID != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("TrackID = %v, want 4uLU6hMCjMI75M1A2tKUQC", events[0].TrackID)
	}
	if events[1].TrackID != nil {
		t.Errorf("TrackID = %v, want nil for missing URI", events[1].TrackID)
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code *string
		want *string
	}{
		{strPtr("IN"), strPtr("India")},
		{strPtr("US"), strPtr("United States")},
		{strPtr("GB"), strPtr("United Kingdom")},
		{strPtr("XZ"), nil},
		{strPtr(""), nil},
		{nil, nil},
	}
	for _, tc := range tests {
		got := countryName(tc.code)
		switch {
		case got == nil && tc.want == nil:
		case got == nil || tc.want == nil || *got != *tc.want:
			t.Errorf("countryName(%v) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestTimeBucketRanges(t *testing.T) {
	wantByHour := map[int]string{
		0: BucketNight, 4: BucketNight, 5: BucketMorning, 11: BucketMorning,
		12: BucketAfternoon, 17: BucketAfternoon, 18: BucketEvening,
		22: BucketEvening, 23: BucketNight,
	}
	for hour, want := range wantByHour {
		if got := timeBucket(hour); got != want {
			t.Errorf("timeBucket(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestNormalizeInvalidTimestampPropagates(t *testing.T) {
	events := Normalize([]RawEvent{{TS: "not-a-timestamp", ConnCountry: strPtr("QA")}})
	if !events[0].Timestamp.Equal(time.Time{}) {
		t.Errorf("Timestamp = %v, want zero time", events[0].Timestamp)
	}
	if events[0].Date != "0001-01-01" {
		t.Errorf("Date = %q, want 0001-01-01", events[0].Date)
	}
}

func TestNormalizeStripsIPAddresses(t *testing.T) {
	const ip = "203.0.113.7"
	events := Normalize([]RawEvent{{
		TS:              "2023-01-01T10:00:00Z",
		IPAddr:          strPtr(ip),
		IPAddrDecrypted: strPtr(ip),
		TrackName:       strPtr("a track"),
	}})

	encoded, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshalling canonical events: %v", err)
	}
	if strings.Contains(string(encoded), ip) {
		t.Errorf("canonical output contains stripped IP address: %s", encoded)
	}
}

func TestNormalizeEmptyStringsBecomeNil(t *testing.T) {
	events := Normalize([]RawEvent{{
		TS:          "2023-01-01T10:00:00Z",
		TrackName:   strPtr(""),
		ArtistName:  strPtr(""),
		AlbumName:   strPtr(""),
		ReasonStart: strPtr(""),
	}})
	e := events[0]
	if e.Track != nil || e.Artist != nil || e.Album != nil || e.ReasonStart != nil {
		t.Errorf("empty optional strings should normalize to nil, got %+v", e)
	}
}
