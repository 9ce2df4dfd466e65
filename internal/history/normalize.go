package history

import (
	"strings"
	"time"
	// Bundle the zone database so local-time conversion works on hosts
	// without system tzdata.
	_ "time/tzdata"
)

// Bucket labels, in canonical order. Night wraps past midnight.
const (
	BucketMorning   = "Morning (5-11)"
	BucketAfternoon = "Afternoon (12-17)"
	BucketEvening   = "Evening (18-22)"
	BucketNight     = "Night (23-4)"
)

// fallbackCutoff splits the no-country fallback: events at or after it
// resolve to America/New_York, earlier ones to Asia/Kolkata. This encodes
// one user's relocation and is intentionally not a general rule.
var fallbackCutoff = time.Date(2024, time.August, 4, 0, 0, 0, 0, time.UTC)

var (
	zoneKolkata = mustLoadLocation("Asia/Kolkata")
	zoneNewYork = mustLoadLocation("America/New_York")
	zoneQatar   = mustLoadLocation("Asia/Qatar")
)

// countryZones maps the few countries with known listening history to
// their timezone. Every other country code resolves to UTC.
var countryZones = map[string]*time.Location{
	"IN": zoneKolkata,
	"US": zoneNewYork,
	"QA": zoneQatar,
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// platformFamily is one keyword family for platform classification.
// Families are tested in order; the first match wins.
type platformFamily struct {
	name     string
	keywords []string
}

var platformFamilies = []platformFamily{
	{"Android", []string{"android"}},
	{"iOS", []string{"ios", "iphone", "ipad", "mac", "darwin"}},
	{"Windows", []string{"windows"}},
	{"Google Cast", []string{"google cast", "chromecast", "cast_"}},
}

// Normalize maps each raw event to its canonical form. The result has the
// same length and order as the input; no events are dropped or added.
// A timestamp that fails to parse yields the zero time, which propagates
// into the derived fields rather than producing an error.
func Normalize(raw []RawEvent) []CanonicalEvent {
	events := make([]CanonicalEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, normalizeEvent(r))
	}
	return events
}

func normalizeEvent(r RawEvent) CanonicalEvent {
	// IP fields are dropped here and never read again.
	r.IPAddr = nil
	r.IPAddrDecrypted = nil

	tsUTC, err := time.Parse(time.RFC3339, r.TS)
	if err != nil {
		tsUTC = time.Time{}
	}

	local := tsUTC.In(resolveZone(r.ConnCountry, tsUTC))
	hour := local.Hour()

	return CanonicalEvent{
		Timestamp:   local,
		MsPlayed:    r.MsPlayed,
		Hours:       float64(r.MsPlayed) / (1000 * 60 * 60),
		Minutes:     float64(r.MsPlayed) / (1000 * 60),
		Date:        local.Format("2006-01-02"),
		Hour:        hour,
		Minute:      local.Minute(),
		Second:      local.Second(),
		Weekday:     local.Weekday().String(),
		Month:       local.Format("Jan"),
		MonthNum:    int(local.Month()),
		Year:        local.Year(),
		Platform:    classifyPlatform(r.Platform),
		TimeBucket:  timeBucket(hour),
		Track:       orNil(r.TrackName),
		Artist:      orNil(r.ArtistName),
		Album:       orNil(r.AlbumName),
		TrackID:     extractTrackID(r.TrackURI),
		Country:     countryName(r.ConnCountry),
		ReasonStart: orNil(r.ReasonStart),
		ReasonEnd:   orNil(r.ReasonEnd),
		Shuffle:     r.Shuffle,
		Skipped:     r.Skipped,
		Offline:     r.Offline,
		Incognito:   r.Incognito,
	}
}

func resolveZone(country *string, tsUTC time.Time) *time.Location {
	if country != nil && *country != "" {
		if zone, ok := countryZones[*country]; ok {
			return zone
		}
		return time.UTC
	}
	if !tsUTC.Before(fallbackCutoff) {
		return zoneNewYork
	}
	return zoneKolkata
}

func classifyPlatform(platform *string) string {
	if platform == nil || *platform == "" {
		return "Unknown"
	}
	lower := strings.ToLower(*platform)
	for _, family := range platformFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(lower, kw) {
				return family.name
			}
		}
	}
	return "Other"
}

// extractTrackID returns the final colon-delimited segment of a Spotify
// track URI, e.g. "spotify:track:abc123" -> "abc123".
func extractTrackID(uri *string) *string {
	if uri == nil || *uri == "" {
		return nil
	}
	parts := strings.Split(*uri, ":")
	id := parts[len(parts)-1]
	return &id
}

func timeBucket(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return BucketMorning
	case hour >= 12 && hour <= 17:
		return BucketAfternoon
	case hour >= 18 && hour <= 22:
		return BucketEvening
	default:
		return BucketNight
	}
}

// orNil collapses absent and empty strings to nil.
func orNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
