package analytics

import (
	"sort"

	"github.com/amellor/streamstats/internal/history"
)

// ComputeArtist recomputes the core rollups restricted to events whose
// artist exactly matches artistName. The rules are identical to the global
// computation: hour-weighted aggregates use valid events only, unique days
// count the full filtered set.
func ComputeArtist(events []history.CanonicalEvent, artistName string) *ArtistReport {
	scoped := make([]history.CanonicalEvent, 0, len(events))
	for _, e := range events {
		if e.Artist != nil && *e.Artist == artistName {
			scoped = append(scoped, e)
		}
	}
	valid := filterValid(scoped)

	var totalHours float64
	trackNames := make(map[string]struct{})
	for _, e := range valid {
		totalHours += e.Hours
		trackNames[strOr(e.Track, "")] = struct{}{}
	}

	uniqueDays := countDistinctDates(scoped)
	avgHoursPerDay := 0.0
	if uniqueDays > 0 {
		avgHoursPerDay = totalHours / float64(uniqueDays)
	}

	return &ArtistReport{
		TotalHours:     totalHours,
		UniqueTracks:   len(trackNames),
		UniqueDays:     uniqueDays,
		AvgHoursPerDay: avgHoursPerDay,
		TopTracks:      artistTopTracks(valid, artistName),
		TimeOfDay:      timeOfDay(sumByBucket(valid)),
		TimeSeries:     dateTotalsSeries(sumByDate(valid)),
	}
}

// artistTopTracks mirrors rankTracks but stamps every entry with the
// scoped artist name.
func artistTopTracks(valid []history.CanonicalEvent, artistName string) []TopTrack {
	type agg struct {
		hours   float64
		trackID *string
	}
	byTrack := make(map[string]*agg)
	for _, e := range valid {
		if e.Track == nil {
			continue
		}
		a, ok := byTrack[*e.Track]
		if !ok {
			a = &agg{trackID: e.TrackID}
			byTrack[*e.Track] = a
		}
		a.hours += e.Hours
		if a.trackID == nil && e.TrackID != nil {
			a.trackID = e.TrackID
		}
	}

	artist := artistName
	tracks := make([]TopTrack, 0, len(byTrack))
	for name, a := range byTrack {
		tracks = append(tracks, TopTrack{
			Track:   name,
			TrackID: a.trackID,
			Hours:   a.hours,
			Artist:  &artist,
		})
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Hours != tracks[j].Hours {
			return tracks[i].Hours > tracks[j].Hours
		}
		return tracks[i].Track < tracks[j].Track
	})
	return tracks
}
