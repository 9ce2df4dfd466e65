package analytics

import (
	"sort"

	"github.com/amellor/streamstats/internal/history"
)

// albumKey joins album and artist the same way the report's Key field
// does, so callers can correlate albums across rollups.
func albumKey(album, artist string) string {
	return album + "__" + artist
}

// albumAccumulator holds the running state for one (album, artist) group
// while scanning valid events. It is finalized into an immutable
// AlbumReport once the scan completes.
type albumAccumulator struct {
	album       string
	artist      string
	hours       float64
	plays       int
	tracks      map[string]*trackTally
	dates       map[string]float64
	buckets     map[string]float64
	cells       map[monthWeekday]float64
	firstListen string
	lastListen  string
}

type trackTally struct {
	hours float64
	plays int
}

// albumReports groups valid events by (album, artist), with missing names
// defaulting to "Unknown Album" / "Unknown Artist", and derives the same
// rollup shapes as the global report scoped to each group. Results are
// sorted descending by hours.
func albumReports(valid []history.CanonicalEvent) []AlbumReport {
	groups := make(map[string]*albumAccumulator)
	for _, e := range valid {
		album := strOr(e.Album, "Unknown Album")
		artist := strOr(e.Artist, "Unknown Artist")
		key := albumKey(album, artist)

		acc, ok := groups[key]
		if !ok {
			acc = &albumAccumulator{
				album:       album,
				artist:      artist,
				tracks:      make(map[string]*trackTally),
				dates:       make(map[string]float64),
				buckets:     make(map[string]float64),
				cells:       make(map[monthWeekday]float64),
				firstListen: e.Date,
				lastListen:  e.Date,
			}
			groups[key] = acc
		}

		acc.hours += e.Hours
		acc.plays++
		if e.Date < acc.firstListen {
			acc.firstListen = e.Date
		}
		if e.Date > acc.lastListen {
			acc.lastListen = e.Date
		}
		if e.Track != nil {
			tally, ok := acc.tracks[*e.Track]
			if !ok {
				tally = &trackTally{}
				acc.tracks[*e.Track] = tally
			}
			tally.hours += e.Hours
			tally.plays++
		}
		acc.dates[e.Date] += e.Hours
		acc.buckets[e.TimeBucket] += e.Hours
		acc.cells[monthWeekday{e.Month, e.Weekday}] += e.Hours
	}

	reports := make([]AlbumReport, 0, len(groups))
	for key, acc := range groups {
		reports = append(reports, acc.finalize(key))
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Hours != reports[j].Hours {
			return reports[i].Hours > reports[j].Hours
		}
		return reports[i].Key < reports[j].Key
	})
	return reports
}

func (acc *albumAccumulator) finalize(key string) AlbumReport {
	mostPlayed := MostPlayedTrack{}
	for name, tally := range acc.tracks {
		better := tally.hours > mostPlayed.Hours ||
			(mostPlayed.Track != nil && tally.hours == mostPlayed.Hours && name < *mostPlayed.Track)
		if mostPlayed.Track == nil || better {
			n := name
			mostPlayed = MostPlayedTrack{Track: &n, Hours: tally.hours, Plays: tally.plays}
		}
	}

	// Share of the album's hours concentrated in its single most-played
	// track. Low means album-through listening, high means single-track
	// repetition.
	depthScore := 0.0
	if acc.hours > 0 {
		depthScore = mostPlayed.Hours / acc.hours
	}

	return AlbumReport{
		Key:          key,
		Album:        acc.album,
		Artist:       acc.artist,
		Hours:        acc.hours,
		Plays:        acc.plays,
		UniqueTracks: len(acc.tracks),
		DepthScore:   depthScore,
		MostPlayed:   mostPlayed,
		FirstListen:  acc.firstListen,
		LastListen:   acc.lastListen,
		TimeSeries:   dateTotalsSeries(acc.dates),
		TimeOfDay:    timeOfDay(acc.buckets),
		Heatmap:      heatmap(acc.cells),
	}
}

// artistCoverage groups album reports by artist, totalling hours and
// computing each album's percentage share. Albums keep their
// hours-descending order within an artist; artists sort descending by
// total hours.
func artistCoverage(albums []AlbumReport) []ArtistCoverage {
	totals := make(map[string]float64)
	shares := make(map[string][]AlbumShare)
	for _, a := range albums {
		totals[a.Artist] += a.Hours
		shares[a.Artist] = append(shares[a.Artist], AlbumShare{
			Key:   a.Key,
			Album: a.Album,
			Hours: a.Hours,
		})
	}

	coverage := make([]ArtistCoverage, 0, len(totals))
	for artist, total := range totals {
		albumShares := shares[artist]
		for i := range albumShares {
			if total > 0 {
				albumShares[i].Share = albumShares[i].Hours / total * 100
			}
		}
		sort.Slice(albumShares, func(i, j int) bool {
			if albumShares[i].Hours != albumShares[j].Hours {
				return albumShares[i].Hours > albumShares[j].Hours
			}
			return albumShares[i].Key < albumShares[j].Key
		})
		coverage = append(coverage, ArtistCoverage{
			Artist:     artist,
			TotalHours: total,
			Albums:     albumShares,
		})
	}
	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].TotalHours != coverage[j].TotalHours {
			return coverage[i].TotalHours > coverage[j].TotalHours
		}
		return coverage[i].Artist < coverage[j].Artist
	})
	return coverage
}
