// Package analytics computes the derived listening report from canonical
// events. Every rollup is an independent fold over the event collection;
// Compute and ComputeArtist are pure and never mutate their input.
//
// Several rollups deliberately differ in which events they see: aggregates
// weighted by hours use only events with strictly positive duration
// ("valid" events), while day counting, streaks, shuffle/offline counts,
// the first song, and the weekday occurrence counts use the full
// collection including zero and negative durations. That split is observed
// behavior of the system this replaces and is preserved as-is.
package analytics

import (
	"sort"
	"time"

	"github.com/amellor/streamstats/internal/history"
)

var monthOrder = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var milestoneThresholds = []int{100, 500, 1000, 2000, 5000, 10000, 20000}

// Compute derives the full report from a canonical event collection. It is
// total for well-typed input: an empty collection yields zero values, with
// FirstSong and MostListened nil (callers must guard those two).
//
// Go's map iteration is randomized, so every map-grouped rollup is emitted
// through an explicit sort with a key tie-break; identical input therefore
// yields identical output across calls.
func Compute(events []history.CanonicalEvent) *Report {
	valid := filterValid(events)

	var totalHours float64
	for _, e := range valid {
		totalHours += e.Hours
	}

	uniqueDays := countDistinctDates(events)
	avgHoursPerDay := 0.0
	if uniqueDays > 0 {
		avgHoursPerDay = totalHours / float64(uniqueDays)
	}

	dateTotals := sumByDate(valid)
	timeSeries := dateTotalsSeries(dateTotals)
	topTracks := rankTracks(valid)

	r := &Report{
		TotalHours:     totalHours,
		TotalTracks:    len(valid),
		UniqueDays:     uniqueDays,
		AvgHoursPerDay: avgHoursPerDay,
		TopTracks:      topTracks,
		PlatformUsage:  platformUsage(valid),
		ShuffleStats:   shuffleStats(events),
		OfflineStats:   offlineStats(events),
		CountryStats:   countryStats(valid),
		TimeSeries:     timeSeries,
		TimeOfDay:      timeOfDay(sumByBucket(valid)),
		MonthlyHours:   monthlyHours(valid),
		WeekdayHours:   weekdayHours(events, dateTotals),
		LongestStreak:  longestStreak(events),
		MaxDay:         maxDay(dateTotals),
		FirstSong:      firstSong(events),
		Milestones:     milestones(timeSeries),
		MostListened:   mostListened(topTracks, valid),
		SkippedTracks:  skippedTracks(events),
		TopPlayed:      topPlayedTracks(valid),
		Heatmap:        heatmap(sumByMonthWeekday(valid)),
	}

	r.AlbumStats = albumReports(valid)
	r.ArtistCoverage = artistCoverage(r.AlbumStats)
	return r
}

// filterValid keeps events with strictly positive play duration.
func filterValid(events []history.CanonicalEvent) []history.CanonicalEvent {
	valid := make([]history.CanonicalEvent, 0, len(events))
	for _, e := range events {
		if e.Hours > 0 {
			valid = append(valid, e)
		}
	}
	return valid
}

func countDistinctDates(events []history.CanonicalEvent) int {
	dates := make(map[string]struct{}, len(events))
	for _, e := range events {
		dates[e.Date] = struct{}{}
	}
	return len(dates)
}

func sumByDate(valid []history.CanonicalEvent) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range valid {
		totals[e.Date] += e.Hours
	}
	return totals
}

func dateTotalsSeries(totals map[string]float64) []DateHours {
	series := make([]DateHours, 0, len(totals))
	for date, hours := range totals {
		series = append(series, DateHours{Date: date, Hours: hours})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

type trackAgg struct {
	hours   float64
	artist  *string
	trackID *string
}

// rankTracks sums hours per track name. The artist recorded is the one on
// the first occurrence; the track ID is backfilled from the first event
// that carries one.
func rankTracks(valid []history.CanonicalEvent) []TopTrack {
	byTrack := make(map[string]*trackAgg)
	for _, e := range valid {
		if e.Track == nil {
			continue
		}
		agg, ok := byTrack[*e.Track]
		if !ok {
			agg = &trackAgg{artist: e.Artist, trackID: e.TrackID}
			byTrack[*e.Track] = agg
		}
		agg.hours += e.Hours
		if agg.trackID == nil && e.TrackID != nil {
			agg.trackID = e.TrackID
		}
	}

	tracks := make([]TopTrack, 0, len(byTrack))
	for name, agg := range byTrack {
		tracks = append(tracks, TopTrack{
			Track:   name,
			TrackID: agg.trackID,
			Hours:   agg.hours,
			Artist:  agg.artist,
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

func platformUsage(valid []history.CanonicalEvent) []PlatformHours {
	byPlatform := make(map[string]float64)
	for _, e := range valid {
		byPlatform[e.Platform] += e.Hours
	}

	usage := make([]PlatformHours, 0, len(byPlatform))
	for platform, hours := range byPlatform {
		usage = append(usage, PlatformHours{Platform: platform, Hours: hours})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Hours != usage[j].Hours {
			return usage[i].Hours > usage[j].Hours
		}
		return usage[i].Platform < usage[j].Platform
	})
	return usage
}

func shuffleStats(events []history.CanonicalEvent) ShuffleStats {
	var s ShuffleStats
	for _, e := range events {
		if e.Shuffle {
			s.Shuffled++
		} else {
			s.NotShuffled++
		}
	}
	return s
}

func offlineStats(events []history.CanonicalEvent) OfflineStats {
	var s OfflineStats
	for _, e := range events {
		if e.Offline {
			s.Offline++
		} else {
			s.Online++
		}
	}
	return s
}

func countryStats(valid []history.CanonicalEvent) []CountryHours {
	byCountry := make(map[string]float64)
	for _, e := range valid {
		country := "Unknown"
		if e.Country != nil {
			country = *e.Country
		}
		byCountry[country] += e.Hours
	}

	stats := make([]CountryHours, 0, len(byCountry))
	for country, hours := range byCountry {
		stats = append(stats, CountryHours{Country: country, Hours: hours})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Hours != stats[j].Hours {
			return stats[i].Hours > stats[j].Hours
		}
		return stats[i].Country < stats[j].Country
	})
	return stats
}

func sumByBucket(valid []history.CanonicalEvent) map[string]float64 {
	byBucket := make(map[string]float64)
	for _, e := range valid {
		byBucket[e.TimeBucket] += e.Hours
	}
	return byBucket
}

// timeOfDay emits all four buckets in canonical order, zero-filled.
func timeOfDay(byBucket map[string]float64) []BucketHours {
	buckets := []string{
		history.BucketMorning,
		history.BucketAfternoon,
		history.BucketEvening,
		history.BucketNight,
	}
	out := make([]BucketHours, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, BucketHours{Bucket: b, Hours: byBucket[b]})
	}
	return out
}

// monthlyHours sums per month abbreviation; months with no hours are
// omitted, the rest keep Jan..Dec order.
func monthlyHours(valid []history.CanonicalEvent) []MonthHours {
	byMonth := make(map[string]float64)
	for _, e := range valid {
		byMonth[e.Month] += e.Hours
	}

	out := make([]MonthHours, 0, len(monthOrder))
	for _, m := range monthOrder {
		if byMonth[m] > 0 {
			out = append(out, MonthHours{Month: m, Hours: byMonth[m]})
		}
	}
	return out
}

// weekdayHours reports, per weekday, the average of daily listening
// totals. The accumulator is keyed by event occurrence: every event in the
// full collection contributes its date's daily total once, and the
// occurrence count divides the sum. Days with many zero-duration events
// therefore dilute their weekday's average. This weighting is preserved
// from the observed behavior; do not replace it with a distinct-day
// average.
func weekdayHours(events []history.CanonicalEvent, dateTotals map[string]float64) []WeekdayHours {
	type acc struct {
		total float64
		count int
	}
	byWeekday := make(map[string]*acc)
	for _, e := range events {
		a, ok := byWeekday[e.Weekday]
		if !ok {
			a = &acc{}
			byWeekday[e.Weekday] = a
		}
		a.total += dateTotals[e.Date]
		a.count++
	}

	out := make([]WeekdayHours, 0, len(weekdayOrder))
	for _, w := range weekdayOrder {
		hours := 0.0
		if a, ok := byWeekday[w]; ok && a.count > 0 {
			hours = a.total / float64(a.count)
		}
		out = append(out, WeekdayHours{Weekday: w, Hours: hours})
	}
	return out
}

// longestStreak finds the longest run of calendar-consecutive dates over
// the full event collection. The in-progress run must be closed after the
// scan as well, or a streak ending on the final date is lost.
func longestStreak(events []history.CanonicalEvent) Streak {
	seen := make(map[string]struct{})
	for _, e := range events {
		seen[e.Date] = struct{}{}
	}
	if len(seen) == 0 {
		return Streak{}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	longest := Streak{}
	run := 1
	runStart := dates[0]
	for i := 1; i < len(dates); i++ {
		if nextCalendarDay(dates[i-1], dates[i]) {
			run++
			continue
		}
		if run > longest.Days {
			longest = Streak{Days: run, Start: runStart, End: dates[i-1]}
		}
		run = 1
		runStart = dates[i]
	}
	if run > longest.Days {
		longest = Streak{Days: run, Start: runStart, End: dates[len(dates)-1]}
	}
	return longest
}

// nextCalendarDay reports whether b is exactly one calendar day after a.
// Dates that fail to parse never continue a run.
func nextCalendarDay(a, b string) bool {
	at, err := time.Parse("2006-01-02", a)
	if err != nil {
		return false
	}
	bt, err := time.Parse("2006-01-02", b)
	if err != nil {
		return false
	}
	return at.AddDate(0, 0, 1).Equal(bt)
}

func maxDay(dateTotals map[string]float64) DateHours {
	best := DateHours{}
	found := false
	for date, hours := range dateTotals {
		if !found || hours > best.Hours || (hours == best.Hours && date < best.Date) {
			best = DateHours{Date: date, Hours: hours}
			found = true
		}
	}
	return best
}

// firstSong picks the event with the earliest true UTC instant over the
// full collection, not the earliest local date. Returns nil when there are
// no events.
func firstSong(events []history.CanonicalEvent) *FirstSong {
	if len(events) == 0 {
		return nil
	}
	first := events[0]
	for _, e := range events[1:] {
		if e.Timestamp.Before(first.Timestamp) {
			first = e
		}
	}
	return &FirstSong{
		Track:  strOr(first.Track, "Unknown"),
		Artist: strOr(first.Artist, "Unknown"),
		Date:   first.Date,
	}
}

// milestones walks the cumulative sum of the date-ascending time series
// and records the first date at which each threshold is reached. Unreached
// thresholds are omitted rather than zero-filled.
func milestones(timeSeries []DateHours) []Milestone {
	out := make([]Milestone, 0, len(milestoneThresholds))
	for _, threshold := range milestoneThresholds {
		cumulative := 0.0
		for _, entry := range timeSeries {
			cumulative += entry.Hours
			if cumulative >= float64(threshold) {
				out = append(out, Milestone{Hours: threshold, Date: entry.Date})
				break
			}
		}
	}
	return out
}

// mostListened takes the top ranked track and finds its single biggest
// day. The reported hours are the track's overall total.
func mostListened(topTracks []TopTrack, valid []history.CanonicalEvent) *MostListened {
	if len(topTracks) == 0 {
		return nil
	}
	top := topTracks[0]

	byDate := make(map[string]float64)
	for _, e := range valid {
		if e.Track != nil && *e.Track == top.Track {
			byDate[e.Date] += e.Hours
		}
	}
	peak := maxDay(byDate)
	return &MostListened{Track: top.Track, Hours: top.Hours, Date: peak.Date}
}

// skippedTracks counts skip occurrences per track over the full collection
// (a skip with zero duration still counts) and keeps the top five.
func skippedTracks(events []history.CanonicalEvent) []SkipCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Skipped && e.Track != nil {
			counts[*e.Track]++
		}
	}

	skips := make([]SkipCount, 0, len(counts))
	for track, count := range counts {
		skips = append(skips, SkipCount{Track: track, Count: count})
	}
	sort.Slice(skips, func(i, j int) bool {
		if skips[i].Count != skips[j].Count {
			return skips[i].Count > skips[j].Count
		}
		return skips[i].Track < skips[j].Track
	})
	if len(skips) > 5 {
		skips = skips[:5]
	}
	return skips
}

// topPlayedTracks ranks valid, non-skipped plays by hours, top five.
func topPlayedTracks(valid []history.CanonicalEvent) []TrackHours {
	byTrack := make(map[string]float64)
	for _, e := range valid {
		if !e.Skipped && e.Track != nil {
			byTrack[*e.Track] += e.Hours
		}
	}

	tracks := make([]TrackHours, 0, len(byTrack))
	for track, hours := range byTrack {
		tracks = append(tracks, TrackHours{Track: track, Hours: hours})
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Hours != tracks[j].Hours {
			return tracks[i].Hours > tracks[j].Hours
		}
		return tracks[i].Track < tracks[j].Track
	})
	if len(tracks) > 5 {
		tracks = tracks[:5]
	}
	return tracks
}

type monthWeekday struct {
	month   string
	weekday string
}

func sumByMonthWeekday(valid []history.CanonicalEvent) map[monthWeekday]float64 {
	cells := make(map[monthWeekday]float64)
	for _, e := range valid {
		cells[monthWeekday{e.Month, e.Weekday}] += e.Hours
	}
	return cells
}

// heatmap emits all 84 month x weekday cells in canonical order,
// zero-filled.
func heatmap(cells map[monthWeekday]float64) []HeatmapCell {
	out := make([]HeatmapCell, 0, len(monthOrder)*len(weekdayOrder))
	for _, m := range monthOrder {
		for _, w := range weekdayOrder {
			out = append(out, HeatmapCell{
				Month:   m,
				Weekday: w,
				Hours:   cells[monthWeekday{m, w}],
			})
		}
	}
	return out
}

func strOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
