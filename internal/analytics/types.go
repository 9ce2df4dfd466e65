package analytics

// Report is the full set of derived statistics for one listening history.
// It is computed fresh from a canonical event collection and never updated
// incrementally.
type Report struct {
	TotalHours     float64          `json:"totalHours" yaml:"totalHours"`
	TotalTracks    int              `json:"totalTracks" yaml:"totalTracks"`
	UniqueDays     int              `json:"uniqueDays" yaml:"uniqueDays"`
	AvgHoursPerDay float64          `json:"avgHoursPerDay" yaml:"avgHoursPerDay"`
	TopTracks      []TopTrack       `json:"topTracks" yaml:"topTracks"`
	AlbumStats     []AlbumReport    `json:"albumStats" yaml:"albumStats"`
	ArtistCoverage []ArtistCoverage `json:"artistAlbumCoverage" yaml:"artistAlbumCoverage"`
	PlatformUsage  []PlatformHours  `json:"platformUsage" yaml:"platformUsage"`
	ShuffleStats   ShuffleStats     `json:"shuffleStats" yaml:"shuffleStats"`
	OfflineStats   OfflineStats     `json:"offlineStats" yaml:"offlineStats"`
	CountryStats   []CountryHours   `json:"countryStats" yaml:"countryStats"`
	TimeSeries     []DateHours      `json:"timeSeries" yaml:"timeSeries"`
	TimeOfDay      []BucketHours    `json:"timeOfDay" yaml:"timeOfDay"`
	MonthlyHours   []MonthHours     `json:"monthlyHours" yaml:"monthlyHours"`
	WeekdayHours   []WeekdayHours   `json:"weekdayHours" yaml:"weekdayHours"`
	LongestStreak  Streak           `json:"longestStreak" yaml:"longestStreak"`
	MaxDay         DateHours        `json:"maxDay" yaml:"maxDay"`
	FirstSong      *FirstSong       `json:"firstSong" yaml:"firstSong"`
	Milestones     []Milestone      `json:"milestones" yaml:"milestones"`
	MostListened   *MostListened    `json:"mostListenedTrack" yaml:"mostListenedTrack"`
	SkippedTracks  []SkipCount      `json:"skippedTracks" yaml:"skippedTracks"`
	TopPlayed      []TrackHours     `json:"topPlayedTracks" yaml:"topPlayedTracks"`
	Heatmap        []HeatmapCell    `json:"heatmapData" yaml:"heatmapData"`
}

// ArtistReport is the artist-scoped subset of the global report.
type ArtistReport struct {
	TotalHours     float64       `json:"totalHours" yaml:"totalHours"`
	UniqueTracks   int           `json:"uniqueTracks" yaml:"uniqueTracks"`
	UniqueDays     int           `json:"uniqueDays" yaml:"uniqueDays"`
	AvgHoursPerDay float64       `json:"avgHoursPerDay" yaml:"avgHoursPerDay"`
	TopTracks      []TopTrack    `json:"topTracks" yaml:"topTracks"`
	TimeOfDay      []BucketHours `json:"timeOfDay" yaml:"timeOfDay"`
	TimeSeries     []DateHours   `json:"timeSeries" yaml:"timeSeries"`
}

type TopTrack struct {
	Track   string  `json:"track" yaml:"track"`
	TrackID *string `json:"trackId" yaml:"trackId"`
	Hours   float64 `json:"hours" yaml:"hours"`
	Artist  *string `json:"artist" yaml:"artist"`
}

type DateHours struct {
	Date  string  `json:"date" yaml:"date"`
	Hours float64 `json:"hours" yaml:"hours"`
}

type BucketHours struct {
	Bucket string  `json:"bucket" yaml:"bucket"`
	Hours  float64 `json:"hours" yaml:"hours"`
}

type MonthHours struct {
	Month string  `json:"month" yaml:"month"`
	Hours float64 `json:"hours" yaml:"hours"`
}

type WeekdayHours struct {
	Weekday string  `json:"weekday" yaml:"weekday"`
	Hours   float64 `json:"hours" yaml:"hours"`
}

type HeatmapCell struct {
	Month   string  `json:"month" yaml:"month"`
	Weekday string  `json:"weekday" yaml:"weekday"`
	Hours   float64 `json:"hours" yaml:"hours"`
}

type PlatformHours struct {
	Platform string  `json:"platform" yaml:"platform"`
	Hours    float64 `json:"hours" yaml:"hours"`
}

type CountryHours struct {
	Country string  `json:"country" yaml:"country"`
	Hours   float64 `json:"hours" yaml:"hours"`
}

// ShuffleStats and OfflineStats count events over the full collection,
// including zero-duration plays.
type ShuffleStats struct {
	Shuffled    int `json:"shuffled" yaml:"shuffled"`
	NotShuffled int `json:"notShuffled" yaml:"notShuffled"`
}

type OfflineStats struct {
	Offline int `json:"offline" yaml:"offline"`
	Online  int `json:"online" yaml:"online"`
}

// Streak is the longest run of calendar-consecutive listening dates.
type Streak struct {
	Days  int    `json:"days" yaml:"days"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type FirstSong struct {
	Track  string `json:"track" yaml:"track"`
	Artist string `json:"artist" yaml:"artist"`
	Date   string `json:"date" yaml:"date"`
}

// Milestone records the first date on which cumulative listening hours
// reached a threshold. Thresholds never reached are omitted.
type Milestone struct {
	Hours int    `json:"hours" yaml:"hours"`
	Date  string `json:"date" yaml:"date"`
}

// MostListened is the top track overall, with the single date on which it
// accumulated the most hours. Hours is the track's overall total, not that
// day's.
type MostListened struct {
	Track string  `json:"track" yaml:"track"`
	Hours float64 `json:"hours" yaml:"hours"`
	Date  string  `json:"date" yaml:"date"`
}

type SkipCount struct {
	Track string `json:"track" yaml:"track"`
	Count int    `json:"count" yaml:"count"`
}

type TrackHours struct {
	Track string  `json:"track" yaml:"track"`
	Hours float64 `json:"hours" yaml:"hours"`
}

// AlbumReport is the global report's rollup shape scoped to one
// (album, artist) key.
type AlbumReport struct {
	Key          string          `json:"key" yaml:"key"`
	Album        string          `json:"album" yaml:"album"`
	Artist       string          `json:"artist" yaml:"artist"`
	Hours        float64         `json:"hours" yaml:"hours"`
	Plays        int             `json:"plays" yaml:"plays"`
	UniqueTracks int             `json:"uniqueTracks" yaml:"uniqueTracks"`
	DepthScore   float64         `json:"depthScore" yaml:"depthScore"`
	MostPlayed   MostPlayedTrack `json:"mostPlayedTrack" yaml:"mostPlayedTrack"`
	FirstListen  string          `json:"firstListen" yaml:"firstListen"`
	LastListen   string          `json:"lastListen" yaml:"lastListen"`
	TimeSeries   []DateHours     `json:"timeSeries" yaml:"timeSeries"`
	TimeOfDay    []BucketHours   `json:"timeOfDay" yaml:"timeOfDay"`
	Heatmap      []HeatmapCell   `json:"heatmapData" yaml:"heatmapData"`
}

type MostPlayedTrack struct {
	Track *string `json:"track" yaml:"track"`
	Hours float64 `json:"hours" yaml:"hours"`
	Plays int     `json:"plays" yaml:"plays"`
}

// ArtistCoverage breaks an artist's total hours down by album.
type ArtistCoverage struct {
	Artist     string       `json:"artist" yaml:"artist"`
	TotalHours float64      `json:"totalHours" yaml:"totalHours"`
	Albums     []AlbumShare `json:"albums" yaml:"albums"`
}

type AlbumShare struct {
	Key   string  `json:"key" yaml:"key"`
	Album string  `json:"album" yaml:"album"`
	Hours float64 `json:"hours" yaml:"hours"`
	Share float64 `json:"share" yaml:"share"`
}
