// Package history normalizes raw Spotify extended-streaming-history
// records into canonical events with resolved local time and classified
// attributes. All downstream analysis consumes the canonical form.
package history

import "time"

// RawEvent is one playback record as it appears in the export JSON.
// Optional fields are pointers so that absent and empty can be told apart
// from real values.
type RawEvent struct {
	TS              string  `json:"ts"`
	Platform        *string `json:"platform"`
	MsPlayed        int64   `json:"ms_played"`
	ConnCountry     *string `json:"conn_country"`
	IPAddr          *string `json:"ip_addr"`
	IPAddrDecrypted *string `json:"ip_addr_decrypted"`
	TrackName       *string `json:"master_metadata_track_name"`
	ArtistName      *string `json:"master_metadata_album_artist_name"`
	AlbumName       *string `json:"master_metadata_album_album_name"`
	TrackURI        *string `json:"spotify_track_uri"`
	ReasonStart     *string `json:"reason_start"`
	ReasonEnd       *string `json:"reason_end"`
	Shuffle         bool    `json:"shuffle"`
	Skipped         bool    `json:"skipped"`
	Offline         bool    `json:"offline"`
	Incognito       bool    `json:"incognito_mode"`
}

// CanonicalEvent is the normalized form of a RawEvent. Every derived field
// is a pure function of the UTC timestamp and the resolved timezone; none
// is mutated after Normalize returns. IP addresses never appear here.
type CanonicalEvent struct {
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	MsPlayed    int64     `json:"ms_played" yaml:"ms_played"`
	Hours       float64   `json:"hours" yaml:"hours"`
	Minutes     float64   `json:"minutes" yaml:"minutes"`
	Date        string    `json:"date" yaml:"date"`
	Hour        int       `json:"hour" yaml:"hour"`
	Minute      int       `json:"minute" yaml:"minute"`
	Second      int       `json:"second" yaml:"second"`
	Weekday     string    `json:"weekday" yaml:"weekday"`
	Month       string    `json:"month" yaml:"month"`
	MonthNum    int       `json:"month_num" yaml:"month_num"`
	Year        int       `json:"year" yaml:"year"`
	Platform    string    `json:"platform_clean" yaml:"platform_clean"`
	TimeBucket  string    `json:"time_bucket" yaml:"time_bucket"`
	Track       *string   `json:"master_metadata_track_name" yaml:"track"`
	Artist      *string   `json:"master_metadata_album_artist_name" yaml:"artist"`
	Album       *string   `json:"master_metadata_album_album_name" yaml:"album"`
	TrackID     *string   `json:"track_id" yaml:"track_id"`
	Country     *string   `json:"conn_country_full" yaml:"country"`
	ReasonStart *string   `json:"reason_start" yaml:"reason_start"`
	ReasonEnd   *string   `json:"reason_end" yaml:"reason_end"`
	Shuffle     bool      `json:"shuffle" yaml:"shuffle"`
	Skipped     bool      `json:"skipped" yaml:"skipped"`
	Offline     bool      `json:"offline" yaml:"offline"`
	Incognito   bool      `json:"incognito_mode" yaml:"incognito_mode"`
}
