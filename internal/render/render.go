// Package render turns a computed report into terminal tables or an HTML
// email body. Both outputs are built from the same tabular sections.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/amellor/streamstats/internal/analytics"
)

// Section is one titled table of the rendered report. The first row of
// Rows is the header.
type Section struct {
	Title   string
	Rows    [][]string
	Summary string
}

// Sections lays out the report's headline rollups. Ranked sections are
// truncated to limit entries; limit <= 0 keeps everything.
func Sections(r *analytics.Report, limit int) []Section {
	sections := []Section{overview(r)}

	topTracks := Section{Title: "Top tracks", Rows: [][]string{{"#", "Track", "Artist", "Hours"}}}
	for i, t := range truncTracks(r.TopTracks, limit) {
		artist := "Unknown"
		if t.Artist != nil {
			artist = *t.Artist
		}
		topTracks.Rows = append(topTracks.Rows, []string{
			fmt.Sprintf("%d", i+1), t.Track, artist, hours(t.Hours),
		})
	}
	sections = append(sections, topTracks)

	albums := Section{Title: "Top albums", Rows: [][]string{{"#", "Album", "Artist", "Hours", "Plays", "Depth"}}}
	albumStats := r.AlbumStats
	if limit > 0 && len(albumStats) > limit {
		albumStats = albumStats[:limit]
	}
	for i, a := range albumStats {
		albums.Rows = append(albums.Rows, []string{
			fmt.Sprintf("%d", i+1), a.Album, a.Artist,
			hours(a.Hours), fmt.Sprintf("%d", a.Plays),
			fmt.Sprintf("%.2f", a.DepthScore),
		})
	}
	albums.Summary = "Depth close to 1.0 means one track dominates the album."
	sections = append(sections, albums)

	platforms := Section{Title: "Platforms", Rows: [][]string{{"Platform", "Hours"}}}
	for _, p := range r.PlatformUsage {
		platforms.Rows = append(platforms.Rows, []string{p.Platform, hours(p.Hours)})
	}
	sections = append(sections, platforms)

	countries := Section{Title: "Countries", Rows: [][]string{{"Country", "Hours"}}}
	for _, c := range r.CountryStats {
		countries.Rows = append(countries.Rows, []string{c.Country, hours(c.Hours)})
	}
	sections = append(sections, countries)

	timeOfDay := Section{Title: "Time of day", Rows: [][]string{{"Bucket", "Hours"}}}
	for _, b := range r.TimeOfDay {
		timeOfDay.Rows = append(timeOfDay.Rows, []string{b.Bucket, hours(b.Hours)})
	}
	sections = append(sections, timeOfDay)

	milestones := Section{Title: "Milestones", Rows: [][]string{{"Hours", "Reached"}}}
	for _, m := range r.Milestones {
		milestones.Rows = append(milestones.Rows, []string{fmt.Sprintf("%d", m.Hours), m.Date})
	}
	sections = append(sections, milestones)

	return sections
}

func overview(r *analytics.Report) Section {
	s := Section{Title: "Overview", Rows: [][]string{{"Stat", "Value"}}}
	s.Rows = append(s.Rows,
		[]string{"Total hours", hours(r.TotalHours)},
		[]string{"Tracks played", fmt.Sprintf("%d", r.TotalTracks)},
		[]string{"Days with listening", fmt.Sprintf("%d", r.UniqueDays)},
		[]string{"Average hours/day", fmt.Sprintf("%.2f", r.AvgHoursPerDay)},
	)
	if r.LongestStreak.Days > 0 {
		s.Rows = append(s.Rows, []string{
			"Longest streak",
			fmt.Sprintf("%d days (%s to %s)", r.LongestStreak.Days, r.LongestStreak.Start, r.LongestStreak.End),
		})
	}
	if r.MaxDay.Date != "" {
		s.Rows = append(s.Rows, []string{"Biggest day", fmt.Sprintf("%s (%s hours)", r.MaxDay.Date, hours(r.MaxDay.Hours))})
	}
	if r.FirstSong != nil {
		s.Rows = append(s.Rows, []string{"First song", fmt.Sprintf("%s - %s on %s", r.FirstSong.Track, r.FirstSong.Artist, r.FirstSong.Date)})
	}
	if r.MostListened != nil {
		s.Rows = append(s.Rows, []string{
			"Most listened track",
			fmt.Sprintf("%s (%s hours, peak day %s)", r.MostListened.Track, hours(r.MostListened.Hours), r.MostListened.Date),
		})
	}
	return s
}

func truncTracks(tracks []analytics.TopTrack, limit int) []analytics.TopTrack {
	if limit > 0 && len(tracks) > limit {
		return tracks[:limit]
	}
	return tracks
}

func hours(h float64) string {
	return fmt.Sprintf("%.1f", h)
}

// WriteText renders the sections as terminal tables.
func WriteText(out io.Writer, sections []Section) error {
	for _, section := range sections {
		fmt.Fprintf(out, "## %s\n", section.Title)
		if len(section.Rows) <= 1 {
			fmt.Fprintln(out, "No listens found.")
			fmt.Fprintln(out)
			continue
		}

		table := tablewriter.NewWriter(out)
		table.Header(section.Rows[0])
		for _, row := range section.Rows[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Errorf("rendering %q: %w", section.Title, err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("rendering %q: %w", section.Title, err)
		}
		if section.Summary != "" {
			fmt.Fprintln(out, section.Summary)
		}
		fmt.Fprintln(out)
	}
	return nil
}

// HTML renders the sections as a self-contained email body.
func HTML(title string, sections []Section) string {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`
	out += fmt.Sprintf("<h1>%s</h1>\n", title)
	for _, section := range sections {
		out += "<div>\n"
		out += fmt.Sprintf("<h2>%s</h2>\n", section.Title)
		if len(section.Rows) <= 1 {
			out += "<div>No listens found.</div>\n"
		} else {
			out += "<table>\n<thead>\n<tr>\n"
			for _, header := range section.Rows[0] {
				out += fmt.Sprintf("<th>%s</th>", header)
			}
			out += "\n</tr>\n</thead>\n<tbody>\n"
			for _, row := range section.Rows[1:] {
				out += "<tr>\n"
				for _, column := range row {
					out += fmt.Sprintf("<td>%s</td>\n", column)
				}
				out += "</tr>\n"
			}
			out += "</tbody>\n</table>\n"
		}
		if section.Summary != "" {
			out += fmt.Sprintf("<div>%s</div>\n", section.Summary)
		}
		out += "</div>\n"
	}
	out += `  </body>
</html>
`
	return out
}
