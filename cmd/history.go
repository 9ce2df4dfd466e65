package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/amellor/streamstats/internal/history"
)

// loadRawEvents reads raw playback events from a history export. The path
// may be a single JSON file or a directory, in which case every .json file
// in it is read in name order (Spotify splits exports into
// Streaming_History_Audio_*.json chunks).
func loadRawEvents(path string) ([]history.RawEvent, error) {
	if path == "" {
		return nil, fmt.Errorf("no history path given - set --history or add it to the config file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading history path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("listing history directory: %w", err)
		}
		files = files[:0]
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
		sort.Strings(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("no .json files in %s", path)
		}
	}

	var raw []history.RawEvent
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		var chunk []history.RawEvent
		if err := json.Unmarshal(data, &chunk); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		raw = append(raw, chunk...)
	}
	return raw, nil
}

// loadCanonicalEvents loads and normalizes a history export in one step.
func loadCanonicalEvents(path string) ([]history.CanonicalEvent, error) {
	raw, err := loadRawEvents(path)
	if err != nil {
		return nil, err
	}
	return history.Normalize(raw), nil
}
