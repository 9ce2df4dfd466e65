// Package recapstore persists recap email schedules in a local SQLite
// database. Only schedules live here; playback records are never stored.
package recapstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

// Schedule is one recurring recap email: which sections to include, where
// to send it, and which day of the month it runs.
type Schedule struct {
	Name     string
	Email    string
	RunDay   int
	Sections []string
	Sent     time.Time // zero if never sent
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS Recap (
  name TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  run_day INTEGER NOT NULL,
  sections TEXT NOT NULL,
  sent DATETIME
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("creating Recap table: %w", err)
	}
	return nil
}

func (s *Store) Add(schedule Schedule) error {
	if schedule.RunDay < 1 || schedule.RunDay > 31 {
		return fmt.Errorf("run_day out of range: %d", schedule.RunDay)
	}
	if schedule.Name == "" {
		return fmt.Errorf("schedule name must not be empty")
	}
	if schedule.Email == "" {
		return fmt.Errorf("destination email must not be empty")
	}

	_, err := s.db.Exec(
		"INSERT INTO Recap (name, email, run_day, sections) VALUES (?, ?, ?, ?)",
		schedule.Name, schedule.Email, schedule.RunDay, strings.Join(schedule.Sections, ","))
	if err != nil {
		return fmt.Errorf("inserting schedule %q: %w", schedule.Name, err)
	}
	return nil
}

func (s *Store) List() ([]Schedule, error) {
	rows, err := s.db.Query("SELECT name, email, run_day, sections, sent FROM Recap ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		var (
			sch        Schedule
			sections   string
			sentOrNull sql.NullTime
		)
		if err := rows.Scan(&sch.Name, &sch.Email, &sch.RunDay, &sections, &sentOrNull); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		if sections != "" {
			sch.Sections = strings.Split(sections, ",")
		}
		if sentOrNull.Valid {
			sch.Sent = sentOrNull.Time
		}
		schedules = append(schedules, sch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return schedules, nil
}

func (s *Store) Delete(name string) error {
	res, err := s.db.Exec("DELETE FROM Recap WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting schedule %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting schedule %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("no schedule named %q", name)
	}
	return nil
}

// Due returns the schedules whose recap should be sent now: the run day
// for this month (or last month, when the run day hasn't arrived yet this
// month) has passed without a send.
func (s *Store) Due(now time.Time) ([]Schedule, error) {
	schedules, err := s.List()
	if err != nil {
		return nil, err
	}

	var due []Schedule
	for _, sch := range schedules {
		thisMonth := time.Date(now.Year(), now.Month(), sch.RunDay, 0, 0, 0, 0, now.Location())
		lastMonth := time.Date(now.Year(), now.Month()-1, sch.RunDay, 0, 0, 0, 0, now.Location())
		if sch.Sent.After(thisMonth) {
			continue
		}
		if now.Before(thisMonth) && sch.Sent.After(lastMonth) {
			continue
		}
		due = append(due, sch)
	}
	return due, nil
}

func (s *Store) MarkSent(name string, when time.Time) error {
	_, err := s.db.Exec("UPDATE Recap SET sent = ? WHERE name = ?", when, name)
	if err != nil {
		return fmt.Errorf("recording send for %q: %w", name, err)
	}
	return nil
}
