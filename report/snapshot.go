package report

import (
	"io"
	"time"
)

// Snapshot is a consistent copy of a report taken at flush time.
type Snapshot struct {
	Title     string
	Generated time.Time
	Entries   []EntrySnapshot

	Passed   int
	Failed   int
	Running  int
	Warnings int
}

// Total returns the number of entries.
func (s Snapshot) Total() int {
	return len(s.Entries)
}

// EntrySnapshot is a copy of one entry.
type EntrySnapshot struct {
	ID      string
	Name    string
	Status  Status
	Started time.Time
	Ended   time.Time
	Events  []Event
}

// Duration returns how long the entry ran, or zero while it is running.
func (e EntrySnapshot) Duration() time.Duration {
	if e.Ended.IsZero() {
		return 0
	}
	return e.Ended.Sub(e.Started)
}

// Warnings returns the number of warning lines.
func (e EntrySnapshot) Warnings() int {
	n := 0
	for _, ev := range e.Events {
		if ev.Status == StatusWarning {
			n++
		}
	}
	return n
}

// Renderer turns a snapshot into a named artifact.
type Renderer interface {
	// Name is the artifact path relative to the store root.
	Name() string

	// ContentType is the MIME type used when the artifact is published.
	ContentType() string

	Render(w io.Writer, snapshot Snapshot) error
}
