package report

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/errors"
)

const (
	// DefaultTitle is the report title used when none is configured.
	DefaultTitle = "GitHub API Test Report"

	// DefaultHTMLName is the default HTML artifact name.
	DefaultHTMLName = "ghprobe-report.html"
)

// Report collects entries and writes them out as artifacts.
type Report struct {
	mu      sync.Mutex
	entries map[string]*Entry
	order   []*Entry

	// flushMu serializes flushes so artifacts are replaced in order.
	flushMu   sync.Mutex
	artifacts map[string]artifact

	title     string
	store     Store
	renderers []Renderer
	publisher Publisher
	logger    *slog.Logger
	clock     func() time.Time
}

type artifact struct {
	data        []byte
	contentType string
}

// Option configures a Report.
type Option func(*Report)

// WithTitle sets the report title.
func WithTitle(title string) Option {
	return func(r *Report) {
		if title != "" {
			r.title = title
		}
	}
}

// WithStore sets where artifacts are written.
// Defaults to an FSStore over the working directory.
func WithStore(store Store) Option {
	return func(r *Report) {
		r.store = store
	}
}

// WithRenderers replaces the default HTML renderer.
func WithRenderers(renderers ...Renderer) Option {
	return func(r *Report) {
		r.renderers = renderers
	}
}

// WithPublisher uploads the final artifacts when the report is closed.
func WithPublisher(publisher Publisher) Option {
	return func(r *Report) {
		r.publisher = publisher
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Report) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(r *Report) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New creates an empty report.
func New(opts ...Option) *Report {
	r := &Report{
		entries:   make(map[string]*Entry),
		artifacts: make(map[string]artifact),
		title:     DefaultTitle,
		logger:    slog.Default(),
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		r.store = NewFSStore(osfs.New("."))
	}
	if r.renderers == nil {
		r.renderers = []Renderer{NewHTMLRenderer(DefaultHTMLName)}
	}

	return r
}

// Start creates the entry for one test execution.
// The id must be unique within the report.
func (r *Report) Start(id, name string) (*Entry, error) {
	if id == "" {
		err := errors.New(errors.CodeInvalidInput, "entry id cannot be empty")
		return nil, errors.WithContext(err, "name", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		err := errors.Newf(errors.CodeAlreadyExists, "entry %q already exists", id)
		return nil, errors.WithContext(err, "name", name)
	}

	entry := newEntry(id, name, r.clock)
	r.entries[id] = entry
	r.order = append(r.order, entry)

	r.logger.Debug("report entry started", "id", id, "name", name)
	return entry, nil
}

// Entry looks up a started entry.
func (r *Report) Entry(id string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	return entry, ok
}

// Finish records the verdict of an entry and flushes the report.
// A nil failure marks the entry passed.
func (r *Report) Finish(id string, failure error) error {
	entry, ok := r.Entry(id)
	if !ok {
		r.logger.Error("test instance not found", "id", id)
		return errors.Newf(errors.CodeNotFound, "no entry for id %q", id)
	}

	if !entry.finish(failure) {
		return errors.Newf(errors.CodeConflict, "entry %q already finished", id)
	}

	return r.Flush()
}

// Snapshot returns a consistent copy of the report.
func (r *Report) Snapshot() Snapshot {
	r.mu.Lock()
	entries := append([]*Entry(nil), r.order...)
	r.mu.Unlock()

	snap := Snapshot{
		Title:     r.title,
		Generated: r.clock(),
		Entries:   make([]EntrySnapshot, 0, len(entries)),
	}

	for _, entry := range entries {
		es := entry.snapshot()
		switch es.Status {
		case StatusPass:
			snap.Passed++
		case StatusFail:
			snap.Failed++
		default:
			snap.Running++
		}
		snap.Warnings += es.Warnings()
		snap.Entries = append(snap.Entries, es)
	}

	return snap
}

// Flush renders every artifact and writes it to the store.
func (r *Report) Flush() error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	snap := r.Snapshot()

	for _, renderer := range r.renderers {
		var buf bytes.Buffer
		if err := renderer.Render(&buf, snap); err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeInternal, "failed to render report"),
				"artifact", renderer.Name(),
			)
		}

		if err := r.store.Write(renderer.Name(), buf.Bytes()); err != nil {
			return errors.WithContext(
				errors.Wrap(err, errors.CodeInternal, "failed to write report"),
				"artifact", renderer.Name(),
			)
		}

		r.artifacts[renderer.Name()] = artifact{data: buf.Bytes(), contentType: renderer.ContentType()}
	}

	r.logger.Debug("report flushed",
		"entries", snap.Total(),
		"passed", snap.Passed,
		"failed", snap.Failed,
	)
	return nil
}

// Close flushes the report one last time and publishes its artifacts.
func (r *Report) Close(ctx context.Context) error {
	if err := r.Flush(); err != nil {
		return err
	}
	if r.publisher == nil {
		return nil
	}

	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	for _, renderer := range r.renderers {
		a := r.artifacts[renderer.Name()]
		if err := r.publisher.Publish(ctx, renderer.Name(), a.data, a.contentType); err != nil {
			return err
		}
		r.logger.Info("report published", "artifact", renderer.Name())
	}

	return nil
}
