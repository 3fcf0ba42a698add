package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/jmgilman/go/ghprobe"
)

// Status is the status of a log line or the verdict of an entry.
type Status string

const (
	StatusInfo    Status = "INFO"
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"

	// StatusRunning is the verdict of an entry that has not finished.
	StatusRunning Status = "RUNNING"
)

// Event is one timestamped line in an entry's log. Exchange is set when the
// line records an HTTP exchange.
type Event struct {
	Time     time.Time
	Status   Status
	Message  string
	Exchange *ghprobe.Exchange
}

// Entry is the log of a single test execution. It is safe for concurrent use.
type Entry struct {
	mu sync.Mutex

	id    string
	name  string
	clock func() time.Time

	started time.Time
	ended   time.Time
	status  Status
	events  []Event
}

var _ ghprobe.Recorder = (*Entry)(nil)

func newEntry(id, name string, clock func() time.Time) *Entry {
	return &Entry{
		id:      id,
		name:    name,
		clock:   clock,
		started: clock(),
		status:  StatusRunning,
	}
}

// ID returns the execution id the entry was started with.
func (e *Entry) ID() string { return e.id }

// Name returns the display name.
func (e *Entry) Name() string { return e.name }

// Status returns the entry's current verdict.
func (e *Entry) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Events returns a copy of the entry's log.
func (e *Entry) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.events...)
}

// Info logs an informational line.
func (e *Entry) Info(message string) {
	e.log(StatusInfo, message, nil)
}

// Infof logs a formatted informational line.
func (e *Entry) Infof(format string, args ...interface{}) {
	e.log(StatusInfo, fmt.Sprintf(format, args...), nil)
}

// Pass logs a passed check. It does not finish the entry.
func (e *Entry) Pass(message string) {
	e.log(StatusPass, message, nil)
}

// Passf logs a formatted passed check.
func (e *Entry) Passf(format string, args ...interface{}) {
	e.log(StatusPass, fmt.Sprintf(format, args...), nil)
}

// Warning logs a warning. Warnings never fail the entry.
func (e *Entry) Warning(message string) {
	e.log(StatusWarning, message, nil)
}

// Warningf logs a formatted warning.
func (e *Entry) Warningf(format string, args ...interface{}) {
	e.log(StatusWarning, fmt.Sprintf(format, args...), nil)
}

// RecordExchange logs an HTTP exchange made on behalf of the test.
func (e *Entry) RecordExchange(exchange ghprobe.Exchange) {
	message := fmt.Sprintf("%s %s", exchange.Method, exchange.URL)
	e.log(StatusInfo, message, &exchange)
}

func (e *Entry) log(status Status, message string, exchange *ghprobe.Exchange) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, Event{
		Time:     e.clock(),
		Status:   status,
		Message:  message,
		Exchange: exchange,
	})
}

// finish sets the verdict. It reports false if the entry was already finished.
func (e *Entry) finish(failure error) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusRunning {
		return false
	}

	now := e.clock()
	if failure != nil {
		e.status = StatusFail
		e.events = append(e.events, Event{Time: now, Status: StatusFail, Message: failure.Error()})
	} else {
		e.status = StatusPass
		e.events = append(e.events, Event{Time: now, Status: StatusPass, Message: "Test passed"})
	}
	e.ended = now
	return true
}

func (e *Entry) snapshot() EntrySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return EntrySnapshot{
		ID:      e.id,
		Name:    e.name,
		Status:  e.status,
		Started: e.started,
		Ended:   e.ended,
		Events:  append([]Event(nil), e.events...),
	}
}
