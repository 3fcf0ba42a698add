package integration

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe/suite"
)

// failureRecorder forwards to T and keeps the assertion messages so the
// report entry of a failed scenario carries them.
type failureRecorder struct {
	suite.T

	mu       sync.Mutex
	failed   bool
	messages []string
}

func (r *failureRecorder) Errorf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))

	r.mu.Lock()
	r.failed = true
	r.messages = append(r.messages, msg)
	r.mu.Unlock()

	r.T.Errorf("%s", msg)
}

func (r *failureRecorder) FailNow() {
	r.mu.Lock()
	r.failed = true
	r.mu.Unlock()

	r.T.FailNow()
}

// err returns the recorded failures, or nil if the scenario passed.
func (r *failureRecorder) err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.failed {
		return nil
	}
	if len(r.messages) == 0 {
		return errors.New(errors.CodeExecutionFailed, "test failed")
	}
	return errors.New(errors.CodeExecutionFailed, strings.Join(r.messages, "\n"))
}
