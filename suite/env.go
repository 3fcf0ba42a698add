package suite

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jmgilman/go/ghprobe"
	"github.com/jmgilman/go/ghprobe/report"
	"github.com/stretchr/testify/require"
)

const (
	fixturePrefix     = "test-repo-"
	nonExistentPrefix = "non-existent-repo-"

	// sweepPageSize is the number of repositories a sweep inspects.
	sweepPageSize = 100
)

// Env is the state shared by every scenario of a run.
type Env struct {
	client *ghprobe.Client
	newID  func() string

	mu    sync.Mutex
	owned map[string]struct{}
}

// NewEnv returns an environment around client. The client's owner is the
// namespace fixtures are created and deleted in.
func NewEnv(client *ghprobe.Client) *Env {
	return &Env{
		client: client,
		newID:  uuid.NewString,
		owned:  make(map[string]struct{}),
	}
}

// Client returns a client that records its exchanges to entry.
func (e *Env) Client(entry *report.Entry) *ghprobe.Client {
	return e.client.RecordTo(entry)
}

// Owner returns the default owner.
func (e *Env) Owner() string {
	return e.client.Owner()
}

// RepositoryName returns a fresh fixture name of the form
// test-repo-<n hex chars> and marks it as owned until Cleanup releases it.
func (e *Env) RepositoryName(n int) string {
	name := fixturePrefix + e.hex(n)

	e.mu.Lock()
	e.owned[name] = struct{}{}
	e.mu.Unlock()

	return name
}

// NonExistentName returns a name no scenario creates.
func (e *Env) NonExistentName() string {
	return nonExistentPrefix + e.hex(6)
}

// Owned reports whether a running scenario holds name.
func (e *Env) Owned(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.owned[name]
	return ok
}

func (e *Env) release(name string) {
	e.mu.Lock()
	delete(e.owned, name)
	e.mu.Unlock()
}

func (e *Env) hex(n int) string {
	id := strings.ReplaceAll(e.newID(), "-", "")
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}

// Cleanup deletes the fixture name. It is meant to be deferred: it runs after
// FailNow, ignores cancellation of the scenario context, and only ever logs,
// so it can never fail the scenario.
func (e *Env) Cleanup(t T, entry *report.Entry, name string) {
	defer e.release(name)

	ctx := context.WithoutCancel(t.Context())
	entry.Info("Cleaning up repository: " + name)

	resp, err := e.Client(entry).DeleteRepository(ctx, name)
	switch {
	case err != nil:
		entry.Warningf("Failed to delete repository %s: %v", name, err)
	case resp.StatusCode == http.StatusNoContent:
		entry.Pass("Repository deleted successfully: " + name)
	case resp.StatusCode == http.StatusNotFound:
		entry.Pass("Repository already deleted or does not exist: " + name)
	default:
		entry.Warningf("Failed to delete repository %s (status %d).", name, resp.StatusCode)
	}
}

// Sweep deletes leftover fixtures: every listed repository whose name contains
// "test-repo", except those a running scenario still owns. Only the listing
// is asserted; individual deletions that fail are logged as warnings.
func (e *Env) Sweep(t T, entry *report.Entry) {
	t.Helper()

	ctx := t.Context()
	client := e.Client(entry)
	entry.Info("Deleting all repositories with 'test-repo' in the name.")

	resp, err := client.ListRepositories(ctx, ghprobe.ListOptions{PerPage: sweepPageSize})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "Failed to list repositories.")

	repos, err := ghprobe.DecodeRepositories(resp)
	require.NoError(t, err, "Repository list could not be decoded.")

	for _, repo := range repos {
		if !strings.Contains(repo.Name, "test-repo") {
			continue
		}
		if e.Owned(repo.Name) {
			entry.Info("Skipping repository in use by another test: " + repo.Name)
			continue
		}

		entry.Info("Deleting repository: " + repo.Name)
		e.sweepOne(ctx, client, entry, repo.Name)
	}
}

func (e *Env) sweepOne(ctx context.Context, client *ghprobe.Client, entry *report.Entry, name string) {
	resp, err := client.DeleteRepository(ctx, name)
	switch {
	case err != nil:
		entry.Warningf("Failed to delete repository %s: %v", name, err)
	case resp.StatusCode == http.StatusNoContent:
		entry.Pass("Repository deleted: " + name)
	case resp.StatusCode == http.StatusNotFound:
		entry.Warning("Repository already deleted or does not exist: " + name)
	default:
		entry.Warningf("Failed to delete repository %s (status %d).", name, resp.StatusCode)
	}
}
