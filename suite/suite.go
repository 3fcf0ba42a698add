package suite

import (
	"context"
	"path"

	"github.com/jmgilman/go/errors"
	"github.com/jmgilman/go/ghprobe/report"
)

// T is the subset of *testing.T a scenario needs. It satisfies the
// TestingT interfaces of testify's assert and require packages.
type T interface {
	Errorf(format string, args ...interface{})
	FailNow()
	Helper()
	Context() context.Context
}

// Scenario is one linear test script.
type Scenario struct {
	// Name is the display name shown in reports.
	Name string
	// Group is the API area the scenario exercises.
	Group string
	// Run executes the script. Failures are reported through t; progress is
	// logged to entry.
	Run func(t T, env *Env, entry *report.Entry)
}

// ID returns "group/name".
func (s Scenario) ID() string {
	return s.Group + "/" + s.Name
}

// Groups in catalogue order.
const (
	GroupUser       = "user"
	GroupRepository = "repository"
	GroupIssue      = "issue"
	GroupListing    = "listing"
	GroupDeletion   = "deletion"
)

// All returns the full scenario catalogue in execution order.
func All() []Scenario {
	var all []Scenario
	all = append(all, userScenarios()...)
	all = append(all, repositoryScenarios()...)
	all = append(all, issueScenarios()...)
	all = append(all, listingScenarios()...)
	all = append(all, deletionScenarios()...)
	return all
}

// Select returns the scenarios matching any of patterns, in catalogue order.
// A pattern is a path.Match glob tested against the name, the group and the
// ID. No patterns selects everything.
func Select(patterns []string) ([]Scenario, error) {
	all := All()
	if len(patterns) == 0 {
		return all, nil
	}

	var selected []Scenario
	for _, s := range all {
		ok, err := matchAny(patterns, s)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

func matchAny(patterns []string, s Scenario) (bool, error) {
	for _, p := range patterns {
		for _, candidate := range []string{s.Name, s.Group, s.ID()} {
			ok, err := path.Match(p, candidate)
			if err != nil {
				return false, errors.WithContext(
					errors.Wrap(err, errors.CodeInvalidInput, "invalid scenario pattern"),
					"pattern", p,
				)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}
