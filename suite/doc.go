// Package suite holds the GitHub API test scenarios.
//
// Each Scenario is a fixed script: create a fixture repository if needed,
// perform the call under test, assert on the status code and body, and
// delete the fixture in a deferred cleanup that runs even when an assertion
// stops the script. Expected 4xx responses are the subject of assertions, not
// errors. A cleanup that cannot delete its fixture logs a warning and never
// fails the scenario.
//
// Scenarios receive a T rather than *testing.T so they can run both under
// go test and under the ghprobe runner:
//
//	for _, s := range suite.All() {
//	    t.Run(s.Name, func(t *testing.T) {
//	        entry, _ := rep.Start(s.Name, s.Name)
//	        s.Run(t, env, entry)
//	    })
//	}
package suite
