// Package report records test results and renders them as artifacts.
//
// A Report is created explicitly and passed to whoever runs the tests; there
// is no package-level state. Each test obtains an Entry from Start, logs to
// it while it runs, and is closed with Finish. Entries also implement
// ghprobe.Recorder, so a client bound to an entry records every HTTP exchange
// it makes alongside the test's own log lines.
//
// Basic usage:
//
//	rep := report.New(
//	    report.WithTitle("GitHub API Test Report"),
//	    report.WithStore(report.NewFSStore(osfs.New("."))),
//	    report.WithRenderers(report.NewHTMLRenderer("ghprobe-report.html")),
//	)
//	entry, err := rep.Start(id, "testGetUserProfile_Success")
//	entry.Info("Retrieving user profile with a valid token.")
//	...
//	err = rep.Finish(id, failure) // flushes every artifact
//	err = rep.Close(ctx)          // final flush and optional publish
//
// # Artifacts
//
// Every Renderer produces one named artifact from a consistent Snapshot of the
// report. HTMLRenderer writes a single self-contained page with highlighted
// request and response bodies; MarkdownRenderer writes a summary suitable for
// $GITHUB_STEP_SUMMARY. Artifacts are written through a Store (FSStore over a
// go-billy filesystem) by replacing the previous file, so a reader never
// observes a partially written report. A Publisher, such as MinIOPublisher,
// uploads the final artifacts when the report is closed.
//
// # Verdicts
//
// An entry is RUNNING until finished, then PASS or FAIL. Warnings are
// recorded as log lines and never change the verdict.
package report
