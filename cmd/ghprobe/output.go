package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jmgilman/go/ghprobe/runner"
	"github.com/jmgilman/go/ghprobe/suite"
)

type styles struct {
	title lipgloss.Style
	pass  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	group lipgloss.Style
	box   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true),
		pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		muted: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		group: lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1),
	}
}

// renderSummary formats the outcome of a run: one line per scenario, then
// the failure messages, boxed.
func renderSummary(summary runner.Summary, s styles) string {
	var b strings.Builder

	for _, r := range summary.Results {
		mark := s.pass.Render("✓")
		if !r.Passed() {
			mark = s.fail.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, r.Name, s.muted.Render(r.Duration.Round(time.Millisecond).String()))
	}

	for _, r := range summary.Failures() {
		fmt.Fprintf(&b, "\n%s\n%s\n", s.fail.Render(r.Name), s.muted.Render(firstLines(r.Err.Error(), 8)))
	}

	totals := fmt.Sprintf("%d passed, %d failed", summary.Passed(), summary.Failed())
	if summary.Skipped > 0 {
		totals += fmt.Sprintf(", %d skipped", summary.Skipped)
	}
	totals += " in " + summary.Duration.Round(time.Millisecond).String()

	status := s.pass.Render("PASS")
	if !summary.OK() {
		status = s.fail.Render("FAIL")
	}
	b.WriteString("\n" + s.title.Render(status+" "+totals))

	return s.box.Render(b.String())
}

// renderCatalogue lists scenarios grouped under their group headings.
func renderCatalogue(scenarios []suite.Scenario, s styles) string {
	var b strings.Builder

	current := ""
	for _, sc := range scenarios {
		if sc.Group != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = sc.Group
			b.WriteString(s.group.Render(current) + "\n")
		}
		b.WriteString("  " + sc.Name + "\n")
	}
	fmt.Fprintf(&b, "\n%s\n", s.muted.Render(fmt.Sprintf("%d scenarios", len(scenarios))))

	return b.String()
}

func firstLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > n {
		lines = append(lines[:n], "…")
	}
	return strings.Join(lines, "\n")
}
