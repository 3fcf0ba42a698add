package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownRenderer renders a GitHub-flavoured Markdown summary: a results
// table followed by the log of every failed entry.
type MarkdownRenderer struct {
	name string
}

// NewMarkdownRenderer creates a renderer that writes the summary to name.
func NewMarkdownRenderer(name string) *MarkdownRenderer {
	return &MarkdownRenderer{name: name}
}

// Name implements Renderer.
func (m *MarkdownRenderer) Name() string { return m.name }

// ContentType implements Renderer.
func (m *MarkdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }

// Render implements Renderer.
func (m *MarkdownRenderer) Render(w io.Writer, snapshot Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", snapshot.Title)
	fmt.Fprintf(&b, "**%d** tests: **%d** passed, **%d** failed", snapshot.Total(), snapshot.Passed, snapshot.Failed)
	if snapshot.Running > 0 {
		fmt.Fprintf(&b, ", **%d** running", snapshot.Running)
	}
	if snapshot.Warnings > 0 {
		fmt.Fprintf(&b, ", %d warnings", snapshot.Warnings)
	}
	b.WriteString("\n\n")

	b.WriteString("| Test | Status | Duration |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, e := range snapshot.Entries {
		fmt.Fprintf(&b, "| %s | %s %s | %s |\n",
			escapeCell(e.Name), statusIcon(e.Status), e.Status, e.Duration().Round(time.Millisecond))
	}

	for _, e := range snapshot.Entries {
		if e.Status != StatusFail {
			continue
		}

		fmt.Fprintf(&b, "\n<details><summary>%s</summary>\n\n", escapeCell(e.Name))
		b.WriteString("```text\n")
		for _, ev := range e.Events {
			fmt.Fprintf(&b, "%s %-7s %s\n", ev.Time.Format("15:04:05"), ev.Status, ev.Message)
			if ev.Exchange != nil {
				b.WriteString(indent(ev.Exchange.String(), "    "))
				b.WriteString("\n")
			}
		}
		b.WriteString("```\n\n</details>\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func statusIcon(s Status) string {
	switch s {
	case StatusPass:
		return "✅"
	case StatusFail:
		return "❌"
	default:
		return "⏳"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
