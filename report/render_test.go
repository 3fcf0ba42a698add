package report

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jmgilman/go/ghprobe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return Snapshot{
		Title:     "GitHub API Test Report",
		Generated: start.Add(time.Minute),
		Passed:    1,
		Failed:    1,
		Entries: []EntrySnapshot{
			{
				ID:      "1",
				Name:    "testGetUserProfile_Success",
				Status:  StatusPass,
				Started: start,
				Ended:   start.Add(1500 * time.Millisecond),
				Events: []Event{
					{Time: start, Status: StatusInfo, Message: "User login is: **octocat**"},
					{Time: start, Status: StatusInfo, Message: "GET https://api.github.com/user", Exchange: &ghprobe.Exchange{
						Method:       "GET",
						URL:          "https://api.github.com/user",
						StatusCode:   200,
						ResponseBody: []byte(`{"login":"octocat"}`),
					}},
				},
			},
			{
				ID:      "2",
				Name:    "testCreateIssue_Success",
				Status:  StatusFail,
				Started: start,
				Ended:   start.Add(time.Second),
				Events: []Event{
					{Time: start, Status: StatusWarning, Message: "<script>alert(1)</script>"},
					{Time: start, Status: StatusFail, Message: "expected 201, got 404"},
				},
			},
		},
	}
}

func TestHTMLRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer("report.html")
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, sampleSnapshot()))
	out := buf.String()

	assert.Equal(t, "report.html", r.Name())
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "testGetUserProfile_Success")
	assert.Contains(t, out, `<details class="entry" id="2" open>`)
	assert.Contains(t, out, "<strong>octocat</strong>", "log lines are rendered as markdown")
	assert.NotContains(t, out, "<script>alert(1)</script>", "raw HTML is never emitted")
	assert.Contains(t, out, "octocat")
	assert.Contains(t, out, "No body")
	assert.Contains(t, out, "1.5s")
}

func TestHTMLRenderer_Highlight(t *testing.T) {
	t.Parallel()

	r := NewHTMLRenderer("report.html")

	highlighted := string(r.highlight(`{"name": "<repo>"}`))
	assert.Contains(t, highlighted, "<pre")
	assert.Contains(t, highlighted, "style=")
	assert.NotContains(t, highlighted, "<repo>")

	plain := string(r.highlight("Bad credentials <b>"))
	assert.Contains(t, plain, "Bad credentials &lt;b&gt;")
}

func TestMarkdownRenderer_Render(t *testing.T) {
	t.Parallel()

	r := NewMarkdownRenderer("summary.md")
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, sampleSnapshot()))
	out := buf.String()

	assert.Contains(t, out, "## GitHub API Test Report")
	assert.Contains(t, out, "**2** tests: **1** passed, **1** failed")
	assert.Contains(t, out, "| testGetUserProfile_Success | ✅ PASS | 1.5s |")
	assert.Contains(t, out, "| testCreateIssue_Success | ❌ FAIL | 1s |")
	assert.Contains(t, out, "<details><summary>testCreateIssue_Success</summary>")
	assert.Contains(t, out, "FAIL    expected 201, got 404")
	assert.NotContains(t, out, "<details><summary>testGetUserProfile_Success</summary>")
}

type failingRenderer struct{}

func (failingRenderer) Name() string        { return "broken" }
func (failingRenderer) ContentType() string { return "text/plain" }
func (failingRenderer) Render(io.Writer, Snapshot) error {
	return stderrors.New("boom")
}

func TestReport_FlushRenderError(t *testing.T) {
	t.Parallel()

	rep, _ := newTestReport(t, WithRenderers(failingRenderer{}))

	err := rep.Flush()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render report")
}
