package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/report.html.tmpl
var htmlTemplate string

// HTMLRenderer renders a single self-contained HTML page.
type HTMLRenderer struct {
	name     string
	tmpl     *template.Template
	markdown goldmark.Markdown
	style    *chroma.Style
	format   *chromahtml.Formatter
}

// NewHTMLRenderer creates a renderer that writes the page to name.
func NewHTMLRenderer(name string) *HTMLRenderer {
	h := &HTMLRenderer{
		name: name,
		// Raw HTML in log lines is omitted; only inline markdown is rendered.
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		style:    styles.Get("github"),
		format:   chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(2)),
	}

	h.tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
		"markdown":  h.renderMarkdown,
		"highlight": h.highlight,
		"lower":     func(s Status) string { return strings.ToLower(string(s)) },
		"clock":     func(t time.Time) string { return t.Format("15:04:05.000") },
		"stamp":     func(t time.Time) string { return t.Format(time.RFC1123) },
		"duration":  func(d time.Duration) string { return d.Round(time.Millisecond).String() },
	}).Parse(htmlTemplate))

	return h
}

// Name implements Renderer.
func (h *HTMLRenderer) Name() string { return h.name }

// ContentType implements Renderer.
func (h *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements Renderer.
func (h *HTMLRenderer) Render(w io.Writer, snapshot Snapshot) error {
	return h.tmpl.Execute(w, snapshot)
}

// renderMarkdown converts an inline markdown log message to HTML.
func (h *HTMLRenderer) renderMarkdown(message string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(message), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(message)) //nolint:gosec // escaped
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML
}

// highlight renders code as a highlighted <pre> block. Text that is not JSON
// is rendered without highlighting.
func (h *HTMLRenderer) highlight(code string) template.HTML {
	lexer := lexers.Get("plaintext")
	if json.Valid([]byte(code)) {
		lexer = lexers.Get("json")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return preformatted(code)
	}

	var buf bytes.Buffer
	if err := h.format.Format(&buf, h.style, iterator); err != nil {
		return preformatted(code)
	}
	return template.HTML(buf.String()) //nolint:gosec // chroma escapes token values
}

func preformatted(code string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>") //nolint:gosec // escaped
}
