// Package export renders a course as plain text, a GFM checklist or HTML.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/nibzard/propath/internal/roadmap"
)

// Format names an export format.
type Format string

const (
	FormatMarkdown  Format = "md"
	FormatChecklist Format = "checklist"
	FormatHTML      Format = "html"
)

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown", "text":
		return FormatMarkdown, nil
	case "checklist", "gfm", "tasks":
		return FormatChecklist, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want md, checklist or html)", s)
}

// Write renders c in format f to w.
func Write(w io.Writer, c *roadmap.Course, f Format) error {
	var out []byte
	switch f {
	case FormatMarkdown:
		out = []byte(Markdown(c))
	case FormatChecklist:
		out = []byte(Checklist(c))
	case FormatHTML:
		var err error
		if out, err = HTML(c); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
	_, err := w.Write(out)
	return err
}

// Markdown renders c in the course-creation text format: a "# " line per
// phase followed by one line per task, phases in storage order. Completion
// and pins are not part of the format. The output parses back into the
// same phases and tasks unless Headingish reports tasks that would read
// back as phase headings.
func Markdown(c *roadmap.Course) string {
	var b strings.Builder
	for i, p := range c.Phases {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("# ")
		b.WriteString(p.Title)
		b.WriteByte('\n')
		for _, t := range p.Tasks {
			b.WriteString(t.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Headingish returns the tasks of c whose text starts with "#". The
// course-creation format reads such a line as a phase heading, so
// Markdown cannot carry them through a round trip.
func Headingish(c *roadmap.Course) []string {
	var out []string
	for _, p := range c.Phases {
		for _, t := range p.Tasks {
			if strings.HasPrefix(strings.TrimSpace(t.Text), "#") {
				out = append(out, t.Text)
			}
		}
	}
	return out
}

// Checklist renders c as a GFM task list, phases in display order.
func Checklist(c *roadmap.Course) string {
	return checklist(c, func(s string) string { return s })
}

func checklist(c *roadmap.Course, esc func(string) string) string {
	v := roadmap.Project(c)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", esc(c.Name))
	fmt.Fprintf(&b, "Progress: %d%% (%d/%d)\n", v.Percent, v.Done, v.Total)
	for _, p := range v.Phases {
		b.WriteString("\n## ")
		b.WriteString(esc(p.Title))
		if p.Pinned {
			b.WriteString(" (pinned)")
		}
		fmt.Fprintf(&b, "\n\n")
		if len(p.Tasks) == 0 {
			b.WriteString("_No tasks._\n")
			continue
		}
		for _, t := range p.Tasks {
			mark := " "
			if t.Done {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, esc(t.Text))
		}
	}
	return b.String()
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkHTML.WithXHTML()),
)

// HTML renders the checklist of c as a standalone HTML page. Names,
// titles and tasks are entity-escaped before conversion, so markup in
// them shows as text. Markdown emphasis and links in them still render.
func HTML(c *roadmap.Course) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(checklist(c, html.EscapeString)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(c.Name))
	b.WriteString("</head>\n<body>\n")
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.Bytes(), nil
}
