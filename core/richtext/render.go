package richtext

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	linkTarget = "_blank"
	linkRel    = "noopener noreferrer"
	linkStyle  = "color: #2563eb; text-decoration: underline;"
)

// Render serializes doc into canonical HTML. An empty document renders as "".
func Render(doc Document) string {
	if doc.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	for i, b := range doc.Blocks {
		if !b.Kind.IsListItem() {
			sb.WriteString("<p>")
			renderInline(&sb, b.Spans)
			sb.WriteString("</p>")
			continue
		}

		tag := listTag(b.Kind)
		if i == 0 || doc.Blocks[i-1].Kind != b.Kind {
			sb.WriteString("<" + tag + ">")
		}
		sb.WriteString("<li>")
		renderInline(&sb, b.Spans)
		sb.WriteString("</li>")
		if i == len(doc.Blocks)-1 || doc.Blocks[i+1].Kind != b.Kind {
			sb.WriteString("</" + tag + ">")
		}
	}
	return sb.String()
}

func listTag(k BlockKind) string {
	if k == OrderedItem {
		return "ol"
	}
	return "ul"
}

func renderInline(sb *strings.Builder, spans []Span) {
	spans = normalizeSpans(spans)
	for i := 0; i < len(spans); {
		href := spans[i].Link
		j := i + 1
		for j < len(spans) && spans[j].Link == href {
			j++
		}
		if href != "" {
			sb.WriteString(`<a href="` + html.EscapeString(href) + `" target="` + linkTarget +
				`" rel="` + linkRel + `" style="` + linkStyle + `">`)
		}
		for _, s := range spans[i:j] {
			renderSpan(sb, s)
		}
		if href != "" {
			sb.WriteString("</a>")
		}
		i = j
	}

	// a trailing line break needs a second <br> to stay visible, Parse drops it again
	if n := len(spans); n > 0 && strings.HasSuffix(spans[n-1].Text, "\n") {
		sb.WriteString("<br>")
	}
}

func renderSpan(sb *strings.Builder, s Span) {
	if s.Marks&Bold != 0 {
		sb.WriteString("<b>")
	}
	if s.Marks&Italic != 0 {
		sb.WriteString("<i>")
	}
	if s.Marks&Underline != 0 {
		sb.WriteString("<u>")
	}

	lines := strings.Split(s.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(html.EscapeString(line))
	}

	if s.Marks&Underline != 0 {
		sb.WriteString("</u>")
	}
	if s.Marks&Italic != 0 {
		sb.WriteString("</i>")
	}
	if s.Marks&Bold != 0 {
		sb.WriteString("</b>")
	}
}
