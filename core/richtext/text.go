package richtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText flattens doc into readable text: one line per block, list markers in front of
// items and link targets after their label when they differ.
func PlainText(doc Document) string {
	lines := make([]string, 0, len(doc.Blocks))
	n := 0
	for _, b := range doc.Blocks {
		var sb strings.Builder
		switch b.Kind {
		case BulletItem:
			sb.WriteString("- ")
			n = 0
		case OrderedItem:
			n++
			sb.WriteString(fmt.Sprintf("%d. ", n))
		default:
			n = 0
		}
		for _, s := range normalizeSpans(b.Spans) {
			sb.WriteString(s.Text)
			if s.Link != "" && s.Link != s.Text {
				sb.WriteString(" (" + s.Link + ")")
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Excerpt returns at most max runes of doc's plain text on one line, ellipsized when cut.
func Excerpt(doc Document, max int) string {
	text := strings.Join(strings.Fields(TextIn(doc, Range{End: doc.End()})), " ")
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// StripTags returns the visible text of an HTML fragment. Block elements and <br> become line
// breaks, and scripts and styles are skipped.
func StripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	skip := 0
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); {
			case a == atom.Script || a == atom.Style:
				skip++
			case a == atom.Br:
				sb.WriteByte('\n')
			case paragraphs[a] || a == atom.Li:
				newline()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); {
			case a == atom.Script || a == atom.Style:
				if skip > 0 {
					skip--
				}
			case paragraphs[a] || a == atom.Li:
				newline()
			}
		}
	}
}
