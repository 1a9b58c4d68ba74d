package richtext

import "strings"

// cell is one rune with its style. Commands edit blocks as cell slices and fold them back into
// merged spans.
type cell struct {
	r     rune
	marks Mark
	link  string
}

func explode(b Block) []cell {
	cells := make([]cell, 0, b.Len())
	for _, s := range b.Spans {
		for _, r := range s.Text {
			cells = append(cells, cell{r: r, marks: s.Marks, link: s.Link})
		}
	}
	return cells
}

// implode folds cells into the minimal span list: adjacent cells with equal style share a span.
func implode(cells []cell) []Span {
	if len(cells) == 0 {
		return nil
	}
	spans := make([]Span, 0, 1)
	var sb strings.Builder
	cur := cells[0]
	flush := func() {
		spans = append(spans, Span{Text: sb.String(), Marks: cur.marks, Link: cur.link})
		sb.Reset()
	}
	for _, c := range cells {
		if c.marks != cur.marks || c.link != cur.link {
			flush()
			cur = c
		}
		sb.WriteRune(c.r)
	}
	flush()
	return spans
}

func textCells(text string, marks Mark, link string) []cell {
	cells := make([]cell, 0, len(text))
	for _, r := range text {
		cells = append(cells, cell{r: r, marks: marks, link: link})
	}
	return cells
}

// normalizeSpans merges adjacent spans of equal style and drops empty ones.
func normalizeSpans(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == s.Marks && out[n-1].Link == s.Link {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// linkRun is a maximal [start, end) run of cells sharing one non-empty link.
type linkRun struct {
	start, end int
	href       string
}

func linkRuns(cells []cell) []linkRun {
	var runs []linkRun
	for i := 0; i < len(cells); {
		if cells[i].link == "" {
			i++
			continue
		}
		j := i + 1
		for j < len(cells) && cells[j].link == cells[i].link {
			j++
		}
		runs = append(runs, linkRun{start: i, end: j, href: cells[i].link})
		i = j
	}
	return runs
}

// blockBounds returns the [from, to) offsets of r inside block bi.
func blockBounds(d Document, r Range, bi int) (from, to int) {
	from, to = 0, d.Blocks[bi].Len()
	if bi == r.Start.Block {
		from = r.Start.Offset
	}
	if bi == r.End.Block {
		to = r.End.Offset
	}
	return from, to
}

// cleanText folds line endings to "\n", tabs to spaces and drops the other C0 control characters,
// which HTML cannot carry through a parse.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' {
			return -1
		}
		return r
	}, s)
}
