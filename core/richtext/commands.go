package richtext

import "strings"

// Style is the formatting typed text inherits at a position.
type Style struct {
	Marks Mark
	Link  string
}

// MarksAt returns the style inherited by text inserted at p.
// Marks come from the rune before p (or the first rune of the block at its start). The link is
// only inherited strictly inside a link, never at its edges.
func MarksAt(doc Document, p Pos) Style {
	if len(doc.Blocks) == 0 {
		return Style{}
	}
	p = doc.ClampPos(p)
	cells := explode(doc.Blocks[p.Block])
	switch {
	case len(cells) == 0:
		return Style{}
	case p.Offset == 0:
		return Style{Marks: cells[0].marks}
	}
	prev := cells[p.Offset-1]
	st := Style{Marks: prev.marks}
	if p.Offset < len(cells) && prev.link != "" && cells[p.Offset].link == prev.link {
		st.Link = prev.link
	}
	return st
}

// TextIn returns the unstyled text covered by r, with block boundaries as "\n".
func TextIn(doc Document, r Range) string {
	if len(doc.Blocks) == 0 {
		return ""
	}
	r = doc.ClampRange(r)
	var sb strings.Builder
	for bi := r.Start.Block; bi <= r.End.Block; bi++ {
		if bi > r.Start.Block {
			sb.WriteByte('\n')
		}
		from, to := blockBounds(doc, r, bi)
		for _, c := range explode(doc.Blocks[bi])[from:to] {
			sb.WriteRune(c.r)
		}
	}
	return sb.String()
}

// ToggleMark applies or removes m over r. When every rune in r already carries m the mark is
// removed, otherwise it is added to all of them. Line breaks do not take part in the check.
// A collapsed r leaves the document unchanged.
func ToggleMark(doc Document, r Range, m Mark) (Document, Range) {
	out := doc.Clone()
	r = out.ClampRange(r)
	if r.IsCollapsed() {
		return out, r
	}

	all := true
	for bi := r.Start.Block; bi <= r.End.Block && all; bi++ {
		from, to := blockBounds(out, r, bi)
		for _, c := range explode(out.Blocks[bi])[from:to] {
			if c.r != '\n' && !c.marks.Has(m) {
				all = false
				break
			}
		}
	}

	for bi := r.Start.Block; bi <= r.End.Block; bi++ {
		from, to := blockBounds(out, r, bi)
		cells := explode(out.Blocks[bi])
		for i := from; i < to; i++ {
			if all {
				cells[i].marks &^= m
			} else {
				cells[i].marks |= m
			}
		}
		out.Blocks[bi].Spans = implode(cells)
	}
	return out, r
}

// ToggleList turns every block touched by r into a kind list item, or back into paragraphs
// when they all already are.
func ToggleList(doc Document, r Range, kind BlockKind) (Document, Range) {
	out := doc.Clone()
	r = out.ClampRange(r)
	if !kind.IsListItem() {
		return out, r
	}

	target := Paragraph
	for bi := r.Start.Block; bi <= r.End.Block; bi++ {
		if out.Blocks[bi].Kind != kind {
			target = kind
			break
		}
	}
	for bi := r.Start.Block; bi <= r.End.Block; bi++ {
		out.Blocks[bi].Kind = target
	}
	return out, r
}

// ClearFormatting strips marks from r and unwraps every link r touches. A link is always unwrapped
// as a whole. With a collapsed r only the link under the caret is unwrapped.
func ClearFormatting(doc Document, r Range) (Document, Range) {
	out := doc.Clone()
	r = out.ClampRange(r)

	for bi := r.Start.Block; bi <= r.End.Block; bi++ {
		from, to := blockBounds(out, r, bi)
		cells := explode(out.Blocks[bi])
		for _, run := range linkRuns(cells) {
			touched := run.start < to && from < run.end
			if r.IsCollapsed() {
				touched = run.start <= from && from <= run.end
			}
			if !touched {
				continue
			}
			for i := run.start; i < run.end; i++ {
				cells[i].link = ""
			}
		}
		for i := from; i < to; i++ {
			cells[i].marks = 0
		}
		out.Blocks[bi].Spans = implode(cells)
	}
	return out, r
}

// DeleteRange removes the content of r, merging its first and last blocks.
// The merged block keeps the kind of the first one.
func DeleteRange(doc Document, r Range) (Document, Pos) {
	out := doc.Clone()
	r = out.ClampRange(r)
	if r.IsCollapsed() {
		return out, r.Start
	}

	head := explode(out.Blocks[r.Start.Block])[:r.Start.Offset]
	tail := explode(out.Blocks[r.End.Block])[r.End.Offset:]
	merged := Block{Kind: out.Blocks[r.Start.Block].Kind, Spans: implode(append(head, tail...))}

	blocks := make([]Block, 0, len(out.Blocks)-(r.End.Block-r.Start.Block))
	blocks = append(blocks, out.Blocks[:r.Start.Block]...)
	blocks = append(blocks, merged)
	blocks = append(blocks, out.Blocks[r.End.Block+1:]...)
	out.Blocks = blocks
	return out, r.Start
}

// InsertText replaces r with text styled by st and returns the caret after the inserted text.
func InsertText(doc Document, r Range, text string, st Style) (Document, Pos) {
	out, p := DeleteRange(doc, r)
	text = cleanText(text)
	if text == "" {
		return out, p
	}

	cells := explode(out.Blocks[p.Block])
	ins := textCells(text, st.Marks, st.Link)
	next := make([]cell, 0, len(cells)+len(ins))
	next = append(next, cells[:p.Offset]...)
	next = append(next, ins...)
	next = append(next, cells[p.Offset:]...)
	out.Blocks[p.Block].Spans = implode(next)
	return out, Pos{Block: p.Block, Offset: p.Offset + len(ins)}
}

// DeleteBackward applies backspace semantics.
//   - a non-collapsed r is deleted
//   - inside a block, the rune before the caret is removed
//   - at the start of a list item, the item turns into a paragraph
//   - at the start of a paragraph, it joins the previous block
func DeleteBackward(doc Document, r Range) (Document, Pos) {
	out := doc.Clone()
	r = out.ClampRange(r)
	if !r.IsCollapsed() {
		return DeleteRange(out, r)
	}

	p := r.Start
	switch {
	case p.Offset > 0:
		return DeleteRange(out, Range{Start: Pos{Block: p.Block, Offset: p.Offset - 1}, End: p})
	case out.Blocks[p.Block].Kind.IsListItem():
		out.Blocks[p.Block].Kind = Paragraph
		return out, p
	case p.Block > 0:
		prev := Pos{Block: p.Block - 1, Offset: out.Blocks[p.Block-1].Len()}
		return DeleteRange(out, Range{Start: prev, End: p})
	}
	return out, p
}

// SplitBlock applies Enter semantics at r.
// Pressing Enter inside an empty list item exits the list: the item becomes an empty paragraph
// instead of spawning another empty item. Otherwise the block is split at the caret and the new
// block keeps the kind of the original.
func SplitBlock(doc Document, r Range) (Document, Pos) {
	out, p := DeleteRange(doc, r)
	blk := out.Blocks[p.Block]

	if blk.Kind.IsListItem() && strings.TrimSpace(blk.Text()) == "" {
		out.Blocks[p.Block] = Block{Kind: Paragraph}
		return out, Pos{Block: p.Block}
	}

	cells := explode(blk)
	first := Block{Kind: blk.Kind, Spans: implode(cells[:p.Offset])}
	second := Block{Kind: blk.Kind, Spans: implode(cells[p.Offset:])}

	blocks := make([]Block, 0, len(out.Blocks)+1)
	blocks = append(blocks, out.Blocks[:p.Block]...)
	blocks = append(blocks, first, second)
	blocks = append(blocks, out.Blocks[p.Block+1:]...)
	out.Blocks = blocks
	return out, Pos{Block: p.Block + 1}
}

// InsertLink replaces r with an anchor labelled text pointing at href and appends a plain
// trailing space, so that typing continues outside the link. The returned caret sits after
// that space. The anchor keeps the marks in effect at the insertion point.
func InsertLink(doc Document, r Range, href, text string) (Document, Pos) {
	out, p := DeleteRange(doc, r)
	text = cleanText(text)
	if text == "" {
		text = href
	}
	marks := MarksAt(out, p).Marks

	out, p = InsertText(out, Caret(p), text, Style{Marks: marks, Link: href})
	return InsertText(out, Caret(p), " ", Style{Marks: marks})
}

// LinkAt returns the href of the link under p, if any.
func LinkAt(doc Document, p Pos) (string, bool) {
	if len(doc.Blocks) == 0 {
		return "", false
	}
	p = doc.ClampPos(p)
	cells := explode(doc.Blocks[p.Block])
	for _, run := range linkRuns(cells) {
		if run.start <= p.Offset && p.Offset <= run.end {
			return run.href, true
		}
	}
	return "", false
}

// Len returns the total rune count of the document, counting one per block boundary.
func Len(doc Document) int {
	n := 0
	for i, b := range doc.Blocks {
		if i > 0 {
			n++
		}
		n += b.Len()
	}
	return n
}
