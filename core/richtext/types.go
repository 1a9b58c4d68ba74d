package richtext

import (
	"strings"
	"unicode/utf8"
)

// Mark is a set of inline formatting flags.
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Underline
)

// Has reports whether all flags of o are set in m.
func (m Mark) Has(o Mark) bool { return o != 0 && m&o == o }

func (m Mark) String() string {
	if m == 0 {
		return "plain"
	}
	names := make([]string, 0, 3)
	if m&Bold != 0 {
		names = append(names, "bold")
	}
	if m&Italic != 0 {
		names = append(names, "italic")
	}
	if m&Underline != 0 {
		names = append(names, "underline")
	}
	return strings.Join(names, "+")
}

// Span is a run of text sharing the same marks and link.
// A "\n" inside Text is a hard line break.
type Span struct {
	Text  string
	Marks Mark
	Link  string // href, empty when the span is not a link
}

type BlockKind uint8

const (
	Paragraph BlockKind = iota
	BulletItem
	OrderedItem
)

func (k BlockKind) IsListItem() bool { return k == BulletItem || k == OrderedItem }

func (k BlockKind) String() string {
	switch k {
	case BulletItem:
		return "bullet"
	case OrderedItem:
		return "ordered"
	default:
		return "paragraph"
	}
}

type Block struct {
	Kind  BlockKind
	Spans []Span
}

// Text returns the unstyled text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Len returns the rune length of the block.
func (b Block) Len() int {
	n := 0
	for _, s := range b.Spans {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// Document is a flat list of blocks. Consecutive list items of the same kind form one list.
type Document struct {
	Blocks []Block
}

// Empty returns a document holding one empty paragraph.
func Empty() Document {
	return Document{Blocks: []Block{{Kind: Paragraph}}}
}

// IsEmpty reports whether the document holds no text and no list structure.
func (d Document) IsEmpty() bool {
	switch len(d.Blocks) {
	case 0:
		return true
	case 1:
		b := d.Blocks[0]
		return b.Kind == Paragraph && b.Len() == 0
	default:
		return false
	}
}

// Clone returns a deep copy of d. An empty document is normalized to Empty().
func (d Document) Clone() Document {
	if len(d.Blocks) == 0 {
		return Empty()
	}
	blocks := make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = Block{Kind: b.Kind}
		if len(b.Spans) > 0 {
			blocks[i].Spans = append([]Span(nil), b.Spans...)
		}
	}
	return Document{Blocks: blocks}
}

// End returns the position after the last rune of the document.
func (d Document) End() Pos {
	if len(d.Blocks) == 0 {
		return Pos{}
	}
	last := len(d.Blocks) - 1
	return Pos{Block: last, Offset: d.Blocks[last].Len()}
}

// Pos points into a document by block index and rune offset, both 0-based.
type Pos struct {
	Block  int `json:"block"`
	Offset int `json:"offset"`
}

// Range is a half-open selection [Start, End) in document order.
type Range struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

// Caret returns a collapsed range at p.
func Caret(p Pos) Range { return Range{Start: p, End: p} }

func (r Range) IsCollapsed() bool { return r.Start == r.End }

func ComparePos(a, b Pos) int {
	switch {
	case a.Block < b.Block:
		return -1
	case a.Block > b.Block:
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// NormalizeRange orders the range ends so that Start <= End.
func NormalizeRange(r Range) Range {
	if ComparePos(r.Start, r.End) <= 0 {
		return r
	}
	return Range{Start: r.End, End: r.Start}
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPos clamps p into the bounds of d.
func (d Document) ClampPos(p Pos) Pos {
	if len(d.Blocks) == 0 {
		return Pos{}
	}
	blk := clampInt(p.Block, 0, len(d.Blocks)-1)
	return Pos{Block: blk, Offset: clampInt(p.Offset, 0, d.Blocks[blk].Len())}
}

// ClampRange clamps and normalizes r into the bounds of d.
func (d Document) ClampRange(r Range) Range {
	return NormalizeRange(Range{Start: d.ClampPos(r.Start), End: d.ClampPos(r.End)})
}
