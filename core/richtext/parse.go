package richtext

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedLinkSchemes lists the hrefs kept when parsing. Relative hrefs are kept as well.
var allowedLinkSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// dropped elements are removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Svg:      true,
	atom.Math:     true,
	atom.Img:      true,
	atom.Input:    true,
	atom.Select:   true,
	atom.Textarea: true,
	atom.Button:   true,
}

// paragraphs are the block containers read as a Paragraph.
var paragraphs = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Header:     true,
	atom.Footer:     true,
	atom.Table:      true,
	atom.Tr:         true,
}

// Parse reads HTML produced by Render, by a browser editing surface or by a clipboard into a
// Document. Markup it does not model is unwrapped; scripts and embedded objects are dropped.
// Parse never fails: unparsable input yields the text html.ParseFragment recovers.
func Parse(s string) Document {
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	ctxNode := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctxNode)
	if err != nil {
		return Empty()
	}

	p := new(parser)
	for _, n := range nodes {
		p.walk(n, inlineCtx{})
	}
	p.closeBlock()

	if len(p.blocks) == 0 {
		return Empty()
	}
	return Document{Blocks: p.blocks}
}

// Normalize returns the canonical form of s: Render(Parse(s)).
func Normalize(s string) string {
	return Render(Parse(s))
}

type inlineCtx struct {
	marks  Mark
	link   string
	list   BlockKind // kind of the innermost list container, Paragraph outside lists
	inItem bool
}

type blockBuilder struct {
	kind   BlockKind
	cells  []cell
	lastBr bool
}

type parser struct {
	blocks []Block
	cur    *blockBuilder
}

func (p *parser) openBlock(kind BlockKind) {
	p.closeBlock()
	p.cur = &blockBuilder{kind: kind}
}

func (p *parser) closeBlock() {
	if p.cur == nil {
		return
	}
	cells := p.cur.cells
	// a trailing <br> is the placeholder browsers keep in otherwise empty lines
	if p.cur.lastBr && len(cells) > 0 {
		cells = cells[:len(cells)-1]
	}
	p.blocks = append(p.blocks, Block{Kind: p.cur.kind, Spans: implode(cells)})
	p.cur = nil
}

// ensureBlock opens an implicit block for inline content found outside any block container.
func (p *parser) ensureBlock(ctx inlineCtx) {
	if p.cur != nil {
		return
	}
	kind := Paragraph
	if ctx.list.IsListItem() {
		kind = ctx.list
	}
	p.cur = &blockBuilder{kind: kind}
}

func (p *parser) appendText(text string, ctx inlineCtx) {
	text = cleanText(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text))
	if text == "" {
		return
	}
	if p.cur == nil && strings.TrimSpace(text) == "" {
		return // indentation between blocks
	}
	p.ensureBlock(ctx)
	p.cur.cells = append(p.cur.cells, textCells(text, ctx.marks, ctx.link)...)
	p.cur.lastBr = false
}

func (p *parser) appendBreak(ctx inlineCtx) {
	p.ensureBlock(ctx)
	p.cur.cells = append(p.cur.cells, cell{r: '\n', marks: ctx.marks, link: ctx.link})
	p.cur.lastBr = true
}

func (p *parser) walkChildren(n *html.Node, ctx inlineCtx) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, ctx)
	}
}

func (p *parser) walk(n *html.Node, ctx inlineCtx) {
	switch n.Type {
	case html.TextNode:
		p.appendText(n.Data, ctx)
		return
	case html.ElementNode:
	case html.DocumentNode:
		p.walkChildren(n, ctx)
		return
	default: // comments, doctypes
		return
	}

	if dropped[n.DataAtom] {
		return
	}

	switch a := n.DataAtom; {
	case a == atom.Br:
		p.appendBreak(ctx)
	case a == atom.Hr:
		p.closeBlock()
	case a == atom.Ul || a == atom.Ol:
		p.closeBlock()
		child := ctx
		child.list = BulletItem
		if a == atom.Ol {
			child.list = OrderedItem
		}
		child.inItem = false
		p.walkChildren(n, child)
		p.closeBlock()
	case a == atom.Li:
		kind := ctx.list
		if !kind.IsListItem() {
			kind = BulletItem
		}
		p.openBlock(kind)
		child := ctx
		child.list = kind
		child.inItem = true
		p.walkChildren(n, child)
		p.closeBlock()
	case paragraphs[a] && ctx.inItem:
		// block containers inside an item only break the line
		if p.cur != nil && len(p.cur.cells) > 0 && !p.cur.lastBr {
			p.appendBreak(ctx)
			p.cur.lastBr = false
		}
		p.walkChildren(n, ctx)
	case paragraphs[a]:
		p.openBlock(Paragraph)
		child := ctx
		child.list = Paragraph
		p.walkChildren(n, child)
		p.closeBlock()
	case a == atom.A:
		child := ctx
		if href, ok := linkHref(n); ok {
			child.link = href
		}
		p.walkChildren(n, child)
	default:
		child := ctx
		child.marks |= elementMarks(n)
		p.walkChildren(n, child)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func linkHref(n *html.Node) (string, bool) {
	href, ok := attr(n, "href")
	if !ok {
		return "", false
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" && !allowedLinkSchemes[strings.ToLower(u.Scheme)] {
		return "", false
	}
	return href, true
}

// elementMarks reads the marks an inline element contributes, from its tag or its style.
func elementMarks(n *html.Node) Mark {
	var m Mark
	switch n.DataAtom {
	case atom.B, atom.Strong:
		m |= Bold
	case atom.I, atom.Em:
		m |= Italic
	case atom.U, atom.Ins:
		m |= Underline
	}
	if style, ok := attr(n, "style"); ok {
		m |= styleMarks(style)
	}
	return m
}

func styleMarks(style string) Mark {
	var m Mark
	for _, decl := range strings.Split(style, ";") {
		kv := strings.SplitN(decl, ":", 2)
		if len(kv) != 2 {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.ToLower(strings.TrimSpace(kv[1]))
		switch prop {
		case "font-weight":
			switch val {
			case "bold", "bolder", "600", "700", "800", "900":
				m |= Bold
			}
		case "font-style":
			if val == "italic" || val == "oblique" {
				m |= Italic
			}
		case "text-decoration", "text-decoration-line":
			if strings.Contains(val, "underline") {
				m |= Underline
			}
		}
	}
	return m
}
