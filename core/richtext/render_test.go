package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Empty(t *testing.T) {
	if got := Render(Empty()); got != "" {
		t.Fatalf("Render(Empty())=%q, want empty", got)
	}
	if got := Render(Document{}); got != "" {
		t.Fatalf("Render(Document{})=%q, want empty", got)
	}
}

func TestParse_Blocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "whitespace", in: "  \n ", want: ""},
		{name: "bare text", in: "hello", want: "<p>hello</p>"},
		{name: "paragraph", in: "<p>hello</p>", want: "<p>hello</p>"},
		{name: "divs from contenteditable", in: "first<div>second</div><div><br></div>", want: "<p>first</p><p>second</p><p></p>"},
		{name: "placeholder br", in: "<p><br></p>", want: ""},
		{name: "bold aliases", in: "<strong>a</strong><b>b</b>", want: "<p><b>ab</b></p>"},
		{name: "italic aliases", in: "<em>a</em><i>b</i>", want: "<p><i>ab</i></p>"},
		{name: "styled span", in: `<span style="font-weight: 700; font-style: italic">x</span>`, want: "<p><b><i>x</i></b></p>"},
		{name: "nested marks order", in: "<u><i><b>x</b></i></u>", want: "<p><b><i><u>x</u></i></b></p>"},
		{name: "unordered list", in: "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>", want: "<ul><li>a</li><li>b</li></ul>"},
		{name: "ordered list", in: "<ol><li>a</li></ol><p>b</p>", want: "<ol><li>a</li></ol><p>b</p>"},
		{name: "nested list flattened", in: "<ul><li>a<ol><li>b</li></ol></li></ul>", want: "<ul><li>a</li></ul><ol><li>b</li></ol>"},
		{name: "script dropped", in: "<p>a<script>alert(1)</script>b</p>", want: "<p>ab</p>"},
		{name: "unknown tags unwrapped", in: "<font color=red>a</font><span>b</span>", want: "<p>ab</p>"},
		{name: "escaped text", in: "<p>1 &lt; 2 &amp; 3</p>", want: "<p>1 &lt; 2 &amp; 3</p>"},
		{name: "line break", in: "<p>a<br>b</p>", want: "<p>a<br>b</p>"},
		{name: "trailing line break", in: "<p>a<br><br></p>", want: "<p>a<br><br></p>"},
		{
			name: "javascript link unwrapped",
			in:   `<a href="javascript:alert(1)">x</a>`,
			want: "<p>x</p>",
		},
		{
			name: "link canonicalized",
			in:   `<a href="https://example.com">site</a>`,
			want: `<p><a href="https://example.com" target="_blank" rel="noopener noreferrer" style="color: #2563eb; text-decoration: underline;">site</a></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRender_RoundTrip(t *testing.T) {
	doc := Document{Blocks: []Block{
		{Kind: Paragraph, Spans: []Span{
			{Text: "plain "},
			{Text: "bold", Marks: Bold},
			{Text: " both", Marks: Bold | Italic},
			{Text: "\n"},
		}},
		{Kind: BulletItem, Spans: []Span{{Text: "item <1>", Marks: Underline}}},
		{Kind: BulletItem},
		{Kind: OrderedItem, Spans: []Span{
			{Text: "see "},
			{Text: "this", Marks: Bold, Link: "https://example.com/?a=1&b=2"},
			{Text: " link", Link: "https://example.com/?a=1&b=2"},
		}},
		{Kind: Paragraph, Spans: []Span{{Text: "a  b c"}}},
		{Kind: Paragraph},
	}}

	first := Render(doc)
	second := Render(Parse(first))
	assert.Equal(t, first, second)
	assert.Equal(t, first, Normalize(second))
}

func TestRender_RoundTripFormattingSequences(t *testing.T) {
	marks := []Mark{Bold, Italic, Underline}
	base, _ := InsertText(Empty(), Caret(Pos{}), "The quick brown fox", Style{})

	// every sequence of up to three toggles over overlapping ranges
	ranges := []Range{
		{Start: Pos{Offset: 0}, End: Pos{Offset: 9}},
		{Start: Pos{Offset: 4}, End: Pos{Offset: 15}},
		{Start: Pos{Offset: 10}, End: Pos{Offset: 19}},
	}
	for _, m1 := range marks {
		for _, m2 := range marks {
			for _, m3 := range marks {
				doc := base
				doc, _ = ToggleMark(doc, ranges[0], m1)
				doc, _ = ToggleMark(doc, ranges[1], m2)
				doc, _ = ToggleMark(doc, ranges[2], m3)

				value := Render(doc)
				if got := Render(Parse(value)); got != value {
					t.Fatalf("%v/%v/%v: rehydrated %q, want %q", m1, m2, m3, got, value)
				}
				if got := TextIn(Parse(value), Range{End: Parse(value).End()}); got != "The quick brown fox" {
					t.Fatalf("%v/%v/%v: text %q changed", m1, m2, m3, got)
				}
			}
		}
	}
}

func TestRender_RoundTripControlCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "a\tb", want: "<p>a b</p>"},
		{in: "a\x00b", want: "<p>ab</p>"},
		{in: "a\x1bb\x07", want: "<p>ab</p>"},
		{in: "a\fb\vc", want: "<p>abc</p>"},
		{in: "a\r\nb", want: "<p>a<br>b</p>"},
	}
	for _, tt := range tests {
		doc, _ := InsertText(Empty(), Caret(Pos{}), tt.in, Style{})
		got := Render(doc)
		assert.Equal(t, tt.want, got, "InsertText(%q)", tt.in)
		assert.Equal(t, got, Render(Parse(got)), "rehydrating %q", got)
	}
}

func TestPlainText(t *testing.T) {
	doc := Parse(`<p>Intro <a href="https://example.com">site</a></p><ol><li>one</li><li>two</li></ol><ul><li>dot</li></ul>`)
	want := strings.Join([]string{
		"Intro site (https://example.com)",
		"1. one",
		"2. two",
		"- dot",
	}, "\n")
	assert.Equal(t, want, PlainText(doc))
}

func TestExcerpt(t *testing.T) {
	doc := Parse("<p>Annual   report</p><p>for 2024 and beyond</p>")
	assert.Equal(t, "Annual report for 2024 and beyond", Excerpt(doc, 0))
	assert.Equal(t, "Annual report…", Excerpt(doc, 14))
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<b>bold html</b>", want: "bold html"},
		{in: "<p>a</p><p>b</p>", want: "a\nb"},
		{in: "x<br>y", want: "x\ny"},
		{in: "<style>p{}</style>keep<script>drop()</script>", want: "keep"},
		{in: "&lt;tag&gt;", want: "<tag>"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	in := `<p onclick="x()"><b>ok</b><script>alert(1)</script><a href="https://example.com" target="_blank">l</a></p>`
	got := Sanitize(in)
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<b>ok</b>")
	assert.Contains(t, got, `href="https://example.com"`)
	assert.Contains(t, got, "noreferrer")
	assert.Equal(t, "", Sanitize(""))
}
