// Package editor implements the editable surface that hosts a rich text value.
//
// An Editor exclusively owns one richtext.Document. Hosts talk to it only through the value and
// callback contract: SetValue pushes an external value in, and Options.OnChange receives the
// serialized HTML synchronously after every mutating action. The Editor is not safe for
// concurrent use; it is driven by one event loop, one action at a time.
package editor

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core/richtext"
)

// Command names a toolbar formatting operation.
type Command string

const (
	CmdBold          Command = "bold"
	CmdItalic        Command = "italic"
	CmdUnderline     Command = "underline"
	CmdUnorderedList Command = "insertUnorderedList"
	CmdOrderedList   Command = "insertOrderedList"
	CmdRemoveFormat  Command = "removeFormat"
)

var ErrUnknownCommand = errors.New("unknown editor command")

var commandMarks = map[Command]richtext.Mark{
	CmdBold:      richtext.Bold,
	CmdItalic:    richtext.Italic,
	CmdUnderline: richtext.Underline,
}

const defaultHistoryLimit = 100

type Options struct {
	// Placeholder is shown while the surface is empty. It is never part of the value.
	Placeholder string

	// OnChange receives the serialized content after every mutating action.
	OnChange func(value string)

	// Alert surfaces blocking validation messages (the link form's URL checks).
	Alert func(message string)

	// HistoryLimit bounds the undo stack. 0 uses the default, negative disables undo.
	HistoryLimit int
}

// Clipboard is the payload of a paste action.
type Clipboard struct {
	Text string // text/plain flavor
	HTML string // text/html flavor, never inserted as markup
}

type Editor struct {
	doc   richtext.Document
	value string

	sel     richtext.Range
	hasSel  bool
	focused bool
	pending *richtext.Mark // typing marks toggled at a collapsed caret

	link linkFlow
	hist historyState
	opts Options
}

func New(value string, opts Options) *Editor {
	if opts.HistoryLimit == 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	doc := richtext.Parse(value)
	return &Editor{
		doc:   doc,
		value: richtext.Render(doc),
		opts:  opts,
	}
}

// Value returns the serialized content.
func (e *Editor) Value() string { return e.value }

// Document returns a copy of the live document.
func (e *Editor) Document() richtext.Document { return e.doc.Clone() }

// IsEmpty reports whether the surface holds no content, i.e. when the placeholder shows.
func (e *Editor) IsEmpty() bool { return e.doc.IsEmpty() }

func (e *Editor) Placeholder() string { return e.opts.Placeholder }

// SetValue re-hydrates the surface from an external value. The surface is left untouched when
// the value matches the current serialized content, so redundant host re-renders never reset
// the caret. It reports whether the content was replaced. OnChange is not invoked.
func (e *Editor) SetValue(value string) bool {
	if value == e.value {
		return false
	}
	doc := richtext.Parse(value)
	rendered := richtext.Render(doc)
	if rendered == e.value {
		return false
	}

	e.doc = doc
	e.value = rendered
	e.hasSel = false
	e.sel = richtext.Range{}
	e.pending = nil
	e.hist = historyState{}
	return true
}

func (e *Editor) Focus()        { e.focused = true }
func (e *Editor) Blur()         { e.focused = false }
func (e *Editor) Focused() bool { return e.focused }

// Select sets the selection, clamped into the document.
func (e *Editor) Select(r richtext.Range) {
	e.sel = e.doc.ClampRange(r)
	e.hasSel = true
	e.pending = nil
}

// SetCaret collapses the selection at p.
func (e *Editor) SetCaret(p richtext.Pos) { e.Select(richtext.Caret(p)) }

func (e *Editor) ClearSelection() {
	e.sel = richtext.Range{}
	e.hasSel = false
	e.pending = nil
}

// Selection returns the active selection, if any.
func (e *Editor) Selection() (richtext.Range, bool) { return e.sel, e.hasSel }

// SelectedText returns the text covered by the active selection.
func (e *Editor) SelectedText() string {
	if !e.hasSel || e.sel.IsCollapsed() {
		return ""
	}
	return richtext.TextIn(e.doc, e.sel)
}

// TypingMarks returns the marks the next typed text receives.
func (e *Editor) TypingMarks() richtext.Mark {
	if e.pending != nil {
		return *e.pending
	}
	return richtext.MarksAt(e.doc, e.sel.Start).Marks
}

// ActiveLink returns the href of the link under the selection start, for the toolbar's link state.
func (e *Editor) ActiveLink() (string, bool) {
	if !e.hasSel {
		return "", false
	}
	return richtext.LinkAt(e.doc, e.sel.Start)
}

// ensureFocus focuses the surface and makes sure an insertion point exists: without one, the
// caret lands at the end of the content.
func (e *Editor) ensureFocus() {
	e.focused = true
	if !e.hasSel {
		e.sel = richtext.Caret(e.doc.End())
		e.hasSel = true
	}
}

// Exec applies a toolbar command to the current selection.
// Marks toggled at a collapsed caret apply to the next typed text.
func (e *Editor) Exec(cmd Command) error {
	var apply func(richtext.Document, richtext.Range) (richtext.Document, richtext.Range)

	switch cmd {
	case CmdBold, CmdItalic, CmdUnderline:
		m := commandMarks[cmd]
		apply = func(d richtext.Document, r richtext.Range) (richtext.Document, richtext.Range) {
			return richtext.ToggleMark(d, r, m)
		}
	case CmdUnorderedList:
		apply = func(d richtext.Document, r richtext.Range) (richtext.Document, richtext.Range) {
			return richtext.ToggleList(d, r, richtext.BulletItem)
		}
	case CmdOrderedList:
		apply = func(d richtext.Document, r richtext.Range) (richtext.Document, richtext.Range) {
			return richtext.ToggleList(d, r, richtext.OrderedItem)
		}
	case CmdRemoveFormat:
		apply = richtext.ClearFormatting
	default:
		return errors.Wrapf(ErrUnknownCommand, "%q", cmd)
	}

	e.ensureFocus()
	prev := e.snapshot()

	pending := e.pending
	if m, ok := commandMarks[cmd]; ok && e.sel.IsCollapsed() {
		next := e.TypingMarks() ^ m
		pending = &next
	} else if cmd == CmdRemoveFormat && e.sel.IsCollapsed() {
		var none richtext.Mark
		pending = &none
	}

	doc, r := apply(e.doc, e.sel)
	e.doc, e.sel = doc, r
	e.pending = pending
	e.commit(prev)
	return nil
}

// Type inserts text typed at the caret, replacing the selection.
func (e *Editor) Type(text string) {
	if text == "" {
		return
	}
	e.ensureFocus()
	prev := e.snapshot()
	e.insert(text, e.pending)
	e.commit(prev)
}

// Backspace deletes the selection or the rune before the caret.
func (e *Editor) Backspace() {
	e.ensureFocus()
	prev := e.snapshot()
	doc, p := richtext.DeleteBackward(e.doc, e.sel)
	e.doc, e.sel = doc, richtext.Caret(p)
	e.pending = nil
	e.commit(prev)
}

// Enter inserts a block break. Inside an empty list item it exits the list instead.
func (e *Editor) Enter() {
	e.ensureFocus()
	prev := e.snapshot()
	doc, p := richtext.SplitBlock(e.doc, e.sel)
	e.doc, e.sel = doc, richtext.Caret(p)
	e.commit(prev)
}

// Paste inserts the clipboard's plain text at the selection. Rich formatting never enters the
// document: the HTML flavor is only read, stripped of its markup, when no text flavor exists.
func (e *Editor) Paste(clip Clipboard) {
	text := clip.Text
	if text == "" && clip.HTML != "" {
		text = richtext.StripTags(clip.HTML)
	}
	if text == "" {
		return
	}

	e.ensureFocus()
	prev := e.snapshot()
	e.insert(text, nil)
	e.commit(prev)
}

// insert replaces the selection with text styled like its insertion point (or with marks, when
// set) and moves the caret after it.
func (e *Editor) insert(text string, marks *richtext.Mark) {
	doc, p := richtext.DeleteRange(e.doc, e.sel)
	st := richtext.MarksAt(doc, p)
	if marks != nil {
		st.Marks = *marks
	}
	doc, p = richtext.InsertText(doc, richtext.Caret(p), text, st)
	e.doc, e.sel = doc, richtext.Caret(p)
	e.pending = nil
}

// commit propagates the new content to the host, recording prev for undo when the content
// actually changed.
func (e *Editor) commit(prev snapshot) {
	if richtext.Render(e.doc) != prev.value {
		e.recordUndo(prev)
	}
	e.sync()
}

func (e *Editor) sync() {
	e.value = richtext.Render(e.doc)
	if e.opts.OnChange != nil {
		e.opts.OnChange(e.value)
	}
}
