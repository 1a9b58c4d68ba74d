package editor

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kalamu/core/richtext"
)

var ErrLinkClosed = errors.New("link form is not open")

// LinkDraft holds the link form fields while the form is open.
type LinkDraft struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

type linkFlow struct {
	open  bool
	draft LinkDraft
}

// OpenLink opens the link form. Content and selection are left as they are.
func (e *Editor) OpenLink() {
	e.link = linkFlow{open: true}
}

func (e *Editor) LinkOpen() bool { return e.link.open }

func (e *Editor) LinkDraft() LinkDraft { return e.link.draft }

func (e *Editor) SetLinkDraft(url, text string) {
	e.link.draft = LinkDraft{URL: url, Text: text}
}

// CancelLink closes the link form and discards the draft.
func (e *Editor) CancelLink() {
	e.link = linkFlow{}
}

// SubmitLink validates the draft and inserts the anchor. The selected text, when any, becomes
// the anchor's label and is replaced by it; without a selection the anchor is appended to the
// content. A rejected URL is reported through Options.Alert and keeps the form open.
func (e *Editor) SubmitLink() error {
	if !e.link.open {
		return ErrLinkClosed
	}

	href, err := richtext.ValidateURL(e.link.draft.URL)
	if err != nil {
		if e.opts.Alert != nil {
			e.opts.Alert(err.Error())
		}
		return err
	}

	r := richtext.Caret(e.doc.End())
	if e.hasSel {
		r = e.sel
	}
	text := richtext.LinkText(e.SelectedText(), e.link.draft.Text, href)

	e.focused = true
	prev := e.snapshot()
	doc, p := richtext.InsertLink(e.doc, r, href, text)
	e.doc, e.sel, e.hasSel = doc, richtext.Caret(p), true
	e.pending = nil
	e.link = linkFlow{}
	e.commit(prev)
	return nil
}
