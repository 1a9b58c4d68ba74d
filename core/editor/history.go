package editor

import "github.com/trezcool/kalamu/core/richtext"

type snapshot struct {
	doc    richtext.Document
	value  string
	sel    richtext.Range
	hasSel bool
}

type historyState struct {
	undo []snapshot
	redo []snapshot
}

func (e *Editor) snapshot() snapshot {
	return snapshot{
		doc:    e.doc.Clone(),
		value:  e.value,
		sel:    e.sel,
		hasSel: e.hasSel,
	}
}

func (e *Editor) restore(s snapshot) {
	e.doc = s.doc.Clone()
	e.pending = nil
	if !s.hasSel {
		e.sel = richtext.Range{}
		e.hasSel = false
		return
	}
	e.sel = e.doc.ClampRange(s.sel)
	e.hasSel = true
}

func (e *Editor) recordUndo(prev snapshot) {
	limit := e.opts.HistoryLimit
	if limit <= 0 {
		return
	}

	e.hist.undo = append(e.hist.undo, prev)
	if len(e.hist.undo) > limit {
		e.hist.undo = e.hist.undo[len(e.hist.undo)-limit:]
	}
	e.hist.redo = nil
}

func (e *Editor) CanUndo() bool { return len(e.hist.undo) > 0 }

func (e *Editor) CanRedo() bool { return len(e.hist.redo) > 0 }

// Undo reverts the last content change. It reports whether there was one.
func (e *Editor) Undo() bool {
	if len(e.hist.undo) == 0 {
		return false
	}

	cur := e.snapshot()
	i := len(e.hist.undo) - 1
	prev := e.hist.undo[i]
	e.hist.undo = e.hist.undo[:i]
	e.hist.redo = append(e.hist.redo, cur)

	e.restore(prev)
	e.sync()
	return true
}

func (e *Editor) Redo() bool {
	if len(e.hist.redo) == 0 {
		return false
	}

	cur := e.snapshot()
	i := len(e.hist.redo) - 1
	next := e.hist.redo[i]
	e.hist.redo = e.hist.redo[:i]
	e.hist.undo = append(e.hist.undo, cur)

	e.restore(next)
	e.sync()
	return true
}
