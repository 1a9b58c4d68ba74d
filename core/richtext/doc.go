// Package richtext implements the pure document model behind the dashboard's rich text fields.
//
// A Document is a flat list of blocks (paragraphs and list items); each block holds styled
// spans. Positions are (Block, Offset) pairs where Offset counts runes inside the block, and
// ranges are half-open: [Start, End).
//
// Every command is a pure function: it takes a Document and a Range and returns a new Document
// plus the resulting selection. Inputs are never mutated.
//
// Render produces canonical HTML and Parse reads it (or any browser/clipboard HTML) back, with
// Render(Parse(Render(d))) == Render(d).
package richtext
