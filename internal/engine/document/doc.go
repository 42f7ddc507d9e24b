// Package document provides Document, a sequence of line handles that
// implements line.Document.
//
// The document keeps one reference on each of its lines, supplies the
// layout settings, format scheme and indent rule the lines use, and tracks
// the total number of visual rows from the wrap notifications lines send
// after their layout changed.
//
// Basic usage:
//
//	doc := document.FromString("func main() {\n\tprintln()\n}",
//	    document.WithTabWidth(8), document.WithWrapWidth(80))
//	defer doc.Close()
//
//	doc.Edit(1, func(e *line.Editor) {
//	    e.Insert(1, "// ")
//	})
//	rows := doc.TotalRows()
//
// Thread Safety:
//
// All Document methods are safe for concurrent use. The document never
// calls into a line while holding its own lock, because lines query the
// document for settings while they hold theirs.
package document
