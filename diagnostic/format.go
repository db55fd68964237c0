// Package diagnostic is the "diagnostic formatter that renders underlined
// source spans" spec.md §1 explicitly keeps out of the core. It is the
// concrete collaborator spec.md §6 describes: given a source view and its
// accumulated diagnostics, render them the way a human reads a compiler
// error.
//
// Grounded on original_source/src/dil/source.c's dil_source_print /
// dil_source_underline / dil_source_locate, translated from the
// pointer-walking C version into byte-offset arithmetic over
// source.Source.Bytes.
package diagnostic

import (
	"fmt"
	"io"

	"github.com/nihei9/dil/source"
)

// WriteAll renders every diagnostic recorded on src, in report order, to
// w.
func WriteAll(w io.Writer, src *source.Source) {
	for _, d := range src.Diagnostics {
		Write(w, src, d)
	}
}

// Write renders a single diagnostic: a "path:row:col: severity: message"
// header line, followed by the source line(s) the diagnostic's slice
// spans, underlined with '~'.
func Write(w io.Writer, src *source.Source, d source.Diagnostic) {
	start := src.PositionAt(d.Slice.First)
	end := src.PositionAt(maxInt(d.Slice.First, d.Slice.Last-1))

	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", src.Path, start.Row, start.Col, d.Severity, d.Message)

	if start.Row == end.Row {
		underline(w, src, start.Row, start.Col, end.Col+1, false)
		fmt.Fprintln(w)
		return
	}

	lineEndCol := lineLength(src, start.Row) + 1
	underline(w, src, start.Row, start.Col, lineEndCol, true)
	underline(w, src, end.Row, 1, end.Col+1, false)
	fmt.Fprintln(w)
}

// lineBounds returns the [first,last) byte offsets of the 1-based row.
func lineBounds(src *source.Source, row int) (int, int) {
	first := 0
	r := 1
	for i := 0; i < len(src.Bytes) && r < row; i++ {
		if src.Bytes[i] == '\n' {
			r++
			first = i + 1
		}
	}
	last := first
	for last < len(src.Bytes) && src.Bytes[last] != '\n' {
		last++
	}
	return first, last
}

func lineLength(src *source.Source, row int) int {
	first, last := lineBounds(src, row)
	return last - first
}

// underline prints the row's line-number gutter, the line text, and a
// '~' underline from startCol to endCol (exclusive). When dots is true, a
// "..." gutter marks a continuation line (spec.md's supplemented
// multi-line underlining, see SPEC_FULL.md).
func underline(w io.Writer, src *source.Source, row, startCol, endCol int, dots bool) {
	first, last := lineBounds(src, row)
	fmt.Fprintf(w, "%8d | %s\n", row, src.Bytes[first:last])

	gutter := "         | "
	if dots {
		gutter = "     ... | "
	}
	fmt.Fprint(w, gutter)
	col := 1
	for ; col < startCol; col++ {
		fmt.Fprint(w, " ")
	}
	for ; col < endCol; col++ {
		fmt.Fprint(w, "~")
	}
	fmt.Fprintln(w)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
