package buffer

import (
	"io"
)

// A Buffer is the text a Highlighter reads. It wraps a data structure like a
// rope so that the highlighter can ask for whole contents, single lines and
// line/column positions. Lines and columns start at zero; columns count
// runes, not bytes.
//
// Positions out of range are clamped rather than panicking, since a host may
// ask about lines that scrolled past the end of a shrinking buffer.
type Buffer interface {
	// Bytes returns all of the bytes in the buffer. This is likely to copy.
	Bytes() []byte

	// Line returns the bytes of the given line, including its line delimiter.
	// Data returned may or may not be a copy: do not write to it.
	Line(line int) []byte

	// LineStart returns the byte offset of the first byte of the line.
	LineStart(line int) int

	// Insert copies value into the buffer at byte offset pos.
	Insert(pos int, value []byte)

	// Remove deletes the bytes in [start, end).
	Remove(start, end int)

	// Len returns the number of bytes in the buffer.
	Len() int

	// Lines returns the number of lines in the buffer. An empty buffer, or
	// one ending in '\n', still has a last (empty) line.
	Lines() int

	// PosToLineCol converts a byte offset to a line and rune column.
	PosToLineCol(pos int) (line, col int)

	WriteTo(w io.Writer) (int64, error)
}
