package buffer

import (
	"io"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

var newline = []byte{'\n'}

// RopeBuffer is a Buffer stored in a rope, which keeps edits in the middle
// of large files cheap.
type RopeBuffer rope.Node

func NewRopeBuffer(contents []byte) *RopeBuffer {
	return (*RopeBuffer)(rope.New(contents))
}

func (b *RopeBuffer) node() *rope.Node {
	return (*rope.Node)(b)
}

func (b *RopeBuffer) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if n := b.node().Len(); pos > n {
		return n
	}
	return pos
}

// Bytes returns all of the bytes in the buffer.
func (b *RopeBuffer) Bytes() []byte {
	return b.node().Value()
}

// String returns the buffer contents as a string.
func (b *RopeBuffer) String() string {
	return string(b.Bytes())
}

// Len returns the number of bytes in the buffer.
func (b *RopeBuffer) Len() int {
	return b.node().Len()
}

// Lines counts the newlines in the buffer, plus one for the last line.
func (b *RopeBuffer) Lines() int {
	n := b.node()
	return n.Count(0, n.Len(), newline) + 1
}

// LineStart returns the byte offset where line begins. Lines past the end
// of the buffer are clamped to the last line.
func (b *RopeBuffer) LineStart(line int) int {
	if line <= 0 {
		return 0
	}
	n := b.node()
	pos := 0
	n.IndexAllFunc(0, n.Len(), newline, func(idx int) bool {
		line--
		pos = idx + 1
		return line <= 0
	})
	return pos
}

// lineEnd returns the offset just past the delimiter of the line starting
// at start, or the end of the buffer.
func (b *RopeBuffer) lineEnd(start int) int {
	n := b.node()
	end := n.Len()
	n.IndexAllFunc(start, n.Len(), newline, func(idx int) bool {
		end = idx + 1
		return true
	})
	return end
}

// Line returns the bytes of line, delimiter included.
func (b *RopeBuffer) Line(line int) []byte {
	start := b.LineStart(line)
	return b.node().Slice(start, b.lineEnd(start))
}

// Insert copies value into the buffer at byte offset pos.
func (b *RopeBuffer) Insert(pos int, value []byte) {
	if len(value) == 0 {
		return
	}
	b.node().Insert(b.clamp(pos), value)
}

// Remove deletes the bytes in [start, end).
func (b *RopeBuffer) Remove(start, end int) {
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return
	}
	b.node().Remove(start, end)
}

// PosToLineCol converts a byte offset to a line and rune column. pos should
// sit on a rune boundary.
func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	pos = b.clamp(pos)
	n := b.node()
	line := n.Count(0, pos, newline)
	return line, utf8.RuneCount(n.Slice(b.LineStart(line), pos))
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.node().WriteTo(w)
}
