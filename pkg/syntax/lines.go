package syntax

import "github.com/Sumatoshi-tech/treelens/pkg/safeconv"

// LineIndex maps rows to byte offsets for a source buffer. Built once per
// request; never cached across edits.
type LineIndex struct {
	src    []byte
	starts []uint
}

// NewLineIndex scans src and records the byte offset of each line start.
func NewLineIndex(src []byte) *LineIndex {
	starts := make([]uint, 1, 16)
	starts[0] = 0

	for i, b := range src {
		if b == '\n' {
			starts = append(starts, safeconv.MustIntToUint(i)+1)
		}
	}

	return &LineIndex{src: src, starts: starts}
}

// LineCount returns the number of lines, counting a trailing partial line.
func (ix *LineIndex) LineCount() int {
	if len(ix.src) == 0 {
		return 0
	}

	if ix.src[len(ix.src)-1] == '\n' {
		return len(ix.starts) - 1
	}

	return len(ix.starts)
}

// LineStart returns the byte offset of the first character of row.
// Rows past the end of the buffer map to the buffer length.
func (ix *LineIndex) LineStart(row uint) uint {
	if int(row) >= len(ix.starts) {
		return safeconv.MustIntToUint(len(ix.src))
	}

	return ix.starts[row]
}

// LineEnd returns the byte offset one past the last character of row,
// excluding the newline.
func (ix *LineIndex) LineEnd(row uint) uint {
	next := int(row) + 1
	if next >= len(ix.starts) {
		return safeconv.MustIntToUint(len(ix.src))
	}

	end := ix.starts[next]
	if end > 0 && ix.src[end-1] == '\n' {
		end--
	}

	return end
}

// Line returns the text of row without its newline.
func (ix *LineIndex) Line(row uint) string {
	return string(ix.src[ix.LineStart(row):ix.LineEnd(row)])
}

// FirstNonBlank returns the byte offset and column of the first non-blank
// character of row. Blank lines report the line end and ok=false.
func (ix *LineIndex) FirstNonBlank(row uint) (offset, column uint, ok bool) {
	start := ix.LineStart(row)
	end := ix.LineEnd(row)

	for pos := start; pos < end; pos++ {
		if ix.src[pos] != ' ' && ix.src[pos] != '\t' {
			return pos, pos - start, true
		}
	}

	return end, end - start, false
}

// RowOf returns the row containing the byte offset.
func (ix *LineIndex) RowOf(offset uint) uint {
	lo, hi := 0, len(ix.starts)-1

	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	return safeconv.MustIntToUint(lo)
}
