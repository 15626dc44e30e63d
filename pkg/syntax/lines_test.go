package syntax

import "testing"

func TestLineIndex(t *testing.T) {
	t.Parallel()

	ix := NewLineIndex([]byte("fn main() {\n  call(arg);\n}\n"))

	if got := ix.LineCount(); got != 3 {
		t.Errorf("LineCount: got %d, want 3", got)
	}

	tests := []struct {
		name      string
		row       uint
		wantStart uint
		wantLine  string
	}{
		{"first", 0, 0, "fn main() {"},
		{"second", 1, 12, "  call(arg);"},
		{"third", 2, 25, "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ix.LineStart(tt.row); got != tt.wantStart {
				t.Errorf("LineStart: got %d, want %d", got, tt.wantStart)
			}

			if got := ix.Line(tt.row); got != tt.wantLine {
				t.Errorf("Line: got %q, want %q", got, tt.wantLine)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	t.Parallel()

	ix := NewLineIndex([]byte("a\n\t  b\n   \nc"))

	tests := []struct {
		name       string
		row        uint
		wantCol    uint
		wantOffset uint
		wantOK     bool
	}{
		{"no_indent", 0, 0, 0, true},
		{"tab_and_spaces", 1, 3, 5, true},
		{"blank_line", 2, 3, 10, false},
		{"last_line", 3, 0, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			offset, col, ok := ix.FirstNonBlank(tt.row)
			if offset != tt.wantOffset || col != tt.wantCol || ok != tt.wantOK {
				t.Errorf("FirstNonBlank: got (%d, %d, %v), want (%d, %d, %v)",
					offset, col, ok, tt.wantOffset, tt.wantCol, tt.wantOK)
			}
		})
	}
}

func TestRowOf(t *testing.T) {
	t.Parallel()

	ix := NewLineIndex([]byte("ab\ncd\nef"))

	tests := []struct {
		offset uint
		want   uint
	}{
		{0, 0}, {2, 0}, {3, 1}, {5, 1}, {6, 2}, {7, 2},
	}

	for _, tt := range tests {
		if got := ix.RowOf(tt.offset); got != tt.want {
			t.Errorf("RowOf(%d): got %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestLineIndexEmpty(t *testing.T) {
	t.Parallel()

	ix := NewLineIndex(nil)

	if got := ix.LineCount(); got != 0 {
		t.Errorf("LineCount of empty: got %d, want 0", got)
	}

	if got := ix.LineStart(5); got != 0 {
		t.Errorf("LineStart past end: got %d, want 0", got)
	}
}
