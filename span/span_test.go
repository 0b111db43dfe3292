package span

import "testing"

func TestAdvanceColumn(t *testing.T) {
	tests := []struct {
		name   string
		column uint32
		ch     rune
		want   uint32
	}{
		{name: "ascii advances by one", column: 1, ch: 'a', want: 2},
		{name: "tab from column 1 advances to 5", column: 1, ch: '\t', want: 5},
		{name: "tab from column 3 advances to 5", column: 3, ch: '\t', want: 5},
		{name: "tab from column 5 advances to 9", column: 5, ch: '\t', want: 9},
		{name: "tab from column 4 advances to 5", column: 4, ch: '\t', want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceColumn(tt.column, tt.ch)
			if got != tt.want {
				t.Errorf("AdvanceColumn(%d, %q) = %d, want %d", tt.column, tt.ch, got, tt.want)
			}
		})
	}
}

func TestIndexPosition(t *testing.T) {
	source := []byte("# Hello\n\tworld\n")
	idx := NewIndex(source)

	tests := []struct {
		name   string
		offset uint64
		want   Position
	}{
		{name: "start of document", offset: 0, want: Position{Line: 1, Column: 1, Offset: 0}},
		{name: "after hash", offset: 1, want: Position{Line: 1, Column: 2, Offset: 1}},
		{name: "start of second line", offset: 8, want: Position{Line: 2, Column: 1, Offset: 8}},
		{name: "after tab on second line", offset: 9, want: Position{Line: 2, Column: 5, Offset: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Position(tt.offset)
			if got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestSpanFromInvalidRange(t *testing.T) {
	idx := NewIndex([]byte("hello"))

	if _, err := SpanFrom(idx, 3, 2); err == nil {
		t.Errorf("expected error for end < start")
	}
	if _, err := SpanFrom(idx, 0, 100); err == nil {
		t.Errorf("expected error for out-of-bounds end")
	}
	sp, err := SpanFrom(idx, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Len() != 5 {
		t.Errorf("Len() = %d, want 5", sp.Len())
	}
}

func TestSpanContainsAndOverlaps(t *testing.T) {
	idx := NewIndex([]byte("0123456789"))
	parent, _ := SpanFrom(idx, 0, 10)
	child, _ := SpanFrom(idx, 2, 5)
	sibling, _ := SpanFrom(idx, 5, 8)
	outside, _ := SpanFrom(idx, 8, 12)
	_ = outside

	if !parent.Contains(child) {
		t.Errorf("expected parent to contain child")
	}
	if child.Overlaps(sibling) {
		t.Errorf("adjacent spans [2,5) and [5,8) must not overlap")
	}
	overlapping, _ := SpanFrom(idx, 4, 8)
	if !child.Overlaps(overlapping) {
		t.Errorf("expected [2,5) to overlap [4,8)")
	}
}

func TestMerge(t *testing.T) {
	idx := NewIndex([]byte("0123456789"))
	a, _ := SpanFrom(idx, 2, 5)
	b, _ := SpanFrom(idx, 4, 8)

	merged := Merge(a, b)
	if merged.Start.Offset != 2 || merged.End.Offset != 8 {
		t.Errorf("Merge() = %+v, want start=2 end=8", merged)
	}
}

func TestSpanValue(t *testing.T) {
	source := []byte("hello world")
	idx := NewIndex(source)
	sp, _ := SpanFrom(idx, 0, 5)

	if got := string(sp.Value(source)); got != "hello" {
		t.Errorf("Value() = %q, want %q", got, "hello")
	}
}
