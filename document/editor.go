package document

import "fmt"

// Position addresses a point in a document. Line and Ch are zero based and Ch
// counts runes, not bytes.
type Position struct {
	Line int
	Ch   int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Ch)
}

// Before reports whether p sorts before o.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Ch < o.Ch)
}

// CursorSide selects which end of the selection Cursor reports.
type CursorSide int

const (
	// Head is where the selection was extended to, the caret.
	Head CursorSide = iota
	// From is the start of the selection in document order.
	From
	// To is the end of the selection in document order.
	To
)

// Editor is an open document with a selection.
type Editor interface {
	Selection() string
	Cursor(side CursorSide) Position
	SetCursor(pos Position)
	ReplaceRange(text string, from, to Position)
}

// Advance returns the position reached after writing text at pos.
func Advance(pos Position, text string) Position {
	for _, r := range text {
		if r == '\n' {
			pos.Line++
			pos.Ch = 0
			continue
		}
		pos.Ch++
	}
	return pos
}

// ParsePosition reads the "line:ch" form produced by Position.String.
func ParsePosition(s string) (Position, error) {
	var p Position
	if _, err := fmt.Sscanf(s, "%d:%d", &p.Line, &p.Ch); err != nil {
		return Position{}, fmt.Errorf("invalid position %q, want line:ch: %w", s, err)
	}
	if p.Line < 0 || p.Ch < 0 {
		return Position{}, fmt.Errorf("invalid position %q: negative component", s)
	}
	return p, nil
}
