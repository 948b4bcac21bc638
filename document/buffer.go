package document

import (
	"strings"
	"sync"
)

var _ Editor = (*Buffer)(nil)

// Buffer is an Editor over an in-memory rune slice. Positions outside the
// document are clamped to the nearest valid one. It is safe for concurrent use.
type Buffer struct {
	mu     sync.Mutex
	text   []rune
	anchor int
	head   int
	dirty  bool
}

// NewBuffer creates a buffer with the cursor at the start of the text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: []rune(text)}
}

// Text returns the current content.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.text)
}

// Dirty reports whether the content changed since creation or the last MarkClean.
func (b *Buffer) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func (b *Buffer) MarkClean() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

// Select sets the anchor to from and the head to to.
func (b *Buffer) Select(from, to Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.anchor = b.offset(from)
	b.head = b.offset(to)
}

// Find selects the first occurrence of needle at or after the start of the
// document and reports whether it was found.
func (b *Buffer) Find(needle string) bool {
	if needle == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := strings.Index(string(b.text), needle)
	if idx < 0 {
		return false
	}
	start := len([]rune(string(b.text)[:idx]))
	b.anchor = start
	b.head = start + len([]rune(needle))
	return true
}

func (b *Buffer) Selection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, to := b.ordered()
	return string(b.text[from:to])
}

func (b *Buffer) Cursor(side CursorSide) Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, to := b.ordered()
	switch side {
	case From:
		return b.position(from)
	case To:
		return b.position(to)
	default:
		return b.position(b.head)
	}
}

func (b *Buffer) SetCursor(pos Position) {
	b.mu.Lock()
	defer b.mu.Unlock()
	off := b.offset(pos)
	b.anchor, b.head = off, off
}

// ReplaceRange replaces the text between from and to. The bounds may be given
// in either order. Cursor offsets after the range shift with the edit, offsets
// inside it or on its edges land at the end of the new text.
func (b *Buffer) ReplaceRange(text string, from, to Position) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if to.Before(from) {
		from, to = to, from
	}
	start, end := b.offset(from), b.offset(to)
	insert := []rune(text)

	next := make([]rune, 0, len(b.text)-(end-start)+len(insert))
	next = append(next, b.text[:start]...)
	next = append(next, insert...)
	next = append(next, b.text[end:]...)
	b.text = next

	delta := len(insert) - (end - start)
	mapOffset := func(off int) int {
		switch {
		case off > end:
			return off + delta
		case off >= start:
			return start + len(insert)
		default:
			return off
		}
	}
	b.anchor = mapOffset(b.anchor)
	b.head = mapOffset(b.head)
	b.dirty = true
}

func (b *Buffer) ordered() (int, int) {
	if b.head < b.anchor {
		return b.head, b.anchor
	}
	return b.anchor, b.head
}

func (b *Buffer) offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	line := 0
	for i, r := range b.text {
		if line == pos.Line {
			end := i
			for end < len(b.text) && b.text[end] != '\n' {
				end++
			}
			return i + min(max(pos.Ch, 0), end-i)
		}
		if r == '\n' {
			line++
		}
	}
	return len(b.text)
}

func (b *Buffer) position(off int) Position {
	var p Position
	for _, r := range b.text[:off] {
		if r == '\n' {
			p.Line++
			p.Ch = 0
			continue
		}
		p.Ch++
	}
	return p
}
