package parser

// Line is one physical line of a document.
type Line struct {
	// No is the 0-based line index.
	No   int
	Text string
}

// cursor walks the document lines strictly forward. Peek looks ahead
// without consuming so continuation lines can be collected before they
// are skipped.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(lines []string) *cursor {
	return &cursor{lines: lines}
}

// Next returns the next line and advances past it.
func (c *cursor) Next() (Line, bool) {
	if c.pos >= len(c.lines) {
		return Line{}, false
	}
	ln := Line{No: c.pos, Text: c.lines[c.pos]}
	c.pos++
	return ln, true
}

// Peek returns the line n positions past the next one without consuming
// anything. Peek(0) is the line Next would return.
func (c *cursor) Peek(n int) (Line, bool) {
	i := c.pos + n
	if n < 0 || i >= len(c.lines) {
		return Line{}, false
	}
	return Line{No: i, Text: c.lines[i]}, true
}

// Skip consumes n lines.
func (c *cursor) Skip(n int) {
	c.pos = min(c.pos+n, len(c.lines))
}
