package sfv

// cursor is a position over an immutable input buffer. Bounds checks are the
// caller's job: peek reports exhaustion, advance past the end is a no-op.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) eof() bool { return c.pos >= len(c.data) }

func (c *cursor) remaining() int { return len(c.data) - c.pos }

// peek returns the next byte without consuming it.
func (c *cursor) peek() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	return c.data[c.pos], true
}

// peekIs reports whether the next byte is b.
func (c *cursor) peekIs(b byte) bool {
	ch, ok := c.peek()
	return ok && ch == b
}

func (c *cursor) advance() {
	if !c.eof() {
		c.pos++
	}
}

// consume advances past b if it is the next byte.
func (c *cursor) consume(b byte) bool {
	if c.peekIs(b) {
		c.pos++
		return true
	}
	return false
}

// takeWhile advances while pred holds and returns the consumed span. The span
// aliases the input; callers copy before retaining it.
func (c *cursor) takeWhile(pred func(byte) bool) []byte {
	start := c.pos
	for c.pos < len(c.data) && pred(c.data[c.pos]) {
		c.pos++
	}
	return c.data[start:c.pos]
}

func (c *cursor) skipSP() {
	c.takeWhile(func(b byte) bool { return b == ' ' })
}

func (c *cursor) skipOWS() {
	c.takeWhile(isOWS)
}

// fail builds a syntax error at the current position.
func (c *cursor) fail(production, msg string) *ParseError {
	return &ParseError{Offset: c.pos, Production: production, Message: msg, Err: ErrSyntax}
}

func (c *cursor) failAt(offset int, production, msg string, sentinel error) *ParseError {
	return &ParseError{Offset: offset, Production: production, Message: msg, Err: sentinel}
}
