package sfv

import (
	"encoding/base64"
	"strings"
)

// decodeBareItem dispatches on the first byte.
func decodeBareItem(c *cursor) (BareItem, error) {
	ch, ok := c.peek()
	if !ok {
		return nil, c.fail("bare-item", "unexpected end of input")
	}
	switch {
	case ch == '-' || isDigit(ch):
		return decodeNumber(c)
	case ch == '"':
		return decodeString(c)
	case ch == '*' || isAlpha(ch):
		return decodeToken(c)
	case ch == ':':
		return decodeByteSeq(c)
	case ch == '?':
		return decodeBoolean(c)
	}
	return nil, c.fail("bare-item", "unexpected character "+quoteByte(ch))
}

// decodeNumber reads an Integer or a Decimal.
func decodeNumber(c *cursor) (BareItem, error) {
	start := c.pos
	neg := c.consume('-')

	ch, ok := c.peek()
	if !ok {
		return nil, c.fail("number", "missing digits")
	}
	if !isDigit(ch) {
		return nil, c.fail("number", "expected digit, got "+quoteByte(ch))
	}

	var (
		intPart   int64
		frac      int64
		intDigits int
		fracDigit int
		isDecimal bool
	)
	for {
		ch, ok := c.peek()
		if !ok {
			break
		}
		switch {
		case isDigit(ch):
			if isDecimal {
				fracDigit++
				if fracDigit > maxFractionDigits {
					return nil, c.failAt(start, "decimal", "more than 3 fractional digits", ErrRange)
				}
				frac = frac*10 + int64(ch-'0')
			} else {
				intDigits++
				if intDigits > maxIntegerDigits {
					return nil, c.failAt(start, "integer", "more than 15 digits", ErrRange)
				}
				intPart = intPart*10 + int64(ch-'0')
			}
			c.advance()
			continue
		case ch == '.' && !isDecimal:
			if intDigits > maxDecimalDigits {
				return nil, c.failAt(start, "decimal", "more than 12 integer digits", ErrRange)
			}
			isDecimal = true
			c.advance()
			continue
		}
		break
	}

	if !isDecimal {
		if neg {
			intPart = -intPart
		}
		return Integer(intPart), nil
	}
	if fracDigit == 0 {
		return nil, c.fail("decimal", "missing fractional digits")
	}
	for i := fracDigit; i < maxFractionDigits; i++ {
		frac *= 10
	}
	milli := intPart*decimalScale + frac
	if neg {
		milli = -milli
	}
	return Decimal{milli: milli}, nil
}

// decodeString reads a quoted String, processing escapes.
func decodeString(c *cursor) (BareItem, error) {
	if !c.consume('"') {
		return nil, c.fail("string", `expected '"'`)
	}
	var b strings.Builder
	for {
		ch, ok := c.peek()
		if !ok {
			return nil, c.fail("string", "unterminated string")
		}
		switch {
		case ch == '\\':
			c.advance()
			next, ok := c.peek()
			if !ok {
				return nil, c.fail("string", "unterminated escape")
			}
			if next != '"' && next != '\\' {
				return nil, c.fail("string", "invalid escape "+quoteByte(next))
			}
			b.WriteByte(next)
			c.advance()
		case ch == '"':
			c.advance()
			return String(b.String()), nil
		case !isVisible(ch):
			return nil, c.fail("string", "invalid character "+quoteByte(ch))
		default:
			b.WriteByte(ch)
			c.advance()
		}
	}
}

func decodeToken(c *cursor) (BareItem, error) {
	ch, ok := c.peek()
	if !ok || (!isAlpha(ch) && ch != '*') {
		return nil, c.fail("token", "must start with a letter or '*'")
	}
	return Token(c.takeWhile(isTokenChar)), nil
}

// decodeByteSeq reads :base64: and decodes it.
func decodeByteSeq(c *cursor) (BareItem, error) {
	if !c.consume(':') {
		return nil, c.fail("byte-sequence", "expected ':'")
	}
	start := c.pos
	body := c.takeWhile(isBase64Char)
	if !c.consume(':') {
		if c.eof() {
			return nil, c.fail("byte-sequence", "unterminated byte sequence")
		}
		ch, _ := c.peek()
		return nil, c.fail("byte-sequence", "invalid base64 character "+quoteByte(ch))
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
	n, err := base64.StdEncoding.Strict().Decode(out, body)
	if err != nil {
		return nil, c.failAt(start, "byte-sequence", "invalid base64: "+err.Error(), ErrSyntax)
	}
	return ByteSeq(out[:n]), nil
}

func decodeBoolean(c *cursor) (BareItem, error) {
	if !c.consume('?') {
		return nil, c.fail("boolean", "expected '?'")
	}
	switch {
	case c.consume('1'):
		return Boolean(true), nil
	case c.consume('0'):
		return Boolean(false), nil
	}
	return nil, c.fail("boolean", "expected '0' or '1'")
}

func decodeKey(c *cursor) (Key, error) {
	ch, ok := c.peek()
	if !ok || (!isLCAlpha(ch) && ch != '*') {
		return "", c.fail("key", "must start with a lowercase letter or '*'")
	}
	return Key(c.takeWhile(isKeyChar)), nil
}

func quoteByte(b byte) string {
	if isVisible(b) {
		return "'" + string(b) + "'"
	}
	const hex = "0123456789abcdef"
	return "0x" + string([]byte{hex[b>>4], hex[b&0xf]})
}
