package sfv

import "strconv"

// Numeric bounds.
const (
	MaxInteger = 999_999_999_999_999
	MinInteger = -MaxInteger

	// Decimals are stored in thousandths; the integer component has at most
	// 12 digits.
	decimalScale      = 1000
	maxDecimalScaled  = 999_999_999_999_999
	maxIntegerDigits  = 15
	maxDecimalDigits  = 12
	maxFractionDigits = 3
)

func isDigit(c byte) bool   { return c >= '0' && c <= '9' }
func isLCAlpha(c byte) bool { return c >= 'a' && c <= 'z' }
func isAlpha(c byte) bool   { return isLCAlpha(c) || (c >= 'A' && c <= 'Z') }

// isTChar reports whether c is an RFC 9110 tchar.
func isTChar(c byte) bool {
	if isAlpha(c) || isDigit(c) {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}

func isTokenChar(c byte) bool { return isTChar(c) || c == ':' || c == '/' }

func isKeyChar(c byte) bool {
	return isLCAlpha(c) || isDigit(c) || c == '_' || c == '-' || c == '.' || c == '*'
}

// isVisible reports whether c may appear unescaped in a String.
func isVisible(c byte) bool { return c >= 0x20 && c <= 0x7e }

func isBase64Char(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '+' || c == '/' || c == '='
}

func isOWS(c byte) bool { return c == ' ' || c == '\t' }

func checkInteger(v int64) error {
	if v > MaxInteger || v < MinInteger {
		return &ValueError{Type: "integer", Value: strconv.FormatInt(v, 10), Message: "magnitude exceeds 15 digits"}
	}
	return nil
}

func checkDecimalScaled(scaled int64) error {
	if scaled > maxDecimalScaled || scaled < -maxDecimalScaled {
		return &ValueError{Type: "decimal", Value: strconv.FormatInt(scaled, 10) + "e-3", Message: "integer component exceeds 12 digits"}
	}
	return nil
}

func checkString(s string) error {
	for i := 0; i < len(s); i++ {
		if !isVisible(s[i]) {
			return &ValueError{Type: "string", Value: s, Message: "byte at " + strconv.Itoa(i) + " is not visible ASCII"}
		}
	}
	return nil
}

func checkToken(s string) error {
	if s == "" {
		return &ValueError{Type: "token", Value: s, Message: "empty"}
	}
	if !isAlpha(s[0]) && s[0] != '*' {
		return &ValueError{Type: "token", Value: s, Message: "must start with a letter or '*'"}
	}
	for i := 1; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return &ValueError{Type: "token", Value: s, Message: "invalid character at " + strconv.Itoa(i)}
		}
	}
	return nil
}

func checkKey(s string) error {
	if s == "" {
		return &ValueError{Type: "key", Value: s, Message: "empty"}
	}
	if !isLCAlpha(s[0]) && s[0] != '*' {
		return &ValueError{Type: "key", Value: s, Message: "must start with a lowercase letter or '*'"}
	}
	for i := 1; i < len(s); i++ {
		if !isKeyChar(s[i]) {
			return &ValueError{Type: "key", Value: s, Message: "invalid character at " + strconv.Itoa(i)}
		}
	}
	return nil
}
