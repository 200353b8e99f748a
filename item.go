package sfv

import (
	"bytes"
	"math"
	"strconv"
)

// BareItem is a primitive value without parameters. The set of
// implementations is closed: Integer, Decimal, String, Token, ByteSeq and
// Boolean.
type BareItem interface {
	isBareItem()
	// Validate reports whether the value may be serialized.
	Validate() error
}

// Integer is an sf-integer with at most 15 digits.
type Integer int64

// Decimal is an sf-decimal, held in thousandths to keep exact precision.
// The zero value is 0.0.
type Decimal struct {
	milli int64
}

// String is an sf-string holding unescaped visible ASCII.
type String string

// Token is an sf-token.
type Token string

// ByteSeq is an sf-binary value.
type ByteSeq []byte

// Boolean is an sf-boolean.
type Boolean bool

func (Integer) isBareItem() {}
func (Decimal) isBareItem() {}
func (String) isBareItem()  {}
func (Token) isBareItem()   {}
func (ByteSeq) isBareItem() {}
func (Boolean) isBareItem() {}

func (v Integer) Validate() error { return checkInteger(int64(v)) }
func (v Decimal) Validate() error { return checkDecimalScaled(v.milli) }
func (v String) Validate() error  { return checkString(string(v)) }
func (v Token) Validate() error   { return checkToken(string(v)) }
func (ByteSeq) Validate() error   { return nil }
func (Boolean) Validate() error   { return nil }

// NewInteger returns v as an Integer, rejecting values beyond 15 digits.
func NewInteger(v int64) (Integer, error) {
	if err := checkInteger(v); err != nil {
		return 0, err
	}
	return Integer(v), nil
}

// NewDecimal returns intPart + frac/1000. frac must lie within ±999 and share
// the sign of a non-zero intPart: -1.5 is NewDecimal(-1, -500).
func NewDecimal(intPart, frac int64) (Decimal, error) {
	value := strconv.FormatInt(intPart, 10) + "+" + strconv.FormatInt(frac, 10) + "/1000"
	switch {
	case frac > decimalScale-1 || frac < -(decimalScale-1):
		return Decimal{}, &ValueError{Type: "decimal", Value: value, Message: "fractional component exceeds 3 digits"}
	case (intPart < 0 && frac > 0) || (intPart > 0 && frac < 0):
		return Decimal{}, &ValueError{Type: "decimal", Value: value, Message: "components differ in sign"}
	case intPart > maxDecimalScaled/decimalScale || intPart < -(maxDecimalScaled/decimalScale):
		return Decimal{}, &ValueError{Type: "decimal", Value: value, Message: "integer component exceeds 12 digits"}
	}
	return Decimal{milli: intPart*decimalScale + frac}, nil
}

// DecimalFromMilli returns the Decimal milli/1000.
func DecimalFromMilli(milli int64) (Decimal, error) {
	if err := checkDecimalScaled(milli); err != nil {
		return Decimal{}, err
	}
	return Decimal{milli: milli}, nil
}

// DecimalFromFloat rounds f half to even at three fractional digits.
func DecimalFromFloat(f float64) (Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, &ValueError{Type: "decimal", Value: strconv.FormatFloat(f, 'g', -1, 64), Message: "not finite"}
	}
	r := math.RoundToEven(f * decimalScale)
	if math.Abs(r) > maxDecimalScaled {
		return Decimal{}, &ValueError{Type: "decimal", Value: strconv.FormatFloat(f, 'f', -1, 64), Message: "integer component exceeds 12 digits"}
	}
	return Decimal{milli: int64(r)}, nil
}

// ParseDecimal parses the textual form of a Decimal, e.g. "-12.5".
func ParseDecimal(s string) (Decimal, error) {
	c := newCursor([]byte(s))
	v, err := decodeNumber(c)
	if err == nil && !c.eof() {
		err = c.fail("decimal", "trailing characters")
	}
	if err != nil {
		return Decimal{}, &ValueError{Type: "decimal", Value: s, Message: err.Error(), Err: ErrConstruction}
	}
	d, ok := v.(Decimal)
	if !ok {
		return Decimal{}, &ValueError{Type: "decimal", Value: s, Message: "missing fractional part"}
	}
	return d, nil
}

// Milli returns the value multiplied by 1000.
func (v Decimal) Milli() int64 { return v.milli }

// Float64 returns the nearest float64.
func (v Decimal) Float64() float64 { return float64(v.milli) / decimalScale }

// String returns the canonical serialization.
func (v Decimal) String() string { return formatDecimal(v.milli) }

// NewString validates s as String content.
func NewString(s string) (String, error) {
	if err := checkString(s); err != nil {
		return "", err
	}
	return String(s), nil
}

// NewToken validates s as a Token.
func NewToken(s string) (Token, error) {
	if err := checkToken(s); err != nil {
		return "", err
	}
	return Token(s), nil
}

// NewByteSeq returns a copy of b.
func NewByteSeq(b []byte) ByteSeq {
	out := make(ByteSeq, len(b))
	copy(out, b)
	return out
}

func NewBoolean(b bool) Boolean { return Boolean(b) }

// Key names a Dictionary member or a parameter.
type Key string

// NewKey validates s as a Key.
func NewKey(s string) (Key, error) {
	if err := checkKey(s); err != nil {
		return "", err
	}
	return Key(s), nil
}

func (k Key) Validate() error { return checkKey(string(k)) }

// MustInteger is like NewInteger but panics on error.
func MustInteger(v int64) Integer {
	i, err := NewInteger(v)
	if err != nil {
		panic(err)
	}
	return i
}

// MustDecimal is like ParseDecimal but panics on error.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustString is like NewString but panics on error.
func MustString(s string) String {
	v, err := NewString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MustToken is like NewToken but panics on error.
func MustToken(s string) Token {
	v, err := NewToken(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MustKey is like NewKey but panics on error.
func MustKey(s string) Key {
	k, err := NewKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// EqualBareItems compares two bare items by type and value.
func EqualBareItems(a, b BareItem) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Decimal:
		y, ok := b.(Decimal)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Token:
		y, ok := b.(Token)
		return ok && x == y
	case ByteSeq:
		y, ok := b.(ByteSeq)
		return ok && bytes.Equal(x, y)
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case nil:
		return b == nil
	}
	return false
}

func cloneBareItem(v BareItem) BareItem {
	if b, ok := v.(ByteSeq); ok {
		return NewByteSeq(b)
	}
	return v
}
