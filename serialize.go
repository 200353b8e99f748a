package sfv

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// serialize converts a field value to canonical text.
func serialize(v FieldValue) (string, error) {
	var b strings.Builder
	var err error
	switch x := v.(type) {
	case Item:
		err = writeItem(&b, x)
	case *Item:
		err = writeItem(&b, *x)
	case List:
		err = writeList(&b, x)
	case *List:
		err = writeList(&b, *x)
	case Dictionary:
		err = writeDictionary(&b, &x)
	case *Dictionary:
		err = writeDictionary(&b, x)
	default:
		err = fmt.Errorf("%w: unsupported field value %T", ErrEncoding, v)
	}
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeList joins members with ", ".
func writeList(b *strings.Builder, l List) error {
	for i, m := range l {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeMember(b, m); err != nil {
			return err
		}
	}
	return nil
}

// writeDictionary writes key=value members; a Boolean true Item is written as
// the key followed by its parameters.
func writeDictionary(b *strings.Builder, d *Dictionary) error {
	for i, e := range d.m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writeKey(b, e.key); err != nil {
			return err
		}
		if it, ok := e.value.(Item); ok && isTrue(it.Value) {
			if err := writeParameters(b, &it.Params); err != nil {
				return err
			}
			continue
		}
		b.WriteByte('=')
		if err := writeMember(b, e.value); err != nil {
			return err
		}
	}
	return nil
}

func writeMember(b *strings.Builder, m Member) error {
	switch x := m.(type) {
	case Item:
		return writeItem(b, x)
	case InnerList:
		return writeInnerList(b, x)
	}
	return fmt.Errorf("%w: unsupported member %T", ErrEncoding, m)
}

// writeInnerList joins items with a single space inside parentheses.
func writeInnerList(b *strings.Builder, il InnerList) error {
	b.WriteByte('(')
	for i, it := range il.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		if err := writeItem(b, it); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return writeParameters(b, &il.Params)
}

func writeItem(b *strings.Builder, it Item) error {
	if err := writeBareItem(b, it.Value); err != nil {
		return err
	}
	return writeParameters(b, &it.Params)
}

// writeParameters writes ;key or ;key=value for each parameter.
func writeParameters(b *strings.Builder, p *Parameters) error {
	for _, e := range p.m.entries {
		b.WriteByte(';')
		if err := writeKey(b, e.key); err != nil {
			return err
		}
		if isTrue(e.value) {
			continue
		}
		b.WriteByte('=')
		if err := writeBareItem(b, e.value); err != nil {
			return err
		}
	}
	return nil
}

func writeKey(b *strings.Builder, k Key) error {
	if err := k.Validate(); err != nil {
		return encodingError(err)
	}
	b.WriteString(string(k))
	return nil
}

func writeBareItem(b *strings.Builder, v BareItem) error {
	if v == nil {
		return &ValueError{Type: "bare-item", Message: "missing value", Err: ErrEncoding}
	}
	if err := v.Validate(); err != nil {
		return encodingError(err)
	}
	switch x := v.(type) {
	case Integer:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case Decimal:
		b.WriteString(formatDecimal(x.milli))
	case String:
		writeString(b, string(x))
	case Token:
		b.WriteString(string(x))
	case ByteSeq:
		b.WriteByte(':')
		b.WriteString(base64.StdEncoding.EncodeToString(x))
		b.WriteByte(':')
	case Boolean:
		if x {
			b.WriteString("?1")
		} else {
			b.WriteString("?0")
		}
	default:
		return fmt.Errorf("%w: unsupported bare item %T", ErrEncoding, v)
	}
	return nil
}

// writeString quotes s, escaping '"' and '\'.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
}

// formatDecimal renders thousandths with the fewest fractional digits, at
// least one.
func formatDecimal(milli int64) string {
	var b strings.Builder
	if milli < 0 {
		b.WriteByte('-')
		milli = -milli
	}
	b.WriteString(strconv.FormatInt(milli/decimalScale, 10))
	b.WriteByte('.')
	frac := milli % decimalScale
	digits := []byte{byte('0' + frac/100), byte('0' + frac/10%10), byte('0' + frac%10)}
	n := len(digits)
	for n > 1 && digits[n-1] == '0' {
		n--
	}
	b.Write(digits[:n])
	return b.String()
}

func isTrue(v BareItem) bool {
	bv, ok := v.(Boolean)
	return ok && bool(bv)
}
