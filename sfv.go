// Package sfv implements Structured Field Values for HTTP (RFC 8941).
//
// A structured field value is one of three top-level shapes:
//
//   - Item: a bare item (Integer, Decimal, String, Token, ByteSeq or Boolean)
//     with Parameters
//   - List: ordered members, each an Item or an InnerList
//   - Dictionary: ordered map of keys to Items or InnerLists
//
// ParseItem, ParseList and ParseDictionary decode a field value; Marshal
// produces its canonical serialization. Parsed values own their data and
// never alias the input buffer.
package sfv

import "strings"

// Config holds parser limits. A zero limit means unlimited.
type Config struct {
	MaxInputLength      int // bytes per field line
	MaxMembers          int // List or Dictionary members
	MaxParameters       int // parameters per Item or InnerList
	MaxInnerListMembers int
}

// DefaultConfig returns a Config with no limits.
func DefaultConfig() Config {
	return Config{}
}

var defaultParser = NewParser(DefaultConfig())

// ParseItem parses data as an Item.
func ParseItem(data []byte) (Item, error) {
	return defaultParser.ParseItem(data)
}

// ParseItemString parses s as an Item.
func ParseItemString(s string) (Item, error) {
	return defaultParser.ParseItem([]byte(s))
}

// ParseList parses data as a List.
func ParseList(data []byte) (List, error) {
	return defaultParser.ParseList(data)
}

// ParseListString parses s as a List.
func ParseListString(s string) (List, error) {
	return defaultParser.ParseList([]byte(s))
}

// ParseDictionary parses data as a Dictionary.
func ParseDictionary(data []byte) (Dictionary, error) {
	return defaultParser.ParseDictionary(data)
}

// ParseDictionaryString parses s as a Dictionary.
func ParseDictionaryString(s string) (Dictionary, error) {
	return defaultParser.ParseDictionary([]byte(s))
}

// ParseListLines parses several field lines of the same field as one List,
// as if joined with ", ". Blank lines are ignored.
func (p *Parser) ParseListLines(lines ...string) (List, error) {
	var l List
	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		if err := p.ParseMoreList(&l, []byte(line)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ParseDictionaryLines parses several field lines of the same field as one
// Dictionary. Blank lines are ignored.
func (p *Parser) ParseDictionaryLines(lines ...string) (Dictionary, error) {
	var d Dictionary
	for _, line := range lines {
		if isBlankLine(line) {
			continue
		}
		if err := p.ParseMoreDictionary(&d, []byte(line)); err != nil {
			return Dictionary{}, err
		}
	}
	return d, nil
}

// ParseListLines parses field lines with the default parser.
func ParseListLines(lines ...string) (List, error) {
	return defaultParser.ParseListLines(lines...)
}

// ParseDictionaryLines parses field lines with the default parser.
func ParseDictionaryLines(lines ...string) (Dictionary, error) {
	return defaultParser.ParseDictionaryLines(lines...)
}

// isBlankLine returns true if the line is empty or holds only OWS.
func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}

// Marshal serializes v to its canonical form.
func Marshal(v FieldValue) ([]byte, error) {
	s, err := MarshalString(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// MarshalString serializes v to its canonical form as a string.
func MarshalString(v FieldValue) (string, error) {
	return serialize(v)
}
