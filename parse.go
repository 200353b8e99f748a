package sfv

import "strconv"

// Parser parses structured field values under a Config. A Parser holds no
// per-call state and is safe for concurrent use.
type Parser struct {
	cfg Config
}

// NewParser returns a Parser enforcing the limits in cfg.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg}
}

// Config returns the parser's configuration.
func (p *Parser) Config() Config { return p.cfg }

// ParseItem parses input as an sf-item.
func (p *Parser) ParseItem(input []byte) (Item, error) {
	c, err := p.begin(input)
	if err != nil {
		return Item{}, err
	}
	it, err := p.parseItem(c)
	if err != nil {
		return Item{}, err
	}
	if err := finish(c); err != nil {
		return Item{}, err
	}
	return it, nil
}

// ParseList parses input as an sf-list. Empty input is an empty List.
func (p *Parser) ParseList(input []byte) (List, error) {
	var l List
	if err := p.ParseMoreList(&l, input); err != nil {
		return nil, err
	}
	return l, nil
}

// ParseMoreList parses input as a further field line of dst, appending its
// members. dst is left unchanged on error.
func (p *Parser) ParseMoreList(dst *List, input []byte) error {
	c, err := p.begin(input)
	if err != nil {
		return err
	}
	members, err := p.parseList(c, len(*dst))
	if err != nil {
		return err
	}
	if err := finish(c); err != nil {
		return err
	}
	*dst = append(*dst, members...)
	return nil
}

// ParseDictionary parses input as an sf-dictionary. Empty input is an empty
// Dictionary.
func (p *Parser) ParseDictionary(input []byte) (Dictionary, error) {
	var d Dictionary
	if err := p.ParseMoreDictionary(&d, input); err != nil {
		return Dictionary{}, err
	}
	return d, nil
}

// ParseMoreDictionary parses input as a further field line of dst. Keys
// already in dst are overwritten in place. dst is left unchanged on error.
func (p *Parser) ParseMoreDictionary(dst *Dictionary, input []byte) error {
	c, err := p.begin(input)
	if err != nil {
		return err
	}
	work := dst.Clone()
	if err := p.parseDictionary(c, &work); err != nil {
		return err
	}
	if err := finish(c); err != nil {
		return err
	}
	*dst = work
	return nil
}

// begin checks input limits and skips leading SP.
func (p *Parser) begin(input []byte) (*cursor, error) {
	if p.cfg.MaxInputLength > 0 && len(input) > p.cfg.MaxInputLength {
		return nil, &ParseError{
			Offset:     p.cfg.MaxInputLength,
			Production: "input",
			Message:    "length " + strconv.Itoa(len(input)) + " exceeds limit " + strconv.Itoa(p.cfg.MaxInputLength),
			Err:        ErrLimit,
		}
	}
	c := newCursor(input)
	c.skipSP()
	return c, nil
}

// finish skips trailing SP and requires the input to be exhausted.
func finish(c *cursor) error {
	c.skipSP()
	if !c.eof() {
		ch, _ := c.peek()
		return c.fail("field-value", "trailing content starting with "+quoteByte(ch))
	}
	return nil
}

func (p *Parser) parseItem(c *cursor) (Item, error) {
	v, err := decodeBareItem(c)
	if err != nil {
		return Item{}, err
	}
	params, err := p.parseParameters(c)
	if err != nil {
		return Item{}, err
	}
	return Item{Value: v, Params: params}, nil
}

func (p *Parser) parseList(c *cursor, existing int) (List, error) {
	var members List
	for !c.eof() {
		if p.cfg.MaxMembers > 0 && existing+len(members) >= p.cfg.MaxMembers {
			return nil, c.failAt(c.pos, "list", "more than "+strconv.Itoa(p.cfg.MaxMembers)+" members", ErrLimit)
		}
		m, err := p.parseMember(c)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		if err := nextMember(c, "list"); err != nil {
			return nil, err
		}
	}
	return members, nil
}

func (p *Parser) parseDictionary(c *cursor, dst *Dictionary) error {
	for !c.eof() {
		key, err := decodeKey(c)
		if err != nil {
			return err
		}
		var m Member
		if c.consume('=') {
			m, err = p.parseMember(c)
		} else {
			var params Parameters
			params, err = p.parseParameters(c)
			m = Item{Value: Boolean(true), Params: params}
		}
		if err != nil {
			return err
		}
		if p.cfg.MaxMembers > 0 && !dst.Has(key) && dst.Len() >= p.cfg.MaxMembers {
			return c.failAt(c.pos, "dictionary", "more than "+strconv.Itoa(p.cfg.MaxMembers)+" members", ErrLimit)
		}
		dst.Set(key, m)
		if err := nextMember(c, "dictionary"); err != nil {
			return err
		}
	}
	return nil
}

// nextMember consumes the separator after a list or dictionary member:
// OWS "," OWS, or nothing at end of input.
func nextMember(c *cursor, production string) error {
	c.skipOWS()
	if c.eof() {
		return nil
	}
	if !c.consume(',') {
		ch, _ := c.peek()
		return c.fail(production, "expected ',' got "+quoteByte(ch))
	}
	c.skipOWS()
	if c.eof() {
		return c.fail(production, "trailing comma")
	}
	return nil
}

// parseMember reads an Item or, at '(', an InnerList.
func (p *Parser) parseMember(c *cursor) (Member, error) {
	if c.peekIs('(') {
		return p.parseInnerList(c)
	}
	return p.parseItem(c)
}

func (p *Parser) parseInnerList(c *cursor) (InnerList, error) {
	if !c.consume('(') {
		return InnerList{}, c.fail("inner-list", "expected '('")
	}
	var items []Item
	for !c.eof() {
		c.skipSP()
		if c.consume(')') {
			params, err := p.parseParameters(c)
			if err != nil {
				return InnerList{}, err
			}
			return InnerList{Items: items, Params: params}, nil
		}
		if p.cfg.MaxInnerListMembers > 0 && len(items) >= p.cfg.MaxInnerListMembers {
			return InnerList{}, c.failAt(c.pos, "inner-list", "more than "+strconv.Itoa(p.cfg.MaxInnerListMembers)+" members", ErrLimit)
		}
		it, err := p.parseItem(c)
		if err != nil {
			return InnerList{}, err
		}
		items = append(items, it)
		ch, ok := c.peek()
		if !ok {
			break
		}
		if ch != ' ' && ch != ')' {
			return InnerList{}, c.fail("inner-list", "expected SP or ')' got "+quoteByte(ch))
		}
	}
	return InnerList{}, c.fail("inner-list", "unterminated inner list")
}

// parseParameters reads *( ";" *SP key [ "=" bare-item ] ).
func (p *Parser) parseParameters(c *cursor) (Parameters, error) {
	var params Parameters
	for c.consume(';') {
		c.skipSP()
		key, err := decodeKey(c)
		if err != nil {
			return Parameters{}, err
		}
		var v BareItem = Boolean(true)
		if c.consume('=') {
			v, err = decodeBareItem(c)
			if err != nil {
				return Parameters{}, err
			}
		}
		if p.cfg.MaxParameters > 0 && !params.Has(key) && params.Len() >= p.cfg.MaxParameters {
			return Parameters{}, c.failAt(c.pos, "parameters", "more than "+strconv.Itoa(p.cfg.MaxParameters)+" parameters", ErrLimit)
		}
		params.Set(key, v)
	}
	return params, nil
}
