package sfv

// Param is one parameter of an Item or InnerList.
type Param struct {
	Key   Key
	Value BareItem
}

// Parameters is an ordered map of keys to bare items. Setting an existing key
// replaces its value without moving it. The zero value is an empty map.
//
// Set does not check keys; build them with NewKey or MustKey. A key that
// fails Key.Validate is reported with ErrEncoding when the value is
// serialized.
type Parameters struct {
	m orderedMap[BareItem]
}

// NewParameters builds Parameters from params in order.
func NewParameters(params ...Param) Parameters {
	var p Parameters
	for _, pr := range params {
		p.Set(pr.Key, pr.Value)
	}
	return p
}

func (p *Parameters) Set(key Key, value BareItem)  { p.m.set(key, value) }
func (p *Parameters) Get(key Key) (BareItem, bool) { return p.m.get(key) }
func (p *Parameters) Delete(key Key) bool          { return p.m.del(key) }
func (p *Parameters) Len() int                     { return p.m.len() }
func (p *Parameters) Keys() []Key                  { return p.m.keys() }

func (p *Parameters) Has(key Key) bool {
	_, ok := p.m.get(key)
	return ok
}

// Entries returns the parameters in order.
func (p *Parameters) Entries() []Param {
	out := make([]Param, len(p.m.entries))
	for i, e := range p.m.entries {
		out[i] = Param{Key: e.key, Value: e.value}
	}
	return out
}

func (p Parameters) Clone() Parameters {
	return Parameters{m: p.m.clone(cloneBareItem)}
}

func (p Parameters) Equal(other Parameters) bool {
	return p.m.equal(&other.m, EqualBareItems)
}

// Member is a List member or Dictionary value: an Item or an InnerList.
type Member interface {
	isMember()
}

// Item is a bare item with parameters.
type Item struct {
	Value  BareItem
	Params Parameters
}

// NewItem returns an Item without parameters.
func NewItem(v BareItem) Item {
	return Item{Value: v}
}

// NewItemWithParams returns an Item carrying params.
func NewItemWithParams(v BareItem, params Parameters) Item {
	return Item{Value: v, Params: params}
}

func (Item) isMember()     {}
func (Item) isFieldValue() {}

func (it Item) Clone() Item {
	return Item{Value: cloneBareItem(it.Value), Params: it.Params.Clone()}
}

func (it Item) Equal(other Item) bool {
	return EqualBareItems(it.Value, other.Value) && it.Params.Equal(other.Params)
}

// InnerList is a parenthesized list of Items with its own parameters.
type InnerList struct {
	Items  []Item
	Params Parameters
}

// NewInnerList returns an InnerList without parameters.
func NewInnerList(items ...Item) InnerList {
	return InnerList{Items: items}
}

func (InnerList) isMember() {}

func (il InnerList) Clone() InnerList {
	out := InnerList{Params: il.Params.Clone()}
	if il.Items != nil {
		out.Items = make([]Item, len(il.Items))
		for i, it := range il.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

func (il InnerList) Equal(other InnerList) bool {
	if len(il.Items) != len(other.Items) || !il.Params.Equal(other.Params) {
		return false
	}
	for i := range il.Items {
		if !il.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// EqualMembers compares two members structurally.
func EqualMembers(a, b Member) bool {
	switch x := a.(type) {
	case Item:
		y, ok := b.(Item)
		return ok && x.Equal(y)
	case InnerList:
		y, ok := b.(InnerList)
		return ok && x.Equal(y)
	case nil:
		return b == nil
	}
	return false
}

func cloneMember(m Member) Member {
	switch x := m.(type) {
	case Item:
		return x.Clone()
	case InnerList:
		return x.Clone()
	}
	return m
}

// List is an sf-list.
type List []Member

func (List) isFieldValue() {}

func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, m := range l {
		out[i] = cloneMember(m)
	}
	return out
}

func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !EqualMembers(l[i], other[i]) {
			return false
		}
	}
	return true
}

// DictMember is one Dictionary entry.
type DictMember struct {
	Key   Key
	Value Member
}

// Dictionary is an ordered map of keys to members with the same update rule
// and key rules as Parameters. The zero value is an empty Dictionary.
type Dictionary struct {
	m orderedMap[Member]
}

// NewDictionary builds a Dictionary from members in order.
func NewDictionary(members ...DictMember) Dictionary {
	var d Dictionary
	for _, dm := range members {
		d.Set(dm.Key, dm.Value)
	}
	return d
}

func (Dictionary) isFieldValue() {}

func (d *Dictionary) Set(key Key, value Member)  { d.m.set(key, value) }
func (d *Dictionary) Get(key Key) (Member, bool) { return d.m.get(key) }
func (d *Dictionary) Delete(key Key) bool        { return d.m.del(key) }
func (d *Dictionary) Len() int                   { return d.m.len() }
func (d *Dictionary) Keys() []Key                { return d.m.keys() }

func (d *Dictionary) Has(key Key) bool {
	_, ok := d.m.get(key)
	return ok
}

// Entries returns the members in order.
func (d *Dictionary) Entries() []DictMember {
	out := make([]DictMember, len(d.m.entries))
	for i, e := range d.m.entries {
		out[i] = DictMember{Key: e.key, Value: e.value}
	}
	return out
}

func (d Dictionary) Clone() Dictionary {
	return Dictionary{m: d.m.clone(cloneMember)}
}

func (d Dictionary) Equal(other Dictionary) bool {
	return d.m.equal(&other.m, EqualMembers)
}

// FieldValue is a top-level structured field value: Item, List or
// Dictionary (or *Dictionary).
type FieldValue interface {
	isFieldValue()
}
