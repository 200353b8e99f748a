package sfv

import (
	"encoding/base32"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Native form, as used by the HTTP WG structured field test suite:
//
//	item        [bare, params]
//	inner list  [[item...], params]
//	params      [[key, bare]...]
//	list        [member...]
//	dictionary  [[key, member]...]
//
// Integers are int64, Strings string, Booleans bool. Decimals are
// NativeDecimal, which encodes as a bare number in both JSON and YAML so
// that 1.0 stays a Decimal.
// Tokens and byte sequences are tagged objects:
//
//	{"__type": "token", "value": "foo"}
//	{"__type": "binary", "value": "<base32>"}
//
// The form is JSON and YAML compatible. JSON callers should decode with
// json.Decoder.UseNumber so integers and decimals stay distinct.

const (
	nativeTypeKey  = "__type"
	nativeValueKey = "value"
	nativeToken    = "token"
	nativeBinary   = "binary"
)

// NativeDecimal is the native form of a Decimal: its canonical text.
type NativeDecimal string

// MarshalJSON writes the decimal as a JSON number.
func (d NativeDecimal) MarshalJSON() ([]byte, error) { return []byte(d), nil }

// MarshalYAML writes the decimal as a !!float scalar.
func (d NativeDecimal) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(d)}, nil
}

// ToNative converts v to its native form.
func ToNative(v FieldValue) any {
	switch x := v.(type) {
	case Item:
		return itemToNative(x)
	case *Item:
		return itemToNative(*x)
	case List:
		return listToNative(x)
	case *List:
		return listToNative(*x)
	case Dictionary:
		return dictionaryToNative(&x)
	case *Dictionary:
		return dictionaryToNative(x)
	}
	return nil
}

func listToNative(l List) []any {
	out := make([]any, len(l))
	for i, m := range l {
		out[i] = memberToNative(m)
	}
	return out
}

func dictionaryToNative(d *Dictionary) []any {
	out := make([]any, 0, d.Len())
	for _, e := range d.m.entries {
		out = append(out, []any{string(e.key), memberToNative(e.value)})
	}
	return out
}

func memberToNative(m Member) any {
	switch x := m.(type) {
	case Item:
		return itemToNative(x)
	case InnerList:
		items := make([]any, len(x.Items))
		for i, it := range x.Items {
			items[i] = itemToNative(it)
		}
		return []any{items, paramsToNative(&x.Params)}
	}
	return nil
}

func itemToNative(it Item) []any {
	return []any{BareItemToNative(it.Value), paramsToNative(&it.Params)}
}

func paramsToNative(p *Parameters) []any {
	out := make([]any, 0, p.Len())
	for _, e := range p.m.entries {
		out = append(out, []any{string(e.key), BareItemToNative(e.value)})
	}
	return out
}

// BareItemToNative converts a single bare item.
func BareItemToNative(v BareItem) any {
	switch x := v.(type) {
	case Integer:
		return int64(x)
	case Decimal:
		return NativeDecimal(x.String())
	case String:
		return string(x)
	case Token:
		return map[string]any{nativeTypeKey: nativeToken, nativeValueKey: string(x)}
	case ByteSeq:
		return map[string]any{nativeTypeKey: nativeBinary, nativeValueKey: base32.StdEncoding.EncodeToString(x)}
	case Boolean:
		return bool(x)
	}
	return nil
}

// ItemFromNative converts the native form of an Item.
func ItemFromNative(v any) (Item, error) {
	pair, err := nativePair(v, "item")
	if err != nil {
		return Item{}, err
	}
	bare, err := BareItemFromNative(pair[0])
	if err != nil {
		return Item{}, err
	}
	params, err := paramsFromNative(pair[1])
	if err != nil {
		return Item{}, err
	}
	return Item{Value: bare, Params: params}, nil
}

// ListFromNative converts the native form of a List.
func ListFromNative(v any) (List, error) {
	members, err := cast.ToSliceE(v)
	if err != nil {
		return nil, nativeError("list", v, err.Error())
	}
	out := make(List, 0, len(members))
	for _, raw := range members {
		m, err := memberFromNative(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// DictionaryFromNative converts the native form of a Dictionary.
func DictionaryFromNative(v any) (Dictionary, error) {
	members, err := cast.ToSliceE(v)
	if err != nil {
		return Dictionary{}, nativeError("dictionary", v, err.Error())
	}
	var d Dictionary
	for _, raw := range members {
		pair, err := nativePair(raw, "dictionary member")
		if err != nil {
			return Dictionary{}, err
		}
		key, err := keyFromNative(pair[0])
		if err != nil {
			return Dictionary{}, err
		}
		m, err := memberFromNative(pair[1])
		if err != nil {
			return Dictionary{}, err
		}
		d.Set(key, m)
	}
	return d, nil
}

func memberFromNative(v any) (Member, error) {
	pair, err := nativePair(v, "member")
	if err != nil {
		return nil, err
	}
	rawItems, isInner := pair[0].([]any)
	if !isInner {
		return ItemFromNative(pair)
	}
	il := InnerList{Items: make([]Item, 0, len(rawItems))}
	for _, raw := range rawItems {
		it, err := ItemFromNative(raw)
		if err != nil {
			return nil, err
		}
		il.Items = append(il.Items, it)
	}
	il.Params, err = paramsFromNative(pair[1])
	if err != nil {
		return nil, err
	}
	return il, nil
}

func paramsFromNative(v any) (Parameters, error) {
	var params Parameters
	if v == nil {
		return params, nil
	}
	raw, err := cast.ToSliceE(v)
	if err != nil {
		return Parameters{}, nativeError("parameters", v, err.Error())
	}
	for _, r := range raw {
		pair, err := nativePair(r, "parameter")
		if err != nil {
			return Parameters{}, err
		}
		key, err := keyFromNative(pair[0])
		if err != nil {
			return Parameters{}, err
		}
		bare, err := BareItemFromNative(pair[1])
		if err != nil {
			return Parameters{}, err
		}
		params.Set(key, bare)
	}
	return params, nil
}

// BareItemFromNative converts a single native bare item, validating it.
func BareItemFromNative(v any) (BareItem, error) {
	switch x := v.(type) {
	case nil:
		return nil, nativeError("bare item", v, "missing value")
	case bool:
		return Boolean(x), nil
	case string:
		return NewString(x)
	case NativeDecimal:
		d, err := ParseDecimal(string(x))
		if err != nil {
			return nil, nativeError("decimal", v, err.Error())
		}
		return d, nil
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			i, err := cast.ToInt64E(x)
			if err != nil {
				return nil, nativeError("integer", v, err.Error())
			}
			return NewInteger(i)
		}
		if d, err := ParseDecimal(s); err == nil {
			return d, nil
		}
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return nil, nativeError("decimal", v, err.Error())
		}
		return DecimalFromFloat(f)
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return nil, nativeError("decimal", v, err.Error())
		}
		return DecimalFromFloat(f)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		if u, ok := x.(uint64); ok && u > math.MaxInt64 {
			return nil, nativeError("integer", v, "out of range")
		}
		i, err := cast.ToInt64E(x)
		if err != nil {
			return nil, nativeError("integer", v, err.Error())
		}
		return NewInteger(i)
	}

	obj, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, nativeError("bare item", v, "unsupported type")
	}
	typ, _ := obj[nativeTypeKey].(string)
	val, err := cast.ToStringE(obj[nativeValueKey])
	if err != nil {
		return nil, nativeError(typ, v, err.Error())
	}
	switch typ {
	case nativeToken:
		return NewToken(val)
	case nativeBinary:
		b, err := base32.StdEncoding.DecodeString(val)
		if err != nil {
			return nil, nativeError(nativeBinary, v, err.Error())
		}
		return ByteSeq(b), nil
	}
	return nil, nativeError("bare item", v, "unknown __type "+fmt.Sprintf("%q", typ))
}

func keyFromNative(v any) (Key, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", nativeError("key", v, err.Error())
	}
	return NewKey(s)
}

// nativePair expects a two element sequence.
func nativePair(v any, what string) ([]any, error) {
	pair, err := cast.ToSliceE(v)
	if err != nil {
		return nil, nativeError(what, v, err.Error())
	}
	if len(pair) != 2 {
		return nil, nativeError(what, v, fmt.Sprintf("expected 2 elements, got %d", len(pair)))
	}
	return pair, nil
}

func nativeError(what string, v any, msg string) error {
	return &ValueError{Type: what, Value: fmt.Sprintf("%v", v), Message: msg, Err: ErrConstruction}
}
