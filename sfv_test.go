package sfv

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fixture is one case in the structured field test suite format.
type fixture struct {
	Name       string   `yaml:"name"`
	Raw        []string `yaml:"raw"`
	HeaderType string   `yaml:"header_type"`
	Expected   any      `yaml:"expected"`
	MustFail   bool     `yaml:"must_fail"`
	CanFail    bool     `yaml:"can_fail"`
	Range      bool     `yaml:"range"`
	Canonical  []string `yaml:"canonical"`
}

// loadFixtures reads testdata/<name>.yaml.
func loadFixtures(t *testing.T, name string) []fixture {
	t.Helper()
	path := filepath.Join("testdata", name+".yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)

	var cases []fixture
	require.NoError(t, yaml.Unmarshal(data, &cases), "decoding %s", path)
	require.NotEmpty(t, cases)
	return cases
}

func parseFixture(fx fixture) (FieldValue, error) {
	switch fx.HeaderType {
	case "item":
		return ParseItemString(strings.Join(fx.Raw, ", "))
	case "dictionary":
		return ParseDictionaryLines(fx.Raw...)
	default:
		return ParseListLines(fx.Raw...)
	}
}

func expectedFixture(t *testing.T, fx fixture) FieldValue {
	t.Helper()
	var (
		v   FieldValue
		err error
	)
	switch fx.HeaderType {
	case "item":
		v, err = ItemFromNative(fx.Expected)
	case "dictionary":
		v, err = DictionaryFromNative(fx.Expected)
	default:
		v, err = ListFromNative(fx.Expected)
	}
	require.NoError(t, err, "converting expected value")
	return v
}

func equalFieldValues(a, b FieldValue) bool {
	switch x := a.(type) {
	case Item:
		y, ok := b.(Item)
		return ok && x.Equal(y)
	case List:
		y, ok := b.(List)
		return ok && x.Equal(y)
	case Dictionary:
		y, ok := b.(Dictionary)
		return ok && x.Equal(y)
	}
	return false
}

func runFixtures(t *testing.T, name string) {
	for _, fx := range loadFixtures(t, name) {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			got, err := parseFixture(fx)
			if fx.MustFail {
				require.Error(t, err, "expected %q to fail", fx.Raw)
				if fx.Range {
					assert.ErrorIs(t, err, ErrRange)
				} else {
					assert.ErrorIs(t, err, ErrSyntax)
				}
				var pe *ParseError
				assert.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
				return
			}
			if fx.CanFail && err != nil {
				t.Skipf("allowed failure: %v", err)
			}
			require.NoError(t, err)

			want := expectedFixture(t, fx)
			if !equalFieldValues(got, want) {
				t.Errorf("mismatch\ngot:  %v\nwant: %v", toJSON(ToNative(got)), toJSON(ToNative(want)))
			}

			canonical := fx.Canonical
			if canonical == nil {
				canonical = fx.Raw
			}
			if len(canonical) > 1 {
				canonical = []string{strings.Join(canonical, ", ")}
			}
			out, err := MarshalString(got)
			require.NoError(t, err)
			assert.Equal(t, canonical[0], out)

			// Canonical output parses back to the same value.
			again, err := parseFixture(fixture{Raw: []string{out}, HeaderType: fx.HeaderType})
			require.NoError(t, err)
			assert.True(t, equalFieldValues(got, again), "reparse of %q differs", out)
		})
	}
}

func TestItemFixtures(t *testing.T)       { runFixtures(t, "item") }
func TestParameterFixtures(t *testing.T)  { runFixtures(t, "params") }
func TestListFixtures(t *testing.T)       { runFixtures(t, "list") }
func TestDictionaryFixtures(t *testing.T) { runFixtures(t, "dictionary") }

func TestRangeBoundary(t *testing.T) {
	it, err := ParseItemString("999999999999999")
	require.NoError(t, err)
	assert.Equal(t, Integer(999999999999999), it.Value)

	_, err = ParseItemString("1000000000000000")
	assert.ErrorIs(t, err, ErrRange)

	_, err = ParseItemString("1.1234")
	assert.ErrorIs(t, err, ErrRange)

	it, err = ParseItemString("1.123")
	require.NoError(t, err)
	out, err := MarshalString(it)
	require.NoError(t, err)
	assert.Equal(t, "1.123", out)
}

func TestEscapingRoundTrip(t *testing.T) {
	it, err := ParseItemString(`"a\"b\\c"`)
	require.NoError(t, err)
	assert.Equal(t, String(`a"b\c`), it.Value)

	out, err := MarshalString(it)
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c"`, out)
}

func TestDictionaryBareKeyDefaulting(t *testing.T) {
	d, err := ParseDictionaryString("a, b;x=1, c=?0")
	require.NoError(t, err)
	assert.Equal(t, []Key{"a", "b", "c"}, d.Keys())

	a, _ := d.Get("a")
	assert.True(t, EqualMembers(NewItem(Boolean(true)), a))

	b, _ := d.Get("b")
	assert.True(t, EqualMembers(NewItemWithParams(Boolean(true), NewParameters(Param{Key: "x", Value: Integer(1)})), b))

	c, _ := d.Get("c")
	assert.True(t, EqualMembers(NewItem(Boolean(false)), c))
}

func TestEmptyContainers(t *testing.T) {
	l, err := ParseListString("")
	require.NoError(t, err)
	assert.Empty(t, l)
	out, err := MarshalString(l)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	d, err := ParseDictionaryString("")
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	out, err = MarshalString(d)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestCanonicalizationConvergence(t *testing.T) {
	variants := []string{
		"a=1, b=(x y);p=?0, c",
		"a=01,b=(x y);p=?0,c",
		"  a=001 ,\tb=(  x y );p=?0 , c  ",
		"a=1,  b=(x   y);p=?0,\t\tc=?1",
	}
	var canonical string
	for i, in := range variants {
		d, err := ParseDictionaryString(in)
		require.NoError(t, err, "input %q", in)
		out, err := MarshalString(d)
		require.NoError(t, err)
		if i == 0 {
			canonical = out
			continue
		}
		assert.Equal(t, canonical, out, "input %q", in)
	}
	assert.Equal(t, "a=1, b=(x y);p=?0, c", canonical)
}

func TestRoundTripConstructed(t *testing.T) {
	dec, err := DecimalFromFloat(13.4567)
	require.NoError(t, err)

	inner := InnerList{
		Items: []Item{
			NewItemWithParams(MustInteger(99), NewParameters(Param{Key: "key", Value: Boolean(false)})),
			NewItem(MustString("foo")),
		},
		Params: NewParameters(Param{Key: "bar", Value: Boolean(true)}),
	}
	list := List{
		NewItem(MustToken("tok")),
		inner,
		NewItemWithParams(dec, NewParameters(
			Param{Key: "z", Value: NewByteSeq([]byte{0, 1, 2})},
			Param{Key: "a", Value: MustString(`q"uote`)},
		)),
	}

	out, err := MarshalString(list)
	require.NoError(t, err)
	assert.Equal(t, `tok, (99;key=?0 "foo");bar, 13.457;z=:AAEC:;a="q\"uote"`, out)

	back, err := ParseListString(out)
	require.NoError(t, err)
	assert.True(t, list.Equal(back), "got %s", toJSON(ToNative(back)))
}

func TestDictionarySerializeExample(t *testing.T) {
	d := NewDictionary(
		DictMember{Key: "key1", Value: NewItem(MustString("apple"))},
		DictMember{Key: "key2", Value: NewItem(Boolean(true))},
		DictMember{Key: "key3", Value: NewItem(Boolean(false))},
	)
	out, err := MarshalString(&d)
	require.NoError(t, err)
	assert.Equal(t, `key1="apple", key2, key3=?0`, out)
}

func TestParseErrorLocation(t *testing.T) {
	_, err := ParseListString(`1, "abc`)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "string", pe.Production)
	assert.Equal(t, 7, pe.Offset)
	assert.Contains(t, pe.Error(), "offset 7")
}

func TestParsedValuesDoNotAliasInput(t *testing.T) {
	input := []byte(`tok;k=abc, :AAEC:`)
	l, err := ParseList(input)
	require.NoError(t, err)

	for i := range input {
		input[i] = 'x'
	}
	out, err := MarshalString(l)
	require.NoError(t, err)
	assert.Equal(t, `tok;k=abc, :AAEC:`, out)
}

func TestMergeAssociativity(t *testing.T) {
	a, err := ParseDictionaryString("x=1, y=2")
	require.NoError(t, err)
	b, err := ParseDictionaryString("y=3, z=4")
	require.NoError(t, err)
	c, err := ParseDictionaryString("z=5, w")
	require.NoError(t, err)

	abC := MergeDictionary(MergeDictionary(a, b), c)
	aBC := MergeDictionary(a, MergeDictionary(b, c))
	assert.True(t, abC.Equal(aBC), "merge not associative\n(A+B)+C = %v\nA+(B+C) = %v",
		toJSON(ToNative(abC)), toJSON(ToNative(aBC)))

	out, err := MarshalString(abC)
	require.NoError(t, err)
	assert.Equal(t, "x=1, y=3, z=5, w", out)

	// Inputs are untouched.
	out, err = MarshalString(a)
	require.NoError(t, err)
	assert.Equal(t, "x=1, y=2", out)
}

func TestMergeParameters(t *testing.T) {
	a := NewParameters(Param{Key: "a", Value: Integer(1)}, Param{Key: "b", Value: Integer(2)})
	b := NewParameters(Param{Key: "b", Value: Token("t")}, Param{Key: "c", Value: Boolean(true)})
	m := MergeParameters(a, b)

	out, err := MarshalString(NewItemWithParams(Integer(0), m))
	require.NoError(t, err)
	assert.Equal(t, "0;a=1;b=t;c", out)
}

// helper
func toJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
