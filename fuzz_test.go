package sfv

// Run with:
//   go test -fuzz=FuzzParseDictionary -fuzztime=60s
//   go test -fuzz=FuzzParseList -fuzztime=60s
//   go test -fuzz=FuzzParseItem -fuzztime=60s

import "testing"

var fuzzSeeds = []string{
	"",
	"a=?0, b, c; foo=bar, rating=1.5, fruits=(apple pear)",
	`1;a=tok, ("foo" "bar");baz, ()`,
	"12.445;foo=bar",
	`sig1=("@method" "@authority");created=1618884473;keyid="k"`,
	":cHJldGVuZCB0aGlzIGlzIGJpbmFyeSBjb250ZW50Lg==:",
	`"a\"b\\c"`,
	"-999999999999.999, 999999999999999",
	"(  1  2  );a , b\t,\tc",
}

// checkCanonical serializes a parsed value, reparses the output and requires
// the same value and a fixed point.
func checkCanonical(t *testing.T, v FieldValue, reparse func(string) (FieldValue, error)) {
	out, err := MarshalString(v)
	if err != nil {
		t.Fatalf("serialize parsed value: %v", err)
	}
	again, err := reparse(out)
	if err != nil {
		t.Fatalf("reparse %q: %v", out, err)
	}
	if !equalFieldValues(v, again) {
		t.Fatalf("reparse of %q differs", out)
	}
	out2, err := MarshalString(again)
	if err != nil {
		t.Fatalf("serialize reparsed value: %v", err)
	}
	if out != out2 {
		t.Fatalf("not a fixed point: %q then %q", out, out2)
	}
}

func FuzzParseDictionary(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		d, err := ParseDictionary(data)
		if err != nil {
			return
		}
		checkCanonical(t, d, func(s string) (FieldValue, error) { return ParseDictionaryString(s) })
	})
}

func FuzzParseList(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		l, err := ParseList(data)
		if err != nil {
			return
		}
		checkCanonical(t, l, func(s string) (FieldValue, error) { return ParseListString(s) })
	})
}

func FuzzParseItem(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add([]byte(s))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		it, err := ParseItem(data)
		if err != nil {
			return
		}
		checkCanonical(t, it, func(s string) (FieldValue, error) { return ParseItemString(s) })
	})
}
