package models

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFieldValueText(t *testing.T) {
	tests := []struct {
		name string
		val  FieldValue
		want string
	}{
		{"string leaf", StringVal("hello"), "hello"},
		{"integer leaf", NumberVal(42), "42"},
		{"float leaf", NumberVal(3.5), "3.5"},
		{"bool leaf", FieldValue{Kind: FieldBool, Bool: true}, "true"},
		{"map is not a leaf", MapVal(Entry("k", StringVal("v"))), ""},
		{"list is not a leaf", ListVal(StringVal("a")), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.val.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	m := MapVal(
		Entry("title", StringVal("Welcome")),
		Entry("count", NumberVal(3)),
	)

	if v, ok := m.Lookup("title"); !ok || v.Text() != "Welcome" {
		t.Errorf(`Lookup("title") = %v, %v`, v, ok)
	}
	if _, ok := m.Lookup("missing"); ok {
		t.Error(`Lookup("missing") ok = true, want false`)
	}
	if _, ok := StringVal("leaf").Lookup("title"); ok {
		t.Error("Lookup on leaf ok = true, want false")
	}
}

func TestUnmarshalPreservesKeyOrder(t *testing.T) {
	raw := `
zeta: first
alpha: second
middle:
  inner_b: 1
  inner_a: 2
`
	var v FieldValue
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v.Kind != FieldMap || len(v.Map) != 3 {
		t.Fatalf("decoded = %+v", v)
	}

	keys := []string{v.Map[0].Key, v.Map[1].Key, v.Map[2].Key}
	want := []string{"zeta", "alpha", "middle"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	inner := v.Map[2].Value
	if inner.Kind != FieldMap || inner.Map[0].Key != "inner_b" || inner.Map[1].Key != "inner_a" {
		t.Errorf("nested keys = %+v", inner.Map)
	}
}

func TestUnmarshalScalarKinds(t *testing.T) {
	raw := `
text: plain
num: 7
frac: 2.5
flag: true
items:
  - one
  - 2
`
	var v FieldValue
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got, _ := v.Lookup("text"); got.Kind != FieldString {
		t.Errorf("text kind = %d, want string", got.Kind)
	}
	if got, _ := v.Lookup("num"); got.Kind != FieldNumber || got.Num != 7 {
		t.Errorf("num = %+v", got)
	}
	if got, _ := v.Lookup("frac"); got.Kind != FieldNumber || got.Num != 2.5 {
		t.Errorf("frac = %+v", got)
	}
	if got, _ := v.Lookup("flag"); got.Kind != FieldBool || !got.Bool {
		t.Errorf("flag = %+v", got)
	}
	items, _ := v.Lookup("items")
	if items.Kind != FieldList || len(items.List) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items.List[0].Text() != "one" || items.List[1].Text() != "2" {
		t.Errorf("list values = %q, %q", items.List[0].Text(), items.List[1].Text())
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	tree := MapVal(
		Entry("zeta", StringVal("first")),
		Entry("alpha", NumberVal(1.5)),
		Entry("nested", MapVal(
			Entry("b", StringVal("x")),
			Entry("a", StringVal("y")),
		)),
	)

	encoded, err := EncodeFieldTree(&tree)
	if err != nil {
		t.Fatalf("EncodeFieldTree() error = %v", err)
	}
	decoded, err := DecodeFieldTree(encoded)
	if err != nil {
		t.Fatalf("DecodeFieldTree() error = %v", err)
	}
	if decoded == nil {
		t.Fatal("DecodeFieldTree() = nil")
	}

	if decoded.Map[0].Key != "zeta" || decoded.Map[1].Key != "alpha" || decoded.Map[2].Key != "nested" {
		t.Errorf("top-level keys = %+v", decoded.Map)
	}
	nested, _ := decoded.Lookup("nested")
	if nested.Map[0].Key != "b" || nested.Map[1].Key != "a" {
		t.Errorf("nested keys = %+v", nested.Map)
	}

	reencoded, err := EncodeFieldTree(decoded)
	if err != nil {
		t.Fatalf("EncodeFieldTree() error = %v", err)
	}
	if reencoded != encoded {
		t.Errorf("re-encoded tree = %q, want %q", reencoded, encoded)
	}
}

func TestEncodeDecodeNil(t *testing.T) {
	encoded, err := EncodeFieldTree(nil)
	if err != nil || encoded != "" {
		t.Errorf("EncodeFieldTree(nil) = %q, %v", encoded, err)
	}
	decoded, err := DecodeFieldTree("")
	if err != nil || decoded != nil {
		t.Errorf(`DecodeFieldTree("") = %v, %v`, decoded, err)
	}
}
