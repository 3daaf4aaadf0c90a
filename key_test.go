package rex

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestKeySpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex")
	defer teardown()
	//
	ops := ASCIIKeyOps(CDialect())
	if span := ops.Span('a', 'z'); span != 26 {
		t.Errorf("span('a','z') should be 26, is %d", span)
	}
	if span := ops.Span('a', 'a'); span != 1 {
		t.Errorf("span of a one-key interval should be 1, is %d", span)
	}
	if span := ops.Span(-128, 127); span != 256 {
		t.Errorf("full signed byte span should be 256, is %d", span)
	}
}

func TestKeyPrintable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex")
	defer teardown()
	//
	if !Key('a').IsPrintable() || !Key(' ').IsPrintable() {
		t.Errorf("expected ' ' and 'a' to be printable")
	}
	if Key('\t').IsPrintable() || Key(127).IsPrintable() || Key(-1).IsPrintable() {
		t.Errorf("control keys must not be printable")
	}
}

func TestKeyFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex")
	defer teardown()
	//
	c := CDialect()
	signed := &KeyOps{Signed: true, MinKey: -128, MaxKey: 127, AlphType: c.DefaultAlphType()}
	unsigned := &KeyOps{Signed: false, MinKey: 0, MaxKey: 255, AlphType: &c.Types[1]}
	if got := signed.Format(c, -5); got != "-5" {
		t.Errorf("signed key renders as %q", got)
	}
	if got := unsigned.Format(c, 200); got != "200u" {
		t.Errorf("unsigned key should carry the explicit suffix, renders as %q", got)
	}
	java := JavaDialect()
	if got := unsigned.Format(java, 200); got != "200" {
		t.Errorf("hosts without explicit unsigned render plain, got %q", got)
	}
}

func TestTypeSubsumption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex")
	defer teardown()
	//
	c := CDialect()
	cases := []struct {
		v    int64
		want string
	}{
		{0, "char"},
		{127, "char"},
		{128, "unsigned char"},
		{255, "unsigned char"},
		{256, "short"},
		{70000, "int"},
		{-1, "char"},
		{-200, "short"},
	}
	for _, tc := range cases {
		ht := c.SubsumesType(tc.v)
		if ht == nil {
			t.Errorf("no type subsumes %d", tc.v)
			continue
		}
		if ht.Spelling() != tc.want {
			t.Errorf("subsumes(%d) should pick %q, picked %q", tc.v, tc.want, ht.Spelling())
		}
	}
	if ht := c.SubsumesSigned(true, 200); ht == nil || ht.Spelling() != "short" {
		t.Errorf("signed subsumption of 200 should pick short")
	}
	java := JavaDialect()
	if ht := java.SubsumesType(1 << 40); ht != nil {
		t.Errorf("no Java type should subsume 2^40, picked %q", ht.Spelling())
	}
}

func TestDialectCapabilities(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex")
	defer teardown()
	//
	java := JavaDialect()
	mustPanic := func(what string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s should fail the capability assertion", what)
			}
		}()
		f()
	}
	mustPanic("Pointer", func() { java.Pointer() })
	mustPanic("PtrConst", func() { java.PtrConst() })
	mustPanic("UInt", func() { java.UInt() })
	if java.NullItem() != "-1" {
		t.Errorf("Java null item should be -1")
	}
	d := DDialect()
	if d.Cast("int") != "cast(int)" {
		t.Errorf("D cast spelling wrong: %q", d.Cast("int"))
	}
	if d.ArrOff("arr", "5") != "&arr[5]" {
		t.Errorf("D pointer arithmetic wrong: %q", d.ArrOff("arr", "5"))
	}
	c := CDialect()
	if c.ArrOff("arr", "5") != "arr + 5" {
		t.Errorf("C pointer arithmetic wrong: %q", c.ArrOff("arr", "5"))
	}
	if got := c.LineDirective(`dir\file.rl`, 3); got != "#line 3 \"dir\\\\file.rl\"\n" {
		t.Errorf("line directive escaping wrong: %q", got)
	}
}
