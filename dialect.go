package rex

import (
	"fmt"
	"strings"
)

// --- Host-language dialects ------------------------------------------------

// Dialect is the capability record of one host language. It carries the
// host's integer type registry plus the purely syntactic tokens the code
// generator consults: array syntax, cast spelling, pointer decoration and
// the like. Dialects never influence the semantics of the generated
// recognizer, only its spelling.
//
// A dialect asked for a token it does not support (pointer syntax for a
// pointer-free host) fails the assertion at the accessor; such a request is
// a bug in the caller, not an input error.
type Dialect struct {
	Name               string
	Types              []HostType
	DefAlphType        int // index into Types
	ExplicitUnsigned   bool
	NeedsSwitchDefault bool

	ptrConst string
	pointer  string
	uintType string
	nullItem string
	ctrlFlow string

	openArray  func(typ, name string) string
	closeArray string
	staticVar  func(typ, name string) string
	arrOff     func(ptr, off string) string
	cast       func(typ string) string
	deref      func(p string) string
	lineDir    func(file string, line int) string

	hasPointers bool
	hasUnsigned bool
}

// DefaultAlphType returns the host's default alphabet type.
func (d *Dialect) DefaultAlphType() *HostType {
	return &d.Types[d.DefAlphType]
}

// HasPointers is true for hosts whose drivers move pointers over the
// input; pointer-free hosts index a data array instead.
func (d *Dialect) HasPointers() bool { return d.hasPointers }

// HasUnsigned is true for hosts with unsigned integer types.
func (d *Dialect) HasUnsigned() bool { return d.hasUnsigned }

// PtrConst returns the declaration prefix for a pointer-to-constant.
func (d *Dialect) PtrConst() string {
	if !d.hasPointers {
		panic(fmt.Sprintf("dialect %s has no pointer-to-const syntax", d.Name))
	}
	return d.ptrConst
}

// Pointer returns the pointer type decoration.
func (d *Dialect) Pointer() string {
	if !d.hasPointers {
		panic(fmt.Sprintf("dialect %s has no pointer syntax", d.Name))
	}
	return d.pointer
}

// UInt returns the spelling of the host's unsigned integer type.
func (d *Dialect) UInt() string {
	if !d.hasUnsigned {
		panic(fmt.Sprintf("dialect %s has no unsigned integer type", d.Name))
	}
	return d.uintType
}

// NullItem returns the host's null literal for pointer-like variables.
func (d *Dialect) NullItem() string { return d.nullItem }

// CtrlFlow returns the guard prefix hosts require before statements that
// make trailing code unreachable.
func (d *Dialect) CtrlFlow() string { return d.ctrlFlow }

// OpenArray returns the opening line of a constant array declaration.
func (d *Dialect) OpenArray(typ, name string) string { return d.openArray(typ, name) }

// CloseArray returns the closing line of a constant array declaration.
func (d *Dialect) CloseArray() string { return d.closeArray }

// StaticVar returns the declaration prefix of a constant scalar.
func (d *Dialect) StaticVar(typ, name string) string { return d.staticVar(typ, name) }

// ArrOff renders pointer arithmetic, either ptr + off or &ptr[off].
func (d *Dialect) ArrOff(ptr, off string) string { return d.arrOff(ptr, off) }

// Cast renders a cast to typ.
func (d *Dialect) Cast(typ string) string { return d.cast(typ) }

// Deref renders the default current-symbol expression over the input
// pointer (or index) p.
func (d *Dialect) Deref(p string) string { return d.deref(p) }

// LineDirective renders a source-location directive for diagnostics
// mapping. Backslashes in the path are escaped.
func (d *Dialect) LineDirective(file string, line int) string {
	return d.lineDir(strings.ReplaceAll(file, `\`, `\\`), line)
}

// Dialects returns the host-language registry, keyed by name.
func Dialects() map[string]*Dialect {
	return map[string]*Dialect{
		"C":    CDialect(),
		"D":    DDialect(),
		"Java": JavaDialect(),
	}
}

// CDialect is the C host language.
func CDialect() *Dialect {
	return &Dialect{
		Name: "C",
		Types: []HostType{
			{"char", "", 1, true, -128, 127},
			{"unsigned", "char", 1, false, 0, 255},
			{"short", "", 2, true, -32768, 32767},
			{"unsigned", "short", 2, false, 0, 65535},
			{"int", "", 4, true, -2147483648, 2147483647},
			{"unsigned", "int", 4, false, 0, 4294967295},
			{"long", "", 8, true, -9223372036854775808, 9223372036854775807},
			{"unsigned", "long", 8, false, 0, 18446744073709551615},
		},
		DefAlphType:        0,
		ExplicitUnsigned:   true,
		NeedsSwitchDefault: false,
		ptrConst:           "const ",
		pointer:            " *",
		uintType:           "unsigned int",
		nullItem:           "0",
		ctrlFlow:           "",
		openArray: func(typ, name string) string {
			return "static const " + typ + " " + name + "[] = {\n"
		},
		closeArray: "};\n",
		staticVar: func(typ, name string) string {
			return "static const " + typ + " " + name
		},
		arrOff: func(ptr, off string) string { return ptr + " + " + off },
		cast:   func(typ string) string { return "(" + typ + ")" },
		deref:  func(p string) string { return "(*" + p + ")" },
		lineDir: func(file string, line int) string {
			return fmt.Sprintf("#line %d \"%s\"\n", line, file)
		},
		hasPointers: true,
		hasUnsigned: true,
	}
}

// DDialect is the D host language.
func DDialect() *Dialect {
	return &Dialect{
		Name: "D",
		Types: []HostType{
			{"byte", "", 1, true, -128, 127},
			{"ubyte", "", 1, false, 0, 255},
			{"short", "", 2, true, -32768, 32767},
			{"ushort", "", 2, false, 0, 65535},
			{"int", "", 4, true, -2147483648, 2147483647},
			{"uint", "", 4, false, 0, 4294967295},
			{"long", "", 8, true, -9223372036854775808, 9223372036854775807},
			{"ulong", "", 8, false, 0, 18446744073709551615},
		},
		DefAlphType:        0,
		ExplicitUnsigned:   true,
		NeedsSwitchDefault: true,
		ptrConst:           "",
		pointer:            "* ",
		uintType:           "uint",
		nullItem:           "null",
		ctrlFlow:           "if (true) ",
		openArray: func(typ, name string) string {
			return "static const " + typ + "[] " + name + " = [\n"
		},
		closeArray: "];\n",
		staticVar: func(typ, name string) string {
			return "static const " + typ + " " + name
		},
		arrOff: func(ptr, off string) string { return "&" + ptr + "[" + off + "]" },
		cast:   func(typ string) string { return "cast(" + typ + ")" },
		deref:  func(p string) string { return "(*" + p + ")" },
		lineDir: func(file string, line int) string {
			return fmt.Sprintf("#line %d \"%s\"\n", line, file)
		},
		hasPointers: true,
		hasUnsigned: true,
	}
}

// JavaDialect is the Java host language. Java drivers index a data array
// instead of moving pointers; the pointer and unsigned tokens are
// unsupported capabilities.
func JavaDialect() *Dialect {
	return &Dialect{
		Name: "Java",
		Types: []HostType{
			{"byte", "", 1, true, -128, 127},
			{"short", "", 2, true, -32768, 32767},
			{"char", "", 2, false, 0, 65535},
			{"int", "", 4, true, -2147483648, 2147483647},
		},
		DefAlphType:        0,
		ExplicitUnsigned:   false,
		NeedsSwitchDefault: false,
		nullItem:           "-1",
		ctrlFlow:           "if (true) ",
		openArray: func(typ, name string) string {
			return "static final " + typ + "[] " + name + " = {\n"
		},
		closeArray: "};\n",
		staticVar: func(typ, name string) string {
			return "static final " + typ + " " + name
		},
		arrOff: func(ptr, off string) string { return ptr + " + " + off },
		cast:   func(typ string) string { return "(" + typ + ")" },
		deref:  func(p string) string { return "data[" + p + "]" },
		lineDir: func(file string, line int) string {
			return fmt.Sprintf("// line %d \"%s\"\n", line, file)
		},
		hasPointers: false,
		hasUnsigned: false,
	}
}
