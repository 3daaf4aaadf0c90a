package rex

import "fmt"

// --- Alphabet keys ---------------------------------------------------------

// Key is a single input symbol of the recognizer's alphabet. The value is
// kept in an int64 regardless of the configured alphabet width, wide enough
// for every host alphabet type, signed or unsigned.
type Key int64

// IsPrintable is true for keys within the printable ASCII subset.
func (k Key) IsPrintable() bool {
	return k >= 32 && k < 127
}

func (k Key) String() string {
	return fmt.Sprintf("%d", int64(k))
}

// KeyOps bundles the alphabet semantics for one machine: signedness, the
// representable key range, and the configured alphabet type. All numeric
// bounds of the code generator are derived through Span, never through raw
// subtraction.
type KeyOps struct {
	Signed   bool
	MinKey   Key
	MaxKey   Key
	AlphType *HostType // configured alphabet type of the host language
}

// Span returns the size of the closed key interval [low, high].
func (ops *KeyOps) Span(low, high Key) uint64 {
	return uint64(int64(high)-int64(low)) + 1
}

// Format renders a key value the way the generated code spells it: signed
// alphabets print the plain value, unsigned ones append the explicit
// unsigned suffix when the dialect asks for it.
func (ops *KeyOps) Format(d *Dialect, k Key) string {
	if ops.Signed || !d.ExplicitUnsigned {
		return fmt.Sprintf("%d", int64(k))
	}
	return fmt.Sprintf("%du", uint64(int64(k)))
}

// ASCIIKeyOps are key operations for the common case of a signed 8-bit
// character alphabet in dialect d.
func ASCIIKeyOps(d *Dialect) *KeyOps {
	return &KeyOps{
		Signed:   true,
		MinKey:   -128,
		MaxKey:   127,
		AlphType: d.DefaultAlphType(),
	}
}
