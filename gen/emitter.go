package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
	"github.com/pingcap/errors"
)

// --- Emitter ---------------------------------------------------------------

// Emitter writes the driver for one analyzed machine. It owns its output
// sink exclusively during emission; callers wanting to pipeline machines
// construct independent emitters.
type Emitter struct {
	pd   *fsm.ParseData
	d    *rex.Dialect
	an   *Analysis
	sink *Sink
	out  io.Writer
}

// NewEmitter creates an emitter for the analyzed bundle.
func NewEmitter(pd *fsm.ParseData, d *rex.Dialect, an *Analysis, sink *Sink) *Emitter {
	if sink == nil {
		sink = NewSink(nil)
	}
	return &Emitter{pd: pd, d: d, an: an, sink: sink}
}

// WriteDriver emits the complete driver to w: data tables, the init
// routine and the execute routine, in that order. When the caller did not
// ask for a complete driver, only the tables are written.
func (e *Emitter) WriteDriver(w io.Writer) error {
	e.out = w
	if err := e.writeData(); err != nil {
		return err
	}
	if !e.pd.WantComplete {
		return nil
	}
	e.writeInit()
	e.writeExec()
	if n := e.sink.ErrorCount(); n > 0 {
		return errors.Annotatef(e.sink.Err(), "%d error(s) emitting %s", n, e.pd.Name)
	}
	return nil
}

func (e *Emitter) pr(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

// --- Generated names and variable expressions ------------------------------

// dataPrefix returns "<name>_" when identifier prefixing is on.
func (e *Emitter) dataPrefix() string {
	if e.pd.Prefix {
		return e.pd.Name + "_"
	}
	return ""
}

// arr names a generated data array: _<prefix><name>.
func (e *Emitter) arr(name string) string {
	return "_" + e.dataPrefix() + name
}

// def names a generated constant: <prefix><name>.
func (e *Emitter) def(name string) string {
	return e.dataPrefix() + name
}

// access is the user access prefix for the driver's variables.
func (e *Emitter) access() string {
	if e.pd.Access == nil {
		return ""
	}
	var b strings.Builder
	e.inlineList(&b, e.pd.Access, 0, false)
	return b.String()
}

func (e *Emitter) vP() string        { return e.access() + "p" }
func (e *Emitter) vPE() string       { return e.access() + "pe" }
func (e *Emitter) vEOF() string      { return e.access() + "eof" }
func (e *Emitter) vStack() string    { return e.access() + "stack" }
func (e *Emitter) vTop() string      { return e.access() + "top" }
func (e *Emitter) vAct() string      { return e.access() + "act" }
func (e *Emitter) vTokstart() string { return e.access() + "tokstart" }
func (e *Emitter) vTokend() string   { return e.access() + "tokend" }

// vCS is the current-state expression: the user-supplied tree, or the
// access-prefixed cs variable.
func (e *Emitter) vCS() string {
	if e.pd.CurState != nil {
		var b strings.Builder
		b.WriteString("(")
		e.inlineList(&b, e.pd.CurState, 0, false)
		b.WriteString(")")
		return b.String()
	}
	return e.access() + "cs"
}

// getKey is the current-symbol expression: the user-supplied tree, or the
// dialect's default dereference of the input pointer.
func (e *Emitter) getKey() string {
	if e.pd.GetKey != nil {
		var b strings.Builder
		b.WriteString("(")
		e.inlineList(&b, e.pd.GetKey, 0, false)
		b.WriteString(")")
		return b.String()
	}
	return e.d.Deref(e.vP())
}

// wideKey is the symbol expression inside the locate code: the widened
// key once any state carries conditions.
func (e *Emitter) wideKey() string {
	if e.an.Flags.AnyConditions {
		return "_widec"
	}
	return e.getKey()
}

// key renders a key literal per alphabet signedness.
func (e *Emitter) key(k rex.Key) string {
	return e.pd.KeyOps.Format(e.d, k)
}

// arrayType returns the narrowest host type spelling for values up to
// maxVal, reporting a semantic-limit diagnostic when none exists.
func (e *Emitter) arrayType(maxVal uint64, what string) string {
	ht := e.d.SubsumesType(int64(maxVal))
	if ht == nil {
		e.sink.Errorf("%s: no %s integer type subsumes %s = %d",
			e.pd.Name, e.d.Name, what, maxVal)
		return "?"
	}
	return ht.Spelling()
}

// wideAlphType is the alphabet type, widened when conditions push keys
// past the configured alphabet.
func (e *Emitter) wideAlphType() string {
	ops := e.pd.KeyOps
	if e.pd.MaxKey <= ops.MaxKey {
		return ops.AlphType.Spelling()
	}
	ht := e.d.SubsumesSigned(ops.Signed, int64(e.pd.MaxKey))
	if ht == nil {
		e.sink.Errorf("%s: no %s integer type subsumes widened key %d",
			e.pd.Name, e.d.Name, int64(e.pd.MaxKey))
		return "?"
	}
	return ht.Spelling()
}
