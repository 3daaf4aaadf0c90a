package run

import (
	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
)

// --- Reference interpreter -------------------------------------------------

// noTrans marks empty matrix entries; real targets are >= -1.
const noTrans = -2

// Runner executes a reduced machine over byte input, transitions only.
type Runner struct {
	red     *fsm.Machine
	ops     *rex.KeyOps
	m       *Matrix
	defTarg []int32
	lo, hi  rex.Key
}

// NewRunner pre-compiles pd's reduced machine into a transition matrix.
// Machines with condition-specialized transitions are not supported.
func NewRunner(pd *fsm.ParseData) *Runner {
	red := pd.Red
	r := &Runner{
		red:     red,
		ops:     pd.KeyOps,
		defTarg: make([]int32, len(red.States)),
	}
	r.lo, r.hi = keyDomain(red)
	span := 0
	if r.hi >= r.lo {
		span = int(pd.KeyOps.Span(r.lo, r.hi))
	}
	r.m = NewMatrix(len(red.States), span, noTrans)
	for _, st := range red.States {
		r.defTarg[st.ID] = targOf(red, st.Def)
		// singles last: the driver's locate searches them first
		for _, el := range st.Range {
			for k := el.Lo; k <= el.Hi; k++ {
				r.m.Set(st.ID, int(k-r.lo), targOf(red, el.Trans))
			}
		}
		for _, el := range st.Single {
			r.m.Set(st.ID, int(el.Key-r.lo), targOf(red, el.Trans))
		}
	}
	tracer().Debugf("runner for %q: %d matrix entries over span %d",
		pd.Name, r.m.ValueCount(), span)
	return r
}

// Accepts runs the machine over input and reports whether it halts in a
// final state.
func (r *Runner) Accepts(input []byte) bool {
	cs := r.red.StartID
	for _, b := range input {
		k := r.key(b)
		targ := int32(noTrans)
		if k >= r.lo && k <= r.hi {
			targ = r.m.Value(cs, int(k-r.lo))
		}
		if targ == noTrans {
			targ = r.defTarg[cs]
		}
		if targ < 0 || (r.red.ErrID >= 0 && int(targ) == r.red.ErrID) {
			return false
		}
		cs = int(targ)
	}
	return cs >= r.red.FirstFinID
}

func (r *Runner) key(b byte) rex.Key {
	if r.ops.Signed {
		return rex.Key(int8(b))
	}
	return rex.Key(b)
}

func targOf(red *fsm.Machine, t *fsm.Trans) int32 {
	if t == nil {
		return int32(noTrans)
	}
	if t.Targ < 0 {
		if red.ErrID >= 0 {
			return int32(red.ErrID)
		}
		return -1
	}
	return int32(t.Targ)
}

func keyDomain(red *fsm.Machine) (lo, hi rex.Key) {
	lo, hi = 0, -1
	first := true
	for _, st := range red.States {
		if len(st.Single) == 0 && len(st.Range) == 0 {
			continue
		}
		if first {
			lo, hi = st.Lo, st.Hi
			first = false
			continue
		}
		if st.Lo < lo {
			lo = st.Lo
		}
		if st.Hi > hi {
			hi = st.Hi
		}
	}
	return lo, hi
}
