package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
)

// --- Data tables -----------------------------------------------------------

// writeData emits every generated array plus the start/final/error
// constants, sized from the analysis bounds.
func (e *Emitter) writeData() error {
	e.openArr(e.arrayType(e.an.Limits.MaxActArrItem, "maxActArrItem"), e.arr("actions"))
	e.actionsArray()
	e.closeArr()

	if e.an.Flags.AnyConditions {
		e.condTables()
	}

	if e.an.Layout == LayoutFlat {
		e.flatTables()
	} else {
		e.indirectTables()
	}

	e.transTables()
	e.stateActionTables()
	e.constants()
	return nil
}

// actionsArray writes the packed action array: the reserved 0 slot, then
// every shared table as a length prefix followed by action ids, with a
// line break every eight items.
func (e *Emitter) actionsArray() {
	e.pr("\t0, ")
	total := 1
	wrap := func() {
		total++
		if total%8 == 0 {
			e.pr("\n\t")
		}
	}
	tables := e.pd.Tables.Tables
	for ti, table := range tables {
		e.pr("%d, ", table.Len())
		wrap()
		for i, ai := range table.Actions {
			e.pr("%d", e.an.IDs[ai])
			if !(ti == len(tables)-1 && i == len(table.Actions)-1) {
				e.pr(", ")
			}
			wrap()
		}
	}
	e.pr("\n")
}

// condTables emits the condition offset/length/key/space arrays.
func (e *Emitter) condTables() {
	var offs, lens, keys, spaces []string
	off := 0
	for _, st := range e.pd.Red.States {
		offs = append(offs, strconv.Itoa(off))
		lens = append(lens, strconv.Itoa(len(st.Conds)))
		off += len(st.Conds)
		for _, c := range st.Conds {
			keys = append(keys, e.key(c.Lo), e.key(c.Hi))
			spaces = append(spaces, strconv.Itoa(c.Space.Index))
		}
	}
	e.numArray(e.arrayType(e.an.Limits.MaxCondOffset, "maxCondOffset"), "cond_offsets", offs)
	e.numArray(e.arrayType(e.an.Limits.MaxCondLen, "maxCondLen"), "cond_lengths", lens)
	e.numArray(e.pd.KeyOps.AlphType.Spelling(), "cond_keys", keys)
	e.numArray(e.arrayType(e.an.Limits.MaxCondSpaceId, "maxCondSpaceId"), "cond_spaces", spaces)
}

// indirectTables emits the sorted key arrays with their offsets and
// per-state lengths, plus the transition-id table.
func (e *Emitter) indirectTables() {
	var keyOffs, keys, singles, ranges, idxOffs, inds []string
	keyOff, idxOff := 0, 0
	for _, st := range e.pd.Red.States {
		keyOffs = append(keyOffs, strconv.Itoa(keyOff))
		idxOffs = append(idxOffs, strconv.Itoa(idxOff))
		singles = append(singles, strconv.Itoa(len(st.Single)))
		ranges = append(ranges, strconv.Itoa(len(st.Range)))
		keyOff += len(st.Single) + 2*len(st.Range)
		idxOff += len(st.Single) + len(st.Range) + 1
		for _, el := range st.Single {
			keys = append(keys, e.key(el.Key))
			inds = append(inds, strconv.Itoa(el.Trans.ID))
		}
		for _, el := range st.Range {
			keys = append(keys, e.key(el.Lo), e.key(el.Hi))
			inds = append(inds, strconv.Itoa(el.Trans.ID))
		}
		inds = append(inds, strconv.Itoa(e.defTransID(st)))
	}
	e.numArray(e.arrayType(e.an.Limits.MaxKeyOffset, "maxKeyOffset"), "key_offsets", keyOffs)
	e.numArray(e.wideAlphType(), "trans_keys", keys)
	e.numArray(e.arrayType(e.an.Limits.MaxSingleLen, "maxSingleLen"), "single_lengths", singles)
	e.numArray(e.arrayType(e.an.Limits.MaxRangeLen, "maxRangeLen"), "range_lengths", ranges)
	e.numArray(e.arrayType(e.an.Limits.MaxIndexOffset, "maxIndexOffset"), "index_offsets", idxOffs)
	e.numArray(e.arrayType(e.an.Limits.MaxIndex, "maxIndex"), "indicies", inds)
}

// flatTables emits per-state dense transition-id rows over the state's
// key domain, with the default in the trailing slot.
func (e *Emitter) flatTables() {
	var keys, spans, idxOffs, inds []string
	off := 0
	// The analysis bounds leave out the rows of exact-key-only states;
	// the element types must hold the values written for those rows too.
	maxSpan, maxOff := e.an.Limits.MaxSpan, e.an.Limits.MaxFlatIndexOffset
	for _, st := range e.pd.Red.States {
		span := uint64(0)
		if len(st.Single) > 0 || len(st.Range) > 0 {
			span = e.pd.KeyOps.Span(st.Lo, st.Hi)
			keys = append(keys, e.key(st.Lo), e.key(st.Hi))
		} else {
			keys = append(keys, "0", "0")
		}
		if span > maxSpan {
			maxSpan = span
		}
		if uint64(off) > maxOff {
			maxOff = uint64(off)
		}
		spans = append(spans, strconv.FormatUint(span, 10))
		idxOffs = append(idxOffs, strconv.Itoa(off))
		off += int(span) + 1
		for i := uint64(0); i < span; i++ {
			k := st.Lo + rex.Key(i)
			inds = append(inds, strconv.Itoa(e.lookupTransID(st, k)))
		}
		inds = append(inds, strconv.Itoa(e.defTransID(st)))
	}
	e.numArray(e.wideAlphType(), "keys", keys)
	e.numArray(e.arrayType(maxSpan, "maxSpan"), "key_spans", spans)
	e.numArray(e.arrayType(maxOff, "maxFlatIndexOffset"), "index_offsets", idxOffs)
	e.numArray(e.arrayType(e.an.Limits.MaxIndex, "maxIndex"), "indicies", inds)
}

// transTables emits the target and action tables indexed by transition
// id. States without a default share a sentinel error entry appended
// past the interned ids.
func (e *Emitter) transTables() {
	var targs, acts []string
	anyErrTarg := false
	errTarg := func(targ int) int {
		if targ < 0 {
			targ = e.pd.Red.ErrID // stays -1 without an error state
		}
		if targ < 0 {
			anyErrTarg = true
		}
		return targ
	}
	e.pd.Red.EachTrans(func(t *fsm.Trans) {
		targs = append(targs, strconv.Itoa(errTarg(t.Targ)))
		acts = append(acts, strconv.Itoa(e.an.TableLoc(t.Table)))
	})
	if e.needSentinel() {
		targs = append(targs, strconv.Itoa(errTarg(-1)))
		acts = append(acts, "0")
	}
	targType := e.arrayType(e.an.Limits.MaxState, "maxState")
	if anyErrTarg {
		// -1 targets force a signed element type.
		if ht := e.d.SubsumesSigned(true, int64(e.an.Limits.MaxState)); ht != nil {
			targType = ht.Spelling()
		}
	}
	e.numArray(targType, "trans_targs", targs)
	if e.an.Flags.AnyRegActions {
		e.numArray(e.arrayType(e.an.Limits.MaxActionLoc, "maxActionLoc"), "trans_actions", acts)
	}
}

// stateActionTables emits the per-state to/from/EOF action tables.
func (e *Emitter) stateActionTables() {
	loc := func(pick func(*fsm.State) *fsm.ActionTable) []string {
		vals := make([]string, len(e.pd.Red.States))
		for i, st := range e.pd.Red.States {
			vals[i] = strconv.Itoa(e.an.TableLoc(pick(st)))
		}
		return vals
	}
	typ := e.arrayType(e.an.Limits.MaxActionLoc, "maxActionLoc")
	if e.an.Flags.AnyToStateActions {
		e.numArray(typ, "to_state_actions", loc(func(st *fsm.State) *fsm.ActionTable { return st.ToState }))
	}
	if e.an.Flags.AnyFromStateActions {
		e.numArray(typ, "from_state_actions", loc(func(st *fsm.State) *fsm.ActionTable { return st.FromState }))
	}
	if e.an.Flags.AnyEofActions {
		e.numArray(typ, "eof_actions", loc(func(st *fsm.State) *fsm.ActionTable { return st.Eof }))
	}
}

// constants emits the start/first-final/error state ids and the named
// entry points.
func (e *Emitter) constants() {
	red := e.pd.Red
	e.pr("%s = %d;\n", e.d.StaticVar("int", e.def("start")), red.StartID)
	e.pr("%s = %s;\n", e.d.StaticVar("int", e.def("first_final")), e.firstFinal())
	e.pr("%s = %s;\n", e.d.StaticVar("int", e.def("error")), e.errorState())
	e.pr("\n")
	for _, en := range e.pd.Graph.Entries {
		name := strings.ReplaceAll(en.Name, " ", "_")
		e.pr("%s = %d;\n", e.d.StaticVar("int", e.def("en_"+name)), en.State.Num)
	}
	if len(e.pd.Graph.Entries) > 0 {
		e.pr("\n")
	}
}

// firstFinal renders the lower bound of the final id range; with no
// final state it is one past the last id.
func (e *Emitter) firstFinal() string {
	return strconv.Itoa(e.pd.Red.FirstFinID)
}

// errorState renders the error state id, or the literal -1 when absent.
func (e *Emitter) errorState() string {
	if e.pd.Red.ErrID >= 0 {
		return strconv.Itoa(e.pd.Red.ErrID)
	}
	return "-1"
}

// defTransID returns the transition id taken when no key matches: the
// state's default, or the sentinel error entry one past the interned
// ids.
func (e *Emitter) defTransID(st *fsm.State) int {
	if st.Def == nil {
		return e.pd.Red.TransCount()
	}
	return st.Def.ID
}

// needSentinel is true when any state lacks an explicit default.
func (e *Emitter) needSentinel() bool {
	for _, st := range e.pd.Red.States {
		if st.Def == nil {
			return true
		}
	}
	return false
}

// lookupTransID resolves key k within st's singles and ranges, falling
// back to the default.
func (e *Emitter) lookupTransID(st *fsm.State, k rex.Key) int {
	for _, el := range st.Single {
		if el.Key == k {
			return el.Trans.ID
		}
	}
	for _, el := range st.Range {
		if el.Lo <= k && k <= el.Hi {
			return el.Trans.ID
		}
	}
	return e.defTransID(st)
}

// --- Array helpers ---------------------------------------------------------

func (e *Emitter) openArr(typ, name string) {
	e.pr("%s", e.d.OpenArray(typ, name))
}

func (e *Emitter) closeArr() {
	e.pr("%s\n", e.d.CloseArray())
}

// numArray writes one complete array declaration, eight values per line.
func (e *Emitter) numArray(typ, name string, vals []string) {
	e.openArr(typ, e.arr(name))
	for i, v := range vals {
		if i%8 == 0 {
			if i > 0 {
				e.pr("\n")
			}
			e.pr("\t")
		}
		e.pr("%s", v)
		if i != len(vals)-1 {
			e.pr(", ")
		}
	}
	e.pr("\n")
	e.closeArr()
}

func (e *Emitter) String() string {
	return fmt.Sprintf("emitter(%s)", e.pd.Name)
}
