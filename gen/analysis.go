package gen

import (
	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
	"github.com/pingcap/errors"
)

// --- Analysis result -------------------------------------------------------

// ActionRefs counts the references to one action (or one shared action
// table), split by the kind of slot referencing it.
type ActionRefs struct {
	Trans     int // single, range and default transitions
	ToState   int
	FromState int
	Eof       int
}

// Total returns the overall reference count.
func (r ActionRefs) Total() int {
	return r.Trans + r.ToState + r.FromState + r.Eof
}

// TableFlags are per-action-table properties of the inline code reachable
// from the table.
type TableFlags struct {
	AnyNextStmt    bool
	AnyCurStateRef bool
	AnyBreakStmt   bool
}

// MachineFlags are the machine-wide properties that switch driver
// features on and off.
type MachineFlags struct {
	AnyToStateActions   bool
	AnyFromStateActions bool
	AnyRegActions       bool
	AnyEofActions       bool

	AnyActionGotos bool
	AnyActionCalls bool
	AnyActionRets  bool

	AnyRegActionRets        bool
	AnyRegNextStmt          bool
	AnyRegActionByValControl bool
	AnyRegCurStateRef       bool
	AnyRegBreak             bool
	AnyLmSwitchError        bool

	AnyConditions bool
}

// Limits are the observed maxima that size the generated arrays. Every
// value is an upper bound over the per-state (or per-table) quantity it
// names, and is reached by at least one of them. MaxSpan and
// MaxFlatIndexOffset take key spans from range-bearing states only.
type Limits struct {
	MaxSingleLen uint64 // longest single-transition list
	MaxRangeLen  uint64 // longest range-transition list
	MaxKeyOffset uint64 // accumulated key-table offset
	MaxIndexOffset uint64 // accumulated index-table offset
	MaxSpan      uint64 // widest key domain of a state with ranges
	MaxFlatIndexOffset uint64 // accumulated range-state spans plus default slots

	MaxCondLen         uint64 // longest state condition list
	MaxCondOffset      uint64 // accumulated condition-key offset
	MaxCondSpan        uint64 // widest condition key domain
	MaxCondIndexOffset uint64 // accumulated flat condition offset
	MaxCondSpaceId     uint64

	MaxActListId uint64
	MaxActionLoc uint64 // highest packed-array location
	MaxActArrItem uint64 // largest value stored in the packed array

	MaxState uint64 // last assigned state id
	MaxIndex uint64 // number of interned transitions (0 slot reserved)
	MaxCond  uint64 // number of condition spaces (0 slot reserved)
}

// Layout selects the transition-table encoding.
type Layout int

const (
	// LayoutIndirect stores sorted single/range key arrays per state,
	// binary-searched before indirecting through a transition-id table.
	LayoutIndirect Layout = iota
	// LayoutFlat stores a dense per-state array of transition ids over
	// [lowKey, highKey].
	LayoutFlat
)

func (l Layout) String() string {
	if l == LayoutFlat {
		return "flat"
	}
	return "indirect"
}

// Analysis is the value-typed result of the analysis pass. All columns
// are indexed by the arena positions of the IR they describe; the IR is
// not annotated in place.
type Analysis struct {
	Refs      []ActionRefs // by action index
	IDs       []int        // by action index, -1 when unreferenced
	NumIDs    int          // count of assigned ids
	TableRefs []ActionRefs // by table index
	TableFlag []TableFlags // by table index
	ListID    []int        // by table index
	Location  []int        // by table index: offset into the packed array
	StateCurRef []bool     // by state id: any transition action reads cs

	Flags  MachineFlags
	Limits Limits
	Layout Layout
}

// ActionID returns the assigned id of action index ai, or -1.
func (a *Analysis) ActionID(ai int) int {
	return a.IDs[ai]
}

// TableLoc returns the packed-array location emitted for a table
// reference: location+1, with 0 encoding "no table".
func (a *Analysis) TableLoc(t *fsm.ActionTable) int {
	if t == nil {
		return 0
	}
	return a.Location[t.Index] + 1
}

// AnyActions is true if the machine has at least one shared action table.
func (a *Analysis) AnyActions() bool {
	return len(a.TableRefs) > 0
}

// --- The analysis pass -----------------------------------------------------

// Analyze runs the single-sweep analysis over pd and decides the table
// layout for dialect d. The sweep is pure: it reads the IR and writes
// only its own result columns.
func Analyze(pd *fsm.ParseData, d *rex.Dialect) (*Analysis, error) {
	a := &Analysis{
		Refs:        make([]ActionRefs, len(pd.Actions)),
		IDs:         make([]int, len(pd.Actions)),
		TableRefs:   make([]ActionRefs, len(pd.Tables.Tables)),
		TableFlag:   make([]TableFlags, len(pd.Tables.Tables)),
		ListID:      make([]int, len(pd.Tables.Tables)),
		Location:    make([]int, len(pd.Tables.Tables)),
		StateCurRef: make([]bool, len(pd.Red.States)),
	}
	a.countRefs(pd)
	a.findFlags(pd)
	a.assignIDs(pd)
	a.placeTables(pd)
	a.setLimits(pd)
	if err := a.calcLayout(pd, d); err != nil {
		return nil, err
	}
	tracer().Infof("analyzed %q: %d referenced actions, layout %s",
		pd.Name, a.NumIDs, a.Layout)
	return a, nil
}

// countRefs reference-counts every action-table slot and, transitively,
// every action a table references.
func (a *Analysis) countRefs(pd *fsm.ParseData) {
	countTable := func(t *fsm.ActionTable, slot func(*ActionRefs) *int) {
		if t == nil {
			return
		}
		*slot(&a.TableRefs[t.Index])++
		for _, ai := range t.Actions {
			*slot(&a.Refs[ai])++
		}
	}
	trans := func(r *ActionRefs) *int { return &r.Trans }
	toSt := func(r *ActionRefs) *int { return &r.ToState }
	fromSt := func(r *ActionRefs) *int { return &r.FromState }
	eof := func(r *ActionRefs) *int { return &r.Eof }

	for _, st := range pd.Red.States {
		for _, el := range st.Single {
			countTable(el.Trans.Table, trans)
		}
		for _, el := range st.Range {
			countTable(el.Trans.Table, trans)
		}
		if st.Def != nil {
			countTable(st.Def.Table, trans)
		}
		countTable(st.ToState, toSt)
		countTable(st.FromState, fromSt)
		countTable(st.Eof, eof)
	}
}

// findFlags walks every action body and every reduced action table for
// the machine-wide and per-table properties.
func (a *Analysis) findFlags(pd *fsm.ParseData) {
	for ai, act := range pd.Actions {
		refs := a.Refs[ai]
		if refs.ToState > 0 {
			a.Flags.AnyToStateActions = true
		}
		if refs.FromState > 0 {
			a.Flags.AnyFromStateActions = true
		}
		if refs.Eof > 0 {
			a.Flags.AnyEofActions = true
		}
		if refs.Trans > 0 {
			a.Flags.AnyRegActions = true
		}
		regular := refs.Trans > 0 || refs.ToState > 0 || refs.FromState > 0
		fsm.Walk(act.Body, func(item *fsm.Item) {
			if refs.Total() > 0 {
				switch item.Type {
				case fsm.Goto, fsm.GotoExpr:
					a.Flags.AnyActionGotos = true
				case fsm.Call, fsm.CallExpr:
					a.Flags.AnyActionCalls = true
				case fsm.Ret:
					a.Flags.AnyActionRets = true
				}
			}
			if regular {
				switch item.Type {
				case fsm.Ret:
					a.Flags.AnyRegActionRets = true
				case fsm.Next, fsm.NextExpr:
					a.Flags.AnyRegNextStmt = true
				case fsm.CallExpr, fsm.GotoExpr:
					a.Flags.AnyRegActionByValControl = true
				case fsm.Curs:
					a.Flags.AnyRegCurStateRef = true
				case fsm.Break:
					a.Flags.AnyRegBreak = true
				case fsm.LmSwitch:
					if item.HandlesError {
						a.Flags.AnyLmSwitchError = true
					}
				}
			}
		})
	}

	for ti, table := range pd.Tables.Tables {
		for _, ai := range table.Actions {
			fsm.Walk(pd.Actions[ai].Body, func(item *fsm.Item) {
				switch item.Type {
				case fsm.Next, fsm.NextExpr:
					a.TableFlag[ti].AnyNextStmt = true
				case fsm.Curs:
					a.TableFlag[ti].AnyCurStateRef = true
				case fsm.Break:
					a.TableFlag[ti].AnyBreakStmt = true
				}
			})
		}
	}

	curRef := func(t *fsm.Trans) bool {
		return t != nil && t.Table != nil && a.TableFlag[t.Table.Index].AnyCurStateRef
	}
	for _, st := range pd.Red.States {
		for _, el := range st.Single {
			if curRef(el.Trans) {
				a.StateCurRef[st.ID] = true
			}
		}
		for _, el := range st.Range {
			if curRef(el.Trans) {
				a.StateCurRef[st.ID] = true
			}
		}
		if curRef(st.Def) {
			a.StateCurRef[st.ID] = true
		}
		if len(st.Conds) > 0 {
			a.Flags.AnyConditions = true
		}
	}
}

// assignIDs hands out dense action ids to referenced actions, in arena
// order. Unreferenced actions get none.
func (a *Analysis) assignIDs(pd *fsm.ParseData) {
	next := 0
	for ai := range pd.Actions {
		if a.Refs[ai].Total() > 0 {
			a.IDs[ai] = next
			next++
		} else {
			a.IDs[ai] = -1
		}
	}
	a.NumIDs = next
}

// placeTables assigns list ids and packed-array locations to the shared
// action tables, in arena order. Location 0 follows the reserved
// "no action" slot; references emit location+1.
func (a *Analysis) placeTables(pd *fsm.ParseData) {
	loc := 0
	for ti, table := range pd.Tables.Tables {
		a.ListID[ti] = ti
		a.Location[ti] = loc
		loc += 1 + table.Len()
	}
}

// setLimits computes the observed maxima driving table sizing. The
// key-offset accumulators skip the last state, whose offset is never
// consumed.
func (a *Analysis) setLimits(pd *fsm.ParseData) {
	l := &a.Limits
	ops := pd.KeyOps
	red := pd.Red

	// Both reserve the 0 slot, so the count is the maximum.
	l.MaxIndex = uint64(red.TransCount())
	l.MaxCond = uint64(len(pd.CondSpaces))
	if n := len(red.States); n > 0 {
		l.MaxState = uint64(n - 1)
	}
	for _, cs := range pd.CondSpaces {
		if uint64(cs.Index) > l.MaxCondSpaceId {
			l.MaxCondSpaceId = uint64(cs.Index)
		}
	}

	for i, st := range red.States {
		last := i == len(red.States)-1
		if n := uint64(len(st.Conds)); n > l.MaxCondLen {
			l.MaxCondLen = n
		}
		if n := uint64(len(st.Single)); n > l.MaxSingleLen {
			l.MaxSingleLen = n
		}
		if n := uint64(len(st.Range)); n > l.MaxRangeLen {
			l.MaxRangeLen = n
		}
		if !last {
			l.MaxCondOffset += uint64(len(st.Conds))
			l.MaxKeyOffset += uint64(len(st.Single)) + uint64(len(st.Range))*2
			l.MaxIndexOffset += uint64(len(st.Single)) + uint64(len(st.Range)) + 1
		}
		if len(st.Conds) > 0 {
			if span := ops.Span(st.CondLo, st.CondHi); span > l.MaxCondSpan {
				l.MaxCondSpan = span
			}
			if !last {
				l.MaxCondIndexOffset += ops.Span(st.CondLo, st.CondHi)
			}
		}
		// Span bounds count only states carrying range transitions;
		// exact-key-only states contribute nothing here, although the
		// flat tables still give them a dense row.
		if len(st.Range) > 0 {
			if span := ops.Span(st.Lo, st.Hi); span > l.MaxSpan {
				l.MaxSpan = span
			}
			if !last {
				l.MaxFlatIndexOffset += ops.Span(st.Lo, st.Hi)
			}
		}
		if !last {
			l.MaxFlatIndexOffset += 1
		}
	}

	for ti, table := range pd.Tables.Tables {
		if id := uint64(a.ListID[ti] + 1); id > l.MaxActListId {
			l.MaxActListId = id
		}
		if loc := uint64(a.Location[ti] + 1); loc > l.MaxActionLoc {
			l.MaxActionLoc = loc
		}
		if n := uint64(table.Len()); n > l.MaxActArrItem {
			l.MaxActArrItem = n
		}
		for _, ai := range table.Actions {
			if id := a.IDs[ai]; id >= 0 && uint64(id) > l.MaxActArrItem {
				l.MaxActArrItem = uint64(id)
			}
		}
	}
}

// calcLayout decides between the flat and the indirect encoding by
// comparing the projected table footprints under dialect d. Arrays common
// to both encodings (targets, actions) do not participate.
func (a *Analysis) calcLayout(pd *fsm.ParseData, d *rex.Dialect) error {
	ops := pd.KeyOps
	red := pd.Red
	numStates := uint64(len(red.States))

	keyWidth, err := a.arrayWidth(d, int64(pd.MaxKey))
	if err != nil {
		return err
	}
	idxWidth, err := a.arrayWidth(d, int64(a.Limits.MaxIndex))
	if err != nil {
		return err
	}
	flatOffWidth, err := a.arrayWidth(d, int64(a.Limits.MaxFlatIndexOffset))
	if err != nil {
		return err
	}
	keyOffWidth, err := a.arrayWidth(d, int64(a.Limits.MaxKeyOffset))
	if err != nil {
		return err
	}
	idxOffWidth, err := a.arrayWidth(d, int64(a.Limits.MaxIndexOffset))
	if err != nil {
		return err
	}
	singleWidth, err := a.arrayWidth(d, int64(a.Limits.MaxSingleLen))
	if err != nil {
		return err
	}
	rangeWidth, err := a.arrayWidth(d, int64(a.Limits.MaxRangeLen))
	if err != nil {
		return err
	}

	var flatSlots, keySlots, idxSlots uint64
	for _, st := range red.States {
		if len(st.Single) > 0 || len(st.Range) > 0 {
			flatSlots += ops.Span(st.Lo, st.Hi)
		}
		flatSlots += 1 // per-state default slot
		keySlots += uint64(len(st.Single)) + uint64(len(st.Range))*2
		idxSlots += uint64(len(st.Single)) + uint64(len(st.Range)) + 1
	}

	flatSize := numStates*2*keyWidth + numStates*flatOffWidth + flatSlots*idxWidth
	indirectSize := keySlots*keyWidth + idxSlots*idxWidth +
		numStates*(keyOffWidth+idxOffWidth+singleWidth+rangeWidth)

	if flatSize <= indirectSize {
		a.Layout = LayoutFlat
	} else {
		a.Layout = LayoutIndirect
	}
	tracer().Debugf("layout sizes: flat=%d indirect=%d -> %s", flatSize, indirectSize, a.Layout)
	return nil
}

// arrayWidth returns the byte width of the narrowest host type able to
// hold maxVal.
func (a *Analysis) arrayWidth(d *rex.Dialect, maxVal int64) (uint64, error) {
	ht := d.SubsumesType(maxVal)
	if ht == nil {
		return 0, errors.Errorf("no %s integer type subsumes %d", d.Name, maxVal)
	}
	return uint64(ht.Size), nil
}
