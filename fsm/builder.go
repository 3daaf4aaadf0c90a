package fsm

import (
	"fmt"
	"sort"

	"github.com/npillmayer/rex"
)

// --- Builder ---------------------------------------------------------------

// Builder assembles a ParseData bundle. Front ends (and tests) add states,
// transitions and hooks in any order; Build() sorts the transition lists,
// denormalizes the key domains and seals the bundle.
//
//	b := fsm.NewBuilder("toy", rex.ASCIIKeyOps(rex.CDialect()))
//	s0 := b.State()
//	s1 := b.FinalState()
//	b.Single(s0, 'a', s1)
//	pd := b.Build()
//
// Final states must be added after every non-final state, so that final
// ids form a contiguous suffix of the id space.
type Builder struct {
	pd       *ParseData
	sawFinal bool
	maxKey   rex.Key
	built    bool
}

// NewBuilder creates a builder for a machine with the given name and
// alphabet semantics.
func NewBuilder(name string, ops *rex.KeyOps) *Builder {
	m := NewMachine(name)
	return &Builder{
		pd: &ParseData{
			Name:     name,
			FileName: name + ".rl",
			KeyOps:   ops,
			Graph:    NewGraph(name),
			Red:      m,
			Tables:   NewTableArena(),
		},
		maxKey: ops.MinKey,
	}
}

// FileName sets the user source file referenced by line directives.
func (b *Builder) FileName(name string) *Builder {
	b.pd.FileName = name
	return b
}

// Action adds a user action to the arena. The body is an inline-item list;
// a plain code fragment is a single Text item.
func (b *Builder) Action(name string, body ...*Item) *Action {
	a := &Action{
		Index: len(b.pd.Actions),
		Name:  name,
		File:  b.pd.FileName,
		Line:  1 + len(b.pd.Actions),
		Body:  body,
	}
	b.pd.Actions = append(b.pd.Actions, a)
	return a
}

// ActionAt is Action with an explicit user source location.
func (b *Builder) ActionAt(name, file string, line int, body ...*Item) *Action {
	a := b.Action(name, body...)
	a.File = file
	a.Line = line
	return a
}

// CondSpace adds a condition space over the given condition actions.
func (b *Builder) CondSpace(baseKey rex.Key, conds ...*Action) *CondSpace {
	cs := &CondSpace{
		Index:   len(b.pd.CondSpaces),
		BaseKey: baseKey,
	}
	for _, c := range conds {
		cs.Actions = append(cs.Actions, c.Index)
	}
	b.pd.CondSpaces = append(b.pd.CondSpaces, cs)
	return cs
}

// State adds a non-final state and returns its id.
func (b *Builder) State() int {
	if b.sawFinal {
		panic("non-final state added after a final state; final ids must form a suffix")
	}
	s := b.pd.Red.NewState()
	b.pd.Graph.AddState(s.ID, false)
	return s.ID
}

// FinalState adds a final state and returns its id.
func (b *Builder) FinalState() int {
	s := b.pd.Red.NewState()
	s.Final = true
	if !b.sawFinal {
		b.pd.Red.FirstFinID = s.ID
		b.sawFinal = true
	}
	b.pd.Graph.AddState(s.ID, true)
	return s.ID
}

// Start marks the start state.
func (b *Builder) Start(id int) *Builder {
	b.pd.Red.StartID = id
	b.pd.Graph.Start = b.graphState(id)
	return b
}

// ErrorState marks id as the machine's error state.
func (b *Builder) ErrorState(id int) *Builder {
	b.pd.Red.ErrID = id
	return b
}

// Entry registers a named entry point at state id.
func (b *Builder) Entry(name string, id int) *Builder {
	b.pd.Graph.AddEntry(name, b.graphState(id))
	return b
}

// Single adds an exact-key transition. to == -1 targets the error state.
func (b *Builder) Single(from int, key rex.Key, to int, acts ...*Action) *Builder {
	t := b.trans(to, acts)
	st := b.pd.Red.State(from)
	st.Single = append(st.Single, TransEl{Key: key, Trans: t})
	b.edge(from, to, key, key, acts, nil, 0)
	b.noteKey(key)
	return b
}

// Range adds a lo..hi key-range transition.
func (b *Builder) Range(from int, lo, hi rex.Key, to int, acts ...*Action) *Builder {
	t := b.trans(to, acts)
	st := b.pd.Red.State(from)
	st.Range = append(st.Range, RangeEl{Lo: lo, Hi: hi, Trans: t})
	b.edge(from, to, lo, hi, acts, nil, 0)
	b.noteKey(hi)
	return b
}

// CondRange adds a key-range transition specialized by a condition space
// with the given condition-bit values.
func (b *Builder) CondRange(from int, lo, hi rex.Key, to int, space *CondSpace, vals uint, acts ...*Action) *Builder {
	t := b.trans(to, acts)
	st := b.pd.Red.State(from)
	wlo := space.WideKey(b.pd.KeyOps, lo, vals)
	whi := space.WideKey(b.pd.KeyOps, hi, vals)
	st.Range = append(st.Range, RangeEl{Lo: wlo, Hi: whi, Trans: t})
	st.Conds = append(st.Conds, StateCond{Lo: lo, Hi: hi, Space: space})
	b.edge(from, to, lo, hi, acts, space, vals)
	b.noteKey(whi)
	return b
}

// Default sets the default transition of a state.
func (b *Builder) Default(from int, to int, acts ...*Action) *Builder {
	b.pd.Red.State(from).Def = b.trans(to, acts)
	return b
}

// ToState attaches a to-state action table.
func (b *Builder) ToState(id int, acts ...*Action) *Builder {
	st := b.pd.Red.State(id)
	st.ToState = b.pd.Tables.Intern(indices(acts))
	b.graphState(id).ToAct = names(acts)
	return b
}

// FromState attaches a from-state action table.
func (b *Builder) FromState(id int, acts ...*Action) *Builder {
	st := b.pd.Red.State(id)
	st.FromState = b.pd.Tables.Intern(indices(acts))
	b.graphState(id).FromAct = names(acts)
	return b
}

// EofAction attaches an EOF action table.
func (b *Builder) EofAction(id int, acts ...*Action) *Builder {
	st := b.pd.Red.State(id)
	st.Eof = b.pd.Tables.Intern(indices(acts))
	b.graphState(id).EofAct = names(acts)
	return b
}

// Access, CurState, GetKey set the user-supplied expression trees.
func (b *Builder) Access(items ...*Item) *Builder   { b.pd.Access = items; return b }
func (b *Builder) CurState(items ...*Item) *Builder { b.pd.CurState = items; return b }
func (b *Builder) GetKey(items ...*Item) *Builder   { b.pd.GetKey = items; return b }

// LongestMatch flags the machine as using longest-match bookkeeping.
func (b *Builder) LongestMatch() *Builder {
	b.pd.HasLongestMatch = true
	return b
}

// Options sets the caller configuration.
func (b *Builder) Options(prefix, displayPrintables, wantComplete bool) *Builder {
	b.pd.Prefix = prefix
	b.pd.DisplayPrintables = displayPrintables
	b.pd.WantComplete = wantComplete
	return b
}

// Build seals and returns the bundle. The builder must not be used
// afterwards.
func (b *Builder) Build() *ParseData {
	if b.built {
		panic("Build called twice")
	}
	b.built = true
	red := b.pd.Red
	if !b.sawFinal {
		red.FirstFinID = len(red.States)
	}
	for _, st := range red.States {
		sort.Slice(st.Single, func(i, j int) bool { return st.Single[i].Key < st.Single[j].Key })
		sort.Slice(st.Range, func(i, j int) bool { return st.Range[i].Lo < st.Range[j].Lo })
		if len(st.Single) > 0 || len(st.Range) > 0 {
			st.Lo, st.Hi = keyDomain(st)
		}
		if len(st.Conds) > 0 {
			st.CondLo = st.Conds[0].Lo
			st.CondHi = st.Conds[0].Hi
			for _, c := range st.Conds[1:] {
				if c.Lo < st.CondLo {
					st.CondLo = c.Lo
				}
				if c.Hi > st.CondHi {
					st.CondHi = c.Hi
				}
			}
		}
	}
	b.pd.MaxKey = b.maxKey
	tracer().Infof("built machine %q: %d states, %d transitions, %d action tables",
		b.pd.Name, len(red.States), red.TransCount(), len(b.pd.Tables.Tables))
	return b.pd
}

// --- Builder internals -----------------------------------------------------

func (b *Builder) trans(to int, acts []*Action) *Trans {
	return b.pd.Red.InternTrans(to, b.pd.Tables.Intern(indices(acts)))
}

func (b *Builder) graphState(id int) *GraphState {
	var found *GraphState
	b.pd.Graph.EachState(func(s *GraphState) {
		if s.Num == id {
			found = s
		}
	})
	if found == nil {
		panic(fmt.Sprintf("no graph state %d", id))
	}
	return found
}

func (b *Builder) edge(from, to int, lo, hi rex.Key, acts []*Action, space *CondSpace, vals uint) {
	e := &GraphEdge{
		From: b.graphState(from),
		Lo:   lo,
		Hi:   hi,
		Acts: names(acts),
	}
	if to >= 0 {
		e.To = b.graphState(to)
	}
	if space != nil {
		for _, ai := range space.Actions {
			e.CondNames = append(e.CondNames, b.pd.Actions[ai].Name)
		}
		e.CondVals = vals
	}
	b.pd.Graph.AddEdge(e)
}

func (b *Builder) noteKey(k rex.Key) {
	if k > b.maxKey {
		b.maxKey = k
	}
}

func indices(acts []*Action) []int {
	if len(acts) == 0 {
		return nil
	}
	idx := make([]int, len(acts))
	for i, a := range acts {
		idx[i] = a.Index
	}
	return idx
}

func names(acts []*Action) []string {
	if len(acts) == 0 {
		return nil
	}
	n := make([]string, len(acts))
	for i, a := range acts {
		n[i] = a.Name
	}
	return n
}

func keyDomain(st *State) (lo, hi rex.Key) {
	first := true
	note := func(l, h rex.Key) {
		if first {
			lo, hi = l, h
			first = false
			return
		}
		if l < lo {
			lo = l
		}
		if h > hi {
			hi = h
		}
	}
	for _, el := range st.Single {
		note(el.Key, el.Key)
	}
	for _, el := range st.Range {
		note(el.Lo, el.Hi)
	}
	return lo, hi
}
