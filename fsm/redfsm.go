package fsm

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/rex"
)

// --- Reduced machine -------------------------------------------------------

// Trans is one interned transition: a destination state and an optional
// shared action table. Two transitions are the same iff destination id and
// action-table identity match; every distinct pair lives exactly once in
// the machine's transition arena and carries a stable id.
type Trans struct {
	ID    int
	Targ  int          // destination state id; -1 transfers to the error state
	Table *ActionTable // nil for actionless transitions
}

func (t *Trans) String() string {
	return fmt.Sprintf("t%d->%d", t.ID, t.Targ)
}

// TransEl is a single (exact-key) outgoing transition of a state.
type TransEl struct {
	Key   rex.Key
	Trans *Trans
}

// RangeEl is a range (low..high) outgoing transition of a state.
type RangeEl struct {
	Lo, Hi rex.Key
	Trans  *Trans
}

// StateCond attaches a condition space to a key interval of a state.
type StateCond struct {
	Lo, Hi rex.Key
	Space  *CondSpace
}

// State is one state of the reduced machine. Single transitions are sorted
// by key ascending, ranges by low key ascending, conditions in canonical
// insertion order. Lo/Hi denormalize the transition key domain, CondLo/
// CondHi the condition domain; both are meaningful only when the
// corresponding list is non-empty.
type State struct {
	ID     int
	Final  bool
	Single []TransEl
	Range  []RangeEl
	Def    *Trans
	Conds  []StateCond

	ToState   *ActionTable // run when the state is entered
	FromState *ActionTable // run when the state dispatches
	Eof       *ActionTable // run on end of input

	Lo, Hi         rex.Key
	CondLo, CondHi rex.Key
}

// Machine is the reduced state machine: dense state ids in [0, N), final
// states occupying a contiguous id suffix starting at FirstFinID. The
// machine is read-only for the back ends.
type Machine struct {
	Name       string
	States     []*State
	StartID    int
	ErrID      int // -1 when no error state exists
	FirstFinID int // == len(States) when no state is final

	trans *transArena
}

// NewMachine creates an empty machine shell. Upstream construction (or the
// Builder) populates it.
func NewMachine(name string) *Machine {
	return &Machine{
		Name:   name,
		ErrID:  -1,
		trans:  newTransArena(),
		States: make([]*State, 0, 16),
	}
}

// NewState appends a fresh state and returns it. Ids are dense in
// append order.
func (m *Machine) NewState() *State {
	s := &State{ID: len(m.States)}
	m.States = append(m.States, s)
	return s
}

// State returns the state with the given id.
func (m *Machine) State(id int) *State {
	return m.States[id]
}

// InternTrans returns the unique transition for (targ, table).
func (m *Machine) InternTrans(targ int, table *ActionTable) *Trans {
	return m.trans.intern(targ, table)
}

// TransCount returns the number of interned transitions.
func (m *Machine) TransCount() int {
	return m.trans.set.Size()
}

// EachTrans iterates the interned transitions by id ascending.
func (m *Machine) EachTrans(f func(*Trans)) {
	it := m.trans.set.Iterator()
	for it.Next() {
		f(it.Value().(*Trans))
	}
}

// --- Transition arena ------------------------------------------------------

// The arena stores transitions in a treeset ordered by id; ids are handed
// out in intern order, so iteration is deterministic.
type transArena struct {
	set   *treeset.Set
	index map[string]*Trans
}

func transComparator(a, b interface{}) int {
	t1 := a.(*Trans)
	t2 := b.(*Trans)
	return utils.IntComparator(t1.ID, t2.ID)
}

func newTransArena() *transArena {
	return &transArena{
		set:   treeset.NewWith(transComparator),
		index: make(map[string]*Trans),
	}
}

type transKey struct {
	Targ  int
	Table int
}

func (a *transArena) intern(targ int, table *ActionTable) *Trans {
	key := transKey{Targ: targ, Table: -1}
	if table != nil {
		key.Table = table.Index
	}
	hash, err := structhash.Hash(key, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash transition %v: %v", key, err))
	}
	if t, ok := a.index[hash]; ok {
		return t
	}
	t := &Trans{ID: a.set.Size(), Targ: targ, Table: table}
	a.set.Add(t)
	a.index[hash] = t
	return t
}
