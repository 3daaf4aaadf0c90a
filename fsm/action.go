package fsm

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/rex"
)

// --- Actions ---------------------------------------------------------------

// Action is one user-written code fragment, attached to transitions or to
// state hooks (to-state, from-state, EOF) through action tables. Actions
// live in the arena of their ParseData; Index is the arena position.
//
// Reference counters and the assigned action id are not stored here; they
// are columns of gen.Analysis.
type Action struct {
	Index int
	Name  string
	File  string // source file of the user code
	Line  int    // source line of the user code
	Body  []*Item
}

func (a *Action) String() string {
	return fmt.Sprintf("action %q (#%d)", a.Name, a.Index)
}

// ActionTable is an ordered list of actions executed together at one
// transition or state hook. Tables are interned: transitions sharing the
// same action sequence point at the same table.
type ActionTable struct {
	Index   int   // position in the arena, in insertion order
	Actions []int // action arena indices, in source order
}

// Len returns the number of actions in the table.
func (t *ActionTable) Len() int {
	return len(t.Actions)
}

// TableArena is the deduplicating arena for action tables. Identity is by
// value: two tables with the same action sequence intern to one entry.
// Iteration over Tables is in canonical insertion order.
type TableArena struct {
	Tables []*ActionTable
	index  map[string]*ActionTable
}

// NewTableArena creates an empty arena.
func NewTableArena() *TableArena {
	return &TableArena{index: make(map[string]*ActionTable)}
}

type tableKey struct {
	Actions []int
}

// Intern returns the unique table for the given action sequence, creating
// it on first sight. An empty sequence interns to nil (no table).
func (a *TableArena) Intern(actions []int) *ActionTable {
	if len(actions) == 0 {
		return nil
	}
	hash, err := structhash.Hash(tableKey{Actions: actions}, 1)
	if err != nil {
		panic(fmt.Sprintf("cannot hash action table %v: %v", actions, err))
	}
	if table, ok := a.index[hash]; ok {
		return table
	}
	table := &ActionTable{
		Index:   len(a.Tables),
		Actions: append([]int(nil), actions...),
	}
	a.Tables = append(a.Tables, table)
	a.index[hash] = table
	tracer().Debugf("interned action table #%d = %v", table.Index, table.Actions)
	return table
}

// --- Condition spaces ------------------------------------------------------

// CondSpace is a set of conditional predicates specializing transitions on
// the same key into distinct edges. The effective alphabet of a state with
// conditions is widened: a key k under condition values v maps to
// BaseKey + (k - minKey) + fullSpan·v.
type CondSpace struct {
	Index   int     // condSpaceId
	BaseKey rex.Key // start of this space's slice of the wide alphabet
	Actions []int   // condition actions, canonical insertion order
}

// WideKey maps key k with condition-bit values vals into the widened
// alphabet of ops.
func (cs *CondSpace) WideKey(ops *rex.KeyOps, k rex.Key, vals uint) rex.Key {
	span := rex.Key(ops.Span(ops.MinKey, ops.MaxKey))
	return cs.BaseKey + (k - ops.MinKey) + rex.Key(vals)*span
}
