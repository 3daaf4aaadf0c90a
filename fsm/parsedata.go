package fsm

import (
	"github.com/npillmayer/rex"
)

// --- ParseData -------------------------------------------------------------

// ParseData is the bundle a front end hands to the back ends: the
// unreduced graph for diagrams, the reduced machine for code generation,
// the arenas both share, and the caller's configuration. The bundle is
// read-only once handed off.
type ParseData struct {
	Name     string // machine name, used for generated identifiers
	FileName string // user source file, referenced by line directives

	KeyOps *rex.KeyOps
	Graph  *Graph
	Red    *Machine

	Actions    []*Action    // action arena, indexed by Action.Index
	Tables     *TableArena  // shared action tables
	CondSpaces []*CondSpace // condition spaces, by Index

	// User-supplied expression trees, nil for the defaults.
	Access   []*Item // prefix for the driver's variable accesses
	CurState []*Item // expression reading the current state
	GetKey   []*Item // expression reading the current input symbol

	HasLongestMatch bool
	MaxKey          rex.Key // widest key incl. condition widening

	// Caller configuration. The host-language dialect is passed to the
	// emitter separately, since it affects spelling only.
	Prefix            bool // prefix generated identifiers with "<name>_"
	DisplayPrintables bool // dot: render printable keys as glyphs
	WantComplete      bool // emit the full driver
}

// Action returns the arena entry at index i.
func (pd *ParseData) Action(i int) *Action {
	return pd.Actions[i]
}

// ActionNames maps a table's arena indices to action names, in table
// order. A nil table yields nil.
func (pd *ParseData) ActionNames(t *ActionTable) []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Actions))
	for i, ai := range t.Actions {
		names[i] = pd.Actions[ai].Name
	}
	return names
}
