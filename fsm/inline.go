package fsm

// --- Inline items ----------------------------------------------------------

// ItemType tags the variants of the inline-item tree. User-written action
// code arrives from the front end as a list of items: literal text
// interleaved with semantic primitives the code generator expands into
// host-language control code.
type ItemType int

// Inline item variants.
const (
	Text           ItemType = iota // literal text, emitted verbatim
	Goto                           // transfer control to a specific state
	GotoExpr                       // transfer control to a computed state
	Call                           // push return state, transfer control
	CallExpr                       // same, computed target
	Ret                            // pop return state, transfer control
	Next                           // overwrite current state, no transfer
	NextExpr                       // same, computed state
	PChar                          // current input pointer
	Char                           // current input symbol
	Hold                           // re-read current symbol on next step
	Exec                           // reassign input pointer from expression
	HoldTE                         // Hold targeting the tokend register
	ExecTE                         // Exec targeting the tokend register
	Curs                           // read the current state id
	Targs                          // target state id of enclosing transition
	Entry                          // id of a named entry point
	LmSwitch                       // longest-match dispatch on act register
	LmCase                         // one arm of an LmSwitch
	LmSetActId                     // act := n
	LmInitAct                      // act := 0
	LmSetTokEnd                    // tokend := p + offset
	LmGetTokEnd                    // read tokend
	LmInitTokStart                 // tokstart := null
	LmSetTokStart                  // tokstart := p
	SubAction                      // braced scope around a child list
	Break                          // exit the dispatch loop
)

// Item is one node of an inline tree. Which fields are meaningful depends
// on Type: Data for Text, TargState for the control-transfer variants and
// Entry, Offset for LmSetTokEnd, LmID for LmSetActId and LmCase,
// HandlesError for LmSwitch. State references are state ids (indices into
// the machine's state arena), never pointers.
type Item struct {
	Type         ItemType
	Data         string
	TargState    int
	Offset       int
	LmID         int
	HandlesError bool
	Children     []*Item
}

// T builds a Text item.
func T(text string) *Item {
	return &Item{Type: Text, Data: text}
}

// Walk calls visit on every item of the list, depth first in source order.
func Walk(items []*Item, visit func(*Item)) {
	for _, item := range items {
		visit(item)
		if item.Children != nil {
			Walk(item.Children, visit)
		}
	}
}

// OnlyWhitespace is true if every item under items is a Text item whose
// text consists of whitespace only; any other item type makes it false.
// The emitter in package gen does not consult it.
func OnlyWhitespace(items []*Item) bool {
	ws := true
	Walk(items, func(item *Item) {
		if item.Type != Text {
			ws = false
			return
		}
		for _, c := range item.Data {
			switch c {
			case ' ', '\t', '\n', '\v', '\f', '\r':
			default:
				ws = false
			}
		}
	})
	return ws
}
