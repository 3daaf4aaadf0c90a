package fsm

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/rex"
)

// --- Unreduced state graph -------------------------------------------------

// Graph is the state machine before reduction, as drawn by the Graphviz
// back end. It keeps the action names and condition predicates the
// reduction folds into shared tables, so diagrams can label edges the way
// the user wrote them.
type Graph struct {
	Name    string
	states  *treeset.Set    // *GraphState ordered by number
	edges   *arraylist.List // *GraphEdge in insertion order
	Start   *GraphState
	Entries []EntryPoint
}

// GraphState is one node of the unreduced graph.
type GraphState struct {
	Num     int
	Final   bool
	FromAct []string // from-state action names
	ToAct   []string // to-state action names
	EofAct  []string // EOF action names
}

// GraphEdge is one labeled edge. To == nil sends the input to the error
// state. CondNames/CondVals carry the conjunction of condition predicates
// specializing this edge; bit i of CondVals is the truth value of
// CondNames[i].
type GraphEdge struct {
	From, To  *GraphState
	Lo, Hi    rex.Key
	Acts      []string // transition action names
	CondNames []string
	CondVals  uint
}

// EntryPoint is a named entry into the graph. Name segments are joined
// with underscores when rendered.
type EntryPoint struct {
	Name  string
	State *GraphState
}

func graphStateComparator(a, b interface{}) int {
	s1 := a.(*GraphState)
	s2 := b.(*GraphState)
	return utils.IntComparator(s1.Num, s2.Num)
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{
		Name:   name,
		states: treeset.NewWith(graphStateComparator),
		edges:  arraylist.New(),
	}
}

// AddState adds a node with the given number.
func (g *Graph) AddState(num int, final bool) *GraphState {
	s := &GraphState{Num: num, Final: final}
	g.states.Add(s)
	return s
}

// AddEdge adds a labeled edge.
func (g *Graph) AddEdge(e *GraphEdge) *GraphEdge {
	g.edges.Add(e)
	return e
}

// AddEntry registers a named entry point.
func (g *Graph) AddEntry(name string, s *GraphState) {
	g.Entries = append(g.Entries, EntryPoint{Name: name, State: s})
}

// EachState iterates nodes by state number ascending.
func (g *Graph) EachState(f func(*GraphState)) {
	it := g.states.Iterator()
	for it.Next() {
		f(it.Value().(*GraphState))
	}
}

// EachEdge iterates edges in insertion order.
func (g *Graph) EachEdge(f func(*GraphEdge)) {
	it := g.edges.Iterator()
	for it.Next() {
		f(it.Value().(*GraphEdge))
	}
}

// OutEdges returns the edges leaving s, in insertion order.
func (g *Graph) OutEdges(s *GraphState) []*GraphEdge {
	r := make([]*GraphEdge, 0, 2)
	it := g.edges.Iterator()
	for it.Next() {
		e := it.Value().(*GraphEdge)
		if e.From == s {
			r = append(r, e)
		}
	}
	return r
}

func (s *GraphState) String() string {
	return fmt.Sprintf("(state %d)", s.Num)
}
