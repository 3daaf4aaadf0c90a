package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
)

// --- Dot emission ----------------------------------------------------------

// Write emits the Graphviz document for pd's unreduced graph to w.
func Write(w io.Writer, pd *fsm.ParseData) {
	g := pd.Graph
	tracer().Debugf("dot for %q", pd.Name)
	fmt.Fprintf(w, "digraph %s {\n", pd.Name)
	fmt.Fprintf(w, "\trankdir=LR;\n")

	// Pseudo nodes first; transitions follow once every node is declared
	// as final or not.
	fmt.Fprintf(w, "\tnode [ shape = point ];\n")
	if g.Start != nil {
		fmt.Fprintf(w, "\tENTRY;\n")
	}
	for _, en := range g.Entries {
		fmt.Fprintf(w, "\ten_%d;\n", en.State.Num)
	}
	g.EachState(func(st *fsm.GraphState) {
		if len(st.EofAct) > 0 {
			fmt.Fprintf(w, "\teof_%d;\n", st.Num)
		}
	})

	fmt.Fprintf(w, "\tnode [ shape = circle, height = 0.2 ];\n")
	g.EachState(func(st *fsm.GraphState) {
		if needsErr(g, st) {
			fmt.Fprintf(w, "\terr_%d [ label=\"\"];\n", st.Num)
		}
	})

	fmt.Fprintf(w, "\tnode [ fixedsize = true, height = 0.65, shape = doublecircle ];\n")
	g.EachState(func(st *fsm.GraphState) {
		if st.Final {
			fmt.Fprintf(w, "\t%d;\n", st.Num)
		}
	})

	fmt.Fprintf(w, "\tnode [ shape = circle ];\n")
	g.EachState(func(st *fsm.GraphState) {
		writeTransList(w, pd, g, st)
	})

	if g.Start != nil {
		fmt.Fprintf(w, "\tENTRY -> %d [ label = \"IN\" ];\n", g.Start.Num)
	}
	for _, en := range g.Entries {
		name := strings.Join(strings.Fields(en.Name), "_")
		fmt.Fprintf(w, "\ten_%d -> %d [ label = \"%s\" ];\n", en.State.Num, en.State.Num, name)
	}
	g.EachState(func(st *fsm.GraphState) {
		if len(st.EofAct) > 0 {
			fmt.Fprintf(w, "\t%d -> eof_%d [ label = \"EOF%s\" ];\n",
				st.Num, st.Num, actionList(st.EofAct))
		}
	})
	fmt.Fprintf(w, "}\n")
}

func writeTransList(w io.Writer, pd *fsm.ParseData, g *fsm.Graph, st *fsm.GraphState) {
	for _, e := range g.OutEdges(st) {
		fmt.Fprintf(w, "\t%d -> ", st.Num)
		if e.To == nil {
			fmt.Fprintf(w, "err_%d", st.Num)
		} else {
			fmt.Fprintf(w, "%d", e.To.Num)
		}
		fmt.Fprintf(w, " [ label = \"%s", onChar(pd, e))
		fmt.Fprintf(w, "%s\" ];\n", transAction(st, e))
	}
}

// needsErr is true when any edge of st falls through to the error state.
func needsErr(g *fsm.Graph, st *fsm.GraphState) bool {
	for _, e := range g.OutEdges(st) {
		if e.To == nil {
			return true
		}
	}
	return false
}

// onChar renders the key (or key range) of an edge, plus the conjunction
// of its condition predicates. Unset predicate bits carry a ! prefix.
func onChar(pd *fsm.ParseData, e *fsm.GraphEdge) string {
	var b strings.Builder
	b.WriteString(keyLabel(pd, e.Lo))
	if e.Hi != e.Lo {
		b.WriteString("..")
		b.WriteString(keyLabel(pd, e.Hi))
	}
	if len(e.CondNames) > 0 {
		b.WriteString("(")
		for i, name := range e.CondNames {
			if e.CondVals&(1<<uint(i)) == 0 {
				b.WriteString("!")
			}
			b.WriteString(name)
			if i != len(e.CondNames)-1 {
				b.WriteString(", ")
			}
		}
		b.WriteString(")")
	}
	return b.String()
}

// transAction joins the from-state, transition and to-state action names
// into the " / a, b" suffix of an edge label.
func transAction(st *fsm.GraphState, e *fsm.GraphEdge) string {
	var names []string
	names = append(names, st.FromAct...)
	names = append(names, e.Acts...)
	if e.To != nil {
		names = append(names, e.To.ToAct...)
	}
	return actionList(names)
}

func actionList(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return " / " + strings.Join(names, ", ")
}

// keyLabel renders one key. Printable keys become quoted glyphs when the
// caller asked for them, with the quote and backslash escaped, C-style
// whitespace escapes made visible, and space rendered as SP. Everything
// else prints as a signed or unsigned integer per the alphabet.
func keyLabel(pd *fsm.ParseData, k rex.Key) string {
	if pd.DisplayPrintables && (k.IsPrintable() || isWhitespaceGlyph(k)) {
		switch k {
		case '"', '\\':
			return "'\\" + string(byte(k)) + "'"
		case '\a':
			return `'\\a'`
		case '\b':
			return `'\\b'`
		case '\t':
			return `'\\t'`
		case '\n':
			return `'\\n'`
		case '\v':
			return `'\\v'`
		case '\f':
			return `'\\f'`
		case '\r':
			return `'\\r'`
		case ' ':
			return "SP"
		default:
			return "'" + string(byte(k)) + "'"
		}
	}
	if pd.KeyOps.Signed {
		return fmt.Sprintf("%d", int64(k))
	}
	return fmt.Sprintf("%d", uint64(int64(k)))
}

// isWhitespaceGlyph is true for the C-style whitespace escapes that draw
// as visible glyphs.
func isWhitespaceGlyph(k rex.Key) bool {
	switch k {
	case '\a', '\b', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
