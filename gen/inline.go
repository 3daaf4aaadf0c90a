package gen

import (
	"fmt"
	"strings"

	"github.com/npillmayer/rex/fsm"
)

// --- Inline expansion ------------------------------------------------------

// inlineList expands an inline-item list into ret. targState is the
// concrete target state id of the enclosing transition; inFinish is true
// on the one-shot EOF path, where control transfers degenerate to leaving
// the dispatch loop instead of re-entering it.
func (e *Emitter) inlineList(ret *strings.Builder, items []*fsm.Item, targState int, inFinish bool) {
	for _, item := range items {
		switch item.Type {
		case fsm.Text:
			ret.WriteString(item.Data)
		case fsm.Goto:
			e.xGoto(ret, item.TargState, inFinish)
		case fsm.GotoExpr:
			e.xGotoExpr(ret, item, targState, inFinish)
		case fsm.Call:
			e.xCall(ret, item.TargState, targState, inFinish)
		case fsm.CallExpr:
			e.xCallExpr(ret, item, targState, inFinish)
		case fsm.Ret:
			e.xRet(ret, inFinish)
		case fsm.Next:
			fmt.Fprintf(ret, "%s = %d;", e.vCS(), item.TargState)
		case fsm.NextExpr:
			fmt.Fprintf(ret, "%s = (", e.vCS())
			e.inlineList(ret, item.Children, targState, inFinish)
			ret.WriteString(");")
		case fsm.PChar:
			ret.WriteString(e.vP())
		case fsm.Char:
			ret.WriteString(e.getKey())
		case fsm.Hold:
			fmt.Fprintf(ret, "%s--;", e.vP())
		case fsm.Exec:
			e.xExec(ret, item, targState, inFinish)
		case fsm.HoldTE:
			fmt.Fprintf(ret, "%s--;", e.vTokend())
		case fsm.ExecTE:
			e.xExecTE(ret, item, targState, inFinish)
		case fsm.Curs:
			ret.WriteString("(_ps)")
		case fsm.Targs:
			// action code runs after the state variable was advanced,
			// so the enclosing transition's target is the live state
			fmt.Fprintf(ret, "(%s)", e.vCS())
		case fsm.Entry:
			fmt.Fprintf(ret, "%d", item.TargState)
		case fsm.LmSwitch:
			e.xLmSwitch(ret, item, targState, inFinish)
		case fsm.LmSetActId:
			fmt.Fprintf(ret, "%s = %d;", e.vAct(), item.LmID)
		case fsm.LmInitAct:
			fmt.Fprintf(ret, "%s = 0;", e.vAct())
		case fsm.LmSetTokEnd:
			fmt.Fprintf(ret, "%s = %s", e.vTokend(), e.vP())
			if item.Offset != 0 {
				fmt.Fprintf(ret, "+%d", item.Offset)
			}
			ret.WriteString(";")
		case fsm.LmGetTokEnd:
			ret.WriteString(e.vTokend())
		case fsm.LmInitTokStart:
			fmt.Fprintf(ret, "%s = %s;", e.vTokstart(), e.d.NullItem())
		case fsm.LmSetTokStart:
			fmt.Fprintf(ret, "%s = %s;", e.vTokstart(), e.vP())
		case fsm.SubAction:
			if len(item.Children) > 0 {
				ret.WriteString("{")
				e.inlineList(ret, item.Children, targState, inFinish)
				ret.WriteString("}")
			}
		case fsm.Break:
			e.xBreak(ret, inFinish)
		case fsm.LmCase:
			// only meaningful as a child of LmSwitch
			e.sink.Errorf("%s: stray longest-match case (lmId %d)", e.pd.Name, item.LmID)
		}
	}
}

// xGoto re-enters dispatch at a literal state; on the EOF path it leaves
// dispatch with the state set.
func (e *Emitter) xGoto(ret *strings.Builder, dest int, inFinish bool) {
	if inFinish {
		fmt.Fprintf(ret, "{%s = %d; %sgoto _out;}", e.vCS(), dest, e.d.CtrlFlow())
		return
	}
	fmt.Fprintf(ret, "{%s = %d; %sgoto _again;}", e.vCS(), dest, e.d.CtrlFlow())
}

func (e *Emitter) xGotoExpr(ret *strings.Builder, item *fsm.Item, targState int, inFinish bool) {
	fmt.Fprintf(ret, "{%s = (", e.vCS())
	e.inlineList(ret, item.Children, targState, inFinish)
	if inFinish {
		fmt.Fprintf(ret, "); %sgoto _out;}", e.d.CtrlFlow())
		return
	}
	fmt.Fprintf(ret, "); %sgoto _again;}", e.d.CtrlFlow())
}

// xCall pushes the enclosing transition's target state (live in the
// state variable), then transfers.
func (e *Emitter) xCall(ret *strings.Builder, dest, targState int, inFinish bool) {
	fmt.Fprintf(ret, "{%s[%s++] = %s; ", e.vStack(), e.vTop(), e.vCS())
	e.xGoto(ret, dest, inFinish)
	ret.WriteString("}")
}

func (e *Emitter) xCallExpr(ret *strings.Builder, item *fsm.Item, targState int, inFinish bool) {
	fmt.Fprintf(ret, "{%s[%s++] = %s; %s = (", e.vStack(), e.vTop(), e.vCS(), e.vCS())
	e.inlineList(ret, item.Children, targState, inFinish)
	if inFinish {
		fmt.Fprintf(ret, "); %sgoto _out;}", e.d.CtrlFlow())
		return
	}
	fmt.Fprintf(ret, "); %sgoto _again;}", e.d.CtrlFlow())
}

// xRet pops and transfers; on the EOF path popping terminates normally.
func (e *Emitter) xRet(ret *strings.Builder, inFinish bool) {
	fmt.Fprintf(ret, "{%s = %s[--%s]; ", e.vCS(), e.vStack(), e.vTop())
	if inFinish {
		fmt.Fprintf(ret, "%sgoto _out;}", e.d.CtrlFlow())
		return
	}
	fmt.Fprintf(ret, "%sgoto _again;}", e.d.CtrlFlow())
}

// The double brackets around the expression are deliberate: one host's
// parser would read a single-word expression as a cast without them.
func (e *Emitter) xExec(ret *strings.Builder, item *fsm.Item, targState int, inFinish bool) {
	fmt.Fprintf(ret, "{%s = ((", e.vP())
	e.inlineList(ret, item.Children, targState, inFinish)
	ret.WriteString("))-1;}")
}

func (e *Emitter) xExecTE(ret *strings.Builder, item *fsm.Item, targState int, inFinish bool) {
	fmt.Fprintf(ret, "{%s = ((", e.vTokend())
	e.inlineList(ret, item.Children, targState, inFinish)
	ret.WriteString("));}")
}

func (e *Emitter) xBreak(ret *strings.Builder, inFinish bool) {
	fmt.Fprintf(ret, "%sgoto _out;", e.d.CtrlFlow())
}

// xLmSwitch dispatches on the act register over the switch's case arms.
// A switch that handles the error case restores tokend from tokstart and
// transfers to the error state on act == 0.
func (e *Emitter) xLmSwitch(ret *strings.Builder, item *fsm.Item, targState int, inFinish bool) {
	fmt.Fprintf(ret, "\tswitch( %s ) {\n", e.vAct())
	if item.HandlesError {
		// Without an error state the target is -1, which the driver's
		// error test also catches.
		fmt.Fprintf(ret, "\tcase 0: %s = %s; ", e.vTokend(), e.vTokstart())
		e.xGoto(ret, e.pd.Red.ErrID, inFinish)
		ret.WriteString("\n")
	}
	for _, lma := range item.Children {
		fmt.Fprintf(ret, "\tcase %d:\n", lma.LmID)
		ret.WriteString("\t{")
		e.inlineList(ret, lma.Children, targState, inFinish)
		ret.WriteString("}\n")
		ret.WriteString("\tbreak;\n")
	}
	ret.WriteString("\tdefault: break;\n\t}\n\t")
}

// action expands one top-level action body: a line directive mapping
// diagnostics back to the user source, then the braced block.
func (e *Emitter) action(ret *strings.Builder, act *fsm.Action, targState int, inFinish bool) {
	ret.WriteString(e.d.LineDirective(act.File, act.Line))
	ret.WriteString("\t{")
	e.inlineList(ret, act.Body, targState, inFinish)
	ret.WriteString("}\n")
}

// condition expands one condition predicate, preceded by its line
// directive.
func (e *Emitter) condition(ret *strings.Builder, act *fsm.Action) {
	ret.WriteString("\n")
	ret.WriteString(e.d.LineDirective(act.File, act.Line))
	e.inlineList(ret, act.Body, 0, false)
}
