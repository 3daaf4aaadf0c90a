package gen

import (
	"strings"
	"testing"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func expandItems(t *testing.T, items []*fsm.Item) string {
	t.Helper()
	pd := machineA()
	an, err := Analyze(pd, rex.CDialect())
	require.NoError(t, err)
	e := NewEmitter(pd, rex.CDialect(), an, nil)
	var b strings.Builder
	e.inlineList(&b, items, 0, false)
	return b.String()
}

func TestExpandControlTransfers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := expandItems(t, []*fsm.Item{{Type: fsm.Goto, TargState: 3}})
	require.Equal(t, "{cs = 3; goto _again;}", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Next, TargState: 4}})
	require.Equal(t, "cs = 4;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Ret}})
	require.Equal(t, "{cs = stack[--top]; goto _again;}", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Call, TargState: 5}})
	require.Equal(t, "{stack[top++] = cs; {cs = 5; goto _again;}}", out)
}

// Exec keeps its double bracketing: one host's parser reads a single
// word inside single brackets as a cast.
func TestExpandExecDoubleBrackets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := expandItems(t, []*fsm.Item{{Type: fsm.Exec, Children: []*fsm.Item{fsm.T("mark")}}})
	require.Equal(t, "{p = ((mark))-1;}", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.ExecTE, Children: []*fsm.Item{fsm.T("mark")}}})
	require.Equal(t, "{tokend = ((mark));}", out)
}

func TestExpandPointersAndRegisters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := expandItems(t, []*fsm.Item{{Type: fsm.Hold}})
	require.Equal(t, "p--;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.HoldTE}})
	require.Equal(t, "tokend--;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.PChar}})
	require.Equal(t, "p", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Char}})
	require.Equal(t, "(*p)", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Curs}})
	require.Equal(t, "(_ps)", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.Entry, TargState: 7}})
	require.Equal(t, "7", out)
}

func TestExpandLmRegisters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := expandItems(t, []*fsm.Item{{Type: fsm.LmSetActId, LmID: 3}})
	require.Equal(t, "act = 3;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.LmInitAct}})
	require.Equal(t, "act = 0;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.LmSetTokEnd, Offset: 1}})
	require.Equal(t, "tokend = p+1;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.LmSetTokEnd}})
	require.Equal(t, "tokend = p;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.LmInitTokStart}})
	require.Equal(t, "tokstart = 0;", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.LmSetTokStart}})
	require.Equal(t, "tokstart = p;", out)
}

func TestExpandSubActionElidesEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := expandItems(t, []*fsm.Item{{Type: fsm.SubAction}})
	require.Equal(t, "", out)
	out = expandItems(t, []*fsm.Item{{Type: fsm.SubAction, Children: []*fsm.Item{fsm.T("x;")}}})
	require.Equal(t, "{x;}", out)
}

// Finish-mode control transfers leave the dispatch loop instead of
// re-entering it.
func TestExpandFinishMode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd := machineA()
	an, err := Analyze(pd, rex.CDialect())
	require.NoError(t, err)
	e := NewEmitter(pd, rex.CDialect(), an, nil)
	var b strings.Builder
	e.inlineList(&b, []*fsm.Item{{Type: fsm.Goto, TargState: 2}}, 0, true)
	require.Equal(t, "{cs = 2; goto _out;}", b.String())
	b.Reset()
	e.inlineList(&b, []*fsm.Item{{Type: fsm.Ret}}, 0, true)
	require.Equal(t, "{cs = stack[--top]; goto _out;}", b.String())
}

// User access expressions prefix every driver variable.
func TestExpandAccessPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	b := fsm.NewBuilder("m", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	b.Single(s0, 'a', s1)
	b.Access(fsm.T("fsm->"))
	pd := b.Options(false, false, true).Build()
	an, err := Analyze(pd, rex.CDialect())
	require.NoError(t, err)
	e := NewEmitter(pd, rex.CDialect(), an, nil)
	var out strings.Builder
	e.inlineList(&out, []*fsm.Item{{Type: fsm.Hold}}, 0, false)
	require.Equal(t, "fsm->p--;", out.String())
	require.Equal(t, "fsm->cs", e.vCS())
}
