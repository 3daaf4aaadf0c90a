package gen

import (
	"strings"
	"testing"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, pd *fsm.ParseData, d *rex.Dialect) string {
	t.Helper()
	an, err := Analyze(pd, d)
	require.NoError(t, err)
	var b strings.Builder
	e := NewEmitter(pd, d, an, NewSink(nil))
	require.NoError(t, e.WriteDriver(&b))
	return b.String()
}

func TestDriverSingle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	out := emit(t, machineA(), rex.CDialect())
	// reserved slot only: no actions anywhere
	require.Contains(t, out, "static const char _actions[] = {\n\t0, \n};\n")
	require.Contains(t, out, "static const int start = 0;\n")
	require.Contains(t, out, "static const int first_final = 1;\n")
	require.Contains(t, out, "static const int error = -1;\n")
	require.Contains(t, out, "void m_init(void)")
	require.Contains(t, out, "int m_execute(void)")
	require.Contains(t, out, "\tcs = start;\n")
	require.Contains(t, out, "goto _resume;")
	require.Contains(t, out, "_test_eof:")
	require.Contains(t, out, "\tif ( cs >= first_final )\n\t\treturn 1;\n")
	// no action machinery in the loop
	require.NotContains(t, out, "_trans_actions")
}

func TestDriverActionArray(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd, _ := machineAB()
	out := emit(t, pd, rex.CDialect())
	// reserved 0, then the single table: length 1, action id 0
	require.Contains(t, out, "\t0, 1, 0\n")
	require.Contains(t, out, "_trans_actions")
	require.Contains(t, out, "case 0:\n")
	require.Contains(t, out, "res = 1;")
	// line directive precedes the action body
	require.Contains(t, out, "#line ")
}

func TestDriverDataPrefix(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	b := fsm.NewBuilder("lexer", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	b.Single(s0, 'a', s1)
	pd := b.Options(true, false, true).Build()
	out := emit(t, pd, rex.CDialect())
	require.Contains(t, out, "_lexer_actions")
	require.Contains(t, out, "lexer_start")
	require.Contains(t, out, "lexer_first_final")
	require.NotContains(t, out, " _actions")
}

func TestDriverEofActions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	b := fsm.NewBuilder("m", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	fin := b.Action("wrapup", fsm.T("done = 1;"))
	b.Single(s0, 'a', s1)
	b.EofAction(s1, fin)
	pd := b.Options(false, false, true).Build()
	out := emit(t, pd, rex.CDialect())
	require.Contains(t, out, "_eof_actions")
	require.Contains(t, out, "if ( p == eof )")
	require.Contains(t, out, "done = 1;")
}

func TestDriverLmSwitch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	b := fsm.NewBuilder("m", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	serr := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	b.ErrorState(serr)
	sw := &fsm.Item{
		Type:         fsm.LmSwitch,
		HandlesError: true,
		Children: []*fsm.Item{
			{Type: fsm.LmCase, LmID: 1, Children: []*fsm.Item{fsm.T("word();")}},
			{Type: fsm.LmCase, LmID: 2, Children: []*fsm.Item{fsm.T("number();")}},
		},
	}
	dispatch := b.Action("dispatch", sw)
	b.Single(s0, 'x', s1, dispatch)
	pd := b.LongestMatch().Options(false, false, true).Build()
	out := emit(t, pd, rex.CDialect())
	require.Contains(t, out, "switch( act ) {")
	require.Contains(t, out, "case 0: tokend = tokstart; {cs = 1; goto _again;}")
	require.Contains(t, out, "case 1:\n\t{word();}\n\tbreak;\n")
	require.Contains(t, out, "case 2:\n\t{number();}\n\tbreak;\n")
	// longest-match registers are zeroed by init
	require.Contains(t, out, "\ttokstart = 0;\n")
	require.Contains(t, out, "\tact = 0;\n")
}

func TestDriverConditions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	ops := rex.ASCIIKeyOps(rex.CDialect())
	b := fsm.NewBuilder("m", ops)
	s0 := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	inRange := b.Action("inRange", fsm.T("i < 10"))
	space := b.CondSpace(128, inRange)
	b.CondRange(s0, '0', '9', s1, space, 1)
	pd := b.Options(false, false, true).Build()
	an, err := Analyze(pd, rex.CDialect())
	require.NoError(t, err)
	require.True(t, an.Flags.AnyConditions)
	require.EqualValues(t, 10, an.Limits.MaxCondSpan)
	require.EqualValues(t, 1, an.Limits.MaxCondLen)
	out := emit(t, pd, rex.CDialect())
	require.Contains(t, out, "_cond_offsets")
	require.Contains(t, out, "_cond_lengths")
	require.Contains(t, out, "_cond_keys")
	require.Contains(t, out, "_cond_spaces")
	require.Contains(t, out, "_widec")
	// the widened alphabet outgrows the configured char type
	require.Contains(t, out, "short _widec;")
	require.Contains(t, out, "if (")
	require.Contains(t, out, "i < 10")
	// condition-specialized keys dispatch on the widened key
	require.Contains(t, out, "_widec += 256;")
}

func TestDriverDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd, _ := machineAB()
	d := rex.CDialect()
	an, err := Analyze(pd, d)
	require.NoError(t, err)
	var b1, b2 strings.Builder
	require.NoError(t, NewEmitter(pd, d, an, nil).WriteDriver(&b1))
	require.NoError(t, NewEmitter(pd, d, an, nil).WriteDriver(&b2))
	require.Equal(t, b1.String(), b2.String())
}

func TestDriverTablesOnly(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	b := fsm.NewBuilder("m", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	b.Start(s0)
	b.Single(s0, 'a', s1)
	pd := b.Options(false, false, false).Build() // not wantComplete
	out := emit(t, pd, rex.CDialect())
	require.Contains(t, out, "_trans_targs")
	require.NotContains(t, out, "_execute")
	require.NotContains(t, out, "_init")
}

func TestReportSmoke(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd, _ := machineAB()
	an, err := Analyze(pd, rex.CDialect())
	require.NoError(t, err)
	Report(pd, an) // renders to the terminal; must not panic
}

func TestDriverDialects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd, _ := machineAB()
	outD := emit(t, pd, rex.DDialect())
	require.Contains(t, outD, "static const byte[] _actions = [")
	require.Contains(t, outD, "];")
	outJ := emit(t, pd, rex.JavaDialect())
	require.Contains(t, outJ, "static final byte[] _actions = {")
	// pointer-free hosts walk the tables by index
	require.Contains(t, outJ, "_acts = _trans_actions[_trans];")
	require.Contains(t, outJ, "_nacts = _actions[_acts++];")
	require.Contains(t, outJ, "data[p]")
}
