package gen

import (
	"strings"
)

// --- Init routine ----------------------------------------------------------

// writeInit emits the init function: the current state starts at the
// start state; the call-stack top and the longest-match registers are
// zeroed only when the machine uses them.
func (e *Emitter) writeInit() {
	e.pr("void %s_init(%s)\n{\n", e.pd.Name, e.voidParams())
	e.pr("\t%s = %s;\n", e.vCS(), e.def("start"))
	if e.an.Flags.AnyActionCalls || e.an.Flags.AnyActionRets {
		e.pr("\t%s = 0;\n", e.vTop())
	}
	if e.pd.HasLongestMatch {
		e.pr("\t%s = %s;\n", e.vTokstart(), e.d.NullItem())
		e.pr("\t%s = %s;\n", e.vTokend(), e.d.NullItem())
		e.pr("\t%s = 0;\n", e.vAct())
	}
	e.pr("}\n\n")
}

func (e *Emitter) voidParams() string {
	if e.d.Name == "C" {
		return "void"
	}
	return ""
}

// uintType is the spelling used for the unsigned loop counters, falling
// back to int for hosts without unsigned types.
func (e *Emitter) uintType() string {
	if e.d.HasUnsigned() {
		return e.d.UInt()
	}
	return "int"
}

// --- Execute routine -------------------------------------------------------

// writeExec emits the execute function: locals, the resume/locate/match/
// again dispatch skeleton, and the EOF path. Pointer hosts walk the
// tables with pointers; pointer-free hosts with integer indices.
func (e *Emitter) writeExec() {
	flags := e.an.Flags
	ptr := e.d.HasPointers()

	e.pr("int %s_execute(%s)\n{\n", e.pd.Name, e.voidParams())
	if e.an.Layout == LayoutIndirect || flags.AnyConditions {
		e.pr("\tint _klen;\n")
	}
	if flags.AnyRegCurStateRef {
		e.pr("\tint _ps;\n")
	}
	e.pr("\t%s _trans;\n", e.uintType())
	if flags.AnyConditions {
		e.pr("\t%s _widec;\n", e.wideAlphType())
	}
	if e.an.AnyActions() {
		if ptr {
			actType := e.arrayType(e.an.Limits.MaxActArrItem, "maxActArrItem")
			e.pr("\t%s%s%s_acts;\n", e.d.PtrConst(), actType, e.d.Pointer())
			e.pr("\t%s _nacts;\n", e.uintType())
		} else {
			e.pr("\tint _acts;\n")
			e.pr("\tint _nacts;\n")
		}
	}
	if e.an.Layout == LayoutIndirect || flags.AnyConditions {
		if ptr {
			e.pr("\t%s%s%s_keys;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		} else {
			e.pr("\tint _keys;\n")
		}
	}
	e.pr("\n")
	e.pr("\tif ( %s == %s )\n\t\tgoto _test_eof;\n", e.vP(), e.vPE())
	e.pr("\tif ( %s == %s )\n\t\tgoto _out;\n", e.vCS(), e.errorState())

	e.pr("_resume:\n")
	if flags.AnyFromStateActions {
		e.execActions(e.arr("from_state_actions"), func(r ActionRefs) bool { return r.FromState > 0 }, false)
	}
	if flags.AnyRegCurStateRef {
		e.pr("\t_ps = %s;\n", e.vCS())
	}
	if flags.AnyConditions {
		e.condTranslate()
	}
	if e.an.Layout == LayoutFlat {
		e.locateFlat()
	} else {
		e.locateIndirect()
		e.pr("_match:\n")
	}
	e.pr("\t_trans = %s[_trans];\n", e.arr("indicies"))
	e.pr("\t%s = %s[_trans];\n", e.vCS(), e.arr("trans_targs"))
	e.pr("\n")
	if flags.AnyRegActions {
		e.pr("\tif ( %s[_trans] == 0 )\n\t\tgoto _again;\n", e.arr("trans_actions"))
		e.pr("\n")
		e.execActionsAt(e.arr("trans_actions")+"[_trans]", func(r ActionRefs) bool { return r.Trans > 0 }, false)
	}
	e.pr("\n_again:\n")
	if flags.AnyToStateActions {
		e.execActions(e.arr("to_state_actions"), func(r ActionRefs) bool { return r.ToState > 0 }, false)
	}
	e.pr("\tif ( %s == %s )\n\t\tgoto _out;\n", e.vCS(), e.errorState())
	e.pr("\tif ( ++%s != %s )\n\t\tgoto _resume;\n", e.vP(), e.vPE())

	e.pr("\t_test_eof: {}\n")
	if flags.AnyEofActions {
		e.pr("\tif ( %s == %s )\n\t{\n", e.vP(), e.vEOF())
		e.execActions(e.arr("eof_actions"), func(r ActionRefs) bool { return r.Eof > 0 }, true)
		e.pr("\t}\n")
	}
	e.pr("\n\t_out: {}\n")
	e.pr("\tif ( %s >= %s )\n\t\treturn 1;\n", e.vCS(), e.def("first_final"))
	e.pr("\treturn 0;\n")
	e.pr("}\n")
}

// execActions runs the action table located by arrName[cs]: a length
// prefix, then action ids dispatched through the shared switch.
func (e *Emitter) execActions(arrName string, pick func(ActionRefs) bool, inFinish bool) {
	e.execActionsAt(arrName+"["+e.vCS()+"]", pick, inFinish)
}

func (e *Emitter) execActionsAt(locExpr string, pick func(ActionRefs) bool, inFinish bool) {
	if e.d.HasPointers() {
		e.pr("\t_acts = %s;\n", e.d.ArrOff(e.arr("actions"), locExpr))
		e.pr("\t_nacts = %s *_acts++;\n", e.d.Cast(e.uintType()))
		e.pr("\twhile ( _nacts-- > 0 ) {\n")
		e.pr("\t\tswitch ( *_acts++ ) {\n")
	} else {
		e.pr("\t_acts = %s;\n", locExpr)
		e.pr("\t_nacts = %s[_acts++];\n", e.arr("actions"))
		e.pr("\twhile ( _nacts-- > 0 ) {\n")
		e.pr("\t\tswitch ( %s[_acts++] ) {\n", e.arr("actions"))
	}
	e.actionSwitch(pick, inFinish)
	e.pr("\t\t}\n")
	e.pr("\t}\n")
}

// actionSwitch writes one case per referenced action of the requested
// slot kind, in action-id order.
func (e *Emitter) actionSwitch(pick func(ActionRefs) bool, inFinish bool) {
	for ai, act := range e.pd.Actions {
		if e.an.IDs[ai] < 0 || !pick(e.an.Refs[ai]) {
			continue
		}
		e.pr("\tcase %d:\n", e.an.IDs[ai])
		var b strings.Builder
		e.action(&b, act, 0, inFinish)
		e.pr("%s", b.String())
		e.pr("\tbreak;\n")
	}
	if e.d.NeedsSwitchDefault {
		e.pr("\t\tdefault: break;\n")
	}
}

// --- Transition location ---------------------------------------------------

// locateIndirect binary-searches the single keys, then the range pairs,
// accumulating the slot offset into _trans; the default slot follows the
// ranges.
func (e *Emitter) locateIndirect() {
	wide := e.wideKey()
	keys := e.arr("trans_keys")
	e.pr("\t{\n")
	if e.d.HasPointers() {
		e.pr("\t\t_keys = %s;\n", e.d.ArrOff(keys, e.arr("key_offsets")+"["+e.vCS()+"]"))
		e.pr("\t\t_trans = %s[%s];\n", e.arr("index_offsets"), e.vCS())
		e.pr("\n")
		e.pr("\t\t_klen = %s[%s];\n", e.arr("single_lengths"), e.vCS())
		e.pr("\t\tif ( _klen > 0 ) {\n")
		e.pr("\t\t\t%s%s%s_lower = _keys;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\t%s%s%s_mid;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\t%s%s%s_upper = _keys + _klen - 1;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\twhile (1) {\n")
		e.pr("\t\t\t\tif ( _upper < _lower )\n\t\t\t\t\tbreak;\n")
		e.pr("\n\t\t\t\t_mid = _lower + ((_upper-_lower) >> 1);\n")
		e.pr("\t\t\t\tif ( %s < *_mid )\n\t\t\t\t\t_upper = _mid - 1;\n", wide)
		e.pr("\t\t\t\telse if ( %s > *_mid )\n\t\t\t\t\t_lower = _mid + 1;\n", wide)
		e.pr("\t\t\t\telse {\n\t\t\t\t\t_trans += (_mid - _keys);\n\t\t\t\t\tgoto _match;\n\t\t\t\t}\n")
		e.pr("\t\t\t}\n")
		e.pr("\t\t\t_keys += _klen;\n")
		e.pr("\t\t\t_trans += _klen;\n")
		e.pr("\t\t}\n")
		e.pr("\n")
		e.pr("\t\t_klen = %s[%s];\n", e.arr("range_lengths"), e.vCS())
		e.pr("\t\tif ( _klen > 0 ) {\n")
		e.pr("\t\t\t%s%s%s_lower = _keys;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\t%s%s%s_mid;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\t%s%s%s_upper = _keys + (_klen<<1) - 2;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer())
		e.pr("\t\t\twhile (1) {\n")
		e.pr("\t\t\t\tif ( _upper < _lower )\n\t\t\t\t\tbreak;\n")
		e.pr("\n\t\t\t\t_mid = _lower + (((_upper-_lower) >> 1) & ~1);\n")
		e.pr("\t\t\t\tif ( %s < _mid[0] )\n\t\t\t\t\t_upper = _mid - 2;\n", wide)
		e.pr("\t\t\t\telse if ( %s > _mid[1] )\n\t\t\t\t\t_lower = _mid + 2;\n", wide)
		e.pr("\t\t\t\telse {\n\t\t\t\t\t_trans += ((_mid - _keys)>>1);\n\t\t\t\t\tgoto _match;\n\t\t\t\t}\n")
		e.pr("\t\t\t}\n")
		e.pr("\t\t\t_trans += _klen;\n")
		e.pr("\t\t}\n")
	} else {
		e.pr("\t\t_keys = %s[%s];\n", e.arr("key_offsets"), e.vCS())
		e.pr("\t\t_trans = %s[%s];\n", e.arr("index_offsets"), e.vCS())
		e.pr("\n")
		e.pr("\t\t_klen = %s[%s];\n", e.arr("single_lengths"), e.vCS())
		e.pr("\t\tif ( _klen > 0 ) {\n")
		e.pr("\t\t\tint _lower = _keys;\n")
		e.pr("\t\t\tint _mid;\n")
		e.pr("\t\t\tint _upper = _keys + _klen - 1;\n")
		e.pr("\t\t\twhile (1) {\n")
		e.pr("\t\t\t\tif ( _upper < _lower )\n\t\t\t\t\tbreak;\n")
		e.pr("\n\t\t\t\t_mid = _lower + ((_upper-_lower) >> 1);\n")
		e.pr("\t\t\t\tif ( %s < %s[_mid] )\n\t\t\t\t\t_upper = _mid - 1;\n", wide, keys)
		e.pr("\t\t\t\telse if ( %s > %s[_mid] )\n\t\t\t\t\t_lower = _mid + 1;\n", wide, keys)
		e.pr("\t\t\t\telse {\n\t\t\t\t\t_trans += (_mid - _keys);\n\t\t\t\t\tgoto _match;\n\t\t\t\t}\n")
		e.pr("\t\t\t}\n")
		e.pr("\t\t\t_keys += _klen;\n")
		e.pr("\t\t\t_trans += _klen;\n")
		e.pr("\t\t}\n")
		e.pr("\n")
		e.pr("\t\t_klen = %s[%s];\n", e.arr("range_lengths"), e.vCS())
		e.pr("\t\tif ( _klen > 0 ) {\n")
		e.pr("\t\t\tint _lower = _keys;\n")
		e.pr("\t\t\tint _mid;\n")
		e.pr("\t\t\tint _upper = _keys + (_klen<<1) - 2;\n")
		e.pr("\t\t\twhile (1) {\n")
		e.pr("\t\t\t\tif ( _upper < _lower )\n\t\t\t\t\tbreak;\n")
		e.pr("\n\t\t\t\t_mid = _lower + (((_upper-_lower) >> 1) & ~1);\n")
		e.pr("\t\t\t\tif ( %s < %s[_mid] )\n\t\t\t\t\t_upper = _mid - 2;\n", wide, keys)
		e.pr("\t\t\t\telse if ( %s > %s[_mid+1] )\n\t\t\t\t\t_lower = _mid + 2;\n", wide, keys)
		e.pr("\t\t\t\telse {\n\t\t\t\t\t_trans += ((_mid - _keys)>>1);\n\t\t\t\t\tgoto _match;\n\t\t\t\t}\n")
		e.pr("\t\t\t}\n")
		e.pr("\t\t\t_trans += _klen;\n")
		e.pr("\t\t}\n")
	}
	e.pr("\t}\n")
}

// locateFlat indexes the dense row of the current state; keys outside
// the row's domain take the trailing default slot.
func (e *Emitter) locateFlat() {
	wide := e.wideKey()
	e.pr("\t{\n")
	if e.d.HasPointers() {
		e.pr("\t\t%s%s%s_fkeys = %s;\n", e.d.PtrConst(), e.wideAlphType(), e.d.Pointer(),
			e.d.ArrOff(e.arr("keys"), "("+e.vCS()+"<<1)"))
		e.pr("\t\t%s _slen = %s[%s];\n", e.uintType(), e.arr("key_spans"), e.vCS())
		e.pr("\t\t_trans = %s[%s];\n", e.arr("index_offsets"), e.vCS())
		e.pr("\t\tif ( _slen > 0 && _fkeys[0] <= %s && %s <= _fkeys[1] )\n", wide, wide)
		e.pr("\t\t\t_trans += %s %s - _fkeys[0];\n", e.d.Cast(e.uintType()), wide)
		e.pr("\t\telse\n\t\t\t_trans += _slen;\n")
	} else {
		e.pr("\t\tint _fkeys = %s << 1;\n", e.vCS())
		e.pr("\t\tint _slen = %s[%s];\n", e.arr("key_spans"), e.vCS())
		e.pr("\t\t_trans = %s[%s];\n", e.arr("index_offsets"), e.vCS())
		e.pr("\t\tif ( _slen > 0 && %s[_fkeys] <= %s && %s <= %s[_fkeys+1] )\n",
			e.arr("keys"), wide, wide, e.arr("keys"))
		e.pr("\t\t\t_trans += %s - %s[_fkeys];\n", wide, e.arr("keys"))
		e.pr("\t\telse\n\t\t\t_trans += _slen;\n")
	}
	e.pr("\t}\n")
}

// --- Condition translation -------------------------------------------------

// condTranslate computes the widened key: the raw key is looked up in
// the current state's condition intervals; a hit re-bases it into the
// matching condition space and, for each predicate i that holds, adds
// the alphabet span shifted left by i.
func (e *Emitter) condTranslate() {
	wide := e.getKey()
	ops := e.pd.KeyOps
	fullSpan := ops.Span(ops.MinKey, ops.MaxKey)

	e.pr("\t_widec = %s%s;\n", e.d.Cast(e.wideAlphType()), wide)
	e.pr("\t_klen = %s[%s];\n", e.arr("cond_lengths"), e.vCS())
	if e.d.HasPointers() {
		e.pr("\t_keys = %s;\n", e.d.ArrOff(e.arr("cond_keys"), "("+e.arr("cond_offsets")+"["+e.vCS()+"]*2)"))
	} else {
		e.pr("\t_keys = %s[%s]*2;\n", e.arr("cond_offsets"), e.vCS())
	}
	e.pr("\tif ( _klen > 0 ) {\n")
	if e.d.HasPointers() {
		e.pr("\t\t%s%s%s_lower = _keys;\n", e.d.PtrConst(), ops.AlphType.Spelling(), e.d.Pointer())
		e.pr("\t\t%s%s%s_mid;\n", e.d.PtrConst(), ops.AlphType.Spelling(), e.d.Pointer())
		e.pr("\t\t%s%s%s_upper = _keys + (_klen<<1) - 2;\n", e.d.PtrConst(), ops.AlphType.Spelling(), e.d.Pointer())
	} else {
		e.pr("\t\tint _lower = _keys;\n")
		e.pr("\t\tint _mid;\n")
		e.pr("\t\tint _upper = _keys + (_klen<<1) - 2;\n")
	}
	e.pr("\t\twhile (1) {\n")
	e.pr("\t\t\tif ( _upper < _lower )\n\t\t\t\tbreak;\n")
	e.pr("\n\t\t\t_mid = _lower + (((_upper-_lower) >> 1) & ~1);\n")
	if e.d.HasPointers() {
		e.pr("\t\t\tif ( %s < _mid[0] )\n\t\t\t\t_upper = _mid - 2;\n", wide)
		e.pr("\t\t\telse if ( %s > _mid[1] )\n\t\t\t\t_lower = _mid + 2;\n", wide)
	} else {
		e.pr("\t\t\tif ( %s < %s[_mid] )\n\t\t\t\t_upper = _mid - 2;\n", wide, e.arr("cond_keys"))
		e.pr("\t\t\telse if ( %s > %s[_mid+1] )\n\t\t\t\t_lower = _mid + 2;\n", wide, e.arr("cond_keys"))
	}
	e.pr("\t\t\telse {\n")
	e.pr("\t\t\t\tswitch ( %s[%s[%s] + ((_mid - _keys)>>1)] ) {\n",
		e.arr("cond_spaces"), e.arr("cond_offsets"), e.vCS())
	for _, cs := range e.pd.CondSpaces {
		e.pr("\tcase %d: {\n", cs.Index)
		e.pr("\t\t_widec = %s(%d + (%s - %d));\n",
			e.d.Cast(e.wideAlphType()), int64(cs.BaseKey), wide, int64(ops.MinKey))
		for i, ai := range cs.Actions {
			var b strings.Builder
			e.condition(&b, e.pd.Actions[ai])
			// the predicate opens on a fresh line so its directive
			// stays in column zero
			e.pr("\t\tif (%s\n ) _widec += %d;\n", b.String(), fullSpan<<uint(i))
		}
		e.pr("\t\tbreak;\n\t}\n")
	}
	if e.d.NeedsSwitchDefault {
		e.pr("\tdefault: break;\n")
	}
	e.pr("\t\t\t\t}\n")
	e.pr("\t\t\t\tbreak;\n")
	e.pr("\t\t\t}\n")
	e.pr("\t\t}\n")
	e.pr("\t}\n\n")
}
