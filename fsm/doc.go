/*
Package fsm holds the intermediate representation consumed by the rex
back ends: the reduced state machine the code generator walks, the arenas
for actions, shared action tables and interned transitions, and the
unreduced state graph the Graphviz back end draws.

A front end (or a test) assembles a complete ParseData bundle, usually
through a Builder:

	b := fsm.NewBuilder("scanner", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	b.Single(s0, 'a', s1)
	pd := b.Build()

The bundle is immutable once handed to a back end. Reference counters,
action ids and numeric bounds are not part of the IR; they are columns of
the analysis result in package gen, computed in a single pure sweep.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fsm

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rex.fsm'.
func tracer() tracing.Trace {
	return tracing.Select("rex.fsm")
}
