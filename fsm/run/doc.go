/*
Package run interprets a reduced state machine directly.

The interpreter backs the round-trip tests of the code generator: an
input is accepted by the emitted driver iff the interpreter accepts it
over the same reduced machine. It executes transitions only, never user
actions, and does not understand condition-specialized machines.

The transition function is pre-compiled into a sparse integer matrix
(triplet-encoded, one row per state, one column per key of the machine's
key domain); missing entries fall through to the state's default
transition.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package run

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rex.fsm'.
func tracer() tracing.Trace {
	return tracing.Select("rex.fsm")
}
