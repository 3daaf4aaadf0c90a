/*
Package rex is the back end of a compiler for regular languages.
It consumes a fully constructed finite-state recognizer IR, produced by
upstream parsing and automata-construction passes, and emits a driver for
the recognizer in a host programming language. The same back end emits
Graphviz diagrams of the state machine.

The module is organized around a small set of shared base types, defined
in this package: alphabet keys, host integer types and host-language
dialects. Subpackages build on them:

▪︎ Package fsm holds the intermediate representation: the reduced state
machine consumed by code generation, the action and inline-item arenas,
and the unreduced state graph consumed by the Graphviz back end.

▪︎ Package gen analyzes a reduced machine, sizes the generated tables,
decides on a table layout, and writes the driver code.

▪︎ Package dot writes Graphviz diagrams of the unreduced machine.

▪︎ Package fsm/run interprets a reduced machine directly; it backs the
round-trip tests of the code generator.

Clients hand a complete fsm.ParseData bundle to the back ends; building
one (from a regular expression, a grammar, or any other front end) is not
the business of this module.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rex

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rex'.
func tracer() tracing.Trace {
	return tracing.Select("rex")
}
