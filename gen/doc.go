/*
Package gen generates host-language driver code for a reduced state
machine.

Generation is a two-step affair, mirroring the split between analysis and
emission:

	analysis, err := gen.Analyze(pd, dialect)   // pure sweep over the IR
	emitter := gen.NewEmitter(pd, dialect, analysis, sink)
	err = emitter.WriteDriver(w)                // tables + init + execute

Analyze computes reference counts for every action, assigns ids to the
referenced ones, collects the machine-wide flags that switch driver
features on and off, and derives the numeric bounds that size every
generated array. It also decides between the flat and the indirect table
layout. All results are columns of the returned Analysis value; the IR
itself is never written to.

The emitter walks the reduced machine and writes the packed action array,
the key/offset/transition tables, an init routine and the execute loop.
User action bodies are spliced in through the inline expander, which
understands the full inline-item vocabulary (goto, call, hold, exec,
longest-match bookkeeping, …).

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gen

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rex.gen'.
func tracer() tracing.Trace {
	return tracing.Select("rex.gen")
}
