/*
Package dot writes Graphviz diagrams of a state machine.

The diagram is drawn from the unreduced graph of a ParseData bundle, the
machine as the user wrote it: edges keep their action names and condition
predicates, entry points and EOF hooks appear as pseudo-nodes, and final
states render as double circles.

	var buf bytes.Buffer
	dot.Write(&buf, pd)

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rex.dot'.
func tracer() tracing.Trace {
	return tracing.Select("rex.dot")
}
