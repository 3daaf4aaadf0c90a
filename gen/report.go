package gen

import (
	"strconv"

	"github.com/npillmayer/rex/fsm"
	"github.com/pterm/pterm"
)

// --- Analysis report -------------------------------------------------------

// Report prints a terminal summary of an analysis: machine dimensions,
// the layout decision and the sizing bounds. Intended as a developer aid
// when tuning front ends; the generated code does not depend on it.
func Report(pd *fsm.ParseData, an *Analysis) {
	pterm.Info.Println("machine " + pd.Name + ", layout " + an.Layout.String())
	l := an.Limits
	data := pterm.TableData{
		{"bound", "value"},
		{"states", strconv.Itoa(len(pd.Red.States))},
		{"transitions", strconv.FormatUint(l.MaxIndex, 10)},
		{"referenced actions", strconv.Itoa(an.NumIDs)},
		{"maxSingleLen", strconv.FormatUint(l.MaxSingleLen, 10)},
		{"maxRangeLen", strconv.FormatUint(l.MaxRangeLen, 10)},
		{"maxKeyOffset", strconv.FormatUint(l.MaxKeyOffset, 10)},
		{"maxIndexOffset", strconv.FormatUint(l.MaxIndexOffset, 10)},
		{"maxSpan", strconv.FormatUint(l.MaxSpan, 10)},
		{"maxFlatIndexOffset", strconv.FormatUint(l.MaxFlatIndexOffset, 10)},
		{"maxActListId", strconv.FormatUint(l.MaxActListId, 10)},
		{"maxActionLoc", strconv.FormatUint(l.MaxActionLoc, 10)},
		{"maxActArrItem", strconv.FormatUint(l.MaxActArrItem, 10)},
		{"maxState", strconv.FormatUint(l.MaxState, 10)},
	}
	if an.Flags.AnyConditions {
		data = append(data,
			[]string{"maxCondLen", strconv.FormatUint(l.MaxCondLen, 10)},
			[]string{"maxCondOffset", strconv.FormatUint(l.MaxCondOffset, 10)},
			[]string{"maxCondSpan", strconv.FormatUint(l.MaxCondSpan, 10)},
			[]string{"maxCondIndexOffset", strconv.FormatUint(l.MaxCondIndexOffset, 10)},
			[]string{"maxCondSpaceId", strconv.FormatUint(l.MaxCondSpaceId, 10)},
			[]string{"maxCond", strconv.FormatUint(l.MaxCond, 10)},
		)
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
