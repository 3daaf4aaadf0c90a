package gen

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/npillmayer/rex"
	"github.com/npillmayer/rex/fsm"
	"github.com/npillmayer/rex/fsm/run"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

// tables replays emitted driver tables, so tests can compare the
// generated encoding against the reference interpreter.
type tables struct {
	arrays map[string][]int
	consts map[string]int
}

var arrayPattern = regexp.MustCompile(`static const (?:\w+ )?(\w+) _(\w+)\[\] = \{([^}]*)\};`)
var constPattern = regexp.MustCompile(`static const int (\w+) = (-?\d+);`)

func parseTables(t *testing.T, src string) *tables {
	t.Helper()
	tb := &tables{arrays: map[string][]int{}, consts: map[string]int{}}
	for _, m := range arrayPattern.FindAllStringSubmatch(src, -1) {
		var vals []int
		for _, f := range strings.Split(m[3], ",") {
			f = strings.TrimSpace(f)
			f = strings.TrimSuffix(f, "u")
			if f == "" {
				continue
			}
			v, err := strconv.Atoi(f)
			require.NoError(t, err)
			vals = append(vals, v)
		}
		tb.arrays[m[2]] = vals
	}
	for _, m := range constPattern.FindAllStringSubmatch(src, -1) {
		v, _ := strconv.Atoi(m[2])
		tb.consts[m[1]] = v
	}
	return tb
}

// accepts walks the parsed tables over input, with the same locate
// semantics as the emitted execute loop.
func (tb *tables) accepts(input []byte) bool {
	cs := tb.consts["start"]
	_, flat := tb.arrays["key_spans"]
	for _, b := range input {
		k := int(int8(b))
		var trans int
		if flat {
			keys := tb.arrays["keys"]
			slen := tb.arrays["key_spans"][cs]
			trans = tb.arrays["index_offsets"][cs]
			if slen > 0 && keys[cs*2] <= k && k <= keys[cs*2+1] {
				trans += k - keys[cs*2]
			} else {
				trans += slen
			}
		} else {
			keys := tb.arrays["trans_keys"]
			koff := tb.arrays["key_offsets"][cs]
			trans = tb.arrays["index_offsets"][cs]
			klen := tb.arrays["single_lengths"][cs]
			matched := false
			for i := 0; i < klen; i++ {
				if k == keys[koff+i] {
					trans += i
					matched = true
					break
				}
			}
			if !matched {
				koff += klen
				trans += klen
				rlen := tb.arrays["range_lengths"][cs]
				for i := 0; i < rlen; i++ {
					if keys[koff+2*i] <= k && k <= keys[koff+2*i+1] {
						trans += i
						matched = true
						break
					}
				}
				if !matched {
					trans += rlen
				}
			}
		}
		tid := tb.arrays["indicies"][trans]
		cs = tb.arrays["trans_targs"][tid]
		if cs < 0 || cs == tb.consts["error"] {
			return false
		}
	}
	return cs >= tb.consts["first_final"]
}

var corpus = []string{
	"", "a", "b", "aa", "ab", "aab", "aba", "abc", "z", "az",
	"0", "9", "09", "m", "hello", " ", "a b", "ba",
}

func roundTrip(t *testing.T, pd *fsm.ParseData) {
	t.Helper()
	out := emit(t, pd, rex.CDialect())
	tb := parseTables(t, out)
	r := run.NewRunner(pd)
	for _, input := range corpus {
		want := r.Accepts([]byte(input))
		got := tb.accepts([]byte(input))
		if want != got {
			t.Errorf("machine %q, input %q: interpreter says %v, tables say %v",
				pd.Name, input, want, got)
		}
	}
}

func TestRoundTripSingle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	roundTrip(t, machineA())
}

func TestRoundTripPlus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	pd, _ := machineAB()
	roundTrip(t, pd)
}

func TestRoundTripRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	roundTrip(t, machineRange())
}

func TestRoundTripMixed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	// /([a-z]| )+0*b?/-ish shape with defaults and loops
	b := fsm.NewBuilder("mixed", rex.ASCIIKeyOps(rex.CDialect()))
	s0 := b.State()
	s1 := b.FinalState()
	s2 := b.FinalState()
	b.Start(s0)
	b.Range(s0, 'a', 'z', s1)
	b.Single(s0, ' ', s1)
	b.Range(s1, 'a', 'a', s1)
	b.Range(s1, 'c', 'z', s1)
	b.Single(s1, ' ', s1)
	b.Range(s1, '0', '9', s1)
	b.Single(s1, 'b', s2)
	pd := b.Options(false, false, true).Build()
	roundTrip(t, pd)
}

// The interpreter itself recognizes the expected languages.
func TestRunnerLanguages(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.gen")
	defer teardown()
	//
	r := run.NewRunner(machineA())
	require.True(t, r.Accepts([]byte("a")))
	require.False(t, r.Accepts([]byte("")))
	require.False(t, r.Accepts([]byte("aa")))
	require.False(t, r.Accepts([]byte("b")))

	pd, _ := machineAB()
	r = run.NewRunner(pd)
	require.True(t, r.Accepts([]byte("ab")))
	require.True(t, r.Accepts([]byte("aaab")))
	require.False(t, r.Accepts([]byte("b")))
	require.False(t, r.Accepts([]byte("aba")))
}
