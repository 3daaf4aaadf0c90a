package run

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestMatrixSetAndGet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.fsm")
	defer teardown()
	//
	M := NewMatrix(10, 10, -1)
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("M[2,3] should be 4711, is %d", v)
	}
	if v := M.Value(9, 9); v != -1 {
		t.Errorf("empty entry should return the null-value, is %d", v)
	}
	M.Set(2, 3, 7)
	if v := M.Value(2, 3); v != 7 {
		t.Errorf("overwrite failed, M[2,3] is %d", v)
	}
	if M.ValueCount() != 1 {
		t.Errorf("expected 1 stored triplet, have %d", M.ValueCount())
	}
}

func TestMatrixOrdering(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rex.fsm")
	defer teardown()
	//
	M := NewMatrix(5, 5, 0)
	M.Set(3, 1, 31)
	M.Set(1, 4, 14)
	M.Set(1, 2, 12)
	M.Set(4, 0, 40)
	for _, probe := range []struct{ i, j, v int }{
		{1, 2, 12}, {1, 4, 14}, {3, 1, 31}, {4, 0, 40},
	} {
		if got := M.Value(probe.i, probe.j); got != int32(probe.v) {
			t.Errorf("M[%d,%d] should be %d, is %d", probe.i, probe.j, probe.v, got)
		}
	}
	if M.ValueCount() != 4 {
		t.Errorf("expected 4 stored triplets, have %d", M.ValueCount())
	}
}
