package run

import (
	"fmt"
)

// --- Sparse transition matrix ----------------------------------------------

// Matrix is a sparse integer matrix for transition functions: rows are
// state ids, columns key offsets. Entries are kept as sorted triplets
// (COO encoding), which suits the typical recognizer where most states
// see a handful of keys.
//
//	M := NewMatrix(states, span, -1)  // last parameter is M's null-value
//	M.Set(2, 3, 4711)
//	v := M.Value(2, 3)                // returns 4711
//	v = M.Value(9, 9)                 // returns -1, the null-value
type Matrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

type triplet struct {
	row, col int
	value    int32
}

// NewMatrix creates a matrix of size m x n. The 3rd argument is the
// null-value returned for empty entries.
func NewMatrix(m, n int, nullValue int32) *Matrix {
	return &Matrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *Matrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *Matrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *Matrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of values in the matrix.
func (m *Matrix) ValueCount() int {
	return len(m.values)
}

// Value returns the value at position (i,j), or NullValue.
func (m *Matrix) Value(i, j int) int32 {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.value
			}
			break
		}
	}
	return m.nullval
}

// Set a value in the matrix at position (i,j), overwriting any previous
// one.
func (m *Matrix) Set(i, j int, value int32) *Matrix {
	at := 0 // will be position of new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				m.values[k].value = value
				return m
			}
			break // no old value present
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: value}
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder one index right
	m.values[at] = tnew
	return m
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}

func (t triplet) String() string {
	return fmt.Sprintf("(%d,%d)=%d", t.row, t.col, t.value)
}
