package weights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAndEncodeSumsToScale(t *testing.T) {
	uids := []uint64{1, 2, 3}
	vals := []float64{0.5, 0.3, 0.2}

	outUids, outVals, err := NormalizeAndEncode(uids, vals)
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 2, 3}, outUids)

	var sum int
	for _, v := range outVals {
		sum += int(v)
	}
	assert.InDelta(t, U16Max, sum, 2, "encoded weights should sum to the fixed-point scale")

	// Relative ordering survives encoding.
	assert.Greater(t, outVals[0], outVals[1])
	assert.Greater(t, outVals[1], outVals[2])
}

func TestNormalizeAndEncodeUnnormalizedInput(t *testing.T) {
	// Inputs summing to 10 must land on the same encoding as inputs summing to 1.
	a1, v1, err := NormalizeAndEncode([]uint64{7, 9}, []float64{0.75, 0.25})
	require.NoError(t, err)
	a2, v2, err := NormalizeAndEncode([]uint64{7, 9}, []float64{7.5, 2.5})
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	assert.Equal(t, v1, v2)
}

func TestNormalizeAndEncodeDropsZeroEntries(t *testing.T) {
	outUids, outVals, err := NormalizeAndEncode([]uint64{5, 6, 7}, []float64{0.5, 0, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []uint16{5, 7}, outUids)
	assert.Len(t, outVals, 2)
}

func TestNormalizeAndEncodeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		uids []uint64
		vals []float64
	}{
		{"length mismatch", []uint64{1, 2}, []float64{0.5}},
		{"empty", nil, nil},
		{"nan", []uint64{1}, []float64{math.NaN()}},
		{"inf", []uint64{1}, []float64{math.Inf(1)}},
		{"negative", []uint64{1, 2}, []float64{0.5, -0.1}},
		{"all zero", []uint64{1, 2}, []float64{0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NormalizeAndEncode(tc.uids, tc.vals)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNormalizeAndEncodeRejectsWideUID(t *testing.T) {
	_, _, err := NormalizeAndEncode([]uint64{70000}, []float64{1.0})
	assert.ErrorIs(t, err, ErrUIDOverflow)
}

func TestDecodeApproximatesOriginal(t *testing.T) {
	_, encoded, err := NormalizeAndEncode([]uint64{1, 2, 3}, []float64{0.5, 0.3, 0.2})
	require.NoError(t, err)

	decoded := Decode(encoded)
	want := []float64{0.5, 0.3, 0.2}
	for i, d := range decoded {
		assert.InDelta(t, want[i], d, 1.0/float64(U16Max)*2)
	}
}

func TestClampToMaxRedistributes(t *testing.T) {
	out := ClampToMax([]float64{0.8, 0.1, 0.1}, 0.5)

	var sum float64
	for _, w := range out {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	for _, w := range out {
		assert.LessOrEqual(t, w, 0.5+1e-9)
	}
}

func TestClampToMaxConvergesWithNearCapEntry(t *testing.T) {
	// Redistribution from the top entry must not push an entry already at
	// the cap back over it. The exact solution here is [0.45, 0.45, 0.10].
	out := ClampToMax([]float64{0.5, 0.45, 0.05}, 0.45)

	require.Len(t, out, 3)
	assert.InDelta(t, 0.45, out[0], 1e-9)
	assert.InDelta(t, 0.45, out[1], 1e-9)
	assert.InDelta(t, 0.10, out[2], 1e-9)

	var sum float64
	for _, w := range out {
		sum += w
		assert.LessOrEqual(t, w, 0.45+1e-9)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClampToMaxCascadingPins(t *testing.T) {
	// Capping the largest entry pushes the next one over the cap in turn;
	// every pass must pin without disturbing already-pinned entries.
	out := ClampToMax([]float64{0.6, 0.25, 0.1, 0.05}, 0.3)

	var sum float64
	for _, w := range out {
		sum += w
		assert.LessOrEqual(t, w, 0.3+1e-9)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.3, out[0], 1e-9)
}

func TestClampToMaxUnsatisfiableFallsBackToUniform(t *testing.T) {
	out := ClampToMax([]float64{0.9, 0.05, 0.05}, 0.2)
	for _, w := range out {
		assert.InDelta(t, 1.0/3.0, w, 1e-9)
	}
}
