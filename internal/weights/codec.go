// Package weights converts floating-point weight vectors into the u16
// fixed-point representation subtensor expects and produces the commitment
// digests verified on-chain during reveal.
package weights

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// U16Max is the fixed-point scale factor: a weight of U16Max represents 1.0.
	U16Max = 65535
)

var (
	// ErrInvalidInput marks malformed weight vectors. Local, never retried.
	ErrInvalidInput = errors.New("invalid weight input")
	// ErrUIDOverflow marks a uid that does not fit the chain's u16 width.
	ErrUIDOverflow = errors.New("uid overflows u16")
)

// NormalizeAndEncode scales weights so they sum to U16Max and returns the
// index-aligned (uids, weights) pair with zero-valued entries dropped, which
// is the payload shape subtensor expects for both set_weights and reveals.
//
// The scale factor is recomputed on every call; weight sets differ per subnet
// and per step, so nothing here is cacheable.
func NormalizeAndEncode(uids []uint64, weights []float64) ([]uint16, []uint16, error) {
	if len(uids) != len(weights) {
		return nil, nil, fmt.Errorf("%w: uids and weights must have the same length, got %d and %d", ErrInvalidInput, len(uids), len(weights))
	}
	if len(weights) == 0 {
		return nil, nil, fmt.Errorf("%w: empty weight vector", ErrInvalidInput)
	}

	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, nil, fmt.Errorf("%w: weight for uid %d is not finite", ErrInvalidInput, uids[i])
		}
		if w < 0 {
			return nil, nil, fmt.Errorf("%w: weight for uid %d is negative", ErrInvalidInput, uids[i])
		}
	}

	sum := floats.Sum(weights)
	if sum == 0 {
		return nil, nil, fmt.Errorf("%w: all weights are zero", ErrInvalidInput)
	}

	scale := float64(U16Max) / sum

	weightUids := make([]uint16, 0, len(uids))
	weightVals := make([]uint16, 0, len(weights))
	for i, w := range weights {
		val := math.Round(w * scale)
		if val <= 0 {
			continue
		}
		if uids[i] > U16Max {
			return nil, nil, fmt.Errorf("%w: uid %d", ErrUIDOverflow, uids[i])
		}
		if val > U16Max {
			val = U16Max
		}
		weightUids = append(weightUids, uint16(uids[i]))
		weightVals = append(weightVals, uint16(val))
	}

	return weightUids, weightVals, nil
}

// Decode converts fixed-point weights back to floats in [0, 1]. Diagnostic
// only; reconstruction is accurate to ~1/65535 per element and never feeds
// back into encoding.
func Decode(vals []uint16) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v) / float64(U16Max)
	}
	return out
}

// ClampToMax normalizes weights to sum 1.0 and redistributes any share above
// maxWeight proportionally across the entries below the cap. Used when a
// subnet enforces a per-uid weight ceiling.
//
// Entries pinned at the cap are excluded from redistribution; each pass
// either pins at least one more entry or reaches a fixed point, so the loop
// is bounded by len(weights) passes. Degenerate inputs where the cap is
// unsatisfiable (n*maxWeight <= 1) fall back to uniform.
func ClampToMax(weights []float64, maxWeight float64) []float64 {
	n := len(weights)
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	copy(out, weights)

	sum := floats.Sum(out)
	if sum <= 0 || maxWeight <= 0 {
		for i := range out {
			out[i] = 1.0 / float64(n)
		}
		return out
	}
	floats.Scale(1.0/sum, out)

	if float64(n)*maxWeight <= 1.0 {
		// Cap is unsatisfiable for a distribution summing to 1; uniform is
		// the closest admissible vector.
		for i := range out {
			out[i] = 1.0 / float64(n)
		}
		return out
	}

	capped := make([]bool, n)
	for pass := 0; pass < n; pass++ {
		nCapped := 0
		uncappedSum := 0.0
		for i, w := range out {
			if capped[i] {
				nCapped++
				continue
			}
			uncappedSum += w
		}
		if uncappedSum == 0 {
			break
		}

		// Pinned entries hold nCapped*maxWeight of the total; scale the rest
		// to fill the remaining budget.
		scale := (1.0 - float64(nCapped)*maxWeight) / uncappedSum
		pinned := false
		for i := range out {
			if capped[i] {
				out[i] = maxWeight
				continue
			}
			w := out[i] * scale
			if w > maxWeight {
				capped[i] = true
				w = maxWeight
				pinned = true
			}
			out[i] = w
		}
		if !pinned {
			break
		}
	}

	return out
}
