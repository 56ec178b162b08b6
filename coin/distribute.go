package coin

import "math/big"

// Distribute splits the integer amount n into len(weights) non-negative
// shares summing exactly to n, proportioned by weights (each a
// non-negative rational, conventionally summing to one though this is not
// required — shares are computed against the weights' own total).
//
// Algorithm: take the floor of each weighted share, then spread the
// leftover surplus s (or deficit, if n is negative) by adding |s|/k to
// every share and one more unit to the first |s| mod k shares, with the
// sign of s preserved. This is exact: the shares always sum to n.
func Distribute(weights []Fractional, n int64) []int64 {
	k := len(weights)
	if k == 0 {
		return nil
	}

	total := NewFractional(0, 1)
	for _, w := range weights {
		total = total.Add(w)
	}

	shares := make([]int64, k)
	floors := make([]Unbounded, k)
	sumFloors := UnboundedFromInt64(0)

	for i, w := range weights {
		var portion Fractional
		if total.Sign() == 0 {
			portion = NewFractional(0, 1)
		} else {
			portion = w.Mul(Fractional{r: new(big.Rat).SetInt64(n)}).Mul(
				Fractional{r: new(big.Rat).Inv(total.rat())},
			)
		}
		floors[i] = portion.Floor()
		sumFloors = sumFloors.Add(floors[i])
	}

	surplus := UnboundedFromInt64(n).Sub(sumFloors)
	surplusInt := surplus.bigInt().Int64()

	abs := surplusInt
	sign := int64(1)
	if abs < 0 {
		abs = -abs
		sign = -1
	}

	base := abs / int64(k)
	extra := abs % int64(k)

	for i := 0; i < k; i++ {
		add := base
		if int64(i) < extra {
			add++
		}
		shares[i] = floors[i].bigInt().Int64() + sign*add
	}
	return shares
}
