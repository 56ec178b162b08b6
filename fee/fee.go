// Package fee implements the minimum-fee calculator of spec.md §4.5: size
// fee, execution-unit fee, and the tiered reference-script fee, plus the
// fixed-point EnsureMinFee iteration.
package fee

import (
	"github.com/conway-ledger/core/coin"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/txs"
)

// SizeFee returns fixed + per_byte * size.
func SizeFee(p params.ProtocolParams, size int) uint64 {
	return p.FeeFixed + p.FeePerByte*uint64(size)
}

// ExUnitsFee returns price_mem * total_mem + price_steps * total_steps,
// each price term computed as an exact rational before a single final
// floor, per spec.md §4.5.
func ExUnitsFee(p params.ProtocolParams, total txs.ExUnits) uint64 {
	mem := coin.NewFractional(int64(total.Memory), 1).Mul(coin.NewFractional(p.PriceMemNum, p.PriceMemDen))
	steps := coin.NewFractional(int64(total.Steps), 1).Mul(coin.NewFractional(p.PriceStepsNum, p.PriceStepsDen))
	total2 := mem.Add(steps)
	u := total2.Floor()
	v, err := u.ToCoin()
	if err != nil {
		// Execution-unit fees are bounded by MaxTxExecutionUnits * price,
		// which the caller is expected to have validated is
		// representable; a negative total here would indicate a
		// programmer error upstream, not a user-facing condition.
		return 0
	}
	return v.Lovelace()
}

// RefScriptsFee computes the tiered reference-script fee for n total
// reference-script bytes, per spec.md §4.5: walk in strides of S=25_600
// bytes, with the per-byte price multiplying by 1.2 at each full stride,
// over exact rationals, flooring only the final total.
func RefScriptsFee(pricePerByte uint64, totalBytes int) uint64 {
	if totalBytes <= 0 {
		return 0
	}

	feeAcc := coin.NewFractional(0, 1)
	price := coin.NewFractional(int64(pricePerByte), 1)
	remaining := int64(totalBytes)
	stride := int64(params.ReferenceScriptStride)
	multiplier := coin.NewFractional(params.ReferenceScriptMultiplierNum, params.ReferenceScriptMultiplierDen)

	for remaining >= stride {
		feeAcc = feeAcc.Add(price.MulInt(stride))
		price = price.Mul(multiplier)
		remaining -= stride
	}
	feeAcc = feeAcc.Add(price.MulInt(remaining))

	u := feeAcc.Floor()
	v, err := u.ToCoin()
	if err != nil {
		return 0
	}
	return v.Lovelace()
}

// Inputs bundles everything MinFee needs beyond the protocol parameters:
// the transaction's canonical size, its redeemers' total ex-units, and
// the total bytes of every reference script it touches.
type Inputs struct {
	Size               int
	TotalExUnits       txs.ExUnits
	ReferenceScriptSize int
}

// MinFee computes fixed + per_byte*size + exec_units_fee + ref_scripts_fee,
// per spec.md §4.5.
func MinFee(p params.ProtocolParams, in Inputs) uint64 {
	return SizeFee(p, in.Size) +
		ExUnitsFee(p, in.TotalExUnits) +
		RefScriptsFee(p.MinFeeRefScriptCostPerByte, in.ReferenceScriptSize)
}

// Encoder computes a transaction's canonical-CBOR size after its fee
// field has been set to candidateFee, used by EnsureMinFee to re-measure
// the transaction at each fixed-point iteration. How the size is obtained
// is up to the implementation; cborx.NewFeeEncoder encodes the body and
// returns the length of the resulting bytes.
type Encoder func(candidateFee uint64) (size int, err error)

// EnsureMinFee implements the fixed-point variant of spec.md §4.5:
// because the fee is itself encoded inside the transaction, raising it
// may change the transaction's size and thus its own minimum. It
// iterates until the current candidate fee is >= the min-fee computed at
// the candidate's own encoded size, which terminates because the fee is
// monotonically non-decreasing and bounded above (spec.md §8 property 6:
// "terminates in <= 3 steps for any well-formed transaction").
func EnsureMinFee(p params.ProtocolParams, encode Encoder, totalExUnits txs.ExUnits, refScriptSize int, startingFee uint64) (uint64, error) {
	fee, _, err := EnsureMinFeeCounted(p, encode, totalExUnits, refScriptSize, startingFee)
	return fee, err
}

// EnsureMinFeeCounted is EnsureMinFee but also reports how many
// iterations the fixed point took, for callers that want to watch for
// convergence drift (spec.md §8 property 6).
func EnsureMinFeeCounted(p params.ProtocolParams, encode Encoder, totalExUnits txs.ExUnits, refScriptSize int, startingFee uint64) (uint64, int, error) {
	candidate := startingFee
	const maxIterations = 16 // generous backstop; real transactions converge in <=3

	for i := 0; i < maxIterations; i++ {
		size, err := encode(candidate)
		if err != nil {
			return 0, i + 1, err
		}
		required := MinFee(p, Inputs{Size: size, TotalExUnits: totalExUnits, ReferenceScriptSize: refScriptSize})
		if candidate >= required {
			return candidate, i + 1, nil
		}
		candidate = required
	}
	return candidate, maxIterations, nil
}
