package fee

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/txs"
)

func testParams() params.ProtocolParams {
	return params.ProtocolParams{
		FeeFixed:                   155_381,
		FeePerByte:                 44,
		PriceMemNum:                577,
		PriceMemDen:                10_000,
		PriceStepsNum:              721,
		PriceStepsDen:              10_000_000,
		MinFeeRefScriptCostPerByte: 15,
	}
}

func TestSizeFee(t *testing.T) {
	r := require.New(t)
	p := testParams()
	r.Equal(p.FeeFixed+44*300, SizeFee(p, 300))
}

func TestExUnitsFeeZero(t *testing.T) {
	r := require.New(t)
	p := testParams()
	r.Equal(uint64(0), ExUnitsFee(p, txs.ExUnits{}))
}

func TestExUnitsFeePositive(t *testing.T) {
	r := require.New(t)
	p := testParams()
	got := ExUnitsFee(p, txs.ExUnits{Memory: 1_000_000, Steps: 500_000_000})
	r.Positive(got)
}

func TestRefScriptsFeeZeroBytes(t *testing.T) {
	r := require.New(t)
	r.Equal(uint64(0), RefScriptsFee(15, 0))
}

func TestRefScriptsFeeUnderOneStride(t *testing.T) {
	r := require.New(t)
	r.Equal(uint64(15*1000), RefScriptsFee(15, 1000))
}

func TestRefScriptsFeeMultipleStridesIncreasesPerByteCost(t *testing.T) {
	r := require.New(t)
	oneStride := RefScriptsFee(15, params.ReferenceScriptStride)
	twoStrides := RefScriptsFee(15, 2*params.ReferenceScriptStride)
	// The second stride's bytes are priced at 1.2x the first, so doubling
	// the bytes more than doubles the fee.
	r.Greater(twoStrides, 2*oneStride)
}

func TestMinFeeSumsComponents(t *testing.T) {
	r := require.New(t)
	p := testParams()
	in := Inputs{Size: 300, TotalExUnits: txs.ExUnits{Memory: 1_000_000, Steps: 500_000_000}, ReferenceScriptSize: 100}
	got := MinFee(p, in)
	want := SizeFee(p, 300) + ExUnitsFee(p, in.TotalExUnits) + RefScriptsFee(p.MinFeeRefScriptCostPerByte, 100)
	r.Equal(want, got)
}

// sizeGrowsWithFee models a transaction body whose CBOR size grows by one
// byte every time the fee field needs one more decimal digit, so the
// fixed point actually has to iterate.
func sizeGrowsWithFee(baseSize int) Encoder {
	return func(candidateFee uint64) (int, error) {
		digits := 1
		for v := candidateFee; v >= 10; v /= 10 {
			digits++
		}
		return baseSize + digits, nil
	}
}

func TestEnsureMinFeeConverges(t *testing.T) {
	r := require.New(t)
	p := testParams()

	fee, err := EnsureMinFee(p, sizeGrowsWithFee(250), txs.ExUnits{}, 0, 0)
	r.NoError(err)

	size, err := sizeGrowsWithFee(250)(fee)
	r.NoError(err)
	required := MinFee(p, Inputs{Size: size, TotalExUnits: txs.ExUnits{}})
	r.GreaterOrEqual(fee, required)
}

func TestEnsureMinFeeCountedReportsIterations(t *testing.T) {
	r := require.New(t)
	p := testParams()

	fee, iterations, err := EnsureMinFeeCounted(p, sizeGrowsWithFee(250), txs.ExUnits{}, 0, 0)
	r.NoError(err)
	r.Positive(fee)
	r.GreaterOrEqual(iterations, 1)
	r.LessOrEqual(iterations, 16)
}

func TestEnsureMinFeeStableStartDoesNotIterate(t *testing.T) {
	r := require.New(t)
	p := testParams()

	constSize := func(candidateFee uint64) (int, error) { return 300, nil }
	required := MinFee(p, Inputs{Size: 300})

	_, iterations, err := EnsureMinFeeCounted(p, constSize, txs.ExUnits{}, 0, required)
	r.NoError(err)
	r.Equal(1, iterations)
}
