package minada

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/params"
)

func TestMinAda(t *testing.T) {
	r := require.New(t)
	p := params.ProtocolParams{CoinsPerUTxOByte: 4_310}
	r.Equal(uint64(200+params.MinAdaConstantOverhead)*4_310, MinAda(p, 200))
}

func constSize(size int) SizeEncoder {
	return func(candidateCoin uint64) (int, error) { return size, nil }
}

func TestEnsureMinAdaAlreadySufficient(t *testing.T) {
	r := require.New(t)
	p := params.ProtocolParams{CoinsPerUTxOByte: 4_310}
	required := MinAda(p, 150)

	got, err := EnsureMinAda(p, constSize(150), required)
	r.NoError(err)
	r.Equal(required, got)
}

func TestEnsureMinAdaRaisesInsufficientCoin(t *testing.T) {
	r := require.New(t)
	p := params.ProtocolParams{CoinsPerUTxOByte: 4_310}

	got, err := EnsureMinAda(p, constSize(150), 0)
	r.NoError(err)
	r.Equal(MinAda(p, 150), got)
	r.Positive(got)
}

// growsWithCoin models an output whose encoded size grows by one byte
// for every extra decimal digit the coin field needs, so the fixed point
// has to iterate more than once.
func growsWithCoin(baseSize int) SizeEncoder {
	return func(candidateCoin uint64) (int, error) {
		digits := 1
		for v := candidateCoin; v >= 10; v /= 10 {
			digits++
		}
		return baseSize + digits, nil
	}
}

func TestEnsureMinAdaConvergesWhenSizeGrowsWithCoin(t *testing.T) {
	r := require.New(t)
	p := params.ProtocolParams{CoinsPerUTxOByte: 4_310}

	got, err := EnsureMinAda(p, growsWithCoin(40), 0)
	r.NoError(err)

	size, err := growsWithCoin(40)(got)
	r.NoError(err)
	r.GreaterOrEqual(got, MinAda(p, size))
}
