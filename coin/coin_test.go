package coin

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestNewRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, l := range []uint64{0, 1, 42, MaxCoin} {
		c, err := NewFromUint64(l)
		require.NoError(err)
		require.Equal(l, c.Lovelace())
	}

	_, err := New(-1)
	require.ErrorIs(err, ErrUnderflow)

	_, err = NewFromUint64(MaxCoin + 1)
	require.ErrorIs(err, ErrOverflow)
}

func TestCoinRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("Coin round-trips through int64 for all non-negative in range", prop.ForAll(
		func(l int64) bool {
			c, err := New(l)
			if err != nil {
				return false
			}
			return c.Lovelace() == uint64(l)
		},
		gen.Int64Range(0, int64(MaxCoin)),
	))

	properties.Property("negative lovelace always fails with Underflow", prop.ForAll(
		func(l int64) bool {
			_, err := New(-l - 1)
			return err != nil
		},
		gen.Int64Range(0, 1<<32),
	))

	properties.TestingRun(t)
}

func TestBankersRounding(t *testing.T) {
	require := require.New(t)

	half, err := NewFractional(1, 2).ToCoin()
	require.NoError(err)
	require.Equal(uint64(0), half.Lovelace())

	threeHalves, err := NewFractional(3, 2).ToCoin()
	require.NoError(err)
	require.Equal(uint64(2), threeHalves.Lovelace())

	negHalf := NewFractional(-1, 2).ToUnboundedRounded()
	require.Equal("0", negHalf.String())

	negThreeHalves := NewFractional(-3, 2).ToUnboundedRounded()
	require.Equal("-2", negThreeHalves.String())
}

func TestDistributeConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 200; trial++ {
		k := 1 + rng.Intn(8)
		weights := make([]Fractional, k)
		denom := int64(0)
		nums := make([]int64, k)
		for i := range nums {
			nums[i] = int64(rng.Intn(97) + 1)
			denom += nums[i]
		}
		for i := range weights {
			weights[i] = NewFractional(nums[i], denom)
		}
		n := int64(rng.Intn(1_000_000))

		shares := Distribute(weights, n)
		require.Len(t, shares, k)

		var sum int64
		for _, s := range shares {
			require.GreaterOrEqual(t, s, int64(0))
			sum += s
		}
		require.Equal(t, n, sum)
	}
}

func TestUnboundedArithmeticWidensThenNarrows(t *testing.T) {
	require := require.New(t)

	a, err := NewFromUint64(MaxCoin)
	require.NoError(err)
	b, err := NewFromUint64(1)
	require.NoError(err)

	sum := a.Add(b)
	_, err = sum.ToCoin()
	require.ErrorIs(err, ErrOverflow)

	diff := b.Sub(a)
	_, err = diff.ToCoin()
	require.ErrorIs(err, ErrUnderflow)
}
