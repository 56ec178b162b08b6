package value

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func randPolicy(rng *rand.Rand) PolicyId {
	var p PolicyId
	rng.Read(p[:])
	return p
}

func randMultiAsset(rng *rand.Rand) MultiAsset {
	raw := map[PolicyId]map[AssetName]int64{}
	policies := 1 + rng.Intn(3)
	for i := 0; i < policies; i++ {
		p := randPolicy(rng)
		assets := map[AssetName]int64{}
		names := 1 + rng.Intn(3)
		for j := 0; j < names; j++ {
			name := AssetName([]byte{byte('a' + j)})
			assets[name] = int64(rng.Intn(2001) - 1000)
		}
		raw[p] = assets
	}
	return New(raw)
}

func genMultiAsset() gopter.Gen {
	return func(genParams *gopter.GenParameters) *gopter.GenResult {
		rng := rand.New(rand.NewSource(genParams.Rng.Int63()))
		m := randMultiAsset(rng)
		return gopter.NewGenResult(m, gopter.NoShrinker)
	}
}

func TestMultiAssetGroupLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("associative", prop.ForAll(
		func(a, b, c MultiAsset) bool {
			lhs := a.Add(b).Add(c)
			rhs := a.Add(b.Add(c))
			return lhs.Equal(rhs)
		},
		genMultiAsset(), genMultiAsset(), genMultiAsset(),
	))

	properties.Property("commutative", prop.ForAll(
		func(a, b MultiAsset) bool {
			return a.Add(b).Equal(b.Add(a))
		},
		genMultiAsset(), genMultiAsset(),
	))

	properties.Property("self-subtraction is zero", prop.ForAll(
		func(a MultiAsset) bool {
			return a.Sub(a).IsEmpty()
		},
		genMultiAsset(),
	))

	properties.Property("adding the empty value is a no-op", prop.ForAll(
		func(a MultiAsset) bool {
			return a.Add(Empty()).Equal(a)
		},
		genMultiAsset(),
	))

	properties.Property("partial order reflexive", prop.ForAll(
		func(a MultiAsset) bool {
			return a.Compare(a) == Equal
		},
		genMultiAsset(),
	))

	properties.Property("partial order antisymmetric", prop.ForAll(
		func(a, b MultiAsset) bool {
			if a.LessEq(b) && b.LessEq(a) {
				return a.Equal(b)
			}
			return true
		},
		genMultiAsset(), genMultiAsset(),
	))

	properties.TestingRun(t)
}

func TestNormalizationPrunesZeroEntries(t *testing.T) {
	require := require.New(t)

	p := PolicyId{1}
	a := New(map[PolicyId]map[AssetName]int64{
		p: {"tok": 5},
	})
	b := New(map[PolicyId]map[AssetName]int64{
		p: {"tok": 5},
	})

	zero := a.Sub(b)
	require.True(zero.IsEmpty())
	require.Equal(0, len(zero.Policies()))
}

func TestValuePositiveOutputs(t *testing.T) {
	require := require.New(t)

	p := PolicyId{2}
	positive := New(map[PolicyId]map[AssetName]int64{p: {"tok": 1}})
	require.True(positive.Positive())

	negative := New(map[PolicyId]map[AssetName]int64{p: {"tok": -1}})
	require.False(negative.Positive())
}
