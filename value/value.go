// Package value implements the MultiAsset algebra: addition, negation,
// subtraction, scalar multiplication, and partial-order comparison over
// nested PolicyId -> AssetName -> Quantity maps, always re-normalized to
// the canonical form (no zero-quantity entry, no empty inner map).
package value

import (
	"sort"

	"golang.org/x/exp/maps"
)

// PolicyId identifies a minting policy (28-byte script hash, opaque here).
type PolicyId [28]byte

// AssetName is the raw (unhashed) name of a native asset, up to 32 bytes.
type AssetName string

// MultiAsset is a canonical PolicyId -> AssetName -> Quantity mapping.
// The zero value is the empty (canonical) MultiAsset.
type MultiAsset struct {
	policies map[PolicyId]map[AssetName]int64
}

// Empty returns the canonical empty MultiAsset.
func Empty() MultiAsset {
	return MultiAsset{}
}

// New builds a MultiAsset from a raw nested map, normalizing it.
func New(raw map[PolicyId]map[AssetName]int64) MultiAsset {
	m := MultiAsset{policies: map[PolicyId]map[AssetName]int64{}}
	for policy, assets := range raw {
		for name, qty := range assets {
			m = m.with(policy, name, qty)
		}
	}
	return m.normalize()
}

// IsEmpty reports whether m has no policies (the canonical zero form).
func (m MultiAsset) IsEmpty() bool {
	return len(m.policies) == 0
}

// Get returns the quantity of (policy, name), or 0 if absent.
func (m MultiAsset) Get(policy PolicyId, name AssetName) int64 {
	assets, ok := m.policies[policy]
	if !ok {
		return 0
	}
	return assets[name]
}

// Policies returns the sorted set of policy ids present, for deterministic
// iteration (canonical CBOR map-key order downstream).
func (m MultiAsset) Policies() []PolicyId {
	ids := maps.Keys(m.policies)
	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i][:]) < string(ids[j][:])
	})
	return ids
}

// AssetsOf returns the sorted asset names under policy, for deterministic
// iteration.
func (m MultiAsset) AssetsOf(policy PolicyId) []AssetName {
	assets := m.policies[policy]
	names := make([]AssetName, 0, len(assets))
	for name := range assets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (m MultiAsset) with(policy PolicyId, name AssetName, qty int64) MultiAsset {
	out := map[PolicyId]map[AssetName]int64{}
	for p, assets := range m.policies {
		inner := make(map[AssetName]int64, len(assets))
		for n, q := range assets {
			inner[n] = q
		}
		out[p] = inner
	}
	inner, ok := out[policy]
	if !ok {
		inner = map[AssetName]int64{}
		out[policy] = inner
	}
	inner[name] += qty
	return MultiAsset{policies: out}
}

// normalize prunes zero-quantity entries and empty policy maps, producing
// the unique canonical form.
func (m MultiAsset) normalize() MultiAsset {
	out := map[PolicyId]map[AssetName]int64{}
	for policy, assets := range m.policies {
		inner := map[AssetName]int64{}
		for name, qty := range assets {
			if qty != 0 {
				inner[name] = qty
			}
		}
		if len(inner) > 0 {
			out[policy] = inner
		}
	}
	return MultiAsset{policies: out}
}

// Add returns m + other.
func (m MultiAsset) Add(other MultiAsset) MultiAsset {
	out := map[PolicyId]map[AssetName]int64{}
	for policy, assets := range m.policies {
		inner := map[AssetName]int64{}
		for name, qty := range assets {
			inner[name] = qty
		}
		out[policy] = inner
	}
	for policy, assets := range other.policies {
		inner, ok := out[policy]
		if !ok {
			inner = map[AssetName]int64{}
			out[policy] = inner
		}
		for name, qty := range assets {
			inner[name] += qty
		}
	}
	return MultiAsset{policies: out}.normalize()
}

// Neg returns -m.
func (m MultiAsset) Neg() MultiAsset {
	out := map[PolicyId]map[AssetName]int64{}
	for policy, assets := range m.policies {
		inner := map[AssetName]int64{}
		for name, qty := range assets {
			inner[name] = -qty
		}
		out[policy] = inner
	}
	return MultiAsset{policies: out}.normalize()
}

// Sub returns m - other.
func (m MultiAsset) Sub(other MultiAsset) MultiAsset {
	return m.Add(other.Neg())
}

// ScaleInt returns m scaled by an integral factor.
func (m MultiAsset) ScaleInt(factor int64) MultiAsset {
	out := map[PolicyId]map[AssetName]int64{}
	for policy, assets := range m.policies {
		inner := map[AssetName]int64{}
		for name, qty := range assets {
			inner[name] = qty * factor
		}
		out[policy] = inner
	}
	return MultiAsset{policies: out}.normalize()
}

// Equal reports whether m and other are the same canonical value.
func (m MultiAsset) Equal(other MultiAsset) bool {
	return m.Sub(other).IsEmpty()
}

// Positive reports whether every asset quantity present is strictly
// positive (used by the "positive outputs" validator).
func (m MultiAsset) Positive() bool {
	for _, assets := range m.policies {
		for _, qty := range assets {
			if qty <= 0 {
				return false
			}
		}
	}
	return true
}

// Ordering is the result of comparing two partially-ordered values.
type Ordering int

const (
	// Incomparable means neither a <= b nor b <= a holds.
	Incomparable Ordering = iota
	Less
	Equal
	Greater
)

// Compare implements the partial order a <= b <=> for every (policy,
// asset): a[policy][asset] <= b[policy][asset], treating missing keys as
// zero. Returns Incomparable when neither direction holds.
func (m MultiAsset) Compare(other MultiAsset) Ordering {
	leq := m.LessEq(other)
	geq := other.LessEq(m)
	switch {
	case leq && geq:
		return Equal
	case leq:
		return Less
	case geq:
		return Greater
	default:
		return Incomparable
	}
}

// LessEq reports whether m <= other component-wise.
func (m MultiAsset) LessEq(other MultiAsset) bool {
	for policy, assets := range m.policies {
		for name, qty := range assets {
			if qty > other.Get(policy, name) {
				return false
			}
		}
	}
	return true
}

// Value is the full transaction value: ada plus native assets.
type Value struct {
	Coin   int64 // signed lovelace; callers narrow to coin.Coin at the edges
	Assets MultiAsset
}

// Zero is the additive identity Value.
var Zero = Value{}

// FromCoin builds a pure-ada Value.
func FromCoin(lovelace int64) Value {
	return Value{Coin: lovelace}
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	return Value{Coin: v.Coin + other.Coin, Assets: v.Assets.Add(other.Assets)}
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return Value{Coin: v.Coin - other.Coin, Assets: v.Assets.Sub(other.Assets)}
}

// Neg returns -v.
func (v Value) Neg() Value {
	return Value{Coin: -v.Coin, Assets: v.Assets.Neg()}
}

// Equal reports whether v and other are the same value, coin and assets.
func (v Value) Equal(other Value) bool {
	return v.Coin == other.Coin && v.Assets.Equal(other.Assets)
}

// IsZero reports whether v is exactly the zero value.
func (v Value) IsZero() bool {
	return v.Coin == 0 && v.Assets.IsEmpty()
}

// Sum adds together a slice of values, useful for folding per-output or
// per-input values into one total.
func Sum(values []Value) Value {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
