// Package minada implements the per-output minimum-ada calculator of
// spec.md §4.8, including its fixed-point convergence when raising an
// output's coin enlarges its own encoded size.
package minada

import (
	"github.com/conway-ledger/core/params"
)

// SizeEncoder returns the canonical CBOR byte length of an output once
// its coin field is set to candidateCoin (the caller supplies this,
// since only cborx knows how to encode an output — minada stays a leaf
// numeric package per spec.md §2's dependency-order table).
type SizeEncoder func(candidateCoin uint64) (size int, err error)

// MinAda computes (size + 160) * coinsPerUTxOByte for an output whose
// canonical encoding is size bytes long.
func MinAda(p params.ProtocolParams, size int) uint64 {
	return uint64(size+params.MinAdaConstantOverhead) * p.CoinsPerUTxOByte
}

// EnsureMinAda repeatedly raises an output's coin until it is >= the
// min-ada computed at its own current size, per spec.md §4.8: "recompute
// size because encoding more coin may enlarge the output; repeat until
// the result stabilizes". Terminates because encoded size only grows in
// finitely many fixed steps as the coin value's CBOR width widens.
func EnsureMinAda(p params.ProtocolParams, encode SizeEncoder, currentCoin uint64) (uint64, error) {
	coin := currentCoin
	const maxIterations = 16

	for i := 0; i < maxIterations; i++ {
		size, err := encode(coin)
		if err != nil {
			return 0, err
		}
		required := MinAda(p, size)
		if coin >= required {
			return coin, nil
		}
		coin = required
	}
	return coin, nil
}
