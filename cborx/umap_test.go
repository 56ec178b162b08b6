package cborx

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/txs"
)

type wireUMapEntry struct {
	Deposit uint64  `cbor:"0,keyasint"`
	Pool    *[]byte `cbor:"1,keyasint,omitempty"`
	DRep    *[]any  `cbor:"2,keyasint,omitempty"`
	Rewards uint64  `cbor:"3,keyasint"`
}

func TestDecodeUMapNewFormat(t *testing.T) {
	r := require.New(t)

	var hash [28]byte
	hash[0] = 1
	elems := map[[28]byte]wireUMapEntry{
		hash: {Deposit: 2_000_000, Rewards: 500_000},
	}
	data, err := Marshal(elems)
	r.NoError(err)

	ds, ptrs, err := DecodeUMap(data)
	r.NoError(err)
	r.Empty(ptrs)
	cred := txs.Credential{Kind: txs.CredKeyHash, Hash: hash}
	r.True(ds.IsRegistered(cred))
	r.Equal(uint64(500_000), ds.Rewards[cred])
}

func TestDecodeUMapOldFormatPreservesLegacyPointers(t *testing.T) {
	r := require.New(t)

	var hash [28]byte
	hash[0] = 2
	elems := map[[28]byte]wireUMapEntry{
		hash: {Deposit: 2_000_000, Rewards: 0},
	}
	elemsData, err := Marshal(elems)
	r.NoError(err)

	ptrHash := [28]byte{9}
	ptrs := map[[28]byte][]byte{ptrHash: []byte("legacy-pointer-payload")}
	ptrsData, err := Marshal(ptrs)
	r.NoError(err)

	pair := []any{cbor.RawMessage(elemsData), cbor.RawMessage(ptrsData)}
	data, err := Marshal(pair)
	r.NoError(err)

	ds, legacy, err := DecodeUMap(data)
	r.NoError(err)
	cred := txs.Credential{Kind: txs.CredKeyHash, Hash: hash}
	r.True(ds.IsRegistered(cred))

	ptrCred := txs.Credential{Kind: txs.CredKeyHash, Hash: ptrHash}
	r.Contains(legacy, ptrCred)
}
