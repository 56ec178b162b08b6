package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

// AccountState is one credential's entry in a decoded UMap: its deposit,
// pool/DRep delegation, and reward balance.
type AccountState struct {
	Deposit uint64
	Pool    txs.PoolId
	HasPool bool
	DRep    txs.DRep
	HasDRep bool
	Rewards uint64
}

// LegacyPointers preserves the old UMap's umPtrs side-table verbatim
// (Credential -> raw CBOR pointer-address payload), per SPEC_FULL.md's
// resolution of the UMap Open Question: the new format has no equivalent
// field, so this is empty whenever the new format was decoded.
type LegacyPointers = map[txs.Credential][]byte

// DecodeUMap accepts both the old two-element [umElems, umPtrs] shape and
// the new direct Map<Credential, AccountState> shape (spec.md §6),
// returning a populated DelegationState plus any legacy pointers found.
func DecodeUMap(data []byte) (*state.DelegationState, LegacyPointers, error) {
	var asPair []cbor.RawMessage
	if err := Unmarshal(data, &asPair); err == nil && len(asPair) == 2 {
		return decodeOldUMap(asPair[0], asPair[1])
	}
	ds, err := decodeUMapElems(data)
	return ds, LegacyPointers{}, err
}

func decodeOldUMap(elemsRaw, ptrsRaw cbor.RawMessage) (*state.DelegationState, LegacyPointers, error) {
	ds, err := decodeUMapElems(elemsRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("cborx: decoding umElems: %w", err)
	}

	var rawPtrs map[[28]byte]cbor.RawMessage
	if err := Unmarshal(ptrsRaw, &rawPtrs); err != nil {
		return nil, nil, fmt.Errorf("cborx: decoding umPtrs: %w", err)
	}
	ptrs := make(LegacyPointers, len(rawPtrs))
	for hash, raw := range rawPtrs {
		cred := txs.Credential{Kind: txs.CredKeyHash, Hash: hash}
		ptrs[cred] = []byte(raw)
	}
	return ds, ptrs, nil
}

// umMapEntry mirrors one element-map value: {0: deposit, 1: poolId?,
// 2: drep?, 3: rewards}, integer-keyed per the rest of this package's
// canonical wire structs.
type umMapEntry struct {
	Deposit uint64           `cbor:"0,keyasint"`
	Pool    *[]byte          `cbor:"1,keyasint,omitempty"`
	DRep    *cbor.RawMessage `cbor:"2,keyasint,omitempty"`
	Rewards uint64           `cbor:"3,keyasint"`
}

func decodeUMapElems(data cbor.RawMessage) (*state.DelegationState, error) {
	var raw map[[28]byte]umMapEntry
	if err := Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cborx: decoding umElems map: %w", err)
	}

	ds := state.NewDelegationState()
	for hash, entry := range raw {
		cred := txs.Credential{Kind: txs.CredKeyHash, Hash: hash}
		ds.Deposits[cred] = state.DepositRecord{Amount: entry.Deposit}
		ds.Rewards[cred] = entry.Rewards
		if entry.Pool != nil {
			var pool txs.PoolId
			copy(pool[:], *entry.Pool)
			ds.PoolDelegations[cred] = pool
		}
		if entry.DRep != nil {
			drep, err := decodeDRep(*entry.DRep)
			if err != nil {
				return nil, fmt.Errorf("cborx: decoding drep for credential: %w", err)
			}
			ds.DRepDelegations[cred] = drep
		}
	}
	return ds, nil
}

// decodeDRep decodes a [tag, hash?] pair into a DRep: tag 0 = key hash,
// tag 1 = script hash, tag 2 = always-abstain, tag 3 = always-no-confidence.
func decodeDRep(data cbor.RawMessage) (txs.DRep, error) {
	var parts []cbor.RawMessage
	if err := Unmarshal(data, &parts); err != nil || len(parts) == 0 {
		return txs.DRep{}, fmt.Errorf("malformed drep")
	}
	var tag uint64
	if err := Unmarshal(parts[0], &tag); err != nil {
		return txs.DRep{}, fmt.Errorf("drep tag: %w", err)
	}
	switch tag {
	case 0, 1:
		if len(parts) != 2 {
			return txs.DRep{}, fmt.Errorf("drep hash missing")
		}
		var hash []byte
		if err := Unmarshal(parts[1], &hash); err != nil {
			return txs.DRep{}, fmt.Errorf("drep hash: %w", err)
		}
		kind := txs.DRepKeyHash
		if tag == 1 {
			kind = txs.DRepScriptHash
		}
		var h txs.Hash28
		copy(h[:], hash)
		return txs.DRep{Kind: kind, Hash: h}, nil
	case 2:
		return txs.DRep{Kind: txs.DRepAlwaysAbstain}, nil
	case 3:
		return txs.DRep{Kind: txs.DRepAlwaysNoConfidence}, nil
	default:
		return txs.DRep{}, fmt.Errorf("unknown drep tag %d", tag)
	}
}
