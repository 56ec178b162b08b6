package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/conway-ledger/core/txs"
)

// DecodePoolParams accepts both historical pool-registration CBOR shapes
// (spec.md §6):
//
//	old: 9-element array [operator, vrfKeyHash, pledge, cost, margin,
//	     rewardAccount, owners, relays, metadata]
//	new: 8-element array [vrfKeyHash, pledge, cost, margin,
//	     rewardAccount, owners, relays, metadata]; the operator is the
//	     enclosing map key and must be supplied by the caller.
//
// The two are distinguished by peeking at the first element's byte
// length: 28 bytes is an operator key hash (old format), 32 bytes is a
// VRF key hash (new format).
func DecodePoolParams(data []byte, operatorFromMapKey *txs.PoolId) (txs.PoolParams, error) {
	var raw []cbor.RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding pool params array: %w", err)
	}

	var first []byte
	if err := Unmarshal(raw[0], &first); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding pool params leading field: %w", err)
	}

	switch len(first) {
	case 28:
		if len(raw) != 9 {
			return txs.PoolParams{}, fmt.Errorf("cborx: old-format pool params must have 9 elements, got %d", len(raw))
		}
		var p txs.PoolParams
		copy(p.Operator[:], first)
		return decodePoolParamsTail(p, raw[1:], true)
	case 32:
		if len(raw) != 8 {
			return txs.PoolParams{}, fmt.Errorf("cborx: new-format pool params must have 8 elements, got %d", len(raw))
		}
		if operatorFromMapKey == nil {
			return txs.PoolParams{}, fmt.Errorf("cborx: new-format pool params require an operator from the enclosing map key")
		}
		p := txs.PoolParams{Operator: *operatorFromMapKey}
		var vrf []byte
		if err := Unmarshal(raw[0], &vrf); err != nil {
			return txs.PoolParams{}, fmt.Errorf("cborx: decoding vrfKeyHash: %w", err)
		}
		copy(p.VrfKeyHash[:], vrf)
		return decodePoolParamsTail(p, raw[1:], false)
	default:
		return txs.PoolParams{}, fmt.Errorf("cborx: pool params leading field is %d bytes, want 28 or 32", len(first))
	}
}

// decodePoolParamsTail decodes [vrfKeyHash?, pledge, cost, margin,
// rewardAccount, owners, relays, metadata] once the leading
// operator/vrfKeyHash field has already been consumed by the caller.
// vrfPending is true for the old format, whose vrfKeyHash is still the
// tail's first element; the new format has already decoded it.
func decodePoolParamsTail(p txs.PoolParams, tail []cbor.RawMessage, vrfPending bool) (txs.PoolParams, error) {
	idx := 0
	if vrfPending {
		var vrf []byte
		if err := Unmarshal(tail[idx], &vrf); err != nil {
			return txs.PoolParams{}, fmt.Errorf("cborx: decoding vrfKeyHash: %w", err)
		}
		copy(p.VrfKeyHash[:], vrf)
		idx++
	}

	if err := Unmarshal(tail[idx], &p.Pledge); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding pledge: %w", err)
	}
	idx++
	if err := Unmarshal(tail[idx], &p.Cost); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding cost: %w", err)
	}
	idx++

	var margin Rational
	if err := Unmarshal(tail[idx], &margin); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding margin: %w", err)
	}
	p.MarginNum, p.MarginDen = uint64(margin.Num), uint64(margin.Den)
	idx++

	var rewardAccount []byte
	if err := Unmarshal(tail[idx], &rewardAccount); err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding reward account: %w", err)
	}
	cred, err := decodeCredentialBytes(rewardAccount)
	if err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: reward account: %w", err)
	}
	p.RewardAccount = cred
	idx++

	owners, err := DecodeSet[[]byte](tail[idx])
	if err != nil {
		return txs.PoolParams{}, fmt.Errorf("cborx: decoding owners: %w", err)
	}
	p.Owners = make([]txs.Credential, len(owners))
	for i, raw := range owners {
		cred, err := decodeCredentialBytes(raw)
		if err != nil {
			return txs.PoolParams{}, fmt.Errorf("cborx: owner %d: %w", i, err)
		}
		p.Owners[i] = cred
	}

	// relays and metadata (tail[idx+1], tail[idx+2]) carry no fields the
	// rule engine consumes; they are intentionally not decoded here.
	return p, nil
}

// decodeCredentialBytes interprets a 28-byte reward-account payload as a
// key-hash credential, the shape pool reward accounts and owners use.
func decodeCredentialBytes(raw []byte) (txs.Credential, error) {
	if len(raw) != 28 {
		return txs.Credential{}, fmt.Errorf("expected 28-byte credential, got %d", len(raw))
	}
	var c txs.Credential
	c.Kind = txs.CredKeyHash
	copy(c.Hash[:], raw)
	return c, nil
}
