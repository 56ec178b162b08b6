// Package txs defines the Conway-era transaction data model: the entities
// described in spec.md §3 (TransactionId, TransactionInput,
// TransactionOutput, Transaction, certificates, governance actions) plus
// the supplemented certificate tagged union original_source enumerates.
package txs

import (
	"fmt"

	"github.com/conway-ledger/core/value"
)

// Hash32 is a 32-byte hash, the identity of a transaction or a
// script-data commitment.
type Hash32 [32]byte

func (h Hash32) String() string {
	return fmt.Sprintf("%x", [32]byte(h))
}

// Hash28 is a 28-byte hash, used for policy ids, key hashes, and script
// hashes (Blake2b-224 in the real protocol; this core treats it as an
// opaque identity).
type Hash28 [28]byte

func (h Hash28) String() string {
	return fmt.Sprintf("%x", [28]byte(h))
}

// TransactionId is the identity of a transaction, computed from the hash
// of its serialized body.
type TransactionId = Hash32

// TransactionInput references an unspent output by the id of the
// transaction that created it and the index within that transaction's
// outputs.
type TransactionInput struct {
	TransactionId TransactionId
	Index         uint32
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TransactionId, i.Index)
}

// NetworkId distinguishes mainnet from the various testnets; addresses
// and transaction bodies both carry one, and the two must agree.
type NetworkId uint8

const (
	NetworkTestnet NetworkId = 0
	NetworkMainnet NetworkId = 1
)

// AddressKind distinguishes a key-hash-locked address from a
// script-locked address, tagging the embedded credential's own kind for
// witness-sufficiency checks. Reward (stake) addresses have no kind of
// their own; the address package takes a separate reward flag.
type AddressKind uint8

const (
	AddressKeyHash AddressKind = iota
	AddressScriptHash
)

// Address is a payment address: a network tag, a payment credential, and
// an optional staking credential (omitted here — delegation is modeled
// via the Credential living directly in CertState, which is sufficient
// for the rules this core implements).
type Address struct {
	Network    NetworkId
	Kind       AddressKind
	Credential Hash28
}

func (a Address) IsScript() bool {
	return a.Kind == AddressScriptHash
}

// OutputDatumKind distinguishes the three ways a datum may be attached to
// an output.
type OutputDatumKind uint8

const (
	NoDatum OutputDatumKind = iota
	DatumHash
	InlineDatum
)

// OutputDatum is the Conway OutputDatum option type.
type OutputDatum struct {
	Kind   OutputDatumKind
	Hash   Hash32 // valid when Kind == DatumHash
	Inline []byte // valid when Kind == InlineDatum, raw plutus-data bytes
}

// ScriptRef is a reference script attached to an output, spendable or
// usable as a witness by any transaction that references this output as
// a reference input.
type ScriptRef struct {
	Bytes []byte // the serialized script; its length drives tiered fees
}

// Size returns the reference script's byte length, as used by the tiered
// reference-script fee calculation.
func (s *ScriptRef) Size() int {
	if s == nil {
		return 0
	}
	return len(s.Bytes)
}

// TransactionOutput is the produced coin/asset state at an address.
type TransactionOutput struct {
	Address   Address
	Value     value.Value
	Datum     OutputDatum
	ScriptRef *ScriptRef
}

// ExUnits is a Plutus execution-unit budget: memory and CPU steps.
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

// Add returns the component-wise sum.
func (e ExUnits) Add(other ExUnits) ExUnits {
	return ExUnits{Memory: e.Memory + other.Memory, Steps: e.Steps + other.Steps}
}

// LessEq reports whether e <= other in both components.
func (e ExUnits) LessEq(other ExUnits) bool {
	return e.Memory <= other.Memory && e.Steps <= other.Steps
}

// RedeemerTag identifies what a redeemer is being applied to.
type RedeemerTag uint8

const (
	RedeemerSpend RedeemerTag = iota
	RedeemerMint
	RedeemerCert
	RedeemerReward
	RedeemerVote
	RedeemerPropose
)

// Redeemer attaches a Plutus redeemer datum and execution budget to one
// script purpose.
type Redeemer struct {
	Tag     RedeemerTag
	Index   uint32
	Data    []byte
	ExUnits ExUnits
}

// Withdrawals maps reward account credentials to the lovelace amount
// withdrawn from their accumulated rewards balance.
type Withdrawals map[Hash28]uint64

// Total sums all withdrawal amounts.
func (w Withdrawals) Total() uint64 {
	var total uint64
	for _, amt := range w {
		total += amt
	}
	return total
}

// Mint is a transaction's minted/burned multi-asset delta: positive
// quantities are newly minted (consumed into the transaction), negative
// quantities are burned (re-added as produced, per spec.md §4.4).
type Mint = value.MultiAsset
