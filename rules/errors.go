// Package rules implements the STS engine: the fixed ordered validator
// pipeline (spec.md §4.6), the state mutators (spec.md §4.7), and the
// orchestrator that runs them (spec.md §4.7/§2). Validators are pure
// predicates; the orchestrator alone decides fail-fast vs. accumulate,
// and Apply produces State'.
package rules

import (
	"fmt"

	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

// RuleError is the common interface every typed rule failure satisfies.
// It is intentionally just the error interface plus a stable Code(), so
// the orchestrator can report a list of distinct, named failures instead
// of a single opaque message (spec.md §7).
type RuleError interface {
	error
	Code() string
}

type baseErr struct {
	code string
	msg  string
}

func (e baseErr) Error() string { return e.msg }
func (e baseErr) Code() string  { return e.code }

// --- Input resolution errors ---

// BadInputs is returned when a transaction spends an input not present
// in the UTXO set.
type BadInputs struct{ TxID txs.TransactionId }

func (e BadInputs) Error() string { return fmt.Sprintf("bad inputs: %s", e.TxID) }
func (e BadInputs) Code() string  { return "BadInputs" }

// BadCollateralInputs mirrors BadInputs for the collateral input set.
type BadCollateralInputs struct{ TxID txs.TransactionId }

func (e BadCollateralInputs) Error() string { return fmt.Sprintf("bad collateral inputs: %s", e.TxID) }
func (e BadCollateralInputs) Code() string  { return "BadCollateralInputs" }

// BadReferenceInputs mirrors BadInputs for the reference input set.
type BadReferenceInputs struct{ TxID txs.TransactionId }

func (e BadReferenceInputs) Error() string { return fmt.Sprintf("bad reference inputs: %s", e.TxID) }
func (e BadReferenceInputs) Code() string  { return "BadReferenceInputs" }

// EmptyInputs is returned when a transaction spends no inputs at all.
type EmptyInputs struct{}

func (e EmptyInputs) Error() string { return "no inputs" }
func (e EmptyInputs) Code() string  { return "EmptyInputs" }

// --- Validity / network errors ---

// OutsideValidityInterval is returned when the current slot falls
// outside the transaction's validity interval.
type OutsideValidityInterval struct {
	Slot     uint64
	Interval txs.ValidityInterval
}

func (e OutsideValidityInterval) Error() string {
	return fmt.Sprintf("slot %d outside validity interval", e.Slot)
}
func (e OutsideValidityInterval) Code() string { return "OutsideValidityInterval" }

// WrongNetwork is returned when the transaction body's declared network
// does not match the environment's.
type WrongNetwork struct{ Expected, Actual uint8 }

func (e WrongNetwork) Error() string {
	return fmt.Sprintf("wrong network: expected %d got %d", e.Expected, e.Actual)
}
func (e WrongNetwork) Code() string { return "WrongNetwork" }

// WrongNetworkInTxBody is returned when an output address's network tag
// does not match the environment's.
type WrongNetworkInTxBody struct{ OutputIndex int }

func (e WrongNetworkInTxBody) Error() string {
	return fmt.Sprintf("wrong network in output %d", e.OutputIndex)
}
func (e WrongNetworkInTxBody) Code() string { return "WrongNetworkInTxBody" }

// --- Size / limit errors (accumulated independently) ---

// OutputTooSmall is returned per offending output.
type OutputTooSmall struct {
	OutputIndex     int
	Actual, Required uint64
}

func (e OutputTooSmall) Error() string {
	return fmt.Sprintf("output %d too small: has %d, needs %d", e.OutputIndex, e.Actual, e.Required)
}
func (e OutputTooSmall) Code() string { return "OutputTooSmall" }

// OutputsHaveTooBigValueStorageSize is returned per offending output.
type OutputsHaveTooBigValueStorageSize struct {
	OutputIndex int
	Size, Max   int
}

func (e OutputsHaveTooBigValueStorageSize) Error() string {
	return fmt.Sprintf("output %d value storage size %d exceeds max %d", e.OutputIndex, e.Size, e.Max)
}
func (e OutputsHaveTooBigValueStorageSize) Code() string {
	return "OutputsHaveTooBigValueStorageSize"
}

// MaxTxSizeExceeded is returned when the whole transaction's canonical
// CBOR size exceeds the protocol maximum.
type MaxTxSizeExceeded struct{ Size, Max int }

func (e MaxTxSizeExceeded) Error() string {
	return fmt.Sprintf("tx size %d exceeds max %d", e.Size, e.Max)
}
func (e MaxTxSizeExceeded) Code() string { return "MaxTxSizeExceeded" }

// TooManyExUnits is returned when the sum of redeemer ex-units exceeds
// the protocol's per-transaction cap.
type TooManyExUnits struct {
	Total, Max txs.ExUnits
}

func (e TooManyExUnits) Error() string {
	return fmt.Sprintf("ex units %+v exceed max %+v", e.Total, e.Max)
}
func (e TooManyExUnits) Code() string { return "TooManyExUnits" }

// --- Conservation ---

// ValueNotConservedUTxO is returned when consumed != produced.
type ValueNotConservedUTxO struct {
	Consumed, Produced value.Value
}

func (e ValueNotConservedUTxO) Error() string {
	return fmt.Sprintf("value not conserved: consumed=%+v produced=%+v", e.Consumed, e.Produced)
}
func (e ValueNotConservedUTxO) Code() string { return "ValueNotConservedUTxO" }

// OutputsHaveNonPositiveOutputs is returned when an output's coin is
// negative or an asset quantity is non-positive.
type OutputsHaveNonPositiveOutputs struct{ OutputIndex int }

func (e OutputsHaveNonPositiveOutputs) Error() string {
	return fmt.Sprintf("output %d has non-positive value", e.OutputIndex)
}
func (e OutputsHaveNonPositiveOutputs) Code() string { return "OutputsHaveNonPositiveOutputs" }

// --- Fees / collateral ---

// FeesOk aggregates every fee/collateral sub-failure discovered, per
// spec.md §7 ("one aggregated error variant carrying every sub-failure
// discovered").
type FeesOk struct {
	Fee, MinRequired        uint64
	InsufficientFee         bool
	CollateralPercentage    uint64
	CollateralActual        uint64
	CollateralRequired      uint64
	CollateralInsufficient  bool
	CollateralNotPureAda    bool
	NoCollateralInputs      bool
	CollateralScriptAddress bool
	TotalCollateralMismatch bool
}

func (e FeesOk) Error() string {
	return fmt.Sprintf("fees not ok: fee=%d required=%d insufficientFee=%t collateralInsufficient=%t", e.Fee, e.MinRequired, e.InsufficientFee, e.CollateralInsufficient)
}
func (e FeesOk) Code() string { return "FeesOk" }

// --- Witness / script errors ---

// MissingVKeyWitnesses names the key hashes a required witness is absent
// for.
type MissingVKeyWitnesses struct{ KeyHashes []txs.Hash28 }

func (e MissingVKeyWitnesses) Error() string {
	return fmt.Sprintf("missing %d vkey witnesses", len(e.KeyHashes))
}
func (e MissingVKeyWitnesses) Code() string { return "MissingVKeyWitnesses" }

// ExtraneousWitnesses names vkey witnesses with no matching requirement.
type ExtraneousWitnesses struct{ KeyHashes []txs.Hash28 }

func (e ExtraneousWitnesses) Error() string {
	return fmt.Sprintf("%d extraneous vkey witnesses", len(e.KeyHashes))
}
func (e ExtraneousWitnesses) Code() string { return "ExtraneousWitnesses" }

// MissingScripts names script hashes required but not provided.
type MissingScripts struct{ Hashes []txs.Hash28 }

func (e MissingScripts) Error() string { return fmt.Sprintf("missing %d scripts", len(e.Hashes)) }
func (e MissingScripts) Code() string  { return "MissingScripts" }

// ExtraneousScripts names script hashes provided but not required.
type ExtraneousScripts struct{ Hashes []txs.Hash28 }

func (e ExtraneousScripts) Error() string {
	return fmt.Sprintf("%d extraneous scripts", len(e.Hashes))
}
func (e ExtraneousScripts) Code() string { return "ExtraneousScripts" }

// MissingRequiredDatums names datum hashes whose preimage was not
// supplied.
type MissingRequiredDatums struct{ Hashes []txs.Hash32 }

func (e MissingRequiredDatums) Error() string {
	return fmt.Sprintf("missing %d required datums", len(e.Hashes))
}
func (e MissingRequiredDatums) Code() string { return "MissingRequiredDatums" }

// ScriptDataHashMismatch is returned when the body's declared
// script-data hash does not match the recomputed one.
type ScriptDataHashMismatch struct{ Expected, Actual txs.Hash32 }

func (e ScriptDataHashMismatch) Error() string {
	return fmt.Sprintf("script data hash mismatch: expected %s got %s", e.Expected, e.Actual)
}
func (e ScriptDataHashMismatch) Code() string { return "ScriptDataHashMismatch" }

// ScriptFailure is one redeemer's failure when run through the Plutus
// VM adapter.
type ScriptFailure struct {
	Tag     txs.RedeemerTag
	Index   uint32
	Reason  string
	Spent   txs.ExUnits
}

// ScriptFailures aggregates every ScriptFailure in one transaction.
type ScriptFailures struct{ Failures []ScriptFailure }

func (e ScriptFailures) Error() string {
	return fmt.Sprintf("%d script failures", len(e.Failures))
}
func (e ScriptFailures) Code() string { return "ScriptFailures" }

// MissingRequiredSigners names required-signer key hashes not witnessed.
type MissingRequiredSigners struct{ KeyHashes []txs.Hash28 }

func (e MissingRequiredSigners) Error() string {
	return fmt.Sprintf("missing %d required signers", len(e.KeyHashes))
}
func (e MissingRequiredSigners) Code() string { return "MissingRequiredSigners" }

// --- Certificate-state errors ---

// CertificateNotWellFormed wraps a certstate error with the offending
// certificate's index in the body.
type CertificateNotWellFormed struct {
	Index int
	Err   error
}

func (e CertificateNotWellFormed) Error() string {
	return fmt.Sprintf("certificate %d not well formed: %v", e.Index, e.Err)
}
func (e CertificateNotWellFormed) Code() string { return "CertificateNotWellFormed" }
func (e CertificateNotWellFormed) Unwrap() error { return e.Err }

// --- Arithmetic errors ---

// Underflow/Overflow surface coin.ErrUnderflow/ErrOverflow with the
// offending component named, per spec.md §7: "these indicate programmer
// error in a well-formed transaction and propagate unchanged".
type Underflow struct{ Component string }

func (e Underflow) Error() string { return fmt.Sprintf("underflow in %s", e.Component) }
func (e Underflow) Code() string  { return "Underflow" }

type Overflow struct{ Component string }

func (e Overflow) Error() string { return fmt.Sprintf("overflow in %s", e.Component) }
func (e Overflow) Code() string  { return "Overflow" }

// Errors is an accumulated list of RuleError, returned by the
// orchestrator when independent validators each report their own
// failure.
type Errors []RuleError

func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%d rule violations: %s (and %d more)", len(es), es[0].Error(), len(es)-1)
}
