// Package params holds the read-only protocol configuration and the
// per-validation-call Environment every rule receives, following the
// teacher's config package: parameters are loaded once (the CLI decodes
// them from a CBOR file via cborx.DecodeProtocolParams) and then threaded
// through as an immutable struct, never mutated mid-run.
package params

// ProtocolParams is the Conway-era protocol parameter set (spec.md §3).
type ProtocolParams struct {
	// Fees.
	FeePerByte uint64
	FeeFixed   uint64

	// Deposits.
	StakeAddressDeposit uint64
	PoolDeposit         uint64
	DRepDeposit         uint64
	GovActionDeposit    uint64

	// Size/value limits.
	MaxTxSize     int
	MaxValueSize  int
	MaxTxExecutionUnits ExUnits

	// Execution-unit prices, as a rational numerator/denominator pair
	// each (Conway CBOR encodes these as Tagged(30, [num, den])).
	PriceMemNum   int64
	PriceMemDen   int64
	PriceStepsNum int64
	PriceStepsDen int64

	// Cost models per script language, keyed by language id ("PlutusV1",
	// "PlutusV2", "PlutusV3").
	CostModels map[string][]int64

	CoinsPerUTxOByte        uint64
	CollateralPercentage    uint64
	MaxCollateralInputs     int
	MinFeeRefScriptCostPerByte uint64

	// Governance thresholds (opaque to the rules implemented here beyond
	// gov-action deposits; kept for completeness/CBOR round-trip).
	GovActionLifetime uint64
	DRepActivity      uint64

	ProtocolMajorVersion uint64
	ProtocolMinorVersion uint64
}

// ExUnits mirrors txs.ExUnits without importing the txs package, to keep
// params leaf-level (spec.md §2's dependency-order table: numeric
// primitives before everything else).
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

// ReferenceScriptStride is the byte stride S at which the tiered
// reference-script fee's per-byte price increases (spec.md §4.5).
const ReferenceScriptStride = 25_600

// ReferenceScriptMultiplierNum / Den is the geometric multiplier m = 1.2
// applied to the price at each stride.
const (
	ReferenceScriptMultiplierNum = 6
	ReferenceScriptMultiplierDen = 5
)

// MinAdaConstantOverhead is the fixed byte overhead added to an output's
// encoded size before multiplying by CoinsPerUTxOByte (spec.md §4.8).
const MinAdaConstantOverhead = 160

// NetworkId mirrors txs.NetworkId; duplicated here (rather than imported)
// so params has no dependency on txs, keeping it a true leaf package.
type NetworkId uint8

const (
	NetworkTestnet NetworkId = 0
	NetworkMainnet NetworkId = 1
)

// Environment is the read-only context every validator and mutator
// receives: current slot, protocol parameters, certificate state
// snapshot reference is carried by the caller's State, and network id.
type Environment struct {
	Slot    uint64
	Params  ProtocolParams
	Network NetworkId
}
