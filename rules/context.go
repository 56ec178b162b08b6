package rules

import (
	"github.com/conway-ledger/core/collateral"
	"github.com/conway-ledger/core/fee"
	"github.com/conway-ledger/core/metrics"
	"github.com/conway-ledger/core/minada"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/plutus"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txbalance"
	"github.com/conway-ledger/core/txs"
)

// Deps bundles every externally-supplied adapter the orchestrator needs
// but cannot construct itself, per spec.md §6's boundary: CBOR encoding
// and the Plutus VM are both explicitly out of this core's scope.
type Deps struct {
	// FeeEncoder re-measures the transaction's canonical size once its
	// fee field is set to a candidate (fee.EnsureMinFee's fixed point).
	FeeEncoder fee.Encoder

	// CoinEncoders[i] re-measures output i once its coin field is set to
	// a candidate (minada.EnsureMinAda's fixed point), keyed by output
	// index.
	CoinEncoders map[int]minada.SizeEncoder

	// ScriptDataHash is the precomputed commitment over the witness
	// set's redeemers/datums/cost-models, or nil when the transaction
	// carries neither redeemers nor datums (spec.md §4.6).
	ScriptDataHash *txs.Hash32

	// OutputValueSizes[i] is the precomputed canonical CBOR byte length
	// of output i's value, for the max-value-size check (cborx knows how
	// to encode a Value; this core stays a leaf with respect to CBOR).
	OutputValueSizes map[int]int

	// Evaluator runs one redeemer through the Plutus VM.
	Evaluator plutus.Evaluator

	// ResolvedInputs maps every spent/collateral/reference input this
	// transaction touches to its output, precomputed by the caller so
	// the Plutus adapter never needs the full UTXO set (spec.md §6).
	ResolvedInputs map[txs.TransactionInput]txs.TransactionOutput

	// Metrics receives accept/reject counts and timing for this run. A
	// nil Metrics is treated as metrics.Noop{}.
	Metrics metrics.Metrics
}

// Context is threaded through every validator: the environment, the
// pre-transaction state, the transaction itself, the externally-supplied
// Deps, and a handful of values computed once up front so validators
// never redo each other's work.
type Context struct {
	Env   params.Environment
	State *state.State
	Tx    *txs.Transaction
	TxID  txs.TransactionId
	Deps  Deps

	// Balance is computed once, read-only, via txbalance.Compute.
	Balance txbalance.Balance

	// MinRequiredFee is the fixed-point minimum fee for this transaction
	// (fee.EnsureMinFee run from the declared fee as the starting
	// candidate).
	MinRequiredFee uint64

	// Collateral is the resolved collateral-input picture, valid only
	// when CollateralResolved is true.
	Collateral         collateral.Totals
	CollateralResolved bool
}

func (c *Context) body() txs.TransactionBody {
	return c.Tx.Body
}
