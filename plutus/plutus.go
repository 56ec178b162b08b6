// Package plutus defines the interface the rule pipeline uses to dispatch
// a script's redeemer to the Plutus VM, per spec.md §6. Only the
// interface lives here: the VM's internals (Scott encoding, JIT, cost
// model interpretation) are explicitly out of scope (spec.md §1).
package plutus

import "github.com/conway-ledger/core/txs"

// Success is returned by a script evaluation that completed within
// budget.
type Success struct {
	ExUnitsUsed txs.ExUnits
}

// Evaluator is the synchronous, pure VM adapter the rule pipeline calls
// once per redeemer. The budget for a given redeemer is exclusively
// consumed by that call (spec.md §9 "Scoped acquisition of
// script-evaluation budgets"); on error, the VM is expected to still
// report how much of the budget it consumed before failing, via
// EvalError.Spent.
type Evaluator interface {
	Evaluate(ctx ScriptContext, redeemer txs.Redeemer, budget txs.ExUnits) (Success, error)
}

// ScriptContext is the pure transformation of a transaction and its
// resolved UTXO view into the protocol-version-specific structure the VM
// expects as its own input (spec.md §6: "a pure transformation").
type ScriptContext struct {
	Transaction *txs.Transaction
	// ResolvedInputs maps each spent input to its output, precomputed by
	// the caller so the VM adapter never needs to see the full UTXO set.
	ResolvedInputs map[txs.TransactionInput]txs.TransactionOutput
}

// EvalError is returned by an Evaluator when a script fails or exhausts
// its budget.
type EvalError struct {
	Reason string
	Spent  txs.ExUnits
}

func (e *EvalError) Error() string {
	return e.Reason
}

// NoopEvaluator always succeeds, reporting the full requested budget as
// spent. It exists so the rule pipeline and its tests can run without a
// real VM wired in; production callers supply their own Evaluator.
type NoopEvaluator struct{}

func (NoopEvaluator) Evaluate(_ ScriptContext, redeemer txs.Redeemer, _ txs.ExUnits) (Success, error) {
	return Success{ExUnitsUsed: redeemer.ExUnits}, nil
}
