package rules

import (
	"time"

	"github.com/conway-ledger/core/fee"
	"github.com/conway-ledger/core/metrics"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txbalance"
	"github.com/conway-ledger/core/txs"
)

// Run validates tx against env/st in the fixed order spec.md §4.6
// specifies: dependentValidators run first and the pipeline stops at the
// first failure (everything after depends on inputs/collateral/
// reference-inputs having resolved and the transaction being in its
// validity window); independentValidators then all run regardless of
// each other's outcome, and every failure among them is reported
// together via Errors.
//
// Run never mutates st; callers that accept the transaction call Apply
// separately to produce State'.
func Run(env params.Environment, st *state.State, tx *txs.Transaction, deps Deps) error {
	m := deps.Metrics
	if m == nil {
		m = metrics.Noop{}
	}

	start := time.Now()
	result := runValidators(env, st, tx, deps, m)
	m.ObserveValidationDuration(time.Since(start))
	m.ObserveTxSize(tx.Size())

	if result == nil {
		m.IncAccepted()
		return nil
	}
	if failures, ok := result.(Errors); ok {
		m.IncRejected(failures[0].Code())
	} else if re, ok := result.(RuleError); ok {
		m.IncRejected(re.Code())
	} else {
		m.IncRejected("internal")
	}
	return result
}

func runValidators(env params.Environment, st *state.State, tx *txs.Transaction, deps Deps, m metrics.Metrics) error {
	c := &Context{Env: env, State: st, Tx: tx, TxID: tx.Id(), Deps: deps}

	for _, v := range dependentValidators {
		if err := v(c); err != nil {
			return err
		}
	}

	balance, err := txbalance.Compute(env.Params, st.UTxO, st.Cert, c.TxID, tx.Body)
	if err != nil {
		return err
	}
	c.Balance = balance

	refScriptSize := txs.ReferenceScriptsTotalSize(resolvedScriptSourceOutputs(tx, deps.ResolvedInputs))

	if deps.FeeEncoder != nil {
		minFee, iterations, err := fee.EnsureMinFeeCounted(env.Params, deps.FeeEncoder, totalExUnits(tx), refScriptSize, tx.Body.Fee)
		if err != nil {
			return err
		}
		c.MinRequiredFee = minFee
		m.ObserveMinFeeIterations(iterations)
	} else {
		c.MinRequiredFee = fee.MinFee(env.Params, fee.Inputs{
			Size:                tx.Size(),
			TotalExUnits:        totalExUnits(tx),
			ReferenceScriptSize: refScriptSize,
		})
		m.ObserveMinFeeIterations(1)
	}

	var failures Errors
	for _, v := range independentValidators {
		if err := v(c); err != nil {
			if re, ok := err.(RuleError); ok {
				failures = append(failures, re)
				continue
			}
			// A non-RuleError escaping a validator (e.g. a wrapped
			// minada/fee error) aborts the whole run rather than being
			// silently folded into the accumulated list, since it is
			// not one of the typed failures callers expect to see
			// listed (spec.md §7).
			return err
		}
	}

	if len(failures) > 0 {
		return failures
	}
	return nil
}

func totalExUnits(tx *txs.Transaction) txs.ExUnits {
	var total txs.ExUnits
	for _, r := range tx.Witnesses.Redeemers {
		total = total.Add(r.ExUnits)
	}
	return total
}

// resolvedScriptSourceOutputs collects the outputs a transaction's spent
// and reference inputs resolve to, the set ReferenceScriptsTotalSize
// must sum over: a reference script is only billable when this
// transaction actually spends or references the UTXO carrying it, never
// when it merely creates a fresh output of its own (spec.md §4.5).
func resolvedScriptSourceOutputs(tx *txs.Transaction, resolved map[txs.TransactionInput]txs.TransactionOutput) []txs.TransactionOutput {
	outputs := make([]txs.TransactionOutput, 0, len(tx.Body.Inputs)+len(tx.Body.ReferenceInputs))
	for _, in := range tx.Body.Inputs {
		if out, ok := resolved[in]; ok {
			outputs = append(outputs, out)
		}
	}
	for _, in := range tx.Body.ReferenceInputs {
		if out, ok := resolved[in]; ok {
			outputs = append(outputs, out)
		}
	}
	return outputs
}
