package rules

import (
	"github.com/conway-ledger/core/certstate"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

// Mutator is a state transition applied after Run has accepted a
// transaction, per spec.md §4.7. Mutators assume validation already
// passed; they do not re-check invariants.
type Mutator func(p params.ProtocolParams, st *state.State, tx *txs.Transaction) error

// mutators runs in this fixed order, mirroring spec.md §4.7: fees and
// donation are accounted first, while collateral inputs are still
// resolvable in the UTXO set; UTXO consumption/production happens next;
// certificate application runs last.
var mutators = []Mutator{
	mutateFeesAndDonation,
	mutateUTxO,
	mutateCertificates,
}

// Apply runs every mutator against st in order, producing State' in
// place. Callers that need to preserve the pre-transaction state should
// clone it first (state.State.Clone).
func Apply(p params.ProtocolParams, st *state.State, tx *txs.Transaction) error {
	for _, m := range mutators {
		if err := m(p, st, tx); err != nil {
			return err
		}
	}
	return nil
}

// mutateUTxO removes every spent input and adds every output (spec.md
// §4.7). Phase-2-invalid transactions (tx.IsValid == false) only consume
// their collateral inputs and produce the collateral-return output, if
// any, per the collateral-forfeiture branch.
func mutateUTxO(p params.ProtocolParams, st *state.State, tx *txs.Transaction) error {
	id := tx.Id()

	if !tx.IsValid {
		for _, in := range tx.Body.Collateral {
			st.UTxO.Utxos.Delete(in)
		}
		if tx.Body.CollateralReturn != nil {
			st.UTxO.Utxos.Put(txs.TransactionInput{TransactionId: id, Index: uint32(len(tx.Body.Outputs))}, *tx.Body.CollateralReturn)
		}
		return nil
	}

	for _, in := range tx.Body.Inputs {
		st.UTxO.Utxos.Delete(in)
	}
	for i, out := range tx.Body.Outputs {
		st.UTxO.Utxos.Put(txs.TransactionInput{TransactionId: id, Index: uint32(i)}, out)
	}
	return nil
}

// mutateCertificates applies the transaction's certificates and
// proposals against CertState, updating Deposited by the net delta
// (spec.md §4.3/§4.7). For phase-2-invalid transactions this is a no-op:
// their certificates and proposals, if any, are not applied.
func mutateCertificates(p params.ProtocolParams, st *state.State, tx *txs.Transaction) error {
	if !tx.IsValid {
		return nil
	}
	totals, err := certstate.Apply(p, st.Cert, tx.Body.Certificates, tx.Body.Proposals)
	if err != nil {
		return err
	}
	delta := totals.Net()
	if delta >= 0 {
		st.UTxO.Deposited += uint64(delta)
	} else {
		st.UTxO.Deposited -= uint64(-delta)
	}
	return nil
}

// mutateFeesAndDonation accumulates the transaction's fee (or, for an
// invalid transaction, its collateral forfeiture) and any treasury
// donation into the running ledger totals (spec.md §4.7).
func mutateFeesAndDonation(p params.ProtocolParams, st *state.State, tx *txs.Transaction) error {
	if !tx.IsValid {
		netCoin, _, _ := collateralNet(st, tx)
		st.UTxO.Fees += netCoin
		return nil
	}
	st.UTxO.Fees += tx.Body.Fee
	st.UTxO.Donation += tx.Body.Donation
	return nil
}

func collateralNet(st *state.State, tx *txs.Transaction) (uint64, bool, bool) {
	var total uint64
	for _, in := range tx.Body.Collateral {
		if out, ok := st.UTxO.Utxos.Get(in); ok {
			total += uint64(out.Value.Coin)
		}
	}
	var returned uint64
	if tx.Body.CollateralReturn != nil {
		returned = uint64(tx.Body.CollateralReturn.Value.Coin)
	}
	if returned > total {
		return 0, false, false
	}
	return total - returned, true, true
}
