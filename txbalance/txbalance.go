// Package txbalance computes the consumed/produced multi-asset value a
// transaction implies, per spec.md §4.4, including stake/DRep deposits
// and refunds, donations, mint/burn, and withdrawals.
package txbalance

import (
	"errors"
	"fmt"

	"github.com/conway-ledger/core/certstate"
	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

// ErrBadInputs is returned when a transaction's input set references an
// output not present in the UTXO set.
type ErrBadInputs struct {
	TxID txs.TransactionId
}

func (e *ErrBadInputs) Error() string {
	return fmt.Sprintf("txbalance: bad inputs in tx %s", e.TxID)
}

// Is allows errors.Is(err, ErrBadInputsSentinel) style matching against
// the exported sentinel below, in addition to errors.As for the
// diagnostic TxID field.
func (e *ErrBadInputs) Is(target error) bool {
	return errors.Is(target, ErrBadInputsSentinel)
}

// ErrBadInputsSentinel is the stable identity ErrBadInputs.Is compares
// against, so callers can use errors.Is without needing the TxID.
var ErrBadInputsSentinel = errors.New("txbalance: bad inputs")

// Balance is the computed consumed/produced pair for one transaction.
type Balance struct {
	Consumed value.Value
	Produced value.Value
}

// Conserved reports whether Consumed == Produced exactly, as full values.
func (b Balance) Conserved() bool {
	return b.Consumed.Equal(b.Produced)
}

// Compute returns the consumed/produced balance for tx against utxo and
// cert. Certificates and proposals are walked read-only via
// certstate.ComputeTotals (never mutating cert): the balance calculator
// must not have side effects, since it may be invoked speculatively by
// a fee estimator before the transaction is finalized.
func Compute(p params.ProtocolParams, utxo *state.UTxOState, cert *state.CertState, id txs.TransactionId, body txs.TransactionBody) (Balance, error) {
	var consumedInputs value.Value
	for _, in := range body.Inputs {
		out, ok := utxo.Utxos.Get(in)
		if !ok {
			return Balance{}, &ErrBadInputs{TxID: id}
		}
		consumedInputs = consumedInputs.Add(out.Value)
	}

	totals, err := certstate.ComputeTotals(p, cert, body.Certificates, body.Proposals)
	if err != nil {
		return Balance{}, err
	}

	consumed := consumedInputs
	consumed = consumed.Add(value.FromCoin(int64(body.Withdrawals.Total())))
	consumed = consumed.Add(value.FromCoin(int64(totals.Refunds)))
	consumed = consumed.Add(txs.TotalMintedPositive(body.Mint))

	var producedOutputs value.Value
	for _, o := range body.Outputs {
		producedOutputs = producedOutputs.Add(o.Value)
	}

	produced := producedOutputs
	produced = produced.Add(value.FromCoin(int64(body.Fee)))
	produced = produced.Add(value.FromCoin(int64(totals.NewDeposits) + int64(totals.ProposalDeposits)))
	produced = produced.Add(txs.TotalBurnedAsPositive(body.Mint))
	produced = produced.Add(value.FromCoin(int64(body.Donation)))

	return Balance{Consumed: consumed, Produced: produced}, nil
}
