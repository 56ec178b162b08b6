package rules

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/plutus"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

func testParams() params.ProtocolParams {
	return params.ProtocolParams{
		FeePerByte:           44,
		FeeFixed:             155381,
		StakeAddressDeposit:  2_000_000,
		PoolDeposit:          500_000_000,
		DRepDeposit:          500_000_000,
		MaxTxSize:            16384,
		MaxValueSize:         5000,
		MaxTxExecutionUnits:  params.ExUnits{Memory: 14_000_000, Steps: 10_000_000_000},
		PriceMemNum:          577, PriceMemDen: 10000,
		PriceStepsNum: 721, PriceStepsDen: 10_000_000,
		CoinsPerUTxOByte:     4310,
		CollateralPercentage: 150,
		MaxCollateralInputs:  3,
	}
}

func simpleInput(n byte) txs.TransactionInput {
	var id txs.Hash32
	id[0] = n
	return txs.TransactionInput{TransactionId: id, Index: 0}
}

func simpleAddress(n byte) txs.Address {
	var cred txs.Hash28
	cred[0] = n
	return txs.Address{Network: txs.NetworkTestnet, Kind: txs.AddressKeyHash, Credential: cred}
}

// TestRunAcceptsWellFormedTransaction is spec.md §8 Scenario A: a
// single-input, single-output, fee-paying transaction that conserves
// value and carries its one required vkey witness.
func TestRunAcceptsWellFormedTransaction(t *testing.T) {
	r := require.New(t)

	in := simpleInput(1)
	addr := simpleAddress(9)
	spentOut := txs.TransactionOutput{Address: addr, Value: value.FromCoin(10_000_000)}

	utxo := state.NewUTxOState()
	utxo.Utxos.Put(in, spentOut)
	st := &state.State{UTxO: utxo, Cert: state.NewCertState()}

	body := txs.TransactionBody{
		Inputs:  []txs.TransactionInput{in},
		Outputs: []txs.TransactionOutput{{Address: simpleAddress(1), Value: value.FromCoin(8_000_000)}},
		Fee:     2_000_000,
	}
	tx := &txs.Transaction{
		Body:      body,
		Witnesses: txs.WitnessSet{VKeyHashes: []txs.Hash28{addr.Credential}},
	}
	tx.SetEncoded(make([]byte, 300), txs.TransactionId{})

	deps := Deps{
		ResolvedInputs: map[txs.TransactionInput]txs.TransactionOutput{in: spentOut},
		Evaluator:      plutus.NoopEvaluator{},
	}

	err := Run(params.Environment{Slot: 100, Params: testParams(), Network: params.NetworkTestnet}, st, tx, deps)
	r.NoError(err)

	r.NoError(Apply(testParams(), st, tx))
	_, stillThere := st.UTxO.Utxos.Get(in)
	r.False(stillThere)
	out, ok := st.UTxO.Utxos.Get(txs.TransactionInput{TransactionId: tx.Id(), Index: 0})
	r.True(ok)
	r.Equal(int64(8_000_000), out.Value.Coin)
	r.Equal(uint64(2_000_000), st.UTxO.Fees)
}

// TestRunRejectsUnbalancedTransaction is spec.md §8 Scenario B: consumed
// != produced.
func TestRunRejectsUnbalancedTransaction(t *testing.T) {
	r := require.New(t)

	in := simpleInput(1)
	addr := simpleAddress(9)
	spentOut := txs.TransactionOutput{Address: addr, Value: value.FromCoin(10_000_000)}

	utxo := state.NewUTxOState()
	utxo.Utxos.Put(in, spentOut)
	st := &state.State{UTxO: utxo, Cert: state.NewCertState()}

	body := txs.TransactionBody{
		Inputs:  []txs.TransactionInput{in},
		Outputs: []txs.TransactionOutput{{Address: simpleAddress(1), Value: value.FromCoin(9_000_000)}},
		Fee:     500_000, // leaves 500_000 unaccounted for
	}
	tx := &txs.Transaction{
		Body:      body,
		Witnesses: txs.WitnessSet{VKeyHashes: []txs.Hash28{addr.Credential}},
	}
	tx.SetEncoded(make([]byte, 300), txs.TransactionId{})

	deps := Deps{
		ResolvedInputs: map[txs.TransactionInput]txs.TransactionOutput{in: spentOut},
		Evaluator:      plutus.NoopEvaluator{},
	}

	err := Run(params.Environment{Slot: 100, Params: testParams(), Network: params.NetworkTestnet}, st, tx, deps)
	r.Error(err)
	errs, ok := err.(Errors)
	r.True(ok)
	var sawConservation bool
	for _, e := range errs {
		if e.Code() == "ValueNotConservedUTxO" {
			sawConservation = true
		}
	}
	r.True(sawConservation)
}

// TestRunRejectsMissingWitness is spec.md §8 Scenario C: the spending
// credential's vkey witness is absent.
func TestRunRejectsMissingWitness(t *testing.T) {
	r := require.New(t)

	in := simpleInput(1)
	addr := simpleAddress(9)
	spentOut := txs.TransactionOutput{Address: addr, Value: value.FromCoin(10_000_000)}

	utxo := state.NewUTxOState()
	utxo.Utxos.Put(in, spentOut)
	st := &state.State{UTxO: utxo, Cert: state.NewCertState()}

	body := txs.TransactionBody{
		Inputs:  []txs.TransactionInput{in},
		Outputs: []txs.TransactionOutput{{Address: simpleAddress(1), Value: value.FromCoin(8_000_000)}},
		Fee:     2_000_000,
	}
	tx := &txs.Transaction{Body: body}
	tx.SetEncoded(make([]byte, 300), txs.TransactionId{})

	deps := Deps{
		ResolvedInputs: map[txs.TransactionInput]txs.TransactionOutput{in: spentOut},
		Evaluator:      plutus.NoopEvaluator{},
	}

	err := Run(params.Environment{Slot: 100, Params: testParams(), Network: params.NetworkTestnet}, st, tx, deps)
	r.Error(err)
	errs, ok := err.(Errors)
	r.True(ok)
	var sawMissingWitness bool
	for _, e := range errs {
		if e.Code() == "MissingVKeyWitnesses" {
			sawMissingWitness = true
		}
	}
	r.True(sawMissingWitness)
}

// TestRunStopsAtDependentFailure is spec.md §8 Scenario D: a bad input
// reference short-circuits before any independent validator runs.
func TestRunStopsAtDependentFailure(t *testing.T) {
	r := require.New(t)

	in := simpleInput(1)
	st := state.NewState()

	body := txs.TransactionBody{Inputs: []txs.TransactionInput{in}}
	tx := &txs.Transaction{Body: body}

	err := Run(params.Environment{Slot: 100, Params: testParams(), Network: params.NetworkTestnet}, st, tx, Deps{})
	r.Error(err)
	_, isErrors := err.(Errors)
	r.False(isErrors, "a dependent-validator failure must not be wrapped in Errors")
	r.Equal("BadInputs", err.(RuleError).Code())
}
