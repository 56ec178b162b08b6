package txbalance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/params"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

func addr() txs.Address {
	return txs.Address{Network: txs.NetworkTestnet, Kind: txs.AddressKeyHash}
}

func TestComputeFailsOnBadInputs(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	cert := state.NewCertState()
	body := txs.TransactionBody{Inputs: []txs.TransactionInput{{Index: 0}}}

	_, err := Compute(params.ProtocolParams{}, utxo, cert, txs.TransactionId{}, body)
	r.ErrorIs(err, ErrBadInputsSentinel)
}

func TestComputeIsConservedForSimpleTransfer(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	cert := state.NewCertState()
	in := txs.TransactionInput{Index: 0}
	utxo.Utxos.Put(in, txs.TransactionOutput{Address: addr(), Value: value.FromCoin(10_000_000)})

	body := txs.TransactionBody{
		Inputs:  []txs.TransactionInput{in},
		Outputs: []txs.TransactionOutput{{Address: addr(), Value: value.FromCoin(8_000_000)}},
		Fee:     2_000_000,
	}

	balance, err := Compute(params.ProtocolParams{}, utxo, cert, txs.TransactionId{}, body)
	r.NoError(err)
	r.True(balance.Conserved())
}

func TestComputeIncludesStakeRegistrationDepositInProduced(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	cert := state.NewCertState()
	in := txs.TransactionInput{Index: 0}
	utxo.Utxos.Put(in, txs.TransactionOutput{Address: addr(), Value: value.FromCoin(10_000_000)})

	var cred txs.Credential
	cred.Hash[0] = 1

	body := txs.TransactionBody{
		Inputs:       []txs.TransactionInput{in},
		Outputs:      []txs.TransactionOutput{{Address: addr(), Value: value.FromCoin(6_000_000)}},
		Fee:          2_000_000,
		Certificates: []txs.Certificate{{Kind: txs.CertStakeRegistration, Credential: cred}},
	}

	p := params.ProtocolParams{StakeAddressDeposit: 2_000_000}
	balance, err := Compute(p, utxo, cert, txs.TransactionId{}, body)
	r.NoError(err)
	r.True(balance.Conserved())
	r.Equal(int64(10_000_000), balance.Produced.Coin)
}

func TestComputeDoesNotMutateCertState(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	cert := state.NewCertState()
	in := txs.TransactionInput{Index: 0}
	utxo.Utxos.Put(in, txs.TransactionOutput{Address: addr(), Value: value.FromCoin(10_000_000)})

	var cred txs.Credential
	cred.Hash[0] = 1
	body := txs.TransactionBody{
		Inputs:       []txs.TransactionInput{in},
		Outputs:      []txs.TransactionOutput{{Address: addr(), Value: value.FromCoin(8_000_000)}},
		Certificates: []txs.Certificate{{Kind: txs.CertStakeRegistration, Credential: cred}},
	}

	_, err := Compute(params.ProtocolParams{StakeAddressDeposit: 2_000_000}, utxo, cert, txs.TransactionId{}, body)
	r.NoError(err)
	r.False(cert.Delegation.IsRegistered(cred))
}
