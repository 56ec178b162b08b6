package collateral

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

func addr(scriptHash bool) txs.Address {
	kind := txs.AddressKeyHash
	if scriptHash {
		kind = txs.AddressScriptHash
	}
	return txs.Address{Network: txs.NetworkTestnet, Kind: kind}
}

func TestResolveFailsOnMissingCollateralInput(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	in := txs.TransactionInput{Index: 0}

	_, ok := Resolve(utxo, []txs.TransactionInput{in})
	r.False(ok)
}

func TestRequiredRoundsUp(t *testing.T) {
	r := require.New(t)
	r.Equal(uint64(2), Required(1, 150)) // ceil(1*150/100) = ceil(1.5) = 2
	r.Equal(uint64(3), Required(2, 150)) // ceil(3.0) = 3
}

func TestSufficientRejectsNonPureAdaCollateral(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	in := txs.TransactionInput{Index: 0}
	policy := value.PolicyId{1}
	withAsset := value.New(map[value.PolicyId]map[value.AssetName]int64{policy: {"tok": 5}})
	utxo.Utxos.Put(in, txs.TransactionOutput{Address: addr(false), Value: value.Value{Coin: 10_000_000, Assets: withAsset}})

	totals, ok := Resolve(utxo, []txs.TransactionInput{in})
	r.True(ok)

	_, pureAda, sufficient := Sufficient(totals, nil, 1_000_000, 150)
	r.False(pureAda)
	r.False(sufficient)
}

func TestSufficientAcceptsPureAdaCollateralAboveThreshold(t *testing.T) {
	r := require.New(t)
	utxo := state.NewUTxOState()
	in := txs.TransactionInput{Index: 0}
	utxo.Utxos.Put(in, txs.TransactionOutput{Address: addr(false), Value: value.FromCoin(10_000_000)})

	totals, ok := Resolve(utxo, []txs.TransactionInput{in})
	r.True(ok)

	netCoin, pureAda, sufficient := Sufficient(totals, nil, 1_000_000, 150)
	r.True(pureAda)
	r.True(sufficient)
	r.Equal(uint64(10_000_000), netCoin)
}
