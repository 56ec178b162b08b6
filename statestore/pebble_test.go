package statestore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

func testOutput(coin int64) txs.TransactionOutput {
	var cred txs.Hash28
	cred[0] = 7
	return txs.TransactionOutput{
		Address: txs.Address{Network: txs.NetworkTestnet, Kind: txs.AddressKeyHash, Credential: cred},
		Value:   value.Value{Coin: coin},
	}
}

func TestPebbleUtxosPutGetDelete(t *testing.T) {
	r := require.New(t)

	db, err := Open(t.TempDir())
	r.NoError(err)
	defer db.Close()

	var txid txs.TransactionId
	txid[0] = 1
	in := txs.TransactionInput{TransactionId: txid, Index: 0}
	out := testOutput(5_000_000)

	_, ok := db.Get(in)
	r.False(ok)
	r.Equal(0, db.Len())

	db.Put(in, out)
	got, ok := db.Get(in)
	r.True(ok)
	r.Equal(out.Value.Coin, got.Value.Coin)
	r.Equal(1, db.Len())

	db.Delete(in)
	_, ok = db.Get(in)
	r.False(ok)
	r.Equal(0, db.Len())
}

func TestPebbleUtxosCloneIsIndependentSnapshot(t *testing.T) {
	r := require.New(t)

	db, err := Open(t.TempDir())
	r.NoError(err)
	defer db.Close()

	var txid txs.TransactionId
	txid[0] = 2
	in := txs.TransactionInput{TransactionId: txid, Index: 0}
	db.Put(in, testOutput(1_000_000))

	clone := db.Clone()
	r.Equal(1, clone.Len())

	db.Put(txs.TransactionInput{TransactionId: txid, Index: 1}, testOutput(2_000_000))
	r.Equal(1, clone.Len())
	r.Equal(2, db.Len())
}

func TestPebbleUtxosLoadFromWritesEveryEntry(t *testing.T) {
	r := require.New(t)

	db, err := Open(t.TempDir())
	r.NoError(err)
	defer db.Close()

	var txid txs.TransactionId
	txid[0] = 3
	raw := map[txs.TransactionInput]txs.TransactionOutput{
		{TransactionId: txid, Index: 0}: testOutput(3_000_000),
		{TransactionId: txid, Index: 1}: testOutput(4_000_000),
	}
	r.NoError(db.LoadFrom(raw))
	r.Equal(2, db.Len())
}
