// Package statestore implements a pebble-backed state.Utxos, the
// persistent alternative to state.MapUtxos, following the teacher's
// pattern of wrapping a concrete database behind the same interface its
// in-memory implementations satisfy (database.Database in the teacher,
// state.Utxos here).
package statestore

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/conway-ledger/core/cborx"
	"github.com/conway-ledger/core/state"
	"github.com/conway-ledger/core/txs"
)

var _ state.Utxos = (*PebbleUtxos)(nil)

// PebbleUtxos stores the UTXO set in a pebble database, keyed by the
// canonical CBOR encoding of each TransactionInput.
type PebbleUtxos struct {
	db *pebble.DB
}

// Open opens (or creates) a pebble database at dir for use as a
// PebbleUtxos.
func Open(dir string) (*PebbleUtxos, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("statestore: opening pebble db at %s: %w", dir, err)
	}
	return &PebbleUtxos{db: db}, nil
}

// Close closes the underlying pebble database.
func (p *PebbleUtxos) Close() error {
	return p.db.Close()
}

func (p *PebbleUtxos) Get(in txs.TransactionInput) (txs.TransactionOutput, bool) {
	key, err := cborx.EncodeInput(in)
	if err != nil {
		return txs.TransactionOutput{}, false
	}
	val, closer, err := p.db.Get(key)
	if err != nil {
		return txs.TransactionOutput{}, false
	}
	defer closer.Close()

	out, err := cborx.DecodeOutput(val)
	if err != nil {
		return txs.TransactionOutput{}, false
	}
	return out, true
}

func (p *PebbleUtxos) Put(in txs.TransactionInput, out txs.TransactionOutput) {
	key, err := cborx.EncodeInput(in)
	if err != nil {
		return
	}
	val, err := cborx.EncodeOutput(out)
	if err != nil {
		return
	}
	_ = p.db.Set(key, val, pebble.Sync)
}

func (p *PebbleUtxos) Delete(in txs.TransactionInput) {
	key, err := cborx.EncodeInput(in)
	if err != nil {
		return
	}
	_ = p.db.Delete(key, pebble.Sync)
}

func (p *PebbleUtxos) Len() int {
	iter := p.db.NewIter(&pebble.IterOptions{})
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n
}

// Clone materializes every entry into an in-memory state.MapUtxos,
// mirroring the teacher's VersionedDatabase pattern of handing callers an
// independent snapshot rather than a live view into the store.
// rules.Apply mutates the Utxos it is given in place, so applying a
// transaction to a Clone leaves the persistent store untouched.
func (p *PebbleUtxos) Clone() state.Utxos {
	raw := map[txs.TransactionInput]txs.TransactionOutput{}

	iter := p.db.NewIter(&pebble.IterOptions{})
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		in, err := cborx.DecodeInput(iter.Key())
		if err != nil {
			continue
		}
		out, err := cborx.DecodeOutput(iter.Value())
		if err != nil {
			continue
		}
		raw[in] = out
	}
	return state.NewMapUtxosFrom(raw)
}

// LoadFrom replaces p's contents with every entry of raw, used to persist
// a derived State' (produced in memory by rules.Apply, typically a
// MapUtxos) back to disk in one batch.
func (p *PebbleUtxos) LoadFrom(raw map[txs.TransactionInput]txs.TransactionOutput) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	iter := p.db.NewIter(&pebble.IterOptions{})
	for iter.First(); iter.Valid(); iter.Next() {
		if err := batch.Delete(iter.Key(), nil); err != nil {
			iter.Close()
			return err
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}

	for in, out := range raw {
		key, err := cborx.EncodeInput(in)
		if err != nil {
			return fmt.Errorf("statestore: encoding input: %w", err)
		}
		val, err := cborx.EncodeOutput(out)
		if err != nil {
			return fmt.Errorf("statestore: encoding output: %w", err)
		}
		if err := batch.Set(key, val, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}
