// Package state implements the UTXOState and CertState entities of
// spec.md §3: the ledger's owned, immutable-within-a-validation-run
// world, and the Chain-style interface the teacher's
// vms/platformvm/state.Diff pattern uses to let the rule pipeline read a
// single "current view" regardless of whether it is backed by an
// in-memory map or a persistent store.
package state

import "github.com/conway-ledger/core/txs"

// Utxos is the read/write surface the rule pipeline needs over the
// unspent-output set. MapUtxos and statestore.PebbleUtxos both implement
// it, mirroring the teacher's Chain interface abstracting over
// state.diff vs state.state.
type Utxos interface {
	Get(txs.TransactionInput) (txs.TransactionOutput, bool)
	Put(txs.TransactionInput, txs.TransactionOutput)
	Delete(txs.TransactionInput)
	Len() int
	// Clone returns an independent copy, so a caller may derive State'
	// without mutating the caller's own State.
	Clone() Utxos
}

// MapUtxos is the default in-memory Utxos implementation.
type MapUtxos struct {
	entries map[txs.TransactionInput]txs.TransactionOutput
}

// NewMapUtxos builds an empty MapUtxos.
func NewMapUtxos() *MapUtxos {
	return &MapUtxos{entries: map[txs.TransactionInput]txs.TransactionOutput{}}
}

// NewMapUtxosFrom builds a MapUtxos from a raw map.
func NewMapUtxosFrom(raw map[txs.TransactionInput]txs.TransactionOutput) *MapUtxos {
	m := NewMapUtxos()
	for k, v := range raw {
		m.entries[k] = v
	}
	return m
}

func (m *MapUtxos) Get(in txs.TransactionInput) (txs.TransactionOutput, bool) {
	out, ok := m.entries[in]
	return out, ok
}

func (m *MapUtxos) Put(in txs.TransactionInput, out txs.TransactionOutput) {
	m.entries[in] = out
}

func (m *MapUtxos) Delete(in txs.TransactionInput) {
	delete(m.entries, in)
}

func (m *MapUtxos) Len() int {
	return len(m.entries)
}

func (m *MapUtxos) Clone() Utxos {
	clone := NewMapUtxos()
	for k, v := range m.entries {
		clone.entries[k] = v
	}
	return clone
}

// UTxOState is the full spendable-output ledger state, per spec.md §3.
type UTxOState struct {
	Utxos    Utxos
	Deposited uint64
	Fees      uint64
	Donation  uint64
}

// NewUTxOState builds a UTxOState over an empty in-memory UTXO set.
func NewUTxOState() *UTxOState {
	return &UTxOState{Utxos: NewMapUtxos()}
}

// Clone returns an independent copy of the state, so the orchestrator can
// produce State' without mutating the caller's State.
func (s *UTxOState) Clone() *UTxOState {
	return &UTxOState{
		Utxos:     s.Utxos.Clone(),
		Deposited: s.Deposited,
		Fees:      s.Fees,
		Donation:  s.Donation,
	}
}
