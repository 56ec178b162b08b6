package txs

import (
	"sync"

	"github.com/conway-ledger/core/value"
)

// ValidityInterval is the half-open slot window [LowerBound, UpperBound)
// a transaction is valid within; a nil bound means unbounded on that side.
type ValidityInterval struct {
	LowerBound *uint64
	UpperBound *uint64
}

// Contains reports whether slot falls within the interval.
func (v ValidityInterval) Contains(slot uint64) bool {
	if v.LowerBound != nil && slot < *v.LowerBound {
		return false
	}
	if v.UpperBound != nil && slot >= *v.UpperBound {
		return false
	}
	return true
}

// TransactionBody is the signed portion of a Conway transaction.
type TransactionBody struct {
	Inputs          []TransactionInput
	Outputs         []TransactionOutput
	Fee             uint64
	Certificates    []Certificate
	Withdrawals     Withdrawals
	Mint            Mint
	ValidityInterval ValidityInterval
	Collateral      []TransactionInput
	ReferenceInputs []TransactionInput
	RequiredSigners []Hash28
	ScriptDataHash  *Hash32
	Network         *NetworkId
	Proposals       []ProposalProcedure
	Votes           []VotingProcedure
	TotalCollateral *uint64
	CollateralReturn *TransactionOutput
	CurrentTreasuryValue *uint64
	Donation        uint64
	AuxiliaryDataHash *Hash32
}

// VKeyWitness is an Ed25519 verification-key witness: the key itself and
// its signature over the transaction body hash. Signature verification
// is outside this core's scope (it is a pure cryptographic check the
// caller is assumed to have already performed, or that is delegated to
// the crypto package); the rule pipeline only checks *presence* of the
// witnesses the body requires (spec.md §4.6 "Witnesses present").
type VKeyWitness struct {
	VKey      [32]byte
	Signature [64]byte
}

// KeyHash is the Blake2b-224 hash identity a VKeyWitness satisfies.
// In this core it is supplied directly rather than recomputed, since key
// hashing is a crypto-package concern (see crypto.HashVKey).
type KeyHash = Hash28

// WitnessSet carries every witness attached to a transaction.
type WitnessSet struct {
	VKeyWitnesses    []VKeyWitness
	VKeyHashes       []KeyHash // precomputed hash of each VKeyWitnesses entry, same order
	NativeScripts    map[Hash28][]byte
	PlutusV1Scripts  map[Hash28][]byte
	PlutusV2Scripts  map[Hash28][]byte
	PlutusV3Scripts  map[Hash28][]byte
	Datums           map[Hash32][]byte
	Redeemers        []Redeemer
}

// AllScripts returns every script hash provided in the witness set,
// regardless of language.
func (w WitnessSet) AllScripts() map[Hash28][]byte {
	out := make(map[Hash28][]byte, len(w.NativeScripts)+len(w.PlutusV1Scripts)+len(w.PlutusV2Scripts)+len(w.PlutusV3Scripts))
	for h, s := range w.NativeScripts {
		out[h] = s
	}
	for h, s := range w.PlutusV1Scripts {
		out[h] = s
	}
	for h, s := range w.PlutusV2Scripts {
		out[h] = s
	}
	for h, s := range w.PlutusV3Scripts {
		out[h] = s
	}
	return out
}

// Languages returns the Plutus language versions that have at least one
// script in this witness set (needed for the script-data-hash
// commitment, which only includes the cost models of languages used).
// Scripts supplied through reference inputs are not counted.
func (w WitnessSet) Languages() []string {
	var langs []string
	if len(w.PlutusV1Scripts) > 0 {
		langs = append(langs, "PlutusV1")
	}
	if len(w.PlutusV2Scripts) > 0 {
		langs = append(langs, "PlutusV2")
	}
	if len(w.PlutusV3Scripts) > 0 {
		langs = append(langs, "PlutusV3")
	}
	return langs
}

// Transaction is a full transaction: body, witnesses, an IsValid marker
// (Phase-2-validity, per the collateral-forfeiture rule in spec.md §4.7),
// and optional auxiliary data.
//
// Re-architect lazy serialization caching (spec.md §9 Design Notes):
// encodedBytes holds the canonical CBOR encoding an external encoder
// (cborx) computed once and handed over via SetEncoded, so Size() and
// Id() never re-encode; before that they report 0 and the zero id.
type Transaction struct {
	Body          TransactionBody
	Witnesses     WitnessSet
	IsValid       bool
	AuxiliaryData []byte

	mu            sync.Mutex
	encodedBytes  []byte
	id            *TransactionId
}

// SetEncoded caches the canonical CBOR encoding computed by an external
// encoder (cborx), so downstream Size()/Id() calls are free.
func (t *Transaction) SetEncoded(b []byte, id TransactionId) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.encodedBytes = b
	t.id = &id
}

// Encoded returns the memoized canonical encoding and whether it has
// been set yet.
func (t *Transaction) Encoded() ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.encodedBytes == nil {
		return nil, false
	}
	return t.encodedBytes, true
}

// Size returns the memoized canonical CBOR byte length, or 0 if the
// transaction has not yet been encoded by an external encoder.
func (t *Transaction) Size() int {
	b, ok := t.Encoded()
	if !ok {
		return 0
	}
	return len(b)
}

// Id returns the memoized transaction id, or the zero Hash32 if the
// transaction has not yet been encoded.
func (t *Transaction) Id() TransactionId {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.id == nil {
		return TransactionId{}
	}
	return *t.id
}

// ReferenceScriptsTotalSize sums the byte length of every reference
// script reachable from this transaction's reference inputs and spent
// inputs (the tiered reference-script fee's input, spec.md §4.5).
func ReferenceScriptsTotalSize(outputs []TransactionOutput) int {
	total := 0
	for _, o := range outputs {
		total += o.ScriptRef.Size()
	}
	return total
}

// TotalMintedPositive returns only the positive (minted, not burned)
// side of a Mint value, as a Value for balance accounting.
func TotalMintedPositive(m Mint) value.Value {
	out := map[value.PolicyId]map[value.AssetName]int64{}
	for _, p := range m.Policies() {
		for _, a := range m.AssetsOf(p) {
			qty := m.Get(p, a)
			if qty > 0 {
				if out[p] == nil {
					out[p] = map[value.AssetName]int64{}
				}
				out[p][a] = qty
			}
		}
	}
	return value.Value{Assets: value.New(out)}
}

// TotalBurnedAsPositive returns the negative (burned) side of a Mint
// value, re-added as positive quantities, as spec.md §4.4 "produced"
// requires.
func TotalBurnedAsPositive(m Mint) value.Value {
	out := map[value.PolicyId]map[value.AssetName]int64{}
	for _, p := range m.Policies() {
		for _, a := range m.AssetsOf(p) {
			qty := m.Get(p, a)
			if qty < 0 {
				if out[p] == nil {
					out[p] = map[value.AssetName]int64{}
				}
				out[p][a] = -qty
			}
		}
	}
	return value.Value{Assets: value.New(out)}
}
