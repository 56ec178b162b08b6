// Package cborx's transaction.go implements the canonical encoders the
// fee and minada packages need to re-measure a transaction/output after
// substituting a candidate fee or coin value, plus the script-data-hash
// commitment spec.md §4.6 requires the ScriptDataHash validator to check.
package cborx

import (
	"fmt"

	"github.com/conway-ledger/core/crypto"
	"github.com/conway-ledger/core/fee"
	"github.com/conway-ledger/core/minada"
	"github.com/conway-ledger/core/txs"
	"github.com/conway-ledger/core/value"
)

// wireValue is the CBOR wire shape of a value: coin at key 0 and, when
// present, the policy -> asset-name -> quantity map at key 1.
type wireValue struct {
	Coin   int64                         `cbor:"0,keyasint"`
	Assets map[[28]byte]map[string]int64 `cbor:"1,keyasint,omitempty"`
}

func toWireValue(v value.Value) wireValue {
	w := wireValue{Coin: v.Coin}
	if v.Assets.IsEmpty() {
		return w
	}
	w.Assets = map[[28]byte]map[string]int64{}
	for _, p := range v.Assets.Policies() {
		inner := map[string]int64{}
		for _, a := range v.Assets.AssetsOf(p) {
			inner[string(a)] = v.Assets.Get(p, a)
		}
		w.Assets[p] = inner
	}
	return w
}

// EncodeValue canonically encodes a bare Value, the unit the max-value-
// size check (spec.md §4.6 OutputsHaveTooBigValueStorageSize) measures.
func EncodeValue(v value.Value) ([]byte, error) {
	return Marshal(toWireValue(v))
}

type wireAddress struct {
	Header byte     `cbor:"0,keyasint"`
	Cred   [28]byte `cbor:"1,keyasint"`
}

func toWireAddress(a txs.Address) wireAddress {
	var header byte
	if a.Kind == txs.AddressScriptHash {
		header = 0x7
	} else {
		header = 0x6
	}
	header = header<<4 | byte(a.Network&0x0F)
	return wireAddress{Header: header, Cred: a.Credential}
}

type wireOutput struct {
	Address    wireAddress `cbor:"0,keyasint"`
	Value      wireValue   `cbor:"1,keyasint"`
	DatumHash  *[32]byte   `cbor:"2,keyasint,omitempty"`
	Inline     []byte      `cbor:"3,keyasint,omitempty"`
	ScriptRef  []byte      `cbor:"4,keyasint,omitempty"`
}

func toWireOutput(o txs.TransactionOutput, coinOverride *uint64) wireOutput {
	v := o.Value
	if coinOverride != nil {
		v.Coin = int64(*coinOverride)
	}
	w := wireOutput{Address: toWireAddress(o.Address), Value: toWireValue(v)}
	switch o.Datum.Kind {
	case txs.DatumHash:
		h := o.Datum.Hash
		w.DatumHash = &h
	case txs.InlineDatum:
		w.Inline = o.Datum.Inline
	}
	if o.ScriptRef != nil {
		w.ScriptRef = o.ScriptRef.Bytes
	}
	return w
}

// EncodeOutput canonically encodes a single output.
func EncodeOutput(o txs.TransactionOutput) ([]byte, error) {
	return Marshal(toWireOutput(o, nil))
}

func fromWireValue(w wireValue) value.Value {
	raw := make(map[value.PolicyId]map[value.AssetName]int64, len(w.Assets))
	for policy, assets := range w.Assets {
		inner := make(map[value.AssetName]int64, len(assets))
		for name, qty := range assets {
			inner[value.AssetName(name)] = qty
		}
		raw[value.PolicyId(policy)] = inner
	}
	return value.Value{Coin: w.Coin, Assets: value.New(raw)}
}

func fromWireAddress(w wireAddress) txs.Address {
	a := txs.Address{
		Network:    txs.NetworkId(w.Header & 0x0F),
		Credential: txs.Hash28(w.Cred),
	}
	if w.Header>>4 == 0x7 {
		a.Kind = txs.AddressScriptHash
	} else {
		a.Kind = txs.AddressKeyHash
	}
	return a
}

func fromWireOutput(w wireOutput) txs.TransactionOutput {
	o := txs.TransactionOutput{
		Address: fromWireAddress(w.Address),
		Value:   fromWireValue(w.Value),
	}
	switch {
	case w.DatumHash != nil:
		o.Datum = txs.OutputDatum{Kind: txs.DatumHash, Hash: txs.Hash32(*w.DatumHash)}
	case w.Inline != nil:
		o.Datum = txs.OutputDatum{Kind: txs.InlineDatum, Inline: w.Inline}
	}
	if w.ScriptRef != nil {
		o.ScriptRef = &txs.ScriptRef{Bytes: w.ScriptRef}
	}
	return o
}

// DecodeOutput is EncodeOutput's inverse, used by the pebble-backed UTXO
// store to materialize a txs.TransactionOutput from its stored bytes.
func DecodeOutput(data []byte) (txs.TransactionOutput, error) {
	var w wireOutput
	if err := Unmarshal(data, &w); err != nil {
		return txs.TransactionOutput{}, err
	}
	return fromWireOutput(w), nil
}

// EncodeInput canonically encodes a transaction input, used as the
// pebble-backed UTXO store's key so entries sort by (txid, index).
func EncodeInput(in txs.TransactionInput) ([]byte, error) {
	return Marshal(toWireInput(in))
}

// DecodeInput is EncodeInput's inverse.
func DecodeInput(data []byte) (txs.TransactionInput, error) {
	var w wireInput
	if err := Unmarshal(data, &w); err != nil {
		return txs.TransactionInput{}, err
	}
	return txs.TransactionInput{TransactionId: w.TxId, Index: w.Index}, nil
}

// wireUtxoEntry is one (input, output) pair, the wire shape EncodeUtxoSet/
// DecodeUtxoSet use to snapshot a whole UTXO set to/from a single file
// (the CLI's --utxo input, and a future chain-follower's checkpoint
// format).
type wireUtxoEntry struct {
	In  wireInput  `cbor:"0,keyasint"`
	Out wireOutput `cbor:"1,keyasint"`
}

// EncodeUtxoSet canonically encodes an entire UTXO set as an array of
// (input, output) pairs.
func EncodeUtxoSet(set map[txs.TransactionInput]txs.TransactionOutput) ([]byte, error) {
	entries := make([]wireUtxoEntry, 0, len(set))
	for in, out := range set {
		entries = append(entries, wireUtxoEntry{In: toWireInput(in), Out: toWireOutput(out, nil)})
	}
	return Marshal(entries)
}

// DecodeUtxoSet is EncodeUtxoSet's inverse.
func DecodeUtxoSet(data []byte) (map[txs.TransactionInput]txs.TransactionOutput, error) {
	var entries []wireUtxoEntry
	if err := Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("cborx: decoding utxo set: %w", err)
	}
	set := make(map[txs.TransactionInput]txs.TransactionOutput, len(entries))
	for _, e := range entries {
		set[txs.TransactionInput{TransactionId: e.In.TxId, Index: e.In.Index}] = fromWireOutput(e.Out)
	}
	return set, nil
}

// NewCoinEncoder builds a minada.SizeEncoder over out: re-encoding the
// output with its coin field replaced by each candidate.
func NewCoinEncoder(out txs.TransactionOutput) minada.SizeEncoder {
	return func(candidateCoin uint64) (int, error) {
		b, err := Marshal(toWireOutput(out, &candidateCoin))
		if err != nil {
			return 0, err
		}
		return len(b), nil
	}
}

type wireInput struct {
	TxId  [32]byte `cbor:"0,keyasint"`
	Index uint32   `cbor:"1,keyasint"`
}

func toWireInput(i txs.TransactionInput) wireInput {
	return wireInput{TxId: i.TransactionId, Index: i.Index}
}

func toWireInputs(ins []txs.TransactionInput) []wireInput {
	out := make([]wireInput, len(ins))
	for i, in := range ins {
		out[i] = toWireInput(in)
	}
	return out
}

// wireBody is the canonical Conway transaction-body wire shape, indexed
// exactly the way the real body map is keyed, trimmed to the fields this
// core's rules actually consume (inputs/outputs/fee/validity interval
// drive size and the rules that check them; the remaining body fields
// are carried by the richer cborx decoders above when needed).
type wireBody struct {
	Inputs  []wireInput  `cbor:"0,keyasint"`
	Outputs []wireOutput `cbor:"1,keyasint"`
	Fee     uint64       `cbor:"2,keyasint"`
	TTL     *uint64      `cbor:"3,keyasint,omitempty"`
}

func toWireBody(body txs.TransactionBody, feeOverride *uint64) wireBody {
	f := body.Fee
	if feeOverride != nil {
		f = *feeOverride
	}
	outputs := make([]wireOutput, len(body.Outputs))
	for i, o := range body.Outputs {
		outputs[i] = toWireOutput(o, nil)
	}
	return wireBody{
		Inputs:  toWireInputs(body.Inputs),
		Outputs: outputs,
		Fee:     f,
		TTL:     body.ValidityInterval.UpperBound,
	}
}

// EncodeBody canonically encodes a transaction body as-is.
func EncodeBody(body txs.TransactionBody) ([]byte, error) {
	return Marshal(toWireBody(body, nil))
}

// NewFeeEncoder builds a fee.Encoder over body: re-encoding the body with
// its fee field replaced by each candidate, the measurement
// EnsureMinFee's fixed-point loop needs (spec.md §4.5).
func NewFeeEncoder(body txs.TransactionBody) fee.Encoder {
	return func(candidateFee uint64) (int, error) {
		b, err := Marshal(toWireBody(body, &candidateFee))
		if err != nil {
			return 0, err
		}
		return len(b), nil
	}
}

// scriptDataPreimage is the portion of the script-data-hash preimage this
// core computes: the canonical encoding of the witness set's redeemers,
// the datums referenced by hash, and the cost models for every Plutus
// language actually used (spec.md §4.6 ScriptDataHash check).
type scriptDataPreimage struct {
	Redeemers  []txs.Redeemer    `cbor:"0,keyasint"`
	Datums     [][]byte          `cbor:"1,keyasint,omitempty"`
	CostModels map[string][]int64 `cbor:"2,keyasint"`
}

// ComputeScriptDataHash reproduces the commitment a transaction's
// ScriptDataHash field must equal whenever any redeemer is present
// (spec.md §4.6). costModels must already be filtered to the languages
// WitnessSet.Languages() reports in use.
func ComputeScriptDataHash(ws txs.WitnessSet, costModels map[string][]int64) (txs.Hash32, error) {
	datums := make([][]byte, 0, len(ws.Datums))
	for _, hash := range sortedHash32Keys(ws.Datums) {
		datums = append(datums, ws.Datums[hash])
	}
	preimage := scriptDataPreimage{
		Redeemers:  ws.Redeemers,
		Datums:     datums,
		CostModels: costModels,
	}
	b, err := Marshal(preimage)
	if err != nil {
		return txs.Hash32{}, err
	}
	return crypto.Hash256(b), nil
}

func sortedHash32Keys(m map[txs.Hash32][]byte) []txs.Hash32 {
	keys := make([]txs.Hash32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && string(keys[j-1][:]) > string(keys[j][:]); j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
