// Package cborx implements the bit-exact Conway CBOR adapters spec.md §6
// requires: canonical transaction/params encoding, and decoders tolerant
// of the two historical pool-registration shapes, tagged vs. untagged
// sets, Strict-Maybe's three encodings, and the old/new UMap delegation
// formats. It is the one deliberate departure from "reuse the teacher's
// own codec" (see SPEC_FULL.md DOMAIN STACK): avalanchego's
// codec/linearcodec is not CBOR, and every Cardano-facing repo in the
// retrieval pack depends on fxamacker/cbor/v2, so that is what this core
// uses here instead.
package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// CanonicalEncMode is the single shared canonical encoding mode every
// encoder in this package uses: sorted map keys, smallest integer
// width, no indefinite-length items, per spec.md §6.
var CanonicalEncMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Errorf("cborx: building canonical encode mode: %w", err))
	}
	return mode
}

// DecMode is shared by every decoder, configured to accept the
// compatibility exceptions spec.md §6 lists (indefinite-length byte
// strings are permitted on decode even though this package never
// produces them).
var DecMode = mustDecMode()

func mustDecMode() cbor.DecMode {
	opts := cbor.DecOptions{
		IndefLength: cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Errorf("cborx: building decode mode: %w", err))
	}
	return mode
}

// Marshal encodes v using the canonical encoding mode.
func Marshal(v any) ([]byte, error) {
	return CanonicalEncMode.Marshal(v)
}

// Unmarshal decodes data into v using the shared decode mode.
func Unmarshal(data []byte, v any) error {
	return DecMode.Unmarshal(data, v)
}

// setTag258 is the CBOR tag applied to a "set" wire item; decoders must
// accept both the tagged and the plain-array form (spec.md §6).
const setTag258 = 258

// DecodeSet decodes a CBOR array that may or may not be wrapped in tag
// 258, into a slice of T using DecMode.
func DecodeSet[T any](data []byte) ([]T, error) {
	var tagged cbor.RawTag
	if err := DecMode.Unmarshal(data, &tagged); err == nil && tagged.Number == setTag258 {
		var out []T
		if err := DecMode.Unmarshal(tagged.Content, &out); err != nil {
			return nil, fmt.Errorf("cborx: decoding tagged set contents: %w", err)
		}
		return out, nil
	}
	var out []T
	if err := DecMode.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("cborx: decoding untagged set: %w", err)
	}
	return out, nil
}

// EncodeSet encodes items as a tag-258-wrapped array, the canonical
// Conway encoding for a set.
func EncodeSet[T any](items []T) ([]byte, error) {
	raw, err := Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("cborx: encoding set contents: %w", err)
	}
	return Marshal(cbor.RawTag{Number: setTag258, Content: raw})
}
