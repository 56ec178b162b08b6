package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// StrictMaybe decodes the three forms spec.md §6 lists for an optional
// value: CBOR null, an empty array ([] = nothing), a one-element array
// ([x] = just x), or — for compatibility with encoders that inline the
// value — x directly.
type StrictMaybe[T any] struct {
	Present bool
	Value   T
}

// Nothing is the canonical "absent" StrictMaybe.
func Nothing[T any]() StrictMaybe[T] {
	return StrictMaybe[T]{}
}

// Just wraps a present value.
func Just[T any](v T) StrictMaybe[T] {
	return StrictMaybe[T]{Present: true, Value: v}
}

// MarshalCBOR always emits the [x] / [] canonical form, never the null
// or inlined compatibility forms, per spec.md §6 ("canonical encoding").
func (s StrictMaybe[T]) MarshalCBOR() ([]byte, error) {
	if !s.Present {
		return Marshal([]any{})
	}
	return Marshal([1]T{s.Value})
}

// UnmarshalCBOR accepts null, [], [x], or a bare x.
func (s *StrictMaybe[T]) UnmarshalCBOR(data []byte) error {
	if string(data) == "\xf6" { // CBOR null, major type 7 simple value 22
		*s = StrictMaybe[T]{}
		return nil
	}

	var asArray []cbor.RawMessage
	if err := DecMode.Unmarshal(data, &asArray); err == nil {
		switch len(asArray) {
		case 0:
			*s = StrictMaybe[T]{}
			return nil
		case 1:
			var v T
			if err := DecMode.Unmarshal(asArray[0], &v); err != nil {
				return fmt.Errorf("cborx: decoding strict-maybe element: %w", err)
			}
			*s = StrictMaybe[T]{Present: true, Value: v}
			return nil
		default:
			return fmt.Errorf("cborx: strict-maybe array has %d elements", len(asArray))
		}
	}

	// Compatibility fallback: some encoders inline the value directly
	// rather than wrapping it in a one-element array.
	var inline T
	if err := DecMode.Unmarshal(data, &inline); err != nil {
		return fmt.Errorf("cborx: decoding inlined strict-maybe: %w", err)
	}
	*s = StrictMaybe[T]{Present: true, Value: inline}
	return nil
}
