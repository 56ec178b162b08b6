package cborx

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// rationalTag is the CBOR tag Conway uses for a rational value encoded
// as [numerator, denominator], per spec.md §6.
const rationalTag = 30

// Rational is a numerator/denominator pair decoded from a Tagged(30, …)
// CBOR item.
type Rational struct {
	Num int64
	Den int64
}

// MarshalCBOR implements cbor.Marshaler.
func (r Rational) MarshalCBOR() ([]byte, error) {
	return Marshal(cbor.Tag{Number: rationalTag, Content: [2]int64{r.Num, r.Den}})
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (r *Rational) UnmarshalCBOR(data []byte) error {
	var tag cbor.Tag
	if err := DecMode.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("cborx: decoding rational tag: %w", err)
	}
	if tag.Number != rationalTag {
		return fmt.Errorf("cborx: expected rational tag %d, got %d", rationalTag, tag.Number)
	}
	pair, ok := tag.Content.([]any)
	if !ok || len(pair) != 2 {
		return fmt.Errorf("cborx: malformed rational content")
	}
	num, err := toInt64(pair[0])
	if err != nil {
		return fmt.Errorf("cborx: rational numerator: %w", err)
	}
	den, err := toInt64(pair[1])
	if err != nil {
		return fmt.Errorf("cborx: rational denominator: %w", err)
	}
	r.Num, r.Den = num, den
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("cborx: expected integer, got %T", v)
	}
}
