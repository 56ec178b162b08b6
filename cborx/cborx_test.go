package cborx

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/txs"
)

func TestRationalRoundTrips(t *testing.T) {
	r := require.New(t)
	want := Rational{Num: 577, Den: 10000}

	data, err := Marshal(want)
	r.NoError(err)

	var got Rational
	r.NoError(Unmarshal(data, &got))
	r.Equal(want, got)
}

func TestStrictMaybeEncodesCanonicalFormsAndDecodesCompat(t *testing.T) {
	r := require.New(t)

	nothing := Nothing[uint64]()
	data, err := Marshal(nothing)
	r.NoError(err)
	var decodedNothing StrictMaybe[uint64]
	r.NoError(Unmarshal(data, &decodedNothing))
	r.False(decodedNothing.Present)

	just := Just[uint64](42)
	data, err = Marshal(just)
	r.NoError(err)
	var decodedJust StrictMaybe[uint64]
	r.NoError(Unmarshal(data, &decodedJust))
	r.True(decodedJust.Present)
	r.Equal(uint64(42), decodedJust.Value)

	// Compatibility: a bare null decodes as nothing.
	var decodedNull StrictMaybe[uint64]
	r.NoError(Unmarshal([]byte{0xf6}, &decodedNull))
	r.False(decodedNull.Present)

	// Compatibility: an inlined bare value decodes as present.
	inline, err := Marshal(uint64(7))
	r.NoError(err)
	var decodedInline StrictMaybe[uint64]
	r.NoError(Unmarshal(inline, &decodedInline))
	r.True(decodedInline.Present)
	r.Equal(uint64(7), decodedInline.Value)
}

func TestDecodeSetAcceptsTaggedAndUntagged(t *testing.T) {
	r := require.New(t)

	untagged, err := Marshal([]uint64{1, 2, 3})
	r.NoError(err)
	got, err := DecodeSet[uint64](untagged)
	r.NoError(err)
	r.Equal([]uint64{1, 2, 3}, got)

	tagged, err := EncodeSet([]uint64{4, 5})
	r.NoError(err)
	got, err = DecodeSet[uint64](tagged)
	r.NoError(err)
	r.Equal([]uint64{4, 5}, got)
}

func TestDecodePoolParamsOldFormat(t *testing.T) {
	r := require.New(t)

	operator := make([]byte, 28)
	operator[0] = 1
	vrf := make([]byte, 32)
	vrf[0] = 2
	rewardAccount := make([]byte, 28)
	rewardAccount[0] = 3
	owner := make([]byte, 28)
	owner[0] = 4
	ownersSet, err := Marshal(cbor.RawTag{Number: setTag258, Content: mustMarshal(t, [][]byte{owner})})
	r.NoError(err)

	items := []any{
		operator, vrf, uint64(340_000_000), uint64(340_000_000),
		Rational{Num: 1, Den: 10}, rewardAccount, cbor.RawMessage(ownersSet),
		[]any{}, []any{},
	}
	data, err := Marshal(items)
	r.NoError(err)

	got, err := DecodePoolParams(data, nil)
	r.NoError(err)
	r.Equal(byte(1), got.Operator[0])
	r.Equal(byte(2), got.VrfKeyHash[0])
	r.Equal(uint64(340_000_000), got.Pledge)
	r.Equal(uint64(1), got.MarginNum)
	r.Equal(uint64(10), got.MarginDen)
	r.Len(got.Owners, 1)
	r.Equal(byte(4), got.Owners[0].Hash[0])
}

func TestDecodePoolParamsNewFormatRequiresOperator(t *testing.T) {
	r := require.New(t)

	vrf := make([]byte, 32)
	vrf[0] = 2
	rewardAccount := make([]byte, 28)
	ownersSet, err := EncodeSet([][]byte{})
	r.NoError(err)

	items := []any{
		vrf, uint64(1), uint64(1), Rational{Num: 1, Den: 10}, rewardAccount,
		cbor.RawMessage(ownersSet), []any{}, []any{},
	}
	data, err := Marshal(items)
	r.NoError(err)

	_, err = DecodePoolParams(data, nil)
	r.Error(err)

	var operator txs.PoolId
	operator[0] = 9
	got, err := DecodePoolParams(data, &operator)
	r.NoError(err)
	r.Equal(operator, got.Operator)
	r.Equal(byte(2), got.VrfKeyHash[0])
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}
