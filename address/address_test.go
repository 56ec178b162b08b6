package address

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conway-ledger/core/txs"
)

func TestEncodeDecodeRoundTripsPaymentAddress(t *testing.T) {
	r := require.New(t)
	var cred txs.Hash28
	copy(cred[:], []byte("0123456789abcdef0123456789ab"))
	want := txs.Address{Network: txs.NetworkMainnet, Kind: txs.AddressKeyHash, Credential: cred}

	encoded, err := Encode(want, false)
	r.NoError(err)
	r.Contains(encoded, "addr1")

	got, isReward, err := Decode(encoded)
	r.NoError(err)
	r.False(isReward)
	r.Equal(want, got)
}

func TestEncodeDecodeRoundTripsRewardAddress(t *testing.T) {
	r := require.New(t)
	var cred txs.Hash28
	copy(cred[:], []byte("stake-credential-bytes-here!"))
	want := txs.Address{Network: txs.NetworkTestnet, Kind: txs.AddressScriptHash, Credential: cred}

	encoded, err := Encode(want, true)
	r.NoError(err)
	r.Contains(encoded, "stake_test")

	got, isReward, err := Decode(encoded)
	r.NoError(err)
	r.True(isReward)
	r.Equal(want, got)
}
