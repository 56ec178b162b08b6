// Package address implements bech32 encoding/decoding of Shelley-era
// payment and stake addresses, network-tagged per spec.md §6's
// "Reference accounts / reward addresses" note. Grounded on the
// teacher's github.com/btcsuite/btcd/btcutil dependency, whose bech32
// subpackage is the same primitive Cardano addresses use (a different
// human-readable-part and payload layout, but the same checksum scheme).
package address

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/conway-ledger/core/txs"
)

// HRP returns the bech32 human-readable part for an address on the given
// network: "addr"/"addr_test" for a payment address, "stake"/"stake_test"
// when isReward is set.
func HRP(network txs.NetworkId, isReward bool) string {
	prefix := "addr"
	if isReward {
		prefix = "stake"
	}
	if network == txs.NetworkTestnet {
		return prefix + "_test"
	}
	return prefix
}

// headerByte packs the address kind, reward flag, and network id into
// the Conway address header byte (a simplified encoding sufficient for
// this core's round-trip needs; it does not attempt to reproduce every
// historical Byron/pointer-address header bit).
func headerByte(kind txs.AddressKind, isReward bool, network txs.NetworkId) byte {
	var top byte
	switch {
	case isReward && kind == txs.AddressKeyHash:
		top = 0xE
	case isReward && kind == txs.AddressScriptHash:
		top = 0xF
	case kind == txs.AddressKeyHash:
		top = 0x6
	default:
		top = 0x7
	}
	return top<<4 | byte(network&0x0F)
}

// Encode renders addr as a bech32 string.
func Encode(addr txs.Address, isReward bool) (string, error) {
	payload := make([]byte, 0, 29)
	payload = append(payload, headerByte(addr.Kind, isReward, addr.Network))
	payload = append(payload, addr.Credential[:]...)

	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("address: convert bits: %w", err)
	}
	encoded, err := bech32.Encode(HRP(addr.Network, isReward), converted)
	if err != nil {
		return "", fmt.Errorf("address: encode: %w", err)
	}
	return encoded, nil
}

// Decode parses a bech32 address string back into its network,
// credential kind, and hash, plus whether it is a reward account.
func Decode(s string) (addr txs.Address, isReward bool, err error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return txs.Address{}, false, fmt.Errorf("address: decode: %w", err)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return txs.Address{}, false, fmt.Errorf("address: convert bits: %w", err)
	}
	if len(payload) != 29 {
		return txs.Address{}, false, fmt.Errorf("address: unexpected payload length %d", len(payload))
	}

	header := payload[0]
	top := header >> 4
	network := txs.NetworkId(header & 0x0F)

	switch top {
	case 0x6:
		addr.Kind = txs.AddressKeyHash
	case 0x7:
		addr.Kind = txs.AddressScriptHash
	case 0xE:
		addr.Kind = txs.AddressKeyHash
		isReward = true
	case 0xF:
		addr.Kind = txs.AddressScriptHash
		isReward = true
	default:
		return txs.Address{}, false, fmt.Errorf("address: unsupported header nibble %x", top)
	}

	addr.Network = network
	copy(addr.Credential[:], payload[1:])

	_ = hrp // the network id in the header is authoritative; hrp is advisory
	return addr, isReward, nil
}
