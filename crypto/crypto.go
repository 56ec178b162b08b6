// Package crypto provides the address-hashing and witness-verification
// primitives the rule pipeline treats as pure helpers: Blake2b-224/256
// hashing of keys and scripts, and Ed25519 signature verification over a
// transaction body hash.
//
// The teacher vendors a secp256k1 curve implementation
// (github.com/decred/dcrd/dcrec/secp256k1/v4) for Avalanche's
// key/address scheme; Conway addresses and vkeys are Ed25519, so that
// dependency has no home here (see DESIGN.md) and this package instead
// uses golang.org/x/crypto/blake2b, the teacher's other direct
// crypto-adjacent dependency, for the hash half of the job; signature
// verification itself uses the standard library's crypto/ed25519.
package crypto

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"
)

// HashVKey returns the Blake2b-224 hash of a raw Ed25519 verification
// key, the identity a VKeyWitness satisfies.
func HashVKey(vkey [32]byte) [28]byte {
	return blake2b224(vkey[:])
}

// HashScript returns the Blake2b-224 hash of a script's serialized
// bytes, tagged by language (the tag byte distinguishes native scripts
// from each Plutus version, per the Conway script-hashing scheme).
func HashScript(languageTag byte, script []byte) [28]byte {
	tagged := make([]byte, 0, len(script)+1)
	tagged = append(tagged, languageTag)
	tagged = append(tagged, script...)
	return blake2b224(tagged)
}

func blake2b224(data []byte) [28]byte {
	h, err := blake2b.New(28, nil)
	if err != nil {
		// blake2b.New only errors on an invalid key or out-of-range
		// size; 28 bytes and a nil key are always valid.
		panic(err)
	}
	h.Write(data)
	var out [28]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hash256 returns the Blake2b-256 hash of data, used for transaction-id
// and script-data-hash computation.
func Hash256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// VerifyWitness reports whether signature is a valid Ed25519 signature
// by vkey over bodyHash.
func VerifyWitness(vkey [32]byte, bodyHash [32]byte, signature [64]byte) bool {
	return ed25519.Verify(vkey[:], bodyHash[:], signature[:])
}
