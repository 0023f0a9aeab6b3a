// Package account handles substrate identities: SS58 addresses, raw account
// ids, and sr25519 keypairs loaded from local wallet files.
package account

import (
	"fmt"

	"github.com/ChainSafe/gossamer/lib/crypto/sr25519"
	"github.com/vedhavyas/go-subkey"
)

const (
	// SubstrateNetworkID is the generic substrate SS58 prefix used across
	// bittensor networks.
	SubstrateNetworkID = 42

	DefaultBittensorDir = "~/.bittensor"
)

// AccountID decodes an SS58 address into the raw 32-byte account id the
// chain hashes into weight commitments.
func AccountID(ss58Address string) ([32]byte, error) {
	var out [32]byte
	_, pubkey, err := subkey.SS58Decode(ss58Address)
	if err != nil {
		return out, fmt.Errorf("decode ss58 address %q: %w", ss58Address, err)
	}
	if len(pubkey) != 32 {
		return out, fmt.Errorf("ss58 address %q decodes to %d bytes, want 32", ss58Address, len(pubkey))
	}
	copy(out[:], pubkey)
	return out, nil
}

// ToSS58Address renders a keypair's public key as an SS58 address.
func ToSS58Address(keypair *sr25519.Keypair) string {
	return subkey.SS58Encode(keypair.Public().Encode(), SubstrateNetworkID)
}
