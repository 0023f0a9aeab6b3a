package timelock

import (
	"bytes"
	"fmt"

	"github.com/drand/tlock"
	tlockhttp "github.com/drand/tlock/networks/http"
	"github.com/rs/zerolog/log"
)

// Sealer encrypts a plaintext so it can only be opened once the randomness
// beacon reaches the given round. The engine treats sealing as a collaborator:
// it specifies only the plaintext layout and the target round.
type Sealer interface {
	Seal(plaintext []byte, round uint64) ([]byte, error)
}

// TlockSealer seals payloads with drand timelock encryption against the
// Quicknet beacon.
type TlockSealer struct {
	network *tlockhttp.Network
}

// NewTlockSealer connects to a drand relay for the Quicknet chain.
func NewTlockSealer(relayHost string) (*TlockSealer, error) {
	if relayHost == "" {
		relayHost = DefaultRelayHost
	}

	network, err := tlockhttp.NewNetwork(relayHost, QuicknetChainHash)
	if err != nil {
		return nil, fmt.Errorf("connect drand relay %s: %w", relayHost, err)
	}

	log.Debug().Str("relay", relayHost).Str("chain_hash", QuicknetChainHash).Msg("tlock sealer initialized")
	return &TlockSealer{network: network}, nil
}

// Seal encrypts plaintext for the target round.
func (s *TlockSealer) Seal(plaintext []byte, round uint64) ([]byte, error) {
	var ciphertext bytes.Buffer
	if err := tlock.New(s.network).Encrypt(&ciphertext, bytes.NewReader(plaintext), round); err != nil {
		return nil, fmt.Errorf("tlock encrypt for round %d: %w", round, err)
	}

	log.Debug().
		Uint64("round", round).
		Int("plaintext_size", len(plaintext)).
		Int("ciphertext_size", ciphertext.Len()).
		Msg("payload sealed")

	return ciphertext.Bytes(), nil
}
