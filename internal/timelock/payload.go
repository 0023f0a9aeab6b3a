package timelock

import (
	"fmt"

	"github.com/ChainSafe/gossamer/pkg/scale"
)

// Payload is the plaintext sealed inside a CRv4 commitment. It must match
// subtensor's WeightsTlockPayload field-for-field; the chain SCALE-decodes it
// after auto-decryption and applies the weights on behalf of Hotkey.
type Payload struct {
	Hotkey     []byte
	UIDs       []uint16
	Values     []uint16
	VersionKey uint64
}

// Encode SCALE-encodes the payload for sealing.
func (p Payload) Encode() ([]byte, error) {
	encoded, err := scale.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("scale encode tlock payload: %w", err)
	}
	return encoded, nil
}

// DecodePayload is the inverse of Encode. Diagnostic and test use only; the
// chain performs the authoritative decode after decryption.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := scale.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("scale decode tlock payload: %w", err)
	}
	return p, nil
}
