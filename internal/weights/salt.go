package weights

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// DefaultSaltLen matches the salt length the reference tooling generates.
const DefaultSaltLen = 8

// NewSalt returns n random u16 values from crypto/rand. A salt is mixed into
// every commitment exactly once and must be retained until reveal.
func NewSalt(n int) ([]uint16, error) {
	if n <= 0 {
		n = DefaultSaltLen
	}
	buf := make([]byte, 2*n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read salt entropy: %w", err)
	}
	salt := make([]uint16, n)
	for i := range salt {
		salt[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return salt, nil
}
