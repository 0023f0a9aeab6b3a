package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedhavyas/go-subkey"
)

func TestAccountIDRoundTrip(t *testing.T) {
	var pubkey [32]byte
	for i := range pubkey {
		pubkey[i] = byte(i * 7)
	}
	address := subkey.SS58Encode(pubkey[:], SubstrateNetworkID)

	got, err := AccountID(address)
	require.NoError(t, err)
	assert.Equal(t, pubkey, got)
}

func TestAccountIDWellKnownAddress(t *testing.T) {
	// Alice's development account.
	got, err := AccountID("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	require.NoError(t, err)
	assert.NotEqual(t, [32]byte{}, got)
}

func TestAccountIDRejectsGarbage(t *testing.T) {
	_, err := AccountID("not-an-address")
	assert.Error(t, err)
}
