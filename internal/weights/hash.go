package weights

import (
	"fmt"

	"github.com/ChainSafe/gossamer/lib/common"
	"github.com/ChainSafe/gossamer/pkg/scale"
)

// globalMaxSubnetCount mirrors subtensor's GLOBAL_MAX_SUBNET_COUNT, used to
// pack (netuid, mechanism) into a single u16 storage index.
const globalMaxSubnetCount = 4096

// commitTuple is the exact structure subtensor hashes for weight commits:
// BlakeTwo256::hash_of(&(who, netuid_index, uids, values, salt, version_key)).
// Field order and widths are a chain compatibility constraint; the storage
// index is a u16, not a u32.
type commitTuple struct {
	Account      [32]byte
	StorageIndex uint16
	UIDs         []uint16
	Values       []uint16
	Salt         []uint16
	VersionKey   uint64
}

// StorageIndex packs a subnet and mechanism id into subtensor's
// NetUidStorageIndex: mechanismID*4096 + netuid. Mechanism 0 addresses the
// subnet's default mechanism.
func StorageIndex(netuid uint16, mechanismID uint8) uint16 {
	idx := uint32(mechanismID)*globalMaxSubnetCount + uint32(netuid)
	if idx > U16Max {
		return U16Max
	}
	return uint16(idx)
}

// CommitHash computes the Blake2b-256 digest subtensor verifies at reveal
// time. Pure: identical inputs always produce the identical digest.
func CommitHash(account [32]byte, netuid uint16, mechanismID uint8, uids, values, salt []uint16, versionKey uint64) ([32]byte, error) {
	tuple := commitTuple{
		Account:      account,
		StorageIndex: StorageIndex(netuid, mechanismID),
		UIDs:         uids,
		Values:       values,
		Salt:         salt,
		VersionKey:   versionKey,
	}

	encoded, err := scale.Marshal(tuple)
	if err != nil {
		return [32]byte{}, fmt.Errorf("scale encode commit tuple: %w", err)
	}

	hash, err := common.Blake2bHash(encoded)
	if err != nil {
		return [32]byte{}, fmt.Errorf("blake2b commit tuple: %w", err)
	}
	return hash, nil
}
