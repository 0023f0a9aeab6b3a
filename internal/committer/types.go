package committer

import (
	"fmt"
	"time"
)

// ProtocolVersion selects how a commit is revealed.
type ProtocolVersion uint8

const (
	// ProtocolPlain is hash commit with a manual reveal extrinsic.
	ProtocolPlain ProtocolVersion = 1
	// ProtocolCRv3 is the interim commit-reveal scheme. The wire flow is the
	// same as plain but the chain tags the commit with version 3.
	ProtocolCRv3 ProtocolVersion = 3
	// ProtocolCRv4 is timelock encryption against the drand Quicknet beacon.
	// The chain decrypts and applies the weights itself once the target
	// round's signature lands; no reveal extrinsic exists.
	ProtocolCRv4 ProtocolVersion = 4
)

func (v ProtocolVersion) String() string {
	switch v {
	case ProtocolPlain:
		return "plain"
	case ProtocolCRv3:
		return "crv3"
	case ProtocolCRv4:
		return "crv4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// AutoReveal reports whether the chain reveals this commit on its own.
func (v ProtocolVersion) AutoReveal() bool {
	return v == ProtocolCRv4
}

// Key identifies one independent commit slot. Each subnet mechanism holds at
// most one pending commit at a time.
type Key struct {
	Netuid      uint16 `json:"netuid"`
	MechanismID uint8  `json:"mecid"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d_%d", k.Netuid, k.MechanismID)
}

// RevealStatus is the outcome of a reveal poll.
type RevealStatus int

const (
	StatusPending RevealStatus = iota
	StatusRevealed
	StatusExpired
)

func (s RevealStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRevealed:
		return "revealed"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// PendingCommit is everything needed to later reveal a commit, or to confirm
// the chain revealed it. It round-trips through the snapshot file, so all
// fields carry JSON tags.
type PendingCommit struct {
	Netuid      uint16          `json:"netuid"`
	MechanismID uint8           `json:"mecid"`
	Version     ProtocolVersion `json:"version"`

	CommitBlock uint64 `json:"commit_block"`
	CommitEpoch uint64 `json:"commit_epoch"`

	UIDs       []uint16 `json:"uids"`
	Weights    []uint16 `json:"weights"`
	Salt       []uint16 `json:"salt,omitempty"`
	VersionKey uint64   `json:"version_key"`

	// CommitHash is the hex digest submitted to the chain. Empty for CRv4.
	CommitHash string `json:"commit_hash,omitempty"`
	// RevealRound is the beacon round the ciphertext unlocks at. Zero for
	// manual-reveal versions.
	RevealRound uint64 `json:"reveal_round,omitempty"`

	TxHash      string    `json:"tx_hash,omitempty"`
	CommittedAt time.Time `json:"committed_at"`
}

func (p *PendingCommit) Key() Key {
	return Key{Netuid: p.Netuid, MechanismID: p.MechanismID}
}

// Handle refers to a tracked commit for later polling.
type Handle struct {
	key Key
}

func (h *Handle) Key() Key { return h.key }
