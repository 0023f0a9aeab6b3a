// Package timelock resolves drand beacon rounds for CRv4 commitments and
// seals weight payloads so the chain can auto-reveal them once the beacon
// reaches the target round.
package timelock

import (
	"github.com/tensorplex-labs/tensorcommit/internal/epoch"
)

const (
	// QuicknetChainHash identifies the drand Quicknet beacon.
	QuicknetChainHash = "52db9ba70e0cc0f6eaf7803dd07447a1f5477735fd3f661792ba94600c84e971"
	// QuicknetPeriodSecs is the Quicknet round interval.
	QuicknetPeriodSecs = 3
	// QuicknetGenesisUnix is the Quicknet genesis timestamp (2023-07-03 12:00 UTC).
	QuicknetGenesisUnix = 1688385600
	// BlockTimeSecs is the chain's block cadence.
	BlockTimeSecs = 12
	// DefaultRelayHost serves the public Quicknet beacon over HTTP.
	DefaultRelayHost = "https://api.drand.sh"
)

// TargetRound computes the beacon round at which a CRv4 commitment made at
// commitBlock must become decryptable: the round the beacon will have reached
// by the first block of the reveal epoch, anchored at the chain's last stored
// round, plus one safety round.
//
// The result is embedded in the ciphertext itself, so it must be derived from
// observed chain state. An overshoot only delays the auto-reveal by rounds;
// an undershoot relative to chain verification makes the commitment
// permanently undecryptable, hence the conservative +1.
func TargetRound(lastRound, tempo, revealPeriodEpochs, commitEpoch, commitBlock uint64) uint64 {
	firstReveal := epoch.FirstRevealBlock(commitEpoch, revealPeriodEpochs, tempo)

	var blocksUntil uint64
	if firstReveal > commitBlock {
		blocksUntil = firstReveal - commitBlock
	}

	secsUntil := blocksUntil * BlockTimeSecs
	rounds := secsUntil / QuicknetPeriodSecs

	return lastRound + rounds + 1
}

// RoundAtTime returns the Quicknet round number emitted at a Unix timestamp.
func RoundAtTime(unix uint64) uint64 {
	if unix < QuicknetGenesisUnix {
		return 1
	}
	return (unix-QuicknetGenesisUnix)/QuicknetPeriodSecs + 1
}

// TimeForRound returns the Unix timestamp at which a Quicknet round becomes
// available.
func TimeForRound(round uint64) uint64 {
	if round <= 1 {
		return QuicknetGenesisUnix
	}
	return QuicknetGenesisUnix + (round-1)*QuicknetPeriodSecs
}
