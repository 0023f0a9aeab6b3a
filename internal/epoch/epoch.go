// Package epoch derives subnet epoch boundaries and commit-reveal timing
// windows from tempo, mirroring subtensor's arithmetic.
package epoch

import "fmt"

// Phase is the position within an epoch as subtensor carves it up for
// mechanism weight submission.
type Phase int

const (
	// PhaseEvaluation is the standard operation period (first 75% of an epoch).
	PhaseEvaluation Phase = iota
	// PhaseCommit is when commitment hashes are accepted (75% - 87.5%).
	PhaseCommit
	// PhaseReveal is when reveals are accepted (final 12.5%).
	PhaseReveal
)

func (p Phase) String() string {
	switch p {
	case PhaseEvaluation:
		return "evaluation"
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Index returns the epoch number containing block. Subtensor's epoch length
// is tempo+1 blocks, so tempo 0 is a legal one-block epoch, not a division
// error.
func Index(block, tempo uint64) uint64 {
	return block / (tempo + 1)
}

// EpochStartBlock returns the first block of the given epoch.
func EpochStartBlock(epoch, tempo uint64) uint64 {
	return epoch * (tempo + 1)
}

// FirstRevealBlock returns the first block at which a commit made in
// commitEpoch becomes revealable.
func FirstRevealBlock(commitEpoch, revealPeriodEpochs, tempo uint64) uint64 {
	return EpochStartBlock(commitEpoch+revealPeriodEpochs, tempo)
}

// InRevealWindow reports whether block falls in the single epoch-wide window
// in which a commit from commitEpoch may be revealed: reveal is eligible
// exactly revealPeriodEpochs epochs after the commit epoch, never earlier.
func InRevealWindow(block, tempo, revealPeriodEpochs, commitEpoch uint64) bool {
	current := Index(block, tempo)
	if current < commitEpoch {
		return false
	}
	return current-commitEpoch == revealPeriodEpochs
}

// IsExpired reports whether the reveal window for a commit from commitEpoch
// has fully passed at block. Expired commits are dropped, never retried; a
// fresh commit is the only recovery path.
func IsExpired(block, tempo, revealPeriodEpochs, commitEpoch uint64) bool {
	current := Index(block, tempo)
	if current < commitEpoch {
		return false
	}
	return current-commitEpoch > revealPeriodEpochs
}

// Info is a derived snapshot of where a block sits within its epoch. Never
// persisted; recomputed from subnet configuration on demand.
type Info struct {
	CurrentBlock    uint64
	Tempo           uint64
	EpochNumber     uint64
	EpochStart      uint64
	NextEpochStart  uint64
	BlocksRemaining uint64
	Phase           Phase
}

// At computes epoch info for a block given the subnet tempo.
func At(block, tempo uint64) Info {
	number := Index(block, tempo)
	start := EpochStartBlock(number, tempo)
	next := EpochStartBlock(number+1, tempo)

	return Info{
		CurrentBlock:    block,
		Tempo:           tempo,
		EpochNumber:     number,
		EpochStart:      start,
		NextEpochStart:  next,
		BlocksRemaining: next - block,
		Phase:           PhaseAt(block, tempo),
	}
}

// PhaseAt returns the subtensor timing window for a block: evaluation until
// 75% of the epoch, commit until 87.5%, reveal thereafter.
func PhaseAt(block, tempo uint64) Phase {
	length := tempo + 1
	into := block - EpochStartBlock(Index(block, tempo), tempo)

	commitStart := length * 3 / 4
	revealStart := length * 7 / 8

	switch {
	case into >= revealStart:
		return PhaseReveal
	case into >= commitStart:
		return PhaseCommit
	default:
		return PhaseEvaluation
	}
}
