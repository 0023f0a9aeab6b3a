package committer

import "errors"

// Every failure the engine surfaces is classified so a caller can decide
// retry versus abort mechanically.
var (
	// ErrCommitInProgress: a pending commit already exists for the
	// (netuid, mechanism) key. Caller must wait for its reveal or expiry.
	ErrCommitInProgress = errors.New("commit already pending for key")

	// ErrMissingTempo: the chain returned no tempo for the subnet.
	// Retryable after a config refresh.
	ErrMissingTempo = errors.New("subnet tempo missing from chain config")

	// ErrMissingRevealPeriod: the chain returned no commit-reveal period.
	// Retryable after a config refresh.
	ErrMissingRevealPeriod = errors.New("subnet reveal period missing from chain config")

	// ErrBeaconUnavailable: neither the chain nor the relay could supply the
	// beacon's last round. Transient; the commit is refused rather than
	// submitted with a guessed round, which would be permanently undecryptable.
	ErrBeaconUnavailable = errors.New("randomness beacon unavailable")

	// ErrRevealMismatch: the stored reveal payload no longer reproduces the
	// committed digest. Indicates data corruption; fatal, never resubmitted.
	ErrRevealMismatch = errors.New("reveal payload does not match committed hash")

	// ErrExpired: the reveal window passed without a confirmed reveal. The
	// record is dropped; a fresh commit is the only recovery.
	ErrExpired = errors.New("commit expired before reveal")

	// ErrRevealNotReady: the reveal window has not opened yet.
	ErrRevealNotReady = errors.New("reveal window not yet open")

	// ErrAutoRevealOnly: manual reveal was requested for a timelocked commit,
	// which only the chain can open.
	ErrAutoRevealOnly = errors.New("commit is auto-reveal only")

	// ErrNoPending: no pending commit is tracked for the handle.
	ErrNoPending = errors.New("no pending commit for key")
)
