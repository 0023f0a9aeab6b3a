package scheduler

// BlockCallback is a callback that triggers every N blocks
// WARN: if the block updater hangs and the chain advances by several
// multiples of N before the next observation, the callback still only
// triggers once for that observation, not once per missed interval.
type BlockCallback struct {
	LastTriggerAtBlock uint64
	triggered          bool
	// interval is the number of blocks between triggers
	interval  uint64
	executeFn func() error
}

type CallbackHandler interface {
	// Determines if the callback should trigger at the observed block
	ShouldTrigger(block uint64) bool
	// Executes the callback logic and returns an error if it fails
	Execute() error
	// Returns the name of the callback, which may be inferred from the function name
	GetName() string
}
