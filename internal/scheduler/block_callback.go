package scheduler

// NewBlockCallback creates a new BlockCallback that triggers every N blocks
func NewBlockCallback(interval uint64, execute func() error) *BlockCallback {
	if interval == 0 {
		interval = 1
	}
	return &BlockCallback{
		interval:  interval,
		executeFn: execute,
	}
}

// ShouldTrigger checks if the callback should trigger based on block interval and missed blocks
func (bc *BlockCallback) ShouldTrigger(block uint64) bool {
	// If this is the first time, trigger if we're at the right interval
	if !bc.triggered {
		return block%bc.interval == 0
	}

	// Check if we should have triggered based on interval
	return block-bc.LastTriggerAtBlock >= bc.interval
}

// Execute runs the callback
func (bc *BlockCallback) Execute() error {
	return bc.executeFn()
}

// MarkTriggered records the block at which the callback last ran
func (bc *BlockCallback) MarkTriggered(block uint64) {
	bc.LastTriggerAtBlock = block
	bc.triggered = true
}

// GetName returns the callback name
func (bc *BlockCallback) GetName() string {
	return InferNameFromFunc(bc.executeFn)
}
