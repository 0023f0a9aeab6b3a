package committer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/tensorcommit/internal/config"
	"github.com/tensorplex-labs/tensorcommit/internal/scheduler"
)

// Runner observes the chain head on a fixed cadence and fires block
// callbacks, most importantly the engine's reveal sweep.
type Runner struct {
	engine    *Engine
	chain     ChainClient
	intervals *config.IntervalConfig
	callbacks []scheduler.CallbackHandler

	lastBlock uint64

	Ctx    context.Context
	cancel context.CancelFunc
}

func NewRunner(engine *Engine, chain ChainClient, intervals *config.IntervalConfig) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		engine:    engine,
		chain:     chain,
		intervals: intervals,
		Ctx:       ctx,
		cancel:    cancel,
	}
	sweepEvery := uint64(intervals.PollInterval / intervals.BlockInterval)
	if sweepEvery == 0 {
		sweepEvery = 1
	}
	r.RegisterCallback(scheduler.NewBlockCallback(sweepEvery, r.sweepReveals))
	return r
}

func (r *Runner) RegisterCallback(callback scheduler.CallbackHandler) {
	r.callbacks = append(r.callbacks, callback)
	log.Debug().Str("callback", callback.GetName()).Msg("Registered callback")
}

func (r *Runner) sweepReveals() error {
	r.engine.PollAll()
	return nil
}

// Start runs the block updater until Stop is called.
func (r *Runner) Start() {
	go r.blockUpdater()
	log.Info().Msg("committer runner started")
}

func (r *Runner) Stop() {
	r.cancel()
}

func (r *Runner) blockUpdater() {
	ticker := time.NewTicker(r.intervals.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Ctx.Done():
			return
		case <-ticker.C:
		}

		resp, err := r.chain.GetLatestBlock()
		if err != nil {
			log.Error().Err(err).Msg("Failed to update latest block")
			continue
		}
		block := resp.Data.BlockNumber
		if block == r.lastBlock {
			continue
		}

		log.Debug().
			Uint64("previous_block", r.lastBlock).
			Uint64("current_block", block).
			Msg("Updated latest block")
		r.lastBlock = block

		r.onBlockUpdate(block)
	}
}

func (r *Runner) onBlockUpdate(block uint64) {
	for _, callback := range r.callbacks {
		if !callback.ShouldTrigger(block) {
			continue
		}

		if err := callback.Execute(); err != nil {
			log.Error().Err(err).Str("callback", callback.GetName()).Msg("Failed to execute callback")
		}

		if bc, ok := callback.(*scheduler.BlockCallback); ok {
			bc.MarkTriggered(block)
		}
	}
}
