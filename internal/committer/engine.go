// Package committer runs the commit-reveal lifecycle for subnet weight
// submission: encoding weight vectors, committing their digests or sealed
// payloads on-chain, and driving each pending commit to a revealed or
// expired terminal state.
package committer

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/tensorcommit/internal/epoch"
	"github.com/tensorplex-labs/tensorcommit/internal/subtensor"
	"github.com/tensorplex-labs/tensorcommit/internal/timelock"
	"github.com/tensorplex-labs/tensorcommit/internal/weights"
)

// ChainClient is the chain surface the engine needs. *subtensor.Client
// satisfies it; tests substitute a fake.
type ChainClient interface {
	GetLatestBlock() (subtensor.LatestBlockResponse, error)
	GetSubnetHyperparams(netuid int) (subtensor.SubnetHyperparamsResponse, error)
	GetDrandLastRound() (subtensor.DrandRoundResponse, error)
	GetWeightCommit(netuid int, mechanismID int, hotkey string) (subtensor.WeightCommitResponse, error)
	SetWeights(params subtensor.SetWeightsParams) (subtensor.ExtrinsicHashResponse, error)
	CommitWeights(params subtensor.CommitWeightsParams) (subtensor.ExtrinsicHashResponse, error)
	RevealWeights(params subtensor.RevealWeightsParams) (subtensor.ExtrinsicHashResponse, error)
	CommitTimelockedWeights(params subtensor.CommitTimelockedWeightsParams) (subtensor.ExtrinsicHashResponse, error)
}

// BeaconSource supplies the drand relay's latest round, used as fallback
// when the chain's stored round is unreadable.
type BeaconSource interface {
	LastRound() (uint64, error)
}

// EngineConfig carries the identity and persistence settings for an Engine.
type EngineConfig struct {
	// HotkeySS58 is the submitting hotkey's SS58 address.
	HotkeySS58 string
	// Account is the hotkey's raw 32-byte account id, mixed into every
	// commit digest exactly as the chain recomputes it at reveal.
	Account [32]byte
	// SnapshotPath, when non-empty, persists pending commits across
	// restarts. Reveal payloads lost to a crash are unrecoverable, so the
	// store is flushed after every mutation.
	SnapshotPath string
}

// Engine drives the commit-reveal state machine against the chain.
type Engine struct {
	chain  ChainClient
	sealer timelock.Sealer
	beacon BeaconSource
	store  *Store
	cfg    EngineConfig
}

func NewEngine(chain ChainClient, sealer timelock.Sealer, beacon BeaconSource, cfg EngineConfig) *Engine {
	return &Engine{
		chain:  chain,
		sealer: sealer,
		beacon: beacon,
		store:  NewStore(),
		cfg:    cfg,
	}
}

// Store exposes the pending-commit store for snapshot restore and inspection.
func (e *Engine) Store() *Store {
	return e.store
}

type subnetParams struct {
	tempo        uint64
	revealPeriod uint64
	versionKey   uint64
	maxWeight    float64
	crEnabled    bool
}

func (e *Engine) fetchSubnetParams(netuid uint16) (subnetParams, error) {
	resp, err := e.chain.GetSubnetHyperparams(int(netuid))
	if err != nil {
		return subnetParams{}, fmt.Errorf("fetch hyperparams for netuid %d: %w", netuid, err)
	}
	hp := resp.Data
	if hp.Tempo == nil {
		return subnetParams{}, fmt.Errorf("netuid %d: %w", netuid, ErrMissingTempo)
	}
	if hp.CommitRevealPeriod == nil {
		return subnetParams{}, fmt.Errorf("netuid %d: %w", netuid, ErrMissingRevealPeriod)
	}
	return subnetParams{
		tempo:        *hp.Tempo,
		revealPeriod: *hp.CommitRevealPeriod,
		versionKey:   hp.WeightsVersion,
		maxWeight:    float64(hp.MaxWeightsLimit) / float64(weights.U16Max),
		crEnabled:    hp.CommitRevealWeightsEnabled,
	}, nil
}

// encodeForSubnet applies the subnet's per-uid weight ceiling, when one is
// set, before fixed-point encoding.
func encodeForSubnet(params subnetParams, uids []uint64, weightVals []float64) ([]uint16, []uint16, error) {
	if params.maxWeight > 0 && params.maxWeight < 1 {
		weightVals = weights.ClampToMax(weightVals, params.maxWeight)
	}
	return weights.NormalizeAndEncode(uids, weightVals)
}

// lastBeaconRound resolves the beacon's last round, preferring the chain's
// stored value so the target round is anchored to what the chain has
// verified. The relay is the fallback; if both fail the commit is refused.
func (e *Engine) lastBeaconRound() (uint64, error) {
	resp, err := e.chain.GetDrandLastRound()
	if err == nil && resp.Data.LastStoredRound > 0 {
		return resp.Data.LastStoredRound, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("chain drand round unavailable, falling back to relay")
	}

	if e.beacon != nil {
		round, relayErr := e.beacon.LastRound()
		if relayErr == nil {
			return round, nil
		}
		log.Warn().Err(relayErr).Msg("drand relay unavailable")
	}
	return 0, ErrBeaconUnavailable
}

// SetWeightsDirect submits weights without commit-reveal, for subnets that
// have it disabled.
func (e *Engine) SetWeightsDirect(netuid uint16, uids []uint64, weightVals []float64) (string, error) {
	params, err := e.fetchSubnetParams(netuid)
	if err != nil {
		return "", err
	}

	uidVec, valVec, err := encodeForSubnet(params, uids, weightVals)
	if err != nil {
		return "", err
	}

	resp, err := e.chain.SetWeights(subtensor.SetWeightsParams{
		Netuid:     int(netuid),
		Dests:      uidVec,
		Weights:    valVec,
		VersionKey: params.versionKey,
	})
	if err != nil {
		return "", fmt.Errorf("set_weights for netuid %d: %w", netuid, err)
	}

	log.Info().Uint16("netuid", netuid).Str("tx_hash", resp.Data).Msg("weights set directly")
	return resp.Data, nil
}

// Commit encodes the weight vector and submits a commitment for one
// (netuid, mechanism) slot. At most one commit may be pending per slot;
// a second attempt before reveal or expiry fails with ErrCommitInProgress.
//
// The commit is only recorded locally after the chain accepts the extrinsic,
// so a submission failure leaves no phantom pending state.
func (e *Engine) Commit(netuid uint16, mechanismID uint8, uids []uint64, weightVals []float64, version ProtocolVersion) (*Handle, error) {
	return e.CommitWithSalt(netuid, mechanismID, uids, weightVals, version, nil)
}

// CommitWithSalt is Commit with a caller-supplied salt for the manual-reveal
// versions. A nil salt is generated fresh. Timelocked commits carry no salt
// and reject one.
func (e *Engine) CommitWithSalt(netuid uint16, mechanismID uint8, uids []uint64, weightVals []float64, version ProtocolVersion, salt []uint16) (*Handle, error) {
	key := Key{Netuid: netuid, MechanismID: mechanismID}
	if version.AutoReveal() && len(salt) > 0 {
		return nil, fmt.Errorf("%w: timelocked commits do not take a salt", weights.ErrInvalidInput)
	}
	unlock := e.store.LockKey(key)
	defer unlock()

	if e.store.Has(key) {
		return nil, fmt.Errorf("%s: %w", key, ErrCommitInProgress)
	}

	params, err := e.fetchSubnetParams(netuid)
	if err != nil {
		return nil, err
	}

	uidVec, valVec, err := encodeForSubnet(params, uids, weightVals)
	if err != nil {
		return nil, err
	}

	blockResp, err := e.chain.GetLatestBlock()
	if err != nil {
		return nil, fmt.Errorf("fetch latest block: %w", err)
	}
	commitBlock := blockResp.Data.BlockNumber
	commitEpoch := epoch.Index(commitBlock, params.tempo)

	pending := &PendingCommit{
		Netuid:      netuid,
		MechanismID: mechanismID,
		Version:     version,
		CommitBlock: commitBlock,
		CommitEpoch: commitEpoch,
		UIDs:        uidVec,
		Weights:     valVec,
		Salt:        salt,
		VersionKey:  params.versionKey,
		CommittedAt: time.Now().UTC(),
	}

	switch version {
	case ProtocolPlain, ProtocolCRv3:
		if err := e.submitHashed(pending); err != nil {
			return nil, err
		}
	case ProtocolCRv4:
		if err := e.submitTimelocked(pending, params); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported protocol version %d", version)
	}

	if err := e.store.Put(pending); err != nil {
		return nil, err
	}
	e.persist()

	log.Info().
		Str("key", key.String()).
		Str("version", version.String()).
		Uint64("commit_block", commitBlock).
		Uint64("commit_epoch", commitEpoch).
		Str("tx_hash", pending.TxHash).
		Msg("weight commit submitted")

	return &Handle{key: key}, nil
}

func (e *Engine) submitHashed(p *PendingCommit) error {
	if len(p.Salt) == 0 {
		salt, err := weights.NewSalt(weights.DefaultSaltLen)
		if err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		p.Salt = salt
	}

	digest, err := weights.CommitHash(e.cfg.Account, p.Netuid, p.MechanismID, p.UIDs, p.Weights, p.Salt, p.VersionKey)
	if err != nil {
		return err
	}
	p.CommitHash = "0x" + hex.EncodeToString(digest[:])

	resp, err := e.chain.CommitWeights(subtensor.CommitWeightsParams{
		Netuid:     int(p.Netuid),
		CommitHash: p.CommitHash,
	})
	if err != nil {
		return fmt.Errorf("commit_weights for netuid %d: %w", p.Netuid, err)
	}
	p.TxHash = resp.Data
	return nil
}

func (e *Engine) submitTimelocked(p *PendingCommit, params subnetParams) error {
	lastRound, err := e.lastBeaconRound()
	if err != nil {
		return err
	}
	p.RevealRound = timelock.TargetRound(lastRound, params.tempo, params.revealPeriod, p.CommitEpoch, p.CommitBlock)

	payload := timelock.Payload{
		Hotkey:     e.cfg.Account[:],
		UIDs:       p.UIDs,
		Values:     p.Weights,
		VersionKey: p.VersionKey,
	}
	plaintext, err := payload.Encode()
	if err != nil {
		return err
	}

	ciphertext, err := e.sealer.Seal(plaintext, p.RevealRound)
	if err != nil {
		return fmt.Errorf("seal payload for round %d: %w", p.RevealRound, err)
	}

	resp, err := e.chain.CommitTimelockedWeights(subtensor.CommitTimelockedWeightsParams{
		Netuid:              int(p.Netuid),
		MechanismID:         int(p.MechanismID),
		Commit:              "0x" + hex.EncodeToString(ciphertext),
		RevealRound:         p.RevealRound,
		CommitRevealVersion: int(ProtocolCRv4),
	})
	if err != nil {
		return fmt.Errorf("commit_timelocked_weights for netuid %d: %w", p.Netuid, err)
	}
	p.TxHash = resp.Data
	return nil
}

// PollReveal advances one pending commit. Manual-reveal commits are revealed
// when their window opens; timelocked commits are confirmed against the
// chain once the beacon passes the target round. Expired commits are
// evicted and reported as StatusExpired.
func (e *Engine) PollReveal(h *Handle) (RevealStatus, error) {
	pending := e.store.Get(h.key)
	if pending == nil {
		return StatusPending, fmt.Errorf("%s: %w", h.key, ErrNoPending)
	}

	params, err := e.fetchSubnetParams(pending.Netuid)
	if err != nil {
		return StatusPending, err
	}
	blockResp, err := e.chain.GetLatestBlock()
	if err != nil {
		return StatusPending, fmt.Errorf("fetch latest block: %w", err)
	}
	block := blockResp.Data.BlockNumber

	if epoch.IsExpired(block, params.tempo, params.revealPeriod, pending.CommitEpoch) {
		if pending.Version.AutoReveal() {
			// A late poll may find the window already closed after the
			// chain auto-revealed, e.g. a restart from snapshot. The
			// absent commit entry tells the two apart.
			resp, err := e.chain.GetWeightCommit(int(pending.Netuid), int(pending.MechanismID), e.cfg.HotkeySS58)
			if err != nil {
				return StatusPending, fmt.Errorf("fetch weight commit for %s: %w", h.key, err)
			}
			if !resp.Data.Found {
				log.Info().Str("key", h.key.String()).Uint64("reveal_round", pending.RevealRound).Msg("timelocked commit auto-revealed")
				e.evict(h.key, "auto-revealed")
				return StatusRevealed, nil
			}
		}
		e.evict(h.key, "reveal window passed")
		return StatusExpired, nil
	}

	if pending.Version.AutoReveal() {
		return e.pollTimelocked(pending)
	}
	return e.pollManual(pending, params, block)
}

func (e *Engine) pollManual(p *PendingCommit, params subnetParams, block uint64) (RevealStatus, error) {
	if !epoch.InRevealWindow(block, params.tempo, params.revealPeriod, p.CommitEpoch) {
		return StatusPending, nil
	}
	return e.revealManual(p)
}

func (e *Engine) revealManual(p *PendingCommit) (RevealStatus, error) {
	digest, err := weights.CommitHash(e.cfg.Account, p.Netuid, p.MechanismID, p.UIDs, p.Weights, p.Salt, p.VersionKey)
	if err != nil {
		return StatusPending, err
	}
	if "0x"+hex.EncodeToString(digest[:]) != p.CommitHash {
		// The stored payload no longer reproduces what was committed; the
		// chain would reject the reveal anyway. Never submitted.
		return StatusPending, fmt.Errorf("%s: %w", p.Key(), ErrRevealMismatch)
	}

	resp, err := e.chain.RevealWeights(subtensor.RevealWeightsParams{
		Netuid:     int(p.Netuid),
		UIDs:       p.UIDs,
		Weights:    p.Weights,
		Salt:       p.Salt,
		VersionKey: p.VersionKey,
	})
	if err != nil {
		return StatusPending, fmt.Errorf("reveal_weights for netuid %d: %w", p.Netuid, err)
	}

	log.Info().Str("key", p.Key().String()).Str("tx_hash", resp.Data).Msg("weights revealed")
	e.evict(p.Key(), "revealed")
	return StatusRevealed, nil
}

func (e *Engine) pollTimelocked(p *PendingCommit) (RevealStatus, error) {
	round, err := e.lastBeaconRound()
	if err != nil {
		return StatusPending, err
	}
	if round < p.RevealRound {
		return StatusPending, nil
	}

	// Past the target round the chain should have decrypted and applied the
	// commit, deleting its storage entry. The entry's absence is the
	// confirmation signal.
	resp, err := e.chain.GetWeightCommit(int(p.Netuid), int(p.MechanismID), e.cfg.HotkeySS58)
	if err != nil {
		return StatusPending, fmt.Errorf("fetch weight commit for %s: %w", p.Key(), err)
	}
	if resp.Data.Found {
		log.Debug().
			Str("key", p.Key().String()).
			Uint64("reveal_round", p.RevealRound).
			Uint64("beacon_round", round).
			Msg("timelocked commit still on chain, awaiting auto-reveal")
		return StatusPending, nil
	}

	log.Info().Str("key", p.Key().String()).Uint64("reveal_round", p.RevealRound).Msg("timelocked commit auto-revealed")
	e.evict(p.Key(), "auto-revealed")
	return StatusRevealed, nil
}

// ForceManualReveal reveals a manual-protocol commit immediately if its
// window is open. Timelocked commits cannot be force-revealed; only the
// chain holds the decryption path.
func (e *Engine) ForceManualReveal(h *Handle) error {
	pending := e.store.Get(h.key)
	if pending == nil {
		return fmt.Errorf("%s: %w", h.key, ErrNoPending)
	}
	if pending.Version.AutoReveal() {
		return fmt.Errorf("%s: %w", h.key, ErrAutoRevealOnly)
	}

	params, err := e.fetchSubnetParams(pending.Netuid)
	if err != nil {
		return err
	}
	blockResp, err := e.chain.GetLatestBlock()
	if err != nil {
		return fmt.Errorf("fetch latest block: %w", err)
	}
	block := blockResp.Data.BlockNumber

	if epoch.IsExpired(block, params.tempo, params.revealPeriod, pending.CommitEpoch) {
		e.evict(h.key, "reveal window passed")
		return fmt.Errorf("%s: %w", h.key, ErrExpired)
	}
	if !epoch.InRevealWindow(block, params.tempo, params.revealPeriod, pending.CommitEpoch) {
		return fmt.Errorf("%s: %w", h.key, ErrRevealNotReady)
	}

	_, err = e.revealManual(pending)
	return err
}

// PollAll sweeps every pending commit once. Intended to run on the block
// callback cadence; per-key failures are logged and do not stop the sweep.
func (e *Engine) PollAll() {
	for _, key := range e.store.Keys() {
		status, err := e.PollReveal(&Handle{key: key})
		if err != nil {
			log.Warn().Err(err).Str("key", key.String()).Msg("reveal poll failed")
			continue
		}
		if status != StatusPending {
			log.Info().Str("key", key.String()).Str("status", status.String()).Msg("pending commit resolved")
		}
	}
}

func (e *Engine) evict(k Key, reason string) {
	e.store.Delete(k)
	e.persist()
	log.Debug().Str("key", k.String()).Str("reason", reason).Msg("pending commit evicted")
}

func (e *Engine) persist() {
	if e.cfg.SnapshotPath == "" {
		return
	}
	if err := e.store.SaveSnapshot(e.cfg.SnapshotPath); err != nil {
		log.Error().Err(err).Str("path", e.cfg.SnapshotPath).Msg("failed to persist pending commits")
	}
}

// Restore loads the snapshot from disk into the store, if configured.
func (e *Engine) Restore() error {
	if e.cfg.SnapshotPath == "" {
		return nil
	}
	if err := e.store.LoadSnapshot(e.cfg.SnapshotPath); err != nil {
		return err
	}
	if n := e.store.Len(); n > 0 {
		log.Info().Int("pending", n).Str("path", e.cfg.SnapshotPath).Msg("restored pending commits from snapshot")
	}
	return nil
}
