package subtensor

// Response is the gateway's envelope for every endpoint.
type Response[T any] struct {
	StatusCode int            `json:"statusCode"`
	Success    bool           `json:"success"`
	Data       T              `json:"data"`
	Error      map[string]any `json:"error"`
}

type (
	LatestBlockResponse       = Response[LatestBlock]
	SubnetHyperparamsResponse = Response[SubnetHyperparams]
	KeyringPairInfoResponse   = Response[KeyringPairInfo]
	DrandRoundResponse        = Response[DrandRound]
	WeightCommitResponse      = Response[WeightCommit]
	ExtrinsicHashResponse     = Response[string]
)

type LatestBlock struct {
	ParentHash     string `json:"parentHash"`
	BlockNumber    uint64 `json:"blockNumber"`
	StateRoot      string `json:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot"`
}

// SubnetHyperparams carries the subset of subnet configuration the committer
// consumes. Tempo and CommitRevealPeriod are pointers so an absent value can
// be told apart from a legal zero.
type SubnetHyperparams struct {
	Tempo                      *uint64 `json:"tempo"`
	WeightsVersion             uint64  `json:"weightsVersion"`
	WeightsRateLimit           uint64  `json:"weightsRateLimit"`
	MaxWeightsLimit            uint64  `json:"maxWeightsLimit"`
	MinAllowedWeights          uint64  `json:"minAllowedWeights"`
	CommitRevealPeriod         *uint64 `json:"commitRevealPeriod"`
	CommitRevealWeightsEnabled bool    `json:"commitRevealWeightsEnabled"`
}

type KeyringPair struct {
	Address   string         `json:"address"`
	IsLocked  bool           `json:"isLocked"`
	Meta      map[string]any `json:"meta"`
	PublicKey map[string]any `json:"publicKey"`
	Type      string         `json:"type"`
}

type KeyringPairInfo struct {
	KeyringPair   KeyringPair `json:"keyringPair"`
	WalletColdkey string      `json:"walletColdkey"`
}

type DrandRound struct {
	LastStoredRound uint64 `json:"lastStoredRound"`
}

// WeightCommit mirrors the chain's stored commit entry for a hotkey. Found
// reports whether an entry exists; for CRv4 the entry disappearing after the
// reveal round is the confirmation that the chain auto-revealed it.
type WeightCommit struct {
	Found       bool   `json:"found"`
	Commit      string `json:"commit"`
	CommitBlock uint64 `json:"commitBlock"`
	RevealRound uint64 `json:"revealRound"`
}

type SetWeightsParams struct {
	Netuid     int      `json:"netuid"`
	Dests      []uint16 `json:"dests"`
	Weights    []uint16 `json:"weights"`
	VersionKey uint64   `json:"versionKey"`
}

type CommitWeightsParams struct {
	Netuid     int    `json:"netuid"`
	CommitHash string `json:"commitHash"`
}

type RevealWeightsParams struct {
	Netuid     int      `json:"netuid"`
	UIDs       []uint16 `json:"uids"`
	Weights    []uint16 `json:"weights"`
	Salt       []uint16 `json:"salt"`
	VersionKey uint64   `json:"versionKey"`
}

type CommitTimelockedWeightsParams struct {
	Netuid              int    `json:"netuid"`
	MechanismID         int    `json:"mecid"`
	Commit              string `json:"commit"`
	RevealRound         uint64 `json:"revealRound"`
	CommitRevealVersion int    `json:"commitRevealVersion"`
}
