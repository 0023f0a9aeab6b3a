// Package subtensor provides the chain gateway client used to read subnet
// state and submit weight extrinsics over a local sidecar's HTTP API.
package subtensor

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/tensorcommit/internal/config"
)

// Client is a thin wrapper over the gateway HTTP API.
type Client struct {
	client  *resty.Client
	Host    string
	Port    string
	BaseURL string
}

// NewClient creates a gateway client from environment configuration.
func NewClient(cfg *config.SubtensorEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	url := fmt.Sprintf("http://%s:%s", cfg.GatewayHost, cfg.GatewayPort)

	client := resty.New().
		SetBaseURL(url).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTimeout(15 * time.Second)

	return &Client{
		client:  client,
		Host:    cfg.GatewayHost,
		Port:    cfg.GatewayPort,
		BaseURL: url,
	}, nil
}

func postJSON[T any](client *resty.Client, path string, body any) (Response[T], error) {
	var result Response[T]
	resp, err := client.R().
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("post request failed")
		return Response[T]{}, fmt.Errorf("post %s: %w", path, err)
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Str("path", path).Msg("post non-2xx")
		return Response[T]{}, fmt.Errorf("request returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != nil {
		log.Error().Interface("error", result.Error).Str("path", path).Msg("response contains error")
		return Response[T]{}, fmt.Errorf("response error: %v", result.Error)
	}
	return result, nil
}

func getJSON[T any](client *resty.Client, path string) (Response[T], error) {
	var result Response[T]
	resp, err := client.R().
		SetResult(&result).
		Get(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("get request failed")
		return Response[T]{}, fmt.Errorf("get %s: %w", path, err)
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("body", resp.String()).Str("path", path).Msg("get non-2xx")
		return Response[T]{}, fmt.Errorf("request returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != nil {
		log.Error().Interface("error", result.Error).Str("path", path).Msg("response contains error")
		return Response[T]{}, fmt.Errorf("response error: %v", result.Error)
	}
	return result, nil
}

// GetLatestBlock retrieves the latest block details from the chain.
func (c *Client) GetLatestBlock() (LatestBlockResponse, error) {
	return getJSON[LatestBlock](c.client, "/chain/latest-block")
}

// GetSubnetHyperparams fetches the subnet hyperparameters for a netuid.
func (c *Client) GetSubnetHyperparams(netuid int) (SubnetHyperparamsResponse, error) {
	path := fmt.Sprintf("/chain/subnet-hyperparameters/%d", netuid)
	return getJSON[SubnetHyperparams](c.client, path)
}

// GetDrandLastRound reads the chain's last stored drand round.
func (c *Client) GetDrandLastRound() (DrandRoundResponse, error) {
	return getJSON[DrandRound](c.client, "/chain/drand-last-round")
}

// GetWeightCommit returns the chain's stored weight commit for a hotkey on a
// (netuid, mechanism) pair, if any.
func (c *Client) GetWeightCommit(netuid int, mechanismID int, hotkey string) (WeightCommitResponse, error) {
	path := fmt.Sprintf("/chain/weight-commits/%d/%d/%s", netuid, mechanismID, hotkey)
	return getJSON[WeightCommit](c.client, path)
}

// SetWeights submits a plain set_weights extrinsic.
func (c *Client) SetWeights(params SetWeightsParams) (ExtrinsicHashResponse, error) {
	return postJSON[string](c.client, "/chain/set-weights", params)
}

// CommitWeights submits a commit_weights extrinsic carrying the opaque digest.
func (c *Client) CommitWeights(params CommitWeightsParams) (ExtrinsicHashResponse, error) {
	return postJSON[string](c.client, "/chain/commit-weights", params)
}

// RevealWeights submits a reveal_weights extrinsic for a prior commit.
func (c *Client) RevealWeights(params RevealWeightsParams) (ExtrinsicHashResponse, error) {
	return postJSON[string](c.client, "/chain/reveal-weights", params)
}

// CommitTimelockedWeights submits a commit_timelocked_weights extrinsic
// carrying the sealed CRv4 payload.
func (c *Client) CommitTimelockedWeights(params CommitTimelockedWeightsParams) (ExtrinsicHashResponse, error) {
	return postJSON[string](c.client, "/chain/commit-timelocked-weights", params)
}

// GetKeyringPair returns information about the node's keyring pair.
func (c *Client) GetKeyringPair() (KeyringPairInfoResponse, error) {
	return getJSON[KeyringPairInfo](c.client, "/substrate/keyring-pair-info")
}
