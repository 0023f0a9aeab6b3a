package timelock

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

// Beacon reads the public drand relay. The chain's stored last round is the
// authoritative source for CRv4 round resolution; this client is the fallback
// when that storage read fails.
type Beacon struct {
	httpClient *retryablehttp.Client
	baseURL    string
}

type beaconRound struct {
	Round uint64 `json:"round"`
}

// NewBeacon creates a relay client for the Quicknet chain.
func NewBeacon(relayHost string) *Beacon {
	if relayHost == "" {
		relayHost = DefaultRelayHost
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 10 * time.Second
	client.RetryWaitMin = 250 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	return &Beacon{
		httpClient: client,
		baseURL:    fmt.Sprintf("%s/%s", relayHost, QuicknetChainHash),
	}
}

// LastRound fetches the most recent beacon round from the relay.
func (b *Beacon) LastRound() (uint64, error) {
	url := b.baseURL + "/public/latest"

	resp, err := b.httpClient.Get(url)
	if err != nil {
		return 0, fmt.Errorf("fetch latest beacon round: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("beacon relay returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read beacon response: %w", err)
	}

	var round beaconRound
	if err := sonic.Unmarshal(body, &round); err != nil {
		return 0, fmt.Errorf("parse beacon response: %w", err)
	}
	if round.Round == 0 {
		return 0, fmt.Errorf("beacon relay returned round 0")
	}

	log.Debug().Uint64("round", round.Round).Msg("fetched beacon round from relay")
	return round.Round, nil
}
