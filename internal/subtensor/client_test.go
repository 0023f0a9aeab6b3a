package subtensor

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tensorplex-labs/tensorcommit/internal/config"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.SubtensorEnvConfig{
		GatewayHost: ts.Listener.Addr().(*net.TCPAddr).IP.String(),
		GatewayPort: fmt.Sprint(ts.Listener.Addr().(*net.TCPAddr).Port),
	}
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.BaseURL = ts.URL
	c.client.SetBaseURL(ts.URL)
	return ts, c
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil)
	if err == nil {
		t.Fatalf("expected error when cfg is nil")
	}
}

func TestGetLatestBlock_Success(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/latest-block" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"blockNumber":12345},"error":null}`))
	})

	res, err := c.GetLatestBlock()
	if err != nil {
		t.Fatalf("GetLatestBlock error: %v", err)
	}
	if res.Data.BlockNumber != 12345 {
		t.Fatalf("unexpected block number: %d", res.Data.BlockNumber)
	}
}

func TestGetSubnetHyperparams_AbsentFields(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/subnet-hyperparameters/98" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"weightsVersion":7,"commitRevealWeightsEnabled":true},"error":null}`))
	})

	res, err := c.GetSubnetHyperparams(98)
	if err != nil {
		t.Fatalf("GetSubnetHyperparams error: %v", err)
	}
	// Absent tempo must be distinguishable from zero.
	if res.Data.Tempo != nil {
		t.Fatalf("expected nil tempo, got %v", *res.Data.Tempo)
	}
	if res.Data.WeightsVersion != 7 || !res.Data.CommitRevealWeightsEnabled {
		t.Fatalf("unexpected hyperparams: %+v", res.Data)
	}
}

func TestGetSubnetHyperparams_ZeroTempo(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"tempo":0,"commitRevealPeriod":1},"error":null}`))
	})

	res, err := c.GetSubnetHyperparams(1)
	if err != nil {
		t.Fatalf("GetSubnetHyperparams error: %v", err)
	}
	if res.Data.Tempo == nil || *res.Data.Tempo != 0 {
		t.Fatalf("expected explicit zero tempo, got %v", res.Data.Tempo)
	}
}

func TestCommitWeights_Success(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/commit-weights" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":"0xabc","error":null}`))
	})

	res, err := c.CommitWeights(CommitWeightsParams{Netuid: 1, CommitHash: "0xdeadbeef"})
	if err != nil {
		t.Fatalf("CommitWeights error: %v", err)
	}
	if res.Data != "0xabc" {
		t.Fatalf("unexpected tx hash: %s", res.Data)
	}
}

func TestCommitWeights_HTTPError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad"))
	})
	_, err := c.CommitWeights(CommitWeightsParams{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRevealWeights_ResponseErrorField(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":false,"data":"","error":{"msg":"reveal rejected"}}`))
	})
	_, err := c.RevealWeights(RevealWeightsParams{})
	if err == nil {
		t.Fatalf("expected error from response error field")
	}
}

func TestGetWeightCommit_Found(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/weight-commits/1/0/hotkeyaddr" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"found":true,"commitBlock":900,"revealRound":5401},"error":null}`))
	})

	res, err := c.GetWeightCommit(1, 0, "hotkeyaddr")
	if err != nil {
		t.Fatalf("GetWeightCommit error: %v", err)
	}
	if !res.Data.Found || res.Data.RevealRound != 5401 {
		t.Fatalf("unexpected commit: %+v", res.Data)
	}
}

func TestGetDrandLastRound_Success(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chain/drand-last-round" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"success":true,"data":{"lastStoredRound":987654},"error":null}`))
	})

	res, err := c.GetDrandLastRound()
	if err != nil {
		t.Fatalf("GetDrandLastRound error: %v", err)
	}
	if res.Data.LastStoredRound != 987654 {
		t.Fatalf("unexpected round: %d", res.Data.LastStoredRound)
	}
}
