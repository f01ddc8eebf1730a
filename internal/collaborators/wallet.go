// Package collaborators implements the external service ports: the wallet
// status service, the citizen profile service, and the notification
// transport. HTTP clients talk to the real upstreams; mock implementations
// use deterministic data and a configurable latency to mimic real-world
// calls, for development and demos.
package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"docgate/pkg/domain"
)

// HTTPWallet queries the wallet service for suspension status.
type HTTPWallet struct {
	baseURL string
	client  *http.Client
}

func NewHTTPWallet(baseURL string) *HTTPWallet {
	return &HTTPWallet{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (w *HTTPWallet) IsSuspended(ctx context.Context, owner domain.CitizenID) (bool, error) {
	url := fmt.Sprintf("%s/wallets/%s/status", w.baseURL, owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build wallet status request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("wallet status request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("wallet status request: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Suspended bool `json:"suspended"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode wallet status response: %w", err)
	}
	return body.Suspended, nil
}

// MockWallet reports every wallet as active unless suspended explicitly.
type MockWallet struct {
	Latency time.Duration

	mu        sync.RWMutex
	suspended map[domain.CitizenID]bool
}

func NewMockWallet() *MockWallet {
	return &MockWallet{suspended: make(map[domain.CitizenID]bool)}
}

// Suspend marks an owner's wallet as suspended.
func (w *MockWallet) Suspend(owner domain.CitizenID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suspended[owner] = true
}

func (w *MockWallet) IsSuspended(_ context.Context, owner domain.CitizenID) (bool, error) {
	time.Sleep(w.Latency)
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.suspended[owner], nil
}
