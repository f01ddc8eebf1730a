package collaborators

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"docgate/internal/reminder/ports"
	"docgate/pkg/domain"
)

// HTTPContacts resolves contact channels from the citizen profile service.
type HTTPContacts struct {
	baseURL string
	client  *http.Client
}

func NewHTTPContacts(baseURL string) *HTTPContacts {
	return &HTTPContacts{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPContacts) Contact(ctx context.Context, owner domain.CitizenID) (ports.Contact, error) {
	url := fmt.Sprintf("%s/citizens/%s/contact", c.baseURL, owner)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.Contact{}, fmt.Errorf("build contact request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return ports.Contact{}, fmt.Errorf("contact request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ports.Contact{}, fmt.Errorf("contact request: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.Contact{}, fmt.Errorf("decode contact response: %w", err)
	}
	return ports.Contact{Email: body.Email, Phone: body.Phone}, nil
}

// MockContacts returns a deterministic e-mail per owner, with per-owner
// overrides for tests and demos.
type MockContacts struct {
	Latency time.Duration

	mu        sync.RWMutex
	overrides map[domain.CitizenID]ports.Contact
}

func NewMockContacts() *MockContacts {
	return &MockContacts{overrides: make(map[domain.CitizenID]ports.Contact)}
}

// Set overrides the contact returned for an owner. An empty Contact makes the
// owner unreachable.
func (c *MockContacts) Set(owner domain.CitizenID, contact ports.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrides[owner] = contact
}

func (c *MockContacts) Contact(_ context.Context, owner domain.CitizenID) (ports.Contact, error) {
	time.Sleep(c.Latency)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if contact, ok := c.overrides[owner]; ok {
		return contact, nil
	}
	return ports.Contact{Email: "citizen+" + owner.String()[:8] + "@example.gov"}, nil
}
