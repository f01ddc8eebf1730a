package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"docgate/internal/reminder/ports"
)

// HTTPNotifier hands reminders to the notification gateway.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: baseURL,
		// No client timeout: the engine bounds each send with its own
		// per-item deadline.
		client: &http.Client{},
	}
}

func (n *HTTPNotifier) Send(ctx context.Context, reminder ports.Reminder) error {
	payload, err := json.Marshal(map[string]string{
		"document_id":   reminder.DocumentID.String(),
		"owner_id":      reminder.OwnerID.String(),
		"email":         reminder.Contact.Email,
		"phone":         reminder.Contact.Phone,
		"document_type": reminder.DocumentType,
		"message":       fmt.Sprintf("Your %s %s.", reminder.DocumentType, reminder.DaysText),
	})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/notifications", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification request: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier writes reminders to the log instead of delivering them. Used
// when no notification gateway is configured.
type LogNotifier struct {
	Logger  *slog.Logger
	Latency time.Duration
}

func (n *LogNotifier) Send(ctx context.Context, reminder ports.Reminder) error {
	time.Sleep(n.Latency)
	n.Logger.InfoContext(ctx, "reminder (log transport)",
		"document_id", reminder.DocumentID.String(),
		"owner_id", reminder.OwnerID.String(),
		"email", reminder.Contact.Email,
		"phone", reminder.Contact.Phone,
		"days_text", reminder.DaysText,
	)
	return nil
}
