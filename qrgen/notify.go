package qrgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Notification is the JSON body POSTed to the configured webhook URL after
// each recorded generation.
type Notification struct {
	ID         string `json:"id"`
	Target     string `json:"target"`
	OutputPath string `json:"output_path"`
	Bytes      int64  `json:"bytes"`
	Level      string `json:"level"`
	CreatedAt  int64  `json:"created_at"`
}

// Notifier delivers generation notifications to an external HTTP endpoint,
// deduplicating by record ID.
type Notifier struct {
	url    string
	seen   map[string]time.Time // record ID -> first seen time (dedup)
	mu     sync.Mutex
	client *http.Client
	log    *slog.Logger
}

// seenTTL is the time-to-live for entries in the deduplication map.
const seenTTL = 5 * time.Minute

// NewNotifier creates a Notifier ready to POST payloads to the given url. If
// url is empty the notifier is a no-op (Send returns nil immediately).
func NewNotifier(url string, log *slog.Logger) *Notifier {
	return &Notifier{
		url:  url,
		seen: make(map[string]time.Time),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Send delivers a notification to the configured endpoint. It silently
// returns nil when no webhook URL is configured or when the record ID has
// already been delivered (dedup). Non-2xx responses are logged but not
// retried.
func (n *Notifier) Send(payload *Notification) error {
	if n.url == "" {
		return nil
	}

	n.mu.Lock()

	// Housekeeping: remove stale dedup entries before checking.
	n.cleanupSeenLocked()

	if _, ok := n.seen[payload.ID]; ok {
		n.mu.Unlock()
		n.log.Debug("webhook skipping duplicate record", "id", payload.ID)
		return nil
	}
	n.seen[payload.ID] = time.Now()
	n.mu.Unlock()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook marshal payload: %w", err)
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.log.Error("webhook delivery failed", "error", err, "id", payload.ID)
		return fmt.Errorf("webhook POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		n.log.Info("webhook delivered", "status", resp.StatusCode, "id", payload.ID)
	} else {
		n.log.Warn("webhook non-2xx response", "status", resp.StatusCode, "id", payload.ID)
	}

	return nil
}

// CleanupSeen removes deduplication entries older than seenTTL. Send() already
// calls this internally.
func (n *Notifier) CleanupSeen() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cleanupSeenLocked()
}

// cleanupSeenLocked removes stale entries from the seen map. The caller MUST
// hold n.mu.
func (n *Notifier) cleanupSeenLocked() {
	cutoff := time.Now().Add(-seenTTL)
	for id, t := range n.seen {
		if t.Before(cutoff) {
			delete(n.seen, id)
		}
	}
}
