// Package events publishes data source change notifications for downstream
// consumers (audit trail, cache invalidation, webhooks).
package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/tribe-health/growthbook/internal/models"
)

// Event kinds, used as the NATS subject suffix.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

const subjectPrefix = "datasources."

// Event describes one change to a data source. Connection params are never
// included in event payloads.
type Event struct {
	Kind         string    `json:"kind"`
	Organization string    `json:"organization"`
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher emits data source change events. Publishing is best-effort: failures
// are logged and never propagate to the request that caused the change.
type Publisher interface {
	Publish(kind string, ds models.DataSource)
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(kind string, ds models.DataSource) {}

// NATSPublisher emits events to a NATS subject per event kind.
type NATSPublisher struct {
	nc *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server: %s", url)
	return &NATSPublisher{nc: nc}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(kind string, ds models.DataSource) {
	event := Event{
		Kind:         kind,
		Organization: ds.Organization,
		ID:           ds.ID,
		Type:         ds.Type,
		Name:         ds.Name,
		Timestamp:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode %s event for data source %s: %v", kind, ds.ID, err)
		return
	}
	if err := p.nc.Publish(subjectPrefix+kind, payload); err != nil {
		log.Printf("Failed to publish %s event for data source %s: %v", kind, ds.ID, err)
	}
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	p.nc.Close()
}
