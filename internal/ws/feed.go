package ws

import (
	"github.com/rs/zerolog/log"

	"solartrack/internal/model"
)

// Feed publishes domain events onto the hub. It is the write side of the
// live stream; handlers and the seeder call it after a successful persist.
type Feed struct {
	hub *Hub
}

// NewFeed returns a feed over hub, or nil when hub is nil.
func NewFeed(hub *Hub) *Feed {
	if hub == nil {
		return nil
	}
	return &Feed{hub: hub}
}

// PublishRecord broadcasts a record:created event. A nil Feed is valid and
// publishes nothing.
func (f *Feed) PublishRecord(r model.EnergyRecord) {
	if f == nil {
		return
	}
	msg, err := NewEnvelope(TypeRecordCreated, RecordPayloadFrom(r))
	if err != nil {
		log.Error().Err(err).Msg("encoding record event")
		return
	}
	f.hub.Broadcast(msg)
}

// PublishAnomaly broadcasts an anomaly:detected event.
func (f *Feed) PublishAnomaly(ev model.AnomalyEvent) {
	if f == nil {
		return
	}
	msg, err := NewEnvelope(TypeAnomalyDetected, AnomalyPayloadFrom(ev))
	if err != nil {
		log.Error().Err(err).Msg("encoding anomaly event")
		return
	}
	f.hub.Broadcast(msg)
}
