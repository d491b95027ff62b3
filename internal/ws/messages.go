package ws

import (
	"encoding/json"
	"time"

	"solartrack/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants (server -> client; the feed is listen-only).
const (
	TypeRecordCreated   = "record:created"
	TypeAnomalyDetected = "anomaly:detected"
)

// RecordPayload announces a newly stored energy record.
type RecordPayload struct {
	ID               string  `json:"id"`
	UnitID           string  `json:"unit_id"`
	Timestamp        string  `json:"timestamp"`
	EnergyProducedWh float64 `json:"energy_produced_wh"`
	IntervalHours    float64 `json:"interval_hours"`
}

// AnomalyPayload announces an injected or detected anomaly.
type AnomalyPayload struct {
	UnitID      string `json:"unit_id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}

// RecordPayloadFrom converts a stored record for broadcast.
func RecordPayloadFrom(r model.EnergyRecord) RecordPayload {
	return RecordPayload{
		ID:               r.ID,
		UnitID:           r.UnitID,
		Timestamp:        r.Timestamp.Format(time.RFC3339),
		EnergyProducedWh: r.EnergyProducedWh,
		IntervalHours:    r.IntervalHours,
	}
}

// AnomalyPayloadFrom converts an anomaly event for broadcast.
func AnomalyPayloadFrom(ev model.AnomalyEvent) AnomalyPayload {
	return AnomalyPayload{
		UnitID:      ev.UnitID,
		Category:    string(ev.Category),
		Timestamp:   ev.Timestamp.Format(time.RFC3339),
		Description: ev.Description,
	}
}
