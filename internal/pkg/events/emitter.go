package events

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// maxDeliveryAttempts bounds out-of-band redelivery before an event is
// dropped with a warning. Emission never affects the committed state change
// it describes.
const maxDeliveryAttempts = 3

const retryDelay = 50 * time.Millisecond

// Emitter publishes domain events to the hub out-of-band. A failed delivery
// is retried a bounded number of times and then dropped with a logged
// warning.
type Emitter struct {
	hub    *Hub
	logger *slog.Logger
}

func NewEmitter(hub *Hub, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{hub: hub, logger: logger}
}

// Emit delivers the event asynchronously. It returns immediately; the owning
// transaction has already committed by the time Emit is called.
func (e *Emitter) Emit(companyID, topic string, data interface{}) {
	event := Event{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Topic:     topic,
		Data:      data,
		EmittedAt: time.Now().UTC(),
	}

	go func() {
		for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
			if e.hub.Publish(event) {
				return
			}
			time.Sleep(retryDelay)
		}
		e.logger.Warn("dropping domain event after bounded redelivery",
			"topic", topic,
			"company_id", companyID,
			"attempts", maxDeliveryAttempts,
		)
	}()
}
