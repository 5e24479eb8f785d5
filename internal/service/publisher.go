package service

import "github.com/fogonims/stock-service/internal/events"

// EventPublisher is satisfied by messaging.Publisher. Publication is
// fire-and-forget after the owning transaction commits; services log and
// move on when the broker is unreachable.
type EventPublisher interface {
	PublishStockEvent(event events.StockEvent) error
}

// NopPublisher drops every event. Used where no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishStockEvent(events.StockEvent) error { return nil }
