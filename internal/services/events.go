package services

import "log"

// Routing keys of published domain events.
const (
	EventUserRegistered   = "user.registered"
	EventPostCreated      = "post.created"
	EventPostUpdated      = "post.updated"
	EventPostDeleted      = "post.deleted"
	EventSessionSignedIn  = "session.signed_in"
	EventSessionSignedOut = "session.signed_out"
)

// EventPublisher sends domain events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// publishEvent never fails the caller: events are notifications, not part of
// the operation.
func publishEvent(p EventPublisher, routingKey string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
		return
	}
	log.Printf("Published %s event", routingKey)
}
