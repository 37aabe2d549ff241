// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Write paths publish these after commit; subscribers
// (cache invalidation, stats refresh) react asynchronously.
const (
	// Course events
	EventCourseUpserted EventType = "course.upserted"

	// Review events
	EventReviewSubmitted EventType = "review.submitted"
	EventReviewDeleted   EventType = "review.deleted"

	// Discussion events
	EventDiscussionPosted  EventType = "discussion.posted"
	EventDiscussionEdited  EventType = "discussion.edited"
	EventDiscussionDeleted EventType = "discussion.deleted"
	EventReplyPosted       EventType = "reply.posted"
	EventReplyTombstoned   EventType = "reply.tombstoned"

	// Engagement events
	EventLikeAdded   EventType = "engagement.like_added"
	EventLikeRemoved EventType = "engagement.like_removed"

	// Journey events
	EventJourneyCreated     EventType = "journey.created"
	EventJourneyCourseAdded EventType = "journey.course_added"

	// System events
	EventIngestionCompleted EventType = "system.ingestion_completed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload implements Event interface with the common fields only.
func (e BaseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"type":         string(e.Type),
		"aggregate_id": e.AggregateId,
		"timestamp":    e.Timestamp,
	}
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Concrete Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseUpsertedEvent is emitted when a course write completes. Created is
// false when the upsert hit an existing (platform, url) identity.
type CourseUpsertedEvent struct {
	BaseEvent
	CourseID string `json:"course_id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Created  bool   `json:"created"`
}

// Payload implements Event.
func (e CourseUpsertedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"course_id": e.CourseID,
		"platform":  e.Platform,
		"url":       e.URL,
		"created":   e.Created,
	}
}

// ReviewSubmittedEvent is emitted on review insert or in-place update.
type ReviewSubmittedEvent struct {
	BaseEvent
	ReviewID string `json:"review_id"`
	CourseID string `json:"course_id"`
	UserID   string `json:"user_id"`
	Rating   int    `json:"rating"`
	Updated  bool   `json:"updated"`
}

// Payload implements Event.
func (e ReviewSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"review_id": e.ReviewID,
		"course_id": e.CourseID,
		"user_id":   e.UserID,
		"rating":    e.Rating,
		"updated":   e.Updated,
	}
}

// ReviewDeletedEvent is emitted when a review row is removed.
type ReviewDeletedEvent struct {
	BaseEvent
	ReviewID string `json:"review_id"`
	CourseID string `json:"course_id"`
}

// Payload implements Event.
func (e ReviewDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"review_id": e.ReviewID,
		"course_id": e.CourseID,
	}
}

// ReplyTombstonedEvent is emitted when a reply transitions to the tombstone
// state. The row itself survives; only the text is gone.
type ReplyTombstonedEvent struct {
	BaseEvent
	ReplyID      string `json:"reply_id"`
	DiscussionID string `json:"discussion_id"`
}

// Payload implements Event.
func (e ReplyTombstonedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reply_id":      e.ReplyID,
		"discussion_id": e.DiscussionID,
	}
}

// LikeChangedEvent covers both like_added and like_removed.
type LikeChangedEvent struct {
	BaseEvent
	UserID     string `json:"user_id"`
	ObjectID   string `json:"object_id"`
	ObjectType string `json:"object_type"`
}

// Payload implements Event.
func (e LikeChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":     e.UserID,
		"object_id":   e.ObjectID,
		"object_type": e.ObjectType,
	}
}

// IngestionCompletedEvent is emitted by the ETL job after a full run.
type IngestionCompletedEvent struct {
	BaseEvent
	CoursesSeen     int `json:"courses_seen"`
	CoursesInserted int `json:"courses_inserted"`
	CoursesSkipped  int `json:"courses_skipped"`
	Failures        int `json:"failures"`
}

// Payload implements Event.
func (e IngestionCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"courses_seen":     e.CoursesSeen,
		"courses_inserted": e.CoursesInserted,
		"courses_skipped":  e.CoursesSkipped,
		"failures":         e.Failures,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler processes a single domain event.
type EventHandler interface {
	// Handle processes the event. Errors are logged by the bus, not propagated
	// back to the publisher.
	Handle(ctx context.Context, event Event) error

	// Name returns the handler name for logging.
	Name() string
}

// EventPublisher publishes domain events to subscribers.
type EventPublisher interface {
	// Publish delivers the event to all matching subscribers.
	Publish(ctx context.Context, event Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, event Event) error
}

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Fn(ctx, event)
}

// Name implements EventHandler.
func (f EventHandlerFunc) Name() string {
	return f.HandlerName
}
