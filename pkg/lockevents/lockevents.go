// Package lockevents fans out lock grant, revoke, and allocation outcomes
// onto an event bus topic so downstream consumers (audit trails, ingestion
// supervisors, dashboards) can observe lockbox activity without polling it.
package lockevents

import (
	"context"
	"fmt"
	"time"

	"github.com/druidlock/lockservice/pkg/eventbus"
	"github.com/druidlock/lockservice/pkg/lockservice"
	"github.com/druidlock/lockservice/pkg/observability/logger"
)

// Kind labels the sort of lock-service action an Event reports.
type Kind string

const (
	KindGranted   Kind = "granted"
	KindRevoked   Kind = "revoked"
	KindReleased  Kind = "released"
	KindAllocated Kind = "allocated"
)

// Event is the wire payload published for each lockbox state change.
type Event struct {
	Kind       Kind                   `json:"kind"`
	DataSource string                 `json:"dataSource"`
	GroupID    string                 `json:"groupId"`
	Interval   lockservice.Interval   `json:"interval"`
	Version    string                 `json:"version"`
	ShardSpec  *lockservice.ShardSpec `json:"shardSpec,omitempty"`
	TaskID     string                 `json:"taskId,omitempty"`
	Priority   int                    `json:"priority"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Publisher fans lockbox events out onto a topic of an underlying bus.
type Publisher struct {
	bus        eventbus.Producer
	topic      string
	serializer eventbus.Serializer
	log        logger.Logger
}

func NewPublisher(bus eventbus.Producer, topic string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNoop()
	}
	if topic == "" {
		topic = "lockservice.lock-events"
	}
	return &Publisher{bus: bus, topic: topic, serializer: eventbus.NewJSONSerializer(), log: log}
}

// Publish serializes and sends a single lockbox event, best-effort: a
// publish failure is logged and returned but never blocks the caller's
// lock operation, since the journal is the durable source of truth.
func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	if p == nil || p.bus == nil {
		return nil
	}
	body, err := p.serializer.Serialize(evt)
	if err != nil {
		return fmt.Errorf("lockevents: marshal event: %w", err)
	}
	msg := &eventbus.Message{
		Key:         evt.DataSource + "/" + evt.Interval.String(),
		Value:       body,
		ContentType: p.serializer.ContentType(),
		Timestamp:   evt.OccurredAt,
		Headers: map[string]string{
			"kind": string(evt.Kind),
		},
	}
	if err := p.bus.Publish(ctx, p.topic, msg); err != nil {
		p.log.Error("failed to publish lock event", "kind", evt.Kind, "data_source", evt.DataSource, "error", err)
		return fmt.Errorf("lockevents: publish: %w", err)
	}
	return nil
}

// LeaseEvent builds a grant/revoke/release event out of a lease and the
// clock at the moment of the call.
func LeaseEvent(kind Kind, lease lockservice.Lease, taskID string, at time.Time) Event {
	return Event{
		Kind:       kind,
		DataSource: lease.DataSource,
		GroupID:    lease.GroupID,
		Interval:   lease.Interval,
		Version:    lease.Version,
		TaskID:     taskID,
		Priority:   lease.Priority,
		OccurredAt: at,
	}
}

// OnGranted implements lockservice.EventSink.
func (p *Publisher) OnGranted(ctx context.Context, lease lockservice.Lease, taskID string) {
	_ = p.Publish(ctx, LeaseEvent(KindGranted, lease, taskID, time.Now()))
}

// OnRevoked implements lockservice.EventSink.
func (p *Publisher) OnRevoked(ctx context.Context, lease lockservice.Lease) {
	_ = p.Publish(ctx, LeaseEvent(KindRevoked, lease, "", time.Now()))
}

// OnReleased implements lockservice.EventSink.
func (p *Publisher) OnReleased(ctx context.Context, lease lockservice.Lease, taskID string) {
	_ = p.Publish(ctx, LeaseEvent(KindReleased, lease, taskID, time.Now()))
}

// AllocationEvent builds an allocated-segment event from a minted identity.
func AllocationEvent(identity lockservice.SegmentIdWithShardSpec, taskID string, at time.Time) Event {
	spec := identity.ShardSpec
	return Event{
		Kind:       KindAllocated,
		DataSource: identity.DataSource,
		Interval:   identity.Interval,
		Version:    identity.Version,
		ShardSpec:  &spec,
		TaskID:     taskID,
		OccurredAt: at,
	}
}
