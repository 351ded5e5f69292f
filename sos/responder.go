package sos

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type Responder interface {
	AlertHandler
	GetID() uuid.UUID
	GetTopic() EmergencyType
	Start(ctx context.Context)
	Shutdown()
}

type responderBase struct {
	ID      uuid.UUID
	broker  Broker // Interface for testability and flexibility
	inbox   Inbox
	topic   EmergencyType // Subscription topic for cleanup
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	handler AlertHandler // Injected responder-specific alert handler
}

func (r *responderBase) GetID() uuid.UUID {
	return r.ID
}

func (r *responderBase) GetTopic() EmergencyType {
	return r.topic
}

func (r *responderBase) Start(ctx context.Context) {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.listen(r.ctx)
}

func (r *responderBase) Shutdown() {
	r.cancel()
	r.broker.Unsubscribe(r.topic, r.inbox)
	r.wg.Wait()
}

func (r *responderBase) listen(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case alert := <-r.inbox:
			if r.handler != nil {
				r.handler.HandleAlert(alert)
			}
		case <-ctx.Done():
			return //exit
		}
	}
}

// ConsoleResponder acknowledges alerts for one emergency type and prints
// the dispatch details. Stands in for SMS or pager integrations.
type ConsoleResponder struct {
	responderBase
	Name   string
	Region string
}

func NewConsoleResponder(broker Broker, name, region string, topic EmergencyType) *ConsoleResponder {
	ch := broker.Subscribe(topic)

	r := &ConsoleResponder{
		responderBase: responderBase{
			ID:     uuid.New(),
			broker: broker,
			inbox:  ch,
			topic:  topic,
		},
		Name:   name,
		Region: region,
	}

	// Inject self as the alert handler (polymorphism via interface)
	r.handler = r

	return r
}

// HandleAlert implements the AlertHandler interface for ConsoleResponder.
func (r *ConsoleResponder) HandleAlert(alert Alert) {
	ackChan := r.broker.GetACKChannel()
	ackChan <- NewAlertAck(alert.ID, AlertDelivered, r.ID)

	log.Printf("[SOS] %s (%s) responding to %s/%s emergency %s: %s",
		r.Name, r.Region, alert.Type, alert.Severity, alert.RequestID, alert.Message)

	ackChan <- NewAlertAck(alert.ID, AlertHandled, r.ID)
}
