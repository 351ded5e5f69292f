package sos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Inbox chan Alert

type Broker interface {
	Subscribe(topic EmergencyType) Inbox
	Unsubscribe(topic EmergencyType, ch Inbox)
	Publish(ctx context.Context, alert Alert) error
	GetACKChannel() chan AlertAck
	GetAlertStatus(alertID uuid.UUID) (*AlertState, error)
	Shutdown()
}

type EscalationManager interface {
	GetEscalations() []Escalation
	RequeueEscalation(alertID uuid.UUID) error
	DismissEscalation(alertID uuid.UUID) error
	ClearEscalations()
}

// DispatchBroker fans alerts out to responder inboxes per emergency type,
// tracks acknowledgements, redelivers unhandled alerts with backoff and
// escalates the ones that exhaust their attempts.
type DispatchBroker struct {
	subscribers    map[EmergencyType][]Inbox
	ackChan        chan AlertAck
	alertStates    map[uuid.UUID]*AlertState
	redeliveries   map[uuid.UUID]*redeliveryState
	redeliveryConf RedeliveryConfig
	mu             sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	escalations    []Escalation
	escalationsMu  sync.RWMutex
}

func NewDispatchBroker() *DispatchBroker {
	ctx, cancel := context.WithCancel(context.Background())
	b := &DispatchBroker{
		subscribers:    make(map[EmergencyType][]Inbox),
		ackChan:        make(chan AlertAck, 100),
		alertStates:    make(map[uuid.UUID]*AlertState),
		redeliveries:   make(map[uuid.UUID]*redeliveryState),
		redeliveryConf: DefaultRedeliveryConfig(),
		ctx:            ctx,
		cancel:         cancel,
	}

	b.wg.Add(2)
	go b.listenForACKs()
	go b.runRedeliveryLoop()

	return b
}

func (b *DispatchBroker) Subscribe(topic EmergencyType) Inbox {
	ch := make(Inbox, 10)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}

func (b *DispatchBroker) Unsubscribe(topic EmergencyType, ch Inbox) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[topic]
	for i, sub := range subs {
		if sub == ch {
			b.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	log.Printf("Responder unsubscribed from '%s' alerts", topic)
}

func (b *DispatchBroker) Publish(ctx context.Context, alert Alert) error {
	// Track the alert before delivery so acks can never race an unknown ID
	b.mu.Lock()
	b.alertStates[alert.ID] = &AlertState{
		Alert:       alert,
		PublishedAt: time.Now(),
		Status:      AlertQueued,
	}
	b.mu.Unlock()

	b.mu.RLock()
	subs := b.subscribers[alert.Type]
	b.mu.RUnlock()

	if len(subs) == 0 {
		log.Printf("[WARN] No responders for '%s', alert %s for request %s not delivered",
			alert.Type, alert.ID, alert.RequestID)
		return nil
	}

	var (
		successCount     int
		timeoutCount     int
		channelFullCount int
	)

	for i, sub := range subs {
		select {
		case sub <- alert:
			successCount++
			log.Printf("[DEBUG] Alert %s delivered to responder %d for '%s'", alert.ID, i, alert.Type)
		case <-ctx.Done():
			timeoutCount++
			log.Printf("[ERROR] Alert %s failed to responder %d for '%s': context timeout/cancelled",
				alert.ID, i, alert.Type)
		default:
			channelFullCount++
			log.Printf("[ERROR] Alert %s failed to responder %d for '%s': inbox full",
				alert.ID, i, alert.Type)
		}
	}

	if timeoutCount > 0 || channelFullCount > 0 {
		return fmt.Errorf(
			"partial alert delivery for '%s': %d/%d delivered (%d timeout, %d inbox full)",
			alert.Type, successCount, len(subs), timeoutCount, channelFullCount,
		)
	}

	log.Printf("[INFO] Alert %s delivered to all %d responders for '%s'",
		alert.ID, successCount, alert.Type)
	return nil
}

func (b *DispatchBroker) GetACKChannel() chan AlertAck {
	return b.ackChan
}

func (b *DispatchBroker) listenForACKs() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case ack, ok := <-b.ackChan:
			if !ok {
				return
			}
			b.processACK(ack)
		}
	}
}

func (b *DispatchBroker) processACK(ack AlertAck) {
	log.Printf("[ACK] Alert %s: %s (responder: %s, time: %s)",
		ack.AlertID, ack.Status, ack.ResponderID, ack.Timestamp)

	if ack.Status == AlertFailed && ack.Error != "" {
		log.Printf("[ACK] Error details: %s", ack.Error)
	}

	b.mu.Lock()
	state, exists := b.alertStates[ack.AlertID]
	if !exists {
		b.mu.Unlock()
		log.Printf("ack for unknown alert %s", ack.AlertID)
		return
	}

	state.Status = ack.Status
	state.ResponderID = ack.ResponderID.String()

	switch ack.Status {
	case AlertDelivered:
		if state.DeliveredAt == nil {
			now := ack.Timestamp
			state.DeliveredAt = &now
		}
	case AlertHandled:
		if state.HandledAt == nil {
			now := ack.Timestamp
			state.HandledAt = &now
		}
		delete(b.redeliveries, ack.AlertID)
	case AlertFailed:
		rs, ok := b.redeliveries[ack.AlertID]
		if !ok {
			rs = &redeliveryState{
				Alert:       state.Alert,
				Attempts:    1,
				MaxAttempts: b.redeliveryConf.MaxAttempts,
				LastAttempt: time.Now(),
				LastError:   ack.Error,
			}
			rs.NextAttempt = time.Now().Add(calculateBackoff(rs.Attempts, b.redeliveryConf))
			b.redeliveries[ack.AlertID] = rs
			log.Printf("[REDELIVER] Alert %s failed, attempt %d scheduled for %s",
				ack.AlertID, rs.Attempts+1, rs.NextAttempt)
		} else {
			rs.Attempts++
			rs.LastError = ack.Error
			if rs.Attempts > b.redeliveryConf.MaxAttempts {
				log.Printf("[REDELIVER] Alert %s exceeded max attempts (%d), escalating",
					ack.AlertID, b.redeliveryConf.MaxAttempts)
				delete(b.redeliveries, ack.AlertID)
				entry := Escalation{
					Alert:       rs.Alert,
					Reason:      "redelivery attempts exceeded",
					Attempts:    rs.Attempts,
					LastError:   rs.LastError,
					EscalatedAt: time.Now(),
				}
				b.escalationsMu.Lock()
				b.escalations = append(b.escalations, entry)
				b.escalationsMu.Unlock()
				break
			}
			rs.NextAttempt = time.Now().Add(calculateBackoff(rs.Attempts, b.redeliveryConf))
			log.Printf("[REDELIVER] Alert %s failed, attempt %d scheduled for %s",
				ack.AlertID, rs.Attempts+1, rs.NextAttempt)
		}
	}
	b.mu.Unlock()
}

func (b *DispatchBroker) GetAlertStatus(alertID uuid.UUID) (*AlertState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	state, exists := b.alertStates[alertID]
	if !exists {
		return nil, fmt.Errorf("alert %s not found", alertID)
	}
	stateCopy := *state
	return &stateCopy, nil
}

func (b *DispatchBroker) Shutdown() {
	// Signal all goroutines to stop
	b.cancel()

	// Wait for all goroutines to finish
	b.wg.Wait()

	// Close the ACK channel to prevent further writes
	close(b.ackChan)
}

func calculateBackoff(attempts int, config RedeliveryConfig) time.Duration {
	if attempts == 0 {
		return 0
	}
	backoff := math.Pow(config.BackoffFactor, float64(attempts))
	backoff = backoff * float64(config.InitialBackoff)
	backoff = math.Min(backoff, float64(config.MaxBackoff))

	return time.Duration(backoff)
}

func (b *DispatchBroker) runRedeliveryLoop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-time.After(1 * time.Second):
			b.mu.Lock()
			var due []Alert
			for _, rs := range b.redeliveries {
				if rs.NextAttempt.After(time.Now()) {
					continue
				}
				rs.LastAttempt = time.Now()
				due = append(due, rs.Alert)
			}
			b.mu.Unlock()

			for _, alert := range due {
				if err := b.Publish(context.Background(), alert); err != nil {
					log.Printf("[REDELIVER] Republish of alert %s failed: %v", alert.ID, err)
					continue
				}
				log.Printf("[REDELIVER] Republished alert %s", alert.ID)
			}
		}
	}
}

func (b *DispatchBroker) GetEscalations() []Escalation {
	b.escalationsMu.RLock()
	defer b.escalationsMu.RUnlock()
	cpy := make([]Escalation, len(b.escalations))
	copy(cpy, b.escalations)
	return cpy
}

// RequeueEscalation puts an escalated alert back on the redelivery queue
// with a fresh attempt budget.
func (b *DispatchBroker) RequeueEscalation(alertID uuid.UUID) error {
	b.escalationsMu.Lock()

	var found bool
	var alert Alert
	var lastError string
	for i, e := range b.escalations {
		if e.Alert.ID == alertID {
			alert = e.Alert
			lastError = e.LastError
			b.escalations = append(b.escalations[:i], b.escalations[i+1:]...)
			found = true
			break
		}
	}
	b.escalationsMu.Unlock()

	if !found {
		return errors.New("alert not found in escalation queue")
	}

	b.mu.Lock()
	b.redeliveries[alertID] = &redeliveryState{
		Alert:       alert,
		Attempts:    0,
		MaxAttempts: b.redeliveryConf.MaxAttempts,
		LastAttempt: time.Now(),
		NextAttempt: time.Now(),
		LastError:   lastError,
	}
	b.mu.Unlock()

	return nil
}

func (b *DispatchBroker) DismissEscalation(alertID uuid.UUID) error {
	b.escalationsMu.Lock()
	defer b.escalationsMu.Unlock()
	for i, e := range b.escalations {
		if e.Alert.ID == alertID {
			b.escalations = append(b.escalations[:i], b.escalations[i+1:]...)
			return nil
		}
	}
	return errors.New("alert not found in escalation queue")
}

func (b *DispatchBroker) ClearEscalations() {
	b.escalationsMu.Lock()
	defer b.escalationsMu.Unlock()
	b.escalations = nil
}
