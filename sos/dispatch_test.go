package sos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestNewAlertAck verifies the AlertAck helper creates correct acknowledgments
func TestNewAlertAck(t *testing.T) {
	alertID := uuid.New()
	responderID := uuid.New()
	status := AlertDelivered

	ack := NewAlertAck(alertID, status, responderID)

	if ack.AlertID != alertID {
		t.Errorf("Expected AlertID %v, got %v", alertID, ack.AlertID)
	}
	if ack.Status != status {
		t.Errorf("Expected Status %v, got %v", status, ack.Status)
	}
	if ack.ResponderID != responderID {
		t.Errorf("Expected ResponderID %v, got %v", responderID, ack.ResponderID)
	}
	if ack.Error != "" {
		t.Errorf("Expected empty Error, got %v", ack.Error)
	}
	if time.Since(ack.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

// TestNewErrAlertAck verifies error acknowledgment creation
func TestNewErrAlertAck(t *testing.T) {
	alertID := uuid.New()
	responderID := uuid.New()
	errorMsg := "radio unreachable"

	ack := NewErrAlertAck(alertID, responderID, errorMsg)

	if ack.Status != AlertFailed {
		t.Errorf("Expected Status Failed, got %v", ack.Status)
	}
	if ack.Error != errorMsg {
		t.Errorf("Expected Error %q, got %q", errorMsg, ack.Error)
	}
	if ack.AlertID != alertID {
		t.Errorf("Expected AlertID %v, got %v", alertID, ack.AlertID)
	}
}

func testAlert() Alert {
	return Alert{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		Type:      EmergencyFlood,
		Severity:  SeverityHigh,
		Message:   "river breached the east bund",
	}
}

// TestDispatchBroker_ProcessACKs verifies ACK processing updates alert state
func TestDispatchBroker_ProcessACKs(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	ctx := context.Background()
	sub := broker.Subscribe(EmergencyFlood)
	defer broker.Unsubscribe(EmergencyFlood, sub)

	if err := broker.Publish(ctx, alert); err != nil {
		t.Fatalf("Failed to publish alert: %v", err)
	}

	// Drain the subscriber channel
	select {
	case <-sub:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Alert should be received by subscriber")
	}

	responderID := uuid.New()
	ackChan := broker.GetACKChannel()

	ackChan <- NewAlertAck(alert.ID, AlertDelivered, responderID)

	// Give processACK time to run
	time.Sleep(50 * time.Millisecond)

	state, err := broker.GetAlertStatus(alert.ID)
	if err != nil {
		t.Fatalf("Failed to get alert status: %v", err)
	}
	if state.Status != AlertDelivered {
		t.Errorf("Expected status Delivered, got %v", state.Status)
	}
	if state.DeliveredAt == nil {
		t.Error("DeliveredAt should be set after Delivered ACK")
	}
	if state.ResponderID != responderID.String() {
		t.Errorf("Expected ResponderID %v, got %v", responderID.String(), state.ResponderID)
	}

	ackChan <- NewAlertAck(alert.ID, AlertHandled, responderID)

	time.Sleep(50 * time.Millisecond)

	state, err = broker.GetAlertStatus(alert.ID)
	if err != nil {
		t.Fatalf("Failed to get alert status: %v", err)
	}
	if state.Status != AlertHandled {
		t.Errorf("Expected status Handled, got %v", state.Status)
	}
	if state.HandledAt == nil {
		t.Error("HandledAt should be set after Handled ACK")
	}
}

// TestDispatchBroker_FailedAckQueuesRedelivery verifies a failed alert enters
// the redelivery queue with backoff scheduled
func TestDispatchBroker_FailedAckQueuesRedelivery(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	ctx := context.Background()
	sub := broker.Subscribe(EmergencyFlood)
	defer broker.Unsubscribe(EmergencyFlood, sub)

	if err := broker.Publish(ctx, alert); err != nil {
		t.Fatalf("Failed to publish alert: %v", err)
	}
	<-sub

	responderID := uuid.New()
	broker.GetACKChannel() <- NewErrAlertAck(alert.ID, responderID, "responder offline")

	time.Sleep(50 * time.Millisecond)

	broker.mu.RLock()
	rs, exists := broker.redeliveries[alert.ID]
	broker.mu.RUnlock()

	if !exists {
		t.Fatal("Alert should be in redelivery queue after first failure")
	}
	if rs.Attempts != 1 {
		t.Errorf("Expected Attempts = 1, got %d", rs.Attempts)
	}
	if rs.LastError != "responder offline" {
		t.Errorf("Expected LastError 'responder offline', got %q", rs.LastError)
	}
	if rs.NextAttempt.IsZero() {
		t.Error("NextAttempt should be set")
	}
}

// TestDispatchBroker_HandledRemovesFromRedelivery verifies a Handled ACK
// clears the redelivery entry
func TestDispatchBroker_HandledRemovesFromRedelivery(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	sub := broker.Subscribe(EmergencyFlood)
	defer broker.Unsubscribe(EmergencyFlood, sub)

	broker.Publish(context.Background(), alert)
	<-sub

	responderID := uuid.New()
	ackChan := broker.GetACKChannel()

	ackChan <- NewErrAlertAck(alert.ID, responderID, "first failure")
	time.Sleep(50 * time.Millisecond)

	ackChan <- NewAlertAck(alert.ID, AlertHandled, responderID)
	time.Sleep(50 * time.Millisecond)

	broker.mu.RLock()
	_, exists := broker.redeliveries[alert.ID]
	broker.mu.RUnlock()

	if exists {
		t.Error("Alert should be removed from redelivery queue after Handled ACK")
	}
}

// TestDispatchBroker_EscalatesAfterMaxAttempts verifies exhausted alerts move
// to the escalation queue
func TestDispatchBroker_EscalatesAfterMaxAttempts(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	sub := broker.Subscribe(EmergencyFlood)
	defer broker.Unsubscribe(EmergencyFlood, sub)

	broker.Publish(context.Background(), alert)
	<-sub

	responderID := uuid.New()
	ackChan := broker.GetACKChannel()

	maxAttempts := broker.redeliveryConf.MaxAttempts
	for i := 1; i <= maxAttempts+1; i++ {
		ackChan <- NewErrAlertAck(alert.ID, responderID, "nobody answering")
		time.Sleep(50 * time.Millisecond)
	}

	broker.mu.RLock()
	_, inQueue := broker.redeliveries[alert.ID]
	broker.mu.RUnlock()
	if inQueue {
		t.Error("Alert should leave the redelivery queue after exceeding max attempts")
	}

	escalations := broker.GetEscalations()
	if len(escalations) != 1 {
		t.Fatalf("Expected 1 escalation, got %d", len(escalations))
	}

	entry := escalations[0]
	if entry.Alert.ID != alert.ID {
		t.Errorf("Expected alert ID %v escalated, got %v", alert.ID, entry.Alert.ID)
	}
	if entry.Attempts != maxAttempts+1 {
		t.Errorf("Expected %d attempts, got %d", maxAttempts+1, entry.Attempts)
	}
	if entry.LastError != "nobody answering" {
		t.Errorf("Expected LastError 'nobody answering', got %q", entry.LastError)
	}
	if entry.EscalatedAt.IsZero() {
		t.Error("Expected EscalatedAt to be set")
	}
}

// TestGetEscalationsReturnsCopy verifies GetEscalations returns a copy
func TestGetEscalationsReturnsCopy(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	broker.escalationsMu.Lock()
	broker.escalations = []Escalation{
		{Alert: testAlert(), Reason: "test", Attempts: 4, LastError: "error1", EscalatedAt: time.Now()},
		{Alert: testAlert(), Reason: "test", Attempts: 4, LastError: "error2", EscalatedAt: time.Now()},
	}
	broker.escalationsMu.Unlock()

	first := broker.GetEscalations()
	second := broker.GetEscalations()

	if len(first) != 2 {
		t.Fatalf("Expected 2 escalations, got %d", len(first))
	}

	first[0].LastError = "modified"

	if second[0].LastError == "modified" {
		t.Error("Modifying returned slice affected internal state")
	}
}

// TestRequeueEscalation verifies an escalated alert can be requeued with a
// fresh attempt budget
func TestRequeueEscalation(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	broker.escalationsMu.Lock()
	broker.escalations = []Escalation{
		{Alert: alert, Reason: "redelivery attempts exceeded", Attempts: 4, LastError: "test error", EscalatedAt: time.Now()},
	}
	broker.escalationsMu.Unlock()

	if err := broker.RequeueEscalation(alert.ID); err != nil {
		t.Fatalf("Failed to requeue escalation: %v", err)
	}

	if got := broker.GetEscalations(); len(got) != 0 {
		t.Errorf("Expected empty escalation queue after requeue, got %d", len(got))
	}

	broker.mu.RLock()
	rs, exists := broker.redeliveries[alert.ID]
	broker.mu.RUnlock()

	if !exists {
		t.Fatal("Alert not found in redelivery queue after requeue")
	}
	if rs.Attempts != 0 {
		t.Errorf("Expected Attempts = 0 for requeued alert, got %d", rs.Attempts)
	}
	if rs.LastError != "test error" {
		t.Errorf("Expected LastError preserved, got %q", rs.LastError)
	}
}

// TestRequeueEscalationNotFound verifies error when alert not escalated
func TestRequeueEscalationNotFound(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	if err := broker.RequeueEscalation(uuid.New()); err == nil {
		t.Fatal("Expected error when requeuing non-existent alert, got nil")
	}
}

// TestDismissEscalation verifies an escalation can be dropped
func TestDismissEscalation(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	keep := testAlert()
	drop := testAlert()
	broker.escalationsMu.Lock()
	broker.escalations = []Escalation{
		{Alert: drop, Reason: "test", Attempts: 4, EscalatedAt: time.Now()},
		{Alert: keep, Reason: "test", Attempts: 4, EscalatedAt: time.Now()},
	}
	broker.escalationsMu.Unlock()

	if err := broker.DismissEscalation(drop.ID); err != nil {
		t.Fatalf("Failed to dismiss escalation: %v", err)
	}

	got := broker.GetEscalations()
	if len(got) != 1 {
		t.Fatalf("Expected 1 escalation after dismissal, got %d", len(got))
	}
	if got[0].Alert.ID != keep.ID {
		t.Errorf("Expected alert %v to remain, got %v", keep.ID, got[0].Alert.ID)
	}

	if err := broker.DismissEscalation(uuid.New()); err == nil {
		t.Error("Expected error when dismissing non-existent alert, got nil")
	}
}

// TestDispatchBroker_UnknownAlertAck verifies an ACK for an unpublished alert
// is logged and dropped
func TestDispatchBroker_UnknownAlertAck(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	unknownID := uuid.New()
	broker.GetACKChannel() <- NewAlertAck(unknownID, AlertHandled, uuid.New())

	time.Sleep(50 * time.Millisecond)

	if _, err := broker.GetAlertStatus(unknownID); err == nil {
		t.Error("Expected error for unknown alert ID")
	}
}

// TestCalculateBackoff verifies exponential backoff calculation
func TestCalculateBackoff(t *testing.T) {
	config := RedeliveryConfig{
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
	}

	tests := []struct {
		attempts int
		expected time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // 32s capped at MaxBackoff
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		result := calculateBackoff(tt.attempts, config)
		if result != tt.expected {
			t.Errorf("calculateBackoff(%d): expected %v, got %v", tt.attempts, tt.expected, result)
		}
	}
}

// TestConsoleResponder_Lifecycle is an integration test verifying a responder
// picks an alert off its topic and acks Delivered then Handled
func TestConsoleResponder_Lifecycle(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	responder := NewConsoleResponder(broker, "Ravi", "North Block", EmergencyPest)
	responder.Start(context.Background())
	defer responder.Shutdown()

	alert := Alert{
		ID:        uuid.New(),
		RequestID: uuid.New(),
		Type:      EmergencyPest,
		Severity:  SeverityMedium,
		Message:   "locusts sighted near plot 4",
	}

	if err := broker.Publish(context.Background(), alert); err != nil {
		t.Fatalf("Failed to publish alert: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	state, err := broker.GetAlertStatus(alert.ID)
	if err != nil {
		t.Fatalf("Failed to get alert status: %v", err)
	}
	if state.Status != AlertHandled {
		t.Errorf("Expected status Handled, got %v", state.Status)
	}
	if state.DeliveredAt == nil {
		t.Error("DeliveredAt should be set")
	}
	if state.HandledAt == nil {
		t.Error("HandledAt should be set")
	}
	if state.ResponderID != responder.GetID().String() {
		t.Errorf("Expected ResponderID %v, got %v", responder.GetID(), state.ResponderID)
	}
}

// TestDispatchBroker_NoSubscribers verifies publishing with no responders is
// tracked but does not error
func TestDispatchBroker_NoSubscribers(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	alert := testAlert()
	if err := broker.Publish(context.Background(), alert); err != nil {
		t.Fatalf("Publish without subscribers should not error, got %v", err)
	}

	state, err := broker.GetAlertStatus(alert.ID)
	if err != nil {
		t.Fatalf("Failed to get alert status: %v", err)
	}
	if state.Status != AlertQueued {
		t.Errorf("Expected status Queued, got %v", state.Status)
	}
}

// TestResponderRegistry verifies register/unregister lifecycle management
func TestResponderRegistry(t *testing.T) {
	broker := NewDispatchBroker()
	defer broker.Shutdown()

	registry := NewResponderRegistry(context.Background(), broker)

	responder := NewConsoleResponder(broker, "Meera", "South Block", EmergencyDrought)
	if err := registry.Register(responder); err != nil {
		t.Fatalf("Failed to register responder: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Expected 1 registered responder, got %d", registry.Count())
	}

	if err := registry.Register(responder); err == nil {
		t.Error("Expected error registering the same responder twice")
	}

	if err := registry.UnregisterByID(responder.GetID().String()); err != nil {
		t.Fatalf("Failed to unregister responder: %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("Expected 0 registered responders, got %d", registry.Count())
	}

	if err := registry.UnregisterByID(responder.GetID().String()); err == nil {
		t.Error("Expected error unregistering an unknown responder")
	}
}
