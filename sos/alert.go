package sos

import (
	"time"

	"github.com/google/uuid"
)

type AlertStatus string

const (
	AlertQueued    AlertStatus = "Queued"
	AlertDelivered AlertStatus = "Delivered"
	AlertHandled   AlertStatus = "Handled"
	AlertFailed    AlertStatus = "Failed"
)

// Alert is the dispatch message fanned out to responders when a ticket is
// created. The topic is the emergency type.
type Alert struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	Type      EmergencyType
	Severity  Severity
	Message   string
}

type AlertHandler interface {
	HandleAlert(alert Alert)
}

type AlertState struct {
	Alert       Alert
	PublishedAt time.Time
	DeliveredAt *time.Time
	HandledAt   *time.Time
	Status      AlertStatus
	ResponderID string
}

type AlertAck struct {
	AlertID     uuid.UUID
	Status      AlertStatus
	ResponderID uuid.UUID
	Timestamp   time.Time
	Error       string
}

func NewAlertAck(aid uuid.UUID, s AlertStatus, rid uuid.UUID) AlertAck {
	return AlertAck{
		AlertID:     aid,
		Status:      s,
		ResponderID: rid,
		Timestamp:   time.Now(),
	}
}

func NewErrAlertAck(aid uuid.UUID, rid uuid.UUID, errorMsg string) AlertAck {
	ack := NewAlertAck(aid, AlertFailed, rid)
	ack.Error = errorMsg
	return ack
}

type RedeliveryConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

func DefaultRedeliveryConfig() RedeliveryConfig {
	return RedeliveryConfig{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     30 * time.Second,
		BackoffFactor:  2.0,
	}
}

type redeliveryState struct {
	Alert       Alert
	Attempts    int
	MaxAttempts int
	LastAttempt time.Time
	NextAttempt time.Time
	LastError   string
}

// Escalation records an alert no responder handled within the redelivery
// budget. Someone has to pick these up manually.
type Escalation struct {
	Alert       Alert
	Reason      string
	Attempts    int
	LastError   string
	EscalatedAt time.Time
}
