// Package sos handles farmer emergency requests: tickets are persisted
// through the database, and each new ticket is dispatched as an alert to
// the responders registered for that emergency type.
package sos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmergencyType string

const (
	EmergencyPest      EmergencyType = "PestOutbreak"
	EmergencyDisease   EmergencyType = "CropDisease"
	EmergencyFlood     EmergencyType = "Flooding"
	EmergencyDrought   EmergencyType = "Drought"
	EmergencyEquipment EmergencyType = "EquipmentFailure"
	EmergencyMedical   EmergencyType = "Medical"
)

func ValidEmergencyType(t EmergencyType) bool {
	switch t {
	case EmergencyPest, EmergencyDisease, EmergencyFlood, EmergencyDrought, EmergencyEquipment, EmergencyMedical:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type RequestStatus string

const (
	StatusActive       RequestStatus = "Active"
	StatusAcknowledged RequestStatus = "Acknowledged"
	StatusResolved     RequestStatus = "Resolved"
)

func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved:
		return true
	}
	return false
}

type EmergencyRequest struct {
	gorm.Model
	UUID          uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Type          EmergencyType
	Severity      Severity
	Description   string
	Latitude      float64
	Longitude     float64
	ContactNumber string
	Status        RequestStatus
}

func (r *EmergencyRequest) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil { // Only generate if not already set
		r.UUID = uuid.New()
	}
	return nil
}

// RegisteredResponder is the persisted record of a responder subscribed to
// one emergency type. The live worker is tracked by the registry.
type RegisteredResponder struct {
	gorm.Model
	UUID   uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name   string
	Region string
	Type   EmergencyType
}
