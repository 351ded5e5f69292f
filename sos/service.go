package sos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateRequestReq struct {
	Type          EmergencyType `json:"type"`
	Severity      Severity      `json:"severity"`
	Description   string        `json:"description"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	ContactNumber string        `json:"contactNumber"`
}

type RegisterResponderReq struct {
	Name   string        `json:"name"`
	Region string        `json:"region"`
	Type   EmergencyType `json:"type"`
}

// Service persists emergency tickets and pushes a dispatch alert for each
// one through the broker. Publish failures never fail ticket creation.
type Service struct {
	db       *gorm.DB
	broker   Broker
	registry *ResponderRegistry
	appCtx   context.Context
}

func NewService(db *gorm.DB, broker Broker, registry *ResponderRegistry, appCtx context.Context) *Service {
	return &Service{
		db:       db,
		broker:   broker,
		registry: registry,
		appCtx:   appCtx,
	}
}

func (s *Service) CreateRequest(req CreateRequestReq) (*EmergencyRequest, error) {
	if !ValidEmergencyType(req.Type) {
		return nil, fmt.Errorf("unsupported emergency type: %s", req.Type)
	}
	if !ValidSeverity(req.Severity) {
		return nil, fmt.Errorf("unsupported severity: %s", req.Severity)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("description is required")
	}

	ticket := &EmergencyRequest{
		Type:          req.Type,
		Severity:      req.Severity,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ContactNumber: req.ContactNumber,
		Status:        StatusActive,
	}
	if err := gorm.G[EmergencyRequest](s.db).Create(s.appCtx, ticket); err != nil {
		return nil, err
	}
	log.Printf("[INFO] Created emergency request %s (%s/%s)", ticket.UUID, ticket.Type, ticket.Severity)

	alert := Alert{
		ID:        uuid.New(),
		RequestID: ticket.UUID,
		Type:      ticket.Type,
		Severity:  ticket.Severity,
		Message:   ticket.Description,
	}
	ctx, cancel := context.WithTimeout(s.appCtx, 2*time.Second)
	defer cancel()
	if err := s.broker.Publish(ctx, alert); err != nil {
		// Ticket is already persisted; dispatch trouble is an operational
		// concern, not a caller error.
		log.Printf("[WARN] Alert dispatch for request %s incomplete: %v", ticket.UUID, err)
	}

	return ticket, nil
}

func (s *Service) ListRequests(status RequestStatus) ([]EmergencyRequest, error) {
	q := gorm.G[EmergencyRequest](s.db)
	if status != "" {
		if !ValidRequestStatus(status) {
			return nil, fmt.Errorf("unsupported status filter: %s", status)
		}
		return q.Where("status = ?", status).Order("created_at desc").Find(s.appCtx)
	}
	return q.Order("created_at desc").Find(s.appCtx)
}

func (s *Service) GetRequest(id uuid.UUID) (*EmergencyRequest, error) {
	ticket, err := gorm.G[EmergencyRequest](s.db).Where("uuid = ?", id).First(s.appCtx)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *Service) UpdateStatus(id uuid.UUID, status RequestStatus) (*EmergencyRequest, error) {
	if !ValidRequestStatus(status) {
		return nil, fmt.Errorf("unsupported status: %s", status)
	}
	rows, err := gorm.G[EmergencyRequest](s.db).Where("uuid = ?", id).Update(s.appCtx, "status", status)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	log.Printf("[INFO] Emergency request %s moved to %s", id, status)
	return s.GetRequest(id)
}

func (s *Service) RegisterResponder(req RegisterResponderReq) (string, error) {
	if !ValidEmergencyType(req.Type) {
		return "", fmt.Errorf("unsupported emergency type: %s", req.Type)
	}
	if req.Name == "" {
		return "", fmt.Errorf("name is required")
	}

	responder := NewConsoleResponder(s.broker, req.Name, req.Region, req.Type)
	if err := s.registry.Register(responder); err != nil {
		return "", err
	}
	record := &RegisteredResponder{
		UUID:   responder.GetID(),
		Name:   req.Name,
		Region: req.Region,
		Type:   req.Type,
	}
	if err := gorm.G[RegisteredResponder](s.db).Create(s.appCtx, record); err != nil {
		s.registry.Unregister(responder)
		return "", err
	}
	log.Printf("successfully registered responder: %s", record.UUID)
	return record.UUID.String(), nil
}

func (s *Service) UnregisterResponder(id uuid.UUID) error {
	if err := s.registry.UnregisterByID(id.String()); err != nil {
		return err
	}
	_, err := gorm.G[RegisteredResponder](s.db).Where("uuid = ?", id).Delete(s.appCtx)
	return err
}

func (s *Service) ListResponders() ([]RegisteredResponder, error) {
	return gorm.G[RegisteredResponder](s.db).Order("created_at desc").Find(s.appCtx)
}
