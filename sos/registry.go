package sos

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// ResponderRegistry tracks live responder workers and their lifecycle
// contexts. The persisted RegisteredResponder rows are handled by Service.
type ResponderRegistry struct {
	responders map[string]Responder
	cancels    map[string]context.CancelFunc
	mu         sync.RWMutex
	appCtx     context.Context
	broker     Broker
}

func NewResponderRegistry(appCtx context.Context, broker Broker) *ResponderRegistry {
	return &ResponderRegistry{
		responders: make(map[string]Responder),
		cancels:    make(map[string]context.CancelFunc),
		appCtx:     appCtx,
		broker:     broker,
	}
}

func (m *ResponderRegistry) Register(responder Responder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := responder.GetID().String()
	if _, exists := m.responders[key]; exists {
		return fmt.Errorf("responder for key %s already exists", key)
	}
	ctx, cancel := context.WithCancel(m.appCtx)

	responder.Start(ctx)

	m.responders[key] = responder
	m.cancels[key] = cancel

	return nil
}

func (m *ResponderRegistry) Unregister(responder Responder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := responder.GetID().String()
	if _, exists := m.responders[key]; !exists {
		return fmt.Errorf("responder with id %s not found", key)
	}
	if cancel, exists := m.cancels[key]; exists {
		cancel() // Signal context cancellation
	}
	responder.Shutdown()
	delete(m.responders, key)
	delete(m.cancels, key)
	return nil
}

func (m *ResponderRegistry) UnregisterByID(uid string) error {
	m.mu.RLock()
	r, found := m.responders[uid]
	m.mu.RUnlock()
	if !found {
		return fmt.Errorf("failed to unregister responder with id %s", uid)
	}

	if err := m.Unregister(r); err != nil {
		return err
	}
	log.Printf("unregistered responder %s", uid)
	return nil
}

func (m *ResponderRegistry) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.responders)
}

func (m *ResponderRegistry) ShutdownAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, responder := range m.responders {
		if cancel, exists := m.cancels[key]; exists {
			cancel()
		}
		responder.Shutdown()
		delete(m.responders, key)
		delete(m.cancels, key)
	}
}
