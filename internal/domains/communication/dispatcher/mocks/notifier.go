// Package mocks holds a testify mock of the Notifier.
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"editorial-backend/internal/domains/communication/dispatcher"
	"editorial-backend/internal/domains/communication/model"
)

// Notifier records every notification. Expectations are optional: with none set,
// Notify only records, so tests can assert on Sent() afterwards.
type Notifier struct {
	mock.Mock

	mu   sync.Mutex
	sent []model.Notification
}

var _ dispatcher.Notifier = (*Notifier)(nil)

func (m *Notifier) Notify(ctx context.Context, n model.Notification) {
	m.mu.Lock()
	m.sent = append(m.sent, n)
	m.mu.Unlock()

	if len(m.ExpectedCalls) > 0 {
		m.Called(ctx, n)
	}
}

// Sent returns a copy of everything notified so far.
func (m *Notifier) Sent() []model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Notification(nil), m.sent...)
}

// SentOfType filters Sent by type.
func (m *Notifier) SentOfType(t model.Type) []model.Notification {
	var out []model.Notification
	for _, n := range m.Sent() {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
