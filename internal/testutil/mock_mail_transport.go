package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/flexprice/costinvoice/internal/email"
)

var _ email.Transport = (*MockMailTransport)(nil)

// MockMailTransport records every message instead of delivering it
type MockMailTransport struct {
	mu       sync.Mutex
	messages []*email.Message
	err      error
}

func NewMockMailTransport() *MockMailTransport {
	return &MockMailTransport{}
}

func (m *MockMailTransport) Name() string {
	return "mock"
}

// SetError makes subsequent sends fail with err
func (m *MockMailTransport) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockMailTransport) Send(_ context.Context, msg *email.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.messages = append(m.messages, msg)
	return fmt.Sprintf("msg_%d", len(m.messages)), nil
}

// Messages returns the recorded messages
func (m *MockMailTransport) Messages() []*email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*email.Message(nil), m.messages...)
}
