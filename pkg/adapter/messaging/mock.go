package messaging

import (
	"context"
	"sync"

	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
)

// Mock records batches instead of sending them. SendBatchFunc, when set,
// decides the result of each call.
type Mock struct {
	mu      sync.Mutex
	batches [][]*message.Message

	SendBatchFunc func(ctx context.Context, messages []*message.Message) error
}

var _ interfaces.MessagingGateway = &Mock{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendBatch(ctx context.Context, messages []*message.Message) error {
	m.mu.Lock()
	batch := make([]*message.Message, len(messages))
	copy(batch, messages)
	m.batches = append(m.batches, batch)
	m.mu.Unlock()

	if m.SendBatchFunc != nil {
		return m.SendBatchFunc(ctx, messages)
	}
	return nil
}

// Batches returns every batch handed to the gateway, in call order.
func (m *Mock) Batches() [][]*message.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	batches := make([][]*message.Message, len(m.batches))
	copy(batches, m.batches)
	return batches
}

// Messages returns all messages across batches, in send order.
func (m *Mock) Messages() []*message.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []*message.Message
	for _, batch := range m.batches {
		all = append(all, batch...)
	}
	return all
}
