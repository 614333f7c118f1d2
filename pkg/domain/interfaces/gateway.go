package interfaces

import (
	"context"

	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
)

// MessagingGateway is the external transport for end-user notifications.
// Delivery and retry guarantees are owned by the gateway; a failed SendBatch
// is fatal for the enclosing operation and is not retried here.
type MessagingGateway interface {
	SendBatch(ctx context.Context, messages []*message.Message) error
}
