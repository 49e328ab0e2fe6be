package fix

import (
	"context"
)

// MessageReader is implemented by transports that produce decoded FIX messages
// from some byte source (socket, serial port, capture file). The session layer
// consumes this interface.
type MessageReader interface {
	ReadMessage(ctx context.Context) (Message, error)
	Initialize() error
	Close() error
}
