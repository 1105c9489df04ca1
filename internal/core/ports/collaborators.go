package ports

import (
	"context"
	"io"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

// FileStore keeps uploaded files under opaque relative paths.
type FileStore interface {
	// Put writes data under dir and returns the stored path.
	Put(ctx context.Context, dir, name string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Notifier queues notifications for asynchronous delivery. Enqueue must never
// block the caller and never reports delivery failures.
type Notifier interface {
	Enqueue(n domain.Notification)
}

// Message is a rendered-ready email handed to the mail transport.
type Message struct {
	To       string
	Name     string
	Template domain.NotificationTemplate
	Payload  map[string]string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
