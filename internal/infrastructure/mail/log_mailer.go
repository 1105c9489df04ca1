package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jobboard/jobboard-api/internal/core/ports"
)

// LogMailer writes each message to the structured log instead of an SMTP relay.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg ports.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields := make(map[string]any, len(msg.Payload))
	for k, v := range msg.Payload {
		fields[k] = v
	}
	m.log.Info().
		Str("to", msg.To).
		Str("name", msg.Name).
		Str("template", string(msg.Template)).
		Fields(fields).
		Msg("email sent")
	return nil
}
